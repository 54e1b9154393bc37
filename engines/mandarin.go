package engines

import (
	"context"
	"strings"

	"github.com/mozillazg/go-pinyin"

	"polyphon/model"
	"polyphon/script"
)

// Mandarin writes Han characters as pinyin syllables. Every other rune,
// including kana and hangul, is copied unchanged.
type Mandarin struct {
	args pinyin.Args
}

// NewMandarin returns a pinyin engine; tones selects numbered tones
// ("zhong1") over bare syllables.
func NewMandarin(tones bool) *Mandarin {
	a := pinyin.NewArgs()
	a.Style = pinyin.Normal
	if tones {
		a.Style = pinyin.Tone3
	}
	a.Fallback = func(r rune, _ pinyin.Args) []string {
		return []string{string(r)}
	}
	return &Mandarin{args: a}
}

func (m *Mandarin) Phonemize(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var (
		b   strings.Builder
		han []rune
	)
	flush := func() {
		if len(han) == 0 {
			return
		}
		var syllables []string
		for _, alts := range pinyin.Pinyin(string(han), m.args) {
			if len(alts) > 0 {
				syllables = append(syllables, alts[0])
			}
		}
		b.WriteString(strings.Join(syllables, " "))
		han = han[:0]
	}
	for _, r := range text {
		if script.In(r, model.Han) {
			han = append(han, r)
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()
	return b.String(), nil
}
