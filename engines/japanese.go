package engines

import (
	"context"
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/dict"
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome-dict/uni"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"polyphon/kana"
)

// Japanese phonemizes with kagome morpheme pronunciations. Morphemes with
// no pronunciation (unknown words, foreign script) are copied unchanged so
// that the orchestrator can redetect them.
type Japanese struct {
	t *tokenizer.Tokenizer
}

// NewJapanese loads a kagome dictionary: "ipa" (default) or "uni".
func NewJapanese(dictName string) (*Japanese, error) {
	var d *dict.Dict
	switch strings.ToLower(dictName) {
	case "", "ipa":
		d = ipa.Dict()
	case "uni":
		d = uni.Dict()
	default:
		return nil, fmt.Errorf("engines: unknown kagome dictionary %q", dictName)
	}
	t, err := tokenizer.New(d, tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("engines: kagome tokenizer: %w", err)
	}
	return &Japanese{t: t}, nil
}

func (j *Japanese) Phonemize(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var parts []string
	for _, tok := range j.t.Tokenize(text) {
		if strings.TrimSpace(tok.Surface) == "" {
			continue
		}
		pron, ok := tok.Pronunciation()
		if !ok || pron == "" || pron == "*" {
			pron = tok.Surface
		}
		parts = append(parts, kana.ToIPA(pron))
	}
	return strings.Join(parts, " "), nil
}
