package engines

import (
	"context"
	"sort"
	"strings"

	"github.com/temporal-IPA/tipa/pkg/g2p"
	"github.com/temporal-IPA/tipa/pkg/phono"
)

// Dictionary phonemizes with a greedy longest-match scan over tipa
// pronunciation dictionaries. Text the dictionaries do not cover is copied
// unchanged.
type Dictionary struct {
	d *g2p.Determinist
}

// NewDictionary builds the scanner; final may be nil.
func NewDictionary(main, final phono.Dictionary) *Dictionary {
	return &Dictionary{d: g2p.NewDeterminist(main, final)}
}

func (d *Dictionary) Phonemize(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return compose(d.d.Scan(text, true)), nil
}

// compose rebuilds a linear text from a scan result: fragments contribute
// their IPA, raw texts their surface. Only the first (most confident)
// variant of a span is kept.
func compose(res g2p.Result) string {
	type piece struct {
		pos  int
		text string
	}
	pieces := make([]piece, 0, len(res.Fragments)+len(res.RawTexts))
	seen := make(map[int]bool, len(res.Fragments))
	for _, f := range res.Fragments {
		if seen[f.Pos] {
			continue
		}
		seen[f.Pos] = true
		pieces = append(pieces, piece{pos: f.Pos, text: string(f.IPA)})
	}
	for _, rt := range res.RawTexts {
		pieces = append(pieces, piece{pos: rt.Pos, text: rt.Text})
	}
	sort.SliceStable(pieces, func(i, j int) bool { return pieces[i].pos < pieces[j].pos })

	var b strings.Builder
	for _, p := range pieces {
		b.WriteString(p.text)
	}
	return b.String()
}
