package engines

import (
	"context"
	"strings"

	"github.com/neurlang/goruut/lib"
	"github.com/neurlang/goruut/models/requests"
)

// goruut language names for the codes the default table serves.
var goruutLanguages = map[string]string{
	"en": "English",
	"ru": "Russian",
	"th": "Thai",
}

// Goruut phonemizes through the goruut neural phonemizer.
type Goruut struct {
	p        *lib.Phonemizer
	language string
}

// NewGoruut returns an engine for a goruut language name such as "English".
func NewGoruut(language string) *Goruut {
	return &Goruut{
		p:        lib.NewPhonemizer(nil),
		language: language,
	}
}

func (g *Goruut) Phonemize(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	resp := g.p.Sentence(requests.PhonemizeSentence{
		Language: g.language,
		Sentence: text,
	})

	var b strings.Builder
	for i, word := range resp.Words {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(word.PrePunct + word.Phonetic + word.PostPunct)
	}
	return b.String(), nil
}
