// Package langid identifies the language of single words for scripts that
// are shared by many languages (Latin, Devanagari).
package langid

import (
	"errors"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pemistahl/lingua-go"
)

// ErrUndetermined is returned when a word is too short or too ambiguous.
var ErrUndetermined = errors.New("langid: language undetermined")

// Identifier returns the ISO 639-1 code of a word.
type Identifier interface {
	Identify(word string) (string, error)
}

// IdentifierFunc adapts a function to the Identifier interface.
type IdentifierFunc func(word string) (string, error)

func (f IdentifierFunc) Identify(word string) (string, error) { return f(word) }

// Options configures the lingua detector.
type Options struct {
	// Languages restricts detection to these ISO 639-1 codes. Fewer than
	// two usable codes means all languages.
	Languages []string
	// MinDistance is lingua's minimum relative distance; 0 disables it.
	MinDistance float64
}

// Lingua wraps a lingua-go detector.
type Lingua struct {
	detector lingua.LanguageDetector
}

// NewLingua builds the detector. Building loads language models and is slow;
// callers should share one instance.
func NewLingua(opts Options) *Lingua {
	var langs []lingua.Language
	for _, code := range opts.Languages {
		iso := lingua.GetIsoCode639_1FromValue(strings.ToUpper(strings.TrimSpace(code)))
		lang := lingua.GetLanguageFromIsoCode639_1(iso)
		if lang == lingua.Unknown {
			continue
		}
		langs = append(langs, lang)
	}

	var b lingua.LanguageDetectorBuilder
	if len(langs) >= 2 {
		b = lingua.NewLanguageDetectorBuilder().FromLanguages(langs...)
	} else {
		b = lingua.NewLanguageDetectorBuilder().FromAllLanguages()
	}
	if opts.MinDistance > 0 {
		b = b.WithMinimumRelativeDistance(min(opts.MinDistance, 0.99))
	}
	return &Lingua{detector: b.Build()}
}

// Identify returns the lowercase ISO 639-1 code of word.
func (l *Lingua) Identify(word string) (string, error) {
	lang, ok := l.detector.DetectLanguageOf(word)
	if !ok || lang == lingua.Unknown {
		return "", ErrUndetermined
	}
	return strings.ToLower(lang.IsoCode639_1().String()), nil
}

// Cached memoizes another Identifier, failures included.
type Cached struct {
	next  Identifier
	cache *lru.Cache[string, result]
}

type result struct {
	lang string
	err  error
}

// NewCached wraps next with an LRU cache holding up to size words.
func NewCached(next Identifier, size int) (*Cached, error) {
	if size <= 0 {
		size = 4096
	}
	c, err := lru.New[string, result](size)
	if err != nil {
		return nil, err
	}
	return &Cached{next: next, cache: c}, nil
}

func (c *Cached) Identify(word string) (string, error) {
	key := strings.ToLower(word)
	if r, ok := c.cache.Get(key); ok {
		return r.lang, r.err
	}
	lang, err := c.next.Identify(word)
	c.cache.Add(key, result{lang: lang, err: err})
	return lang, err
}
