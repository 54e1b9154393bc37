// Package engines holds the concrete per-language phonemizers and the
// default dispatch table.
package engines

import (
	"context"
	"fmt"

	"polyphon/dictionary"
	"polyphon/phonemizer"
)

// DictionaryPaths points at a tipa dictionary and its optional fallback.
type DictionaryPaths struct {
	Main  string `yaml:"main"`
	Final string `yaml:"final"`
}

// Options selects and tunes the engines of the default table.
type Options struct {
	// Enabled restricts the built-in engines; empty means all of them.
	Enabled []string
	// KagomeDict is "ipa" or "uni".
	KagomeDict string
	// PinyinTones writes numbered tones.
	PinyinTones bool
	// Dictionaries adds (or replaces) engines backed by tipa dictionaries.
	Dictionaries map[string]DictionaryPaths
}

// Builtin lists the languages with a built-in engine.
var Builtin = []string{"en", "ja", "ru", "th", "zh"}

// Factories returns the dispatch table for opts. Nothing is loaded until
// the registry asks a factory for its engine.
func Factories(opts Options) (map[string]phonemizer.Factory, error) {
	builtin := map[string]phonemizer.Factory{
		"ja": func(context.Context, string) (phonemizer.Phonemizer, error) {
			return NewJapanese(opts.KagomeDict)
		},
		"zh": func(context.Context, string) (phonemizer.Phonemizer, error) {
			return NewMandarin(opts.PinyinTones), nil
		},
	}
	for code, name := range goruutLanguages {
		name := name
		builtin[code] = func(context.Context, string) (phonemizer.Phonemizer, error) {
			return NewGoruut(name), nil
		}
	}

	out := make(map[string]phonemizer.Factory)
	if len(opts.Enabled) == 0 {
		for code, f := range builtin {
			out[code] = f
		}
	}
	for _, code := range opts.Enabled {
		f, ok := builtin[code]
		if !ok {
			return nil, fmt.Errorf("engines: no built-in engine for %q", code)
		}
		out[code] = f
	}

	for code, paths := range opts.Dictionaries {
		paths := paths
		out[code] = func(context.Context, string) (phonemizer.Phonemizer, error) {
			main, final, err := dictionary.LoadPair(paths.Main, paths.Final)
			if err != nil {
				return nil, err
			}
			return NewDictionary(main, final), nil
		}
	}
	return out, nil
}
