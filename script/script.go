// Package script classifies characters into writing systems and splits
// text into runs of a single system.
package script

import (
	"unicode"
	"unicode/utf8"

	"polyphon/model"
)

type span struct{ lo, hi rune }

// ranges are inclusive and do not overlap between systems.
var ranges = []struct {
	system model.WritingSystem
	spans  []span
}{
	{model.Han, []span{{0x4E00, 0x9FFF}, {0x3400, 0x4DBF}, {0x20000, 0x2A6DF}, {0x2A700, 0x2B73F}, {0x2B740, 0x2B81F}}},
	{model.Kana, []span{{0x3040, 0x309F}, {0x30A0, 0x30FF}}},
	{model.Hangul, []span{{0xAC00, 0xD7AF}}},
	{model.Arabic, []span{{0x0600, 0x06FF}, {0x0750, 0x077F}, {0x08A0, 0x08FF}}},
	{model.Cyrillic, []span{{0x0400, 0x04FF}}},
	{model.Devanagari, []span{{0x0900, 0x097F}}},
	{model.Hebrew, []span{{0x0590, 0x05FF}}},
	{model.Thai, []span{{0x0E00, 0x0E7F}}},
}

// In reports whether r falls in one of the ranges of system.
func In(r rune, system model.WritingSystem) bool {
	for _, rg := range ranges {
		if rg.system != system {
			continue
		}
		for _, s := range rg.spans {
			if r >= s.lo && r <= s.hi {
				return true
			}
		}
	}
	return false
}

// IsPunctuation reports whether r is neither a word character nor
// whitespace. Combining marks count as word characters.
func IsPunctuation(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r) {
		return false
	}
	return !unicode.IsSpace(r)
}

// Classify returns the writing system of r. Punctuation wins over any range.
func Classify(r rune) model.WritingSystem {
	if IsPunctuation(r) {
		return model.Punctuation
	}
	for _, rg := range ranges {
		for _, s := range rg.spans {
			if r >= s.lo && r <= s.hi {
				return rg.system
			}
		}
	}
	return model.Other
}

func family(w model.WritingSystem) model.WritingSystem {
	if w.IsCJK() {
		return model.Han
	}
	return w
}

// Runs splits text into runs. Punctuation characters are singleton runs;
// Han, Kana and Hangul extend each other's runs.
func Runs(text string) []model.Run {
	var runs []model.Run
	start := -1
	var cur model.WritingSystem

	flush := func(end int) {
		if start >= 0 && end > start {
			runs = append(runs, model.Run{Text: text[start:end], System: cur, Start: start, End: end})
		}
		start = -1
	}

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		sys := Classify(r)
		switch {
		case sys == model.Punctuation:
			flush(i)
			runs = append(runs, model.Run{Text: text[i : i+size], System: model.Punctuation, Start: i, End: i + size})
		case start >= 0 && family(sys) == family(cur):
		default:
			flush(i)
			start = i
			cur = sys
		}
		i += size
	}
	flush(len(text))
	return runs
}

// ResolveCJK picks ja, ko or zh for a CJK run. Kana and Hangul are
// unambiguous markers and win over shared Han ideographs.
func ResolveCJK(text string) string {
	var kana, hangul, han bool
	for _, r := range text {
		switch {
		case In(r, model.Kana):
			kana = true
		case In(r, model.Hangul):
			hangul = true
		case In(r, model.Han):
			han = true
		}
	}
	switch {
	case kana:
		return "ja"
	case hangul:
		return "ko"
	case han:
		return "zh"
	}
	return model.LangUnknown
}

// IsCJKLanguage reports whether lang is one of the codes ResolveCJK returns.
func IsCJKLanguage(lang string) bool {
	return lang == "ja" || lang == "ko" || lang == "zh"
}
