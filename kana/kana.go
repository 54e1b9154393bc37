// Package kana converts Japanese kana readings to IPA.
package kana

import "strings"

// KatakanaToHiragana maps katakana in s to hiragana and leaves every other
// rune alone.
func KatakanaToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}

var mora = map[string]string{
	"あ": "a", "い": "i", "う": "ɯ", "え": "e", "お": "o",
	"か": "ka", "き": "ki", "く": "kɯ", "け": "ke", "こ": "ko",
	"が": "ga", "ぎ": "gi", "ぐ": "gɯ", "げ": "ge", "ご": "go",
	"さ": "sa", "し": "ɕi", "す": "sɯ", "せ": "se", "そ": "so",
	"ざ": "za", "じ": "dʑi", "ず": "zɯ", "ぜ": "ze", "ぞ": "zo",
	"た": "ta", "ち": "tɕi", "つ": "tsɯ", "て": "te", "と": "to",
	"だ": "da", "ぢ": "dʑi", "づ": "zɯ", "で": "de", "ど": "do",
	"な": "na", "に": "ɲi", "ぬ": "nɯ", "ね": "ne", "の": "no",
	"は": "ha", "ひ": "çi", "ふ": "ɸɯ", "へ": "he", "ほ": "ho",
	"ば": "ba", "び": "bi", "ぶ": "bɯ", "べ": "be", "ぼ": "bo",
	"ぱ": "pa", "ぴ": "pi", "ぷ": "pɯ", "ぺ": "pe", "ぽ": "po",
	"ま": "ma", "み": "mi", "む": "mɯ", "め": "me", "も": "mo",
	"や": "ja", "ゆ": "jɯ", "よ": "jo",
	"ら": "ɾa", "り": "ɾi", "る": "ɾɯ", "れ": "ɾe", "ろ": "ɾo",
	"わ": "wa", "ゐ": "i", "ゑ": "e", "を": "o", "ゔ": "vɯ",
	"ぁ": "a", "ぃ": "i", "ぅ": "ɯ", "ぇ": "e", "ぉ": "o",
	"ゃ": "ja", "ゅ": "jɯ", "ょ": "jo", "ゎ": "wa",
	"ん": "ɴ",

	"ふぁ": "ɸa", "ふぃ": "ɸi", "ふぇ": "ɸe", "ふぉ": "ɸo",
	"てぃ": "ti", "でぃ": "di", "とぅ": "tɯ", "どぅ": "dɯ",
	"うぃ": "wi", "うぇ": "we", "うぉ": "wo",
	"しぇ": "ɕe", "じぇ": "dʑe", "ちぇ": "tɕe",
	"ゔぁ": "va", "ゔぃ": "vi", "ゔぇ": "ve", "ゔぉ": "vo",
}

func init() {
	// palatalized i-row digraphs: きゃ, しゅ, ちょ ...
	onsets := map[string]string{
		"き": "kj", "ぎ": "gj", "し": "ɕ", "じ": "dʑ", "ち": "tɕ", "に": "ɲ",
		"ひ": "ç", "び": "bj", "ぴ": "pj", "み": "mj", "り": "ɾj",
	}
	glides := map[string]string{"ゃ": "a", "ゅ": "ɯ", "ょ": "o"}
	for k, onset := range onsets {
		for g, v := range glides {
			mora[k+g] = onset + v
		}
	}
}

// ToIPA transcribes kana in s. Katakana is accepted. ッ/っ doubles the next
// consonant, ー lengthens the previous vowel, and any rune that is not kana
// is copied unchanged.
func ToIPA(s string) string {
	runes := []rune(KatakanaToHiragana(s))
	var b strings.Builder
	geminate := false
	for i := 0; i < len(runes); {
		r := runes[i]
		switch r {
		case 'っ':
			geminate = true
			i++
			continue
		case 'ー':
			b.WriteString("ː")
			i++
			continue
		}

		var ipa string
		n := 0
		if i+1 < len(runes) {
			if v, ok := mora[string(runes[i:i+2])]; ok {
				ipa, n = v, 2
			}
		}
		if n == 0 {
			if v, ok := mora[string(r)]; ok {
				ipa, n = v, 1
			}
		}
		if n == 0 {
			if geminate {
				b.WriteString("ʔ")
				geminate = false
			}
			b.WriteRune(r)
			i++
			continue
		}

		if geminate {
			first := []rune(ipa)[0]
			if isVowel(first) {
				b.WriteString("ʔ")
			} else {
				b.WriteRune(first)
			}
			geminate = false
		}
		b.WriteString(ipa)
		i += n
	}
	if geminate {
		b.WriteString("ʔ")
	}
	return b.String()
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'i', 'ɯ', 'e', 'o':
		return true
	}
	return false
}
