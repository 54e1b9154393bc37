package kana

import "testing"

func TestKatakanaToHiragana(t *testing.T) {
	if got := KatakanaToHiragana("イリミナイカワ"); got != "いりみないかわ" {
		t.Errorf("expected いりみないかわ, got %s", got)
	}
	if got := KatakanaToHiragana("abc漢ー"); got != "abc漢ー" {
		t.Errorf("non-katakana runes changed: %s", got)
	}
}

func TestToIPA(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"コンニチワ", "koɴɲitɕiwa"},
		{"ガッコー", "gakkoː"},
		{"トーキョー", "toːkjoː"},
		{"しゃしん", "ɕaɕiɴ"},
		{"ファン", "ɸaɴ"},
		{"ニホン語", "ɲihoɴ語"},
		{"abc", "abc"},
		{"あっ", "aʔ"},
	}
	for _, tt := range tests {
		if got := ToIPA(tt.in); got != tt.want {
			t.Errorf("ToIPA(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
