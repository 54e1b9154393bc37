package model

// WritingSystem is the script category of a single character.
type WritingSystem int

const (
	Other WritingSystem = iota // Latin and anything outside the known ranges
	Han
	Kana
	Hangul
	Arabic
	Cyrillic
	Devanagari
	Hebrew
	Thai
	Punctuation
)

var systemNames = [...]string{
	Other:       "other",
	Han:         "han",
	Kana:        "kana",
	Hangul:      "hangul",
	Arabic:      "arabic",
	Cyrillic:    "cyrillic",
	Devanagari:  "devanagari",
	Hebrew:      "hebrew",
	Thai:        "thai",
	Punctuation: "punctuation",
}

func (w WritingSystem) String() string {
	if w < 0 || int(w) >= len(systemNames) {
		return "other"
	}
	return systemNames[w]
}

// IsCJK reports whether w is one of the scripts shared by Chinese, Japanese
// and Korean text. They form a single family when runs are built.
func (w WritingSystem) IsCJK() bool {
	return w == Han || w == Kana || w == Hangul
}

// Language tag sentinels. None of them is ever a registry key.
const (
	LangUntagged    = ""            // filler outside any tagged span
	LangUnknown     = "??"          // identification failed or no engine
	LangPunctuation = "punctuation" // reserved markup tag for separators
	LangPhonemes    = "phoneme"     // content is already phonemic
)

// IsSentinel reports whether lang is one of the reserved tags.
func IsSentinel(lang string) bool {
	switch lang {
	case LangUntagged, LangUnknown, LangPunctuation, LangPhonemes:
		return true
	}
	return false
}

// Run is a maximal stretch of text sharing one writing system (or CJK
// family). Start and End are byte offsets into the scanned string.
type Run struct {
	Text   string        `json:"text"`
	System WritingSystem `json:"system"`
	Start  int           `json:"start"`
	End    int           `json:"end"`
}

// Span is an emitter-level unit: text plus its resolved tag. Separators
// (punctuation and whitespace) carry LangPunctuation.
type Span struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

// IsSeparator reports whether the span is punctuation or whitespace.
func (s Span) IsSeparator() bool {
	return s.Lang == LangPunctuation
}

// Segment is the unit dispatched to a phonemizer.
type Segment struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}
