package analyze

import (
	"unicode/utf8"

	"polyphon/ingest"
	"polyphon/model"
	"polyphon/pipeline"
)

// Analysis summarizes one phonemization result.
type Analysis struct {
	RequestID    string         `json:"request_id"`
	InputRunes   int            `json:"input_runes"`
	SegmentCount int            `json:"segment_count"`
	Switches     int            `json:"language_switches"`
	Languages    map[string]int `json:"languages"` // segments per output language
	Unresolved   []string       `json:"unresolved,omitempty"`
}

// Analyze counts segments per language and language switches, and lists
// the original text of every unresolved segment.
func Analyze(req ingest.Request, res pipeline.Result) Analysis {
	a := Analysis{
		RequestID:    req.ID,
		InputRunes:   utf8.RuneCountInString(req.Text),
		SegmentCount: len(res.Segments),
		Languages:    map[string]int{},
	}
	prev := ""
	for i, seg := range res.Segments {
		lang := seg.Lang
		if lang == model.LangUntagged {
			lang = "untagged"
		}
		a.Languages[lang]++
		if i > 0 && seg.Lang != prev {
			a.Switches++
		}
		prev = seg.Lang
	}
	for _, u := range res.Unresolved {
		a.Unresolved = append(a.Unresolved, u.Text)
	}
	return a
}
