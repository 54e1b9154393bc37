package pipeline

import (
	"strings"

	"polyphon/model"
)

// Result is the assembled output of one Phonemize call.
type Result struct {
	ID string `json:"id,omitempty"`
	// Segments holds the phonemized text of every input segment in order.
	// Lang is the input language, or "??" when the text still carries an
	// unresolved marker.
	Segments []model.Segment `json:"segments"`
	// Unresolved lists the original input segments whose output carries
	// an unresolved marker.
	Unresolved []model.Segment `json:"unresolved,omitempty"`
}

func (r *Result) add(in model.Segment, text string) {
	out := model.Segment{Text: text, Lang: in.Lang}
	if strings.Contains(text, markOpen) {
		out.Lang = model.LangUnknown
		r.Unresolved = append(r.Unresolved, in)
	}
	r.Segments = append(r.Segments, out)
}

// Text returns the flattened output.
func (r Result) Text() string {
	var b strings.Builder
	for _, s := range r.Segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// HasUnresolved reports whether any output text carries the unresolved
// marker. Such output needs filtering before it is fed to a synthesizer.
func (r Result) HasUnresolved() bool {
	return len(r.Unresolved) > 0
}
