// Package ingest validates incoming text and stamps it with an ID.
package ingest

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// ErrEmptyText is returned for input with no non-space character.
var ErrEmptyText = errors.New("ingest: empty text")

// Request is one piece of text submitted for phonemization.
type Request struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// New validates text and builds a Request. The text is kept as given
// unless normalize is set, in which case it is converted to NFC so that
// decomposed kana and accents classify like their precomposed forms.
func New(text string, normalize bool) (Request, error) {
	if strings.TrimSpace(text) == "" {
		return Request{}, ErrEmptyText
	}
	if normalize {
		text = norm.NFC.String(text)
	}
	return Request{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}, nil
}
