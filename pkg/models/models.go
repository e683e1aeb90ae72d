package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DefaultCoversURL is the Open Library covers host
const DefaultCoversURL = "https://covers.openlibrary.org"

// Fallback text used by the details and grid views
const (
	UnknownAuthor    = "Unknown Author"
	UnknownRecAuthor = "Unknown"
	UnknownYear      = "Unknown"
	NoDescription    = "No description available."
	NoImage          = "No Image"
	maxSubjectsShown = 5
)

// CoverSize selects one of the Open Library cover renditions
type CoverSize string

const (
	CoverSmall  CoverSize = "S"
	CoverMedium CoverSize = "M"
)

// sentenceShape records how first_sentence was encoded
type sentenceShape int

const (
	sentenceAbsent sentenceShape = iota
	sentencePlain
	sentenceRecord
	sentenceList
)

// FirstSentence is the polymorphic first_sentence field. The catalog sends
// either a plain string, a {"value": "..."} record, or a list of strings.
type FirstSentence struct {
	Value string
	shape sentenceShape
}

// NewPlainSentence builds a FirstSentence that decoded from a bare string
func NewPlainSentence(s string) FirstSentence {
	return FirstSentence{Value: s, shape: sentencePlain}
}

// NewRecordSentence builds a FirstSentence that decoded from a {"value"} record
func NewRecordSentence(s string) FirstSentence {
	return FirstSentence{Value: s, shape: sentenceRecord}
}

// IsPlain reports whether the field was a bare string
func (f FirstSentence) IsPlain() bool {
	return f.shape == sentencePlain
}

// IsSet reports whether the field was present at all
func (f FirstSentence) IsSet() bool {
	return f.shape != sentenceAbsent
}

// UnmarshalJSON implements json.Unmarshaler
func (f *FirstSentence) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = FirstSentence{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = NewPlainSentence(s)
	case '{':
		var rec struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}
		*f = NewRecordSentence(rec.Value)
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*f = FirstSentence{shape: sentenceList}
		if len(list) > 0 {
			f.Value = list[0]
		}
	default:
		// Numbers and booleans carry no sentence; the description falls back
		*f = FirstSentence{}
	}
	return nil
}

// MarshalJSON implements json.Marshaler, writing the shape it was read as
func (f FirstSentence) MarshalJSON() ([]byte, error) {
	switch f.shape {
	case sentencePlain:
		return json.Marshal(f.Value)
	case sentenceRecord:
		return json.Marshal(map[string]string{"value": f.Value})
	case sentenceList:
		return json.Marshal([]string{f.Value})
	default:
		return []byte("null"), nil
	}
}

// Book is one document returned by the catalog search endpoint
type Book struct {
	Key              string        `json:"key" yaml:"key"`
	Title            string        `json:"title" yaml:"title"`
	Subtitle         string        `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	AuthorName       []string      `json:"author_name,omitempty" yaml:"author_name,omitempty"`
	CoverID          *int          `json:"cover_i,omitempty" yaml:"cover_i,omitempty"`
	FirstPublishYear *int          `json:"first_publish_year,omitempty" yaml:"first_publish_year,omitempty"`
	FirstSentence    FirstSentence `json:"first_sentence,omitempty" yaml:"-"`
	Subject          []string      `json:"subject,omitempty" yaml:"subject,omitempty"`
}

// PrimaryAuthor returns the first listed author, or "" when there is none
func (b *Book) PrimaryAuthor() string {
	if len(b.AuthorName) == 0 {
		return ""
	}
	return b.AuthorName[0]
}

// AuthorLine joins all authors for the details view
func (b *Book) AuthorLine() string {
	if len(b.AuthorName) == 0 {
		return UnknownAuthor
	}
	return strings.Join(b.AuthorName, ", ")
}

// PublishedLine returns the first publish year or a placeholder
func (b *Book) PublishedLine() string {
	if b.FirstPublishYear == nil || *b.FirstPublishYear == 0 {
		return UnknownYear
	}
	return strconv.Itoa(*b.FirstPublishYear)
}

// Description resolves the text shown under "Description".
// Order: plain first_sentence, wrapped first_sentence, subtitle, placeholder.
func (b *Book) Description() string {
	if b.FirstSentence.IsSet() && b.FirstSentence.Value != "" {
		return b.FirstSentence.Value
	}
	if b.Subtitle != "" {
		return b.Subtitle
	}
	return NoDescription
}

// Subjects returns the first few subjects for display
func (b *Book) Subjects() []string {
	if len(b.Subject) <= maxSubjectsShown {
		return b.Subject
	}
	return b.Subject[:maxSubjectsShown]
}

// HasCover reports whether the record carries a cover id
func (b *Book) HasCover() bool {
	return b.CoverID != nil
}

// CoverURL returns the default-host cover URL, or "" when there is no cover
func (b *Book) CoverURL(size CoverSize) string {
	if b.CoverID == nil {
		return ""
	}
	return CoverURL(DefaultCoversURL, *b.CoverID, size)
}

// CoverURL builds a cover image URL against the given host
func CoverURL(base string, coverID int, size CoverSize) string {
	return fmt.Sprintf("%s/b/id/%d-%s.jpg", strings.TrimRight(base, "/"), coverID, size)
}

// SearchResponse is the body of GET /search.json
type SearchResponse struct {
	NumFound int     `json:"numFound"`
	Docs     *[]Book `json:"docs"`
}
