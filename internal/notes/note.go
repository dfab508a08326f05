package notes

import (
	"encoding/json"
	"strings"
	"time"
)

// Note is a study note as the backend serves it.
type Note struct {
	ID         int64     `json:"id"`
	Subject    string    `json:"subject"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Tags       []string  `json:"tags"`
	IsFavorite bool      `json:"isFavorite"`
	CreatedAt  Timestamp `json:"createdAt"`
	UpdatedAt  Timestamp `json:"updatedAt"`
}

// Normalize fills the defaults the backend may omit and drops duplicate tags,
// keeping the first occurrence.
func (n *Note) Normalize() {
	if n.Tags == nil {
		n.Tags = []string{}
		return
	}
	seen := make(map[string]bool, len(n.Tags))
	out := n.Tags[:0]
	for _, t := range n.Tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	n.Tags = out
}

// Input returns the editable fields of n.
func (n *Note) Input() NoteInput {
	return NoteInput{
		Subject: n.Subject,
		Title:   n.Title,
		Content: n.Content,
		Tags:    append([]string(nil), n.Tags...),
	}
}

// Page is the envelope returned by list and search endpoints.
type Page struct {
	Content       []Note `json:"content"`
	TotalElements int    `json:"totalElements"`
	TotalPages    int    `json:"totalPages"`
	Number        int    `json:"number"`
	Size          int    `json:"size"`
}

// Normalize applies Note.Normalize to every element and guarantees a non-nil slice.
func (p *Page) Normalize() {
	if p.Content == nil {
		p.Content = []Note{}
	}
	for i := range p.Content {
		p.Content[i].Normalize()
	}
}

// Timestamp accepts RFC 3339 as well as the zone-less local form the backend
// emits for LocalDateTime fields.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if strings.HasSuffix(layout, "Z07:00") {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return Timestamp{t}, nil
		}
		lastErr = err
	}
	return Timestamp{}, lastErr
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}
