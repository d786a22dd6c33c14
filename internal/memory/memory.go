// Package memory holds the records exchanged with the Memory Store API.
// Records are owned by the server; the client only reads copies of them.
package memory

import (
	"encoding/json"
	"strings"
	"time"
)

// EventKind describes what the server did with a memory derived from a capture.
type EventKind string

const (
	EventAdd    EventKind = "ADD"
	EventUpdate EventKind = "UPDATE"
	EventDelete EventKind = "DELETE"
	EventNoop   EventKind = "NOOP"
)

// Extraction is one memory the server derived from captured text.
type Extraction struct {
	Text  string    `json:"memory" yaml:"memory"`
	Event EventKind `json:"event" yaml:"event"`
}

// Memory is a stored memory record as returned by search.
type Memory struct {
	ID           string         `json:"id" yaml:"id"`
	Text         string         `json:"memory" yaml:"memory"`
	OriginUserID string         `json:"user_id" yaml:"user_id"`
	Metadata     map[string]any `json:"metadata" yaml:"metadata,omitempty"`
	Categories   []string       `json:"categories" yaml:"categories,omitempty"`
	Immutable    bool           `json:"immutable" yaml:"immutable"`
	CreatedAt    Timestamp      `json:"created_at" yaml:"created_at"`
	UpdatedAt    Timestamp      `json:"updated_at" yaml:"updated_at"`
}

// Separator sits between memory texts in a joined search result.
const Separator = "\n\n"

// JoinText concatenates the texts of ms in order, separated by a blank line.
func JoinText(ms []Memory) string {
	texts := make([]string, len(ms))
	for i, m := range ms {
		texts[i] = m.Text
	}
	return strings.Join(texts, Separator)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
}

// Timestamp is a server time that tolerates zone-less values.
// Values that cannot be parsed decode to the zero time.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, *raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// MarshalYAML renders the time as RFC 3339 or an empty value.
func (t Timestamp) MarshalYAML() (any, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.Format(time.RFC3339Nano), nil
}
