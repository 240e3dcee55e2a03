package journal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// Entry is one learner journal record. Fields other than the known ones
// are kept in Extra and written back unchanged.
type Entry struct {
	ID          string
	LessonID    string
	Title       string
	Facts       []string
	Reflection  string
	EvidenceImg *string // data URI
	Timestamp   int64   // epoch ms, fixed at creation

	Extra map[string]json.RawMessage
}

// Draft is the input to Create.
type Draft struct {
	LessonID    string         `json:"lessonId" validate:"required"`
	Title       string         `json:"title"`
	Facts       []string       `json:"facts"`
	Reflection  string         `json:"reflection"`
	EvidenceImg *string        `json:"evidenceImg"`
	Extra       map[string]any `json:"extra,omitempty"`
}

var knownFields = []string{"id", "lessonId", "title", "facts", "reflection", "evidenceImg", "timestamp"}

// Time returns the creation instant.
func (e Entry) Time() time.Time {
	return time.UnixMilli(e.Timestamp).UTC()
}

// ExtraString returns an extra field as a string, or "" when absent or not a string.
func (e Entry) ExtraString(field string) string {
	raw, ok := e.Extra[field]
	if !ok {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// ExtraStrings returns an extra field holding a string array.
func (e Entry) ExtraStrings(field string) []string {
	raw, ok := e.Extra[field]
	if !ok {
		return nil
	}
	var ss []string
	if json.Unmarshal(raw, &ss) != nil {
		return nil
	}
	return ss
}

// Content is the entry's main text: an explicit content field, else the
// reflection, else the facts.
func (e Entry) Content() string {
	if c := e.ExtraString("content"); c != "" {
		return c
	}
	if e.Reflection != "" {
		return e.Reflection
	}
	return strings.Join(e.Facts, "; ")
}

func (e Entry) clone() Entry {
	out := e
	out.Facts = append([]string(nil), e.Facts...)
	if e.EvidenceImg != nil {
		s := *e.EvidenceImg
		out.EvidenceImg = &s
	}
	if e.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(e.Extra))
		for k, v := range e.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

func (e Entry) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(e.Extra)+len(knownFields))
	for k, v := range e.Extra {
		m[k] = v
	}
	facts := e.Facts
	if facts == nil {
		facts = []string{}
	}
	m["id"] = e.ID
	m["lessonId"] = e.LessonID
	m["title"] = e.Title
	m["facts"] = facts
	m["reflection"] = e.Reflection
	m["evidenceImg"] = e.EvidenceImg
	m["timestamp"] = e.Timestamp
	return json.Marshal(m)
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	var out Entry
	decode := func(field string, v any) error {
		raw, ok := m[field]
		if !ok || string(raw) == "null" {
			return nil
		}
		if err := json.Unmarshal(raw, v); err != nil {
			return fmt.Errorf("field %s: %w", field, err)
		}
		return nil
	}
	for field, dst := range map[string]any{
		"id":          &out.ID,
		"lessonId":    &out.LessonID,
		"title":       &out.Title,
		"reflection":  &out.Reflection,
		"evidenceImg": &out.EvidenceImg,
	} {
		if err := decode(field, dst); err != nil {
			return err
		}
	}

	// Older records store a single fact as a plain string.
	if raw, ok := m["facts"]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &out.Facts); err != nil {
			var one string
			if json.Unmarshal(raw, &one) != nil {
				return fmt.Errorf("field facts: %w", err)
			}
			if one != "" {
				out.Facts = []string{one}
			}
		}
	}

	var ts float64
	if err := decode("timestamp", &ts); err != nil {
		return err
	}
	out.Timestamp = int64(math.Round(ts))

	for _, k := range knownFields {
		delete(m, k)
	}
	for k, raw := range m {
		var buf bytes.Buffer
		if json.Compact(&buf, raw) == nil {
			m[k] = buf.Bytes()
		}
	}
	if len(m) > 0 {
		out.Extra = m
	}
	*e = out
	return nil
}

// entryID builds the identifier for an entry created at ts.
func entryID(lessonID string, ts int64) string {
	return lessonID + "-" + time.UnixMilli(ts).UTC().Format("2006-01-02T15:04:05.000Z")
}
