// Package models defines the domain types for Notecraftr.
package models

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// SectionType is the closed set of section value kinds.
type SectionType string

// Section types.
const (
	TypeSingle   SectionType = "single"
	TypeMultiple SectionType = "multiple"
	TypeInput    SectionType = "input"
	TypeDate     SectionType = "date"
)

// Valid reports whether t is one of the known section types.
func (t SectionType) Valid() bool {
	switch t {
	case TypeSingle, TypeMultiple, TypeInput, TypeDate:
		return true
	}
	return false
}

// NoLink is the linkedId value of a section that belongs to no linked group.
const NoLink = -1

// Template is a named, ordered collection of sections. At most one template
// is active at a time; only the active template's sections feed the output.
type Template struct {
	ID       int       `json:"id"`
	Title    string    `json:"title"`
	Active   bool      `json:"active"`
	Sections []Section `json:"sections"`
}

// Clone returns a deep copy of the template.
func (t Template) Clone() Template {
	out := t
	out.Sections = make([]Section, len(t.Sections))
	for i, s := range t.Sections {
		out.Sections[i] = s.Clone()
	}
	return out
}

// SectionIDs returns the ids of all sections, for allocator scoping.
func (t Template) SectionIDs() []int {
	ids := make([]int, len(t.Sections))
	for i, s := range t.Sections {
		ids[i] = s.ID
	}
	return ids
}

// Section is one configurable output fragment. Which value fields are
// meaningful depends on Type; the rest stay at their zero values.
type Section struct {
	ID         int         `json:"id"`
	TemplateID int         `json:"templateId"`
	Title      string      `json:"title"`
	Type       SectionType `json:"type"`
	Active     bool        `json:"active"`
	Linked     bool        `json:"linked"`
	LinkedID   int         `json:"linkedId"`
	Options    []string    `json:"options"`
	Separator  string      `json:"separator"`
	Prefix     string      `json:"prefix"`
	Suffix     string      `json:"suffix"`

	SingleTextValue   string   `json:"singleTextValue,omitempty"`
	MultipleTextValue []string `json:"multipleTextValue,omitempty"`
	InputValue        string   `json:"inputValue,omitempty"`

	// DateValue is nil until the user explicitly picks a date. A section of
	// type "date" contributes to output only once it is non-nil.
	DateValue        *Time  `json:"dateValue,omitempty"`
	DateFormat       string `json:"dateFormat,omitempty"`
	CustomDateFormat string `json:"customDateFormat,omitempty"`

	BackgroundClass string `json:"backgroundClass,omitempty"`
}

// Clone returns a deep copy of the section.
func (s Section) Clone() Section {
	out := s
	out.Options = append([]string(nil), s.Options...)
	out.MultipleTextValue = append([]string(nil), s.MultipleTextValue...)
	if s.DateValue != nil {
		d := *s.DateValue
		out.DateValue = &d
	}
	return out
}

// InGroup reports whether s belongs to a linked group.
func (s Section) InGroup() bool {
	return s.LinkedID != NoLink
}

// IsGroupParent reports whether s is the originating parent of its group
// (its own id equals the group's linkedId).
func (s Section) IsGroupParent() bool {
	return s.InGroup() && s.LinkedID == s.ID
}

// Note is an independent floating sticky note. Geometry fields are only
// meaningful while the note is opened in its own window.
type Note struct {
	ID              int     `json:"id"`
	Text            string  `json:"text"`
	Opened          bool    `json:"opened"`
	BackgroundClass string  `json:"backgroundClass,omitempty"`
	X               float64 `json:"x,omitempty"`
	Y               float64 `json:"y,omitempty"`
	Width           float64 `json:"width,omitempty"`
	Height          float64 `json:"height,omitempty"`
}

// Time is a time.Time whose JSON decoding never fails: malformed values are
// replaced with the current time so that a corrupted snapshot degrades to a
// usable default instead of aborting the whole slice load.
type Time struct {
	time.Time
}

// Now returns the current instant as a *Time.
func Now() *Time {
	return &Time{Time: time.Now()}
}

// At wraps a concrete time.
func At(t time.Time) *Time {
	return &Time{Time: t}
}

// UnmarshalJSON accepts an RFC3339 string or Unix milliseconds and falls back
// to the current time on anything unparsable.
func (t *Time) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, perr := time.Parse(time.RFC3339Nano, s)
		if perr != nil {
			parsed, perr = time.Parse(time.RFC3339, s)
		}
		if perr == nil {
			t.Time = parsed
			return nil
		}
	}
	var ms int64
	if err := json.Unmarshal(data, &ms); err == nil {
		t.Time = time.UnixMilli(ms)
		return nil
	}
	slog.Warn("unparsable date value, substituting current time", slog.String("raw", string(data)))
	t.Time = time.Now()
	return nil
}

// MarshalJSON encodes as an RFC3339 string.
func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// String implements fmt.Stringer for log output.
func (t Time) String() string {
	return t.Time.Format(time.RFC3339)
}

var _ fmt.Stringer = Time{}
