package editor

import (
	"strings"
	"time"

	"github.com/paniterce/notecraftr/internal/dateformat"
	"github.com/paniterce/notecraftr/internal/models"
)

// ActiveTemplate returns the template currently driving the output, or nil.
func ActiveTemplate(state State) *models.Template {
	if i := activeIndex(state.Templates); i >= 0 {
		t := state.Templates[i].Clone()
		return &t
	}
	return nil
}

// Output derives the concatenated text for the active template.
func Output(state State) string {
	return DeriveOutput(ActiveTemplate(state))
}

// DeriveOutput concatenates the values of the template's active sections in
// stored order. A section with no value contributes nothing, not even its
// prefix and suffix. Returns "" when template is nil.
func DeriveOutput(template *models.Template) string {
	if template == nil {
		return ""
	}
	var b strings.Builder
	for _, s := range template.Sections {
		if !s.Active {
			continue
		}
		value, hasValue := sectionValue(s)
		if !hasValue {
			continue
		}
		b.WriteString(s.Prefix)
		b.WriteString(value)
		b.WriteString(s.Suffix)
	}
	return b.String()
}

// sectionValue renders a section's current value and reports whether the
// section holds one at all. Date sections can always render a fallback of
// "now", but count as valueless until a date was explicitly set.
func sectionValue(s models.Section) (string, bool) {
	switch s.Type {
	case models.TypeSingle:
		return s.SingleTextValue, s.SingleTextValue != ""
	case models.TypeMultiple:
		return strings.Join(s.MultipleTextValue, s.Separator), len(s.MultipleTextValue) > 0
	case models.TypeInput:
		return s.InputValue, s.InputValue != ""
	case models.TypeDate:
		date := time.Now()
		if s.DateValue != nil {
			date = s.DateValue.Time
		}
		pattern := dateformat.Resolve(s.DateFormat, s.CustomDateFormat)
		return dateformat.Format(date, pattern), s.DateValue != nil
	}
	return "", false
}

// VisibleSections returns the active template's sections whose titles match
// the sections filter, case-insensitively. An empty filter matches all.
func VisibleSections(state State) []models.Section {
	t := ActiveTemplate(state)
	if t == nil {
		return []models.Section{}
	}
	filter := strings.ToLower(state.SectionsFilter)
	out := make([]models.Section, 0, len(t.Sections))
	for _, s := range t.Sections {
		if filter == "" || strings.Contains(strings.ToLower(s.Title), filter) {
			out = append(out, s)
		}
	}
	return out
}

// GroupMembers returns the sections of template that belong to the same
// linked group as section: the section itself, its parent, anyone who shares
// its group id, and anyone whose group id is the section.
func GroupMembers(template models.Template, section models.Section) []models.Section {
	out := make([]models.Section, 0, len(template.Sections))
	for _, s := range template.Sections {
		switch {
		case s.ID == section.ID,
			s.ID == section.LinkedID,
			section.InGroup() && section.LinkedID == s.LinkedID && s.Linked,
			s.LinkedID == section.ID && s.Linked:
			out = append(out, s)
		}
	}
	return out
}
