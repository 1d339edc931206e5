package editor

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/paniterce/notecraftr/internal/ident"
	"github.com/paniterce/notecraftr/internal/models"
)

// Reduce applies an action to state and returns the next state together with
// the slices that changed. Prior state is never mutated. Actions referencing
// a missing template or section id are no-ops: the same state comes back
// with no changed slices, and nothing is ever raised to the caller.
func Reduce(state State, action Action) (State, []Slice) {
	switch a := action.(type) {
	case LoadTemplates:
		templates := cloneTemplates(a.Templates)
		// A snapshot written by an older build may carry several active
		// flags; keep the first and drop the rest.
		seenActive := false
		for i := range templates {
			if templates[i].Active {
				if seenActive {
					templates[i].Active = false
				}
				seenActive = true
			}
		}
		return withTemplates(state, templates)

	case AddTemplate:
		t := a.Template.Clone()
		t.ID = ident.Next(templateIDs(state.Templates))
		for i := range t.Sections {
			t.Sections[i].TemplateID = t.ID
		}
		templates := cloneTemplates(state.Templates)
		if t.Active {
			for i := range templates {
				templates[i].Active = false
			}
		}
		return withTemplates(state, append(templates, t))

	case CreateDefaultTemplate:
		t := newTemplate("Default Template", state.Templates)
		templates := cloneTemplates(state.Templates)
		for i := range templates {
			templates[i].Active = false
		}
		return withTemplates(state, append([]models.Template{t}, templates...))

	case DuplicateTemplate:
		if findTemplate(state.Templates, a.Template.ID) < 0 {
			return state, nil
		}
		title := a.Template.Title + " (Copy)"
		if n := countTitleMatches(title, templateTitles(state.Templates)); n > 0 {
			title += fmt.Sprintf(" (%d)", n)
		}
		t := a.Template.Clone()
		t.ID = ident.Next(templateIDs(state.Templates))
		t.Title = title
		t.Active = false
		for i := range t.Sections {
			t.Sections[i].TemplateID = t.ID
		}
		return withTemplates(state, append(cloneTemplates(state.Templates), t))

	case UpdateTemplate:
		i := findTemplate(state.Templates, a.Template.ID)
		if i < 0 {
			return state, nil
		}
		templates := cloneTemplates(state.Templates)
		templates[i] = a.Template.Clone()
		if templates[i].Active {
			for j := range templates {
				if j != i {
					templates[j].Active = false
				}
			}
		}
		return withTemplates(state, templates)

	case DeleteTemplate:
		if findTemplate(state.Templates, a.Template.ID) < 0 {
			return state, nil
		}
		templates := make([]models.Template, 0, len(state.Templates)-1)
		for _, t := range state.Templates {
			if t.ID != a.Template.ID {
				templates = append(templates, t.Clone())
			}
		}
		// Never leave a non-empty list without an active template.
		if len(templates) > 0 && activeIndex(templates) < 0 {
			templates[len(templates)-1].Active = true
		}
		return withTemplates(state, templates)

	case SetActiveTemplate:
		if findTemplate(state.Templates, a.Template.ID) < 0 {
			return state, nil
		}
		templates := cloneTemplates(state.Templates)
		for i := range templates {
			templates[i].Active = templates[i].ID == a.Template.ID
		}
		return withTemplates(state, templates)

	case SetLastTemplateAsActive:
		if len(state.Templates) == 0 {
			return state, nil
		}
		templates := cloneTemplates(state.Templates)
		for i := range templates {
			templates[i].Active = i == len(templates)-1
		}
		return withTemplates(state, templates)

	case AddSection:
		i := findTemplate(state.Templates, a.Template.ID)
		if i < 0 {
			return state, nil
		}
		templates := cloneTemplates(state.Templates)
		sec := newSection("New Section", templates[i])
		templates[i].Sections = append(templates[i].Sections, sec)
		return withTemplates(state, templates)

	case UpdateSection:
		ti := findTemplate(state.Templates, a.Section.TemplateID)
		if ti < 0 {
			return state, nil
		}
		si := findSection(state.Templates[ti].Sections, a.Section.ID)
		if si < 0 {
			return state, nil
		}
		templates := cloneTemplates(state.Templates)
		templates[ti].Sections[si] = a.Section.Clone()
		return withTemplates(state, templates)

	case DuplicateSection:
		ti := findTemplate(state.Templates, a.Section.TemplateID)
		if ti < 0 {
			return state, nil
		}
		templates := cloneTemplates(state.Templates)
		dup := a.Section.Clone()
		dup.ID = ident.Next(templates[ti].SectionIDs())
		dup.Title = a.Section.Title + " (Copy)"
		templates[ti].Sections = append(templates[ti].Sections, dup)
		return withTemplates(state, templates)

	case DeleteSection:
		return reduceDeleteSection(state, a.Section)

	case CreateLinkedSection:
		return reduceCreateLinkedSection(state, a.Section)

	case UpdateAllLinkedSections:
		return reduceUpdateAllLinkedSections(state, a.Section)

	case SelectAllSections:
		i := findTemplate(state.Templates, a.Template.ID)
		if i < 0 {
			return state, nil
		}
		templates := cloneTemplates(state.Templates)
		for j := range templates[i].Sections {
			templates[i].Sections[j].Active = a.Enabled
		}
		return withTemplates(state, templates)

	case UpdateSectionFilter:
		next := state
		next.SectionsFilter = a.Filter
		return next, []Slice{SliceSectionsFilter}

	case UpdatePreviewVisible:
		next := state
		next.PreviewVisible = a.Visible
		return next, []Slice{SlicePreviewVisible}
	}

	return state, nil
}

// reduceDeleteSection removes a section from the template it names and
// performs linked-group cleanup: siblings pointing at the removed section
// are unlinked, and a group parent left without members is unlinked too.
func reduceDeleteSection(state State, section models.Section) (State, []Slice) {
	ti := findTemplate(state.Templates, section.TemplateID)
	if ti < 0 {
		return state, nil
	}
	if findSection(state.Templates[ti].Sections, section.ID) < 0 {
		return state, nil
	}

	templates := cloneTemplates(state.Templates)
	t := &templates[ti]

	kept := make([]models.Section, 0, len(t.Sections)-1)
	for _, s := range t.Sections {
		if s.ID == section.ID {
			continue
		}
		if s.LinkedID == section.ID {
			s.Linked = false
			s.LinkedID = models.NoLink
		}
		kept = append(kept, s)
	}
	t.Sections = kept

	// The deleted section may have been a member of a group whose parent is
	// now alone; clear the parent's link in that case.
	if pi := findSection(t.Sections, section.LinkedID); pi >= 0 {
		parent := t.Sections[pi]
		members := 0
		for _, s := range t.Sections {
			if s.LinkedID == parent.ID && !s.IsGroupParent() {
				members++
			}
		}
		if members == 0 {
			t.Sections[pi].Linked = false
			t.Sections[pi].LinkedID = models.NoLink
		}
	}

	return withTemplates(state, templates)
}

func reduceCreateLinkedSection(state State, section models.Section) (State, []Slice) {
	ti := activeIndex(state.Templates)
	if ti < 0 {
		return state, nil
	}
	templates := cloneTemplates(state.Templates)
	t := &templates[ti]

	groupID := section.LinkedID
	if groupID == models.NoLink {
		groupID = section.ID
	}

	linked := section.Clone()
	linked.ID = ident.Next(t.SectionIDs())
	linked.TemplateID = t.ID
	linked.Linked = true
	linked.LinkedID = groupID

	// The source becomes the group's parent the first time it is linked.
	if si := findSection(t.Sections, section.ID); si >= 0 && !t.Sections[si].InGroup() {
		t.Sections[si].Linked = true
		t.Sections[si].LinkedID = groupID
	}

	t.Sections = append(t.Sections, linked)
	return withTemplates(state, templates)
}

func reduceUpdateAllLinkedSections(state State, section models.Section) (State, []Slice) {
	ti := activeIndex(state.Templates)
	if ti < 0 {
		return state, nil
	}
	templates := cloneTemplates(state.Templates)
	t := &templates[ti]

	changed := false
	for i, sec := range t.Sections {
		sameID := sec.ID == section.ID
		isLinked := sec.Linked && sec.InGroup()
		isParent := isLinked && section.LinkedID == sec.ID
		isChild := isLinked && !isParent && section.LinkedID == sec.LinkedID

		if isLinked && (sameID || isParent || isChild) {
			next := section.Clone()
			next.ID = sec.ID
			next.TemplateID = sec.TemplateID
			next.Linked = sec.Linked
			next.LinkedID = sec.LinkedID
			t.Sections[i] = next
			changed = true
		}
	}
	if !changed {
		return state, nil
	}
	return withTemplates(state, templates)
}

func withTemplates(state State, templates []models.Template) (State, []Slice) {
	next := state
	next.Templates = templates
	return next, []Slice{SliceTemplates}
}

func findTemplate(ts []models.Template, id int) int {
	for i, t := range ts {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func findSection(ss []models.Section, id int) int {
	for i, s := range ss {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func activeIndex(ts []models.Template) int {
	for i, t := range ts {
		if t.Active {
			return i
		}
	}
	return -1
}

func templateTitles(ts []models.Template) []string {
	titles := make([]string, len(ts))
	for i, t := range ts {
		titles[i] = t.Title
	}
	return titles
}

// countTitleMatches counts sibling titles that already contain the candidate
// base title, which drives the numeric dedup suffix.
func countTitleMatches(title string, titles []string) int {
	n := 0
	for _, existing := range titles {
		if strings.Contains(existing, title) {
			n++
		}
	}
	return n
}

// NewTitledTemplate builds an active template whose title is dedup-suffixed
// against the current list. Callers pass it to AddTemplate.
func NewTitledTemplate(title string, state State) models.Template {
	return newTemplate(title, state.Templates)
}

func newTemplate(title string, existing []models.Template) models.Template {
	if n := countTitleMatches(title, templateTitles(existing)); n > 0 {
		title = fmt.Sprintf("%s (%d)", title, n)
	}
	return models.Template{
		ID:       ident.Next(templateIDs(existing)),
		Title:    title,
		Active:   true,
		Sections: []models.Section{},
	}
}

func newSection(title string, t models.Template) models.Section {
	titles := make([]string, len(t.Sections))
	for i, s := range t.Sections {
		titles[i] = s.Title
	}
	if n := countTitleMatches(title, titles); n > 0 {
		title = fmt.Sprintf("%s (%d)", title, n)
	}
	return models.Section{
		ID:              ident.Next(t.SectionIDs()),
		TemplateID:      t.ID,
		Title:           title,
		Type:            models.TypeSingle,
		Active:          true,
		Linked:          false,
		LinkedID:        models.NoLink,
		Options:         []string{},
		BackgroundClass: randomBackground(),
	}
}

// randomBackground picks one of the 12 card background presets.
func randomBackground() string {
	return fmt.Sprintf("card-bg-%d", rand.IntN(12)+1)
}
