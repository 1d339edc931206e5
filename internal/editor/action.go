package editor

import "github.com/paniterce/notecraftr/internal/models"

// Action is the closed set of editor mutations. The reducer handles every
// kind exhaustively; adding a new action without a reducer arm is a compile
// error at the type switch's default guard in tests.
type Action interface {
	isAction()
}

// LoadTemplates replaces the whole template list. Used when seeding from the
// persistence bridge and when an external process rewrote the snapshot.
type LoadTemplates struct {
	Templates []models.Template
}

// AddTemplate appends a template; its id is re-allocated against the current
// list. When the incoming template is marked active it becomes the single
// active template.
type AddTemplate struct {
	Template models.Template
}

// CreateDefaultTemplate prepends a "Default Template" and makes it active.
type CreateDefaultTemplate struct{}

// DuplicateTemplate clones the referenced template under a "(Copy)" title.
type DuplicateTemplate struct {
	Template models.Template
}

// UpdateTemplate replaces the template with the matching id wholesale.
type UpdateTemplate struct {
	Template models.Template
}

// DeleteTemplate removes the template with the matching id. When templates
// remain, the last one is re-marked active so the list is never left without
// an active template.
type DeleteTemplate struct {
	Template models.Template
}

// SetActiveTemplate marks the matching template active and every other
// template inactive.
type SetActiveTemplate struct {
	Template models.Template
}

// SetLastTemplateAsActive marks the last template in the list active.
type SetLastTemplateAsActive struct{}

// AddSection appends a fresh default section to the referenced template.
type AddSection struct {
	Template models.Template
}

// UpdateSection replaces the section matching (templateId, id).
type UpdateSection struct {
	Section models.Section
}

// DuplicateSection clones the section within its own template.
type DuplicateSection struct {
	Section models.Section
}

// DeleteSection removes the section from the template named by its
// templateId and performs linked-group cleanup.
type DeleteSection struct {
	Section models.Section
}

// CreateLinkedSection appends a linked clone of the section to the active
// template, making the source the group parent when it had no group yet.
type CreateLinkedSection struct {
	Section models.Section
}

// UpdateAllLinkedSections propagates the section's fields (identity fields
// excepted) to every linked member of its group within the active template.
type UpdateAllLinkedSections struct {
	Section models.Section
}

// SelectAllSections sets every section's active flag in the given template.
type SelectAllSections struct {
	Template models.Template
	Enabled  bool
}

// UpdateSectionFilter sets the sections filter text.
type UpdateSectionFilter struct {
	Filter string
}

// UpdatePreviewVisible toggles the output preview flag.
type UpdatePreviewVisible struct {
	Visible bool
}

func (LoadTemplates) isAction()           {}
func (AddTemplate) isAction()             {}
func (CreateDefaultTemplate) isAction()   {}
func (DuplicateTemplate) isAction()       {}
func (UpdateTemplate) isAction()          {}
func (DeleteTemplate) isAction()          {}
func (SetActiveTemplate) isAction()       {}
func (SetLastTemplateAsActive) isAction() {}
func (AddSection) isAction()              {}
func (UpdateSection) isAction()           {}
func (DuplicateSection) isAction()        {}
func (DeleteSection) isAction()           {}
func (CreateLinkedSection) isAction()     {}
func (UpdateAllLinkedSections) isAction() {}
func (SelectAllSections) isAction()       {}
func (UpdateSectionFilter) isAction()     {}
func (UpdatePreviewVisible) isAction()    {}
