package api

import (
	"github.com/paniterce/notecraftr/internal/models"
	"github.com/paniterce/notecraftr/internal/settings"
)

// CreateTemplateRequest is the optional body for creating a template. An
// empty title falls back to "New Template" with a dedup suffix.
type CreateTemplateRequest struct {
	Title string `json:"title"`
}

// TemplateListResponse wraps the template list. ActiveTemplateID is -1 when
// the list is empty.
type TemplateListResponse struct {
	Templates        []models.Template `json:"templates"`
	ActiveTemplateID int               `json:"activeTemplateId"`
}

// SelectAllRequest toggles every section of a template.
type SelectAllRequest struct {
	Enabled bool `json:"enabled"`
}

// OutputResponse carries the derived output of the active template.
type OutputResponse struct {
	Output string `json:"output"`
}

// PreferencesResponse mirrors the editor preference slices.
type PreferencesResponse struct {
	SectionsFilter string `json:"sectionsFilter"`
	PreviewVisible bool   `json:"previewVisible"`
}

// UpdatePreferencesRequest updates preference slices; absent fields are left
// untouched.
type UpdatePreferencesRequest struct {
	SectionsFilter *string `json:"sectionsFilter"`
	PreviewVisible *bool   `json:"previewVisible"`
}

// NoteListResponse wraps the note list.
type NoteListResponse struct {
	Notes []models.Note `json:"notes"`
	Total int           `json:"total"`
}

// CreateNoteRequest is the optional body for creating a note. Provided
// fields overwrite the freshly allocated note's defaults.
type CreateNoteRequest struct {
	Text            *string  `json:"text"`
	Opened          *bool    `json:"opened"`
	BackgroundClass *string  `json:"backgroundClass"`
	X               *float64 `json:"x"`
	Y               *float64 `json:"y"`
	Width           *float64 `json:"width"`
	Height          *float64 `json:"height"`
}

// TextFilterResponse is the filter state plus the derived filtered text.
type TextFilterResponse struct {
	TargetText              string `json:"targetText"`
	FilterNumbers           bool   `json:"filterNumbers"`
	FilterLetters           bool   `json:"filterLetters"`
	FilterSpecialCharacters bool   `json:"filterSpecialCharacters"`
	FilterSpaces            bool   `json:"filterSpaces"`
	PreviewVisible          bool   `json:"previewVisible"`
	Output                  string `json:"output"`
}

// UpdateTextFilterRequest updates filter fields; absent fields are left
// untouched.
type UpdateTextFilterRequest struct {
	TargetText              *string `json:"targetText"`
	FilterNumbers           *bool   `json:"filterNumbers"`
	FilterLetters           *bool   `json:"filterLetters"`
	FilterSpecialCharacters *bool   `json:"filterSpecialCharacters"`
	FilterSpaces            *bool   `json:"filterSpaces"`
	PreviewVisible          *bool   `json:"previewVisible"`
}

// SettingsResponse mirrors the settings state.
type SettingsResponse struct {
	Theme                    settings.Theme `json:"theme"`
	AddonsEnabled            bool           `json:"addonsEnabled"`
	AutoCopyOnTemplateChange bool           `json:"autoCopyOnTemplateChange"`
	AutoCopyOnOutputChange   bool           `json:"autoCopyOnOutputChange"`
	LinkedSectionsEnabled    bool           `json:"linkedSectionsEnabled"`
}

// UpdateSettingsRequest updates settings fields; absent fields are left
// untouched.
type UpdateSettingsRequest struct {
	Theme                    *settings.Theme `json:"theme"`
	AddonsEnabled            *bool           `json:"addonsEnabled"`
	AutoCopyOnTemplateChange *bool           `json:"autoCopyOnTemplateChange"`
	AutoCopyOnOutputChange   *bool           `json:"autoCopyOnOutputChange"`
	LinkedSectionsEnabled    *bool           `json:"linkedSectionsEnabled"`
}
