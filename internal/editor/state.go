// Package editor holds the template/section state container: the reducer
// that applies editor actions, the selectors that derive views from state,
// and the store that serializes dispatches.
package editor

import "github.com/paniterce/notecraftr/internal/models"

// Slice names a persistable part of the editor state. Reductions report
// which slices they changed so the persistence bridge writes exactly those.
type Slice string

// Editor slices.
const (
	SliceTemplates      Slice = "templates"
	SliceSectionsFilter Slice = "sectionsFilter"
	SlicePreviewVisible Slice = "previewVisible"
)

// State is the editor's full persisted state.
type State struct {
	Templates      []models.Template
	SectionsFilter string
	PreviewVisible bool
}

// cloneTemplates deep-copies the template list so reductions never alias
// the previous state.
func cloneTemplates(ts []models.Template) []models.Template {
	out := make([]models.Template, len(ts))
	for i, t := range ts {
		out[i] = t.Clone()
	}
	return out
}

func templateIDs(ts []models.Template) []int {
	ids := make([]int, len(ts))
	for i, t := range ts {
		ids[i] = t.ID
	}
	return ids
}
