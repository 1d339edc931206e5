package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/go-chi/chi/v5"

	"github.com/paniterce/notecraftr/internal/editor"
	"github.com/paniterce/notecraftr/internal/models"
	"github.com/paniterce/notecraftr/internal/notes"
	"github.com/paniterce/notecraftr/internal/settings"
	"github.com/paniterce/notecraftr/internal/sse"
	"github.com/paniterce/notecraftr/internal/textfiltr"
)

// NotePublisher receives note lifecycle events for fan-out to windows.
type NotePublisher interface {
	PublishNoteEvent(kind string, note models.Note)
}

// Handler holds API route handlers over the four stores.
type Handler struct {
	editor   *editor.Store
	notes    *notes.Store
	filter   *textfiltr.Store
	settings *settings.Store
	events   NotePublisher

	// copyText writes to the system clipboard; replaced in tests.
	copyText func(string) error
}

// NewHandler creates a Handler. events may be nil when no broker runs.
func NewHandler(ed *editor.Store, no *notes.Store, fi *textfiltr.Store, se *settings.Store, events NotePublisher) *Handler {
	return &Handler{
		editor:   ed,
		notes:    no,
		filter:   fi,
		settings: se,
		events:   events,
		copyText: clipboard.WriteAll,
	}
}

func intParam(r *http.Request, name string) (int, error) {
	return strconv.Atoi(chi.URLParam(r, name))
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}

// findTemplate resolves the {id} path parameter against current state,
// answering 404 itself when the template does not exist.
func (h *Handler) findTemplate(w http.ResponseWriter, r *http.Request) *models.Template {
	id, err := intParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid template id"))
		return nil
	}
	state := h.editor.State()
	for i := range state.Templates {
		if state.Templates[i].ID == id {
			t := state.Templates[i].Clone()
			return &t
		}
	}
	writeJSON(w, http.StatusNotFound, errorBody("template not found"))
	return nil
}

func (h *Handler) findSection(w http.ResponseWriter, r *http.Request) *models.Section {
	t := h.findTemplate(w, r)
	if t == nil {
		return nil
	}
	sid, err := intParam(r, "sid")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid section id"))
		return nil
	}
	for i := range t.Sections {
		if t.Sections[i].ID == sid {
			s := t.Sections[i].Clone()
			return &s
		}
	}
	writeJSON(w, http.StatusNotFound, errorBody("section not found"))
	return nil
}

// ListTemplates handles GET /api/templates.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	state := h.editor.State()
	resp := TemplateListResponse{Templates: state.Templates, ActiveTemplateID: -1}
	if active := editor.ActiveTemplate(state); active != nil {
		resp.ActiveTemplateID = active.ID
	}
	if resp.Templates == nil {
		resp.Templates = []models.Template{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateTemplate handles POST /api/templates. The body is optional; an
// absent or empty title creates a "New Template".
func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	title := req.Title
	if title == "" {
		title = "New Template"
	}
	t := editor.NewTitledTemplate(title, h.editor.State())
	state := h.editor.Dispatch(editor.AddTemplate{Template: t})
	writeJSON(w, http.StatusCreated, state.Templates[len(state.Templates)-1])
}

// UpdateTemplate handles PUT /api/templates/{id}.
func (h *Handler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	existing := h.findTemplate(w, r)
	if existing == nil {
		return
	}
	var t models.Template
	if !decodeBody(w, r, &t) {
		return
	}
	t.ID = existing.ID
	h.editor.Dispatch(editor.UpdateTemplate{Template: t})
	writeJSON(w, http.StatusOK, t)
}

// DeleteTemplate handles DELETE /api/templates/{id}.
func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	t := h.findTemplate(w, r)
	if t == nil {
		return
	}
	h.editor.Dispatch(editor.DeleteTemplate{Template: *t})
	w.WriteHeader(http.StatusNoContent)
}

// DuplicateTemplate handles POST /api/templates/{id}/duplicate.
func (h *Handler) DuplicateTemplate(w http.ResponseWriter, r *http.Request) {
	t := h.findTemplate(w, r)
	if t == nil {
		return
	}
	state := h.editor.Dispatch(editor.DuplicateTemplate{Template: *t})
	writeJSON(w, http.StatusCreated, state.Templates[len(state.Templates)-1])
}

// ActivateTemplate handles POST /api/templates/{id}/activate.
func (h *Handler) ActivateTemplate(w http.ResponseWriter, r *http.Request) {
	t := h.findTemplate(w, r)
	if t == nil {
		return
	}
	state := h.editor.Dispatch(editor.SetActiveTemplate{Template: *t})
	writeJSON(w, http.StatusOK, *editor.ActiveTemplate(state))
}

// CreateSection handles POST /api/templates/{id}/sections.
func (h *Handler) CreateSection(w http.ResponseWriter, r *http.Request) {
	t := h.findTemplate(w, r)
	if t == nil {
		return
	}
	state := h.editor.Dispatch(editor.AddSection{Template: *t})
	for i := range state.Templates {
		if state.Templates[i].ID == t.ID {
			ss := state.Templates[i].Sections
			writeJSON(w, http.StatusCreated, ss[len(ss)-1])
			return
		}
	}
}

// UpdateSection handles PUT /api/templates/{id}/sections/{sid}.
func (h *Handler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	existing := h.findSection(w, r)
	if existing == nil {
		return
	}
	var s models.Section
	if !decodeBody(w, r, &s) {
		return
	}
	if s.Type != "" && !s.Type.Valid() {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid section type"))
		return
	}
	if s.Type == "" {
		s.Type = existing.Type
	}
	s.ID = existing.ID
	s.TemplateID = existing.TemplateID
	h.editor.Dispatch(editor.UpdateSection{Section: s})
	writeJSON(w, http.StatusOK, s)
}

// DeleteSection handles DELETE /api/templates/{id}/sections/{sid}.
func (h *Handler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	s := h.findSection(w, r)
	if s == nil {
		return
	}
	h.editor.Dispatch(editor.DeleteSection{Section: *s})
	w.WriteHeader(http.StatusNoContent)
}

// DuplicateSection handles POST /api/templates/{id}/sections/{sid}/duplicate.
func (h *Handler) DuplicateSection(w http.ResponseWriter, r *http.Request) {
	s := h.findSection(w, r)
	if s == nil {
		return
	}
	state := h.editor.Dispatch(editor.DuplicateSection{Section: *s})
	for i := range state.Templates {
		if state.Templates[i].ID == s.TemplateID {
			ss := state.Templates[i].Sections
			writeJSON(w, http.StatusCreated, ss[len(ss)-1])
			return
		}
	}
}

// LinkSection handles POST /api/templates/{id}/sections/{sid}/link. The
// linked clone is appended to the active template.
func (h *Handler) LinkSection(w http.ResponseWriter, r *http.Request) {
	s := h.findSection(w, r)
	if s == nil {
		return
	}
	if editor.ActiveTemplate(h.editor.State()) == nil {
		writeJSON(w, http.StatusConflict, errorBody("no active template"))
		return
	}
	state := h.editor.Dispatch(editor.CreateLinkedSection{Section: *s})
	active := editor.ActiveTemplate(state)
	writeJSON(w, http.StatusCreated, active.Sections[len(active.Sections)-1])
}

// UpdateLinkedSections handles PUT /api/sections/linked: the body section's
// fields propagate to every member of its linked group in the active
// template.
func (h *Handler) UpdateLinkedSections(w http.ResponseWriter, r *http.Request) {
	var s models.Section
	if !decodeBody(w, r, &s) {
		return
	}
	state := h.editor.Dispatch(editor.UpdateAllLinkedSections{Section: s})
	active := editor.ActiveTemplate(state)
	if active == nil {
		writeJSON(w, http.StatusConflict, errorBody("no active template"))
		return
	}
	writeJSON(w, http.StatusOK, *active)
}

// SelectAllSections handles POST /api/templates/{id}/sections/select-all.
func (h *Handler) SelectAllSections(w http.ResponseWriter, r *http.Request) {
	t := h.findTemplate(w, r)
	if t == nil {
		return
	}
	var req SelectAllRequest
	if !decodeBody(w, r, &req) {
		return
	}
	state := h.editor.Dispatch(editor.SelectAllSections{Template: *t, Enabled: req.Enabled})
	for i := range state.Templates {
		if state.Templates[i].ID == t.ID {
			writeJSON(w, http.StatusOK, state.Templates[i])
			return
		}
	}
}

// GetOutput handles GET /api/output.
func (h *Handler) GetOutput(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, OutputResponse{Output: editor.Output(h.editor.State())})
}

// CopyOutput handles POST /api/output/copy: the derived output is written to
// the system clipboard.
func (h *Handler) CopyOutput(w http.ResponseWriter, r *http.Request) {
	output := editor.Output(h.editor.State())
	if err := h.copyText(output); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("clipboard write failed"))
		return
	}
	writeJSON(w, http.StatusOK, OutputResponse{Output: output})
}

// GetPreferences handles GET /api/preferences.
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	state := h.editor.State()
	writeJSON(w, http.StatusOK, PreferencesResponse{
		SectionsFilter: state.SectionsFilter,
		PreviewVisible: state.PreviewVisible,
	})
}

// UpdatePreferences handles PUT /api/preferences. Absent fields keep their
// current value.
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req UpdatePreferencesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.SectionsFilter != nil {
		h.editor.Dispatch(editor.UpdateSectionFilter{Filter: *req.SectionsFilter})
	}
	if req.PreviewVisible != nil {
		h.editor.Dispatch(editor.UpdatePreviewVisible{Visible: *req.PreviewVisible})
	}
	h.GetPreferences(w, r)
}

// ListNotes handles GET /api/notes.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	state := h.notes.State()
	ns := state.Notes
	if ns == nil {
		ns = []models.Note{}
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: ns, Total: len(ns)})
}

// CreateNote handles POST /api/notes. The body is optional; provided fields
// overwrite the new note's defaults.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	state := h.notes.Dispatch(notes.AddNote{})
	note := state.Notes[len(state.Notes)-1]

	if applyNoteRequest(&note, req) {
		state = h.notes.Dispatch(notes.UpdateNote{Note: note})
		note = *notes.Find(state, note.ID)
	}

	if h.events != nil {
		h.events.PublishNoteEvent(sse.NoteCreated, note)
	}
	writeJSON(w, http.StatusCreated, note)
}

func applyNoteRequest(note *models.Note, req CreateNoteRequest) bool {
	changed := false
	set := func(ok bool, f func()) {
		if ok {
			f()
			changed = true
		}
	}
	set(req.Text != nil, func() { note.Text = *req.Text })
	set(req.Opened != nil, func() { note.Opened = *req.Opened })
	set(req.BackgroundClass != nil, func() { note.BackgroundClass = *req.BackgroundClass })
	set(req.X != nil, func() { note.X = *req.X })
	set(req.Y != nil, func() { note.Y = *req.Y })
	set(req.Width != nil, func() { note.Width = *req.Width })
	set(req.Height != nil, func() { note.Height = *req.Height })
	return changed
}

// UpdateNote handles PUT /api/notes/{id}.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid note id"))
		return
	}
	if notes.Find(h.notes.State(), id) == nil {
		writeJSON(w, http.StatusNotFound, errorBody("note not found"))
		return
	}
	var n models.Note
	if !decodeBody(w, r, &n) {
		return
	}
	n.ID = id
	h.notes.Dispatch(notes.UpdateNote{Note: n})
	if h.events != nil {
		h.events.PublishNoteEvent(sse.NoteUpdated, n)
	}
	writeJSON(w, http.StatusOK, n)
}

// DeleteNote handles DELETE /api/notes/{id}.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid note id"))
		return
	}
	note := notes.Find(h.notes.State(), id)
	if note == nil {
		writeJSON(w, http.StatusNotFound, errorBody("note not found"))
		return
	}
	h.notes.Dispatch(notes.DeleteNote{Note: *note})
	if h.events != nil {
		h.events.PublishNoteEvent(sse.NoteDeleted, *note)
	}
	w.WriteHeader(http.StatusNoContent)
}

// DuplicateNote handles POST /api/notes/{id}/duplicate.
func (h *Handler) DuplicateNote(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid note id"))
		return
	}
	note := notes.Find(h.notes.State(), id)
	if note == nil {
		writeJSON(w, http.StatusNotFound, errorBody("note not found"))
		return
	}
	state := h.notes.Dispatch(notes.DuplicateNote{Note: *note})
	created := state.Notes[len(state.Notes)-1]
	if h.events != nil {
		h.events.PublishNoteEvent(sse.NoteCreated, created)
	}
	writeJSON(w, http.StatusCreated, created)
}

// BulkUpdateNotes handles PUT /api/notes: the window manager reconciles all
// opened flags in one shot.
func (h *Handler) BulkUpdateNotes(w http.ResponseWriter, r *http.Request) {
	var ns []models.Note
	if !decodeBody(w, r, &ns) {
		return
	}
	state := h.notes.Dispatch(notes.UpdateNotes{Notes: ns})
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: state.Notes, Total: len(state.Notes)})
}

// GetTextFilter handles GET /api/textfilter.
func (h *Handler) GetTextFilter(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, textFilterResponse(h.filter.State()))
}

// UpdateTextFilter handles PUT /api/textfilter. Absent fields keep their
// current value.
func (h *Handler) UpdateTextFilter(w http.ResponseWriter, r *http.Request) {
	var req UpdateTextFilterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.TargetText != nil {
		h.filter.Dispatch(textfiltr.UpdateTargetText{Text: *req.TargetText})
	}
	if req.FilterNumbers != nil {
		h.filter.Dispatch(textfiltr.UpdateFilterNumbers{Enabled: *req.FilterNumbers})
	}
	if req.FilterLetters != nil {
		h.filter.Dispatch(textfiltr.UpdateFilterLetters{Enabled: *req.FilterLetters})
	}
	if req.FilterSpecialCharacters != nil {
		h.filter.Dispatch(textfiltr.UpdateFilterSpecialCharacters{Enabled: *req.FilterSpecialCharacters})
	}
	if req.FilterSpaces != nil {
		h.filter.Dispatch(textfiltr.UpdateFilterSpaces{Enabled: *req.FilterSpaces})
	}
	if req.PreviewVisible != nil {
		h.filter.Dispatch(textfiltr.UpdatePreviewVisible{Enabled: *req.PreviewVisible})
	}
	writeJSON(w, http.StatusOK, textFilterResponse(h.filter.State()))
}

func textFilterResponse(state textfiltr.State) TextFilterResponse {
	return TextFilterResponse{
		TargetText:              state.TargetText,
		FilterNumbers:           state.FilterNumbers,
		FilterLetters:           state.FilterLetters,
		FilterSpecialCharacters: state.FilterSpecialCharacters,
		FilterSpaces:            state.FilterSpaces,
		PreviewVisible:          state.PreviewVisible,
		Output:                  textfiltr.Output(state),
	}
}

// GetSettings handles GET /api/settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, settingsResponse(h.settings.State()))
}

// UpdateSettings handles PUT /api/settings. Absent fields keep their current
// value.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Theme != nil {
		h.settings.Dispatch(settings.UpdateTheme{Theme: *req.Theme})
	}
	if req.AddonsEnabled != nil {
		h.settings.Dispatch(settings.UpdateAddonsEnabled{Enabled: *req.AddonsEnabled})
	}
	if req.AutoCopyOnTemplateChange != nil {
		h.settings.Dispatch(settings.UpdateAutoCopyOnTemplateChange{Enabled: *req.AutoCopyOnTemplateChange})
	}
	if req.AutoCopyOnOutputChange != nil {
		h.settings.Dispatch(settings.UpdateAutoCopyOnOutputChange{Enabled: *req.AutoCopyOnOutputChange})
	}
	if req.LinkedSectionsEnabled != nil {
		h.settings.Dispatch(settings.UpdateLinkedSectionsEnabled{Enabled: *req.LinkedSectionsEnabled})
	}
	writeJSON(w, http.StatusOK, settingsResponse(h.settings.State()))
}

func settingsResponse(state settings.State) SettingsResponse {
	return SettingsResponse{
		Theme:                    state.Theme,
		AddonsEnabled:            state.AddonsEnabled,
		AutoCopyOnTemplateChange: state.AutoCopyOnTemplateChange,
		AutoCopyOnOutputChange:   state.AutoCopyOnOutputChange,
		LinkedSectionsEnabled:    state.LinkedSectionsEnabled,
	}
}
