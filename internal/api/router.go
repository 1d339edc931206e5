package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(h *Handler, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Templates and sections.
	r.Get("/templates", h.ListTemplates)
	r.Post("/templates", h.CreateTemplate)
	r.Put("/templates/{id}", h.UpdateTemplate)
	r.Delete("/templates/{id}", h.DeleteTemplate)
	r.Post("/templates/{id}/duplicate", h.DuplicateTemplate)
	r.Post("/templates/{id}/activate", h.ActivateTemplate)
	r.Post("/templates/{id}/sections", h.CreateSection)
	r.Post("/templates/{id}/sections/select-all", h.SelectAllSections)
	r.Put("/templates/{id}/sections/{sid}", h.UpdateSection)
	r.Delete("/templates/{id}/sections/{sid}", h.DeleteSection)
	r.Post("/templates/{id}/sections/{sid}/duplicate", h.DuplicateSection)
	r.Post("/templates/{id}/sections/{sid}/link", h.LinkSection)
	r.Put("/sections/linked", h.UpdateLinkedSections)

	// Derived output.
	r.Get("/output", h.GetOutput)
	r.Post("/output/copy", h.CopyOutput)

	// Editor preferences.
	r.Get("/preferences", h.GetPreferences)
	r.Put("/preferences", h.UpdatePreferences)

	// Notes.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Put("/notes", h.BulkUpdateNotes)
	r.Put("/notes/{id}", h.UpdateNote)
	r.Delete("/notes/{id}", h.DeleteNote)
	r.Post("/notes/{id}/duplicate", h.DuplicateNote)

	// Text filter add-on.
	r.Get("/textfilter", h.GetTextFilter)
	r.Put("/textfilter", h.UpdateTextFilter)

	// Settings.
	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.UpdateSettings)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
