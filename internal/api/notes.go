package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/snarg/minutes-engine/internal/extract"
)

// NotesHandler serves summarization and action-item extraction.
type NotesHandler struct {
	deps Deps
}

func NewNotesHandler(deps Deps) *NotesHandler {
	return &NotesHandler{deps: deps}
}

func (h *NotesHandler) Routes(r chi.Router) {
	r.Post("/{id}/summary", h.Summarize)
	r.Post("/{id}/action-items", h.ActionItems)
}

// Summarize handles POST /api/v1/transcripts/{id}/summary.
func (h *NotesHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	h.extract(w, r, extract.KindSummary)
}

// ActionItems handles POST /api/v1/transcripts/{id}/action-items.
func (h *NotesHandler) ActionItems(w http.ResponseWriter, r *http.Request) {
	h.extract(w, r, extract.KindActionItems)
}

func (h *NotesHandler) extract(w http.ResponseWriter, r *http.Request, kind extract.Kind) {
	entry, err := h.deps.Registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	result, err := h.deps.Pipeline.Extract(r.Context(), kind, entry.Transcript)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	switch kind {
	case extract.KindSummary:
		WriteJSON(w, http.StatusOK, map[string]any{
			"id":      entry.ID,
			"summary": result.Summary,
			"model":   h.deps.LLM.Model(),
		})
	default:
		WriteJSON(w, http.StatusOK, map[string]any{
			"id":    entry.ID,
			"items": result.Items,
			"total": len(result.Items),
			"model": h.deps.LLM.Model(),
		})
	}
}
