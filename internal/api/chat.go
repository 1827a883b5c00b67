package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/snarg/minutes-engine/internal/registry"
)

// ChatHandler serves grounded multi-turn chat over a transcript.
type ChatHandler struct {
	registry *registry.Registry
}

func NewChatHandler(reg *registry.Registry) *ChatHandler {
	return &ChatHandler{registry: reg}
}

func (h *ChatHandler) Routes(r chi.Router) {
	r.Post("/{id}/chat", h.Ask)
	r.Get("/{id}/chat/history", h.History)
}

type chatRequest struct {
	Question string `json:"question"`
}

// Ask handles POST /api/v1/transcripts/{id}/chat.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	entry, err := h.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	var req chatRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteErrorDetail(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	answer, err := entry.Session.Ask(r.Context(), req.Question)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"id":       entry.ID,
		"question": req.Question,
		"answer":   answer,
		"turns":    len(entry.Session.History()),
	})
}

// History handles GET /api/v1/transcripts/{id}/chat/history.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	entry, err := h.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	turns := entry.Session.History()
	WriteJSON(w, http.StatusOK, map[string]any{
		"id":    entry.ID,
		"turns": turns,
		"total": len(turns),
	})
}
