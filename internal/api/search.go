package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/snarg/minutes-engine/internal/metrics"
	"github.com/snarg/minutes-engine/internal/registry"
	"github.com/snarg/minutes-engine/internal/search"
)

// SearchHandler serves literal keyword search over a transcript.
type SearchHandler struct {
	registry *registry.Registry
}

func NewSearchHandler(reg *registry.Registry) *SearchHandler {
	return &SearchHandler{registry: reg}
}

func (h *SearchHandler) Routes(r chi.Router) {
	r.Get("/{id}/search", h.Search)
}

// SearchMatch is one matched utterance with its hit spans and a highlighted
// rendering of the original text.
type SearchMatch struct {
	UtteranceIndex int          `json:"utterance_index"`
	Speaker        string       `json:"speaker"`
	Text           string       `json:"text"`
	Highlighted    string       `json:"highlighted"`
	Hits           []search.Hit `json:"hits"`
}

// Search handles GET /api/v1/transcripts/{id}/search?q=term.
// An empty result set is a 200 with an empty list — "nothing found" is not
// an error.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	entry, err := h.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	query := r.URL.Query().Get("q")
	hits := search.Find(query, entry.Transcript)
	metrics.SearchesTotal.Inc()

	// Group hits per utterance so each match carries one highlight splice.
	matches := []SearchMatch{}
	for _, hit := range hits {
		if n := len(matches); n > 0 && matches[n-1].UtteranceIndex == hit.UtteranceIndex {
			matches[n-1].Hits = append(matches[n-1].Hits, hit)
			continue
		}
		u, _ := entry.Transcript.UtteranceAt(hit.UtteranceIndex)
		matches = append(matches, SearchMatch{
			UtteranceIndex: hit.UtteranceIndex,
			Speaker:        u.Speaker,
			Text:           u.Text,
			Hits:           []search.Hit{hit},
		})
	}
	for i := range matches {
		matches[i].Highlighted = search.Highlight(matches[i].Text, matches[i].Hits, "<mark>", "</mark>")
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"matches": matches,
		"total":   len(hits),
	})
}
