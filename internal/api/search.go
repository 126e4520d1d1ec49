package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/onwyhq/onwy/internal/knowledge"
)

// maxQueryLength bounds the search query to keep embedding calls cheap.
const maxQueryLength = 1000

// contentFinder performs similarity search over stored embeddings.
type contentFinder interface {
	FindRelevantContent(ctx context.Context, query string) ([]knowledge.ContentMatch, error)
}

// statsCounter reports knowledge base totals.
type statsCounter interface {
	Counts(ctx context.Context) (resources, embeddings int64, err error)
}

// searchHandler handles GET /api/v1/search.
type searchHandler struct {
	store  contentFinder
	logger *slog.Logger
}

func (h *searchHandler) search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		WriteError(w, http.StatusBadRequest, "missing_query", "query parameter 'q' is required", h.logger)
		return
	}
	if len(query) > maxQueryLength {
		WriteError(w, http.StatusBadRequest, "query_too_long", "query must be 1000 characters or fewer", h.logger)
		return
	}

	matches, err := h.store.FindRelevantContent(r.Context(), query)
	if err != nil {
		h.logger.Error("searching knowledge base", "error", err, "query_len", len(query))
		WriteError(w, http.StatusInternalServerError, "search_failed", "failed to search knowledge base", h.logger)
		return
	}

	// An empty result set is a valid outcome; return [] rather than null.
	if matches == nil {
		matches = []knowledge.ContentMatch{}
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"results": matches,
		"count":   len(matches),
	})
}

// statsHandler handles GET /api/v1/stats.
type statsHandler struct {
	store  statsCounter
	logger *slog.Logger
}

func (h *statsHandler) getStats(w http.ResponseWriter, r *http.Request) {
	resources, embeddings, err := h.store.Counts(r.Context())
	if err != nil {
		h.logger.Error("counting knowledge base", "error", err)
		WriteError(w, http.StatusInternalServerError, "stats_failed", "failed to get stats", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]int64{
		"resources":  resources,
		"embeddings": embeddings,
	})
}
