package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/onwyhq/onwy/internal/knowledge"
)

// maxResourceBytes caps the ingestion request body. Large documents go
// through the CLI batch path, not the API.
const maxResourceBytes = 1 << 20 // 1 MiB

// resourceCreator ingests one document into the knowledge base.
type resourceCreator interface {
	CreateResource(ctx context.Context, input knowledge.ResourceInput) (string, error)
}

// resourceHandler handles POST /api/v1/resources.
type resourceHandler struct {
	store  resourceCreator
	logger *slog.Logger
}

type createResourceRequest struct {
	Content string `json:"content"`
}

func (h *resourceHandler) createResource(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxResourceBytes)

	var req createResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body exceeds 1 MiB", h.logger)
			return
		}
		WriteError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", h.logger)
		return
	}

	msg, err := h.store.CreateResource(r.Context(), knowledge.ResourceInput{Content: req.Content})
	if err != nil {
		if errors.Is(err, knowledge.ErrEmptyContent) {
			WriteError(w, http.StatusBadRequest, "empty_content", "content is required", h.logger)
			return
		}
		h.logger.Error("creating resource", "error", err)
		WriteError(w, http.StatusInternalServerError, "ingest_failed", "failed to create resource", h.logger)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]string{"message": msg})
}
