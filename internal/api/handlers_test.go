package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onwyhq/onwy/internal/knowledge"
	"github.com/onwyhq/onwy/internal/testutil"
)

type fakeCreator struct {
	msg  string
	err  error
	got  knowledge.ResourceInput
	hits int
}

func (f *fakeCreator) CreateResource(_ context.Context, input knowledge.ResourceInput) (string, error) {
	f.hits++
	f.got = input
	return f.msg, f.err
}

type fakeFinder struct {
	matches []knowledge.ContentMatch
	err     error
}

func (f *fakeFinder) FindRelevantContent(_ context.Context, _ string) ([]knowledge.ContentMatch, error) {
	return f.matches, f.err
}

type fakeCounter struct {
	resources  int64
	embeddings int64
	err        error
}

func (f *fakeCounter) Counts(_ context.Context) (int64, int64, error) {
	return f.resources, f.embeddings, f.err
}

func TestCreateResource(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		creator    *fakeCreator
		wantStatus int
		wantCode   string
	}{
		{
			name:       "success",
			body:       `{"content":"the quick brown fox jumps over the lazy dog near the river"}`,
			creator:    &fakeCreator{msg: "Resource created: 1 sections stored, 2 chunks embedded."},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "empty content",
			body:       `{"content":""}`,
			creator:    &fakeCreator{err: knowledge.ErrEmptyContent},
			wantStatus: http.StatusBadRequest,
			wantCode:   "empty_content",
		},
		{
			name:       "malformed json",
			body:       `{"content":`,
			creator:    &fakeCreator{},
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_json",
		},
		{
			name:       "store failure",
			body:       `{"content":"valid content"}`,
			creator:    &fakeCreator{err: errors.New("db down")},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "ingest_failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &resourceHandler{store: tt.creator, logger: testutil.DiscardLogger()}
			req := httptest.NewRequest(http.MethodPost, "/api/v1/resources", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			h.createResource(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				var envelope struct {
					Error *Error `json:"error"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantCode, envelope.Error.Code)
			}
		})
	}
}

func TestCreateResource_PassesContentThrough(t *testing.T) {
	creator := &fakeCreator{msg: "ok"}
	h := &resourceHandler{store: creator, logger: testutil.DiscardLogger()}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resources", strings.NewReader(`{"content":"hello world"}`))
	w := httptest.NewRecorder()
	h.createResource(w, req)

	require.Equal(t, 1, creator.hits)
	assert.Equal(t, "hello world", creator.got.Content)
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		finder     *fakeFinder
		wantStatus int
		wantCount  float64
	}{
		{
			name:  "matches found",
			query: "q=what+is+onwy",
			finder: &fakeFinder{matches: []knowledge.ContentMatch{
				{Content: "Onwy is a chat assistant.", Similarity: 0.91},
			}},
			wantStatus: http.StatusOK,
			wantCount:  1,
		},
		{
			name:       "no matches is a valid empty result",
			query:      "q=unrelated",
			finder:     &fakeFinder{},
			wantStatus: http.StatusOK,
			wantCount:  0,
		},
		{
			name:       "missing query",
			query:      "",
			finder:     &fakeFinder{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "query too long",
			query:      "q=" + strings.Repeat("a", maxQueryLength+1),
			finder:     &fakeFinder{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "retrieval error propagates as 500",
			query:      "q=anything",
			finder:     &fakeFinder{err: errors.New("embed quota exceeded")},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &searchHandler{store: tt.finder, logger: testutil.DiscardLogger()}
			req := httptest.NewRequest(http.MethodGet, "/api/v1/search?"+tt.query, nil)
			w := httptest.NewRecorder()

			h.search(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				var resp map[string]any
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantCount, resp["count"])
				assert.NotNil(t, resp["results"], "results must be [] not null")
			}
		})
	}
}

func TestGetStats(t *testing.T) {
	h := &statsHandler{store: &fakeCounter{resources: 3, embeddings: 17}, logger: testutil.DiscardLogger()}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	w := httptest.NewRecorder()

	h.getStats(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]int64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp["resources"])
	assert.Equal(t, int64(17), resp["embeddings"])
}

func TestGetStats_Error(t *testing.T) {
	h := &statsHandler{store: &fakeCounter{err: errors.New("conn refused")}, logger: testutil.DiscardLogger()}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	w := httptest.NewRecorder()

	h.getStats(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
