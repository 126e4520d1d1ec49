package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onwyhq/onwy/internal/testutil"
)

func TestNewServer_RequiresStore(t *testing.T) {
	_, err := NewServer(ServerConfig{Logger: testutil.DiscardLogger()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "knowledge store")
}

func TestHealthEndpoint(t *testing.T) {
	w := httptest.NewRecorder()
	health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestReadiness_NilPool(t *testing.T) {
	w := httptest.NewRecorder()
	readiness(nil, testutil.DiscardLogger()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusTeapot, map[string]string{"message": "hello"})

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	var result map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "hello", result["message"])
}

func TestWriteError_Envelope(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, http.StatusBadRequest, "bad_input", "something was off", testutil.DiscardLogger())

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var envelope struct {
		Error *Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "bad_input", envelope.Error.Code)
	assert.Equal(t, "something was off", envelope.Error.Message)
}
