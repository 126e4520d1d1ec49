package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onwyhq/onwy/internal/testutil"
)

func TestRequestIDMiddleware_GeneratesUUID(t *testing.T) {
	handler := requestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := requestIDFromContext(r.Context())
		assert.True(t, ok, "request ID missing from context")
		assert.NotEmpty(t, id)
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	got := w.Header().Get("X-Request-ID")
	require.NotEmpty(t, got, "X-Request-ID header not set")
	_, err := uuid.Parse(got)
	assert.NoError(t, err, "X-Request-ID is not a valid UUID")
}

func TestRequestIDMiddleware_ReusesValidID(t *testing.T) {
	want := uuid.New().String()
	handler := requestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", want)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, want, w.Header().Get("X-Request-ID"))
}

func TestRequestIDMiddleware_ReplacesInvalidID(t *testing.T) {
	handler := requestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "not-a-uuid'; DROP TABLE resources;--")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	got := w.Header().Get("X-Request-ID")
	assert.NotEqual(t, "not-a-uuid'; DROP TABLE resources;--", got)
	_, err := uuid.Parse(got)
	assert.NoError(t, err)
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := recoveryMiddleware(testutil.DiscardLogger())(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
}

func TestRateLimiter_ExhaustsBurst(t *testing.T) {
	rl := newRateLimiter(0, 3)

	for i := range 3 {
		assert.True(t, rl.allow("10.0.0.1"), "request %d should be allowed", i)
	}
	assert.False(t, rl.allow("10.0.0.1"), "burst exhausted, should be denied")

	// A different IP has its own bucket.
	assert.True(t, rl.allow("10.0.0.2"))
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{
			name:       "remote addr with port",
			remoteAddr: "192.0.2.1:54321",
			want:       "192.0.2.1",
		},
		{
			name:       "x-real-ip trusted",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "203.0.113.7"},
			trustProxy: true,
			want:       "203.0.113.7",
		},
		{
			name:       "x-real-ip ignored when proxy untrusted",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "203.0.113.7"},
			want:       "10.0.0.1",
		},
		{
			name:       "x-forwarded-for first hop",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.9, 10.0.0.2"},
			trustProxy: true,
			want:       "198.51.100.9",
		},
		{
			name:       "garbage header falls back to remote addr",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "not-an-ip"},
			trustProxy: true,
			want:       "10.0.0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIP(req, tt.trustProxy))
		})
	}
}
