package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/onwyhq/onwy/internal/knowledge"
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger     *slog.Logger
	Store      *knowledge.Store // Required
	Pool       *pgxpool.Pool    // Optional: nil makes /ready report 503
	TrustProxy bool             // Trust X-Real-IP/X-Forwarded-For headers (behind reverse proxy)
	RateBurst  int              // Rate limiter burst size per IP (0 = default 60)
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("knowledge store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rh := &resourceHandler{store: cfg.Store, logger: logger}
	sh := &searchHandler{store: cfg.Store, logger: logger}
	st := &statsHandler{store: cfg.Store, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/resources", rh.createResource)
	mux.HandleFunc("GET /api/v1/search", sh.search)
	mux.HandleFunc("GET /api/v1/stats", st.getStats)

	// Rate limiter: per-IP token bucket (1 token/sec refill)
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 60
	}
	rl := newRateLimiter(1.0, burst)

	// Build middleware stack (outermost first):
	//   Recovery → RequestID → Logging → RateLimit → Routes
	// RequestID must be before Logging so request_id is available in log attributes.
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	// Top-level mux keeps health probes outside the middleware stack so
	// probes are never rate limited.
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health)
	topMux.Handle("GET /ready", readiness(cfg.Pool, logger))
	topMux.Handle("/", handler)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
