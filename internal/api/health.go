package api

import (
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// health is a liveness probe for Docker/Kubernetes.
// Returns 200 OK with {"status":"ok"}.
func health(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readiness returns a readiness probe handler that pings the database.
// A nil pool reports 503 so a misconfigured deployment never serves traffic.
func readiness(pool *pgxpool.Pool, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if pool == nil {
			WriteError(w, http.StatusServiceUnavailable, "not_ready", "database pool not configured", logger)
			return
		}
		if err := pool.Ping(r.Context()); err != nil {
			logger.Error("readiness check failed", "error", err)
			WriteError(w, http.StatusServiceUnavailable, "not_ready", "database not ready", logger)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
}
