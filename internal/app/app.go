// Package app provides application initialization and dependency injection.
//
// App is the container that wires configuration, the database pool, Genkit,
// the embedding generator, the knowledge store, and the batch loader. Setup
// builds it in dependency order; Close releases everything in reverse.
package app

import (
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/onwyhq/onwy/internal/config"
	"github.com/onwyhq/onwy/internal/embedding"
	"github.com/onwyhq/onwy/internal/knowledge"
	"github.com/onwyhq/onwy/internal/source"
	"github.com/onwyhq/onwy/internal/tools"
)

// App is the core application container.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Genkit    *genkit.Genkit
	Embedder  ai.Embedder
	Pool      *pgxpool.Pool
	Generator *embedding.Generator
	Store     *knowledge.Store
	Loader    *source.Loader
	Knowledge *tools.Knowledge
	Tools     []ai.Tool

	otelCleanup func()
}

// Close gracefully shuts down all resources.
func (a *App) Close() error {
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("shutting down application")

	if a.Pool != nil {
		a.Pool.Close()
		logger.Info("database pool closed")
	}

	// Flush pending trace spans last so shutdown itself is traced.
	if a.otelCleanup != nil {
		a.otelCleanup()
	}

	return nil
}
