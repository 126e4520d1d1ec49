package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/onwyhq/onwy/db"
	"github.com/onwyhq/onwy/internal/config"
	"github.com/onwyhq/onwy/internal/embedding"
	"github.com/onwyhq/onwy/internal/knowledge"
	"github.com/onwyhq/onwy/internal/observability"
	"github.com/onwyhq/onwy/internal/source"
	"github.com/onwyhq/onwy/internal/tools"
)

// Setup creates and initializes the application.
// Returns an App with embedded cleanup; call Close() to release.
func Setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, retErr error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, Logger: logger}

	// On error, clean up everything already initialized
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	// Tracing must be registered before Genkit init so embedding spans
	// reach the exporter.
	a.otelCleanup = provideOtelShutdown(ctx, cfg, logger)

	pool, err := provideDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Pool = pool

	g, err := provideGenkit(ctx)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	embedder := googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	if embedder == nil {
		return nil, fmt.Errorf("embedder %q not found", cfg.EmbedderModel)
	}
	a.Embedder = embedder

	generator, err := embedding.NewGenerator(embedder, logger,
		embedding.WithRateLimit(cfg.EmbedRateLimit, cfg.EmbedRateBurst))
	if err != nil {
		return nil, fmt.Errorf("creating embedding generator: %w", err)
	}
	a.Generator = generator

	store, err := knowledge.NewStore(pool, generator, logger)
	if err != nil {
		return nil, fmt.Errorf("creating knowledge store: %w", err)
	}
	a.Store = store

	loader, err := source.NewLoader(store, logger)
	if err != nil {
		return nil, fmt.Errorf("creating loader: %w", err)
	}
	a.Loader = loader

	if err := provideTools(a); err != nil {
		return nil, err
	}

	return a, nil
}

// provideOtelShutdown sets up OTLP tracing and returns a cleanup that
// flushes pending spans with a bounded timeout.
func provideOtelShutdown(ctx context.Context, cfg *config.Config, logger *slog.Logger) func() {
	shutdown, err := observability.Setup(ctx, observability.Config{
		Endpoint:    cfg.Otel.Endpoint,
		Environment: cfg.Otel.Environment,
		ServiceName: cfg.Otel.ServiceName,
	})
	if err != nil {
		logger.Warn("setting up tracing", "error", err)
		return func() {}
	}

	//nolint:contextcheck // Independent context: shutdown runs during teardown when parent is canceled
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("shutting down tracer provider", "error", err)
		}
	}
}

// provideDBPool runs migrations and creates a PostgreSQL connection pool.
func provideDBPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if err := db.Migrate(cfg.PostgresURL()); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}

// provideGenkit initializes Genkit with the Google AI plugin.
// GEMINI_API_KEY is read by the plugin from the environment.
func provideGenkit(ctx context.Context) (*genkit.Genkit, error) {
	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		return nil, errors.New("initializing genkit with googleai plugin")
	}
	return g, nil
}

// provideTools creates the knowledge toolset and registers it with Genkit.
func provideTools(a *App) error {
	kt, err := tools.NewKnowledge(a.Store, a.Logger)
	if err != nil {
		return fmt.Errorf("creating knowledge tools: %w", err)
	}
	a.Knowledge = kt

	registered, err := tools.RegisterKnowledge(a.Genkit, kt)
	if err != nil {
		return fmt.Errorf("registering knowledge tools: %w", err)
	}
	a.Tools = registered

	var names []string
	for _, t := range registered {
		names = append(names, t.Name())
	}
	a.Logger.Info("tools registered", "tools", names)
	return nil
}
