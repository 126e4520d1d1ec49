// Package observability provides OpenTelemetry integration for distributed
// tracing.
//
// Traces are exported over OTLP HTTP to a local collector (OpenTelemetry
// Collector, Jaeger, or a vendor agent listening on the OTLP port). The
// collector handles authentication and forwarding, so no vendor credentials
// ever pass through the application.
//
// Tracing is opt-in: an empty endpoint in the config disables it entirely
// and Setup returns a no-op shutdown function.
package observability

import (
	"context"
	"log/slog"
	"os"

	"github.com/firebase/genkit/go/core/tracing"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Config for OTLP trace export.
type Config struct {
	// Endpoint is the collector OTLP HTTP endpoint, host:port (no scheme).
	// Empty disables tracing.
	Endpoint string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// ServiceName is the service name shown in the tracing backend.
	ServiceName string
}

// DefaultServiceName is used when the config leaves the service name empty.
const DefaultServiceName = "onwy"

// Setup registers an OTLP HTTP exporter with Genkit's TracerProvider so
// embedding and generation spans are exported alongside our own.
//
// Returns a shutdown function that flushes pending spans. Exporter creation
// failures degrade gracefully: tracing is disabled and the error is logged,
// never fatal.
func Setup(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if cfg.Endpoint == "" {
		return noop, nil
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = DefaultServiceName
	}

	// Genkit's TracerProvider reads OTEL_* env for resource attributes.
	_ = os.Setenv("OTEL_SERVICE_NAME", serviceName)
	if cfg.Environment != "" {
		_ = os.Setenv("OTEL_RESOURCE_ATTRIBUTES", "deployment.environment="+cfg.Environment)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithInsecure(), // collector is local, no TLS
	)
	if err != nil {
		slog.Warn("failed to create OTLP exporter, tracing disabled", "error", err)
		return noop, nil
	}

	processor := sdktrace.NewBatchSpanProcessor(exporter)
	tracing.TracerProvider().RegisterSpanProcessor(processor)

	slog.Debug("tracing enabled",
		"endpoint", cfg.Endpoint,
		"service", serviceName,
		"environment", cfg.Environment,
	)

	return tracing.TracerProvider().Shutdown, nil
}
