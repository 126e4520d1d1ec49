package testutil

import (
	"log/slog"
)

// DiscardLogger returns a slog.Logger that discards all output.
// Use in tests to keep ingestion and API logs out of test output; for
// components that take log.Logger, log.NewNop() is equivalent.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
