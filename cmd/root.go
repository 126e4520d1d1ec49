// Package cmd implements the onwy command line interface.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/onwyhq/onwy/internal/log"
)

var (
	logLevel string
	logJSON  bool
)

var rootCmd = &cobra.Command{
	Use:   "onwy",
	Short: "Onwy - knowledge base ingestion and retrieval",
	Long: `Onwy manages a similarity-searchable knowledge base.

Documents are split into sections, embedded, and stored in PostgreSQL
with pgvector. Ingest single documents, CSV rows, PDF pages, or whole
folders; search returns stored content ranked by similarity.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		slog.SetDefault(log.New(log.Config{Level: parseLevel(logLevel), JSON: logJSON}))
	},
}

// parseLevel maps a level name to slog.Level, defaulting to info.
func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON")
}
