package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/onwyhq/onwy/internal/app"
	"github.com/onwyhq/onwy/internal/config"
	"github.com/onwyhq/onwy/internal/source"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <path>...",
	Short: "Ingest documents into the knowledge base",
	Long: `Ingest documents into the knowledge base.

Each path may be a CSV file (one resource per row), a PDF (one resource
per page, requires pdftotext), a plain text or markdown file, or a
directory containing any of these. A failing document is logged and
skipped; the rest of the batch continues.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(cmd.Context(), args)
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(ctx context.Context, paths []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.Default()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	var total source.Result
	for _, path := range paths {
		result, err := ingestPath(ctx, a.Loader, path)
		if err != nil {
			return err
		}
		total.Succeeded += result.Succeeded
		total.Failed += result.Failed
		total.FailedUnits = append(total.FailedUnits, result.FailedUnits...)
	}

	fmt.Printf("Ingested %d units, %d failed\n", total.Succeeded, total.Failed)
	for _, unit := range total.FailedUnits {
		fmt.Printf("  failed: %s\n", unit)
	}
	return nil
}

// ingestPath dispatches a single path to the loader by type.
func ingestPath(ctx context.Context, loader *source.Loader, path string) (source.Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return source.Result{}, fmt.Errorf("stat %s: %w", path, err)
	}

	if info.IsDir() {
		return loader.IngestFolder(ctx, path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loader.IngestCSV(ctx, path)
	case ".pdf":
		return loader.IngestPDF(ctx, path)
	default:
		// Plain text or markdown: one resource for the whole file.
		data, err := os.ReadFile(path) //nolint:gosec // user-supplied CLI path
		if err != nil {
			return source.Result{}, fmt.Errorf("reading %s: %w", path, err)
		}
		return loader.IngestText(ctx, filepath.Base(path), string(data)), nil
	}
}
