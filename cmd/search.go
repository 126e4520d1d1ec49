package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/onwyhq/onwy/internal/app"
	"github.com/onwyhq/onwy/internal/config"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the knowledge base",
	Long: `Search the knowledge base by semantic similarity.

Returns stored content whose embedding similarity to the query exceeds
the retrieval threshold, most similar first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd.Context(), strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(ctx context.Context, query string) error {
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

	matches, err := a.Store.FindRelevantContent(ctx, query)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if len(matches) == 0 {
		fmt.Println("No relevant content found.")
		return nil
	}

	for i, m := range matches {
		fmt.Printf("%d. [%.3f] %s\n", i+1, m.Similarity, m.Content)
	}
	return nil
}
