package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/onwyhq/onwy/internal/segment"
)

// Store manages resources and their embeddings backed by PostgreSQL +
// pgvector. Each ingested document becomes zero or more resource rows,
// each resource zero or more embedding rows, written in one transaction
// per document.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	pool     *pgxpool.Pool
	embedder ChunkEmbedder
	logger   *slog.Logger
}

// NewStore creates a knowledge Store.
func NewStore(pool *pgxpool.Pool, embedder ChunkEmbedder, logger *slog.Logger) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{pool: pool, embedder: embedder, logger: logger}, nil
}

// CreateResource ingests one document: normalize, split into sections,
// and for each qualifying section insert a resource row plus the
// embeddings of its sentence chunks. All writes for the document happen
// in a single transaction; any failure rolls back everything.
//
// The embedding call happens inside the transaction loop. The model call
// itself cannot be rolled back, but a failure after a partial call and
// before the corresponding write leaves no store mutation, so the
// transaction remains a store-side safety net. Sections are processed
// strictly in split order.
//
// Returns a human-readable status message on success.
func (s *Store) CreateResource(ctx context.Context, input ResourceInput) (string, error) {
	if strings.TrimSpace(input.Content) == "" {
		return "", ErrEmptyContent
	}

	sections := segment.Split(segment.Normalize(input.Content))

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("beginning ingestion transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			s.logger.Debug("ingestion transaction rollback", "error", rbErr)
		}
	}()

	stored := 0
	embedded := 0
	for _, section := range sections {
		if segment.TokenCount(section) < MinSectionTokens {
			continue
		}

		var resourceID uuid.UUID
		if err := tx.QueryRow(ctx,
			`INSERT INTO resources (content) VALUES ($1) RETURNING id`,
			section,
		).Scan(&resourceID); err != nil {
			return "", fmt.Errorf("inserting resource: %w", err)
		}

		chunks, err := s.embedder.Chunks(ctx, section)
		if err != nil {
			return "", fmt.Errorf("embedding section: %w", err)
		}

		batch := &pgx.Batch{}
		for _, chunk := range chunks {
			if segment.TokenCount(chunk.Content) < MinChunkTokens {
				continue
			}
			batch.Queue(
				`INSERT INTO embeddings (resource_id, content, embedding) VALUES ($1, $2, $3)`,
				resourceID, chunk.Content, chunk.Vector,
			)
		}

		if batch.Len() > 0 {
			if err := sendBatch(ctx, tx, batch); err != nil {
				return "", fmt.Errorf("inserting embeddings: %w", err)
			}
			embedded += batch.Len()
		}
		stored++
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("committing ingestion transaction: %w", err)
	}

	s.logger.Info("resource created",
		"sections", len(sections), "stored", stored, "embeddings", embedded)
	return fmt.Sprintf("Resource created: %d sections stored, %d chunks embedded.", stored, embedded), nil
}

// sendBatch executes all queued inserts and surfaces the first failure.
func sendBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) error {
	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return err
		}
	}
	return results.Close()
}

// FindRelevantContent embeds the query and returns stored chunks with
// cosine similarity above SimilarityThreshold, ordered descending,
// limited to TopK. An empty result is a valid outcome; embedding
// failures propagate to the caller.
func (s *Store) FindRelevantContent(ctx context.Context, query string) ([]ContentMatch, error) {
	vec, err := s.embedder.Single(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT content, 1 - (embedding <=> $1) AS similarity
		 FROM embeddings
		 WHERE 1 - (embedding <=> $1) > $2
		 ORDER BY similarity DESC
		 LIMIT $3`,
		vec, SimilarityThreshold, TopK,
	)
	if err != nil {
		return nil, fmt.Errorf("searching embeddings: %w", err)
	}
	defer rows.Close()

	matches := make([]ContentMatch, 0, TopK)
	for rows.Next() {
		var m ContentMatch
		if err := rows.Scan(&m.Content, &m.Similarity); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading matches: %w", err)
	}
	return matches, nil
}

// Counts returns the number of stored resources and embeddings.
func (s *Store) Counts(ctx context.Context) (resources, embeddings int64, err error) {
	if err = s.pool.QueryRow(ctx, `SELECT count(*) FROM resources`).Scan(&resources); err != nil {
		return 0, 0, fmt.Errorf("counting resources: %w", err)
	}
	if err = s.pool.QueryRow(ctx, `SELECT count(*) FROM embeddings`).Scan(&embeddings); err != nil {
		return 0, 0, fmt.Errorf("counting embeddings: %w", err)
	}
	return resources, embeddings, nil
}
