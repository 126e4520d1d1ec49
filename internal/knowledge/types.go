package knowledge

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/onwyhq/onwy/internal/embedding"
)

// Ingestion and retrieval parameters. The token minimums filter out
// fragments too short to embed meaningfully; the retrieval knobs bound
// what the chat layer receives.
const (
	// MinSectionTokens is the minimum whitespace-delimited token count for
	// a section to be stored as a resource. Shorter sections are discarded
	// before any write.
	MinSectionTokens = 10

	// MinChunkTokens is the minimum token count for an embedded chunk.
	// Shorter fragments are filtered out before insert.
	MinChunkTokens = 2

	// TopK is the maximum number of matches returned by retrieval.
	TopK = 4

	// SimilarityThreshold is the minimum cosine similarity for a match to
	// be returned.
	SimilarityThreshold = 0.5
)

// ErrEmptyContent indicates ingestion input with no usable content.
// Reported before any store mutation.
var ErrEmptyContent = errors.New("content is required")

// ResourceInput is the validated ingestion input for one document.
type ResourceInput struct {
	Content string
}

// Resource is one stored unit of ingested text: a qualifying section of a
// source document. Immutable after creation.
type Resource struct {
	ID        uuid.UUID
	Content   string
	CreatedAt time.Time
}

// ContentMatch is a single retrieval result: the embedded chunk content
// and its cosine similarity to the query.
type ContentMatch struct {
	Content    string  `json:"name"`
	Similarity float64 `json:"similarity"`
}

// ChunkEmbedder is the embedding capability the store needs. Satisfied by
// *embedding.Generator; defined here so tests can substitute fakes.
type ChunkEmbedder interface {
	// Chunks splits text into sentence fragments and embeds them in order.
	Chunks(ctx context.Context, text string) ([]embedding.Chunk, error)

	// Single embeds one string as exactly one vector.
	Single(ctx context.Context, text string) (pgvector.Vector, error)
}
