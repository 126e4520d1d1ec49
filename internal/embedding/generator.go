// Package embedding adapts a Genkit ai.Embedder to the ingestion pipeline.
//
// The generator applies a coarse sentence split (on ".") before embedding,
// sends all fragments of a text in one batched model call, and returns the
// per-fragment vectors in input order. Model failures are wrapped and
// propagated to the caller; the ingestion orchestrator decides what to do
// with them.
package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/pgvector/pgvector-go"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini embedding model used when none is configured.
const DefaultModel = "text-embedding-004"

// VectorDimension is the embedding width stored in pgvector. The model
// output is truncated to this dimensionality; the column type in
// db/migrations must match.
const VectorDimension int32 = 768

// Chunk pairs an embedded text fragment with its vector.
type Chunk struct {
	Content string
	Vector  pgvector.Vector
}

// Generator produces embeddings for text chunks and queries.
// Safe for concurrent use.
type Generator struct {
	embedder ai.Embedder
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithRateLimit caps outgoing embedding calls at r calls per second with
// the given burst. Protects the model quota when batch ingestion fans out.
func WithRateLimit(r float64, burst int) Option {
	return func(g *Generator) {
		g.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}
}

// NewGenerator creates a Generator around the given embedder.
func NewGenerator(embedder ai.Embedder, logger *slog.Logger, opts ...Option) (*Generator, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	g := &Generator{
		embedder: embedder,
		limiter:  rate.NewLimiter(rate.Inf, 0),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// SplitSentences splits text on sentence-terminal periods and drops empty
// fragments. This is the fine-grained chunking pass applied at embedding
// time, independent of the structural section split upstream.
func SplitSentences(text string) []string {
	parts := strings.Split(text, ".")
	fragments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			fragments = append(fragments, p)
		}
	}
	return fragments
}

// Chunks splits text into sentence fragments and embeds them all in a
// single batched model call. The returned chunks are in fragment order;
// the model guarantees positional correspondence between inputs and
// embeddings. A text with no non-empty fragments yields no chunks and no
// error.
func (g *Generator) Chunks(ctx context.Context, text string) ([]Chunk, error) {
	fragments := SplitSentences(text)
	if len(fragments) == 0 {
		return nil, nil
	}

	vectors, err := g.embed(ctx, fragments)
	if err != nil {
		return nil, err
	}

	chunks := make([]Chunk, len(fragments))
	for i, fragment := range fragments {
		chunks[i] = Chunk{Content: fragment, Vector: vectors[i]}
	}
	return chunks, nil
}

// Single embeds one string without sentence splitting. Used for retrieval
// queries, which must map to exactly one vector.
func (g *Generator) Single(ctx context.Context, text string) (pgvector.Vector, error) {
	vectors, err := g.embed(ctx, []string{text})
	if err != nil {
		return pgvector.Vector{}, err
	}
	return vectors[0], nil
}

// embed performs one batched embedding call for the given texts.
func (g *Generator) embed(ctx context.Context, texts []string) ([]pgvector.Vector, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for embedding rate limiter: %w", err)
	}

	docs := make([]*ai.Document, len(texts))
	for i, t := range texts {
		docs[i] = ai.DocumentFromText(t, nil)
	}

	dim := VectorDimension
	resp, err := g.embedder.Embed(ctx, &ai.EmbedRequest{
		Input:   docs,
		Options: &genai.EmbedContentConfig{OutputDimensionality: &dim},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding %d fragments: %w", len(texts), err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d fragments, got %d vectors",
			len(texts), len(resp.Embeddings))
	}

	vectors := make([]pgvector.Vector, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		if len(e.Embedding) == 0 {
			return nil, fmt.Errorf("empty embedding returned for fragment %d", i)
		}
		vectors[i] = pgvector.NewVector(e.Embedding)
	}

	g.logger.Debug("embedded fragments", "count", len(texts))
	return vectors, nil
}
