// Package testutil provides shared testing utilities for the onwy project:
// a deterministic mock embedder, a pgvector-enabled Postgres container
// helper, and a quiet test logger.
package testutil

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"sync"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
)

// MockEmbedder is a deterministic ai.Embedder for tests.
//
// By default every input text maps to a reproducible unit vector derived
// from its content hash, so equal texts always embed identically. Tests
// can pin exact vectors per text via Vectors, inject failures via Err,
// and observe call concurrency via MaxInFlight.
type MockEmbedder struct {
	// Dimension of generated vectors. Defaults to 768 when zero.
	Dimension int

	// Vectors pins exact embeddings for specific input texts.
	Vectors map[string][]float32

	// Err, when non-nil, is returned by every Embed call.
	Err error

	// FailAfter, when > 0, makes Embed fail once this many calls have
	// succeeded. Used to exercise mid-document failure paths.
	FailAfter int
	failErr   error

	mu       sync.Mutex
	calls    int
	inFlight int
	maxSeen  int

	// Block, when non-nil, is received from inside Embed before
	// returning. Lets tests hold calls open to observe concurrency.
	Block chan struct{}
}

// NewMockEmbedder returns a mock embedder with default settings.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

// FailAfterCalls configures the embedder to return err once n calls have
// completed successfully.
func (m *MockEmbedder) FailAfterCalls(n int, err error) {
	m.FailAfter = n
	m.failErr = err
}

// Name implements ai.Embedder.
func (m *MockEmbedder) Name() string { return "mock-embedder" }

// Register implements ai.Embedder. No-op for testing.
func (m *MockEmbedder) Register(api.Registry) {}

// Embed implements ai.Embedder. Returns one vector per input document, in
// input order.
func (m *MockEmbedder) Embed(ctx context.Context, req *ai.EmbedRequest) (*ai.EmbedResponse, error) {
	m.mu.Lock()
	m.calls++
	m.inFlight++
	if m.inFlight > m.maxSeen {
		m.maxSeen = m.inFlight
	}
	failNow := m.FailAfter > 0 && m.calls > m.FailAfter
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.Err != nil {
		return nil, m.Err
	}
	if failNow {
		return nil, m.failErr
	}

	embeddings := make([]*ai.Embedding, len(req.Input))
	for i, doc := range req.Input {
		text := ""
		if len(doc.Content) > 0 {
			text = doc.Content[0].Text
		}
		embeddings[i] = &ai.Embedding{Embedding: m.vectorFor(text)}
	}
	return &ai.EmbedResponse{Embeddings: embeddings}, nil
}

// Calls returns the number of Embed invocations so far.
func (m *MockEmbedder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MaxInFlight returns the highest number of simultaneously active Embed
// calls observed. This is the counting instrument for concurrency-bound
// tests.
func (m *MockEmbedder) MaxInFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxSeen
}

// vectorFor derives a reproducible unit vector from the text content, or
// returns the pinned vector when one is configured.
func (m *MockEmbedder) vectorFor(text string) []float32 {
	if v, ok := m.Vectors[text]; ok {
		return v
	}

	dim := m.Dimension
	if dim <= 0 {
		dim = 768
	}

	sum := sha256.Sum256([]byte(text))
	vec := make([]float32, dim)
	var norm float64
	for i := range vec {
		// Cycle through the hash so any dimension count is covered.
		word := binary.BigEndian.Uint32(sum[(i*4)%28 : (i*4)%28+4])
		v := float64(word%1000)/500.0 - 1.0
		vec[i] = float32(v)
		norm += v * v
	}
	if norm == 0 {
		vec[0] = 1
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}
