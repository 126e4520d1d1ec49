package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onwyhq/onwy/internal/testutil"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "two sentences",
			text: "The fox sleeps. The whale swims.",
			want: []string{"The fox sleeps", "The whale swims"},
		},
		{
			name: "no terminal period",
			text: "The fox sleeps. The whale swims",
			want: []string{"The fox sleeps", "The whale swims"},
		},
		{
			name: "consecutive periods dropped",
			text: "One... Two.",
			want: []string{"One", "Two"},
		},
		{
			name: "single fragment",
			text: "no periods here",
			want: []string{"no periods here"},
		},
		{
			name: "whitespace only",
			text: "   ",
			want: []string{},
		},
		{
			name: "only periods",
			text: "...",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSentences(tt.text))
		})
	}
}

func TestNewGenerator_RequiresEmbedder(t *testing.T) {
	_, err := NewGenerator(nil, testutil.DiscardLogger())
	assert.Error(t, err)
}

func TestChunks_OrderMatchesFragments(t *testing.T) {
	mock := testutil.NewMockEmbedder()
	g, err := NewGenerator(mock, testutil.DiscardLogger())
	require.NoError(t, err)

	chunks, err := g.Chunks(context.Background(), "alpha one. beta two. gamma three.")
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, "alpha one", chunks[0].Content)
	assert.Equal(t, "beta two", chunks[1].Content)
	assert.Equal(t, "gamma three", chunks[2].Content)

	// One batched call for the whole text, not one per fragment.
	assert.Equal(t, 1, mock.Calls())

	// Deterministic mock: identical content embeds identically.
	again, err := g.Chunks(context.Background(), "alpha one. beta two. gamma three.")
	require.NoError(t, err)
	assert.Equal(t, chunks[0].Vector.Slice(), again[0].Vector.Slice())
}

func TestChunks_EmptyTextYieldsNoChunks(t *testing.T) {
	mock := testutil.NewMockEmbedder()
	g, err := NewGenerator(mock, testutil.DiscardLogger())
	require.NoError(t, err)

	chunks, err := g.Chunks(context.Background(), " . . ")
	require.NoError(t, err)
	assert.Empty(t, chunks)
	assert.Zero(t, mock.Calls(), "no model call for empty input")
}

func TestChunks_WrapsEmbedderError(t *testing.T) {
	mock := testutil.NewMockEmbedder()
	mock.Err = errors.New("quota exhausted")
	g, err := NewGenerator(mock, testutil.DiscardLogger())
	require.NoError(t, err)

	_, err = g.Chunks(context.Background(), "some text.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exhausted")
}

func TestSingle(t *testing.T) {
	mock := testutil.NewMockEmbedder()
	mock.Vectors = map[string][]float32{
		"the query": make([]float32, int(VectorDimension)),
	}
	mock.Vectors["the query"][0] = 1

	g, err := NewGenerator(mock, testutil.DiscardLogger())
	require.NoError(t, err)

	vec, err := g.Single(context.Background(), "the query")
	require.NoError(t, err)

	got := vec.Slice()
	require.Len(t, got, int(VectorDimension))
	assert.Equal(t, float32(1), got[0])
}

func TestSingle_CanceledContext(t *testing.T) {
	g, err := NewGenerator(testutil.NewMockEmbedder(), testutil.DiscardLogger(),
		WithRateLimit(0.001, 1))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	// First call consumes the burst token.
	_, err = g.Single(ctx, "first")
	require.NoError(t, err)

	cancel()
	_, err = g.Single(ctx, "second")
	require.Error(t, err, "rate limiter wait must respect cancellation")
}
