package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	calls int
	value []float64
	err   error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	f.calls++
	return f.value, f.err
}

type fakeEmbedderCache struct {
	data map[string][]float64
}

func newFakeEmbedderCache() *fakeEmbedderCache {
	return &fakeEmbedderCache{data: make(map[string][]float64)}
}

func (c *fakeEmbedderCache) EmbeddingCacheGet(ctx context.Context, text string) ([]float64, bool, error) {
	v, ok := c.data[text]
	return v, ok, nil
}

func (c *fakeEmbedderCache) EmbeddingCachePut(ctx context.Context, text string, embedding []float64) error {
	c.data[text] = embedding
	return nil
}

func TestCachedEmbedder_MissThenHit(t *testing.T) {
	cache := newFakeEmbedderCache()
	inner := &fakeEmbedder{value: []float64{0.1, 0.2, 0.3}}
	e := NewCachedEmbedder(cache, inner)

	v1, err := e.Embed(context.Background(), "golang")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, v1)
	assert.Equal(t, 1, inner.calls)

	v2, err := e.Embed(context.Background(), "golang")
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, inner.calls, "second call should be served from cache, not the underlying embedder")
}

func TestCachedEmbedder_DistinctKeys(t *testing.T) {
	cache := newFakeEmbedderCache()
	inner := &fakeEmbedder{value: []float64{1, 2}}
	e := NewCachedEmbedder(cache, inner)

	_, err := e.Embed(context.Background(), "golang")
	require.NoError(t, err)
	_, err = e.Embed(context.Background(), "rust")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}
