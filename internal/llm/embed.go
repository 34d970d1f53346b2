package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
)

// embedModel is the fixed embedding model used for skill-vector generation.
// Unlike GenerateContent/GenerateJSON, embeddings are not tiered: the matcher
// only ever needs one fixed-dimension vector space per deployment.
const embedModel = "text-embedding-004"

// Embed generates an embedding vector for the given text using Gemini's
// embedding API. It implements skillmatch.Embedder.
func (c *GeminiClient) Embed(ctx context.Context, text string) ([]float64, error) {
	model := c.client.EmbeddingModel(embedModel)
	resp, err := model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if resp == nil || resp.Embedding == nil {
		return nil, fmt.Errorf("empty embedding response")
	}

	values := resp.Embedding.Values
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out, nil
}

// CachedEmbedder wraps an Embedder with the persistence-backed embedding
// cache described by the matching engine's persistence interface (C10). A
// cache hit never calls the underlying Embedder; a miss stores the computed
// embedding, and a repeated put for the same text overwrites the earlier
// entry in both bundled stores.
type CachedEmbedder struct {
	inner EmbedderCache
	next  Embedder
}

// Embedder is re-declared here (rather than imported from skillmatch) so the
// llm package does not need to depend on skillmatch; skillmatch.Embedder and
// this interface are structurally identical and Go satisfies both implicitly.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// EmbedderCache is the subset of the persistence Store needed to back an
// embedding cache decorator.
type EmbedderCache interface {
	EmbeddingCacheGet(ctx context.Context, text string) ([]float64, bool, error)
	EmbeddingCachePut(ctx context.Context, text string, embedding []float64) error
}

// NewCachedEmbedder wraps next with a persistence-backed cache.
func NewCachedEmbedder(cache EmbedderCache, next Embedder) *CachedEmbedder {
	return &CachedEmbedder{inner: cache, next: next}
}

// Embed returns the cached embedding for text if present, otherwise computes
// it via the wrapped Embedder and stores the result.
func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if cached, ok, err := e.inner.EmbeddingCacheGet(ctx, text); err != nil {
		return nil, fmt.Errorf("embedding cache lookup: %w", err)
	} else if ok {
		return cached, nil
	}

	embedding, err := e.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := e.inner.EmbeddingCachePut(ctx, text, embedding); err != nil {
		return nil, fmt.Errorf("embedding cache store: %w", err)
	}
	return embedding, nil
}
