package ai

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tmc/langchaingo/embeddings"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
)

// Ensure Embedder implements EmbeddingService
var _ driven.EmbeddingService = (*Embedder)(nil)

// DefaultQueryCacheSize is the number of query embeddings kept in memory
const DefaultQueryCacheSize = 1024

// Model dimensions for known embedding models
var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
	"nomic-embed-text":       768,
	"bge-m3":                 1024,
}

// Embedder implements EmbeddingService on top of a langchaingo embedder.
// Query embeddings are memoized in an LRU cache since users repeat questions.
type Embedder struct {
	impl       embeddings.Embedder
	model      string
	dimensions int
	cache      *lru.Cache[string, []float32] // nil when disabled
}

// NewEmbedder wraps impl. dimensions <= 0 uses the known size of model.
func NewEmbedder(impl embeddings.Embedder, model string, dimensions, cacheSize int) (*Embedder, error) {
	if impl == nil {
		return nil, fmt.Errorf("%w: embedder implementation is required", domain.ErrInvalidConfig)
	}
	if dimensions <= 0 {
		dimensions = modelDimensions[model]
	}

	e := &Embedder{
		impl:       impl,
		model:      model,
		dimensions: dimensions,
	}
	if cacheSize > 0 {
		cache, err := lru.New[string, []float32](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("init embedding cache: %w", err)
		}
		e.cache = cache
	}
	return e, nil
}

// Embed generates embeddings for multiple texts
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vectors, err := e.impl.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, classifyError("embed documents", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: received %d embeddings for %d texts", domain.ErrMalformedOutput, len(vectors), len(texts))
	}
	return vectors, nil
}

// EmbedQuery generates an embedding for a search query
func (e *Embedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	key := strings.TrimSpace(query)
	if vector, ok := e.lookup(key); ok {
		return vector, nil
	}

	vector, err := e.impl.EmbedQuery(ctx, key)
	if err != nil {
		return nil, classifyError("embed query", err)
	}
	e.store(key, vector)
	return cloneVector(vector), nil
}

// Dimensions returns the embedding dimension size
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

// Model returns the model name being used
func (e *Embedder) Model() string {
	return e.model
}

// HealthCheck verifies the embedding service is available
func (e *Embedder) HealthCheck(ctx context.Context) error {
	_, err := e.impl.EmbedQuery(ctx, "health check")
	return classifyError("embedding health check", err)
}

// Close releases resources held by the embedding service
func (e *Embedder) Close() error {
	if e.cache != nil {
		e.cache.Purge()
	}
	return nil
}

func (e *Embedder) lookup(key string) ([]float32, bool) {
	if e.cache == nil {
		return nil, false
	}
	vector, ok := e.cache.Get(key)
	if !ok {
		return nil, false
	}
	return cloneVector(vector), true
}

func (e *Embedder) store(key string, vector []float32) {
	if len(vector) == 0 {
		return
	}
	if e.cache != nil {
		e.cache.Add(key, cloneVector(vector))
	}
}

func cloneVector(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
