package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
	"github.com/custodia-labs/campus-assist/internal/runtime"
)

// Retriever runs nearest-neighbor search over the document index.
// The embedding service is resolved per call via runtime.Services.
type Retriever struct {
	store    driven.VectorStore
	services *runtime.Services
	timeouts Timeouts
	logger   *slog.Logger
}

// NewRetriever creates a new Retriever
func NewRetriever(store driven.VectorStore, services *runtime.Services, timeouts Timeouts, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		store:    store,
		services: services,
		timeouts: timeouts,
		logger:   logger,
	}
}

// Retrieve returns up to k candidates for query, closest first.
// An empty index or an embedding with no dimensions yields an empty slice and no error;
// a failing embedding service or store yields an error.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievalResult, error) {
	if k <= 0 {
		return []domain.RetrievalResult{}, nil
	}

	embedder := r.services.EmbeddingService()
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedding service not configured", domain.ErrServiceUnavailable)
	}

	start := time.Now()
	embedCtx, cancel := withTimeout(ctx, r.timeouts.Embedding)
	embedding, err := embedder.EmbedQuery(embedCtx, query)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", classifyCallError(err))
	}
	if len(embedding) == 0 {
		r.logger.Warn("query embedding is empty, treating as no results")
		return []domain.RetrievalResult{}, nil
	}

	searchCtx, cancel := withTimeout(ctx, r.timeouts.Embedding)
	defer cancel()
	results, err := r.store.Search(searchCtx, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", classifyCallError(err))
	}
	if results == nil {
		results = []domain.RetrievalResult{}
	}

	r.logger.Debug("retrieved candidates", "count", len(results), "k", k, "took", time.Since(start))
	return results, nil
}
