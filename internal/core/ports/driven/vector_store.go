package driven

import (
	"context"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
)

// VectorStore is the embedding-indexed document store.
// The index is built offline; the assistant only reads it.
type VectorStore interface {
	// Search returns up to k nearest documents ordered by ascending distance.
	// An empty index returns an empty slice and no error.
	Search(ctx context.Context, embedding []float32, k int) ([]domain.RetrievalResult, error)

	// Count returns the number of indexed documents
	Count(ctx context.Context) (int, error)

	// HealthCheck verifies the store is reachable
	HealthCheck(ctx context.Context) error
}
