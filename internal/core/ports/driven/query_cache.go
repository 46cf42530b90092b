package driven

import (
	"context"
	"time"
)

// QueryCache memoizes model outputs that depend only on the question text,
// such as classification labels and refined search queries.
type QueryCache interface {
	// Get returns the cached value and whether it was present
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a value with the given TTL
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Ping verifies the cache backend is reachable
	Ping(ctx context.Context) error
}
