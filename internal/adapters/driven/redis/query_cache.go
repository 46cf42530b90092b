package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.QueryCache = (*QueryCache)(nil)

// QueryCache implements driven.QueryCache using Redis.
// Entries expire through Redis TTL.
type QueryCache struct {
	client *redis.Client
}

// NewQueryCache creates a new Redis-backed QueryCache
func NewQueryCache(client *redis.Client) *QueryCache {
	return &QueryCache{client: client}
}

// NewClient parses a redis:// URL and verifies the server answers
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid redis url: %v", domain.ErrInvalidConfig, err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: redis ping: %v", domain.ErrServiceUnavailable, err)
	}
	return client, nil
}

// Get returns the cached value for key. A missing key is not an error.
func (c *QueryCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: redis get: %v", domain.ErrServiceUnavailable, err)
	}
	return value, true, nil
}

// Set stores value under key for ttl. A non-positive ttl stores without expiry.
func (c *QueryCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %v", domain.ErrServiceUnavailable, err)
	}
	return nil
}

// Ping checks if Redis is reachable
func (c *QueryCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: redis ping: %v", domain.ErrServiceUnavailable, err)
	}
	return nil
}
