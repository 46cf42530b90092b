package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
)

// setupTestQueryCache creates a test Redis client and QueryCache
func setupTestQueryCache(t *testing.T) (*QueryCache, *miniredis.Miniredis, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return NewQueryCache(client), mr, func() {
		client.Close()
		mr.Close()
	}
}

func TestQueryCache_SetGet(t *testing.T) {
	cache, _, cleanup := setupTestQueryCache(t)
	defer cleanup()
	ctx := context.Background()

	if err := cache.Set(ctx, "assist:refine:abc", "노트북컴퓨터 반납 절차", time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok, err := cache.Get(ctx, "assist:refine:abc")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if value != "노트북컴퓨터 반납 절차" {
		t.Errorf("unexpected value %q", value)
	}
}

func TestQueryCache_Miss(t *testing.T) {
	cache, _, cleanup := setupTestQueryCache(t)
	defer cleanup()

	value, ok, err := cache.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("expected no error on miss, got %v", err)
	}
	if ok || value != "" {
		t.Errorf("expected miss, got %q, %v", value, ok)
	}
}

func TestQueryCache_Expiry(t *testing.T) {
	cache, mr, cleanup := setupTestQueryCache(t)
	defer cleanup()
	ctx := context.Background()

	if err := cache.Set(ctx, "assist:classify:abc", "DIRECT", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if ttl := mr.TTL("assist:classify:abc"); ttl != time.Minute {
		t.Errorf("expected 1m ttl, got %v", ttl)
	}

	mr.FastForward(2 * time.Minute)

	if _, ok, _ := cache.Get(ctx, "assist:classify:abc"); ok {
		t.Error("expected entry to expire")
	}
}

func TestQueryCache_ServerDown(t *testing.T) {
	cache, mr, cleanup := setupTestQueryCache(t)
	defer cleanup()
	mr.Close()
	ctx := context.Background()

	if _, _, err := cache.Get(ctx, "k"); !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Errorf("expected ErrServiceUnavailable from Get, got %v", err)
	}
	if err := cache.Set(ctx, "k", "v", time.Minute); !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Errorf("expected ErrServiceUnavailable from Set, got %v", err)
	}
	if err := cache.Ping(ctx); !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Errorf("expected ErrServiceUnavailable from Ping, got %v", err)
	}
}

func TestNewClient(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client, err := NewClient(context.Background(), "redis://"+mr.Addr()+"/0")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	client.Close()

	if _, err := NewClient(context.Background(), "not a url"); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
