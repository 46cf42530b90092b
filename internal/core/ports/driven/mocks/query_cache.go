package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
)

// Ensure MockQueryCache implements QueryCache
var _ driven.QueryCache = (*MockQueryCache)(nil)

// MockQueryCache is an in-memory QueryCache; TTLs are recorded, not enforced
type MockQueryCache struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

// NewMockQueryCache creates a new MockQueryCache
func NewMockQueryCache() *MockQueryCache {
	return &MockQueryCache{
		values: make(map[string]string),
		ttls:   make(map[string]time.Duration),
	}
}

func (m *MockQueryCache) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MockQueryCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *MockQueryCache) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Helper methods for testing

func (m *MockQueryCache) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Len returns the number of cached keys
func (m *MockQueryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}
