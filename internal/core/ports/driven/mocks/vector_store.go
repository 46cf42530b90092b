package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
)

// Ensure MockVectorStore implements VectorStore
var _ driven.VectorStore = (*MockVectorStore)(nil)

// MockVectorStore returns a fixed result list, truncated to k
type MockVectorStore struct {
	mu        sync.Mutex
	results   []domain.RetrievalResult
	err       error
	searches  int
	lastK     int
	healthErr error
}

// NewMockVectorStore creates a MockVectorStore holding results
func NewMockVectorStore(results ...domain.RetrievalResult) *MockVectorStore {
	return &MockVectorStore{results: results}
}

func (m *MockVectorStore) Search(ctx context.Context, embedding []float32, k int) ([]domain.RetrievalResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.searches++
	m.lastK = k
	if m.err != nil {
		return nil, m.err
	}

	n := len(m.results)
	if k < n {
		n = k
	}
	out := make([]domain.RetrievalResult, n)
	copy(out, m.results[:n])
	return out, nil
}

func (m *MockVectorStore) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.results), m.err
}

func (m *MockVectorStore) HealthCheck(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.healthErr
}

// Helper methods for testing

func (m *MockVectorStore) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockVectorStore) SetHealthError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthErr = err
}

// SearchCount returns how many searches were executed
func (m *MockVectorStore) SearchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searches
}

// LastK returns the k of the most recent search
func (m *MockVectorStore) LastK() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastK
}
