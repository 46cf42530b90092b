package mocks

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
)

// Ensure MockAssetAPI implements AssetAPI
var _ driven.AssetAPI = (*MockAssetAPI)(nil)

// MockAssetAPI returns canned records and records every query
type MockAssetAPI struct {
	mu      sync.Mutex
	results []json.RawMessage
	err     error
	queries []domain.AssetQuery
}

// NewMockAssetAPI creates a MockAssetAPI returning the given JSON records
func NewMockAssetAPI(records ...string) *MockAssetAPI {
	m := &MockAssetAPI{results: []json.RawMessage{}}
	for _, r := range records {
		m.results = append(m.results, json.RawMessage(r))
	}
	return m
}

func (m *MockAssetAPI) Search(ctx context.Context, query domain.AssetQuery) (*domain.AssetSearchResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}

	resp := &domain.AssetSearchResponse{Results: m.results}
	raw, _ := json.Marshal(map[string]any{"results": m.results})
	resp.Raw = raw
	return resp, nil
}

// Helper methods for testing

func (m *MockAssetAPI) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Queries returns every query received
func (m *MockAssetAPI) Queries() []domain.AssetQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.AssetQuery, len(m.queries))
	copy(out, m.queries)
	return out
}
