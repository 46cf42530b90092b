package mocks

import (
	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
)

// Ensure MockFAQStore implements FAQStore
var _ driven.FAQStore = (*MockFAQStore)(nil)

// MockFAQStore returns the same match for every question
type MockFAQStore struct {
	match domain.FAQMatch
}

// NewMockFAQStore creates a MockFAQStore returning match
func NewMockFAQStore(match domain.FAQMatch) *MockFAQStore {
	return &MockFAQStore{match: match}
}

func (m *MockFAQStore) Match(question string) domain.FAQMatch {
	return m.match
}
