package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
)

// Ensure the mocks implement the cross-encoder ports
var (
	_ driven.CrossEncoder       = (*MockCrossEncoder)(nil)
	_ driven.CrossEncoderLoader = (*MockCrossEncoderLoader)(nil)
)

// MockCrossEncoder scores texts from a lookup table; unknown texts score 0
type MockCrossEncoder struct {
	model  string
	scores map[string]float64
	err    error
}

func (m *MockCrossEncoder) Score(ctx context.Context, query string, texts []string) ([]float64, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]float64, len(texts))
	for i, text := range texts {
		out[i] = m.scores[text]
	}
	return out, nil
}

func (m *MockCrossEncoder) Model() string {
	return m.model
}

// MockCrossEncoderLoader hands out MockCrossEncoders and counts loads
type MockCrossEncoderLoader struct {
	mu       sync.Mutex
	scores   map[string]float64
	loadErr  error
	scoreErr error
	loads    map[string]int
}

// NewMockCrossEncoderLoader creates a loader whose encoders use scores
func NewMockCrossEncoderLoader(scores map[string]float64) *MockCrossEncoderLoader {
	return &MockCrossEncoderLoader{
		scores: scores,
		loads:  make(map[string]int),
	}
}

func (m *MockCrossEncoderLoader) Load(ctx context.Context, model string) (driven.CrossEncoder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.loads[model]++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return &MockCrossEncoder{model: model, scores: m.scores, err: m.scoreErr}, nil
}

// Helper methods for testing

func (m *MockCrossEncoderLoader) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// SetScoreError makes encoders loaded afterwards fail to score
func (m *MockCrossEncoderLoader) SetScoreError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scoreErr = err
}

// LoadCount returns how many times model was loaded
func (m *MockCrossEncoderLoader) LoadCount(model string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads[model]
}
