package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
)

// Ensure MockLLMService implements LLMService
var _ driven.LLMService = (*MockLLMService)(nil)

// MockLLMService is a scriptable LLMService for testing.
// Without a GenerateFn it echoes "mock answer"; without a GenerateWithToolsFn
// it returns a text generation with no tool calls.
type MockLLMService struct {
	mu sync.Mutex

	GenerateFn          func(ctx context.Context, messages []domain.Message) (string, error)
	GenerateWithToolsFn func(ctx context.Context, messages []domain.Message, tools []domain.ToolSpec) (*domain.Generation, error)

	generateCalls [][]domain.Message
	toolCalls     [][]domain.ToolSpec
	pingErr       error
}

// NewMockLLMService creates a new MockLLMService
func NewMockLLMService() *MockLLMService {
	return &MockLLMService{}
}

func (m *MockLLMService) Generate(ctx context.Context, messages []domain.Message) (string, error) {
	m.mu.Lock()
	m.generateCalls = append(m.generateCalls, messages)
	fn := m.GenerateFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, messages)
	}
	return "mock answer", nil
}

func (m *MockLLMService) GenerateWithTools(ctx context.Context, messages []domain.Message, tools []domain.ToolSpec) (*domain.Generation, error) {
	m.mu.Lock()
	m.toolCalls = append(m.toolCalls, tools)
	fn := m.GenerateWithToolsFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, messages, tools)
	}
	return &domain.Generation{}, nil
}

func (m *MockLLMService) Model() string {
	return "mock-llm"
}

func (m *MockLLMService) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pingErr
}

func (m *MockLLMService) Close() error {
	return nil
}

// Helper methods for testing

// GenerateCalls returns the messages of every Generate call
func (m *MockLLMService) GenerateCalls() [][]domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]domain.Message, len(m.generateCalls))
	copy(out, m.generateCalls)
	return out
}

// GenerateCallCount returns how many times Generate was called
func (m *MockLLMService) GenerateCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.generateCalls)
}

// ToolCallCount returns how many times GenerateWithTools was called
func (m *MockLLMService) ToolCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toolCalls)
}

func (m *MockLLMService) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingErr = err
}
