package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
)

// Ensure MockTool implements Tool
var _ driven.Tool = (*MockTool)(nil)

// MockTool returns a fixed result or error and records its arguments
type MockTool struct {
	mu     sync.Mutex
	name   string
	result *domain.ToolResult
	err    error
	calls  []map[string]any
}

// NewMockTool creates a tool returning result
func NewMockTool(name string, result *domain.ToolResult) *MockTool {
	return &MockTool{name: name, result: result}
}

// NewFailingMockTool creates a tool whose invocation fails with err
func NewFailingMockTool(name string, err error) *MockTool {
	return &MockTool{name: name, err: err}
}

func (m *MockTool) Spec() domain.ToolSpec {
	return domain.ToolSpec{
		Name:        m.name,
		Description: "mock tool " + m.name,
		Parameters:  map[string]any{"type": "object", "properties": map[string]any{}},
	}
}

func (m *MockTool) Invoke(ctx context.Context, args map[string]any) (*domain.ToolResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, args)
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return domain.NewDataResult("{}"), nil
	}
	out := *m.result
	return &out, nil
}

// Helper methods for testing

// Calls returns the arguments of every invocation
func (m *MockTool) Calls() []map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]map[string]any, len(m.calls))
	copy(out, m.calls)
	return out
}
