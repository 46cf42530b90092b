package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven/mocks"
)

// testRegistry is a minimal ordered ToolRegistry
type testRegistry struct {
	tools []driven.Tool
}

func newTestRegistry(tools ...driven.Tool) *testRegistry {
	return &testRegistry{tools: tools}
}

func (r *testRegistry) Resolve(name string) (driven.Tool, bool) {
	for _, t := range r.tools {
		if t.Spec().Name == name {
			return t, true
		}
	}
	return nil, false
}

func (r *testRegistry) Specs() []domain.ToolSpec {
	specs := make([]domain.ToolSpec, len(r.tools))
	for i, t := range r.tools {
		specs[i] = t.Spec()
	}
	return specs
}

func (r *testRegistry) Names() []string {
	names := make([]string, len(r.tools))
	for i, t := range r.tools {
		names[i] = t.Spec().Name
	}
	return names
}

// panicTool panics on invocation
type panicTool struct{}

func (panicTool) Spec() domain.ToolSpec { return domain.ToolSpec{Name: "explode"} }
func (panicTool) Invoke(context.Context, map[string]any) (*domain.ToolResult, error) {
	panic("kaboom")
}

func toolCalls(calls ...domain.ToolCall) func(context.Context, []domain.Message, []domain.ToolSpec) (*domain.Generation, error) {
	return func(context.Context, []domain.Message, []domain.ToolSpec) (*domain.Generation, error) {
		return &domain.Generation{ToolCalls: calls}, nil
	}
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestToolRouter_NoCalls(t *testing.T) {
	llm := mocks.NewMockLLMService()
	tool := mocks.NewMockTool("get_item_detail_info", nil)
	r := NewToolRouter(newTestServices(llm, nil), newTestRegistry(tool), nil, DefaultTimeouts(), nil)

	outcome := r.Route(context.Background(), "반납 절차 알려줘")

	assert.False(t, outcome.HasResults())
	assert.Equal(t, 0, outcome.Requested)
	assert.Empty(t, tool.Calls())
	assert.Equal(t, 1, llm.ToolCallCount())
}

func TestToolRouter_ExecutesInOrder(t *testing.T) {
	llm := mocks.NewMockLLMService()
	llm.GenerateWithToolsFn = toolCalls(
		domain.ToolCall{ID: "call_1", Name: "lookup", Arguments: map[string]any{"asset_name": "A"}},
		domain.ToolCall{ID: "call_2", Name: "lookup", Arguments: map[string]any{"asset_name": "B"}},
	)
	tool := mocks.NewMockTool("lookup", domain.NewDataResult(`{"status":"ok"}`))
	metrics := &countingMetrics{}
	r := NewToolRouter(newTestServices(llm, nil), newTestRegistry(tool), metrics, DefaultTimeouts(), nil)

	outcome := r.Route(context.Background(), "A랑 B 찾아")

	require.Len(t, outcome.Results, 2)
	assert.Equal(t, "call_1", outcome.Results[0].CallID)
	assert.Equal(t, "lookup", outcome.Results[0].Name)
	assert.Equal(t, "call_2", outcome.Results[1].CallID)
	require.Len(t, tool.Calls(), 2)
	assert.Equal(t, "A", tool.Calls()[0]["asset_name"])
	assert.Equal(t, "B", tool.Calls()[1]["asset_name"])
	assert.Nil(t, outcome.Navigation())
	assert.Len(t, outcome.DataResults(), 2)
	assert.Equal(t, 2, metrics.toolCalls["lookup/ok"])
}

func TestToolRouter_FailingToolDoesNotBlockOthers(t *testing.T) {
	llm := mocks.NewMockLLMService()
	llm.GenerateWithToolsFn = toolCalls(
		domain.ToolCall{ID: "err_1", Name: "broken", Arguments: map[string]any{"asset_name": "Error", "api_key": "sk-secret"}},
		domain.ToolCall{ID: "ok_1", Name: "lookup", Arguments: map[string]any{"asset_name": "노트북"}},
	)
	broken := mocks.NewFailingMockTool("broken", errors.New("API Timeout"))
	lookup := mocks.NewMockTool("lookup", nil)
	logger, logs := bufferLogger()
	metrics := &countingMetrics{}
	r := NewToolRouter(newTestServices(llm, nil), newTestRegistry(broken, lookup), metrics, DefaultTimeouts(), logger)

	outcome := r.Route(context.Background(), "물품 조회")

	require.Len(t, outcome.Results, 2)
	assert.True(t, outcome.Results[0].IsError)
	assert.JSONEq(t, `{"error":"API Timeout"}`, outcome.Results[0].Content)
	assert.False(t, outcome.Results[1].IsError)

	assert.Contains(t, logs.String(), "API Timeout")
	assert.Contains(t, logs.String(), "level=ERROR")
	assert.NotContains(t, logs.String(), "sk-secret")
	assert.Equal(t, 1, metrics.toolCalls["broken/error"])
}

func TestToolRouter_RecoversPanics(t *testing.T) {
	llm := mocks.NewMockLLMService()
	llm.GenerateWithToolsFn = toolCalls(domain.ToolCall{ID: "p", Name: "explode", Arguments: map[string]any{}})
	r := NewToolRouter(newTestServices(llm, nil), newTestRegistry(panicTool{}), nil, DefaultTimeouts(), nil)

	outcome := r.Route(context.Background(), "q")

	require.Len(t, outcome.Results, 1)
	assert.True(t, outcome.Results[0].IsError)
	assert.Contains(t, outcome.Results[0].Content, "kaboom")
}

func TestToolRouter_SkipsUnknownAndMalformed(t *testing.T) {
	llm := mocks.NewMockLLMService()
	llm.GenerateWithToolsFn = toolCalls(
		domain.ToolCall{ID: "1", Name: "delete_everything", Arguments: map[string]any{}},
		domain.ToolCall{ID: "2", Name: "lookup", RawArguments: `{"asset_name": `},
	)
	tool := mocks.NewMockTool("lookup", nil)
	logger, logs := bufferLogger()
	metrics := &countingMetrics{}
	r := NewToolRouter(newTestServices(llm, nil), newTestRegistry(tool), metrics, DefaultTimeouts(), logger)

	outcome := r.Route(context.Background(), "q")

	assert.False(t, outcome.HasResults())
	assert.Equal(t, 2, outcome.Requested)
	assert.Empty(t, tool.Calls())
	assert.Contains(t, logs.String(), "delete_everything")
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Equal(t, 1, metrics.toolCalls["delete_everything/unknown"])
	assert.Equal(t, 1, metrics.toolCalls["lookup/malformed"])
}

func TestToolRouter_RoutingFailureDegrades(t *testing.T) {
	llm := mocks.NewMockLLMService()
	llm.GenerateWithToolsFn = func(context.Context, []domain.Message, []domain.ToolSpec) (*domain.Generation, error) {
		return nil, context.DeadlineExceeded
	}
	r := NewToolRouter(newTestServices(llm, nil), newTestRegistry(mocks.NewMockTool("lookup", nil)), nil, DefaultTimeouts(), nil)

	outcome := r.Route(context.Background(), "q")
	assert.False(t, outcome.HasResults())
}

func TestToolRouter_EmptyRegistrySkipsModel(t *testing.T) {
	llm := mocks.NewMockLLMService()
	r := NewToolRouter(newTestServices(llm, nil), newTestRegistry(), nil, DefaultTimeouts(), nil)

	assert.False(t, r.Route(context.Background(), "q").HasResults())
	assert.Equal(t, 0, llm.ToolCallCount())
}

func TestToolRouter_NavigationPartition(t *testing.T) {
	llm := mocks.NewMockLLMService()
	llm.GenerateWithToolsFn = toolCalls(
		domain.ToolCall{ID: "d", Name: "lookup", Arguments: map[string]any{}},
		domain.ToolCall{ID: "n", Name: "open_page", Arguments: map[string]any{}},
	)
	lookup := mocks.NewMockTool("lookup", domain.NewDataResult(`{"results":[1]}`))
	nav := mocks.NewMockTool("open_page", domain.NewNavigationResult("https://front/prediction", "이동합니다"))
	r := NewToolRouter(newTestServices(llm, nil), newTestRegistry(lookup, nav), nil, DefaultTimeouts(), nil)

	outcome := r.Route(context.Background(), "q")

	require.NotNil(t, outcome.Navigation())
	assert.Equal(t, "https://front/prediction", outcome.Navigation().TargetURL)
	data := outcome.DataResults()
	require.Len(t, data, 1)
	assert.Equal(t, "lookup", data[0].Name)
}

func TestRouteOutcome_NilSafe(t *testing.T) {
	var o *RouteOutcome
	assert.False(t, o.HasResults())
	assert.Nil(t, o.Navigation())
	assert.Empty(t, o.DataResults())
}
