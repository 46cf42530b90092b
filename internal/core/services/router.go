package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
	"github.com/custodia-labs/campus-assist/internal/runtime"
)

// Tool call statuses reported to metrics
const (
	toolStatusOK        = "ok"
	toolStatusError     = "error"
	toolStatusUnknown   = "unknown"
	toolStatusMalformed = "malformed"
)

const routerPrompt = `당신은 대학 물품 관리 시스템의 요청 라우터입니다.
사용자 질문에 답하기 위해 제공된 함수 호출이 필요한지 판단하세요.

- 특정 물품명, 자산번호, 물품ID가 포함되어 있거나 '조회', '확인', '상태 알려줘' 같은 데이터 요청이면 알맞은 함수를 호출하세요.
- 사용 예측, 수명 분석처럼 화면 이동이 필요한 요청이면 페이지 이동 함수를 호출하세요.
- 매뉴얼, 제도, 절차, 정책 설명 요청이면 함수를 호출하지 마세요.`

// RouteOutcome is what the tool routing step produced for one question
type RouteOutcome struct {
	// Requested counts the tool calls the model emitted, including skipped ones
	Requested int
	// Results holds one entry per executed call, in call order
	Results []domain.ToolResult
}

// HasResults reports whether at least one tool was executed
func (o *RouteOutcome) HasResults() bool {
	return o != nil && len(o.Results) > 0
}

// Navigation returns the first navigation result, if any
func (o *RouteOutcome) Navigation() *domain.Navigation {
	if o == nil {
		return nil
	}
	for _, r := range o.Results {
		if r.IsNavigation() {
			return r.Navigation
		}
	}
	return nil
}

// DataResults returns the non-navigation results, including error payloads
func (o *RouteOutcome) DataResults() []domain.ToolResult {
	if o == nil {
		return nil
	}
	data := make([]domain.ToolResult, 0, len(o.Results))
	for _, r := range o.Results {
		if !r.IsNavigation() {
			data = append(data, r)
		}
	}
	return data
}

// ToolRouter lets the model pick registered tools and executes its picks
type ToolRouter struct {
	services *runtime.Services
	registry driven.ToolRegistry
	metrics  driven.PipelineMetrics
	timeouts Timeouts
	logger   *slog.Logger
}

// NewToolRouter creates a new ToolRouter
func NewToolRouter(services *runtime.Services, registry driven.ToolRegistry, metrics driven.PipelineMetrics, timeouts Timeouts, logger *slog.Logger) *ToolRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ToolRouter{
		services: services,
		registry: registry,
		metrics:  metricsOrNop(metrics),
		timeouts: timeouts,
		logger:   logger,
	}
}

// Route asks the model which tools question needs and runs them sequentially.
// Routing failures, unknown tools and malformed arguments are logged and skipped,
// so an outcome without results means "continue with retrieval".
func (r *ToolRouter) Route(ctx context.Context, question string) *RouteOutcome {
	outcome := &RouteOutcome{}
	if r.registry == nil || len(r.registry.Names()) == 0 {
		return outcome
	}

	llm := r.services.LLMService()
	if llm == nil {
		return outcome
	}

	callCtx, cancel := withTimeout(ctx, r.timeouts.LLM)
	gen, err := llm.GenerateWithTools(callCtx, []domain.Message{
		domain.SystemMessage(routerPrompt),
		domain.UserMessage(question),
	}, r.registry.Specs())
	cancel()
	if err != nil {
		r.logger.Warn("tool routing failed, continuing with retrieval", "error", classifyCallError(err))
		return outcome
	}
	if !gen.HasToolCalls() {
		return outcome
	}

	outcome.Requested = len(gen.ToolCalls)
	for _, call := range gen.ToolCalls {
		if result, ok := r.execute(ctx, call); ok {
			outcome.Results = append(outcome.Results, *result)
		}
	}

	if !outcome.HasResults() {
		r.logger.Warn("no requested tool could be executed, continuing with retrieval",
			"requested", outcome.Requested)
	}
	return outcome
}

// execute runs one call. ok is false when the call was skipped.
func (r *ToolRouter) execute(ctx context.Context, call domain.ToolCall) (*domain.ToolResult, bool) {
	tool, found := r.registry.Resolve(call.Name)
	if !found {
		r.logger.Warn("model requested unknown tool", "tool", call.Name, "call_id", call.ID)
		r.metrics.CountToolCall(call.Name, toolStatusUnknown)
		return nil, false
	}
	if call.Malformed() {
		r.logger.Warn("model produced malformed tool arguments", "tool", call.Name, "call_id", call.ID)
		r.metrics.CountToolCall(call.Name, toolStatusMalformed)
		return nil, false
	}

	args := call.Arguments
	if args == nil {
		args = map[string]any{}
	}

	start := time.Now()
	result, err := r.invoke(ctx, tool, args)
	if err != nil {
		r.logger.Error("tool execution failed",
			"tool", call.Name,
			"call_id", call.ID,
			"args", RedactArgs(args),
			"error", err)
		r.metrics.CountToolCall(call.Name, toolStatusError)
		result = errorResult(err)
	} else if result.IsError {
		r.logger.Error("tool returned an error result",
			"tool", call.Name,
			"call_id", call.ID,
			"args", RedactArgs(args),
			"content", result.Content)
		r.metrics.CountToolCall(call.Name, toolStatusError)
	} else {
		r.metrics.CountToolCall(call.Name, toolStatusOK)
	}

	result.CallID = call.ID
	result.Name = call.Name
	r.logger.Debug("tool executed", "tool", call.Name, "navigation", result.IsNavigation(), "took", time.Since(start))
	return result, true
}

func (r *ToolRouter) invoke(ctx context.Context, tool driven.Tool, args map[string]any) (result *domain.ToolResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			result, err = nil, fmt.Errorf("tool panicked: %v", p)
		}
	}()

	callCtx, cancel := withTimeout(ctx, r.timeouts.Tool)
	defer cancel()
	result, err = tool.Invoke(callCtx, args)
	if err != nil {
		return nil, classifyCallError(err)
	}
	if result == nil {
		return nil, fmt.Errorf("%w: tool returned no result", domain.ErrMalformedOutput)
	}
	return result, nil
}

func errorResult(err error) *domain.ToolResult {
	content, encErr := json.Marshal(map[string]string{"error": err.Error()})
	if encErr != nil {
		content = []byte(`{"error":"tool execution failed"}`)
	}
	return &domain.ToolResult{Content: string(content), IsError: true}
}
