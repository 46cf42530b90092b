package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
)

// Ensure LangChainLLM implements LLMService
var _ driven.LLMService = (*LangChainLLM)(nil)

// LangChainLLM implements LLMService on top of a langchaingo model
type LangChainLLM struct {
	model       llms.Model
	name        string
	temperature float64
	topP        float64
}

// NewLangChainLLM wraps model. Zero sampling parameters use provider defaults.
func NewLangChainLLM(model llms.Model, name string, temperature, topP float64) (*LangChainLLM, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: llm model is required", domain.ErrInvalidConfig)
	}
	return &LangChainLLM{
		model:       model,
		name:        name,
		temperature: temperature,
		topP:        topP,
	}, nil
}

// Generate returns the model's text reply to messages
func (l *LangChainLLM) Generate(ctx context.Context, messages []domain.Message) (string, error) {
	resp, err := l.model.GenerateContent(ctx, convertMessages(messages), l.callOptions()...)
	if err != nil {
		return "", classifyError("generate", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response from llm", domain.ErrMalformedOutput)
	}
	return resp.Choices[0].Content, nil
}

// GenerateWithTools offers tools to the model and returns either its text
// or the tool calls it requested. Argument JSON that fails to parse is kept
// raw so the caller can skip the call.
func (l *LangChainLLM) GenerateWithTools(ctx context.Context, messages []domain.Message, tools []domain.ToolSpec) (*domain.Generation, error) {
	opts := l.callOptions()
	if len(tools) > 0 {
		opts = append(opts, llms.WithTools(convertTools(tools)))
	}

	resp, err := l.model.GenerateContent(ctx, convertMessages(messages), opts...)
	if err != nil {
		return nil, classifyError("generate with tools", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response from llm", domain.ErrMalformedOutput)
	}
	return convertChoice(resp.Choices[0]), nil
}

// Model returns the model name
func (l *LangChainLLM) Model() string {
	return l.name
}

// Ping sends a minimal prompt to verify the provider is reachable
func (l *LangChainLLM) Ping(ctx context.Context) error {
	_, err := l.model.GenerateContent(ctx,
		[]llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, "ping")},
		llms.WithMaxTokens(1))
	return classifyError("ping", err)
}

// Close releases resources held by the LLM service
func (l *LangChainLLM) Close() error {
	return nil
}

func (l *LangChainLLM) callOptions() []llms.CallOption {
	var opts []llms.CallOption
	if l.temperature > 0 {
		opts = append(opts, llms.WithTemperature(l.temperature))
	}
	if l.topP > 0 {
		opts = append(opts, llms.WithTopP(l.topP))
	}
	return opts
}

func convertMessages(messages []domain.Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		out = append(out, llms.TextParts(mapRole(m.Role), m.Content))
	}
	return out
}

func mapRole(role domain.Role) llms.ChatMessageType {
	switch role {
	case domain.RoleSystem:
		return llms.ChatMessageTypeSystem
	case domain.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}

func convertTools(tools []domain.ToolSpec) []llms.Tool {
	out := make([]llms.Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return out
}

func convertChoice(choice *llms.ContentChoice) *domain.Generation {
	gen := &domain.Generation{Content: choice.Content}
	for _, tc := range choice.ToolCalls {
		if tc.FunctionCall == nil {
			continue
		}
		gen.ToolCalls = append(gen.ToolCalls, domain.ToolCall{
			ID:           tc.ID,
			Name:         tc.FunctionCall.Name,
			Arguments:    parseArguments(tc.FunctionCall.Arguments),
			RawArguments: tc.FunctionCall.Arguments,
		})
	}
	return gen
}

// parseArguments decodes a tool call's JSON arguments. Blank input is an
// empty object; anything that is not a JSON object yields nil.
func parseArguments(raw string) map[string]any {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil || args == nil {
		return nil
	}
	return args
}
