package driven

import (
	"context"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
)

// Tool is an operation the language model may invoke during routing
type Tool interface {
	// Spec describes the tool to the model
	Spec() domain.ToolSpec

	// Invoke runs the tool. A returned error is converted into an error-content
	// result by the router; it never aborts the request.
	Invoke(ctx context.Context, args map[string]any) (*domain.ToolResult, error)
}

// ToolRegistry holds the tools offered to the model, keyed by unique name
type ToolRegistry interface {
	// Resolve returns the tool registered under name
	Resolve(name string) (Tool, bool)

	// Specs returns the specs of all tools in registration order
	Specs() []domain.ToolSpec

	// Names returns all registered tool names in registration order
	Names() []string
}
