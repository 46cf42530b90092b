package driven

import (
	"context"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
)

// LLMService provides chat completion for classification, refinement, routing and generation
type LLMService interface {
	// Generate returns the model's text reply to the messages
	Generate(ctx context.Context, messages []domain.Message) (string, error)

	// GenerateWithTools offers the tools to the model.
	// The returned Generation holds either text or one or more tool calls.
	GenerateWithTools(ctx context.Context, messages []domain.Message, tools []domain.ToolSpec) (*domain.Generation, error)

	// Model returns the model name being used
	Model() string

	// Ping verifies the LLM service is available
	Ping(ctx context.Context) error

	// Close releases resources held by the LLM service
	Close() error
}
