package driving

import (
	"context"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
)

// AssistantService answers questions about university asset records
type AssistantService interface {
	// Ask runs the answer pipeline for one question.
	// It always returns an answer: generated text, a navigation instruction,
	// or one of the fixed fallback responses.
	Ask(ctx context.Context, question string) *domain.Answer
}
