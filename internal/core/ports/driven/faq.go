package driven

import "github.com/custodia-labs/campus-assist/internal/core/domain"

// FAQStore provides curated FAQ entries relevant to a question
type FAQStore interface {
	// Match returns the entries matching the question.
	// FullList is set when the question asked for the whole FAQ.
	Match(question string) domain.FAQMatch
}
