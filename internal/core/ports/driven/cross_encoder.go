package driven

import "context"

// CrossEncoder scores (query, text) pairs. Higher scores mean more relevant.
type CrossEncoder interface {
	// Score returns one score per text, in input order
	Score(ctx context.Context, query string, texts []string) ([]float64, error)

	// Model returns the scoring model name
	Model() string
}

// CrossEncoderLoader instantiates a cross-encoder by model name.
// Loading is expensive; callers are expected to cache the result.
type CrossEncoderLoader interface {
	Load(ctx context.Context, model string) (CrossEncoder, error)
}
