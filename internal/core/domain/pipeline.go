package domain

import "fmt"

// Fixed fallback responses
const (
	DefaultNoContextResponse      = "죄송합니다, 매뉴얼에 해당 내용이 없어 답변드리기 어렵습니다."
	DefaultTechnicalErrorResponse = "시스템 오류가 발생하여 답변을 생성할 수 없습니다. 잠시 후 다시 시도해주세요."
)

// PromptToggles switches optional prompt sections on or off.
// The role section, context block and question block are always present.
type PromptToggles struct {
	System           bool `json:"system"`
	Safety           bool `json:"safety"`
	FAQ              bool `json:"faq"`
	FunctionDecision bool `json:"function_decision"`
}

// PipelineConfig holds the thresholds and limits of one assistant instance.
// It is read once at construction and never mutated afterwards.
type PipelineConfig struct {
	RetrieverTopK     int     `json:"retriever_top_k"`
	DistanceThreshold float64 `json:"distance_threshold"`
	ContextTopN       int     `json:"context_top_n"`

	RerankEnabled    bool   `json:"rerank_enabled"`
	RerankerModel    string `json:"reranker_model"`
	RerankCandidateK int    `json:"rerank_candidate_k"`
	RerankTopN       int    `json:"rerank_top_n"`

	Prompt PromptToggles `json:"prompt"`

	NoContextResponse      string `json:"no_context_response"`
	TechnicalErrorResponse string `json:"technical_error_response"`
}

// DefaultPipelineConfig returns the production defaults
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		RetrieverTopK:          25,
		DistanceThreshold:      10.0,
		ContextTopN:            6,
		RerankEnabled:          true,
		RerankerModel:          "cross-encoder/ms-marco-MiniLM-L-6-v2",
		RerankCandidateK:       15,
		RerankTopN:             6,
		Prompt:                 PromptToggles{System: true, Safety: true, FAQ: true, FunctionDecision: false},
		NoContextResponse:      DefaultNoContextResponse,
		TechnicalErrorResponse: DefaultTechnicalErrorResponse,
	}
}

// Validate checks the configuration invariants
func (c PipelineConfig) Validate() error {
	if c.RetrieverTopK <= 0 {
		return fmt.Errorf("%w: retriever top_k must be positive, got %d", ErrInvalidConfig, c.RetrieverTopK)
	}
	if c.DistanceThreshold <= 0 {
		return fmt.Errorf("%w: distance threshold must be positive, got %g", ErrInvalidConfig, c.DistanceThreshold)
	}
	if c.ContextTopN <= 0 {
		return fmt.Errorf("%w: context top_n must be positive, got %d", ErrInvalidConfig, c.ContextTopN)
	}
	if c.NoContextResponse == "" || c.TechnicalErrorResponse == "" {
		return fmt.Errorf("%w: fallback responses must not be empty", ErrInvalidConfig)
	}
	if !c.RerankEnabled {
		return nil
	}
	if c.RerankerModel == "" {
		return fmt.Errorf("%w: reranker model is required when reranking is enabled", ErrInvalidConfig)
	}
	if c.RerankTopN <= 0 {
		return fmt.Errorf("%w: rerank top_n must be positive, got %d", ErrInvalidConfig, c.RerankTopN)
	}
	if c.RerankCandidateK < c.RerankTopN {
		return fmt.Errorf("%w: rerank candidate_k (%d) must be >= rerank top_n (%d)",
			ErrInvalidConfig, c.RerankCandidateK, c.RerankTopN)
	}
	return nil
}
