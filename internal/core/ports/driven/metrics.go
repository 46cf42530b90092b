package driven

import (
	"time"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
)

// PipelineMetrics receives measurements from the answer pipeline
type PipelineMetrics interface {
	// ObserveStage records how long one pipeline stage took
	ObserveStage(stage string, d time.Duration)

	// CountAnswer records the branch that produced an answer
	CountAnswer(outcome domain.Outcome)

	// CountToolCall records one tool invocation attempt.
	// status is "ok", "error", "unknown" or "malformed".
	CountToolCall(tool, status string)

	// CountRerankFallback records a rerank that fell back to retrieval order
	CountRerankFallback()
}
