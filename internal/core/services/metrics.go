package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
)

// Pipeline stage names used in metrics and logs
const (
	StageClassify = "classify"
	StageRefine   = "refine"
	StageRoute    = "route"
	StageRetrieve = "retrieve"
	StageRerank   = "rerank"
	StageGenerate = "generate"
)

// nopMetrics discards all measurements
type nopMetrics struct{}

func (nopMetrics) ObserveStage(string, time.Duration) {}
func (nopMetrics) CountAnswer(domain.Outcome)         {}
func (nopMetrics) CountToolCall(string, string)       {}
func (nopMetrics) CountRerankFallback()               {}

var _ driven.PipelineMetrics = nopMetrics{}

func metricsOrNop(m driven.PipelineMetrics) driven.PipelineMetrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}

// Timeouts bounds each external call. Zero disables the bound.
type Timeouts struct {
	LLM       time.Duration
	Embedding time.Duration
	Rerank    time.Duration
	Tool      time.Duration
}

// DefaultTimeouts returns the production call timeouts
func DefaultTimeouts() Timeouts {
	return Timeouts{
		LLM:       60 * time.Second,
		Embedding: 10 * time.Second,
		Rerank:    15 * time.Second,
		Tool:      10 * time.Second,
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// classifyCallError makes deadline and cancellation failures from a bounded
// call match domain.ErrTimeout.
func classifyCallError(err error) error {
	if err == nil || domain.IsTransient(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	return err
}
