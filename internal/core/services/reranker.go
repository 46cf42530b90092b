package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
	"github.com/custodia-labs/campus-assist/internal/runtime"
)

// Reranker reorders retrieval candidates with a cross-encoder.
// Loaded encoders are cached per model for the life of the process;
// concurrent first requests for the same model share a single load.
type Reranker struct {
	services *runtime.Services
	metrics  driven.PipelineMetrics
	timeout  time.Duration
	logger   *slog.Logger

	mu       sync.RWMutex
	encoders map[string]driven.CrossEncoder
	loads    singleflight.Group
}

// NewReranker creates a new Reranker
func NewReranker(services *runtime.Services, metrics driven.PipelineMetrics, timeout time.Duration, logger *slog.Logger) *Reranker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reranker{
		services: services,
		metrics:  metricsOrNop(metrics),
		timeout:  timeout,
		logger:   logger,
		encoders: make(map[string]driven.CrossEncoder),
	}
}

// Rerank scores candidates against query and returns the topN best,
// highest score first. Any load or scoring failure falls back to the
// first topN candidates in their incoming order; it never returns an error.
func (r *Reranker) Rerank(ctx context.Context, model, query string, candidates []domain.Document, topN int) []domain.Document {
	if len(candidates) == 0 || topN <= 0 {
		return []domain.Document{}
	}

	ranked, err := r.rerank(ctx, model, query, candidates)
	if err != nil {
		r.logger.Warn("rerank failed, falling back to retrieval order",
			"model", model,
			"candidates", len(candidates),
			"error", err)
		r.metrics.CountRerankFallback()
		return TopN(candidates, topN)
	}
	return TopN(ranked, topN)
}

func (r *Reranker) rerank(ctx context.Context, model, query string, candidates []domain.Document) ([]domain.Document, error) {
	encoder, err := r.encoder(ctx, model)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(candidates))
	for i, doc := range candidates {
		texts[i] = doc.Content
	}

	scoreCtx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	scores, err := encoder.Score(scoreCtx, query, texts)
	if err != nil {
		return nil, fmt.Errorf("score candidates: %w", classifyCallError(err))
	}
	if len(scores) != len(candidates) {
		return nil, fmt.Errorf("%w: got %d scores for %d candidates", domain.ErrMalformedOutput, len(scores), len(candidates))
	}

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	ranked := make([]domain.Document, len(order))
	for i, idx := range order {
		ranked[i] = candidates[idx]
	}
	return ranked, nil
}

// encoder returns the cached encoder for model, loading it on first use.
// Failed loads are not cached so a later request retries.
func (r *Reranker) encoder(ctx context.Context, model string) (driven.CrossEncoder, error) {
	r.mu.RLock()
	enc, ok := r.encoders[model]
	r.mu.RUnlock()
	if ok {
		return enc, nil
	}

	v, err, _ := r.loads.Do(model, func() (any, error) {
		r.mu.RLock()
		enc, ok := r.encoders[model]
		r.mu.RUnlock()
		if ok {
			return enc, nil
		}

		loader := r.services.CrossEncoderLoader()
		if loader == nil {
			return nil, fmt.Errorf("%w: cross-encoder not configured", domain.ErrServiceUnavailable)
		}

		loadCtx, cancel := withTimeout(ctx, r.timeout)
		defer cancel()
		enc, err := loader.Load(loadCtx, model)
		if err != nil {
			return nil, fmt.Errorf("load cross-encoder %q: %w", model, classifyCallError(err))
		}
		if enc == nil {
			return nil, fmt.Errorf("load cross-encoder %q: %w: loader returned no encoder", model, domain.ErrServiceUnavailable)
		}

		r.mu.Lock()
		r.encoders[model] = enc
		r.mu.Unlock()
		r.logger.Info("cross-encoder loaded", "model", model)
		return enc, nil
	})
	if err != nil {
		return nil, err
	}
	enc, ok = v.(driven.CrossEncoder)
	if !ok || enc == nil {
		return nil, fmt.Errorf("%w: cross-encoder %q unavailable", domain.ErrServiceUnavailable, model)
	}
	return enc, nil
}

// reset drops all cached encoders
func (r *Reranker) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.encoders = make(map[string]driven.CrossEncoder)
}
