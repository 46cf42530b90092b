package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven/mocks"
)

const testRerankModel = "cross-encoder/ms-marco-MiniLM-L-6-v2"

// countingMetrics records rerank fallbacks
type countingMetrics struct {
	nopMetrics
	mu        sync.Mutex
	fallbacks int
	outcomes  []domain.Outcome
	toolCalls map[string]int
}

func (m *countingMetrics) CountRerankFallback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbacks++
}

func (m *countingMetrics) CountAnswer(o domain.Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, o)
}

func (m *countingMetrics) CountToolCall(tool, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.toolCalls == nil {
		m.toolCalls = make(map[string]int)
	}
	m.toolCalls[tool+"/"+status]++
}

func docs(contents ...string) []domain.Document {
	out := make([]domain.Document, len(contents))
	for i, c := range contents {
		out[i] = domain.Document{Content: c, Metadata: map[string]string{domain.MetadataDocID: c}}
	}
	return out
}

func contents(docs []domain.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Content
	}
	return out
}

func newTestReranker(loader driven.CrossEncoderLoader, metrics driven.PipelineMetrics) *Reranker {
	svc := newTestServices(nil, nil)
	if loader != nil {
		svc.SetCrossEncoderLoader(loader)
	}
	return NewReranker(svc, metrics, time.Second, nil)
}

func TestReranker_OrdersByScore(t *testing.T) {
	loader := mocks.NewMockCrossEncoderLoader(map[string]float64{
		"a": 0.1, "b": 0.9, "c": 0.5, "d": 0.7,
	})
	r := newTestReranker(loader, nil)

	got := r.Rerank(context.Background(), testRerankModel, "q", docs("a", "b", "c", "d"), 3)

	assert.Equal(t, []string{"b", "d", "c"}, contents(got))
}

func TestReranker_TopNLargerThanCandidates(t *testing.T) {
	loader := mocks.NewMockCrossEncoderLoader(map[string]float64{"a": 1, "b": 2})
	r := newTestReranker(loader, nil)

	got := r.Rerank(context.Background(), testRerankModel, "q", docs("a", "b"), 6)

	assert.Equal(t, []string{"b", "a"}, contents(got))
}

func TestReranker_FallbackOnScoreError(t *testing.T) {
	loader := mocks.NewMockCrossEncoderLoader(nil)
	loader.SetScoreError(errors.New("boom"))
	metrics := &countingMetrics{}
	r := newTestReranker(loader, metrics)

	got := r.Rerank(context.Background(), testRerankModel, "q", docs("a", "b", "c", "d"), 2)

	assert.Equal(t, []string{"a", "b"}, contents(got))
	assert.Equal(t, 1, metrics.fallbacks)
}

func TestReranker_FallbackWithoutLoader(t *testing.T) {
	metrics := &countingMetrics{}
	r := newTestReranker(nil, metrics)

	got := r.Rerank(context.Background(), testRerankModel, "q", docs("a", "b", "c"), 2)

	assert.Equal(t, []string{"a", "b"}, contents(got))
	assert.Equal(t, 1, metrics.fallbacks)
}

func TestReranker_FailedLoadIsNotCached(t *testing.T) {
	loader := mocks.NewMockCrossEncoderLoader(map[string]float64{"a": 0.1, "b": 0.2})
	loader.SetLoadError(errors.New("model download failed"))
	r := newTestReranker(loader, nil)

	got := r.Rerank(context.Background(), testRerankModel, "q", docs("a", "b"), 2)
	assert.Equal(t, []string{"a", "b"}, contents(got))

	loader.SetLoadError(nil)
	got = r.Rerank(context.Background(), testRerankModel, "q", docs("a", "b"), 2)
	assert.Equal(t, []string{"b", "a"}, contents(got))
	assert.Equal(t, 2, loader.LoadCount(testRerankModel))
}

func TestReranker_CachesPerModel(t *testing.T) {
	loader := mocks.NewMockCrossEncoderLoader(map[string]float64{"a": 1})
	r := newTestReranker(loader, nil)

	var wg sync.WaitGroup
	var done atomic.Int32
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Rerank(context.Background(), testRerankModel, "q", docs("a"), 1)
			done.Add(1)
		}()
	}
	wg.Wait()
	r.Rerank(context.Background(), "other-model", "q", docs("a"), 1)

	require.Equal(t, int32(16), done.Load())
	assert.Equal(t, 1, loader.LoadCount(testRerankModel))
	assert.Equal(t, 1, loader.LoadCount("other-model"))

	r.reset()
	r.Rerank(context.Background(), testRerankModel, "q", docs("a"), 1)
	assert.Equal(t, 2, loader.LoadCount(testRerankModel))
}

// nilEncoderLoader reports success without returning an encoder
type nilEncoderLoader struct{ loads atomic.Int32 }

func (l *nilEncoderLoader) Load(ctx context.Context, model string) (driven.CrossEncoder, error) {
	l.loads.Add(1)
	return nil, nil
}

func TestReranker_NilEncoderFallsBack(t *testing.T) {
	loader := &nilEncoderLoader{}
	r := newTestReranker(loader, nil)

	for i := 0; i < 2; i++ {
		got := r.Rerank(context.Background(), testRerankModel, "q", docs("a", "b", "c"), 2)
		require.Len(t, got, 2)
		assert.Equal(t, "a", got[0].Content)
		assert.Equal(t, "b", got[1].Content)
	}
	assert.Equal(t, int32(2), loader.loads.Load(), "nil encoder must not be cached")
}

func TestReranker_EmptyInput(t *testing.T) {
	r := newTestReranker(mocks.NewMockCrossEncoderLoader(nil), nil)

	assert.Empty(t, r.Rerank(context.Background(), testRerankModel, "q", nil, 5))
	assert.Empty(t, r.Rerank(context.Background(), testRerankModel, "q", docs("a"), 0))
}
