package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven/mocks"
)

func TestQueryClassifier_Classify(t *testing.T) {
	tests := []struct {
		name   string
		output string
		err    error
		want   domain.Decision
	}{
		{"retrieval label", "RETRIEVAL", nil, domain.DecisionNeedsRetrieval},
		{"direct label", "DIRECT", nil, domain.DecisionDirectAnswer},
		{"direct with noise", "  direct.\n", nil, domain.DecisionDirectAnswer},
		{"unparseable", "I would say this is a greeting", nil, domain.DecisionNeedsRetrieval},
		{"empty", "", nil, domain.DecisionNeedsRetrieval},
		{"model failure", "", errors.New("rate limited"), domain.DecisionNeedsRetrieval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := mocks.NewMockLLMService()
			llm.GenerateFn = func(ctx context.Context, messages []domain.Message) (string, error) {
				return tt.output, tt.err
			}
			c := NewQueryClassifier(newTestServices(llm, nil), QueryCacheConfig{}, DefaultTimeouts().LLM, nil)

			assert.Equal(t, tt.want, c.Classify(context.Background(), "안녕하세요"))
		})
	}
}

func TestQueryClassifier_SendsQuestionAsUserMessage(t *testing.T) {
	llm := mocks.NewMockLLMService()
	c := NewQueryClassifier(newTestServices(llm, nil), QueryCacheConfig{}, 0, nil)

	c.Classify(context.Background(), "노트북 반납 절차가 어떻게 되나요?")

	calls := llm.GenerateCalls()
	require.Len(t, calls, 1)
	require.Len(t, calls[0], 2)
	assert.Equal(t, domain.RoleSystem, calls[0][0].Role)
	assert.Contains(t, calls[0][0].Content, "RETRIEVAL")
	assert.Equal(t, domain.UserMessage("노트북 반납 절차가 어떻게 되나요?"), calls[0][1])
}

func TestQueryClassifier_Memoizes(t *testing.T) {
	llm := mocks.NewMockLLMService()
	llm.GenerateFn = func(ctx context.Context, messages []domain.Message) (string, error) {
		return "DIRECT", nil
	}
	cache := mocks.NewMockQueryCache()
	c := NewQueryClassifier(newTestServices(llm, nil), QueryCacheConfig{Cache: cache}, 0, nil)

	assert.Equal(t, domain.DecisionDirectAnswer, c.Classify(context.Background(), "hello"))
	assert.Equal(t, domain.DecisionDirectAnswer, c.Classify(context.Background(), "  hello "))

	assert.Equal(t, 1, llm.GenerateCallCount())
	assert.Equal(t, 1, cache.Len())
}

func TestQueryClassifier_UnparseableIsNotMemoized(t *testing.T) {
	llm := mocks.NewMockLLMService()
	llm.GenerateFn = func(ctx context.Context, messages []domain.Message) (string, error) {
		return "maybe", nil
	}
	cache := mocks.NewMockQueryCache()
	c := NewQueryClassifier(newTestServices(llm, nil), QueryCacheConfig{Cache: cache}, 0, nil)

	c.Classify(context.Background(), "hello")
	assert.Equal(t, 0, cache.Len())
}

func TestQueryClassifier_CacheFailureFallsThrough(t *testing.T) {
	llm := mocks.NewMockLLMService()
	llm.GenerateFn = func(ctx context.Context, messages []domain.Message) (string, error) {
		return "DIRECT", nil
	}
	cache := mocks.NewMockQueryCache()
	cache.SetError(errors.New("redis down"))
	c := NewQueryClassifier(newTestServices(llm, nil), QueryCacheConfig{Cache: cache}, 0, nil)

	assert.Equal(t, domain.DecisionDirectAnswer, c.Classify(context.Background(), "hello"))
	assert.Equal(t, 1, llm.GenerateCallCount())
}

func TestQueryClassifier_NoLLM(t *testing.T) {
	c := NewQueryClassifier(newTestServices(nil, nil), QueryCacheConfig{}, 0, nil)
	assert.Equal(t, domain.DecisionNeedsRetrieval, c.Classify(context.Background(), "hello"))
}

func TestQueryRefiner_Refine(t *testing.T) {
	tests := []struct {
		name   string
		output string
		err    error
		want   string
	}{
		{"rewritten", "  노트북컴퓨터 반납 절차\n", nil, "노트북컴퓨터 반납 절차"},
		{"empty output", "   ", nil, "노트북 어떻게 반납해요?"},
		{"model failure", "", context.DeadlineExceeded, "노트북 어떻게 반납해요?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := mocks.NewMockLLMService()
			llm.GenerateFn = func(ctx context.Context, messages []domain.Message) (string, error) {
				return tt.output, tt.err
			}
			r := NewQueryRefiner(newTestServices(llm, nil), QueryCacheConfig{}, 0, nil)

			assert.Equal(t, tt.want, r.Refine(context.Background(), "노트북 어떻게 반납해요?"))
		})
	}
}

func TestQueryRefiner_Memoizes(t *testing.T) {
	llm := mocks.NewMockLLMService()
	llm.GenerateFn = func(ctx context.Context, messages []domain.Message) (string, error) {
		return "디지털복합기 고장 신고", nil
	}
	cache := mocks.NewMockQueryCache()
	r := NewQueryRefiner(newTestServices(llm, nil), QueryCacheConfig{Cache: cache}, 0, nil)

	first := r.Refine(context.Background(), "복사기 고장났어요")
	second := r.Refine(context.Background(), "복사기 고장났어요")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, llm.GenerateCallCount())
}

func TestQueryCacheKey(t *testing.T) {
	a := queryCacheKey(classifyCachePrefix, "hello")
	b := queryCacheKey(classifyCachePrefix, " hello\n")
	c := queryCacheKey(refineCachePrefix, "hello")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, len(classifyCachePrefix)+64)
}
