package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
	"github.com/custodia-labs/campus-assist/internal/runtime"
)

const (
	classifyCachePrefix = "assist:classify:"
	refineCachePrefix   = "assist:refine:"

	// DefaultQueryCacheTTL is how long classification and refinement results are memoized
	DefaultQueryCacheTTL = 24 * time.Hour
)

const classifierPrompt = `당신은 대학 물품 관리 시스템의 질문 분류기입니다.
사용자 질문에 답하기 위해 물품 관리 매뉴얼, 규정, 자산 데이터 검색이 필요한지 판단하세요.

- 물품, 자산, 절차, 규정, 정책, 시스템 사용법과 관련된 질문이면 RETRIEVAL
- 인사, 감사 표현, 챗봇 자체에 대한 질문처럼 검색이 필요 없으면 DIRECT

설명 없이 RETRIEVAL 또는 DIRECT 중 하나만 출력하세요.`

const refinerPrompt = `당신은 대학 물품 관리 시스템의 검색어 변환기입니다.
사용자의 구어체 질문을 물품 관리 용어를 사용한 간결한 검색 문장 하나로 바꾸세요.
물품명은 표준 품명(예: 노트북 -> 노트북컴퓨터)으로 바꾸고, 불필요한 인사말과 감탄사는 제거하세요.
변환된 검색 문장만 출력하세요.`

// QueryCacheConfig memoizes classifier and refiner outputs. A nil Cache disables memoization.
type QueryCacheConfig struct {
	Cache driven.QueryCache
	TTL   time.Duration
}

func (c QueryCacheConfig) ttl() time.Duration {
	if c.TTL <= 0 {
		return DefaultQueryCacheTTL
	}
	return c.TTL
}

func queryCacheKey(prefix, question string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(question)))
	return prefix + hex.EncodeToString(sum[:])
}

// memo wraps a QueryCache so failures only cost a log line
type memo struct {
	cfg    QueryCacheConfig
	logger *slog.Logger
}

func (m memo) get(ctx context.Context, key string) (string, bool) {
	if m.cfg.Cache == nil {
		return "", false
	}
	v, ok, err := m.cfg.Cache.Get(ctx, key)
	if err != nil {
		m.logger.Warn("query cache read failed", "error", err)
		return "", false
	}
	return v, ok
}

func (m memo) set(ctx context.Context, key, value string) {
	if m.cfg.Cache == nil {
		return
	}
	if err := m.cfg.Cache.Set(ctx, key, value, m.cfg.ttl()); err != nil {
		m.logger.Warn("query cache write failed", "error", err)
	}
}

// QueryClassifier decides whether a question needs the knowledge base
type QueryClassifier struct {
	services *runtime.Services
	memo     memo
	timeout  time.Duration
	logger   *slog.Logger
}

// NewQueryClassifier creates a new QueryClassifier
func NewQueryClassifier(services *runtime.Services, cache QueryCacheConfig, timeout time.Duration, logger *slog.Logger) *QueryClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryClassifier{
		services: services,
		memo:     memo{cfg: cache, logger: logger},
		timeout:  timeout,
		logger:   logger,
	}
}

// Classify returns DecisionDirectAnswer or DecisionNeedsRetrieval.
// Unparseable labels and model failures default to DecisionNeedsRetrieval.
func (c *QueryClassifier) Classify(ctx context.Context, question string) domain.Decision {
	key := queryCacheKey(classifyCachePrefix, question)
	if label, ok := c.memo.get(ctx, key); ok {
		if d, parsed := domain.ParseClassification(label); parsed {
			return d
		}
	}

	llm := c.services.LLMService()
	if llm == nil {
		c.logger.Warn("classifier has no llm, assuming retrieval")
		return domain.DecisionNeedsRetrieval
	}

	callCtx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()
	raw, err := llm.Generate(callCtx, []domain.Message{
		domain.SystemMessage(classifierPrompt),
		domain.UserMessage(question),
	})
	if err != nil {
		c.logger.Warn("classification failed, assuming retrieval", "error", classifyCallError(err))
		return domain.DecisionNeedsRetrieval
	}

	decision, ok := domain.ParseClassification(raw)
	if !ok {
		c.logger.Warn("unparseable classification, assuming retrieval", "label", raw)
		return domain.DecisionNeedsRetrieval
	}

	c.memo.set(ctx, key, decision.Label())
	return decision
}

// QueryRefiner rewrites questions into search phrasing
type QueryRefiner struct {
	services *runtime.Services
	memo     memo
	timeout  time.Duration
	logger   *slog.Logger
}

// NewQueryRefiner creates a new QueryRefiner
func NewQueryRefiner(services *runtime.Services, cache QueryCacheConfig, timeout time.Duration, logger *slog.Logger) *QueryRefiner {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryRefiner{
		services: services,
		memo:     memo{cfg: cache, logger: logger},
		timeout:  timeout,
		logger:   logger,
	}
}

// Refine returns the search query for question. Model failures and
// empty output fall back to the original question.
func (r *QueryRefiner) Refine(ctx context.Context, question string) string {
	key := queryCacheKey(refineCachePrefix, question)
	if refined, ok := r.memo.get(ctx, key); ok && refined != "" {
		return refined
	}

	llm := r.services.LLMService()
	if llm == nil {
		return question
	}

	callCtx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	raw, err := llm.Generate(callCtx, []domain.Message{
		domain.SystemMessage(refinerPrompt),
		domain.UserMessage(question),
	})
	if err != nil {
		r.logger.Warn("query refinement failed, using original question", "error", classifyCallError(err))
		return question
	}

	refined := strings.TrimSpace(raw)
	if refined == "" {
		r.logger.Warn("query refinement returned empty output, using original question")
		return question
	}

	r.memo.set(ctx, key, refined)
	return refined
}
