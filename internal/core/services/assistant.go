package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driving"
	"github.com/custodia-labs/campus-assist/internal/runtime"
)

// Ensure assistantService implements AssistantService
var _ driving.AssistantService = (*assistantService)(nil)

// AssistantConfig holds the collaborators of the answer pipeline
type AssistantConfig struct {
	Services    *runtime.Services // LLM, embedding and cross-encoder, resolved per call
	VectorStore driven.VectorStore
	Tools       driven.ToolRegistry // optional; nil disables tool routing
	FAQ         driven.FAQStore     // optional
	QueryCache  QueryCacheConfig
	Metrics     driven.PipelineMetrics
	Pipeline    domain.PipelineConfig
	Timeouts    Timeouts // zero value uses DefaultTimeouts
	Logger      *slog.Logger
}

// assistantService sequences classification, routing, retrieval and generation
type assistantService struct {
	cfg        domain.PipelineConfig
	services   *runtime.Services
	classifier *QueryClassifier
	refiner    *QueryRefiner
	router     *ToolRouter
	retriever  *Retriever
	reranker   *Reranker
	prompts    *PromptAssembler
	metrics    driven.PipelineMetrics
	timeouts   Timeouts
	logger     *slog.Logger
}

// NewAssistantService creates the answer pipeline.
// The pipeline configuration is validated once here and never re-read.
func NewAssistantService(cfg AssistantConfig) (driving.AssistantService, error) {
	if err := cfg.Pipeline.Validate(); err != nil {
		return nil, err
	}
	if cfg.Services == nil {
		return nil, fmt.Errorf("%w: runtime services are required", domain.ErrInvalidConfig)
	}
	if cfg.VectorStore == nil {
		return nil, fmt.Errorf("%w: vector store is required", domain.ErrInvalidConfig)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeouts := cfg.Timeouts
	if timeouts == (Timeouts{}) {
		timeouts = DefaultTimeouts()
	}
	metrics := metricsOrNop(cfg.Metrics)

	return &assistantService{
		cfg:        cfg.Pipeline,
		services:   cfg.Services,
		classifier: NewQueryClassifier(cfg.Services, cfg.QueryCache, timeouts.LLM, logger),
		refiner:    NewQueryRefiner(cfg.Services, cfg.QueryCache, timeouts.LLM, logger),
		router:     NewToolRouter(cfg.Services, cfg.Tools, metrics, timeouts, logger),
		retriever:  NewRetriever(cfg.VectorStore, cfg.Services, timeouts, logger),
		reranker:   NewReranker(cfg.Services, metrics, timeouts.Rerank, logger),
		prompts:    NewPromptAssembler(cfg.Pipeline.Prompt, cfg.FAQ),
		metrics:    metrics,
		timeouts:   timeouts,
		logger:     logger,
	}, nil
}

// stageError records which stage of the pipeline failed
type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return e.stage + ": " + e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

func failAt(stage string, err error) error {
	return &stageError{stage: stage, err: err}
}

// plan is the routing decision for one question
type plan struct {
	decision    domain.Decision
	searchQuery string
	route       *RouteOutcome
}

// Ask runs the pipeline for question. Caller cancellation is ignored once
// the run starts; every path ends in an answer or a fixed fallback.
func (s *assistantService) Ask(ctx context.Context, question string) (answer *domain.Answer) {
	ctx = context.WithoutCancel(ctx)
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("answer pipeline panicked",
				"question", question,
				"panic", p,
				"stack", string(debug.Stack()))
			answer = s.technicalError()
		}
		s.metrics.CountAnswer(answer.Outcome)
		s.logger.Info("question answered",
			"outcome", answer.Outcome,
			"attribution", len(answer.Attribution),
			"took", time.Since(start))
	}()

	p := s.decide(ctx, question)

	var err error
	switch p.decision {
	case domain.DecisionDirectAnswer:
		answer, err = s.answerDirect(ctx, question)
	case domain.DecisionNeedsTool:
		answer, err = s.answerFromTools(ctx, question, p.route)
	default:
		answer, err = s.answerFromRetrieval(ctx, question, p.searchQuery)
	}
	if err != nil {
		stage := "unknown"
		var se *stageError
		if errors.As(err, &se) {
			stage = se.stage
		}
		s.logger.Error("answer pipeline failed",
			"question", question,
			"decision", p.decision.String(),
			"stage", stage,
			"error", err)
		return s.technicalError()
	}
	return answer
}

// decide classifies, refines and routes. It never fails: each step has its own fallback.
func (s *assistantService) decide(ctx context.Context, question string) plan {
	t := time.Now()
	decision := s.classifier.Classify(ctx, question)
	s.metrics.ObserveStage(StageClassify, time.Since(t))
	if decision == domain.DecisionDirectAnswer {
		return plan{decision: decision}
	}

	t = time.Now()
	searchQuery := s.refiner.Refine(ctx, question)
	s.metrics.ObserveStage(StageRefine, time.Since(t))

	t = time.Now()
	route := s.router.Route(ctx, question)
	s.metrics.ObserveStage(StageRoute, time.Since(t))

	if route.HasResults() {
		return plan{decision: domain.DecisionNeedsTool, searchQuery: searchQuery, route: route}
	}
	return plan{decision: domain.DecisionNeedsRetrieval, searchQuery: searchQuery}
}

func (s *assistantService) answerDirect(ctx context.Context, question string) (*domain.Answer, error) {
	text, err := s.generate(ctx, "", question)
	if err != nil {
		return nil, failAt(StageGenerate, err)
	}
	return domain.NewAnswer(text, domain.OutcomeDirect, nil), nil
}

// answerFromTools answers from tool results. A navigation result wins the
// response shape; data results are still summarised into its text.
func (s *assistantService) answerFromTools(ctx context.Context, question string, route *RouteOutcome) (*domain.Answer, error) {
	nav := route.Navigation()
	data := route.DataResults()

	if nav != nil && len(data) == 0 {
		return domain.NewNavigateAnswer(nav.GuideMessage, *nav), nil
	}

	text, err := s.generate(ctx, ToolContext(data), question)
	if nav != nil {
		if err != nil {
			s.logger.Warn("summarising tool data failed, returning navigation guide", "error", err)
			text = nav.GuideMessage
		}
		return domain.NewNavigateAnswer(text, *nav), nil
	}
	if err != nil {
		return nil, failAt(StageGenerate, err)
	}
	return domain.NewAnswer(text, domain.OutcomeTool, nil), nil
}

func (s *assistantService) answerFromRetrieval(ctx context.Context, question, searchQuery string) (*domain.Answer, error) {
	t := time.Now()
	results, err := s.retriever.Retrieve(ctx, searchQuery, s.cfg.RetrieverTopK)
	s.metrics.ObserveStage(StageRetrieve, time.Since(t))
	if err != nil {
		return nil, failAt(StageRetrieve, err)
	}
	if len(results) == 0 {
		return s.noContext(), nil
	}

	candidates := SortByDistance(FilterByDistance(results, s.cfg.DistanceThreshold))
	if len(candidates) == 0 {
		s.logger.Debug("no candidate passed the distance threshold",
			"retrieved", len(results),
			"threshold", s.cfg.DistanceThreshold)
		return s.noContext(), nil
	}

	t = time.Now()
	docs := SelectContext(ctx, s.reranker, s.cfg, searchQuery, candidates)
	if s.cfg.RerankEnabled {
		s.metrics.ObserveStage(StageRerank, time.Since(t))
	}

	contextText, attribution := BuildContext(docs)
	text, err := s.generate(ctx, contextText, question)
	if err != nil {
		return nil, failAt(StageGenerate, err)
	}
	return domain.NewAnswer(text, domain.OutcomeRetrieval, attribution), nil
}

// SelectContext picks the documents that go into the prompt from candidates
// sorted by ascending distance. With reranking the first RerankCandidateK are
// reranked down to RerankTopN; otherwise the first ContextTopN are kept.
func SelectContext(ctx context.Context, reranker *Reranker, cfg domain.PipelineConfig, query string, sorted []domain.RetrievalResult) []domain.Document {
	if cfg.RerankEnabled && reranker != nil {
		candidates := domain.Documents(TopN(sorted, cfg.RerankCandidateK))
		return reranker.Rerank(ctx, cfg.RerankerModel, query, candidates, cfg.RerankTopN)
	}
	return domain.Documents(TopN(sorted, cfg.ContextTopN))
}

// generate calls the model with the assembled prompt for the original question
func (s *assistantService) generate(ctx context.Context, contextText, question string) (string, error) {
	llm := s.services.LLMService()
	if llm == nil {
		return "", fmt.Errorf("%w: llm not configured", domain.ErrServiceUnavailable)
	}

	t := time.Now()
	callCtx, cancel := withTimeout(ctx, s.timeouts.LLM)
	defer cancel()
	text, err := llm.Generate(callCtx, s.prompts.Messages(contextText, question))
	s.metrics.ObserveStage(StageGenerate, time.Since(t))
	if err != nil {
		return "", classifyCallError(err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty generation", domain.ErrMalformedOutput)
	}
	return text, nil
}

func (s *assistantService) noContext() *domain.Answer {
	return domain.NewAnswer(s.cfg.NoContextResponse, domain.OutcomeNoContext, nil)
}

func (s *assistantService) technicalError() *domain.Answer {
	return domain.NewAnswer(s.cfg.TechnicalErrorResponse, domain.OutcomeTechnicalError, nil)
}
