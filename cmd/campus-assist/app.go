package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/custodia-labs/campus-assist/internal/adapters/driven/ai"
	"github.com/custodia-labs/campus-assist/internal/adapters/driven/assetapi"
	"github.com/custodia-labs/campus-assist/internal/adapters/driven/crossencoder"
	"github.com/custodia-labs/campus-assist/internal/adapters/driven/postgres"
	redisadapter "github.com/custodia-labs/campus-assist/internal/adapters/driven/redis"
	"github.com/custodia-labs/campus-assist/internal/config"
	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driving"
	"github.com/custodia-labs/campus-assist/internal/core/services"
	"github.com/custodia-labs/campus-assist/internal/faq"
	"github.com/custodia-labs/campus-assist/internal/metrics"
	"github.com/custodia-labs/campus-assist/internal/runtime"
	"github.com/custodia-labs/campus-assist/internal/tools"
)

// app holds the wired pipeline and the resources it owns
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	db         *postgres.DB
	queryCache *redisadapter.QueryCache // nil when caching is disabled
	services   *runtime.Services
	faq        *faq.Store
	metrics    *metrics.Pipeline
	assistant  driving.AssistantService

	closers []func() error
}

// aiPolicy decides what happens when an AI service fails its startup check
type aiPolicy int

const (
	// aiWarn keeps the service; requests fail until the provider recovers
	aiWarn aiPolicy = iota
	// aiStrict refuses to start
	aiStrict
)

// newApp connects every collaborator and builds the answer pipeline
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, policy aiPolicy) (*app, error) {
	a := &app{cfg: cfg, logger: logger}
	ready := false
	defer func() {
		if !ready {
			_ = a.Close()
		}
	}()

	var err error

	// ===== Vector store =====
	logger.Info("connecting to postgres")
	dbCfg := postgres.DefaultConfig(cfg.Database.URL)
	dbCfg.MaxOpenConns = cfg.Database.MaxOpenConns
	dbCfg.MaxIdleConns = cfg.Database.MaxIdleConns
	dbCfg.ConnMaxLifetime = cfg.Database.ConnMaxLifetime
	if cfg.Database.ConnectAttempts > 0 {
		dbCfg.ConnectAttempts = cfg.Database.ConnectAttempts
	}
	dbCfg.Logger = logger

	a.db, err = postgres.Connect(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.closers = append(a.closers, a.db.Close)

	if cfg.Database.InitSchema {
		if err := a.db.InitSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	store := postgres.NewVectorStore(a.db)
	if n, err := store.Count(ctx); err == nil {
		logger.Info("vector store ready", "documents", n)
		if n == 0 {
			logger.Warn("vector store is empty; every retrieval will return the no-context response")
		}
	}

	// ===== Query cache (optional) =====
	cacheBackend := "none"
	if cfg.Redis.URL != "" {
		client, err := redisadapter.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		a.queryCache = redisadapter.NewQueryCache(client)
		cacheBackend = "redis"
		logger.Info("redis query cache enabled")
	}

	// ===== AI services =====
	a.services = runtime.NewServices(domain.NewRuntimeConfig(cacheBackend))
	a.closers = append(a.closers, a.services.Close)

	factory := ai.NewFactory().WithQueryCacheSize(cfg.Embedding.CacheSize)

	embedding, err := factory.CreateEmbeddingService(cfg.EmbeddingSettings())
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding service: %w", err)
	}
	llm, err := factory.CreateLLMService(cfg.LLMSettings())
	if err != nil {
		return nil, fmt.Errorf("failed to create llm service: %w", err)
	}

	switch policy {
	case aiStrict:
		if embedding == nil || llm == nil {
			return nil, fmt.Errorf("%w: llm and embedding providers must be configured", domain.ErrInvalidConfig)
		}
		if err := a.services.ValidateAndSetEmbedding(ctx, embedding); err != nil {
			return nil, fmt.Errorf("embedding service check failed: %w", err)
		}
		if err := a.services.ValidateAndSetLLM(ctx, llm); err != nil {
			return nil, fmt.Errorf("llm service check failed: %w", err)
		}
	default:
		if embedding == nil {
			logger.Warn("embedding provider not configured; retrieval will return the technical error response")
		} else if err := embedding.HealthCheck(ctx); err != nil {
			logger.Warn("embedding service check failed", "model", embedding.Model(), "error", err)
		}
		if llm == nil {
			logger.Warn("llm provider not configured; answers will use fallback responses")
		} else if err := llm.Ping(ctx); err != nil {
			logger.Warn("llm service check failed", "model", llm.Model(), "error", err)
		}
		a.services.SetEmbeddingService(embedding)
		a.services.SetLLMService(llm)
	}

	if cfg.Reranker.Enabled {
		a.services.SetCrossEncoderLoader(crossencoder.NewLoader(cfg.Reranker.URL, cfg.Timeouts.Rerank))
	}

	// ===== FAQ and tools =====
	fs := afero.NewOsFs()
	a.faq = faq.NewStore(faq.Config{Path: cfg.FAQ.Path, Fs: fs, Logger: logger})

	synonyms := tools.NewSynonymResolver(nil)
	if cfg.Tools.SynonymsPath != "" {
		synonyms, err = tools.LoadSynonymResolver(fs, cfg.Tools.SynonymsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load synonyms: %w", err)
		}
	}

	assets, err := assetapi.NewClient(assetapi.Config{
		BaseURL:    cfg.Backend.URL,
		Timeout:    cfg.Backend.Timeout,
		APIKey:     cfg.Backend.APIKey,
		RetryCount: cfg.Backend.RetryCount,
	})
	if err != nil {
		return nil, err
	}

	registry := tools.MustRegistry(
		tools.NewAssetLookupTool(assets, synonyms, logger),
		tools.NewPredictionPageTool(cfg.Frontend.BaseURL, logger),
		tools.NewNavigatePageTool(cfg.Frontend.BaseURL),
	)

	// ===== Pipeline =====
	a.metrics = metrics.New()

	a.assistant, err = services.NewAssistantService(services.AssistantConfig{
		Services:    a.services,
		VectorStore: store,
		Tools:       registry,
		FAQ:         a.faq,
		QueryCache:  services.QueryCacheConfig{Cache: a.cacheOrNil(), TTL: cfg.Redis.CacheTTL},
		Metrics:     a.metrics,
		Pipeline:    cfg.Pipeline(),
		Timeouts:    cfg.CallTimeouts(),
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build assistant: %w", err)
	}

	logger.Info("assistant ready",
		"tools", registry.Names(),
		"rerank", cfg.Reranker.Enabled,
		"cache", cacheBackend,
	)
	ready = true
	return a, nil
}

// watchFAQ refreshes the FAQ store on file changes until ctx ends
func (a *app) watchFAQ(ctx context.Context) {
	if !a.cfg.FAQ.Watch {
		return
	}
	watcher, err := faq.NewWatcher(a.faq)
	if err != nil {
		a.logger.Warn("faq watcher disabled", "error", err)
		return
	}
	a.closers = append(a.closers, watcher.Close)
	go watcher.Run(ctx)
}

// cacheOrNil keeps a nil *QueryCache from becoming a non-nil interface
func (a *app) cacheOrNil() driven.QueryCache {
	if a.queryCache == nil {
		return nil
	}
	return a.queryCache
}

// Close releases resources in reverse order of acquisition
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
