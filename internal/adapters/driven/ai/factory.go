package ai

import (
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
)

// Ensure Factory implements AIServiceFactory
var _ driven.AIServiceFactory = (*Factory)(nil)

// Default models per provider
const (
	DefaultOpenAIEmbeddingModel = "text-embedding-3-small"
	DefaultOpenAIChatModel      = "gpt-4o"
	DefaultAnthropicChatModel   = "claude-3-5-sonnet-latest"
	DefaultOllamaModel          = "llama3.1"
	DefaultOllamaEmbeddingModel = "nomic-embed-text"
)

// Factory creates AI services based on configuration
type Factory struct {
	queryCacheSize int
}

// NewFactory creates a new AI service factory
func NewFactory() *Factory {
	return &Factory{queryCacheSize: DefaultQueryCacheSize}
}

// WithQueryCacheSize sets how many query embeddings each embedder keeps.
// Zero disables the cache.
func (f *Factory) WithQueryCacheSize(size int) *Factory {
	f.queryCacheSize = size
	return f
}

// CreateEmbeddingService creates an embedding service from settings
func (f *Factory) CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}
	if !settings.Provider.SupportsEmbeddings() {
		return nil, fmt.Errorf("%w: provider %s does not serve embeddings", domain.ErrInvalidConfig, settings.Provider)
	}

	var (
		client embeddings.EmbedderClient
		model  = settings.Model
		err    error
	)
	switch settings.Provider {
	case domain.AIProviderOpenAI:
		if model == "" {
			model = DefaultOpenAIEmbeddingModel
		}
		opts := []openai.Option{openai.WithToken(settings.APIKey), openai.WithEmbeddingModel(model)}
		if settings.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(settings.BaseURL))
		}
		client, err = openai.New(opts...)
	case domain.AIProviderOllama:
		if model == "" {
			model = DefaultOllamaEmbeddingModel
		}
		opts := []ollama.Option{ollama.WithModel(model)}
		if settings.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(settings.BaseURL))
		}
		client, err = ollama.New(opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s embedding client: %w", settings.Provider, err)
	}

	impl, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	return NewEmbedder(impl, model, settings.Dimensions, f.queryCacheSize)
}

// CreateLLMService creates an LLM service from settings
func (f *Factory) CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	var (
		model llms.Model
		name  = settings.Model
		err   error
	)
	switch settings.Provider {
	case domain.AIProviderOpenAI:
		if name == "" {
			name = DefaultOpenAIChatModel
		}
		opts := []openai.Option{openai.WithToken(settings.APIKey), openai.WithModel(name)}
		if settings.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(settings.BaseURL))
		}
		model, err = openai.New(opts...)
	case domain.AIProviderAnthropic:
		if name == "" {
			name = DefaultAnthropicChatModel
		}
		model, err = anthropic.New(anthropic.WithToken(settings.APIKey), anthropic.WithModel(name))
	case domain.AIProviderOllama:
		if name == "" {
			name = DefaultOllamaModel
		}
		opts := []ollama.Option{ollama.WithModel(name)}
		if settings.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(settings.BaseURL))
		}
		model, err = ollama.New(opts...)
	default:
		return nil, fmt.Errorf("%w: unknown llm provider %s", domain.ErrInvalidConfig, settings.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s llm: %w", settings.Provider, err)
	}
	return NewLangChainLLM(model, name, settings.Temperature, settings.TopP)
}
