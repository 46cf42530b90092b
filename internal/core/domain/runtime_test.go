package domain

import (
	"testing"
)

func TestNewRuntimeConfig(t *testing.T) {
	config := NewRuntimeConfig("redis")

	if config == nil {
		t.Fatal("expected non-nil config")
	}
	if config.CacheBackend != "redis" {
		t.Errorf("expected redis, got %s", config.CacheBackend)
	}
	if config.EmbeddingAvailable() {
		t.Error("expected embedding to be unavailable initially")
	}
	if config.LLMAvailable() {
		t.Error("expected LLM to be unavailable initially")
	}
	if config.RerankerAvailable() {
		t.Error("expected reranker to be unavailable initially")
	}
}

func TestRuntimeConfig_Flags(t *testing.T) {
	tests := []struct {
		name string
		set  func(*RuntimeConfig, bool)
		get  func(*RuntimeConfig) bool
	}{
		{"embedding", (*RuntimeConfig).SetEmbeddingAvailable, (*RuntimeConfig).EmbeddingAvailable},
		{"llm", (*RuntimeConfig).SetLLMAvailable, (*RuntimeConfig).LLMAvailable},
		{"reranker", (*RuntimeConfig).SetRerankerAvailable, (*RuntimeConfig).RerankerAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewRuntimeConfig("none")

			tt.set(config, true)
			if !tt.get(config) {
				t.Error("expected available after setting")
			}

			tt.set(config, false)
			if tt.get(config) {
				t.Error("expected unavailable after clearing")
			}
		})
	}
}

func TestRuntimeConfig_Capabilities(t *testing.T) {
	config := NewRuntimeConfig("none")

	if config.CanRetrieve() || config.CanAnswer() {
		t.Error("expected no capabilities initially")
	}

	config.SetEmbeddingAvailable(true)
	if !config.CanRetrieve() {
		t.Error("expected CanRetrieve with embedding")
	}

	config.SetLLMAvailable(true)
	if !config.CanAnswer() {
		t.Error("expected CanAnswer with LLM")
	}
}

func TestRuntimeConfig_ThreadSafety(t *testing.T) {
	config := NewRuntimeConfig("none")

	done := make(chan bool)

	go func() {
		for i := 0; i < 100; i++ {
			config.SetEmbeddingAvailable(true)
			config.SetLLMAvailable(true)
			config.SetRerankerAvailable(true)
			config.SetEmbeddingAvailable(false)
			config.SetLLMAvailable(false)
		}
		done <- true
	}()

	go func() {
		for i := 0; i < 100; i++ {
			_ = config.EmbeddingAvailable()
			_ = config.LLMAvailable()
			_ = config.RerankerAvailable()
			_ = config.CanRetrieve()
			_ = config.CanAnswer()
		}
		done <- true
	}()

	<-done
	<-done
}
