package embedding

import (
	"context"
	"fmt"

	"hestia/internal/config"
)

// Embedding is the interface every embedding model client implements.
type Embedding interface {
	// Embed generates the embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embedding vectors for a batch of texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// NewClient is a factory that creates an embedding client for the configured
// provider.
func NewClient(cfg config.EmbeddingConfig) (Embedding, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIModel(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	case "google":
		return NewGoogleModel(cfg.Google.APIKey, cfg.Google.Model)
	case "ollama":
		return NewOllamaModel(cfg.Ollama.Model, cfg.Ollama.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
