package llm

import (
	"context"
	"fmt"

	"hestia/internal/config"
	"hestia/internal/models"
)

// LLM is the common interface every chat-completion client implements.
type LLM interface {
	Generate(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResponse, error)
}

// NewClient is a factory that creates an LLM client for the configured
// provider.
func NewClient(ctx context.Context, cfg config.LLMConfig) (LLM, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAI(cfg.OpenAI.Model, cfg.OpenAI.APIKey)
	case "gemini":
		return NewGemini(ctx, cfg.Gemini.Model, cfg.Gemini.APIKey)
	case "ollama":
		return NewOllama(cfg.Ollama.Model, cfg.Ollama.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
