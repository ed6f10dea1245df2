package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"hestia/internal/models"

	olla "github.com/ollama/ollama/api"
)

// Ollama is an LLM client for a local Ollama server.
type Ollama struct {
	client *olla.Client
	model  string
}

// NewOllama creates a new Ollama client. An empty baseURL defaults to
// "http://localhost:11434".
func NewOllama(model, baseURL string) (*Ollama, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	hc := &http.Client{
		Timeout: 120 * time.Second,
	}

	return &Ollama{client: olla.NewClient(parsedURL, hc), model: model}, nil
}

// Generate sends a chat request to the Ollama server.
func (o *Ollama) Generate(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResponse, error) {
	messages := make([]olla.Message, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, olla.Message{
			Role:    string(msg.Role),
			Content: msg.Text,
		})
	}

	chatReq := &olla.ChatRequest{
		Model:    o.model,
		Messages: messages,
		Stream:   &[]bool{false}[0],
	}
	if req.JSONMode {
		chatReq.Format = json.RawMessage(`"json"`)
	}

	var result *olla.ChatResponse
	err := o.client.Chat(ctx, chatReq, func(resp olla.ChatResponse) error {
		result = &resp
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to chat with ollama: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("no response returned")
	}

	return &models.CompletionResponse{
		Text:         result.Message.Content,
		ModelVersion: result.Model,
	}, nil
}
