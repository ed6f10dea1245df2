package llm

import (
	"context"
	"fmt"

	"hestia/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini is an LLM client for the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a new Gemini client.
func NewGemini(ctx context.Context, model, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Generate sends a content generation request to the Gemini API.
// System messages become the model's system instruction; the remaining
// messages are concatenated into the user turn.
func (g *Gemini) Generate(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResponse, error) {
	model := g.client.GenerativeModel(g.model)
	if req.JSONMode {
		model.ResponseMIMEType = "application/json"
	}

	var system, user string
	for _, msg := range req.Messages {
		if msg.Role == models.SpeakerSystem {
			system += msg.Text + "\n"
		} else {
			user += msg.Text + "\n"
		}
	}
	if system != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no candidates returned")
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}

	return &models.CompletionResponse{
		Text:         text,
		ModelVersion: g.model,
	}, nil
}
