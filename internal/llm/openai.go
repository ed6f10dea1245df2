package llm

import (
	"context"
	"fmt"

	"hestia/internal/models"

	openai "github.com/meguminnnnnnnnn/go-openai"
)

// OpenAI is an LLM client for the OpenAI chat completion API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates a new OpenAI client.
func NewOpenAI(model, apiKey string) (*OpenAI, error) {
	cfg := openai.DefaultConfig(apiKey)
	client := openai.NewClientWithConfig(cfg)
	return &OpenAI{client: client, model: model}, nil
}

// Generate sends a chat completion request to the OpenAI API.
func (o *OpenAI) Generate(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResponse, error) {
	openaiReq := o.toOpenAIRequest(req)

	resp, err := o.client.CreateChatCompletion(ctx, openaiReq)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}

	return &models.CompletionResponse{
		Text:         resp.Choices[0].Message.Content,
		ResponseID:   resp.ID,
		ModelVersion: resp.Model,
	}, nil
}

// toOpenAIRequest converts the internal request format to the OpenAI one.
func (o *OpenAI) toOpenAIRequest(req *models.CompletionRequest) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    toOpenAIRole(msg.Role),
			Content: msg.Text,
		})
	}

	openaiReq := openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: messages,
	}
	if req.JSONMode {
		openaiReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	return openaiReq
}

func toOpenAIRole(role models.SpeakerRole) string {
	switch role {
	case models.SpeakerSystem:
		return openai.ChatMessageRoleSystem
	case models.SpeakerAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}
