package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"hestia/internal/llm"
	"hestia/internal/models"
	"hestia/pkg/logger"
)

// LLMOracle implements Oracle on top of a chat-completion model.
type LLMOracle struct {
	llm llm.LLM
	log *logger.Logger
}

// NewLLMOracle creates a new LLMOracle.
func NewLLMOracle(model llm.LLM, log *logger.Logger) *LLMOracle {
	return &LLMOracle{llm: model, log: log}
}

// DecideSave judges whether an owner message confirms a save-worthy fact.
func (o *LLMOracle) DecideSave(ctx context.Context, message, history string) (*SaveDecision, error) {
	userInput, err := json.Marshal(map[string]string{
		"current_message": message,
		"recent_messages": history,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal should-save input: %w", err)
	}

	raw, err := o.complete(ctx, shouldSavePrompt, string(userInput), true)
	if err != nil {
		return nil, err
	}

	var decision SaveDecision
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &decision); err != nil {
		return nil, fmt.Errorf("malformed should-save response: %w", err)
	}
	if decision.Action != ActionSave && decision.Action != ActionIgnore {
		return nil, fmt.Errorf("malformed should-save response: unknown action %q", decision.Action)
	}
	if decision.Action == ActionSave && strings.TrimSpace(decision.Content) == "" {
		return nil, fmt.Errorf("malformed should-save response: save action without content")
	}
	return &decision, nil
}

// DecideAnswer judges whether a tenant message warrants retrieval.
func (o *LLMOracle) DecideAnswer(ctx context.Context, message, history string) (*AnswerDecision, error) {
	userInput, err := json.Marshal(map[string]string{
		"message":              message,
		"conversation_history": history,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal should-answer input: %w", err)
	}

	raw, err := o.complete(ctx, shouldAnswerPrompt, string(userInput), true)
	if err != nil {
		return nil, err
	}

	var decision AnswerDecision
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &decision); err != nil {
		return nil, fmt.Errorf("malformed should-answer response: %w", err)
	}
	return &decision, nil
}

// CheckRelevance judges whether retrieved context explicitly addresses the
// query.
func (o *LLMOracle) CheckRelevance(ctx context.Context, query, contextText string) (*RelevanceVerdict, error) {
	userInput := fmt.Sprintf(
		"Tenant's question: %s\n\nRetrieved documents:\n%s\n\nImportant: Verify that the documents SPECIFICALLY and EXPLICITLY address the question about %s.\nGeneric responses without clear context are not considered relevant.",
		query, contextText, strings.TrimSpace(strings.Trim(strings.TrimSpace(query), "?")),
	)

	raw, err := o.complete(ctx, checkRelevancePrompt, userInput, true)
	if err != nil {
		return nil, err
	}

	var verdict RelevanceVerdict
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &verdict); err != nil {
		return nil, fmt.Errorf("malformed relevance response: %w", err)
	}
	return &verdict, nil
}

// Merge consolidates the existing fact with the update into one statement.
func (o *LLMOracle) Merge(ctx context.Context, existing, update string) (string, error) {
	userInput := fmt.Sprintf(
		"Existing document: %q\nNew update: %q\nProvide a merged summary that retains previous details and includes the new update.",
		existing, update,
	)

	raw, err := o.complete(ctx, mergePrompt, userInput, false)
	if err != nil {
		return "", err
	}
	merged := strings.TrimSpace(raw)
	if merged == "" {
		return "", fmt.Errorf("empty merge response")
	}
	return merged, nil
}

// ClassifyAttribute names the single property attribute the text is about.
func (o *LLMOracle) ClassifyAttribute(ctx context.Context, text string) (string, error) {
	userInput := fmt.Sprintf("Sentence: %q.\nAnswer with one word from the allowed list.", text)

	raw, err := o.complete(ctx, classifyAttributePrompt, userInput, false)
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(raw)), nil
}

// SynthesizeAnswer writes the tenant-facing reply from the query and context.
func (o *LLMOracle) SynthesizeAnswer(ctx context.Context, query, contextText string) (string, error) {
	userInput := fmt.Sprintf("Tenant's question: %s\n\nContext:\n%s", query, contextText)

	raw, err := o.complete(ctx, synthesizeAnswerPrompt, userInput, false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

// complete runs a single system+user round-trip against the model.
func (o *LLMOracle) complete(ctx context.Context, system, user string, jsonMode bool) (string, error) {
	resp, err := o.llm.Generate(ctx, &models.CompletionRequest{
		Messages: []models.Message{
			{Role: models.SpeakerSystem, Text: system},
			{Role: models.SpeakerUser, Text: user},
		},
		JSONMode: jsonMode,
	})
	if err != nil {
		return "", fmt.Errorf("llm call failed: %w", err)
	}
	o.log.Debug(fmt.Sprintf("raw model response: %s", resp.Text))
	return resp.Text, nil
}

// stripJSONFences tolerates models that wrap JSON output in markdown code
// fences despite the prompt.
func stripJSONFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
