package oracle

import (
	"context"
	"errors"
	"testing"

	"hestia/internal/models"
	"hestia/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedLLM returns a fixed response text, or an error.
type scriptedLLM struct {
	text string
	err  error

	lastRequest *models.CompletionRequest
}

func (s *scriptedLLM) Generate(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResponse, error) {
	s.lastRequest = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.CompletionResponse{Text: s.text}, nil
}

func newOracle(llm *scriptedLLM) *LLMOracle {
	return NewLLMOracle(llm, logger.New("test"))
}

func TestDecideSave_ParsesSaveDecision(t *testing.T) {
	llm := &scriptedLLM{text: `{"action":"save","reason":"confirmed","content_to_save":"The fridge is new."}`}
	o := newOracle(llm)

	decision, err := o.DecideSave(context.Background(), "the fridge is new", "")
	require.NoError(t, err)

	assert.Equal(t, ActionSave, decision.Action)
	assert.Equal(t, "The fridge is new.", decision.Content)
	assert.True(t, llm.lastRequest.JSONMode)
}

func TestDecideSave_ToleratesCodeFences(t *testing.T) {
	llm := &scriptedLLM{text: "```json\n{\"action\":\"ignore\",\"reason\":\"chit-chat\"}\n```"}
	o := newOracle(llm)

	decision, err := o.DecideSave(context.Background(), "hello!", "")
	require.NoError(t, err)

	assert.Equal(t, ActionIgnore, decision.Action)
	assert.Equal(t, "chit-chat", decision.Reason)
}

func TestDecideSave_MalformedResponsesAreErrors(t *testing.T) {
	cases := []string{
		`not json at all`,
		`{"action":"maybe","reason":"?"}`,
		`{"action":"save","reason":"confirmed","content_to_save":"  "}`,
	}
	for _, text := range cases {
		o := newOracle(&scriptedLLM{text: text})
		_, err := o.DecideSave(context.Background(), "msg", "")
		assert.Error(t, err, "text=%q", text)
	}
}

func TestDecideSave_LLMFailurePropagates(t *testing.T) {
	o := newOracle(&scriptedLLM{err: errors.New("connection refused")})
	_, err := o.DecideSave(context.Background(), "msg", "")
	assert.Error(t, err)
}

func TestDecideAnswer_ParsesDecision(t *testing.T) {
	o := newOracle(&scriptedLLM{text: `{"answer":true,"reason":"clear question"}`})

	decision, err := o.DecideAnswer(context.Background(), "is the fridge new?", "")
	require.NoError(t, err)

	assert.True(t, decision.Answer)
	assert.Equal(t, "clear question", decision.Reason)
}

func TestCheckRelevance_ParsesVerdict(t *testing.T) {
	llm := &scriptedLLM{text: `{"is_relevant":false,"reason":"off topic","topic_mentioned":false}`}
	o := newOracle(llm)

	verdict, err := o.CheckRelevance(context.Background(), "is the fridge new?", "The flat has a balcony.")
	require.NoError(t, err)

	assert.False(t, verdict.IsRelevant)
	assert.Equal(t, "off topic", verdict.Reason)
	assert.True(t, llm.lastRequest.JSONMode)
}

func TestCheckRelevance_TopicEchoStripsQuestionMarks(t *testing.T) {
	llm := &scriptedLLM{text: `{"is_relevant":true,"reason":"on topic","topic_mentioned":true}`}
	o := newOracle(llm)

	_, err := o.CheckRelevance(context.Background(), "??is the fridge new?? ", "The fridge is new.")
	require.NoError(t, err)

	// The question is echoed into the prompt with '?' trimmed from both ends.
	userMessage := llm.lastRequest.Messages[1].Text
	assert.Contains(t, userMessage, "the question about is the fridge new.")
}

func TestMerge_ReturnsTrimmedText(t *testing.T) {
	o := newOracle(&scriptedLLM{text: "  The fridge is new and was replaced last year.  \n"})

	merged, err := o.Merge(context.Background(), "The fridge is new.", "It was replaced last year.")
	require.NoError(t, err)

	assert.Equal(t, "The fridge is new and was replaced last year.", merged)
}

func TestMerge_EmptyResponseIsAnError(t *testing.T) {
	o := newOracle(&scriptedLLM{text: "   "})
	_, err := o.Merge(context.Background(), "old", "new")
	assert.Error(t, err)
}

func TestClassifyAttribute_LowercasesAndTrims(t *testing.T) {
	o := newOracle(&scriptedLLM{text: " Appliances \n"})

	raw, err := o.ClassifyAttribute(context.Background(), "the fridge is new")
	require.NoError(t, err)

	assert.Equal(t, "appliances", raw)
}

func TestSynthesizeAnswer_ReturnsText(t *testing.T) {
	o := newOracle(&scriptedLLM{text: "Yes, the fridge was replaced last year."})

	text, err := o.SynthesizeAnswer(context.Background(), "is the fridge new?", "The fridge is new (added on 2026-08-01T12:00:00Z)")
	require.NoError(t, err)

	assert.Equal(t, "Yes, the fridge was replaced last year.", text)
}

func TestStripJSONFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripJSONFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripJSONFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripJSONFences(`{"a":1}`))
}
