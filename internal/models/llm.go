package models

// SpeakerRole identifies the author of a chat message sent to a model.
type SpeakerRole string

const (
	SpeakerSystem    SpeakerRole = "system"
	SpeakerUser      SpeakerRole = "user"
	SpeakerAssistant SpeakerRole = "assistant"
)

// Message is a single chat message in a completion request.
type Message struct {
	Role SpeakerRole `json:"role"`
	Text string      `json:"text"`
}

// CompletionRequest is the provider-agnostic request for a chat completion.
type CompletionRequest struct {
	Messages []Message `json:"messages"`
	// JSONMode asks the provider to constrain the output to a JSON object,
	// where the provider supports it.
	JSONMode bool `json:"json_mode,omitempty"`
}

// CompletionResponse is the provider-agnostic chat completion result.
type CompletionResponse struct {
	Text         string `json:"text"`
	ResponseID   string `json:"response_id,omitempty"`
	ModelVersion string `json:"model_version,omitempty"`
}
