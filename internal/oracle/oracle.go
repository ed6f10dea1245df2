// Package oracle turns free-form language-model output into the structured
// judgments the knowledge engines consume. Every call validates the model's
// response; malformed output is returned as an error so callers can apply
// their documented fallbacks instead of reading unchecked fields.
package oracle

import "context"

// SaveAction is the verdict of a should-save judgment.
type SaveAction string

const (
	ActionSave   SaveAction = "save"
	ActionIgnore SaveAction = "ignore"
)

// SaveDecision reports whether an owner statement contains a confirmed,
// save-worthy fact and, if so, its normalized standalone form.
type SaveDecision struct {
	Action  SaveAction `json:"action"`
	Reason  string     `json:"reason"`
	Content string     `json:"content_to_save"`
}

// AnswerDecision reports whether a tenant message warrants retrieval at all.
type AnswerDecision struct {
	Answer bool   `json:"answer"`
	Reason string `json:"reason"`
}

// RelevanceVerdict reports whether retrieved context explicitly addresses the
// question. This is the strict precision gate of the read path.
type RelevanceVerdict struct {
	IsRelevant     bool   `json:"is_relevant"`
	Reason         string `json:"reason"`
	TopicMentioned bool   `json:"topic_mentioned"`
}

// Oracle is the set of natural-language judgments the knowledge engines
// delegate to an external model. Implementations are stateless; each call is
// a synchronous, context-bounded round-trip.
type Oracle interface {
	// DecideSave judges whether an owner message confirms a property fact
	// worth storing, given recent conversation context.
	DecideSave(ctx context.Context, message, history string) (*SaveDecision, error)

	// DecideAnswer judges whether a tenant message is a question that may
	// need stored information.
	DecideAnswer(ctx context.Context, message, history string) (*AnswerDecision, error)

	// CheckRelevance judges whether retrieved context explicitly addresses
	// the query.
	CheckRelevance(ctx context.Context, query, context string) (*RelevanceVerdict, error)

	// Merge consolidates an existing fact with an update into one coherent
	// statement.
	Merge(ctx context.Context, existing, update string) (string, error)

	// ClassifyAttribute names the single property attribute a text is about.
	// The raw answer is returned; vocabulary normalization is the caller's.
	ClassifyAttribute(ctx context.Context, text string) (string, error)

	// SynthesizeAnswer writes the tenant-facing reply from query and context.
	SynthesizeAnswer(ctx context.Context, query, context string) (string, error)
}
