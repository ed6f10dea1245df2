// Package service routes inbound chat messages: it validates input, keeps
// the conversation transcript current, and hands the message to the write
// path (owners) or the read path (tenants).
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hestia/internal/knowledge"
	"hestia/internal/models"
	"hestia/internal/transcript"
	"hestia/pkg/logger"
)

// ErrInvalidInput marks requests rejected before the core runs.
var ErrInvalidInput = errors.New("invalid input")

// Message is one inbound chat message.
type Message struct {
	Message    string
	Role       string
	UserID     string
	PropertyID string // optional index scope; empty keeps the global collection
}

// Result is the outcome of handling one message. Exactly one of Consolidation
// and Answer is set, depending on the sender's role.
type Result struct {
	ConversationID string
	History        string
	Consolidation  *knowledge.Outcome
	Answer         *knowledge.RankedAnswer
}

// Service wires the transcript store and the two knowledge engines behind a
// single message-submission entry point. Engines never call each other; they
// are independent consumers of the index and the oracle.
type Service struct {
	transcripts   transcript.Store
	consolidation *knowledge.ConsolidationEngine
	retrieval     *knowledge.RetrievalRanker
	historyWindow int
	log           *logger.Logger
}

// New creates a new Service.
func New(transcripts transcript.Store, consolidation *knowledge.ConsolidationEngine, retrieval *knowledge.RetrievalRanker, historyWindow int, log *logger.Logger) *Service {
	if historyWindow <= 0 {
		historyWindow = 5
	}
	return &Service{
		transcripts:   transcripts,
		consolidation: consolidation,
		retrieval:     retrieval,
		historyWindow: historyWindow,
		log:           log,
	}
}

// HandleMessage processes one chat message end to end.
func (s *Service) HandleMessage(ctx context.Context, msg Message) (*Result, error) {
	text := strings.TrimSpace(msg.Message)
	userID := strings.TrimSpace(msg.UserID)
	if text == "" || userID == "" || strings.TrimSpace(msg.Role) == "" {
		return nil, fmt.Errorf("%w: message, role and user_id are required", ErrInvalidInput)
	}
	role, err := models.ParseChatRole(msg.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	conversationID := models.ConversationID(userID)
	log := s.log.WithConversation(conversationID)

	history, err := s.transcripts.Load(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}
	if err := s.transcripts.Append(ctx, conversationID, models.TranscriptEntry(role, text)); err != nil {
		return nil, fmt.Errorf("failed to persist message: %w", err)
	}

	result := &Result{ConversationID: conversationID}
	recent := transcript.RecentWindow(history, s.historyWindow)
	scope := knowledge.Scope{OwnerID: strings.TrimSpace(msg.PropertyID)}

	switch role {
	case models.RoleOwner:
		outcome, err := s.consolidation.Submit(ctx, text, recent, userID, conversationID, scope)
		if err != nil {
			return nil, err
		}
		result.Consolidation = outcome
	case models.RoleTenant:
		answer, err := s.retrieval.Answer(ctx, text, recent, scope)
		if err != nil {
			return nil, err
		}
		result.Answer = answer
		if answer.Status == knowledge.StatusAnswered {
			entry := models.TranscriptEntry(models.RoleAssistant, answer.Text)
			if err := s.transcripts.Append(ctx, conversationID, entry); err != nil {
				// The answer already exists; losing its transcript entry is
				// not worth failing the request over.
				log.Warn(fmt.Sprintf("failed to persist assistant reply: %v", err))
			}
		}
	}

	updated, err := s.transcripts.Load(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload conversation history: %w", err)
	}
	result.History = updated
	return result, nil
}

// History returns the stored transcript for a platform user.
func (s *Service) History(ctx context.Context, userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	return s.transcripts.Load(ctx, models.ConversationID(userID))
}
