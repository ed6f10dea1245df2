package knowledge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hestia/internal/models"
	"hestia/internal/oracle"
	"hestia/pkg/logger"

	"github.com/google/uuid"
)

// OutcomeStatus is the terminal state of one consolidation.
type OutcomeStatus string

const (
	StatusSaved          OutcomeStatus = "saved"
	StatusUpdated        OutcomeStatus = "updated"
	StatusAlreadyCurrent OutcomeStatus = "already_current"
	StatusIgnored        OutcomeStatus = "ignored"
)

// Outcome reports what the write path did with an owner statement.
type Outcome struct {
	Status OutcomeStatus `json:"status"`
	FactID string        `json:"fact_id,omitempty"`
	Reason string        `json:"reason,omitempty"`
}

// Stored reports whether the outcome left new information in the index.
func (o *Outcome) Stored() bool {
	return o.Status == StatusSaved || o.Status == StatusUpdated
}

// ConsolidationEngine owns the write path: it decides whether an incoming
// owner statement is new information, which attribute it belongs to, and how
// it merges with the fact already stored for that attribute. The search-
// before-insert sequence keeps at most one live fact per (scope, attribute);
// two concurrent writers for the same attribute can still race, with the
// later write winning.
type ConsolidationEngine struct {
	oracle      oracle.Oracle
	classifier  *Classifier
	index       VectorIndex
	searchLimit int
	log         *logger.Logger
}

// NewConsolidationEngine creates a new ConsolidationEngine.
func NewConsolidationEngine(o oracle.Oracle, classifier *Classifier, index VectorIndex, searchLimit int, log *logger.Logger) *ConsolidationEngine {
	if searchLimit <= 0 {
		searchLimit = 10
	}
	return &ConsolidationEngine{
		oracle:      o,
		classifier:  classifier,
		index:       index,
		searchLimit: searchLimit,
		log:         log,
	}
}

// Submit runs one owner statement through the write path.
func (e *ConsolidationEngine) Submit(ctx context.Context, statement, history, ownerID, conversationID string, scope Scope) (*Outcome, error) {
	decision, err := e.oracle.DecideSave(ctx, statement, history)
	if err != nil {
		// The save gate has no safe fallback: guessing either way would
		// store chit-chat or drop confirmed facts.
		return nil, fmt.Errorf("should-save judgment failed: %w", err)
	}
	if decision.Action == oracle.ActionIgnore {
		e.log.Info(fmt.Sprintf("owner update ignored: %s", decision.Reason))
		return &Outcome{Status: StatusIgnored, Reason: decision.Reason}, nil
	}

	content := strings.TrimSpace(decision.Content)
	attribute := e.classifier.Classify(ctx, content)
	timestamp := time.Now().UTC().Format(time.RFC3339)
	e.log.Info(fmt.Sprintf("consolidating update for attribute '%s'", attribute))

	// The stored owner_id is the key the scope filter matches on: a scoped
	// write must record the scope value, or the next search-before-insert
	// for the same scope will never find the fact it just wrote. Global
	// writes record the submitting owner; the submitter is always kept in
	// conversation_id.
	ownerKey := ownerID
	if !scope.IsGlobal() {
		ownerKey = scope.OwnerID
	}

	// Similarity neighbors of the attribute token are not guaranteed topical
	// matches; the metadata tag equality below is what identifies the
	// existing fact for this attribute.
	candidates, err := e.index.Query(ctx, string(attribute), e.searchLimit, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to query index for attribute '%s': %w", attribute, err)
	}

	for _, cand := range candidates {
		if cand.Fact.Attribute != attribute {
			continue
		}
		if cand.Fact.ID == "" {
			e.log.Warn("matched candidate is missing its id, skipping")
			continue
		}

		updated := cand.Fact
		updated.Timestamp = timestamp
		updated.OwnerID = ownerKey
		updated.ConversationID = conversationID

		if sameContent(cand.Fact.Content, content) {
			// Identical statement: refresh the timestamp only.
			if err := e.index.Upsert(ctx, &updated); err != nil {
				return nil, fmt.Errorf("failed to touch fact %s: %w", updated.ID, err)
			}
			return &Outcome{Status: StatusAlreadyCurrent, FactID: updated.ID}, nil
		}

		merged, err := e.oracle.Merge(ctx, cand.Fact.Content, content)
		if err != nil {
			// Availability over elegance: keep the update as a naive
			// concatenation rather than losing it.
			e.log.Warn(fmt.Sprintf("merge failed, falling back to concatenation: %v", err))
			merged = cand.Fact.Content + "\n" + content
		}
		updated.Content = merged
		if err := e.index.Upsert(ctx, &updated); err != nil {
			return nil, fmt.Errorf("failed to update fact %s: %w", updated.ID, err)
		}
		e.log.Info(fmt.Sprintf("updated fact %s for attribute '%s'", updated.ID, attribute))
		return &Outcome{Status: StatusUpdated, FactID: updated.ID}, nil
	}

	fact := &models.Fact{
		ID:             "fact-" + uuid.New().String(),
		Content:        content,
		Attribute:      attribute,
		Timestamp:      timestamp,
		OwnerID:        ownerKey,
		ConversationID: conversationID,
	}
	if err := e.index.Upsert(ctx, fact); err != nil {
		return nil, fmt.Errorf("failed to insert fact for attribute '%s': %w", attribute, err)
	}
	e.log.Info(fmt.Sprintf("saved new fact %s for attribute '%s'", fact.ID, attribute))
	return &Outcome{Status: StatusSaved, FactID: fact.ID}, nil
}

// sameContent compares statements ignoring case and surrounding whitespace.
func sameContent(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
