// Package knowledge holds the consolidation and ranked-retrieval engines:
// the write path that decides where an owner statement belongs and how it
// merges with what is already known, and the read path that ranks stored
// facts and gates the answer behind a relevance check.
package knowledge

import (
	"context"

	"hestia/internal/models"
)

// Scope is the partition a query or write applies to. A zero Scope addresses
// the whole collection; a non-empty OwnerID restricts the index to facts
// recorded for that owner (or property). A scoped write records the scope
// value as the stored fact's owner key, so scoped reads find it again.
type Scope struct {
	OwnerID string
}

// IsGlobal reports whether the scope addresses the whole collection.
func (s Scope) IsGlobal() bool {
	return s.OwnerID == ""
}

// Candidate pairs a stored fact with its similarity distance for the duration
// of one query. Lower distance means more similar. Candidates are never
// persisted.
type Candidate struct {
	Fact     models.Fact
	Distance float64
}

// VectorIndex is the contract the engines consume from the external vector
// store. Query embeds the text and returns up to limit nearest records with
// their distances; Upsert creates or fully replaces the record at the fact's
// id.
type VectorIndex interface {
	Query(ctx context.Context, text string, limit int, scope Scope) ([]Candidate, error)
	Upsert(ctx context.Context, fact *models.Fact) error
}
