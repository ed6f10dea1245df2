package knowledge

import (
	"context"
	"fmt"

	"hestia/internal/models"
	"hestia/internal/oracle"
	"hestia/pkg/logger"
)

// stubOracle scripts every judgment for a test. Unset fields fall back to
// permissive defaults so each test only scripts what it cares about.
type stubOracle struct {
	saveDecision   *oracle.SaveDecision
	saveErr        error
	answerDecision *oracle.AnswerDecision
	answerErr      error
	relevance      *oracle.RelevanceVerdict
	relevanceErr   error
	mergeResult    string
	mergeErr       error
	attribute      string
	attributeErr   error
	answerText     string
	synthesizeErr  error

	mergeCalls int
}

func (s *stubOracle) DecideSave(ctx context.Context, message, history string) (*oracle.SaveDecision, error) {
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	if s.saveDecision != nil {
		return s.saveDecision, nil
	}
	return &oracle.SaveDecision{Action: oracle.ActionSave, Content: message}, nil
}

func (s *stubOracle) DecideAnswer(ctx context.Context, message, history string) (*oracle.AnswerDecision, error) {
	if s.answerErr != nil {
		return nil, s.answerErr
	}
	if s.answerDecision != nil {
		return s.answerDecision, nil
	}
	return &oracle.AnswerDecision{Answer: true}, nil
}

func (s *stubOracle) CheckRelevance(ctx context.Context, query, context string) (*oracle.RelevanceVerdict, error) {
	if s.relevanceErr != nil {
		return nil, s.relevanceErr
	}
	if s.relevance != nil {
		return s.relevance, nil
	}
	return &oracle.RelevanceVerdict{IsRelevant: true}, nil
}

func (s *stubOracle) Merge(ctx context.Context, existing, update string) (string, error) {
	s.mergeCalls++
	if s.mergeErr != nil {
		return "", s.mergeErr
	}
	if s.mergeResult != "" {
		return s.mergeResult, nil
	}
	return fmt.Sprintf("%s; %s", existing, update), nil
}

func (s *stubOracle) ClassifyAttribute(ctx context.Context, text string) (string, error) {
	if s.attributeErr != nil {
		return "", s.attributeErr
	}
	if s.attribute != "" {
		return s.attribute, nil
	}
	return "general", nil
}

func (s *stubOracle) SynthesizeAnswer(ctx context.Context, query, context string) (string, error) {
	if s.synthesizeErr != nil {
		return "", s.synthesizeErr
	}
	if s.answerText != "" {
		return s.answerText, nil
	}
	return "stub answer", nil
}

// memIndex is an in-memory VectorIndex. Query ignores the query text and
// returns every stored fact, the way a similarity search over a small
// collection returns everything as a neighbor; per-id distances are
// configurable.
type memIndex struct {
	facts     map[string]models.Fact
	order     []string
	distances map[string]float64
	queryErr  error
	upsertErr error
}

func newMemIndex() *memIndex {
	return &memIndex{
		facts:     make(map[string]models.Fact),
		distances: make(map[string]float64),
	}
}

func (m *memIndex) add(fact models.Fact, distance float64) {
	if _, ok := m.facts[fact.ID]; !ok {
		m.order = append(m.order, fact.ID)
	}
	m.facts[fact.ID] = fact
	m.distances[fact.ID] = distance
}

func (m *memIndex) Query(ctx context.Context, text string, limit int, scope Scope) ([]Candidate, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	var candidates []Candidate
	for _, id := range m.order {
		fact := m.facts[id]
		if !scope.IsGlobal() && fact.OwnerID != scope.OwnerID {
			continue
		}
		candidates = append(candidates, Candidate{Fact: fact, Distance: m.distances[id]})
		if len(candidates) == limit {
			break
		}
	}
	return candidates, nil
}

func (m *memIndex) Upsert(ctx context.Context, fact *models.Fact) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if _, ok := m.facts[fact.ID]; !ok {
		m.order = append(m.order, fact.ID)
	}
	m.facts[fact.ID] = *fact
	return nil
}

func (m *memIndex) factsFor(attr models.Attribute) []models.Fact {
	var out []models.Fact
	for _, id := range m.order {
		if m.facts[id].Attribute == attr {
			out = append(out, m.facts[id])
		}
	}
	return out
}

func testLogger() *logger.Logger {
	return logger.New("test")
}
