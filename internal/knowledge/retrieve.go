package knowledge

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"hestia/internal/models"
	"hestia/internal/oracle"
	"hestia/pkg/logger"
)

// AnswerStatus is the terminal state of one retrieval.
type AnswerStatus string

const (
	StatusAnswered      AnswerStatus = "answered"
	StatusNotApplicable AnswerStatus = "not_applicable"
	StatusNoInformation AnswerStatus = "no_information"
	StatusNotRelevant   AnswerStatus = "not_relevant"
)

// RankedAnswer reports the result of the read path. The four statuses are
// distinct on purpose: the caller must be able to tell an off-topic refusal
// from an empty knowledge base from a successful answer.
type RankedAnswer struct {
	Status    AnswerStatus     `json:"status"`
	Text      string           `json:"text,omitempty"`
	Context   string           `json:"context,omitempty"`
	Attribute models.Attribute `json:"attribute,omitempty"`
	Reason    string           `json:"reason,omitempty"`
}

// Weights of the similarity and recency terms in the candidate score.
const (
	similarityWeight = 0.5
	recencyWeight    = 0.5
)

// RetrievalRanker owns the read path: search, attribute filter with a
// recall-favoring fallback, normalized similarity/recency scoring, top-K
// context assembly, and the strict relevance gate before an answer is
// synthesized.
type RetrievalRanker struct {
	oracle      oracle.Oracle
	classifier  *Classifier
	index       VectorIndex
	searchLimit int
	contextSize int
	log         *logger.Logger
}

// NewRetrievalRanker creates a new RetrievalRanker.
func NewRetrievalRanker(o oracle.Oracle, classifier *Classifier, index VectorIndex, searchLimit, contextSize int, log *logger.Logger) *RetrievalRanker {
	if searchLimit <= 0 {
		searchLimit = 10
	}
	if contextSize <= 0 {
		contextSize = 3
	}
	return &RetrievalRanker{
		oracle:      o,
		classifier:  classifier,
		index:       index,
		searchLimit: searchLimit,
		contextSize: contextSize,
		log:         log,
	}
}

// Answer runs one tenant query through the read path.
func (r *RetrievalRanker) Answer(ctx context.Context, query, history string, scope Scope) (*RankedAnswer, error) {
	decision, err := r.oracle.DecideAnswer(ctx, query, history)
	if err != nil {
		return nil, fmt.Errorf("should-answer judgment failed: %w", err)
	}
	if !decision.Answer {
		return &RankedAnswer{Status: StatusNotApplicable, Reason: decision.Reason}, nil
	}

	candidates, err := r.index.Query(ctx, query, r.searchLimit, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to query index: %w", err)
	}

	targetAttribute := r.classifier.Classify(ctx, query)
	r.log.Info(fmt.Sprintf("filtering %d candidates for attribute '%s'", len(candidates), targetAttribute))

	filtered := make([]Candidate, 0, len(candidates))
	for _, cand := range candidates {
		if cand.Fact.Attribute == targetAttribute {
			filtered = append(filtered, cand)
		}
	}
	if len(filtered) == 0 {
		// Recall over precision: when the classifier and the stored tags
		// disagree, answer from the full candidate set and let the
		// relevance gate decide.
		r.log.Warn(fmt.Sprintf("no candidates match attribute '%s', falling back to all candidates", targetAttribute))
		filtered = candidates
	}
	if len(filtered) == 0 {
		return &RankedAnswer{
			Status:    StatusNoInformation,
			Attribute: targetAttribute,
			Reason:    fmt.Sprintf("no stored information for attribute '%s'", targetAttribute),
		}, nil
	}

	top := rankCandidates(filtered, r.contextSize)
	contextText := buildContext(top)
	r.log.Debug(fmt.Sprintf("answer context:\n%s", contextText))

	verdict, err := r.oracle.CheckRelevance(ctx, query, contextText)
	if err != nil {
		return nil, fmt.Errorf("relevance judgment failed: %w", err)
	}
	if !verdict.IsRelevant {
		r.log.Info(fmt.Sprintf("retrieved context rejected as off-topic: %s", verdict.Reason))
		return &RankedAnswer{
			Status:    StatusNotRelevant,
			Context:   contextText,
			Attribute: targetAttribute,
			Reason:    verdict.Reason,
		}, nil
	}

	text, err := r.oracle.SynthesizeAnswer(ctx, query, contextText)
	if err != nil {
		return nil, fmt.Errorf("answer synthesis failed: %w", err)
	}
	return &RankedAnswer{
		Status:    StatusAnswered,
		Text:      text,
		Context:   contextText,
		Attribute: targetAttribute,
	}, nil
}

// rankCandidates scores candidates by a weighted blend of similarity and
// recency, normalized across the candidate set, and returns the top n in
// descending score order.
func rankCandidates(candidates []Candidate, n int) []Candidate {
	minDist, maxDist := candidates[0].Distance, candidates[0].Distance
	minTime, maxTime := candidateEpoch(candidates[0]), candidateEpoch(candidates[0])
	epochs := make([]float64, len(candidates))
	for i, cand := range candidates {
		epochs[i] = candidateEpoch(cand)
		if cand.Distance < minDist {
			minDist = cand.Distance
		}
		if cand.Distance > maxDist {
			maxDist = cand.Distance
		}
		if epochs[i] < minTime {
			minTime = epochs[i]
		}
		if epochs[i] > maxTime {
			maxTime = epochs[i]
		}
	}

	distSpread := maxDist - minDist
	timeSpread := maxTime - minTime

	scored := make([]Candidate, len(candidates))
	copy(scored, candidates)
	scores := make([]float64, len(candidates))
	for i, cand := range candidates {
		// Zero spread degenerates deliberately: equidistant candidates all
		// count as maximally similar, same-age candidates as maximally
		// recent.
		normDist := 0.0
		if distSpread > 0 {
			normDist = (cand.Distance - minDist) / distSpread
		}
		normTime := 1.0
		if timeSpread > 0 {
			normTime = (epochs[i] - minTime) / timeSpread
		}
		scores[i] = similarityWeight*(1-normDist) + recencyWeight*normTime
	}

	order := make([]int, len(scored))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if n > len(order) {
		n = len(order)
	}
	top := make([]Candidate, 0, n)
	for _, i := range order[:n] {
		top = append(top, scored[i])
	}
	return top
}

// candidateEpoch parses the stored timestamp into unix seconds. Unparseable
// timestamps rank as epoch 0, the oldest possible, penalizing malformed
// metadata instead of failing the query.
func candidateEpoch(cand Candidate) float64 {
	ts, err := time.Parse(time.RFC3339, cand.Fact.Timestamp)
	if err != nil {
		return 0
	}
	return float64(ts.Unix())
}

// buildContext joins the top candidates into the context string handed to the
// relevance gate and the answer synthesis.
func buildContext(candidates []Candidate) string {
	parts := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		ts := cand.Fact.Timestamp
		if ts == "" {
			ts = "unknown"
		}
		parts = append(parts, fmt.Sprintf("%s (added on %s)", strings.TrimSpace(cand.Fact.Content), ts))
	}
	return strings.Join(parts, "\n\n")
}
