package knowledge

import (
	"context"
	"errors"
	"testing"

	"hestia/internal/models"
	"hestia/internal/oracle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConsolidationEngine(o *stubOracle, idx *memIndex) *ConsolidationEngine {
	log := testLogger()
	return NewConsolidationEngine(o, NewClassifier(o, log), idx, 10, log)
}

func TestSubmit_SavesNewFact(t *testing.T) {
	o := &stubOracle{
		saveDecision: &oracle.SaveDecision{Action: oracle.ActionSave, Content: "The fridge is new."},
		attribute:    "appliances",
	}
	idx := newMemIndex()
	engine := newConsolidationEngine(o, idx)

	outcome, err := engine.Submit(context.Background(), "the fridge is new", "", "owner-1", "conv-owner-1", Scope{})
	require.NoError(t, err)

	assert.Equal(t, StatusSaved, outcome.Status)
	assert.NotEmpty(t, outcome.FactID)
	assert.True(t, outcome.Stored())

	facts := idx.factsFor(models.AttributeAppliances)
	require.Len(t, facts, 1)
	assert.Equal(t, "The fridge is new.", facts[0].Content)
	assert.Equal(t, "owner-1", facts[0].OwnerID)
	assert.NotEmpty(t, facts[0].Timestamp)
}

func TestSubmit_SameAttributeUpdatesExistingFact(t *testing.T) {
	o := &stubOracle{
		saveDecision: &oracle.SaveDecision{Action: oracle.ActionSave, Content: "The fridge is new."},
		attribute:    "appliances",
	}
	idx := newMemIndex()
	engine := newConsolidationEngine(o, idx)
	ctx := context.Background()

	first, err := engine.Submit(ctx, "the fridge is new", "", "owner-1", "conv-owner-1", Scope{})
	require.NoError(t, err)
	require.Equal(t, StatusSaved, first.Status)

	o.saveDecision = &oracle.SaveDecision{Action: oracle.ActionSave, Content: "The fridge was replaced last year."}
	o.mergeResult = "The fridge is new; it was replaced last year."

	second, err := engine.Submit(ctx, "the fridge was replaced last year", "", "owner-1", "conv-owner-1", Scope{})
	require.NoError(t, err)

	assert.Equal(t, StatusUpdated, second.Status)
	assert.Equal(t, first.FactID, second.FactID)

	// Still exactly one live fact for the attribute, now holding the merge.
	facts := idx.factsFor(models.AttributeAppliances)
	require.Len(t, facts, 1)
	assert.Equal(t, "The fridge is new; it was replaced last year.", facts[0].Content)
}

func TestSubmit_IdenticalContentIsAlreadyCurrent(t *testing.T) {
	o := &stubOracle{
		saveDecision: &oracle.SaveDecision{Action: oracle.ActionSave, Content: "The rent is 1200 euro."},
		attribute:    "price",
	}
	idx := newMemIndex()
	engine := newConsolidationEngine(o, idx)
	ctx := context.Background()

	first, err := engine.Submit(ctx, "rent is 1200", "", "owner-1", "conv-owner-1", Scope{})
	require.NoError(t, err)
	stored := idx.factsFor(models.AttributePrice)[0]

	// Same normalized content, differing only in case and whitespace.
	o.saveDecision = &oracle.SaveDecision{Action: oracle.ActionSave, Content: "  the rent is 1200 EURO.  "}

	second, err := engine.Submit(ctx, "rent is 1200", "", "owner-1", "conv-owner-1", Scope{})
	require.NoError(t, err)

	assert.Equal(t, StatusAlreadyCurrent, second.Status)
	assert.Equal(t, first.FactID, second.FactID)
	assert.Zero(t, o.mergeCalls)

	facts := idx.factsFor(models.AttributePrice)
	require.Len(t, facts, 1)
	assert.Equal(t, stored.Content, facts[0].Content)
}

func TestSubmit_IgnoreDecisionWritesNothing(t *testing.T) {
	o := &stubOracle{
		saveDecision: &oracle.SaveDecision{Action: oracle.ActionIgnore, Reason: "small talk"},
	}
	idx := newMemIndex()
	engine := newConsolidationEngine(o, idx)

	outcome, err := engine.Submit(context.Background(), "hello there", "", "owner-1", "conv-owner-1", Scope{})
	require.NoError(t, err)

	assert.Equal(t, StatusIgnored, outcome.Status)
	assert.Equal(t, "small talk", outcome.Reason)
	assert.False(t, outcome.Stored())
	assert.Empty(t, idx.order)
}

func TestSubmit_SaveGateFailurePropagates(t *testing.T) {
	o := &stubOracle{saveErr: errors.New("model unreachable")}
	engine := newConsolidationEngine(o, newMemIndex())

	_, err := engine.Submit(context.Background(), "the boiler was serviced", "", "owner-1", "conv-owner-1", Scope{})
	assert.Error(t, err)
}

func TestSubmit_MergeFailureFallsBackToConcatenation(t *testing.T) {
	o := &stubOracle{
		saveDecision: &oracle.SaveDecision{Action: oracle.ActionSave, Content: "The flat has two bedrooms."},
		attribute:    "rooms",
	}
	idx := newMemIndex()
	engine := newConsolidationEngine(o, idx)
	ctx := context.Background()

	_, err := engine.Submit(ctx, "two bedrooms", "", "owner-1", "conv-owner-1", Scope{})
	require.NoError(t, err)

	o.saveDecision = &oracle.SaveDecision{Action: oracle.ActionSave, Content: "One bedroom was converted to an office."}
	o.mergeErr = errors.New("model unreachable")

	outcome, err := engine.Submit(ctx, "one became an office", "", "owner-1", "conv-owner-1", Scope{})
	require.NoError(t, err)

	assert.Equal(t, StatusUpdated, outcome.Status)
	facts := idx.factsFor(models.AttributeRooms)
	require.Len(t, facts, 1)
	assert.Equal(t, "The flat has two bedrooms.\nOne bedroom was converted to an office.", facts[0].Content)
}

func TestSubmit_CandidateWithoutIDIsSkipped(t *testing.T) {
	o := &stubOracle{
		saveDecision: &oracle.SaveDecision{Action: oracle.ActionSave, Content: "Parking is included."},
		attribute:    "amenities",
	}
	idx := newMemIndex()
	// Inconsistent index record: right attribute, no id.
	idx.add(models.Fact{ID: "", Attribute: models.AttributeAmenities, Content: "orphan"}, 0.1)
	engine := newConsolidationEngine(o, idx)

	outcome, err := engine.Submit(context.Background(), "parking included", "", "owner-1", "conv-owner-1", Scope{})
	require.NoError(t, err)

	// The orphan is not treated as the existing fact; a fresh one is saved.
	assert.Equal(t, StatusSaved, outcome.Status)
	assert.NotEmpty(t, outcome.FactID)
}

func TestSubmit_ClassifierFailureDefaultsToGeneral(t *testing.T) {
	o := &stubOracle{
		saveDecision: &oracle.SaveDecision{Action: oracle.ActionSave, Content: "Some detail."},
		attributeErr: errors.New("model unreachable"),
	}
	idx := newMemIndex()
	engine := newConsolidationEngine(o, idx)

	outcome, err := engine.Submit(context.Background(), "some detail", "", "owner-1", "conv-owner-1", Scope{})
	require.NoError(t, err)

	assert.Equal(t, StatusSaved, outcome.Status)
	require.Len(t, idx.factsFor(models.AttributeGeneral), 1)
}

func TestSubmit_ScopedWritesStayInScope(t *testing.T) {
	o := &stubOracle{
		saveDecision: &oracle.SaveDecision{Action: oracle.ActionSave, Content: "The rent is 900 euro."},
		attribute:    "price",
	}
	idx := newMemIndex()
	// Another owner already has a price fact; a scoped write must not
	// consolidate into it.
	idx.add(models.Fact{
		ID:        "fact-other",
		Attribute: models.AttributePrice,
		Content:   "The rent is 2000 euro.",
		OwnerID:   "owner-2",
	}, 0.1)
	engine := newConsolidationEngine(o, idx)

	outcome, err := engine.Submit(context.Background(), "rent is 900", "", "owner-1", "conv-owner-1", Scope{OwnerID: "owner-1"})
	require.NoError(t, err)

	assert.Equal(t, StatusSaved, outcome.Status)
	assert.NotEqual(t, "fact-other", outcome.FactID)
	assert.Len(t, idx.factsFor(models.AttributePrice), 2)
}

func TestSubmit_ScopedWriteRecordsScopeKey(t *testing.T) {
	o := &stubOracle{
		saveDecision: &oracle.SaveDecision{Action: oracle.ActionSave, Content: "The fridge is new."},
		attribute:    "appliances",
	}
	idx := newMemIndex()
	engine := newConsolidationEngine(o, idx)
	ctx := context.Background()

	// Property scope and submitting user are different ids.
	scope := Scope{OwnerID: "prop-9"}

	first, err := engine.Submit(ctx, "the fridge is new", "", "owner-1", "conv-owner-1", scope)
	require.NoError(t, err)
	require.Equal(t, StatusSaved, first.Status)

	o.saveDecision = &oracle.SaveDecision{Action: oracle.ActionSave, Content: "The fridge was replaced last year."}
	o.mergeResult = "The fridge is new; it was replaced last year."

	second, err := engine.Submit(ctx, "the fridge was replaced last year", "", "owner-1", "conv-owner-1", scope)
	require.NoError(t, err)

	// The second submit must find the fact the first one wrote.
	assert.Equal(t, StatusUpdated, second.Status)
	assert.Equal(t, first.FactID, second.FactID)

	facts := idx.factsFor(models.AttributeAppliances)
	require.Len(t, facts, 1)
	assert.Equal(t, "prop-9", facts[0].OwnerID)
	assert.Equal(t, "The fridge is new; it was replaced last year.", facts[0].Content)
}
