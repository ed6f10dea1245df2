package knowledge

import (
	"context"
	"errors"
	"testing"

	"hestia/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestClassify_NormalizesVocabulary(t *testing.T) {
	cases := map[string]models.Attribute{
		"appliances":    models.AttributeAppliances,
		" Rooms ":       models.AttributeRooms,
		"PRICE":         models.AttributePrice,
		"kitchenware":   models.AttributeGeneral, // out of vocabulary
		"":              models.AttributeGeneral,
		"neighbors":     models.AttributeNeighbors,
		"neighbourhood": models.AttributeGeneral, // close but not a member
	}

	for raw, want := range cases {
		o := &stubOracle{attribute: raw}
		classifier := NewClassifier(o, testLogger())
		assert.Equal(t, want, classifier.Classify(context.Background(), "some text"), "raw=%q", raw)
	}
}

func TestClassify_OracleFailureFailsSoft(t *testing.T) {
	o := &stubOracle{attributeErr: errors.New("model unreachable")}
	classifier := NewClassifier(o, testLogger())

	assert.Equal(t, models.AttributeGeneral, classifier.Classify(context.Background(), "the rent is 900"))
}
