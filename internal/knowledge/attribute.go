package knowledge

import (
	"context"
	"fmt"

	"hestia/internal/models"
	"hestia/internal/oracle"
	"hestia/pkg/logger"
)

// Classifier maps free text to one tag of the fixed attribute vocabulary.
// It fails soft: an oracle failure or an out-of-vocabulary answer yields
// AttributeGeneral, never an error.
type Classifier struct {
	oracle oracle.Oracle
	log    *logger.Logger
}

// NewClassifier creates a new Classifier.
func NewClassifier(o oracle.Oracle, log *logger.Logger) *Classifier {
	return &Classifier{oracle: o, log: log}
}

// Classify returns the attribute the text is about.
func (c *Classifier) Classify(ctx context.Context, text string) models.Attribute {
	raw, err := c.oracle.ClassifyAttribute(ctx, text)
	if err != nil {
		c.log.Warn(fmt.Sprintf("attribute classification failed, defaulting to general: %v", err))
		return models.AttributeGeneral
	}
	return models.ParseAttribute(raw)
}
