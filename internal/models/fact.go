package models

import "strings"

// Attribute is one topical category from the fixed vocabulary used to
// partition facts and route queries.
type Attribute string

const (
	AttributeRooms      Attribute = "rooms"
	AttributeAmenities  Attribute = "amenities"
	AttributeAppliances Attribute = "appliances"
	AttributeLocation   Attribute = "location"
	AttributePrice      Attribute = "price"
	AttributeNeighbors  Attribute = "neighbors"
	AttributeGeneral    Attribute = "general"
)

// Attributes lists the full closed vocabulary.
var Attributes = []Attribute{
	AttributeRooms,
	AttributeAmenities,
	AttributeAppliances,
	AttributeLocation,
	AttributePrice,
	AttributeNeighbors,
	AttributeGeneral,
}

// ParseAttribute normalizes raw text to a vocabulary member. Anything outside
// the vocabulary maps to AttributeGeneral.
func ParseAttribute(raw string) Attribute {
	candidate := Attribute(strings.ToLower(strings.TrimSpace(raw)))
	for _, attr := range Attributes {
		if candidate == attr {
			return attr
		}
	}
	return AttributeGeneral
}

// Fact is a single stored, attribute-tagged statement about a property.
// Content and Timestamp change on merge; ID never does. OwnerID and
// ConversationID are provenance metadata and are not used in ranking.
type Fact struct {
	ID             string    `json:"id"`
	Content        string    `json:"content"`
	Attribute      Attribute `json:"attribute"`
	Timestamp      string    `json:"timestamp"` // RFC3339 UTC, instant of last write
	OwnerID        string    `json:"owner_id"`
	ConversationID string    `json:"conversation_id"`
}
