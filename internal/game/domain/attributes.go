package domain

import apperrors "github.com/emberwake/emberwake/internal/errors"

// Attribute names accepted for adjudication.
const (
	AttributeStrength     = "strength"
	AttributeDexterity    = "dexterity"
	AttributeIntelligence = "intelligence"
	AttributeCharisma     = "charisma"
)

// AttributeNames lists the four adjudication stats in canonical order.
var AttributeNames = []string{
	AttributeStrength,
	AttributeDexterity,
	AttributeIntelligence,
	AttributeCharisma,
}

// Attributes holds the four stats shared by both combat sides.
type Attributes struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Intelligence int `json:"intelligence"`
	Charisma     int `json:"charisma"`
}

// Value returns the named attribute.
func (a Attributes) Value(name string) (int, error) {
	switch name {
	case AttributeStrength:
		return a.Strength, nil
	case AttributeDexterity:
		return a.Dexterity, nil
	case AttributeIntelligence:
		return a.Intelligence, nil
	case AttributeCharisma:
		return a.Charisma, nil
	default:
		return 0, apperrors.WithMetadata(
			apperrors.CodeCharacterInvalidAttribute,
			"unknown attribute: "+name,
			map[string]string{"Attribute": name},
		)
	}
}
