// Package domain defines the game entities owned by the combat engine.
package domain

import (
	"strings"
	"time"

	apperrors "github.com/emberwake/emberwake/internal/errors"
	"github.com/emberwake/emberwake/internal/platform/id"
)

var (
	// ErrEmptyName indicates a character was created without a name.
	ErrEmptyName = apperrors.New(apperrors.CodeCharacterEmptyName, "character name is required")

	// ErrInvalidMaxHealth indicates a non-positive health cap.
	ErrInvalidMaxHealth = apperrors.New(apperrors.CodeCharacterInvalidMaxHealth, "max health must be at least 1")
)

// Character is a playable hero with live health and four attributes.
type Character struct {
	ID         string
	Name       string
	Health     int
	MaxHealth  int
	Attributes Attributes
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CharacterInput carries the caller-supplied fields for a new character.
type CharacterInput struct {
	Name       string
	MaxHealth  int
	Attributes Attributes
}

// NewCharacter validates input and constructs a character at full health.
// The now and idGenerator funcs are injectable for deterministic tests;
// nil values fall back to time.Now and platform id generation.
func NewCharacter(input CharacterInput, now func() time.Time, idGenerator func() (string, error)) (Character, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Character{}, ErrEmptyName
	}
	if input.MaxHealth < 1 {
		return Character{}, ErrInvalidMaxHealth
	}

	characterID, err := idGenerator()
	if err != nil {
		return Character{}, err
	}

	createdAt := now().UTC()
	return Character{
		ID:         characterID,
		Name:       name,
		Health:     input.MaxHealth,
		MaxHealth:  input.MaxHealth,
		Attributes: input.Attributes,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}, nil
}

// ClampHealth forces health into [0, MaxHealth].
func (c *Character) ClampHealth() {
	if c.Health < 0 {
		c.Health = 0
	}
	if c.MaxHealth > 0 && c.Health > c.MaxHealth {
		c.Health = c.MaxHealth
	}
}
