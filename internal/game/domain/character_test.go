package domain

import (
	"testing"
	"time"

	apperrors "github.com/emberwake/emberwake/internal/errors"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
}

func fixedID() (string, error) {
	return "testcharacterid0000000000a", nil
}

func TestNewCharacter(t *testing.T) {
	character, err := NewCharacter(CharacterInput{
		Name:      "  Brakka  ",
		MaxHealth: 30,
		Attributes: Attributes{
			Strength: 10, Dexterity: 8, Intelligence: 6, Charisma: 7,
		},
	}, fixedNow, fixedID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if character.Name != "Brakka" {
		t.Fatalf("expected trimmed name Brakka, got %q", character.Name)
	}
	if character.Health != 30 {
		t.Fatalf("expected full health at creation, got %d", character.Health)
	}
	if character.ID != "testcharacterid0000000000a" {
		t.Fatalf("expected injected id, got %q", character.ID)
	}
	if !character.CreatedAt.Equal(fixedNow()) {
		t.Fatalf("expected injected timestamp, got %v", character.CreatedAt)
	}
}

func TestNewCharacterEmptyName(t *testing.T) {
	_, err := NewCharacter(CharacterInput{Name: "   ", MaxHealth: 10}, fixedNow, fixedID)
	if !apperrors.IsCode(err, apperrors.CodeCharacterEmptyName) {
		t.Fatalf("expected empty name error, got %v", err)
	}
}

func TestNewCharacterInvalidMaxHealth(t *testing.T) {
	_, err := NewCharacter(CharacterInput{Name: "Brakka", MaxHealth: 0}, fixedNow, fixedID)
	if !apperrors.IsCode(err, apperrors.CodeCharacterInvalidMaxHealth) {
		t.Fatalf("expected invalid max health error, got %v", err)
	}
}

func TestClampHealth(t *testing.T) {
	tests := []struct {
		name   string
		health int
		max    int
		want   int
	}{
		{name: "below zero", health: -5, max: 30, want: 0},
		{name: "above max", health: 45, max: 30, want: 30},
		{name: "in range", health: 12, max: 30, want: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			character := Character{Health: tt.health, MaxHealth: tt.max}
			character.ClampHealth()
			if character.Health != tt.want {
				t.Fatalf("expected health %d, got %d", tt.want, character.Health)
			}
		})
	}
}

func TestAttributesValue(t *testing.T) {
	attrs := Attributes{Strength: 1, Dexterity: 2, Intelligence: 3, Charisma: 4}
	tests := []struct {
		name string
		want int
	}{
		{name: AttributeStrength, want: 1},
		{name: AttributeDexterity, want: 2},
		{name: AttributeIntelligence, want: 3},
		{name: AttributeCharisma, want: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := attrs.Value(tt.name)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if value != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, value)
			}
		})
	}
}

func TestAttributesValueUnknown(t *testing.T) {
	_, err := Attributes{}.Value("luck")
	if !apperrors.IsCode(err, apperrors.CodeCharacterInvalidAttribute) {
		t.Fatalf("expected invalid attribute error, got %v", err)
	}
	metadata := apperrors.GetMetadata(err)
	if metadata["Attribute"] != "luck" {
		t.Fatalf("expected attribute metadata, got %v", metadata)
	}
}
