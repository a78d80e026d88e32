// Package narrator adapts an external narrative generator into a trusted
// outcome contract.
//
// The generator supplies prose and effect kinds only. All numeric state
// (targets, magnitudes, health) is computed by the engine; anything else
// the generator returns is normalized or stripped before use.
package narrator

import (
	"context"

	"github.com/emberwake/emberwake/internal/game/domain"
)

// Intent is an untrusted, type-only effect instruction from the generator.
type Intent struct {
	Type string `json:"type"`
}

// Request carries everything the generator needs for one turn.
type Request struct {
	// ActionText is the player's freeform input.
	ActionText string
	// CharacterName labels the protagonist in prose.
	CharacterName string
	// CombatState is the refreshed pre-turn snapshot, nil outside combat.
	CombatState *domain.CombatState
	// History is the formatted recent-turn context block.
	History string
	// RecalledContext is optional longer-range context, never authoritative.
	RecalledContext []string
}

// Outcome is the normalized result of one narration call.
type Outcome struct {
	Narrative string
	// Intents carries only the effect kinds; targets and values are
	// backend-computed.
	Intents []Intent
	// ChosenAttribute is the stat the generator adjudicated this turn.
	ChosenAttribute string
	// CombatState echoes the generator's combat view. Forced to nil
	// whenever ActiveCombat is false.
	CombatState *domain.CombatState
	// EnemyHealth is the generator's view of remaining enemy health.
	// Forced to nil whenever ActiveCombat is false.
	EnemyHealth      *int
	ActiveCombat     bool
	Reward           domain.Reward
	SuggestedActions []string
}

// Narrator generates a narrated outcome for one player action.
//
// Implementations should return an error on unrecoverable generator
// failure; the engine substitutes the safe fallback outcome so the turn
// always completes.
type Narrator interface {
	Narrate(ctx context.Context, req Request) (Outcome, error)
}
