package domain

import (
	"time"

	"github.com/emberwake/emberwake/internal/core/resolve"
)

// Turn is one immutable entry in a campaign's history.
//
// Turns are append-only once created. The only sanctioned mutation is
// the debug cheat path, which patches health fields on the most recent
// turn's snapshot in place.
type Turn struct {
	CampaignID  string
	Number      int
	PlayerInput string
	Narrative   string
	Effects     []resolve.Effect
	// CharacterHealth and EnemyHealth snapshot both sides after the
	// turn's effects were applied.
	CharacterHealth  int
	EnemyHealth      *int
	CombatState      *CombatState
	ActiveCombat     bool
	Reward           Reward
	SuggestedActions []string
	CreatedAt        time.Time
}
