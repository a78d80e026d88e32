package domain

import (
	"math/rand"

	"github.com/emberwake/emberwake/internal/core/resolve"
	"github.com/emberwake/emberwake/internal/core/roll"
)

// CombatSide is one combatant's snapshot within a combat state.
type CombatSide struct {
	Health int `json:"health"`
	// MaxHealth caps the side's health. Zero means unknown or uncapped,
	// which can happen for enemies whose cap was never established.
	MaxHealth  int        `json:"max_health,omitempty"`
	Attributes Attributes `json:"attributes"`
	// Roll is this side's d20 for the current turn. It is refreshed
	// every turn and never carried over.
	Roll int `json:"roll"`
}

// ResolveSide converts the snapshot into the resolver's scale view.
func (s CombatSide) ResolveSide() resolve.Side {
	return resolve.Side{Health: s.Health, MaxHealth: s.MaxHealth}
}

// Clamp forces health into [0, MaxHealth] when a cap is known, and
// into [0, inf) otherwise.
func (s *CombatSide) Clamp() {
	if s.Health < 0 {
		s.Health = 0
	}
	if s.MaxHealth > 0 && s.Health > s.MaxHealth {
		s.Health = s.MaxHealth
	}
}

// CombatState pairs the player and enemy snapshots for one turn.
// Totals and the chosen attribute are derived fresh each turn; stale
// values must never be reused across turns.
type CombatState struct {
	Player          CombatSide `json:"player"`
	Enemy           CombatSide `json:"enemy"`
	ChosenAttribute string     `json:"chosen_attribute,omitempty"`
	PlayerTotal     int        `json:"player_total,omitempty"`
	EnemyTotal      int        `json:"enemy_total,omitempty"`
}

// Clamp applies health clamping to both sides.
func (c *CombatState) Clamp() {
	c.Player.Clamp()
	c.Enemy.Clamp()
}

// ScaffoldCombat builds a fresh combat state from a character's live
// stats plus an estimated enemy baseline.
//
// Enemy attributes are the player's own with ±30% jitter. Enemy health
// is a jittered value derived from the player's max health, unless
// knownEnemyHealth is provided, in which case the prior enemy carries
// over at that health instead of being re-baselined.
func ScaffoldCombat(character Character, knownEnemyHealth *int, rng *rand.Rand) (CombatState, error) {
	if rng == nil {
		return CombatState{}, roll.ErrMissingRng
	}

	enemyAttrs := Attributes{}
	var err error
	if enemyAttrs.Strength, err = roll.Jitter(rng, character.Attributes.Strength); err != nil {
		return CombatState{}, err
	}
	if enemyAttrs.Dexterity, err = roll.Jitter(rng, character.Attributes.Dexterity); err != nil {
		return CombatState{}, err
	}
	if enemyAttrs.Intelligence, err = roll.Jitter(rng, character.Attributes.Intelligence); err != nil {
		return CombatState{}, err
	}
	if enemyAttrs.Charisma, err = roll.Jitter(rng, character.Attributes.Charisma); err != nil {
		return CombatState{}, err
	}

	enemyHealth := 0
	if knownEnemyHealth != nil {
		enemyHealth = *knownEnemyHealth
	} else {
		enemyHealth, err = roll.Jitter(rng, character.MaxHealth)
		if err != nil {
			return CombatState{}, err
		}
	}

	state := CombatState{
		Player: CombatSide{
			Health:     character.Health,
			MaxHealth:  character.MaxHealth,
			Attributes: character.Attributes,
		},
		Enemy: CombatSide{
			Health:     enemyHealth,
			Attributes: enemyAttrs,
		},
	}
	state.Clamp()
	return state, nil
}

// ContinueCombat carries a prior turn's combat state into a new turn.
// Per-turn derivations (rolls, totals, chosen attribute) are cleared so
// they cannot leak across turns; the caller refreshes rolls next.
// The player side's health and attributes are re-synced from the live
// character record, which is authoritative between turns.
func ContinueCombat(prev CombatState, character Character) CombatState {
	state := prev
	state.Player.Health = character.Health
	state.Player.MaxHealth = character.MaxHealth
	state.Player.Attributes = character.Attributes
	state.Player.Roll = 0
	state.Enemy.Roll = 0
	state.ChosenAttribute = ""
	state.PlayerTotal = 0
	state.EnemyTotal = 0
	state.Clamp()
	return state
}

// RefreshRolls assigns fresh d20 rolls to both sides.
func (c *CombatState) RefreshRolls(rng *rand.Rand) error {
	rolls, err := roll.NewSideRolls(rng)
	if err != nil {
		return err
	}
	c.Player.Roll = rolls.Player
	c.Enemy.Roll = rolls.Enemy
	return nil
}

// ApplyTotals records the adjudicated attribute and derives both sides'
// totals from the current rolls. Totals are roll plus the named
// attribute's value on each side.
func (c *CombatState) ApplyTotals(attribute string) error {
	playerValue, err := c.Player.Attributes.Value(attribute)
	if err != nil {
		return err
	}
	enemyValue, err := c.Enemy.Attributes.Value(attribute)
	if err != nil {
		return err
	}
	c.ChosenAttribute = attribute
	c.PlayerTotal = c.Player.Roll + playerValue
	c.EnemyTotal = c.Enemy.Roll + enemyValue
	return nil
}
