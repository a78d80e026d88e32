// Package roll produces the per-turn randomized values used by combat.
package roll

import (
	"errors"
	"math/rand"
)

// D20 is the number of sides on the adjudication die.
const D20 = 20

// ErrMissingRng indicates no random source was provided.
var ErrMissingRng = errors.New("random source is required")

// SideRolls holds the fresh rolls for both combatants in one turn.
type SideRolls struct {
	Player int
	Enemy  int
}

// NewSideRolls rolls one d20 per side using the provided random source.
//
// # Freshness
//
// NewSideRolls must be invoked exactly once per turn. Rolls are never
// carried over between turns; reusing a prior turn's rolls pins combat
// to a deterministic repeat outcome.
//
// # Determinism
//
// NewSideRolls is deterministic with respect to the state of rng. Given
// the same seeded source, it always produces the same pair of rolls.
func NewSideRolls(rng *rand.Rand) (SideRolls, error) {
	if rng == nil {
		return SideRolls{}, ErrMissingRng
	}
	return SideRolls{
		Player: rollDie(rng, D20),
		Enemy:  rollDie(rng, D20),
	}, nil
}

// Jitter scales base by a uniform factor in [0.7, 1.3] and returns an
// integer no smaller than 1. It is used to estimate enemy baselines from
// player stats without producing mirror-image opponents.
func Jitter(rng *rand.Rand, base int) (int, error) {
	if rng == nil {
		return 0, ErrMissingRng
	}
	low := int(float64(base) * 0.7)
	if low < 1 {
		low = 1
	}
	high := int(float64(base) * 1.3)
	if high < low {
		high = low
	}
	return low + rng.Intn(high-low+1), nil
}

// rollDie rolls a single die with the provided number of sides.
func rollDie(rng *rand.Rand, sides int) int {
	return rng.Intn(sides) + 1
}
