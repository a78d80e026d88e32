// Package resolve computes trusted combat effects from narrator intents.
//
// The narrative generator only supplies the kind of effect attempted.
// Who is hit and by how much is decided here, so narrated outcomes can
// never contradict the numeric state owned by the backend.
package resolve

import "math"

// EffectType identifies the kind of effect the narrator attempted.
type EffectType string

const (
	// EffectDamage reduces the target's health.
	EffectDamage EffectType = "damage"
	// EffectHeal restores the acting character's health.
	EffectHeal EffectType = "heal"
)

// Target identifies who a resolved effect applies to.
type Target string

const (
	// TargetEnemy applies the effect to the opposing side.
	TargetEnemy Target = "enemy"
	// TargetSelf applies the effect to the acting character.
	TargetSelf Target = "self"
	// TargetNone marks a stalemate no-op.
	TargetNone Target = "none"
)

// Side carries the health scale of one combatant.
type Side struct {
	// Health is the side's current health.
	Health int
	// MaxHealth is the side's health cap. Zero means unknown or uncapped.
	MaxHealth int
}

// scale is the health figure used to size effects: the cap when known,
// otherwise the current value.
func (s Side) scale() int {
	if s.MaxHealth > 0 {
		return s.MaxHealth
	}
	return s.Health
}

// Effect is the trusted, resolved form of a narrator intent.
type Effect struct {
	Type   EffectType `json:"type"`
	Target Target     `json:"target"`
	Value  int        `json:"value"`
}

// magnitudeFactor ties effect size to the scale of the encounter rather
// than a fixed constant, keeping narrated damage proportionate as
// characters grow.
const magnitudeFactor = 0.15

// Magnitude computes the effect size for the given sides.
// It is always at least 1.
func Magnitude(attacker, defender Side) int {
	avg := (float64(attacker.scale()) + float64(defender.scale())) / 2
	value := int(math.Round(magnitudeFactor * avg))
	if value < 1 {
		value = 1
	}
	return value
}

// Resolve computes the trusted target and value for an effect intent.
//
// The winning side is whichever total is strictly greater; equal totals
// are a stalemate and resolve to a no-op. A heal attempted while the
// enemy wins the exchange backfires into self-damage. Heals never
// benefit the enemy. Unknown effect types resolve to a no-op rather
// than aborting the turn.
//
// Resolve is a pure function over its inputs.
func Resolve(effectType EffectType, attacker, defender Side, playerTotal, enemyTotal int) Effect {
	if playerTotal == enemyTotal {
		return Effect{Type: effectType, Target: TargetNone, Value: 0}
	}

	magnitude := Magnitude(attacker, defender)
	playerWins := playerTotal > enemyTotal

	switch effectType {
	case EffectDamage:
		if playerWins {
			return Effect{Type: EffectDamage, Target: TargetEnemy, Value: magnitude}
		}
		return Effect{Type: EffectDamage, Target: TargetSelf, Value: magnitude}
	case EffectHeal:
		if playerWins {
			return Effect{Type: EffectHeal, Target: TargetSelf, Value: magnitude}
		}
		// Backfire: a failed heal wounds the caster.
		return Effect{Type: EffectDamage, Target: TargetSelf, Value: magnitude}
	default:
		return Effect{Type: effectType, Target: TargetNone, Value: 0}
	}
}
