package narrator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/emberwake/emberwake/internal/game/domain"
)

// wireEffect deliberately parses only the type field. Any value or
// target the generator volunteers is a backend-reserved field and is
// dropped here.
type wireEffect struct {
	Type string `json:"type"`
}

type wireReward struct {
	Experience *int     `json:"experience"`
	Loot       []string `json:"loot"`
}

// wireOutcome is the raw JSON schema the generator is asked to produce.
type wireOutcome struct {
	Narrative        string              `json:"narrative"`
	Effects          []wireEffect        `json:"effects"`
	ChosenAttribute  string              `json:"chosen_attribute"`
	CombatState      *domain.CombatState `json:"combat_state"`
	EnemyHealth      *int                `json:"enemy_health"`
	ActiveCombat     *bool               `json:"active_combat"`
	Reward           *wireReward         `json:"reward"`
	SuggestedActions []string            `json:"suggested_actions"`
}

// ParseOutcome decodes and normalizes a raw generator response.
// Unparseable payloads are an error; the caller falls back.
func ParseOutcome(payload []byte) (Outcome, error) {
	var raw wireOutcome
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Outcome{}, fmt.Errorf("decode narrator response: %w", err)
	}
	return normalize(raw), nil
}

// normalize enforces the outcome invariants regardless of what the
// generator returned.
func normalize(raw wireOutcome) Outcome {
	outcome := Outcome{
		Narrative:       strings.TrimSpace(raw.Narrative),
		ChosenAttribute: strings.ToLower(strings.TrimSpace(raw.ChosenAttribute)),
	}

	for _, effect := range raw.Effects {
		kind := strings.ToLower(strings.TrimSpace(effect.Type))
		if kind == "" {
			continue
		}
		outcome.Intents = append(outcome.Intents, Intent{Type: kind})
	}

	// An adjudicated attribute is only meaningful alongside intents.
	// Default to strength so a generator that omits it cannot stall
	// an otherwise valid combat exchange.
	if len(outcome.Intents) > 0 && outcome.ChosenAttribute == "" {
		outcome.ChosenAttribute = domain.AttributeStrength
	}

	outcome.ActiveCombat = raw.ActiveCombat != nil && *raw.ActiveCombat

	// A non-combat turn must never carry stale combat data forward.
	if outcome.ActiveCombat {
		outcome.CombatState = raw.CombatState
		outcome.EnemyHealth = raw.EnemyHealth
	}

	if raw.Reward != nil {
		if raw.Reward.Experience != nil && *raw.Reward.Experience > 0 {
			outcome.Reward.Experience = *raw.Reward.Experience
		}
		for _, item := range raw.Reward.Loot {
			item = strings.TrimSpace(item)
			if item != "" {
				outcome.Reward.Loot = append(outcome.Reward.Loot, item)
			}
		}
	}

	outcome.SuggestedActions = []string{}
	for _, action := range raw.SuggestedActions {
		action = strings.TrimSpace(action)
		if action != "" {
			outcome.SuggestedActions = append(outcome.SuggestedActions, action)
		}
	}

	return outcome
}
