package engine

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/emberwake/emberwake/internal/game/domain"
	"github.com/emberwake/emberwake/internal/game/storage"
)

// Sentinel action strings recognized by the debug cheat path. They
// bypass the generator entirely and patch the most recent turn in place.
const (
	CheatPlayerHealthOne = "/cheat player_hp_1"
	CheatEnemyHealthOne  = "/cheat enemy_hp_1"
)

type cheat int

const (
	cheatPlayerHealth cheat = iota
	cheatEnemyHealth
)

func parseCheat(actionText string) (cheat, bool) {
	switch actionText {
	case CheatPlayerHealthOne:
		return cheatPlayerHealth, true
	case CheatEnemyHealthOne:
		return cheatEnemyHealth, true
	default:
		return 0, false
	}
}

const (
	cheatAppliedNarrative = "Cheat applied."
	cheatIgnoredNarrative = "Cheat ignored: no active combat."
)

// applyCheat forces the player's or enemy's health down to 1 in the
// most recent turn's snapshot. It never creates a new turn, and it is a
// no-op unless that turn has active combat.
func (e *Engine) applyCheat(ctx context.Context, campaign domain.Campaign, character domain.Character, kind cheat) (ActionResult, error) {
	last, err := e.store.LastTurn(ctx, campaign.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return cheatNoOpResult(character), nil
		}
		return ActionResult{}, fmt.Errorf("load last turn: %w", err)
	}
	if !last.ActiveCombat || last.CombatState == nil {
		return cheatNoOpResult(character), nil
	}

	switch kind {
	case cheatPlayerHealth:
		character.Health = 1
		last.CharacterHealth = 1
		last.CombatState.Player.Health = 1
		if err := e.store.PutCharacter(ctx, character); err != nil {
			return ActionResult{}, fmt.Errorf("save character: %w", err)
		}
	case cheatEnemyHealth:
		one := 1
		last.EnemyHealth = &one
		last.CombatState.Enemy.Health = 1
	}

	if err := e.store.UpdateTurnSnapshot(ctx, last); err != nil {
		return ActionResult{}, fmt.Errorf("patch turn snapshot: %w", err)
	}

	log.Printf("cheat applied campaign_id=%s turn=%d kind=%d", campaign.ID, last.Number, kind)

	return ActionResult{
		Narrative:        cheatAppliedNarrative,
		Effects:          nil,
		CharacterHealth:  last.CharacterHealth,
		EnemyHealth:      last.EnemyHealth,
		CombatState:      last.CombatState,
		ActiveCombat:     last.ActiveCombat,
		Reward:           domain.Reward{},
		TurnNumber:       last.Number,
		SuggestedActions: []string{},
	}, nil
}

func cheatNoOpResult(character domain.Character) ActionResult {
	return ActionResult{
		Narrative:        cheatIgnoredNarrative,
		CharacterHealth:  character.Health,
		ActiveCombat:     false,
		Reward:           domain.Reward{},
		SuggestedActions: []string{},
	}
}
