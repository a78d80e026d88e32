// Package engine drives one player-action cycle against a campaign.
//
// It reconciles two sources of truth: authoritative numeric state owned
// by the backend, and narrative intent from an untrusted generator. The
// generator supplies prose and effect kinds; everything numeric is
// computed here.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/emberwake/emberwake/internal/core/resolve"
	apperrors "github.com/emberwake/emberwake/internal/errors"
	"github.com/emberwake/emberwake/internal/game/content"
	"github.com/emberwake/emberwake/internal/game/domain"
	"github.com/emberwake/emberwake/internal/game/history"
	"github.com/emberwake/emberwake/internal/game/narrator"
	"github.com/emberwake/emberwake/internal/game/storage"
	"github.com/emberwake/emberwake/internal/random"
)

const recallLimit = 3

// Narrative overrides for the dedicated knockout paths.
const (
	playerKnockoutNarrative = "The world tilts and goes dark. You wake later, aching but alive, your wounds bound and your strength restored."
	enemyDefeatNarrative    = "Your foe staggers and falls. The fight is over, and the spoils are yours."
)

var playerKnockoutSuggestions = []string{"take stock of your wounds", "find somewhere safe to rest"}
var enemyDefeatSuggestions = []string{"search the body", "catch your breath", "move on"}

// Config defines the collaborators for an Engine.
type Config struct {
	Store    storage.Store
	Narrator narrator.Narrator
	Tables   content.Tables
	// NewRand builds the per-request random source. Defaults to a
	// crypto-seeded math/rand source; injectable for deterministic tests.
	NewRand func() (*rand.Rand, error)
	// Now is injectable for deterministic timestamps.
	Now func() time.Time
}

// Engine orchestrates turns, cheats, and campaign bookkeeping.
type Engine struct {
	store    storage.Store
	narrator narrator.Narrator
	tables   content.Tables
	newRand  func() (*rand.Rand, error)
	now      func() time.Time
	locks    *campaignLocks
	tracer   trace.Tracer
}

// New builds an Engine from config.
func New(cfg Config) (*Engine, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.Narrator == nil {
		return nil, errors.New("narrator is required")
	}
	newRand := cfg.NewRand
	if newRand == nil {
		newRand = func() (*rand.Rand, error) {
			seed, err := random.NewSeed()
			if err != nil {
				return nil, err
			}
			return rand.New(rand.NewSource(seed)), nil
		}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		store:    cfg.Store,
		narrator: cfg.Narrator,
		tables:   cfg.Tables,
		newRand:  newRand,
		now:      now,
		locks:    newCampaignLocks(),
		tracer:   otel.Tracer("emberwake/engine"),
	}, nil
}

// ActionResult is the caller-facing shape of one completed turn.
type ActionResult struct {
	Narrative        string              `json:"narrative"`
	Effects          []resolve.Effect    `json:"effects"`
	CharacterHealth  int                 `json:"character_health"`
	EnemyHealth      *int                `json:"enemy_health"`
	CombatState      *domain.CombatState `json:"combat_state"`
	ActiveCombat     bool                `json:"active_combat"`
	Reward           domain.Reward       `json:"enemy_defeated_reward"`
	TurnNumber       int                 `json:"turn_number"`
	SuggestedActions []string            `json:"suggested_actions"`
}

// Act processes one player action against a campaign and returns the
// finalized turn. The player always receives a narrated turn; generator
// failure degrades to a safe fallback outcome, never an error.
func (e *Engine) Act(ctx context.Context, campaignID, actionText string) (ActionResult, error) {
	ctx, span := e.tracer.Start(ctx, "engine.Act",
		trace.WithAttributes(attribute.String("campaign.id", campaignID)))
	defer span.End()

	actionText = strings.TrimSpace(actionText)
	if actionText == "" {
		return ActionResult{}, apperrors.New(apperrors.CodeActionEmptyText, "action text is required")
	}

	unlock := e.locks.acquire(campaignID)
	defer unlock()

	campaign, character, err := e.loadContext(ctx, campaignID)
	if err != nil {
		return ActionResult{}, err
	}

	if cheat, ok := parseCheat(actionText); ok {
		return e.applyCheat(ctx, campaign, character, cheat)
	}

	rng, err := e.newRand()
	if err != nil {
		return ActionResult{}, fmt.Errorf("new random source: %w", err)
	}

	turnCount, err := e.store.CountTurns(ctx, campaign.ID)
	if err != nil {
		return ActionResult{}, fmt.Errorf("count turns: %w", err)
	}

	priorTurns, err := e.store.ListTurns(ctx, campaign.ID, "")
	if err != nil {
		return ActionResult{}, fmt.Errorf("list turns: %w", err)
	}

	state, err := e.startingState(priorTurns, character, rng)
	if err != nil {
		return ActionResult{}, err
	}

	// Rolls are refreshed every turn, continuation or not. Stale rolls
	// would pin combat to a deterministic repeat outcome.
	if err := state.RefreshRolls(rng); err != nil {
		return ActionResult{}, err
	}

	outcome := e.narrate(ctx, narrator.Request{
		ActionText:      actionText,
		CharacterName:   character.Name,
		CombatState:     &state,
		History:         narrator.FormatHistory(priorTurns),
		RecalledContext: history.Recall(priorTurns, actionText, recallLimit),
	})

	effects := e.resolveIntents(outcome, &state)
	e.applyEffects(effects, &character, &state)

	turn := e.finalizeTurn(outcome, effects, &character, state, rng)
	turn.CampaignID = campaign.ID
	turn.Number = turnCount + 1
	turn.PlayerInput = actionText
	turn.CreatedAt = e.now().UTC()

	if err := e.store.AppendTurn(ctx, turn, turnCount); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return ActionResult{}, apperrors.New(apperrors.CodeTurnConflict, "turn append conflict")
		}
		return ActionResult{}, fmt.Errorf("append turn: %w", err)
	}
	if err := e.store.PutCharacter(ctx, character); err != nil {
		return ActionResult{}, fmt.Errorf("save character: %w", err)
	}

	log.Printf("turn persisted campaign_id=%s turn=%d active_combat=%t effects=%d",
		campaign.ID, turn.Number, turn.ActiveCombat, len(turn.Effects))

	return ActionResult{
		Narrative:        turn.Narrative,
		Effects:          turn.Effects,
		CharacterHealth:  turn.CharacterHealth,
		EnemyHealth:      turn.EnemyHealth,
		CombatState:      turn.CombatState,
		ActiveCombat:     turn.ActiveCombat,
		Reward:           turn.Reward,
		TurnNumber:       turn.Number,
		SuggestedActions: turn.SuggestedActions,
	}, nil
}

// loadContext fetches the campaign and its character, translating
// lookup failures into the caller-facing "no active context" error.
func (e *Engine) loadContext(ctx context.Context, campaignID string) (domain.Campaign, domain.Character, error) {
	campaign, err := e.store.GetCampaign(ctx, campaignID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Campaign{}, domain.Character{}, apperrors.New(apperrors.CodeNotFound, "campaign not found")
		}
		return domain.Campaign{}, domain.Character{}, fmt.Errorf("get campaign: %w", err)
	}
	if !campaign.Active {
		return domain.Campaign{}, domain.Character{}, domain.ErrCampaignInactive
	}

	character, err := e.store.GetCharacter(ctx, campaign.CharacterID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Campaign{}, domain.Character{}, apperrors.New(apperrors.CodeNotFound, "character not found")
		}
		return domain.Campaign{}, domain.Character{}, fmt.Errorf("get character: %w", err)
	}
	return campaign, character, nil
}

// startingState decides continuation vs scaffold for this turn.
func (e *Engine) startingState(priorTurns []domain.Turn, character domain.Character, rng *rand.Rand) (domain.CombatState, error) {
	var last *domain.Turn
	if len(priorTurns) > 0 {
		last = &priorTurns[len(priorTurns)-1]
	}

	if last != nil && last.ActiveCombat && last.CombatState != nil &&
		last.CombatState.Player.Health > 0 && last.CombatState.Enemy.Health > 0 {
		return domain.ContinueCombat(*last.CombatState, character), nil
	}

	// A prior enemy's last known health carries into the fresh scaffold
	// so a defeated or wounded enemy is not resurrected at full health.
	var knownEnemyHealth *int
	if last != nil && last.EnemyHealth != nil && *last.EnemyHealth > 0 {
		knownEnemyHealth = last.EnemyHealth
	}
	return domain.ScaffoldCombat(character, knownEnemyHealth, rng)
}

// narrate invokes the generator, absorbing failure into the fallback.
func (e *Engine) narrate(ctx context.Context, req narrator.Request) narrator.Outcome {
	outcome, err := e.narrator.Narrate(ctx, req)
	if err != nil {
		log.Printf("narrator failed, using fallback err=%v", err)
		return narrator.Fallback()
	}
	if outcome.Narrative == "" {
		outcome.Narrative = narrator.FallbackNarrative
	}
	return outcome
}

// resolveIntents turns narrator intents into trusted effects using the
// pre-turn totals. A bad attribute degrades every effect to a no-op
// rather than aborting the turn.
func (e *Engine) resolveIntents(outcome narrator.Outcome, state *domain.CombatState) []resolve.Effect {
	if len(outcome.Intents) == 0 {
		return nil
	}
	if err := state.ApplyTotals(outcome.ChosenAttribute); err != nil {
		log.Printf("attribute resolution degraded to no-op attribute=%q err=%v", outcome.ChosenAttribute, err)
		return nil
	}

	effects := make([]resolve.Effect, 0, len(outcome.Intents))
	for _, intent := range outcome.Intents {
		effects = append(effects, resolve.Resolve(
			resolve.EffectType(intent.Type),
			state.Player.ResolveSide(),
			state.Enemy.ResolveSide(),
			state.PlayerTotal,
			state.EnemyTotal,
		))
	}
	return effects
}

// applyEffects mutates the character and working state in accumulation
// order, clamping after every application.
func (e *Engine) applyEffects(effects []resolve.Effect, character *domain.Character, state *domain.CombatState) {
	for _, effect := range effects {
		switch effect.Target {
		case resolve.TargetEnemy:
			state.Enemy.Health -= effect.Value
		case resolve.TargetSelf:
			if effect.Type == resolve.EffectHeal {
				character.Health += effect.Value
			} else {
				character.Health -= effect.Value
			}
			state.Player.Health = character.Health
		}
		character.ClampHealth()
		state.Clamp()
		state.Player.Health = character.Health
	}
}

// finalizeTurn runs the knockout check and assembles the turn record.
func (e *Engine) finalizeTurn(outcome narrator.Outcome, effects []resolve.Effect, character *domain.Character, state domain.CombatState, rng *rand.Rand) domain.Turn {
	turn := domain.Turn{
		Narrative:        outcome.Narrative,
		Effects:          effects,
		Reward:           domain.Reward{},
		SuggestedActions: outcome.SuggestedActions,
	}
	if turn.SuggestedActions == nil {
		turn.SuggestedActions = []string{}
	}

	switch {
	case character.Health <= 0:
		// Knockouts reset, they do not kill.
		character.Health = character.MaxHealth
		turn.Narrative = playerKnockoutNarrative
		turn.SuggestedActions = playerKnockoutSuggestions
		turn.ActiveCombat = false
		turn.CombatState = nil
		turn.EnemyHealth = nil

	case state.Enemy.Health <= 0:
		turn.Narrative = enemyDefeatNarrative
		turn.SuggestedActions = enemyDefeatSuggestions
		turn.Reward = e.tables.DefeatReward(rng)
		turn.ActiveCombat = false
		turn.CombatState = nil
		turn.EnemyHealth = nil

	case outcome.ActiveCombat:
		turn.ActiveCombat = true
		snapshot := state
		turn.CombatState = &snapshot
		enemyHealth := state.Enemy.Health
		turn.EnemyHealth = &enemyHealth

	default:
		// Non-combat turn: never carry stale combat data forward.
		turn.ActiveCombat = false
		turn.CombatState = nil
		turn.EnemyHealth = nil
	}

	turn.CharacterHealth = character.Health
	return turn
}
