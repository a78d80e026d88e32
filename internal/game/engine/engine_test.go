package engine

import (
	"context"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/emberwake/emberwake/internal/core/resolve"
	apperrors "github.com/emberwake/emberwake/internal/errors"
	"github.com/emberwake/emberwake/internal/game/content"
	"github.com/emberwake/emberwake/internal/game/domain"
	"github.com/emberwake/emberwake/internal/game/narrator"
	"github.com/emberwake/emberwake/internal/game/storage"
)

// fakeStore is an in-memory storage.Store for engine tests.
type fakeStore struct {
	characters map[string]domain.Character
	campaigns  map[string]domain.Campaign
	turns      map[string][]domain.Turn
	appendErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		characters: map[string]domain.Character{},
		campaigns:  map[string]domain.Campaign{},
		turns:      map[string][]domain.Turn{},
	}
}

func (f *fakeStore) PutCharacter(_ context.Context, character domain.Character) error {
	f.characters[character.ID] = character
	return nil
}

func (f *fakeStore) GetCharacter(_ context.Context, id string) (domain.Character, error) {
	character, ok := f.characters[id]
	if !ok {
		return domain.Character{}, storage.ErrNotFound
	}
	return character, nil
}

func (f *fakeStore) PutCampaign(_ context.Context, campaign domain.Campaign) error {
	f.campaigns[campaign.ID] = campaign
	return nil
}

func (f *fakeStore) GetCampaign(_ context.Context, id string) (domain.Campaign, error) {
	campaign, ok := f.campaigns[id]
	if !ok {
		return domain.Campaign{}, storage.ErrNotFound
	}
	return campaign, nil
}

func (f *fakeStore) AppendTurn(_ context.Context, turn domain.Turn, expectedCount int) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	existing := f.turns[turn.CampaignID]
	if len(existing) != expectedCount || turn.Number != expectedCount+1 {
		return storage.ErrConflict
	}
	f.turns[turn.CampaignID] = append(existing, turn)
	return nil
}

func (f *fakeStore) LastTurn(_ context.Context, campaignID string) (domain.Turn, error) {
	turns := f.turns[campaignID]
	if len(turns) == 0 {
		return domain.Turn{}, storage.ErrNotFound
	}
	return turns[len(turns)-1], nil
}

func (f *fakeStore) CountTurns(_ context.Context, campaignID string) (int, error) {
	return len(f.turns[campaignID]), nil
}

func (f *fakeStore) ListTurns(_ context.Context, campaignID string, _ string) ([]domain.Turn, error) {
	return append([]domain.Turn(nil), f.turns[campaignID]...), nil
}

func (f *fakeStore) UpdateTurnSnapshot(_ context.Context, turn domain.Turn) error {
	turns := f.turns[turn.CampaignID]
	for i := range turns {
		if turns[i].Number == turn.Number {
			turns[i] = turn
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeStore) ClearTurns(_ context.Context, campaignID string) error {
	delete(f.turns, campaignID)
	return nil
}

// scriptedNarrator returns a fixed outcome or error and records the
// last request it saw.
type scriptedNarrator struct {
	outcome narrator.Outcome
	err     error
	lastReq narrator.Request
	calls   int
}

func (s *scriptedNarrator) Narrate(_ context.Context, req narrator.Request) (narrator.Outcome, error) {
	s.lastReq = req
	s.calls++
	if s.err != nil {
		return narrator.Outcome{}, s.err
	}
	return s.outcome, nil
}

var seedCounter int64

func testEngine(t *testing.T, store storage.Store, gen narrator.Narrator) *Engine {
	t.Helper()
	tables, err := content.LoadTables()
	if err != nil {
		t.Fatalf("load tables: %v", err)
	}
	eng, err := New(Config{
		Store:    store,
		Narrator: gen,
		Tables:   tables,
		NewRand: func() (*rand.Rand, error) {
			return rand.New(rand.NewSource(atomic.AddInt64(&seedCounter, 1))), nil
		},
		Now: func() time.Time {
			return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
		},
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return eng
}

func seedContext(store *fakeStore, characterHealth int) {
	store.characters["char1"] = domain.Character{
		ID:        "char1",
		Name:      "Brakka",
		Health:    characterHealth,
		MaxHealth: 100,
		Attributes: domain.Attributes{
			Strength: 30, Dexterity: 10, Intelligence: 10, Charisma: 10,
		},
	}
	store.campaigns["camp1"] = domain.Campaign{
		ID:          "camp1",
		CharacterID: "char1",
		Active:      true,
	}
}

// seedCombatTurn installs a prior active-combat turn whose enemy has no
// attribute bonuses, so the player's strength 30 always wins strength
// exchanges and an enemy with strength 30 always wins against a roll.
func seedCombatTurn(store *fakeStore, enemyHealth, enemyStrength int) {
	state := &domain.CombatState{
		Player: domain.CombatSide{Health: store.characters["char1"].Health, MaxHealth: 100},
		Enemy: domain.CombatSide{
			Health:     enemyHealth,
			Attributes: domain.Attributes{Strength: enemyStrength},
		},
	}
	health := enemyHealth
	store.turns["camp1"] = []domain.Turn{{
		CampaignID:      "camp1",
		Number:          1,
		PlayerInput:     "engage",
		Narrative:       "The fight begins.",
		CharacterHealth: store.characters["char1"].Health,
		EnemyHealth:     &health,
		CombatState:     state,
		ActiveCombat:    true,
	}}
}

func damageOutcome() narrator.Outcome {
	return narrator.Outcome{
		Narrative:        "Steel rings against hide.",
		Intents:          []narrator.Intent{{Type: "damage"}},
		ChosenAttribute:  domain.AttributeStrength,
		ActiveCombat:     true,
		SuggestedActions: []string{"press the attack"},
	}
}

func TestActEmptyAction(t *testing.T) {
	eng := testEngine(t, newFakeStore(), &scriptedNarrator{})
	_, err := eng.Act(context.Background(), "camp1", "   ")
	if !apperrors.IsCode(err, apperrors.CodeActionEmptyText) {
		t.Fatalf("expected empty action error, got %v", err)
	}
}

func TestActUnknownCampaign(t *testing.T) {
	eng := testEngine(t, newFakeStore(), &scriptedNarrator{})
	_, err := eng.Act(context.Background(), "missing", "attack")
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestActInactiveCampaign(t *testing.T) {
	store := newFakeStore()
	seedContext(store, 100)
	campaign := store.campaigns["camp1"]
	campaign.Active = false
	store.campaigns["camp1"] = campaign

	eng := testEngine(t, store, &scriptedNarrator{})
	_, err := eng.Act(context.Background(), "camp1", "attack")
	if !apperrors.IsCode(err, apperrors.CodeCampaignInactive) {
		t.Fatalf("expected inactive campaign error, got %v", err)
	}
}

func TestActDamageTurn(t *testing.T) {
	store := newFakeStore()
	seedContext(store, 100)
	seedCombatTurn(store, 50, 0)
	gen := &scriptedNarrator{outcome: damageOutcome()}
	eng := testEngine(t, store, gen)

	result, err := eng.Act(context.Background(), "camp1", "I strike with my sword")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Player strength 30 vs enemy strength 0: the player always wins.
	// Magnitude: round(0.15 * avg(100, 50)) = 11.
	if len(result.Effects) != 1 {
		t.Fatalf("expected one effect, got %+v", result.Effects)
	}
	effect := result.Effects[0]
	if effect.Type != resolve.EffectDamage || effect.Target != resolve.TargetEnemy || effect.Value != 11 {
		t.Fatalf("expected 11 damage on enemy, got %+v", effect)
	}
	if result.CharacterHealth != 100 {
		t.Fatalf("expected player health unchanged at 100, got %d", result.CharacterHealth)
	}
	if result.EnemyHealth == nil || *result.EnemyHealth != 39 {
		t.Fatalf("expected enemy health 39, got %v", result.EnemyHealth)
	}
	if !result.ActiveCombat || result.CombatState == nil {
		t.Fatal("expected combat to continue")
	}
	if result.TurnNumber != 2 {
		t.Fatalf("expected turn 2, got %d", result.TurnNumber)
	}
	if !result.Reward.IsEmpty() {
		t.Fatalf("expected no reward without a defeat, got %+v", result.Reward)
	}
	if len(store.turns["camp1"]) != 2 {
		t.Fatalf("expected turn persisted, got %d turns", len(store.turns["camp1"]))
	}
}

func TestActHealBackfire(t *testing.T) {
	store := newFakeStore()
	seedContext(store, 100)
	// Enemy strength 30 always beats a player whose strength totals roll+0.
	character := store.characters["char1"]
	character.Attributes.Strength = 0
	store.characters["char1"] = character
	seedCombatTurn(store, 50, 30)

	outcome := damageOutcome()
	outcome.Intents = []narrator.Intent{{Type: "heal"}}
	eng := testEngine(t, store, &scriptedNarrator{outcome: outcome})

	result, err := eng.Act(context.Background(), "camp1", "I drink the salve")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result.Effects) != 1 {
		t.Fatalf("expected one effect, got %+v", result.Effects)
	}
	effect := result.Effects[0]
	if effect.Type != resolve.EffectDamage || effect.Target != resolve.TargetSelf {
		t.Fatalf("expected heal backfire into self damage, got %+v", effect)
	}
	if result.CharacterHealth != 100-effect.Value {
		t.Fatalf("expected player health %d, got %d", 100-effect.Value, result.CharacterHealth)
	}
	if result.EnemyHealth == nil || *result.EnemyHealth != 50 {
		t.Fatalf("expected enemy health untouched at 50, got %v", result.EnemyHealth)
	}
}

func TestActPlayerKnockoutResets(t *testing.T) {
	store := newFakeStore()
	seedContext(store, 5)
	character := store.characters["char1"]
	character.Attributes.Strength = 0
	store.characters["char1"] = character
	seedCombatTurn(store, 50, 30)

	eng := testEngine(t, store, &scriptedNarrator{outcome: damageOutcome()})
	result, err := eng.Act(context.Background(), "camp1", "hold the line")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.CharacterHealth != 100 {
		t.Fatalf("expected knockout reset to max health 100, got %d", result.CharacterHealth)
	}
	if result.ActiveCombat || result.CombatState != nil || result.EnemyHealth != nil {
		t.Fatalf("expected combat cleared after knockout, got %+v", result)
	}
	if result.Narrative != playerKnockoutNarrative {
		t.Fatalf("expected knockout narrative, got %q", result.Narrative)
	}
	if !result.Reward.IsEmpty() {
		t.Fatalf("expected no reward on player knockout, got %+v", result.Reward)
	}
	if store.characters["char1"].Health != 100 {
		t.Fatalf("expected persisted character at full health, got %d", store.characters["char1"].Health)
	}
}

func TestActEnemyDefeatReward(t *testing.T) {
	store := newFakeStore()
	seedContext(store, 100)
	seedCombatTurn(store, 5, 0)

	eng := testEngine(t, store, &scriptedNarrator{outcome: damageOutcome()})
	result, err := eng.Act(context.Background(), "camp1", "finish it")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.ActiveCombat || result.CombatState != nil || result.EnemyHealth != nil {
		t.Fatalf("expected combat cleared after defeat, got %+v", result)
	}
	if result.Reward.IsEmpty() {
		t.Fatal("expected non-empty reward on enemy defeat")
	}
	if result.Narrative != enemyDefeatNarrative {
		t.Fatalf("expected defeat narrative, got %q", result.Narrative)
	}
	if len(result.SuggestedActions) == 0 {
		t.Fatal("expected defeat suggestions")
	}
}

func TestActNonCombatTurnHygiene(t *testing.T) {
	store := newFakeStore()
	seedContext(store, 100)

	outcome := narrator.Outcome{
		Narrative:        "The road is quiet.",
		ActiveCombat:     false,
		SuggestedActions: []string{"make camp"},
	}
	eng := testEngine(t, store, &scriptedNarrator{outcome: outcome})

	result, err := eng.Act(context.Background(), "camp1", "walk on")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.ActiveCombat || result.CombatState != nil || result.EnemyHealth != nil {
		t.Fatalf("expected no combat data on non-combat turn, got %+v", result)
	}

	persisted := store.turns["camp1"][0]
	if persisted.CombatState != nil || persisted.EnemyHealth != nil {
		t.Fatalf("expected persisted turn without combat data, got %+v", persisted)
	}
}

func TestActContinuationReusesEnemyHealth(t *testing.T) {
	store := newFakeStore()
	seedContext(store, 100)
	seedCombatTurn(store, 37, 0)

	gen := &scriptedNarrator{outcome: damageOutcome()}
	eng := testEngine(t, store, gen)

	if _, err := eng.Act(context.Background(), "camp1", "press on"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gen.lastReq.CombatState == nil {
		t.Fatal("expected combat state passed to narrator")
	}
	if gen.lastReq.CombatState.Enemy.Health != 37 {
		t.Fatalf("expected carried enemy health 37, got %d", gen.lastReq.CombatState.Enemy.Health)
	}
}

func TestActScaffoldAfterNonCombatTurn(t *testing.T) {
	store := newFakeStore()
	seedContext(store, 100)
	store.turns["camp1"] = []domain.Turn{{
		CampaignID:      "camp1",
		Number:          1,
		CharacterHealth: 100,
		ActiveCombat:    false,
	}}

	gen := &scriptedNarrator{outcome: damageOutcome()}
	eng := testEngine(t, store, gen)

	if _, err := eng.Act(context.Background(), "camp1", "attack the stranger"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	state := gen.lastReq.CombatState
	if state == nil {
		t.Fatal("expected scaffolded combat state")
	}
	if state.Enemy.Health < 70 || state.Enemy.Health > 130 {
		t.Fatalf("expected freshly estimated enemy health in [70,130], got %d", state.Enemy.Health)
	}
}

func TestActRefreshesRolls(t *testing.T) {
	store := newFakeStore()
	seedContext(store, 100)
	gen := &scriptedNarrator{outcome: damageOutcome()}
	eng := testEngine(t, store, gen)

	seenPlayer := map[int]bool{}
	for i := 0; i < 20; i++ {
		store.turns["camp1"] = nil
		if _, err := eng.Act(context.Background(), "camp1", "attack"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		state := gen.lastReq.CombatState
		if state.Player.Roll < 1 || state.Player.Roll > 20 {
			t.Fatalf("expected player roll in [1,20], got %d", state.Player.Roll)
		}
		if state.Enemy.Roll < 1 || state.Enemy.Roll > 20 {
			t.Fatalf("expected enemy roll in [1,20], got %d", state.Enemy.Roll)
		}
		seenPlayer[state.Player.Roll] = true
	}
	if len(seenPlayer) < 2 {
		t.Fatalf("expected rolls to vary across turns, got %v", seenPlayer)
	}
}

func TestActNarratorFailureFallsBack(t *testing.T) {
	store := newFakeStore()
	seedContext(store, 100)
	gen := &scriptedNarrator{err: context.DeadlineExceeded}
	eng := testEngine(t, store, gen)

	result, err := eng.Act(context.Background(), "camp1", "attack")
	if err != nil {
		t.Fatalf("expected oracle failure to be absorbed, got %v", err)
	}
	if result.Narrative != narrator.FallbackNarrative {
		t.Fatalf("expected fallback narrative, got %q", result.Narrative)
	}
	if len(result.Effects) != 0 {
		t.Fatalf("expected no effects on fallback, got %+v", result.Effects)
	}
	if result.ActiveCombat || result.CombatState != nil {
		t.Fatal("expected combat cleared on fallback")
	}
	if len(store.turns["camp1"]) != 1 {
		t.Fatal("expected fallback turn persisted")
	}
}

func TestActBadAttributeDegradesToNoOp(t *testing.T) {
	store := newFakeStore()
	seedContext(store, 100)
	seedCombatTurn(store, 50, 0)

	outcome := damageOutcome()
	outcome.ChosenAttribute = "luck"
	eng := testEngine(t, store, &scriptedNarrator{outcome: outcome})

	result, err := eng.Act(context.Background(), "camp1", "attack")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result.Effects) != 0 {
		t.Fatalf("expected effects degraded to no-op, got %+v", result.Effects)
	}
	if result.EnemyHealth == nil || *result.EnemyHealth != 50 {
		t.Fatalf("expected enemy health untouched, got %v", result.EnemyHealth)
	}
}

func TestActAppendConflict(t *testing.T) {
	store := newFakeStore()
	seedContext(store, 100)
	store.appendErr = storage.ErrConflict

	eng := testEngine(t, store, &scriptedNarrator{outcome: damageOutcome()})
	_, err := eng.Act(context.Background(), "camp1", "attack")
	if !apperrors.IsCode(err, apperrors.CodeTurnConflict) {
		t.Fatalf("expected turn conflict error, got %v", err)
	}
}

func TestCheatNoActiveCombatIsNoOp(t *testing.T) {
	store := newFakeStore()
	seedContext(store, 88)

	eng := testEngine(t, store, &scriptedNarrator{})
	result, err := eng.Act(context.Background(), "camp1", CheatPlayerHealthOne)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Narrative != cheatIgnoredNarrative {
		t.Fatalf("expected cheat ignored narrative, got %q", result.Narrative)
	}
	if len(store.turns["camp1"]) != 0 {
		t.Fatal("expected no turn created by cheat")
	}
	if store.characters["char1"].Health != 88 {
		t.Fatalf("expected character untouched, got health %d", store.characters["char1"].Health)
	}
}

func TestCheatPlayerHealthOne(t *testing.T) {
	store := newFakeStore()
	seedContext(store, 88)
	seedCombatTurn(store, 50, 0)

	gen := &scriptedNarrator{}
	eng := testEngine(t, store, gen)
	result, err := eng.Act(context.Background(), "camp1", CheatPlayerHealthOne)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if gen.calls != 0 {
		t.Fatal("expected cheat to bypass the narrator")
	}
	if result.Narrative != cheatAppliedNarrative {
		t.Fatalf("expected cheat acknowledgment, got %q", result.Narrative)
	}
	if result.CharacterHealth != 1 {
		t.Fatalf("expected character health 1, got %d", result.CharacterHealth)
	}
	if store.characters["char1"].Health != 1 {
		t.Fatalf("expected live character patched to 1, got %d", store.characters["char1"].Health)
	}

	last := store.turns["camp1"][0]
	if last.CharacterHealth != 1 || last.CombatState.Player.Health != 1 {
		t.Fatalf("expected last turn snapshot patched, got %+v", last)
	}
	if last.EnemyHealth == nil || *last.EnemyHealth != 50 {
		t.Fatalf("expected enemy health untouched at 50, got %v", last.EnemyHealth)
	}
	if len(store.turns["camp1"]) != 1 {
		t.Fatal("expected no new turn created by cheat")
	}
}

func TestCheatEnemyHealthOne(t *testing.T) {
	store := newFakeStore()
	seedContext(store, 88)
	seedCombatTurn(store, 50, 0)

	eng := testEngine(t, store, &scriptedNarrator{})
	result, err := eng.Act(context.Background(), "camp1", CheatEnemyHealthOne)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.EnemyHealth == nil || *result.EnemyHealth != 1 {
		t.Fatalf("expected enemy health 1, got %v", result.EnemyHealth)
	}
	if store.characters["char1"].Health != 88 {
		t.Fatalf("expected character untouched, got %d", store.characters["char1"].Health)
	}

	last := store.turns["camp1"][0]
	if last.EnemyHealth == nil || *last.EnemyHealth != 1 || last.CombatState.Enemy.Health != 1 {
		t.Fatalf("expected enemy snapshot patched, got %+v", last)
	}
	if last.CharacterHealth != 88 {
		t.Fatalf("expected player snapshot untouched, got %d", last.CharacterHealth)
	}
}

func TestActClampingHolds(t *testing.T) {
	store := newFakeStore()
	seedContext(store, 100)
	seedCombatTurn(store, 50, 0)

	outcome := damageOutcome()
	outcome.Intents = []narrator.Intent{{Type: "heal"}, {Type: "heal"}, {Type: "heal"}}
	eng := testEngine(t, store, &scriptedNarrator{outcome: outcome})

	result, err := eng.Act(context.Background(), "camp1", "rest and recover")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.CharacterHealth < 0 || result.CharacterHealth > 100 {
		t.Fatalf("expected health clamped to [0,100], got %d", result.CharacterHealth)
	}
}
