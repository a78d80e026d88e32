package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/emberwake/emberwake/internal/core/resolve"
	"github.com/emberwake/emberwake/internal/game/domain"
	"github.com/emberwake/emberwake/internal/game/storage"
)

func encodeEffects(effects []resolve.Effect) (string, error) {
	if len(effects) == 0 {
		return "[]", nil
	}
	encoded, err := json.Marshal(effects)
	if err != nil {
		return "", fmt.Errorf("marshal effects: %w", err)
	}
	return string(encoded), nil
}

func decodeEffects(value string) ([]resolve.Effect, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "[]" {
		return nil, nil
	}
	var effects []resolve.Effect
	if err := json.Unmarshal([]byte(value), &effects); err != nil {
		return nil, fmt.Errorf("unmarshal effects: %w", err)
	}
	return effects, nil
}

func encodeCombatState(state *domain.CombatState) (sql.NullString, error) {
	if state == nil {
		return sql.NullString{}, nil
	}
	encoded, err := json.Marshal(state)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal combat state: %w", err)
	}
	return sql.NullString{String: string(encoded), Valid: true}, nil
}

func decodeCombatState(value sql.NullString) (*domain.CombatState, error) {
	if !value.Valid || strings.TrimSpace(value.String) == "" {
		return nil, nil
	}
	var state domain.CombatState
	if err := json.Unmarshal([]byte(value.String), &state); err != nil {
		return nil, fmt.Errorf("unmarshal combat state: %w", err)
	}
	return &state, nil
}

func encodeReward(reward domain.Reward) (string, error) {
	encoded, err := json.Marshal(reward)
	if err != nil {
		return "", fmt.Errorf("marshal reward: %w", err)
	}
	return string(encoded), nil
}

func decodeReward(value string) (domain.Reward, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "{}" {
		return domain.Reward{}, nil
	}
	var reward domain.Reward
	if err := json.Unmarshal([]byte(value), &reward); err != nil {
		return domain.Reward{}, fmt.Errorf("unmarshal reward: %w", err)
	}
	return reward, nil
}

func encodeSuggestions(actions []string) (string, error) {
	if len(actions) == 0 {
		return "[]", nil
	}
	encoded, err := json.Marshal(actions)
	if err != nil {
		return "", fmt.Errorf("marshal suggested actions: %w", err)
	}
	return string(encoded), nil
}

func decodeSuggestions(value string) ([]string, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "[]" {
		return nil, nil
	}
	var actions []string
	if err := json.Unmarshal([]byte(value), &actions); err != nil {
		return nil, fmt.Errorf("unmarshal suggested actions: %w", err)
	}
	return actions, nil
}

// AppendTurn inserts a turn at the next ordinal. The composite primary
// key on (campaign_id, number) makes a lost-update race surface as a
// constraint violation, reported as storage.ErrConflict.
func (s *Store) AppendTurn(ctx context.Context, turn domain.Turn, expectedCount int) error {
	if turn.Number != expectedCount+1 {
		return storage.ErrConflict
	}

	effects, err := encodeEffects(turn.Effects)
	if err != nil {
		return err
	}
	combatState, err := encodeCombatState(turn.CombatState)
	if err != nil {
		return err
	}
	reward, err := encodeReward(turn.Reward)
	if err != nil {
		return err
	}
	suggestions, err := encodeSuggestions(turn.SuggestedActions)
	if err != nil {
		return err
	}

	var enemyHealth sql.NullInt64
	if turn.EnemyHealth != nil {
		enemyHealth = sql.NullInt64{Int64: int64(*turn.EnemyHealth), Valid: true}
	}
	activeCombat := 0
	if turn.ActiveCombat {
		activeCombat = 1
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO turns (campaign_id, number, player_input, narrative, effects, character_health, enemy_health, combat_state, active_combat, reward, suggested_actions, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		turn.CampaignID,
		turn.Number,
		turn.PlayerInput,
		turn.Narrative,
		effects,
		turn.CharacterHealth,
		enemyHealth,
		combatState,
		activeCombat,
		reward,
		suggestions,
		toMillis(turn.CreatedAt),
	)
	if err != nil {
		if isConstraintError(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("append turn: %w", err)
	}
	return nil
}

// LastTurn returns the highest-numbered turn for the campaign.
func (s *Store) LastTurn(ctx context.Context, campaignID string) (domain.Turn, error) {
	row := s.sqlDB.QueryRowContext(ctx, turnSelect+`
WHERE campaign_id = ?
ORDER BY number DESC
LIMIT 1
`, campaignID)
	return scanTurn(row)
}

// CountTurns reports how many turns the campaign holds.
func (s *Store) CountTurns(ctx context.Context, campaignID string) (int, error) {
	var count int
	row := s.sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM turns WHERE campaign_id = ?", campaignID)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count turns: %w", err)
	}
	return count, nil
}

// ListTurns returns the campaign's turns in order, optionally narrowed
// by an AIP-160 filter expression.
func (s *Store) ListTurns(ctx context.Context, campaignID string, filter string) ([]domain.Turn, error) {
	condition, err := ParseTurnFilter(filter)
	if err != nil {
		return nil, err
	}

	query := turnSelect + "\nWHERE campaign_id = ?"
	params := []any{campaignID}
	if condition.Clause != "" {
		query += " AND " + condition.Clause
		params = append(params, condition.Params...)
	}
	query += "\nORDER BY number ASC"

	rows, err := s.sqlDB.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var turns []domain.Turn
	for rows.Next() {
		turn, err := scanTurn(rows)
		if err != nil {
			return nil, err
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}
	return turns, nil
}

// UpdateTurnSnapshot patches the health snapshot fields of an existing
// turn in place. Reserved for the debug cheat path.
func (s *Store) UpdateTurnSnapshot(ctx context.Context, turn domain.Turn) error {
	combatState, err := encodeCombatState(turn.CombatState)
	if err != nil {
		return err
	}
	var enemyHealth sql.NullInt64
	if turn.EnemyHealth != nil {
		enemyHealth = sql.NullInt64{Int64: int64(*turn.EnemyHealth), Valid: true}
	}
	activeCombat := 0
	if turn.ActiveCombat {
		activeCombat = 1
	}

	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE turns
SET character_health = ?, enemy_health = ?, combat_state = ?, active_combat = ?
WHERE campaign_id = ? AND number = ?
`,
		turn.CharacterHealth,
		enemyHealth,
		combatState,
		activeCombat,
		turn.CampaignID,
		turn.Number,
	)
	if err != nil {
		return fmt.Errorf("update turn snapshot: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update turn snapshot rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ClearTurns removes the campaign's entire turn history.
func (s *Store) ClearTurns(ctx context.Context, campaignID string) error {
	if _, err := s.sqlDB.ExecContext(ctx, "DELETE FROM turns WHERE campaign_id = ?", campaignID); err != nil {
		return fmt.Errorf("clear turns: %w", err)
	}
	return nil
}

const turnSelect = `
SELECT campaign_id, number, player_input, narrative, effects, character_health, enemy_health, combat_state, active_combat, reward, suggested_actions, created_at
FROM turns`

// rowScanner covers both sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTurn(row rowScanner) (domain.Turn, error) {
	var (
		turn         domain.Turn
		effects      string
		enemyHealth  sql.NullInt64
		combatState  sql.NullString
		activeCombat int
		reward       string
		suggestions  string
		createdAt    int64
	)
	err := row.Scan(
		&turn.CampaignID,
		&turn.Number,
		&turn.PlayerInput,
		&turn.Narrative,
		&effects,
		&turn.CharacterHealth,
		&enemyHealth,
		&combatState,
		&activeCombat,
		&reward,
		&suggestions,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Turn{}, storage.ErrNotFound
		}
		return domain.Turn{}, fmt.Errorf("scan turn: %w", err)
	}

	if turn.Effects, err = decodeEffects(effects); err != nil {
		return domain.Turn{}, err
	}
	if enemyHealth.Valid {
		value := int(enemyHealth.Int64)
		turn.EnemyHealth = &value
	}
	if turn.CombatState, err = decodeCombatState(combatState); err != nil {
		return domain.Turn{}, err
	}
	turn.ActiveCombat = activeCombat != 0
	if turn.Reward, err = decodeReward(reward); err != nil {
		return domain.Turn{}, err
	}
	if turn.SuggestedActions, err = decodeSuggestions(suggestions); err != nil {
		return domain.Turn{}, err
	}
	turn.CreatedAt = fromMillis(createdAt)
	return turn, nil
}

func isConstraintError(err error) bool {
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "constraint")
}
