package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/emberwake/emberwake/internal/game/domain"
	"github.com/emberwake/emberwake/internal/game/storage"
)

// PutCharacter inserts or replaces a character record.
func (s *Store) PutCharacter(ctx context.Context, character domain.Character) error {
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO characters (id, name, health, max_health, strength, dexterity, intelligence, charisma, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    name = excluded.name,
    health = excluded.health,
    max_health = excluded.max_health,
    strength = excluded.strength,
    dexterity = excluded.dexterity,
    intelligence = excluded.intelligence,
    charisma = excluded.charisma,
    updated_at = excluded.updated_at
`,
		character.ID,
		character.Name,
		character.Health,
		character.MaxHealth,
		character.Attributes.Strength,
		character.Attributes.Dexterity,
		character.Attributes.Intelligence,
		character.Attributes.Charisma,
		toMillis(character.CreatedAt),
		toMillis(character.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put character: %w", err)
	}
	return nil
}

// GetCharacter fetches a character by id.
func (s *Store) GetCharacter(ctx context.Context, id string) (domain.Character, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, health, max_health, strength, dexterity, intelligence, charisma, created_at, updated_at
FROM characters WHERE id = ?
`, id)

	var (
		character domain.Character
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(
		&character.ID,
		&character.Name,
		&character.Health,
		&character.MaxHealth,
		&character.Attributes.Strength,
		&character.Attributes.Dexterity,
		&character.Attributes.Intelligence,
		&character.Attributes.Charisma,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Character{}, storage.ErrNotFound
		}
		return domain.Character{}, fmt.Errorf("get character: %w", err)
	}
	character.CreatedAt = fromMillis(createdAt)
	character.UpdatedAt = fromMillis(updatedAt)
	return character, nil
}
