package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/emberwake/emberwake/internal/game/domain"
	"github.com/emberwake/emberwake/internal/game/storage"
)

// PutCampaign inserts or replaces a campaign record.
func (s *Store) PutCampaign(ctx context.Context, campaign domain.Campaign) error {
	active := 0
	if campaign.Active {
		active = 1
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO campaigns (id, character_id, title, active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    character_id = excluded.character_id,
    title = excluded.title,
    active = excluded.active,
    updated_at = excluded.updated_at
`,
		campaign.ID,
		campaign.CharacterID,
		campaign.Title,
		active,
		toMillis(campaign.CreatedAt),
		toMillis(campaign.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put campaign: %w", err)
	}
	return nil
}

// GetCampaign fetches a campaign by id.
func (s *Store) GetCampaign(ctx context.Context, id string) (domain.Campaign, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, character_id, title, active, created_at, updated_at
FROM campaigns WHERE id = ?
`, id)

	var (
		campaign  domain.Campaign
		active    int
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(
		&campaign.ID,
		&campaign.CharacterID,
		&campaign.Title,
		&active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Campaign{}, storage.ErrNotFound
		}
		return domain.Campaign{}, fmt.Errorf("get campaign: %w", err)
	}
	campaign.Active = active != 0
	campaign.CreatedAt = fromMillis(createdAt)
	campaign.UpdatedAt = fromMillis(updatedAt)
	return campaign, nil
}
