// Package storage defines the persistence contracts for game records.
package storage

import (
	"context"
	"errors"

	"github.com/emberwake/emberwake/internal/game/domain"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict indicates a write lost an append race.
	ErrConflict = errors.New("record conflict")
)

// CharacterStore persists playable characters.
type CharacterStore interface {
	PutCharacter(ctx context.Context, character domain.Character) error
	GetCharacter(ctx context.Context, id string) (domain.Character, error)
}

// CampaignStore persists campaigns.
type CampaignStore interface {
	PutCampaign(ctx context.Context, campaign domain.Campaign) error
	GetCampaign(ctx context.Context, id string) (domain.Campaign, error)
}

// TurnStore persists the append-only turn history of a campaign.
type TurnStore interface {
	// AppendTurn inserts a turn whose number must be expectedCount+1.
	// A concurrent append that already claimed that number surfaces as
	// ErrConflict, so continuity decisions stay anchored to a stable
	// view of the last turn.
	AppendTurn(ctx context.Context, turn domain.Turn, expectedCount int) error

	// LastTurn returns the highest-numbered turn of the campaign, or
	// ErrNotFound when the campaign has no history yet.
	LastTurn(ctx context.Context, campaignID string) (domain.Turn, error)

	// CountTurns reports how many turns the campaign holds.
	CountTurns(ctx context.Context, campaignID string) (int, error)

	// ListTurns returns the campaign's turns in order, optionally
	// narrowed by an AIP-160 filter expression.
	ListTurns(ctx context.Context, campaignID string, filter string) ([]domain.Turn, error)

	// UpdateTurnSnapshot patches health fields on an existing turn in
	// place. Reserved for the debug cheat path; ordinary turns are
	// immutable once appended.
	UpdateTurnSnapshot(ctx context.Context, turn domain.Turn) error

	// ClearTurns removes the campaign's entire turn history.
	ClearTurns(ctx context.Context, campaignID string) error
}

// Store combines all game persistence contracts.
type Store interface {
	CharacterStore
	CampaignStore
	TurnStore
}
