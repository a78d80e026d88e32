package domain

import (
	"strings"
	"time"

	apperrors "github.com/emberwake/emberwake/internal/errors"
	"github.com/emberwake/emberwake/internal/platform/id"
)

var (
	// ErrEmptyCharacterID indicates a campaign without an owning character.
	ErrEmptyCharacterID = apperrors.New(apperrors.CodeCampaignEmptyCharacterID, "character id is required")

	// ErrCampaignInactive indicates an action against an ended campaign.
	ErrCampaignInactive = apperrors.New(apperrors.CodeCampaignInactive, "campaign is not active")
)

// Campaign groups an ordered turn history for one character.
type Campaign struct {
	ID          string
	CharacterID string
	Title       string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CampaignInput carries the caller-supplied fields for a new campaign.
type CampaignInput struct {
	CharacterID string
	Title       string
}

// NewCampaign validates input and constructs an active campaign.
func NewCampaign(input CampaignInput, now func() time.Time, idGenerator func() (string, error)) (Campaign, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	characterID := strings.TrimSpace(input.CharacterID)
	if characterID == "" {
		return Campaign{}, ErrEmptyCharacterID
	}

	campaignID, err := idGenerator()
	if err != nil {
		return Campaign{}, err
	}

	createdAt := now().UTC()
	return Campaign{
		ID:          campaignID,
		CharacterID: characterID,
		Title:       strings.TrimSpace(input.Title),
		Active:      true,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}, nil
}

// EndCampaign deactivates a campaign. Ending an already ended campaign
// returns ErrCampaignInactive.
func EndCampaign(campaign Campaign, now func() time.Time) (Campaign, error) {
	if now == nil {
		now = time.Now
	}
	if !campaign.Active {
		return Campaign{}, ErrCampaignInactive
	}
	campaign.Active = false
	campaign.UpdatedAt = now().UTC()
	return campaign, nil
}
