package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/emberwake/emberwake/internal/core/resolve"
	apperrors "github.com/emberwake/emberwake/internal/errors"
	"github.com/emberwake/emberwake/internal/game/domain"
	"github.com/emberwake/emberwake/internal/game/engine"
	"github.com/emberwake/emberwake/internal/game/storage"
)

// handler serves the JSON API backed by the engine and its store.
type handler struct {
	store  storage.Store
	engine *engine.Engine
}

// NewHandler builds the HTTP handler for the JSON API.
func NewHandler(store storage.Store, eng *engine.Engine) http.Handler {
	h := &handler{store: store, engine: eng}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/characters", h.createCharacter)
	mux.HandleFunc("GET /v1/characters/{id}", h.getCharacter)
	mux.HandleFunc("POST /v1/campaigns", h.createCampaign)
	mux.HandleFunc("GET /v1/campaigns/{id}", h.getCampaign)
	mux.HandleFunc("POST /v1/campaigns/{id}/end", h.endCampaign)
	mux.HandleFunc("POST /v1/campaigns/{id}/actions", h.act)
	mux.HandleFunc("GET /v1/campaigns/{id}/turns", h.listTurns)
	mux.HandleFunc("DELETE /v1/campaigns/{id}/turns", h.clearTurns)
	return mux
}

// Wire payloads. Domain structs stay transport-agnostic; the JSON field
// names are fixed here.

type characterPayload struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Health     int               `json:"health"`
	MaxHealth  int               `json:"max_health"`
	Attributes domain.Attributes `json:"attributes"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func toCharacterPayload(character domain.Character) characterPayload {
	return characterPayload{
		ID:         character.ID,
		Name:       character.Name,
		Health:     character.Health,
		MaxHealth:  character.MaxHealth,
		Attributes: character.Attributes,
		CreatedAt:  character.CreatedAt,
		UpdatedAt:  character.UpdatedAt,
	}
}

type campaignPayload struct {
	ID          string    `json:"id"`
	CharacterID string    `json:"character_id"`
	Title       string    `json:"title"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toCampaignPayload(campaign domain.Campaign) campaignPayload {
	return campaignPayload{
		ID:          campaign.ID,
		CharacterID: campaign.CharacterID,
		Title:       campaign.Title,
		Active:      campaign.Active,
		CreatedAt:   campaign.CreatedAt,
		UpdatedAt:   campaign.UpdatedAt,
	}
}

type turnPayload struct {
	Number           int                 `json:"number"`
	PlayerInput      string              `json:"player_input"`
	Narrative        string              `json:"narrative"`
	Effects          []resolve.Effect    `json:"effects"`
	CharacterHealth  int                 `json:"character_health"`
	EnemyHealth      *int                `json:"enemy_health"`
	CombatState      *domain.CombatState `json:"combat_state"`
	ActiveCombat     bool                `json:"active_combat"`
	Reward           domain.Reward       `json:"enemy_defeated_reward"`
	SuggestedActions []string            `json:"suggested_actions"`
	CreatedAt        time.Time           `json:"created_at"`
}

func toTurnPayload(turn domain.Turn) turnPayload {
	effects := turn.Effects
	if effects == nil {
		effects = []resolve.Effect{}
	}
	suggestions := turn.SuggestedActions
	if suggestions == nil {
		suggestions = []string{}
	}
	return turnPayload{
		Number:           turn.Number,
		PlayerInput:      turn.PlayerInput,
		Narrative:        turn.Narrative,
		Effects:          effects,
		CharacterHealth:  turn.CharacterHealth,
		EnemyHealth:      turn.EnemyHealth,
		CombatState:      turn.CombatState,
		ActiveCombat:     turn.ActiveCombat,
		Reward:           turn.Reward,
		SuggestedActions: suggestions,
		CreatedAt:        turn.CreatedAt,
	}
}

type createCharacterRequest struct {
	Name       string            `json:"name"`
	MaxHealth  int               `json:"max_health"`
	Attributes domain.Attributes `json:"attributes"`
}

func (h *handler) createCharacter(w http.ResponseWriter, r *http.Request) {
	var req createCharacterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperrors.New(apperrors.CodeRequestInvalid, "invalid request body"))
		return
	}

	character, err := domain.NewCharacter(domain.CharacterInput{
		Name:       req.Name,
		MaxHealth:  req.MaxHealth,
		Attributes: req.Attributes,
	}, nil, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.store.PutCharacter(r.Context(), character); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCharacterPayload(character))
}

func (h *handler) getCharacter(w http.ResponseWriter, r *http.Request) {
	character, err := h.store.GetCharacter(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, mapStorageErr(err, "character not found"))
		return
	}
	writeJSON(w, http.StatusOK, toCharacterPayload(character))
}

type createCampaignRequest struct {
	CharacterID string `json:"character_id"`
	Title       string `json:"title"`
}

func (h *handler) createCampaign(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperrors.New(apperrors.CodeRequestInvalid, "invalid request body"))
		return
	}

	campaign, err := domain.NewCampaign(domain.CampaignInput{
		CharacterID: req.CharacterID,
		Title:       req.Title,
	}, nil, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// The owning character must exist before the campaign is created.
	if _, err := h.store.GetCharacter(r.Context(), campaign.CharacterID); err != nil {
		writeError(w, r, mapStorageErr(err, "character not found"))
		return
	}
	if err := h.store.PutCampaign(r.Context(), campaign); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCampaignPayload(campaign))
}

func (h *handler) getCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, err := h.store.GetCampaign(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, mapStorageErr(err, "campaign not found"))
		return
	}
	writeJSON(w, http.StatusOK, toCampaignPayload(campaign))
}

func (h *handler) endCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, err := h.store.GetCampaign(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, mapStorageErr(err, "campaign not found"))
		return
	}

	ended, err := domain.EndCampaign(campaign, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.store.PutCampaign(r.Context(), ended); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCampaignPayload(ended))
}

type actRequest struct {
	ActionText string `json:"action_text"`
}

func (h *handler) act(w http.ResponseWriter, r *http.Request) {
	var req actRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperrors.New(apperrors.CodeRequestInvalid, "invalid request body"))
		return
	}

	result, err := h.engine.Act(r.Context(), r.PathValue("id"), req.ActionText)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) listTurns(w http.ResponseWriter, r *http.Request) {
	campaignID := r.PathValue("id")
	if _, err := h.store.GetCampaign(r.Context(), campaignID); err != nil {
		writeError(w, r, mapStorageErr(err, "campaign not found"))
		return
	}

	turns, err := h.store.ListTurns(r.Context(), campaignID, r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	payload := make([]turnPayload, 0, len(turns))
	for _, turn := range turns {
		payload = append(payload, toTurnPayload(turn))
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *handler) clearTurns(w http.ResponseWriter, r *http.Request) {
	campaignID := r.PathValue("id")
	if _, err := h.store.GetCampaign(r.Context(), campaignID); err != nil {
		writeError(w, r, mapStorageErr(err, "campaign not found"))
		return
	}
	if err := h.store.ClearTurns(r.Context(), campaignID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// mapStorageErr lifts raw storage sentinels into coded errors so they
// localize and map to proper status codes.
func mapStorageErr(err error, message string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.New(apperrors.CodeNotFound, message)
	}
	return err
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := apperrors.HandleError(err, r.Header.Get("Accept-Language"))
	if httpErr.Status >= http.StatusInternalServerError {
		log.Printf("request failed method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, httpErr.Status, httpErr)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}
