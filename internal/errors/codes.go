// Package errors provides structured error handling with i18n support.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Character errors
	CodeCharacterEmptyName        Code = "CHARACTER_EMPTY_NAME"
	CodeCharacterInvalidMaxHealth Code = "CHARACTER_INVALID_MAX_HEALTH"
	CodeCharacterInvalidAttribute Code = "CHARACTER_INVALID_ATTRIBUTE"

	// Campaign errors
	CodeCampaignEmptyCharacterID Code = "CAMPAIGN_EMPTY_CHARACTER_ID"
	CodeCampaignInactive         Code = "CAMPAIGN_INACTIVE"

	// Action errors
	CodeActionEmptyText Code = "ACTION_EMPTY_TEXT"

	// Storage errors
	CodeNotFound     Code = "NOT_FOUND"
	CodeTurnConflict Code = "TURN_CONFLICT"

	// Listing errors
	CodeFilterInvalid Code = "FILTER_INVALID"

	// Transport errors
	CodeRequestInvalid Code = "REQUEST_INVALID"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input
	case CodeCharacterEmptyName,
		CodeCharacterInvalidMaxHealth,
		CodeCharacterInvalidAttribute,
		CodeCampaignEmptyCharacterID,
		CodeActionEmptyText,
		CodeFilterInvalid,
		CodeRequestInvalid:
		return http.StatusBadRequest

	// Conflict - state doesn't allow operation
	case CodeCampaignInactive,
		CodeTurnConflict:
		return http.StatusConflict

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}
