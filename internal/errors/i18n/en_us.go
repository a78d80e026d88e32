package i18n

// Error codes must match the codes defined in internal/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeCharacterEmptyName        = "CHARACTER_EMPTY_NAME"
	CodeCharacterInvalidMaxHealth = "CHARACTER_INVALID_MAX_HEALTH"
	CodeCharacterInvalidAttribute = "CHARACTER_INVALID_ATTRIBUTE"
	CodeCampaignEmptyCharacterID  = "CAMPAIGN_EMPTY_CHARACTER_ID"
	CodeCampaignInactive          = "CAMPAIGN_INACTIVE"
	CodeActionEmptyText           = "ACTION_EMPTY_TEXT"
	CodeNotFound                  = "NOT_FOUND"
	CodeTurnConflict              = "TURN_CONFLICT"
	CodeFilterInvalid             = "FILTER_INVALID"
	CodeRequestInvalid            = "REQUEST_INVALID"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		// Character errors
		CodeCharacterEmptyName:        "Character name cannot be empty",
		CodeCharacterInvalidMaxHealth: "Maximum health must be at least 1",
		CodeCharacterInvalidAttribute: "Unknown attribute: {{.Attribute}}",

		// Campaign errors
		CodeCampaignEmptyCharacterID: "Character ID is required for campaign",
		CodeCampaignInactive:         "This campaign has already ended",

		// Action errors
		CodeActionEmptyText: "Action text cannot be empty",

		// Storage errors
		CodeNotFound:     "The requested resource was not found",
		CodeTurnConflict: "Another action finished first, try again",

		// Listing errors
		CodeFilterInvalid: "Invalid filter expression",

		// Transport errors
		CodeRequestInvalid: "The request body could not be parsed",
	},
}
