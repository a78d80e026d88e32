package narrator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/emberwake/emberwake/internal/game/domain"
)

// systemPrompt instructs the generator on its role and response schema.
// Effects carry a type only; the backend decides targets and values.
const systemPrompt = `You narrate a grim low-fantasy adventure, one turn at a time.
Respond with a single JSON object and nothing else, using this schema:
{
  "narrative": "second-person prose describing what happens this turn",
  "effects": [{"type": "damage"}] or [{"type": "heal"}] or [],
  "chosen_attribute": "strength" | "dexterity" | "intelligence" | "charisma",
  "combat_state": the combat object you were given, or null,
  "enemy_health": remaining enemy health as an integer, or null,
  "active_combat": true when the fight continues, false otherwise,
  "reward": {"experience": 0, "loot": []},
  "suggested_actions": ["two or three short next actions"]
}
Do not invent damage numbers or decide who is hit; the game engine does that.
Return {} if the action has no mechanical consequence.`

// BuildMessages renders the user payload for one narration call.
func BuildMessages(req Request) (system string, user string, err error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Character: %s\n", req.CharacterName)
	fmt.Fprintf(&sb, "Action: %s\n", req.ActionText)

	if req.CombatState != nil {
		encoded, err := json.Marshal(req.CombatState)
		if err != nil {
			return "", "", fmt.Errorf("marshal combat state: %w", err)
		}
		fmt.Fprintf(&sb, "Combat state: %s\n", encoded)
	} else {
		sb.WriteString("Combat state: none\n")
	}

	if req.History != "" {
		fmt.Fprintf(&sb, "\nRecent turns:\n%s\n", req.History)
	}
	if len(req.RecalledContext) > 0 {
		sb.WriteString("\nEarlier events that may be relevant:\n")
		for _, entry := range req.RecalledContext {
			fmt.Fprintf(&sb, "- %s\n", entry)
		}
	}

	return systemPrompt, sb.String(), nil
}

// historyWindow caps how many recent turns are formatted into the prompt.
const historyWindow = 5

// FormatHistory renders the most recent turns oldest-first for the
// prompt's context block.
func FormatHistory(turns []domain.Turn) string {
	if len(turns) == 0 {
		return ""
	}
	start := 0
	if len(turns) > historyWindow {
		start = len(turns) - historyWindow
	}

	var sb strings.Builder
	for _, turn := range turns[start:] {
		fmt.Fprintf(&sb, "Turn %d - player: %s\n", turn.Number, turn.PlayerInput)
		fmt.Fprintf(&sb, "Turn %d - outcome: %s\n", turn.Number, turn.Narrative)
	}
	return strings.TrimRight(sb.String(), "\n")
}
