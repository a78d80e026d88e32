// Package history ranks past turns for prompt enrichment.
//
// Recall gives the narrator longer-range context than the recent-turn
// window. It is purely additive: recalled text never feeds state
// decisions.
package history

import (
	"fmt"
	"sort"
	"strings"

	"github.com/emberwake/emberwake/internal/game/domain"
)

// stopwords are ignored when scoring keyword overlap.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "at": true, "i": true,
	"in": true, "is": true, "it": true, "my": true, "of": true,
	"on": true, "the": true, "to": true, "with": true, "you": true,
}

// Recall returns up to limit summaries of past turns ranked by keyword
// overlap with the query. Turns with no overlap are omitted; summaries
// come back in campaign order.
func Recall(turns []domain.Turn, query string, limit int) []string {
	if limit <= 0 || len(turns) == 0 {
		return nil
	}

	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}

	type scored struct {
		turn  domain.Turn
		score int
	}
	var candidates []scored
	for _, turn := range turns {
		overlap := 0
		turnTokens := tokenize(turn.PlayerInput + " " + turn.Narrative)
		for token := range queryTokens {
			if turnTokens[token] {
				overlap++
			}
		}
		if overlap > 0 {
			candidates = append(candidates, scored{turn: turn, score: overlap})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	// Higher overlap first; more recent turns break ties.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].turn.Number > candidates[j].turn.Number
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].turn.Number < candidates[j].turn.Number
	})

	summaries := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		summaries = append(summaries, fmt.Sprintf("Turn %d: %s", candidate.turn.Number, candidate.turn.Narrative))
	}
	return summaries
}

func tokenize(text string) map[string]bool {
	tokens := map[string]bool{}
	for _, field := range strings.Fields(strings.ToLower(text)) {
		field = strings.Trim(field, ".,!?;:\"'()[]")
		if len(field) < 2 || stopwords[field] {
			continue
		}
		tokens[field] = true
	}
	return tokens
}
