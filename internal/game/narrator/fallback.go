package narrator

// FallbackNarrative is the safe prose used when the generator fails.
const FallbackNarrative = "The moment passes without a clear outcome. You steady yourself, ready to try again."

// Fallback returns the safe outcome used when the generator is
// unavailable or returns an unusable response: no effects, combat
// cleared, empty reward and suggestions. The turn always completes.
func Fallback() Outcome {
	return Outcome{
		Narrative:        FallbackNarrative,
		Intents:          nil,
		ActiveCombat:     false,
		SuggestedActions: []string{},
	}
}
