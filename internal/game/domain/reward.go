package domain

// Reward is the spoils granted when an enemy is defeated.
type Reward struct {
	Experience int      `json:"experience"`
	Loot       []string `json:"loot"`
}

// IsEmpty reports whether the reward grants nothing.
func (r Reward) IsEmpty() bool {
	return r.Experience == 0 && len(r.Loot) == 0
}
