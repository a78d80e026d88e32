// Package content loads reward tuning from embedded Lua scripts.
//
// Keeping loot tables in Lua lets designers adjust drops without
// touching Go code.
package content

import (
	"embed"
	"fmt"
	"math/rand"

	lua "github.com/Shopify/go-lua"

	"github.com/emberwake/emberwake/internal/game/domain"
)

//go:embed scripts/*.lua
var scriptFS embed.FS

const lootScript = "scripts/loot.lua"

// Tables holds the reward tuning parsed from the loot script.
type Tables struct {
	ExperienceMin int
	ExperienceMax int
	LootRollsMin  int
	LootRollsMax  int
	Loot          []string
}

// LoadTables evaluates the embedded loot script and extracts its tables.
func LoadTables() (Tables, error) {
	script, err := scriptFS.ReadFile(lootScript)
	if err != nil {
		return Tables{}, fmt.Errorf("read loot script: %w", err)
	}

	state := lua.NewState()
	lua.OpenLibraries(state)

	if err := lua.DoString(state, string(script)); err != nil {
		return Tables{}, fmt.Errorf("eval loot script: %w", err)
	}

	tables := Tables{}
	tables.ExperienceMin, tables.ExperienceMax, err = readRange(state, "experience")
	if err != nil {
		return Tables{}, err
	}
	tables.LootRollsMin, tables.LootRollsMax, err = readRange(state, "loot_rolls")
	if err != nil {
		return Tables{}, err
	}
	tables.Loot, err = readStrings(state, "loot")
	if err != nil {
		return Tables{}, err
	}

	if tables.ExperienceMin < 1 || tables.ExperienceMax < tables.ExperienceMin {
		return Tables{}, fmt.Errorf("loot script: invalid experience range [%d,%d]", tables.ExperienceMin, tables.ExperienceMax)
	}
	if tables.LootRollsMin < 1 || tables.LootRollsMax < tables.LootRollsMin {
		return Tables{}, fmt.Errorf("loot script: invalid loot_rolls range [%d,%d]", tables.LootRollsMin, tables.LootRollsMax)
	}
	if len(tables.Loot) == 0 {
		return Tables{}, fmt.Errorf("loot script: loot table is empty")
	}

	return tables, nil
}

// DefeatReward draws a reward for a defeated enemy. The result always
// grants experience and at least one loot item.
func (t Tables) DefeatReward(rng *rand.Rand) domain.Reward {
	reward := domain.Reward{Experience: t.ExperienceMin}
	if rng == nil {
		if len(t.Loot) > 0 {
			reward.Loot = []string{t.Loot[0]}
		}
		return reward
	}

	if t.ExperienceMax > t.ExperienceMin {
		reward.Experience = t.ExperienceMin + rng.Intn(t.ExperienceMax-t.ExperienceMin+1)
	}

	rolls := t.LootRollsMin
	if t.LootRollsMax > t.LootRollsMin {
		rolls = t.LootRollsMin + rng.Intn(t.LootRollsMax-t.LootRollsMin+1)
	}
	for i := 0; i < rolls && len(t.Loot) > 0; i++ {
		reward.Loot = append(reward.Loot, t.Loot[rng.Intn(len(t.Loot))])
	}

	return reward
}

// readRange extracts {min, max} integer fields from a global table.
func readRange(state *lua.State, name string) (int, int, error) {
	state.Global(name)
	defer state.Pop(1)
	if state.TypeOf(-1) != lua.TypeTable {
		return 0, 0, fmt.Errorf("loot script: global %q is not a table", name)
	}

	min, err := readIntField(state, name, "min")
	if err != nil {
		return 0, 0, err
	}
	max, err := readIntField(state, name, "max")
	if err != nil {
		return 0, 0, err
	}
	return min, max, nil
}

func readIntField(state *lua.State, table, field string) (int, error) {
	state.Field(-1, field)
	defer state.Pop(1)
	value, ok := state.ToInteger(-1)
	if !ok {
		return 0, fmt.Errorf("loot script: %s.%s is not an integer", table, field)
	}
	return value, nil
}

// readStrings extracts a global array-style table of strings.
func readStrings(state *lua.State, name string) ([]string, error) {
	state.Global(name)
	defer state.Pop(1)
	if state.TypeOf(-1) != lua.TypeTable {
		return nil, fmt.Errorf("loot script: global %q is not a table", name)
	}

	tableIndex := state.AbsIndex(-1)
	var values []string
	for i := 1; ; i++ {
		state.RawGetInt(tableIndex, i)
		if state.TypeOf(-1) == lua.TypeNil {
			state.Pop(1)
			break
		}
		value, ok := state.ToString(-1)
		state.Pop(1)
		if !ok {
			return nil, fmt.Errorf("loot script: %s[%d] is not a string", name, i)
		}
		values = append(values, value)
	}
	return values, nil
}
