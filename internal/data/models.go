package data

import "sort"

// Map describes a playable map from the static map table.
type Map struct {
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`
	Page     int    `json:"page" yaml:"page"`
	Pos      int    `json:"pos" yaml:"pos"`
}

// Gamemode describes a ruleset: the difficulty it prices at, its selection
// value and the cash tier its rewards are paid from.
type Gamemode struct {
	Group     string `json:"group" yaml:"group"`
	Value     int    `json:"value" yaml:"value"`
	CashGroup string `json:"cash_group" yaml:"cash_group"`
	Sandbox   bool   `json:"sandbox" yaml:"sandbox"`
}

// Tower is the static definition of a placeable, upgradeable tower kind.
type Tower struct {
	// Type is the tower group: primary, military, magic or support.
	Type string `json:"type" yaml:"type"`
	Base int    `json:"base" yaml:"base"`
	// Upgrades holds base costs indexed by [path][level-1].
	Upgrades [][]int `json:"upgrades" yaml:"upgrades"`
	// UpgradeConfirmation marks [path][level-1] upgrades that pop a confirmation dialog.
	UpgradeConfirmation [][]bool `json:"upgrade_confirmation" yaml:"upgrade_confirmation"`
	// RetargetPosition is set for towers that can only be retargeted to a position.
	RetargetPosition bool `json:"retarget_position" yaml:"retarget_position"`
	// LineOfDefense is set for towers whose first placement is discounted by
	// the first/last line of defense unlock.
	LineOfDefense bool `json:"line_of_defense" yaml:"line_of_defense"`
}

// UpgradeCost returns the base cost of reaching level on path.
func (t Tower) UpgradeCost(path, level int) (int, bool) {
	if path < 0 || path >= len(t.Upgrades) || level < 1 || level > len(t.Upgrades[path]) {
		return 0, false
	}
	return t.Upgrades[path][level-1], true
}

// ConfirmsUpgrade reports whether the table flags reaching level on path as needing confirmation.
func (t Tower) ConfirmsUpgrade(path, level int) bool {
	if path < 0 || path >= len(t.UpgradeConfirmation) || level < 1 || level > len(t.UpgradeConfirmation[path]) {
		return false
	}
	return t.UpgradeConfirmation[path][level-1]
}

// Hero is the static definition of a hero.
type Hero struct {
	Base int `json:"base" yaml:"base"`
}

// Towers groups the tower and hero tables.
type Towers struct {
	Monkeys map[string]Tower `json:"monkeys" yaml:"monkeys"`
	Heroes  map[string]Hero  `json:"heros" yaml:"heros"`
}

// Keybinds maps tower kinds, upgrade paths and other actions to game hotkeys.
type Keybinds struct {
	Monkeys map[string]string `json:"monkeys" yaml:"monkeys"`
	Path    map[string]string `json:"path" yaml:"path"`
	Others  map[string]string `json:"others" yaml:"others"`
}

// Tables is the read-only snapshot of every static table.
type Tables struct {
	Maps      map[string]Map
	Gamemodes map[string]Gamemode
	Towers    Towers
	Keybinds  Keybinds
}

// Category returns the category of a map, or "" when the map is unknown.
func (t *Tables) Category(mapName string) string {
	return t.Maps[mapName].Category
}

// GamemodeValue returns the selection value of a gamemode.
func (t *Tables) GamemodeValue(gamemode string) int {
	return t.Gamemodes[gamemode].Value
}

// MapsByCategory returns map names grouped by category, sorted by page and position.
func (t *Tables) MapsByCategory() map[string][]string {
	out := make(map[string][]string)
	for name, m := range t.Maps {
		out[m.Category] = append(out[m.Category], name)
	}
	for category, names := range out {
		sort.Slice(names, func(i, j int) bool {
			a, b := t.Maps[names[i]], t.Maps[names[j]]
			if a.Page != b.Page {
				return a.Page < b.Page
			}
			if a.Pos != b.Pos {
				return a.Pos < b.Pos
			}
			return names[i] < names[j]
		})
		out[category] = names
	}
	return out
}

// User is the player's unlock state. It is read-only input.
type User struct {
	MonkeyKnowledge map[string]bool            `json:"monkey_knowledge" yaml:"monkey_knowledge"`
	Heroes          map[string]bool            `json:"heros" yaml:"heros"`
	UnlockedMaps    map[string]bool            `json:"unlocked_maps" yaml:"unlocked_maps"`
	Medals          map[string]map[string]bool `json:"medals" yaml:"medals"`
	// MonkeyKnowledgeEnabled is the runtime switch; unlocks only count while it is on.
	MonkeyKnowledgeEnabled bool `json:"-" yaml:"-"`
}

// Has reports whether a Monkey Knowledge unlock is both owned and currently enabled.
func (u *User) Has(unlock string) bool {
	if u == nil || !u.MonkeyKnowledgeEnabled {
		return false
	}
	return u.MonkeyKnowledge[unlock]
}

// Medal reports whether the user holds the medal for gamemode on mapName.
func (u *User) Medal(mapName, gamemode string) bool {
	if u == nil {
		return false
	}
	return u.Medals[mapName][gamemode]
}
