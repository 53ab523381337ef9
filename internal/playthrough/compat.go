package playthrough

import (
	"slices"

	"github.com/shinnku-nikaidou/AutoBTD6/internal/data"
)

// downgrades lists the gamemodes a strategy beating the key gamemode also beats.
var downgrades = map[string][]string{
	data.Chimps:           {data.Hard, data.Medium, data.Easy},
	data.Hard:             {data.Medium, data.Easy},
	data.Medium:           {data.Easy},
	data.MagicMonkeysOnly: {data.Hard, data.Medium, data.Easy},
	data.DoubleHPMoabs:    {data.Hard, data.Medium, data.Easy},
	data.HalfCash:         {data.Hard, data.Medium, data.Easy},
	data.Impoppable:       {data.Hard, data.Medium, data.Easy},
	data.MilitaryOnly:     {data.Medium, data.Easy},
	data.PrimaryOnly:      {},
}

// groupModes maps a tower group to its restricted gamemode and the origins
// hard enough to unlock it.
var groupModes = map[string]struct {
	gamemode string
	origins  []string
}{
	data.GroupMagic: {
		gamemode: data.MagicMonkeysOnly,
		origins:  []string{data.Hard, data.DoubleHPMoabs, data.HalfCash, data.Impoppable, data.Chimps},
	},
	data.GroupMilitary: {
		gamemode: data.MilitaryOnly,
		origins:  []string{data.Medium, data.Hard, data.DoubleHPMoabs, data.HalfCash, data.Impoppable, data.Chimps},
	},
	data.GroupPrimary: {
		gamemode: data.PrimaryOnly,
		origins:  []string{data.Easy, data.Medium, data.Hard, data.DoubleHPMoabs, data.HalfCash, data.Impoppable, data.Chimps},
	},
}

// Compatible lists the gamemodes a strategy recorded on origin may be replayed
// on, given the single tower group its units share ("" for none). The origin
// is always last.
func Compatible(origin, group string) []string {
	out := slices.Clone(downgrades[origin])
	if g, ok := groupModes[group]; ok && slices.Contains(g.origins, origin) {
		out = append(out, g.gamemode)
	}
	if !slices.Contains(out, origin) {
		out = append(out, origin)
	}
	return out
}

// SingleGroup returns the tower group shared by every non-hero unit, or ""
// when there are none or they are mixed.
func SingleGroup(units []PlacedUnit, towers data.Towers) string {
	group := ""
	for _, u := range units {
		if u.Hero {
			continue
		}
		t := towers.Monkeys[u.Kind].Type
		if group == "" {
			group = t
		} else if group != t {
			return ""
		}
	}
	return group
}

// CompatibleGamemodes resolves the compatibility set of a parsed script.
func (s *Script) CompatibleGamemodes(towers data.Towers) []string {
	return Compatible(s.Identity.Gamemode, SingleGroup(s.Units, towers))
}
