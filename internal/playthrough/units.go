package playthrough

import "fmt"

// UpgradeRequirements returns, per tower kind, the highest level reached on
// each path by any unit of that kind. Heroes are ignored.
func UpgradeRequirements(units []PlacedUnit) map[string][pathCount]int {
	out := make(map[string][pathCount]int)
	for _, u := range units {
		if u.Hero {
			continue
		}
		req := out[u.Kind]
		for i, lvl := range u.Upgrades {
			req[i] = max(req[i], lvl)
		}
		out[u.Kind] = req
	}
	return out
}

// SingleKind returns the tower kind shared by every non-hero unit, or "".
func SingleKind(units []PlacedUnit) string {
	kind := ""
	for _, u := range units {
		if u.Hero {
			continue
		}
		if kind == "" {
			kind = u.Kind
		} else if kind != u.Kind {
			return ""
		}
	}
	return kind
}

// UpgradeString renders path levels the way players write them, e.g. "0-2-4".
func UpgradeString(levels [pathCount]int) string {
	return fmt.Sprintf("%d-%d-%d", levels[0], levels[1], levels[2])
}
