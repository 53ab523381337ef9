package rules

// EntryVars are the facts about a catalog entry exposed to expressions as `entry`.
type EntryVars struct {
	Filename   string
	Map        string
	Category   string
	Gamemode   string
	Origin     string
	Original   bool
	Resolution string
	Flags      map[string]bool
	Value      int
}

// StatsVars are the ledger facts exposed as `stats`.
type StatsVars struct {
	Attempts    int
	Wins        int
	AverageTime float64
	// Validated is nil while the entry has never been validated.
	Validated *bool
}
