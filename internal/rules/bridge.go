package rules

// BuildEvalContext creates the activation for an entry expression.
func BuildEvalContext(entry EntryVars, stats StatsVars) map[string]any {
	flags := make(map[string]any, len(entry.Flags))
	for k, v := range entry.Flags {
		flags[k] = v
	}

	// Ensure critical keys always exist to avoid CEL "no such key" errors
	validation := "unset"
	if stats.Validated != nil {
		validation = "invalid"
		if *stats.Validated {
			validation = "valid"
		}
	}

	return map[string]any{
		"entry": map[string]any{
			"filename":   entry.Filename,
			"map":        entry.Map,
			"category":   entry.Category,
			"gamemode":   entry.Gamemode,
			"origin":     entry.Origin,
			"original":   entry.Original,
			"resolution": entry.Resolution,
			"flags":      flags,
			"value":      entry.Value,
		},
		"stats": map[string]any{
			"attempts":     stats.Attempts,
			"wins":         stats.Wins,
			"average_time": stats.AverageTime,
			"validation":   validation,
		},
	}
}
