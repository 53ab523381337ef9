package stats

import "github.com/shinnku-nikaidou/AutoBTD6/internal/data"

// RoundTotalXP is the base XP earned by playing every round up to and including round.
// Each round pays 20 more than the last up to round 20, 40 more up to round
// 50 and 90 more after that.
func RoundTotalXP(round int) float64 {
	if round < 0 {
		return 0
	}
	tri := func(n int) int { return (n*n + n) / 2 }

	a := min(round+1, 21)
	xp := tri(a) * 20
	if round > 20 {
		b := min(round-20, 30)
		xp += b*21*20 + tri(b)*40
		if round > 50 {
			c := min(round-50, 50)
			xp += c*(21*20+30*40) + tri(c)*90
		}
	}
	return float64(xp)
}

// round ranges played per gamemode: [start, end]
var xpRounds = map[string][2]int{
	data.Easy:                  {0, 40},
	data.PrimaryOnly:           {0, 40},
	data.Deflation:             {30, 60},
	data.Medium:                {0, 60},
	data.MilitaryOnly:          {0, 60},
	data.Reverse:               {0, 60},
	data.Apopalypse:            {0, 60},
	data.Hard:                  {2, 80},
	data.MagicMonkeysOnly:      {2, 80},
	data.DoubleHPMoabs:         {2, 80},
	data.HalfCash:              {2, 80},
	data.AlternateBloonsRounds: {2, 80},
	data.Impoppable:            {5, 100},
	data.Chimps:                {5, 100},
}

var categoryXPFactor = map[string]float64{
	"beginner":     1.0,
	"intermediate": 1.1,
	"advanced":     1.2,
	"expert":       1.3,
}

// XP is the experience awarded for beating gamemode on a map of category.
func XP(gamemode, category string) float64 {
	rounds, ok := xpRounds[gamemode]
	if !ok {
		return 0
	}
	xp := RoundTotalXP(rounds[1]) - RoundTotalXP(rounds[0])
	if f, ok := categoryXPFactor[category]; ok {
		xp *= f
	}
	return xp
}

// replay Monkey Money by cash group, then map category
var cashTable = map[string]map[string]int{
	"easy":       {"beginner": 15, "intermediate": 30, "advanced": 45, "expert": 60},
	"medium":     {"beginner": 25, "intermediate": 50, "advanced": 75, "expert": 100},
	"hard":       {"beginner": 40, "intermediate": 80, "advanced": 120, "expert": 160},
	"impoppable": {"beginner": 60, "intermediate": 120, "advanced": 180, "expert": 240},
}

// Cash is the Monkey Money awarded for replaying a map of category in a
// gamemode paying from cashGroup.
func Cash(cashGroup, category string) int {
	return cashTable[cashGroup][category]
}

// PerHour scales a per-run reward to an hourly rate. It is 0 without timing data.
func PerHour(reward, averageSeconds float64) float64 {
	if averageSeconds <= 0 {
		return 0
	}
	return 3600 / averageSeconds * reward
}
