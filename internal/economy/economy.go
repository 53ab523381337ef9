// Package economy prices placements and upgrades under difficulty, gamemode,
// discount and Monkey Knowledge rules.
package economy

import (
	"math"

	"github.com/shinnku-nikaidou/AutoBTD6/internal/data"
)

// Monkey Knowledge unlocks that change prices.
const (
	HeroFavors             = "hero_favors"
	FirstLastLineOfDefense = "first_last_line_of_defense"
)

const (
	lineOfDefenseReduction = 150
	heroFavorsFactor       = 0.9
	impoppableFactor       = 1.2
	sellRatio              = 0.7
	// ParagonLevel is the path level at which every upgrade asks for confirmation.
	ParagonLevel = 5
)

var difficultyFactors = map[string]float64{
	data.Easy:   0.85,
	data.Medium: 1.00,
	data.Hard:   1.08,
}

// Operation is the kind of purchase being priced.
type Operation int

const (
	OpPlace Operation = iota
	OpUpgrade
)

// Unit carries the facts about the purchasing unit that pricing depends on.
type Unit struct {
	Hero bool
	// FirstOfKind is set when no other unit of the same kind was placed before.
	FirstOfKind bool
	// LineOfDefense mirrors data.Tower.LineOfDefense for the unit's kind.
	LineOfDefense bool
}

// Unlocks reports whether a Monkey Knowledge unlock is currently held.
type Unlocks interface {
	Has(unlock string) bool
}

// Model prices purchases against the user's unlocks.
type Model struct {
	unlocks Unlocks
}

// NewModel returns a Model. A nil unlocks means nothing is held.
func NewModel(unlocks Unlocks) *Model {
	return &Model{unlocks: unlocks}
}

func (m *Model) has(unlock string) bool {
	return m.unlocks != nil && m.unlocks.Has(unlock)
}

// Price returns the in-game cost of a purchase. The result before the flat
// reduction is always a multiple of 5.
func (m *Model) Price(base int, difficulty, gamemode string, op Operation, unit Unit, discountPercent int) int {
	factor, ok := difficultyFactors[difficulty]
	if !ok {
		factor = 1
	}
	if data.IsImpoppableClass(gamemode) {
		factor = impoppableFactor
	}

	discount := float64(clamp(discountPercent, 0, 100)) / 100
	bonus := 1.0
	reduction := 0

	if !data.IsChimpsClass(gamemode) && op == OpPlace {
		if unit.Hero && m.has(HeroFavors) {
			bonus = heroFavorsFactor
		}
		if unit.LineOfDefense && unit.FirstOfKind && m.has(FirstLastLineOfDefense) {
			reduction += lineOfDefenseReduction
		}
	}

	raw := float64(base) * (1 - discount) * factor * bonus
	return RoundTo5(raw) - reduction
}

// RoundTo5 rounds to the nearest multiple of 5, halves to even.
func RoundTo5(v float64) int {
	return int(math.RoundToEven(v/5)) * 5
}

// SellValue is the refund for selling a unit that cost spend in total.
func SellValue(spend int) int {
	return int(math.RoundToEven(float64(spend) * sellRatio))
}

// RequiresConfirmation reports whether reaching level on path pops a
// confirmation dialog. Placement (level 0) never does.
func RequiresConfirmation(tower data.Tower, path, level int) bool {
	if level <= 0 {
		return false
	}
	if level >= ParagonLevel {
		return true
	}
	return tower.ConfirmsUpgrade(path, level)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
