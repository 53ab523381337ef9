package playthrough

import (
	"fmt"

	"github.com/shinnku-nikaidou/AutoBTD6/internal/position"
)

// Click targets for synthetic confirmation steps.
const (
	TargetGamemodeDialog = "gamemode_deflation_message_confirmation"
	TargetParagonDialog  = "paragon_message_confirmation"
)

// Action is one step of a script. The concrete types are Place, Upgrade,
// Retarget, Special, Sell, RemoveObstacle, AwaitRound, SetSpeed and
// ClickConfirm.
type Action interface {
	// Kind is the instruction keyword, or "click" for ClickConfirm.
	Kind() string
	// Cost is the in-game price of the step. Sells are negative.
	Cost() int
	String() string
}

// Place puts a tower or hero on the map.
type Place struct {
	Unit int
	Name string
	// Type is the tower kind, or the hero name when Hero is set.
	Type     string
	Hero     bool
	Key      string
	Pos      position.Point
	Discount *int
	Price    int
}

func (a Place) Kind() string { return "place" }
func (a Place) Cost() int    { return a.Price }
func (a Place) String() string {
	return fmt.Sprintf("place %s %s at %s (%d)", a.Type, a.Name, a.Pos, a.Price)
}

// Upgrade buys the next tier on one path.
type Upgrade struct {
	Unit     int
	Name     string
	Key      string
	Pos      position.Point
	Path     int
	Level    int
	Discount *int
	Price    int
}

func (a Upgrade) Kind() string { return "upgrade" }
func (a Upgrade) Cost() int    { return a.Price }
func (a Upgrade) String() string {
	return fmt.Sprintf("upgrade %s path %d to %d (%d)", a.Name, a.Path, a.Level, a.Price)
}

// Retarget cycles the targeting priority, or aims at To when set.
type Retarget struct {
	Unit int
	Name string
	Key  string
	Pos  position.Point
	To   *position.Point
}

func (a Retarget) Kind() string { return "retarget" }
func (a Retarget) Cost() int    { return 0 }
func (a Retarget) String() string {
	if a.To != nil {
		return fmt.Sprintf("retarget %s to %s", a.Name, *a.To)
	}
	return "retarget " + a.Name
}

// Special triggers a unit's special ability.
type Special struct {
	Unit int
	Name string
	Key  string
	Pos  position.Point
}

func (a Special) Kind() string   { return "special" }
func (a Special) Cost() int      { return 0 }
func (a Special) String() string { return "special " + a.Name }

// Sell removes a unit and refunds part of its spend.
type Sell struct {
	Unit   int
	Name   string
	Key    string
	Pos    position.Point
	Refund int
}

func (a Sell) Kind() string { return "sell" }
func (a Sell) Cost() int    { return -a.Refund }
func (a Sell) String() string {
	return fmt.Sprintf("sell %s (+%d)", a.Name, a.Refund)
}

// RemoveObstacle clears a map obstacle for a fixed price.
type RemoveObstacle struct {
	Pos   position.Point
	Price int
}

func (a RemoveObstacle) Kind() string { return "remove" }
func (a RemoveObstacle) Cost() int    { return a.Price }
func (a RemoveObstacle) String() string {
	return fmt.Sprintf("remove obstacle at %s (%d)", a.Pos, a.Price)
}

// AwaitRound waits until Round has started.
type AwaitRound struct {
	Round int
}

func (a AwaitRound) Kind() string   { return "round" }
func (a AwaitRound) Cost() int      { return 0 }
func (a AwaitRound) String() string { return fmt.Sprintf("round %d", a.Round) }

// SetSpeed switches the game speed.
type SetSpeed struct {
	Speed string
}

func (a SetSpeed) Kind() string   { return "speed" }
func (a SetSpeed) Cost() int      { return 0 }
func (a SetSpeed) String() string { return "speed " + a.Speed }

// ClickConfirm dismisses a dialog. It is never written in a file.
type ClickConfirm struct {
	Target string
	// Unit is the upgraded unit for paragon confirmations, -1 otherwise.
	Unit int
}

func (a ClickConfirm) Kind() string   { return "click" }
func (a ClickConfirm) Cost() int      { return 0 }
func (a ClickConfirm) String() string { return "click " + a.Target }

// TotalCost sums the cost of every action.
func TotalCost(actions []Action) int {
	total := 0
	for _, a := range actions {
		total += a.Cost()
	}
	return total
}
