package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Line represents a single instruction of a playthrough body
type Line struct {
	Place    *PlaceLine    `parser:"( @@"`
	Upgrade  *UpgradeLine  `parser:"| @@"`
	Retarget *RetargetLine `parser:"| @@"`
	Special  *SpecialLine  `parser:"| @@"`
	Sell     *SellLine     `parser:"| @@"`
	Remove   *RemoveLine   `parser:"| @@"`
	Round    *RoundLine    `parser:"| @@"`
	Speed    *SpeedLine    `parser:"| @@ )"`
}

// Pos is an "x, y" pixel pair
type Pos struct {
	X int
	Y int
}

// Capture implements participle.Capture for the Pos token.
func (p *Pos) Capture(values []string) error {
	x, y, ok := strings.Cut(strings.Join(values, ""), ", ")
	if !ok {
		return fmt.Errorf("invalid position %q", strings.Join(values, ""))
	}
	var err error
	if p.X, err = strconv.Atoi(x); err != nil {
		return err
	}
	p.Y, err = strconv.Atoi(y)
	return err
}

// PlaceLine places a tower or hero: place <kind> <name> at <x>, <y> [with <n>% discount]
type PlaceLine struct {
	Kind     string `parser:"\"place\" @Ident"`
	Name     string `parser:"@(Ident|Int)"`
	At       Pos    `parser:"\"at\" @Pos"`
	Discount *int   `parser:"( \"with\" @Int \"%\" \"discount\" )?"`
}

// UpgradeLine buys the next tier on a path: upgrade <name> path <0-2> [with <n>% discount]
type UpgradeLine struct {
	Name     string `parser:"\"upgrade\" @(Ident|Int)"`
	Path     int    `parser:"\"path\" @Int"`
	Discount *int   `parser:"( \"with\" @Int \"%\" \"discount\" )?"`
}

// RetargetLine cycles targeting or aims at a position: retarget <name> [to <x>, <y>]
type RetargetLine struct {
	Name string `parser:"\"retarget\" @(Ident|Int)"`
	To   *Pos   `parser:"( \"to\" @Pos )?"`
}

// SpecialLine triggers a unit's special action
type SpecialLine struct {
	Name string `parser:"\"special\" @(Ident|Int)"`
}

// SellLine sells a unit
type SellLine struct {
	Name string `parser:"\"sell\" @(Ident|Int)"`
}

// RemoveLine clears an obstacle: remove obstacle at <x>, <y> for <price|???>
type RemoveLine struct {
	At      Pos  `parser:"\"remove\" \"obstacle\" \"at\" @Pos"`
	Price   *int `parser:"\"for\" ( @Int"`
	Unknown bool `parser:"| @Unknown )"`
}

// RoundLine waits for a round to start
type RoundLine struct {
	Round int `parser:"\"round\" @Int"`
}

// SpeedLine switches game speed
type SpeedLine struct {
	Speed string `parser:"\"speed\" @(Ident|Int)"`
}

// FileName is the base name of an instruction file: <map>#<gamemode>#<W>x<H>[#<flags>].btd6
type FileName struct {
	Map        string   `parser:"@Word \"#\""`
	Gamemode   string   `parser:"@Word \"#\""`
	Resolution string   `parser:"@Resolution"`
	Flags      []string `parser:"( \"#\" @( Word | Resolution | Hash | Text )+ )?"`
	Ext        string   `parser:"@Ext"`
}
