package playthrough

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/shinnku-nikaidou/AutoBTD6/internal/data"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/economy"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/parser"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/position"
)

var (
	ErrUnknownMap         = errors.New("unknown map")
	ErrUnknownGamemode    = errors.New("unknown gamemode")
	ErrResolutionMismatch = errors.New("playthrough recorded for another resolution and rescaling is disabled")
	ErrTargetExists       = errors.New("target file already exists")
)

const (
	maxPathLevel   = 5
	pathCount      = 3
	maxActivePaths = 2
	// Only one path may go beyond this tier.
	crosspathLevel = 2
)

var lineParser = parser.Build()

// PlacedUnit is the state of one placed tower or hero after the lines seen so far.
type PlacedUnit struct {
	ID   int            `json:"id"`
	Name string         `json:"name"`
	Kind string         `json:"kind"`
	Hero bool           `json:"hero"`
	Pos  position.Point `json:"pos"`
	// Upgrades holds the level reached on each path.
	Upgrades [pathCount]int `json:"upgrades"`
	// Value is the accumulated spend on the unit.
	Value int  `json:"value"`
	Sold  bool `json:"sold"`
}

// Diagnostic describes a skipped line.
type Diagnostic struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s: %q", d.Line, d.Reason, d.Text)
}

// Script is a parsed playthrough.
type Script struct {
	Identity   Identity
	Filename   string
	Map        string
	Category   string
	Difficulty string
	Gamemode   string
	// Hero is the hero name placed by the script, if any.
	Hero    string
	Actions []Action
	Units   []PlacedUnit
	// ExtraInstructions counts the synthetic steps prepended before the first line.
	ExtraInstructions int
	Diagnostics       []Diagnostic

	index map[string]int
}

// Unit looks up a placed unit by the name it was given in the file.
func (s *Script) Unit(name string) (PlacedUnit, bool) {
	i, ok := s.index[name]
	if !ok {
		return PlacedUnit{}, false
	}
	return s.Units[i], true
}

// Cost is the total price of the script.
func (s *Script) Cost() int {
	return TotalCost(s.Actions)
}

// Parser turns instruction files into scripts against a snapshot of the static tables.
type Parser struct {
	tables *data.Tables
	model  *economy.Model
	logger *slog.Logger
}

// NewParser returns a Parser. A nil logger uses slog.Default().
func NewParser(tables *data.Tables, model *economy.Model, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	if model == nil {
		model = economy.NewModel(nil)
	}
	return &Parser{tables: tables, model: model, logger: logger}
}

// Tables returns the static tables the parser was built with.
func (p *Parser) Tables() *data.Tables {
	return p.tables
}

// Options tune ParseFile.
type Options struct {
	// Resolution is the display the script will run on. Zero means the recorded one.
	Resolution position.Resolution
	// NoRescale makes a resolution mismatch an error instead of rescaling positions.
	NoRescale bool
	// Gamemode replaces the gamemode from the filename when set.
	Gamemode string
}

// ParseFile reads and parses an instruction file.
func (p *Parser) ParseFile(path string, opts Options) (*Script, error) {
	id, err := Decode(path)
	if err != nil {
		return nil, err
	}

	b, err := p.NewBuilder(id, opts.Gamemode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	b.script.Filename = path

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read playthrough %s: %w", path, err)
	}
	body := string(raw)

	target := opts.Resolution
	if target.IsZero() {
		target = id.Resolution
	}
	if target != id.Resolution {
		if opts.NoRescale {
			return nil, fmt.Errorf("%s: %w", path, ErrResolutionMismatch)
		}
		body = position.RescaleString(body, id.Resolution, target)
	}

	for _, line := range strings.Split(body, "\n") {
		b.Feed(line)
	}
	return b.Script(), nil
}

// Builder parses a script one line at a time.
type Builder struct {
	p      *Parser
	script *Script
	line   int
	// placed counts placements per tower kind.
	placed map[string]int
}

// NewBuilder starts an empty script for id. gamemode overrides id.Gamemode when set.
func (p *Parser) NewBuilder(id Identity, gamemode string) (*Builder, error) {
	m, ok := p.tables.Maps[id.Map]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMap, id.Map)
	}
	if gamemode == "" {
		gamemode = id.Gamemode
	}
	gm, ok := p.tables.Gamemodes[gamemode]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGamemode, gamemode)
	}

	s := &Script{
		Identity:   id,
		Map:        id.Map,
		Category:   m.Category,
		Difficulty: gm.Group,
		Gamemode:   gamemode,
		index:      make(map[string]int),
	}
	if data.NeedsDialogConfirmation(gamemode) || gm.Sandbox {
		s.Actions = append(s.Actions, ClickConfirm{Target: TargetGamemodeDialog, Unit: -1})
		s.ExtraInstructions = 1
	}

	return &Builder{p: p, script: s, placed: make(map[string]int)}, nil
}

// Script returns the script built so far.
func (b *Builder) Script() *Script {
	return b.script
}

// Feed parses one line. It returns the actions the line produced, or the
// diagnostic explaining why it was skipped. Blank lines produce neither.
func (b *Builder) Feed(text string) ([]Action, *Diagnostic) {
	b.line++
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	line, err := lineParser.ParseString("", text)
	if err != nil {
		return nil, b.skip(text, parser.MapError(text, err).Error())
	}

	var actions []Action
	var reason string
	switch {
	case line.Place != nil:
		actions, reason = b.place(line.Place)
	case line.Upgrade != nil:
		actions, reason = b.upgrade(line.Upgrade)
	case line.Retarget != nil:
		actions, reason = b.retarget(line.Retarget)
	case line.Special != nil:
		actions, reason = b.special(line.Special)
	case line.Sell != nil:
		actions, reason = b.sell(line.Sell)
	case line.Remove != nil:
		actions, reason = b.remove(line.Remove)
	case line.Round != nil:
		if line.Round.Round < 1 {
			reason = fmt.Sprintf("invalid round %d", line.Round.Round)
		} else {
			actions = []Action{AwaitRound{Round: line.Round.Round}}
		}
	case line.Speed != nil:
		actions = []Action{SetSpeed{Speed: line.Speed.Speed}}
	}

	if reason != "" {
		return nil, b.skip(text, reason)
	}
	b.script.Actions = append(b.script.Actions, actions...)
	return actions, nil
}

func (b *Builder) skip(text, reason string) *Diagnostic {
	d := Diagnostic{Line: b.line, Text: text, Reason: reason}
	b.script.Diagnostics = append(b.script.Diagnostics, d)
	b.p.logger.Warn("skipping instruction",
		"file", b.script.Filename,
		"line", d.Line,
		"reason", d.Reason,
	)
	return &d
}

func discountOf(d *int) (int, string) {
	if d == nil {
		return 0, ""
	}
	if *d > 100 {
		return 0, fmt.Sprintf("discount %d%% exceeds 100%%", *d)
	}
	return *d, ""
}

func point(p parser.Pos) position.Point {
	return position.Point{X: p.X, Y: p.Y}
}

func (b *Builder) place(l *parser.PlaceLine) ([]Action, string) {
	if _, ok := b.script.index[l.Name]; ok {
		return nil, fmt.Sprintf("unit %s placed twice", l.Name)
	}
	discount, reason := discountOf(l.Discount)
	if reason != "" {
		return nil, reason
	}

	t := b.p.tables
	unit := PlacedUnit{ID: len(b.script.Units), Name: l.Name, Kind: l.Kind, Pos: point(l.At)}
	var base int
	var key string
	var pricing economy.Unit

	if tower, ok := t.Towers.Monkeys[l.Kind]; ok {
		base = tower.Base
		key = t.Keybinds.Monkeys[l.Kind]
		pricing = economy.Unit{FirstOfKind: b.placed[l.Kind] == 0, LineOfDefense: tower.LineOfDefense}
	} else if hero, ok := t.Towers.Heroes[l.Kind]; ok {
		base = hero.Base
		key = t.Keybinds.Monkeys["hero"]
		unit.Hero = true
		pricing = economy.Unit{Hero: true}
	} else {
		return nil, fmt.Sprintf("unit %s has unknown kind %s", l.Name, l.Kind)
	}

	price := b.p.model.Price(base, b.script.Difficulty, b.script.Gamemode, economy.OpPlace, pricing, discount)
	unit.Value = price

	b.placed[l.Kind]++
	b.script.index[l.Name] = unit.ID
	b.script.Units = append(b.script.Units, unit)
	if unit.Hero {
		b.script.Hero = l.Kind
	}

	return []Action{Place{
		Unit:     unit.ID,
		Name:     l.Name,
		Type:     l.Kind,
		Hero:     unit.Hero,
		Key:      key,
		Pos:      unit.Pos,
		Discount: l.Discount,
		Price:    price,
	}}, ""
}

// lookup resolves a unit reference. The returned pointer is into the arena.
func (b *Builder) lookup(name string) (*PlacedUnit, string) {
	i, ok := b.script.index[name]
	if !ok {
		return nil, fmt.Sprintf("unit %s is not placed", name)
	}
	u := &b.script.Units[i]
	if u.Sold {
		return nil, fmt.Sprintf("unit %s was sold", name)
	}
	return u, ""
}

func legalUpgrades(levels [pathCount]int) bool {
	active, crossed := 0, 0
	for _, lvl := range levels {
		if lvl > maxPathLevel {
			return false
		}
		if lvl > 0 {
			active++
		}
		if lvl > crosspathLevel {
			crossed++
		}
	}
	return active <= maxActivePaths && crossed <= 1
}

func (b *Builder) upgrade(l *parser.UpgradeLine) ([]Action, string) {
	u, reason := b.lookup(l.Name)
	if reason != "" {
		return nil, reason
	}
	if u.Hero {
		return nil, fmt.Sprintf("hero %s cannot be upgraded", l.Name)
	}
	if l.Path < 0 || l.Path >= pathCount {
		return nil, fmt.Sprintf("invalid path %d", l.Path)
	}
	discount, reason := discountOf(l.Discount)
	if reason != "" {
		return nil, reason
	}

	next := u.Upgrades
	next[l.Path]++
	if !legalUpgrades(next) {
		return nil, fmt.Sprintf("unit %s has invalid upgrade path %s", l.Name, UpgradeString(next))
	}

	tower := b.p.tables.Towers.Monkeys[u.Kind]
	level := next[l.Path]
	base, ok := tower.UpgradeCost(l.Path, level)
	if !ok {
		return nil, fmt.Sprintf("no price for %s path %d level %d", u.Kind, l.Path, level)
	}

	price := b.p.model.Price(base, b.script.Difficulty, b.script.Gamemode, economy.OpUpgrade, economy.Unit{}, discount)
	u.Upgrades = next
	u.Value += price

	actions := []Action{Upgrade{
		Unit:     u.ID,
		Name:     u.Name,
		Key:      b.p.tables.Keybinds.Path[strconv.Itoa(l.Path)],
		Pos:      u.Pos,
		Path:     l.Path,
		Level:    level,
		Discount: l.Discount,
		Price:    price,
	}}
	if economy.RequiresConfirmation(tower, l.Path, level) {
		actions = append(actions, ClickConfirm{Target: TargetParagonDialog, Unit: u.ID})
	}
	return actions, ""
}

func (b *Builder) retarget(l *parser.RetargetLine) ([]Action, string) {
	u, reason := b.lookup(l.Name)
	if reason != "" {
		return nil, reason
	}
	a := Retarget{Unit: u.ID, Name: u.Name, Key: b.p.tables.Keybinds.Others["retarget"], Pos: u.Pos}
	if l.To != nil {
		to := point(*l.To)
		a.To = &to
	} else if !u.Hero && b.p.tables.Towers.Monkeys[u.Kind].RetargetPosition {
		return nil, fmt.Sprintf("%s can only be retargeted to a position", u.Kind)
	}
	return []Action{a}, ""
}

func (b *Builder) special(l *parser.SpecialLine) ([]Action, string) {
	u, reason := b.lookup(l.Name)
	if reason != "" {
		return nil, reason
	}
	return []Action{Special{Unit: u.ID, Name: u.Name, Key: b.p.tables.Keybinds.Others["special"], Pos: u.Pos}}, ""
}

func (b *Builder) sell(l *parser.SellLine) ([]Action, string) {
	u, reason := b.lookup(l.Name)
	if reason != "" {
		return nil, reason
	}
	u.Sold = true
	return []Action{Sell{
		Unit:   u.ID,
		Name:   u.Name,
		Key:    b.p.tables.Keybinds.Others["sell"],
		Pos:    u.Pos,
		Refund: economy.SellValue(u.Value),
	}}, ""
}

func (b *Builder) remove(l *parser.RemoveLine) ([]Action, string) {
	if l.Unknown || l.Price == nil {
		return nil, "obstacle removal without price"
	}
	return []Action{RemoveObstacle{Pos: point(l.At), Price: *l.Price}}, ""
}
