package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/shinnku-nikaidou/AutoBTD6/internal/data"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/playthrough"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/position"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/rules"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/stats"
)

// ValidationFilter selects entries by their ledger validation status.
type ValidationFilter int

const (
	IncludeAll ValidationFilter = iota
	OnlyValidated
	OnlyUnvalidated
)

// Filter restricts a catalog. Zero fields do not restrict.
type Filter struct {
	// MonkeyKnowledge drops entries that need Monkey Knowledge when false.
	MonkeyKnowledge bool
	Validation      ValidationFilter
	// Resolution scopes the validation lookup.
	Resolution    position.Resolution
	Category      string
	Gamemode      string
	Heroes        []string
	RequiredFlags []string
	OriginalOnly  bool
	// Where is a CEL expression over `entry` and `stats`.
	Where string
}

// accessChain maps a gamemode to the medal that unlocks it.
var accessChain = map[string]string{
	data.PrimaryOnly:           data.Easy,
	data.Deflation:             data.PrimaryOnly,
	data.EasySandbox:           data.Easy,
	data.MilitaryOnly:          data.Medium,
	data.Apopalypse:            data.MilitaryOnly,
	data.Reverse:               data.Medium,
	data.MediumSandbox:         data.Reverse,
	data.HardSandbox:           data.Hard,
	data.MagicMonkeysOnly:      data.Hard,
	data.DoubleHPMoabs:         data.MagicMonkeysOnly,
	data.HalfCash:              data.DoubleHPMoabs,
	data.AlternateBloonsRounds: data.Hard,
	data.Impoppable:            data.AlternateBloonsRounds,
	data.Chimps:                data.Impoppable,
}

// Library discovers and filters instruction files for one user.
type Library struct {
	parser *playthrough.Parser
	user   *data.User
	ledger *stats.Ledger
	logger *slog.Logger

	scripts map[string]*playthrough.Script
}

// NewLibrary returns a Library. user and ledger may be nil: nothing is
// unlocked and nothing is validated.
func NewLibrary(parser *playthrough.Parser, user *data.User, ledger *stats.Ledger, logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.Default()
	}
	if user == nil {
		user = &data.User{}
	}
	return &Library{
		parser:  parser,
		user:    user,
		ledger:  ledger,
		logger:  logger,
		scripts: make(map[string]*playthrough.Script),
	}
}

// Script parses filename at its recorded resolution, once.
func (l *Library) Script(filename string) (*playthrough.Script, error) {
	if s, ok := l.scripts[filename]; ok {
		return s, nil
	}
	s, err := l.parser.ParseFile(filename, playthrough.Options{})
	if err != nil {
		return nil, err
	}
	l.scripts[filename] = s
	return s, nil
}

// Discover scans dirs for instruction files and offers each for every
// gamemode it is compatible with. Missing directories are skipped. With
// considerUser, files and gamemodes the user cannot play are left out.
func (l *Library) Discover(dirs []string, considerUser bool) (*Catalog, error) {
	c := New()
	towers := l.parser.Tables().Towers

	for _, dir := range dirs {
		files, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Debug("skipping missing playthrough directory", "dir", dir)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", dir, err)
		}

		for _, f := range files {
			if f.IsDir() {
				continue
			}
			filename := filepath.Join(dir, f.Name())
			id, err := playthrough.Decode(filename)
			if err != nil {
				l.logger.Debug("skipping file", "file", filename, "error", err)
				continue
			}

			s, err := l.Script(filename)
			if err != nil {
				l.logger.Warn("skipping unparsable playthrough", "file", filename, "error", err)
				continue
			}
			if considerUser && !l.canUse(id, s) {
				l.logger.Debug("skipping locked playthrough", "file", filename)
				continue
			}

			for _, gm := range s.CompatibleGamemodes(towers) {
				if considerUser && !l.CanAccessGamemode(id.Map, gm) {
					continue
				}
				c.Add(Entry{
					Filename: filename,
					Identity: id,
					Gamemode: gm,
					Original: gm == id.Gamemode,
				})
			}
		}
	}
	return c, nil
}

// CanUse reports whether the user has unlocked the entry's map and hero.
func (l *Library) CanUse(e Entry) bool {
	s, err := l.Script(e.Filename)
	if err != nil {
		return false
	}
	return l.canUse(e.Identity, s)
}

func (l *Library) canUse(id playthrough.Identity, s *playthrough.Script) bool {
	if !l.user.UnlockedMaps[id.Map] {
		return false
	}
	return s.Hero == "" || l.user.Heroes[s.Hero]
}

// CanAccessGamemode reports whether the user's medals on mapName unlock gamemode.
func (l *Library) CanAccessGamemode(mapName, gamemode string) bool {
	if _, ok := l.user.Medals[mapName]; !ok {
		return false
	}
	switch gamemode {
	case data.Easy, data.Medium, data.Hard:
		return true
	}
	if l.user.Medal(mapName, gamemode) {
		return true
	}
	prereq, ok := accessChain[gamemode]
	return ok && l.user.Medal(mapName, prereq)
}

// AvailableSandbox returns the first of candidates the user can open on
// mapName. Every sandbox variant is tried when candidates is empty.
func (l *Library) AvailableSandbox(mapName string, candidates ...string) (string, bool) {
	if len(candidates) == 0 {
		candidates = data.SandboxGamemodes
	}
	for _, gm := range candidates {
		if l.CanAccessGamemode(mapName, gm) {
			return gm, true
		}
	}
	return "", false
}

// Validation is the ledger status of e at res, or at the resolution the
// entry was recorded at when res is zero.
func (l *Library) Validation(e Entry, res position.Resolution) stats.Validation {
	if l.ledger == nil {
		return stats.Unvalidated
	}
	if res.IsZero() {
		res = e.Identity.Resolution
	}
	return l.ledger.Validation(e.Filename, res)
}

// AverageTime is the mean win time of e, or -1.
func (l *Library) AverageTime(e Entry) float64 {
	if l.ledger == nil {
		return -1
	}
	return l.ledger.AverageTime(e.Filename, e.Gamemode)
}

// Filter returns a new catalog holding the entries of c that pass f.
func (l *Library) Filter(c *Catalog, f Filter) (*Catalog, error) {
	tables := l.parser.Tables()

	var where *rules.Predicate
	if f.Where != "" {
		registry, err := rules.NewRegistry(tables.GamemodeValue)
		if err != nil {
			return nil, fmt.Errorf("failed to build expression environment: %w", err)
		}
		if where, err = registry.Compile(f.Where); err != nil {
			return nil, err
		}
	}

	out := New()
	for _, mapName := range c.Maps() {
		if f.Category != "" && tables.Category(mapName) != f.Category {
			continue
		}
		for _, gm := range c.Gamemodes(mapName) {
			if f.Gamemode != "" && gm != f.Gamemode {
				continue
			}
			for _, e := range c.Entries(mapName, gm) {
				ok, err := l.keep(e, f, where)
				if err != nil {
					return nil, err
				}
				if ok {
					out.Add(e)
				}
			}
		}
	}
	return out, nil
}

func (l *Library) keep(e Entry, f Filter, where *rules.Predicate) (bool, error) {
	flags := e.Identity.Flags
	if !flags.NoMK && !f.MonkeyKnowledge {
		return false, nil
	}

	if len(f.Heroes) > 0 {
		s, err := l.Script(e.Filename)
		if err != nil {
			l.logger.Warn("dropping unparsable playthrough", "file", e.Filename, "error", err)
			return false, nil
		}
		if s.Hero != "" && !slices.Contains(f.Heroes, s.Hero) {
			return false, nil
		}
	}

	for _, flag := range f.RequiredFlags {
		if !flags.Has(flag) {
			return false, nil
		}
	}

	if f.OriginalOnly && !e.Original {
		return false, nil
	}

	switch v := l.Validation(e, f.Resolution); f.Validation {
	case OnlyValidated:
		if v != stats.Valid {
			return false, nil
		}
	case OnlyUnvalidated:
		if v == stats.Valid {
			return false, nil
		}
	}

	if where != nil {
		ok, err := where.Match(l.evalContext(e, f.Resolution))
		if err != nil {
			return false, fmt.Errorf("%s: %w", e.Filename, err)
		}
		return ok, nil
	}
	return true, nil
}

func (l *Library) evalContext(e Entry, res position.Resolution) map[string]any {
	tables := l.parser.Tables()
	flags := map[string]bool{
		"noMK":    e.Identity.Flags.NoMK,
		"noLL":    e.Identity.Flags.NoLL,
		"noLLwMK": e.Identity.Flags.NoLLwMK,
		"gB":      e.Identity.Flags.GlitchlessBuild,
	}
	if g := e.Identity.Flags.SingleGroup; g != "" {
		flags[g+"Only"] = true
	}

	sv := rules.StatsVars{AverageTime: l.AverageTime(e)}
	if l.ledger != nil {
		totals := l.ledger.Totals(e.Filename, e.Gamemode)
		sv.Attempts, sv.Wins = totals.Attempts, totals.Wins
	}
	switch l.Validation(e, res) {
	case stats.Valid:
		sv.Validated = ptr(true)
	case stats.Invalid:
		sv.Validated = ptr(false)
	}

	return rules.BuildEvalContext(rules.EntryVars{
		Filename:   e.Filename,
		Map:        e.Map(),
		Category:   tables.Category(e.Map()),
		Gamemode:   e.Gamemode,
		Origin:     e.Identity.Gamemode,
		Original:   e.Original,
		Resolution: e.Identity.Resolution.String(),
		Flags:      flags,
		Value:      tables.GamemodeValue(e.Gamemode),
	}, sv)
}

func ptr[T any](v T) *T { return &v }
