package stats

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/shinnku-nikaidou/AutoBTD6/internal/position"
)

// Validation is the tri-state validation status of a file at a resolution.
type Validation int

const (
	Unvalidated Validation = iota
	Valid
	Invalid
)

func (v Validation) String() string {
	switch v {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	}
	return "unvalidated"
}

// State marks the timer transitions of a run.
type State string

const (
	Start State = "start"
	Stop  State = "stop"
)

// Event is one timer transition.
type Event struct {
	State State
	At    time.Time
}

// Timeline records when a run was actively playing. Pauses stop the clock.
type Timeline []Event

func (t *Timeline) Start(at time.Time) { *t = append(*t, Event{State: Start, At: at}) }
func (t *Timeline) Stop(at time.Time)  { *t = append(*t, Event{State: Stop, At: at}) }

// Active sums every start to stop interval. A start while the clock runs,
// a stop while it is stopped and a trailing start are ignored.
func (t Timeline) Active() time.Duration {
	var total time.Duration
	var open *time.Time
	for i := range t {
		e := t[i]
		switch {
		case e.State == Start && open == nil:
			open = &t[i].At
		case e.State == Stop && open != nil:
			total += e.At.Sub(*open)
			open = nil
		}
	}
	return total
}

// Run is the outcome of one completed playthrough attempt.
type Run struct {
	Gamemode string
	Win      bool
	Timeline Timeline
}

// Backend stores the whole ledger document.
type Backend interface {
	Load(ctx context.Context) (Document, error)
	Save(ctx context.Context, doc Document) error
}

// Ledger is the persistent per file and resolution run record.
// It is not safe for concurrent use.
type Ledger struct {
	backend Backend
	doc     Document
	version string
	logger  *slog.Logger
	journal *Journal
}

// Open loads the ledger from backend. version is stamped on files whenever a win is recorded.
func Open(ctx context.Context, backend Backend, version string, logger *slog.Logger) (*Ledger, error) {
	if logger == nil {
		logger = slog.Default()
	}
	doc, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	if doc == nil {
		doc = Document{}
	}
	return &Ledger{backend: backend, doc: doc, version: version, logger: logger}, nil
}

// SetJournal makes the ledger append every saved run and validation to j.
// A journal failure is logged and never rolls back the ledger.
func (l *Ledger) SetJournal(j *Journal) {
	l.journal = j
}

func (l *Ledger) record(e Entry) {
	if l.journal == nil {
		return
	}
	if err := l.journal.Append(e); err != nil {
		l.logger.Error("failed to journal stats entry", "type", e.Type(), "error", err)
	}
}

func (l *Ledger) save(ctx context.Context) error {
	if err := l.backend.Save(ctx, l.doc); err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}
	return nil
}

// RecordRun counts a completed attempt and, on a win, its active play time.
// The whole ledger is persisted afterwards.
func (l *Ledger) RecordRun(ctx context.Context, file string, res position.Resolution, run Run) error {
	rs := l.doc.resolution(file, res.String(), true)
	gs, ok := rs.Gamemodes[run.Gamemode]
	if !ok || gs == nil {
		gs = &GamemodeStats{WinTimes: []float64{}}
		rs.Gamemodes[run.Gamemode] = gs
	}

	gs.Attempts++
	if run.Win {
		gs.Wins++
		gs.WinTimes = append(gs.WinTimes, run.Timeline.Active().Seconds())
		l.doc[file].Version = l.version
	}

	l.logger.Info("recorded run",
		"file", file,
		"resolution", res.String(),
		"gamemode", run.Gamemode,
		"win", run.Win,
		"attempts", gs.Attempts,
		"wins", gs.Wins,
	)
	entry := &RunEntry{File: file, Resolution: res.String(), Gamemode: run.Gamemode, Win: run.Win, At: time.Now()}
	if run.Win {
		entry.Seconds = run.Timeline.Active().Seconds()
	}
	if err := l.save(ctx); err != nil {
		return err
	}
	l.record(entry)
	return nil
}

// SetValidation stores the result of a validation run and persists the ledger.
func (l *Ledger) SetValidation(ctx context.Context, file string, res position.Resolution, valid bool) error {
	rs := l.doc.resolution(file, res.String(), true)
	rs.Validation = &valid
	if err := l.save(ctx); err != nil {
		return err
	}
	l.record(&ValidationEntry{File: file, Resolution: res.String(), Valid: valid, At: time.Now()})
	return nil
}

// Validation returns the validation status of file at res.
func (l *Ledger) Validation(file string, res position.Resolution) Validation {
	rs := l.doc.resolution(file, res.String(), false)
	if rs == nil || rs.Validation == nil {
		return Unvalidated
	}
	if *rs.Validation {
		return Valid
	}
	return Invalid
}

// Stats returns the outcomes of file on gamemode at res.
func (l *Ledger) Stats(file string, res position.Resolution, gamemode string) GamemodeStats {
	rs := l.doc.resolution(file, res.String(), false)
	if rs == nil || rs.Gamemodes[gamemode] == nil {
		return GamemodeStats{}
	}
	return *rs.Gamemodes[gamemode]
}

// Totals sums the outcomes of file on gamemode over every resolution.
func (l *Ledger) Totals(file, gamemode string) GamemodeStats {
	var out GamemodeStats
	l.eachBucket(file, gamemode, func(gs *GamemodeStats) {
		out.Attempts += gs.Attempts
		out.Wins += gs.Wins
		out.WinTimes = append(out.WinTimes, gs.WinTimes...)
	})
	return out
}

// AverageTime is the mean win time of file on gamemode across every
// resolution, in seconds, or -1 without any recorded win.
func (l *Ledger) AverageTime(file, gamemode string) float64 {
	total, n := 0.0, 0
	l.eachBucket(file, gamemode, func(gs *GamemodeStats) {
		for _, t := range gs.WinTimes {
			total += t
			n++
		}
	})
	if n == 0 {
		return -1
	}
	return total / float64(n)
}

// eachBucket visits the gamemode stats of file in every "WxH" bucket.
func (l *Ledger) eachBucket(file, gamemode string, fn func(*GamemodeStats)) {
	fs, ok := l.doc[file]
	if !ok {
		return
	}
	for res, rs := range fs.Resolutions {
		if _, err := position.ParseResolution(res); err != nil || rs == nil {
			continue
		}
		if gs := rs.Gamemodes[gamemode]; gs != nil {
			fn(gs)
		}
	}
}

// Files lists every file with an entry, sorted.
func (l *Ledger) Files() []string {
	return slices.Sorted(maps.Keys(l.doc))
}

// Document returns the in-memory ledger. Callers must not modify it.
func (l *Ledger) Document() Document {
	return l.doc
}
