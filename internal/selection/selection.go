// Package selection picks the playthrough to run next on a map.
package selection

import (
	"slices"

	"github.com/shinnku-nikaidou/AutoBTD6/internal/catalog"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/data"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/stats"
)

// Timings reports the mean win time of a file on a gamemode, or -1.
type Timings interface {
	AverageTime(file, gamemode string) float64
}

// Selector ranks catalog entries by gamemode value and run history.
type Selector struct {
	tables  *data.Tables
	timings Timings
}

// NewSelector returns a Selector. A nil timings treats every entry as untimed.
func NewSelector(tables *data.Tables, timings Timings) *Selector {
	return &Selector{tables: tables, timings: timings}
}

// AverageTime is the mean win time of e, or -1.
func (s *Selector) AverageTime(e catalog.Entry) float64 {
	if s.timings == nil {
		return -1
	}
	return s.timings.AverageTime(e.Filename, e.Gamemode)
}

// champion is the running best of one track.
type champion struct {
	entry catalog.Entry
	value int
	time  float64
	set   bool
}

// consider replaces the champion with the candidate when, in order: there is
// no champion yet; the candidate's gamemode is worth more; values tie and the
// candidate drops a Monkey Knowledge requirement the champion has; values
// tie, the candidate does not add such a requirement and it is faster. An
// untimed candidate is never faster and an untimed champion is always slower.
func (c *champion) consider(e catalog.Entry, value int, time float64, preferNoMK bool) {
	take := func() {
		*c = champion{entry: e, value: value, time: time, set: true}
	}
	if !c.set || value > c.value {
		take()
		return
	}
	if value != c.value {
		return
	}

	champNoMK, candNoMK := c.entry.Identity.Flags.NoMK, e.Identity.Flags.NoMK
	if preferNoMK && !champNoMK && candNoMK {
		take()
		return
	}
	if preferNoMK && champNoMK && !candNoMK {
		return
	}
	if time != -1 && (c.time == -1 || time < c.time) {
		take()
	}
}

// BestFor picks the entry to play on mapName. Entries that lost during this
// session are only chosen when every entry has lost. The result is
// deterministic for a given catalog and run log.
func (s *Selector) BestFor(c *catalog.Catalog, mapName string, runs *stats.RunLog, preferNoMK bool) (catalog.Entry, bool) {
	var clean, fallback champion

	for _, gm := range c.Gamemodes(mapName) {
		value := s.tables.GamemodeValue(gm)
		for _, e := range c.Entries(mapName, gm) {
			t := s.AverageTime(e)
			if !runs.HadDefeats(e.Filename, e.Gamemode) {
				clean.consider(e, value, t, preferNoMK)
			}
			fallback.consider(e, value, t, preferNoMK)
		}
	}

	switch {
	case clean.set:
		return clean.entry, true
	case fallback.set:
		return fallback.entry, true
	}
	return catalog.Entry{}, false
}

// Ranked is an entry with its computed gain.
type Ranked struct {
	Entry catalog.Entry
	Gain  float64
}

// RankByGain orders entries by gain, highest first. Equal gains keep their input order.
func RankByGain(entries []catalog.Entry, gain func(catalog.Entry) float64) []Ranked {
	out := make([]Ranked, len(entries))
	for i, e := range entries {
		out[i] = Ranked{Entry: e, Gain: gain(e)}
	}
	slices.SortStableFunc(out, func(a, b Ranked) int {
		switch {
		case a.Gain > b.Gain:
			return -1
		case a.Gain < b.Gain:
			return 1
		}
		return 0
	})
	return out
}

// XP is the experience for one win of e.
func (s *Selector) XP(e catalog.Entry) float64 {
	return stats.XP(e.Gamemode, s.tables.Category(e.Map()))
}

// Cash is the Monkey Money for one win of e.
func (s *Selector) Cash(e catalog.Entry) float64 {
	gm, ok := s.tables.Gamemodes[e.Gamemode]
	if !ok {
		return 0
	}
	return float64(stats.Cash(gm.CashGroup, s.tables.Category(e.Map())))
}

// XPPerHour is the hourly experience rate of e, 0 without timing data.
func (s *Selector) XPPerHour(e catalog.Entry) float64 {
	return stats.PerHour(s.XP(e), s.AverageTime(e))
}

// CashPerHour is the hourly Monkey Money rate of e, 0 without timing data.
func (s *Selector) CashPerHour(e catalog.Entry) float64 {
	return stats.PerHour(s.Cash(e), s.AverageTime(e))
}
