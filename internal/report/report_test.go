package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinnku-nikaidou/AutoBTD6/internal/catalog"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/data"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/playthrough"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/selection"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/stats"
)

type fakeLedger map[string]stats.GamemodeStats

func (f fakeLedger) Totals(file, gamemode string) stats.GamemodeStats {
	return f[file+"/"+gamemode]
}

func (f fakeLedger) AverageTime(file, gamemode string) float64 {
	gs, ok := f[file+"/"+gamemode]
	if !ok || len(gs.WinTimes) == 0 {
		return -1
	}
	total := 0.0
	for _, t := range gs.WinTimes {
		total += t
	}
	return total / float64(len(gs.WinTimes))
}

func entry(file, mapName, gamemode string) catalog.Entry {
	return catalog.Entry{
		Filename: "/plays/" + file,
		Identity: playthrough.Identity{Map: mapName, Gamemode: gamemode},
		Gamemode: gamemode,
		Original: true,
	}
}

func TestCollect(t *testing.T) {
	tables, err := data.NewLoader(nil).LoadTables()
	require.NoError(t, err)

	ledger := fakeLedger{
		"/plays/a.btd6/easy":   {Attempts: 3, Wins: 2, WinTimes: []float64{600, 600}},
		"/plays/b.btd6/chimps": {Attempts: 1, Wins: 1, WinTimes: []float64{1800}},
	}
	sel := selection.NewSelector(tables, ledger)
	entries := []catalog.Entry{
		entry("a.btd6", "logs", data.Easy),
		entry("c.btd6", "logs", data.Hard),
		entry("b.btd6", "logs", data.Chimps),
	}

	rows := Collect(entries, sel, ledger)
	require.Len(t, rows, 3)
	assert.Equal(t, "b.btd6", rows[0].File)
	assert.InDelta(t, 462300.0, rows[0].XPPerHour, 1e-6)
	assert.InDelta(t, 120.0, rows[0].CashPerHour, 1e-6)
	assert.Equal(t, "a.btd6", rows[1].File)
	assert.Equal(t, 3, rows[1].Attempts)
	assert.Equal(t, 2, rows[1].Wins)
	assert.Equal(t, 600.0, rows[1].AverageTime)
	assert.Equal(t, "c.btd6", rows[2].File)
	assert.Equal(t, -1.0, rows[2].AverageTime)
	assert.Zero(t, rows[2].XPPerHour)
}

func TestGenerate(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	var rows []Row
	for i := range 80 {
		rows = append(rows, Row{Map: "logs", Gamemode: "easy", File: "logs#easy#1920x1080.btd6", Attempts: i, AverageTime: float64(i)})
	}
	out, err := Generate(rows, "Playthrough stats", at)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))

	empty, err := Generate(nil, "Playthrough stats", at)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(empty, []byte("%PDF-")))
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "-", formatSeconds(-1))
	assert.Equal(t, "2m0s", formatSeconds(120))
}
