package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinnku-nikaidou/AutoBTD6/internal/data"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/economy"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/playthrough"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/position"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/stats"
)

// memBackend keeps the ledger in memory.
type memBackend struct{ doc stats.Document }

func (b *memBackend) Load(context.Context) (stats.Document, error)   { return b.doc, nil }
func (b *memBackend) Save(_ context.Context, d stats.Document) error { b.doc = d; return nil }

func testParser(t *testing.T) *playthrough.Parser {
	t.Helper()
	tables, err := data.NewLoader(nil).LoadTables()
	require.NoError(t, err)
	return playthrough.NewParser(tables, economy.NewModel(nil), nil)
}

// writeDir fills a temp dir with files and returns its path.
func writeDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func gamemodesOf(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Gamemode
	}
	return out
}

func TestDiscover(t *testing.T) {
	dir := writeDir(t, map[string]string{
		"logs#chimps#1920x1080#noMK.btd6":    "place dart d0 at 1, 1\nplace tack t0 at 2, 2\n",
		"logs#medium#1920x1080.btd6":         "place quincy q at 1, 1\nplace sniper s at 2, 2\nplace wizard w at 3, 3\n",
		"README.md":                          "not a playthrough",
		"logs#nightmare#1920x1080.btd6":      "place dart d0 at 1, 1\n",
		"nowhere#easy#1920x1080.btd6":        "place dart d0 at 1, 1\n",
		"cubism#primary_only#1920x1080.btd6": "place bomb b at 1, 1\n",
	})
	lib := NewLibrary(testParser(t), nil, nil, nil)

	c, err := lib.Discover([]string{filepath.Join(dir, "missing"), dir}, false)
	require.NoError(t, err)

	// files are read in name order
	assert.Equal(t, []string{"cubism", "logs"}, c.Maps())
	assert.Equal(t, []string{"primary_only"}, c.Gamemodes("cubism"))
	assert.Equal(t, []string{"hard", "medium", "easy", "primary_only", "chimps"}, c.Gamemodes("logs"))

	easy := c.Entries("logs", "easy")
	require.Len(t, easy, 2)
	assert.Equal(t, filepath.Join(dir, "logs#chimps#1920x1080#noMK.btd6"), easy[0].Filename)
	assert.False(t, easy[0].Original)
	assert.Equal(t, "medium", easy[1].Identity.Gamemode)

	chimps := c.Entries("logs", "chimps")
	require.Len(t, chimps, 1)
	assert.True(t, chimps[0].Original)

	assert.Equal(t, 8, c.Len())
	assert.Len(t, c.Flatten(), 8)
	assert.Equal(t, "cubism", c.Flatten()[0].Map())
}

func TestDiscoverConsideringUser(t *testing.T) {
	dir := writeDir(t, map[string]string{
		"logs#chimps#1920x1080#noMK.btd6": "place dart d0 at 1, 1\n",
		"logs#hard#1920x1080.btd6":        "place obyn o at 1, 1\nplace druid d at 2, 2\n",
		"cubism#easy#1920x1080.btd6":      "place dart d0 at 1, 1\n",
	})
	user := &data.User{
		UnlockedMaps: map[string]bool{"logs": true},
		Heroes:       map[string]bool{"quincy": true},
		Medals:       map[string]map[string]bool{"logs": {"easy": true}},
	}
	lib := NewLibrary(testParser(t), user, nil, nil)

	c, err := lib.Discover([]string{dir}, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"logs"}, c.Maps())
	// chimps needs the impoppable medal, obyn is locked
	assert.Equal(t, []string{"hard", "medium", "easy", "primary_only"}, c.Gamemodes("logs"))
	for _, e := range c.Flatten() {
		assert.Equal(t, "logs#chimps#1920x1080#noMK.btd6", filepath.Base(e.Filename))
	}
}

func TestCanAccessGamemode(t *testing.T) {
	user := &data.User{Medals: map[string]map[string]bool{
		"logs":   {"easy": true, "hard": true, "impoppable": true, "double_hp_moabs": true},
		"cubism": {},
	}}
	lib := NewLibrary(testParser(t), user, nil, nil)

	tests := []struct {
		mapName  string
		gamemode string
		want     bool
	}{
		{"logs", "easy", true},
		{"logs", "primary_only", true},
		{"logs", "deflation", false},
		{"logs", "magic_monkeys_only", true},
		{"logs", "half_cash", true},
		{"logs", "chimps", true},
		{"logs", "impoppable", true},
		{"logs", "alternate_bloons_rounds", true},
		{"logs", "military_only", false},
		{"logs", "hard_sandbox", true},
		{"cubism", "hard", true},
		{"cubism", "primary_only", false},
		{"hedge", "easy", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, lib.CanAccessGamemode(tt.mapName, tt.gamemode), "%s/%s", tt.mapName, tt.gamemode)
	}
}

func TestAvailableSandbox(t *testing.T) {
	user := &data.User{Medals: map[string]map[string]bool{
		"logs":   {"easy": true},
		"cubism": {},
		"hedge":  {"reverse": true, "hard": true},
	}}
	lib := NewLibrary(testParser(t), user, nil, nil)

	gm, ok := lib.AvailableSandbox("logs")
	assert.True(t, ok)
	assert.Equal(t, "easy_sandbox", gm)

	_, ok = lib.AvailableSandbox("cubism")
	assert.False(t, ok)

	gm, ok = lib.AvailableSandbox("hedge", "hard_sandbox", "medium_sandbox")
	assert.True(t, ok)
	assert.Equal(t, "hard_sandbox", gm)

	_, ok = lib.AvailableSandbox("logs", "medium_sandbox", "hard_sandbox")
	assert.False(t, ok)

	_, ok = lib.AvailableSandbox("dark_castle")
	assert.False(t, ok)
}

func TestCanUse(t *testing.T) {
	dir := writeDir(t, map[string]string{
		"logs#easy#1920x1080.btd6":   "place quincy q at 1, 1\n",
		"cubism#easy#1920x1080.btd6": "place dart d at 1, 1\n",
	})
	user := &data.User{
		UnlockedMaps: map[string]bool{"logs": true, "cubism": true},
		Heroes:       map[string]bool{"quincy": false},
	}
	lib := NewLibrary(testParser(t), user, nil, nil)
	c, err := lib.Discover([]string{dir}, false)
	require.NoError(t, err)

	assert.False(t, lib.CanUse(c.Entries("logs", "easy")[0]))
	assert.True(t, lib.CanUse(c.Entries("cubism", "easy")[0]))

	user.Heroes["quincy"] = true
	assert.True(t, lib.CanUse(c.Entries("logs", "easy")[0]))
}

func TestFilter(t *testing.T) {
	dir := writeDir(t, map[string]string{
		"logs#chimps#1920x1080#noMK#noLL.btd6": "place dart d0 at 1, 1\nplace wizard w at 2, 2\n",
		"logs#hard#1920x1080.btd6":             "place obyn o at 1, 1\nplace druid d at 2, 2\n",
		"dark_castle#hard#1920x1080#noMK.btd6": "place quincy q at 1, 1\nplace ninja n at 2, 2\n",
	})
	ctx := context.Background()
	ledger, err := stats.Open(ctx, &memBackend{}, "", nil)
	require.NoError(t, err)
	res := position.Resolution{W: 1920, H: 1080}
	validated := filepath.Join(dir, "logs#hard#1920x1080.btd6")
	require.NoError(t, ledger.SetValidation(ctx, validated, res, true))
	require.NoError(t, ledger.RecordRun(ctx, validated, res, stats.Run{Gamemode: "medium", Win: false}))

	lib := NewLibrary(testParser(t), nil, ledger, nil)
	all, err := lib.Discover([]string{dir}, false)
	require.NoError(t, err)

	count := func(f Filter) int {
		t.Helper()
		c, err := lib.Filter(all, f)
		require.NoError(t, err)
		return c.Len()
	}

	// logs chimps: hard medium easy chimps; logs hard: medium easy magic_monkeys_only hard;
	// dark_castle hard: medium easy magic_monkeys_only hard
	require.Equal(t, 12, all.Len())

	assert.Equal(t, 12, count(Filter{MonkeyKnowledge: true}))
	assert.Equal(t, 8, count(Filter{}), "needs Monkey Knowledge unless noMK")
	assert.Equal(t, 8, count(Filter{MonkeyKnowledge: true, Category: "beginner"}))
	assert.Equal(t, 3, count(Filter{MonkeyKnowledge: true, Gamemode: "hard"}))
	assert.Equal(t, 8, count(Filter{MonkeyKnowledge: true, Heroes: []string{"obyn"}}))
	assert.Equal(t, 4, count(Filter{MonkeyKnowledge: true, RequiredFlags: []string{"noLL"}}))
	assert.Equal(t, 3, count(Filter{MonkeyKnowledge: true, OriginalOnly: true}))
	assert.Equal(t, 4, count(Filter{MonkeyKnowledge: true, Validation: OnlyValidated, Resolution: res}))
	assert.Equal(t, 8, count(Filter{MonkeyKnowledge: true, Validation: OnlyUnvalidated, Resolution: res}))
	assert.Equal(t, 0, count(Filter{MonkeyKnowledge: true, Validation: OnlyValidated, Resolution: position.Resolution{W: 2560, H: 1440}}))

	assert.Equal(t, 2, count(Filter{MonkeyKnowledge: true, Where: "entry.value >= 9 && entry.map == 'logs'"}))
	assert.Equal(t, 1, count(Filter{MonkeyKnowledge: true, Where: "stats.attempts > 0"}))
	assert.Equal(t, 4, count(Filter{MonkeyKnowledge: true, Where: "stats.validation == 'valid'"}))

	_, err = lib.Filter(all, Filter{Where: "entry.value +"})
	assert.Error(t, err)
}
