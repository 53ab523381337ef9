package playthrough

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinnku-nikaidou/AutoBTD6/internal/data"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/economy"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/position"
)

// testParser parses against the embedded default tables with nothing unlocked.
func testParser(t *testing.T) *Parser {
	t.Helper()
	tables, err := data.NewLoader(nil).LoadTables()
	require.NoError(t, err)
	return NewParser(tables, economy.NewModel(nil), nil)
}

// writeFile creates an instruction file in a temp dir and returns its path.
func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func feed(t *testing.T, p *Parser, filename string, lines ...string) *Script {
	t.Helper()
	id, err := Decode(filename)
	require.NoError(t, err)
	b, err := p.NewBuilder(id, "")
	require.NoError(t, err)
	for _, l := range lines {
		b.Feed(l)
	}
	return b.Script()
}

func kinds(actions []Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.Kind()
	}
	return out
}

func TestParseFileChimps(t *testing.T) {
	p := testParser(t)
	path := writeFile(t, "monkey_lane#chimps#2560x1440#noMK.btd6", strings.Join([]string{
		"place quincy hero0 at 100, 200",
		"place dart dart0 at 300, 400",
		"upgrade dart0 path 0",
		"place boomerang boom0 at 500, 600",
		"round 5",
		"",
	}, "\n"))

	s, err := p.ParseFile(path, Options{})
	require.NoError(t, err)

	assert.Equal(t, "monkey_lane", s.Map)
	assert.Equal(t, "beginner", s.Category)
	assert.Equal(t, "hard", s.Difficulty)
	assert.Equal(t, "chimps", s.Gamemode)
	assert.Equal(t, "quincy", s.Hero)
	assert.Equal(t, 1, s.ExtraInstructions)
	assert.Empty(t, s.Diagnostics)

	assert.Equal(t, []string{"click", "place", "place", "upgrade", "place", "round"}, kinds(s.Actions))
	assert.Equal(t, ClickConfirm{Target: TargetGamemodeDialog, Unit: -1}, s.Actions[0])

	// chimps prices at 1.2 with no unlock bonuses
	assert.Equal(t, 650, s.Actions[1].Cost())
	assert.Equal(t, 240, s.Actions[2].Cost())
	assert.Equal(t, 170, s.Actions[3].Cost())
	assert.Equal(t, 390, s.Actions[4].Cost())
	assert.Equal(t, 1450, s.Cost())

	dart, ok := s.Unit("dart0")
	require.True(t, ok)
	assert.Equal(t, [3]int{1, 0, 0}, dart.Upgrades)
	assert.Equal(t, 410, dart.Value)
	assert.Equal(t, position.Point{X: 300, Y: 400}, dart.Pos)

	assert.Equal(t, data.GroupPrimary, SingleGroup(s.Units, p.Tables().Towers))
	assert.ElementsMatch(t,
		[]string{"primary_only", "hard", "medium", "easy", "chimps"},
		s.CompatibleGamemodes(p.Tables().Towers),
	)
}

func TestParseFileDialogGamemodes(t *testing.T) {
	p := testParser(t)

	for _, tt := range []struct {
		name       string
		difficulty string
	}{
		{"logs#easy_sandbox#1920x1080.btd6", "easy"},
		{"logs#hard_sandbox#1920x1080.btd6", "hard"},
		{"logs#deflation#1920x1080.btd6", "easy"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.name, "place dart dart0 at 300, 400\nupgrade dart0 path 1\n")

			s, err := p.ParseFile(path, Options{})
			require.NoError(t, err)
			assert.Empty(t, s.Diagnostics)
			assert.Equal(t, tt.difficulty, s.Difficulty)
			assert.Equal(t, 1, s.ExtraInstructions)
			assert.Equal(t, []string{"click", "place", "upgrade"}, kinds(s.Actions))
			assert.Equal(t, ClickConfirm{Target: TargetGamemodeDialog, Unit: -1}, s.Actions[0])
			assert.Zero(t, s.Actions[0].Cost())
		})
	}

	s, err := p.ParseFile(writeFile(t, "logs#medium#1920x1080.btd6", "place dart dart0 at 300, 400\n"), Options{})
	require.NoError(t, err)
	assert.Zero(t, s.ExtraInstructions)
	assert.Equal(t, []string{"place"}, kinds(s.Actions))
}

func TestParseFileErrors(t *testing.T) {
	p := testParser(t)

	t.Run("not a strategy file", func(t *testing.T) {
		_, err := p.ParseFile(writeFile(t, "notes.txt", ""), Options{})
		assert.ErrorIs(t, err, ErrNotStrategyFile)
	})

	t.Run("unknown map", func(t *testing.T) {
		_, err := p.ParseFile(writeFile(t, "nowhere#easy#1920x1080.btd6", ""), Options{})
		assert.ErrorIs(t, err, ErrUnknownMap)
	})

	t.Run("unknown gamemode", func(t *testing.T) {
		_, err := p.ParseFile(writeFile(t, "logs#nightmare#1920x1080.btd6", ""), Options{})
		assert.ErrorIs(t, err, ErrUnknownGamemode)
	})

	t.Run("unknown override", func(t *testing.T) {
		_, err := p.ParseFile(writeFile(t, "logs#easy#1920x1080.btd6", ""), Options{Gamemode: "nightmare"})
		assert.ErrorIs(t, err, ErrUnknownGamemode)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := p.ParseFile(filepath.Join(t.TempDir(), "logs#easy#1920x1080.btd6"), Options{})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("resolution mismatch", func(t *testing.T) {
		path := writeFile(t, "logs#easy#1920x1080.btd6", "place dart dart0 at 960, 540\n")
		_, err := p.ParseFile(path, Options{Resolution: position.Resolution{W: 2560, H: 1440}, NoRescale: true})
		assert.ErrorIs(t, err, ErrResolutionMismatch)
	})
}

func TestParseFileRescales(t *testing.T) {
	p := testParser(t)
	path := writeFile(t, "logs#easy#1920x1080.btd6", "place dart dart0 at 960, 540\nretarget dart0 to 480, 270\n")

	s, err := p.ParseFile(path, Options{Resolution: position.Resolution{W: 2560, H: 1440}})
	require.NoError(t, err)

	place := s.Actions[0].(Place)
	assert.Equal(t, position.Point{X: 1280, Y: 720}, place.Pos)
	retarget := s.Actions[1].(Retarget)
	require.NotNil(t, retarget.To)
	assert.Equal(t, position.Point{X: 640, Y: 360}, *retarget.To)
}

func TestParseFileSkipsLoosePositions(t *testing.T) {
	p := testParser(t)
	path := writeFile(t, "monkey_lane#hard#1920x1080.btd6", strings.Join([]string{
		"place dart d0 at 960,540",
		"place dart d1 at 960, 540",
		"place dart d2 at 960 , 540",
		"",
	}, "\n"))

	s, err := p.ParseFile(path, Options{Resolution: position.Resolution{W: 3840, H: 2160}})
	require.NoError(t, err)

	require.Len(t, s.Units, 1)
	assert.Equal(t, "d1", s.Units[0].Name)
	assert.Equal(t, position.Point{X: 1920, Y: 1080}, s.Units[0].Pos)

	require.Len(t, s.Diagnostics, 2)
	assert.Equal(t, 1, s.Diagnostics[0].Line)
	assert.Equal(t, 3, s.Diagnostics[1].Line)
}

func TestParseFileGamemodeOverride(t *testing.T) {
	p := testParser(t)
	path := writeFile(t, "logs#medium#1920x1080.btd6", "place dart dart0 at 1, 1\n")

	s, err := p.ParseFile(path, Options{Gamemode: "hard"})
	require.NoError(t, err)
	assert.Equal(t, "hard", s.Gamemode)
	assert.Equal(t, "hard", s.Difficulty)
	assert.Equal(t, "medium", s.Identity.Gamemode)
	// 200 * 1.08 = 216
	assert.Equal(t, 215, s.Actions[0].Cost())
}

func TestBuilderSkipsInvalidLines(t *testing.T) {
	p := testParser(t)

	tests := []struct {
		name  string
		lines []string
	}{
		{"malformed", []string{"place dart at 1, 2"}},
		{"unknown instruction", []string{"jump dart0"}},
		{"duplicate name", []string{"place dart dart0 at 1, 1", "place tack dart0 at 2, 2"}},
		{"unknown kind", []string{"place cannon c0 at 1, 1"}},
		{"unplaced unit", []string{"upgrade dart0 path 0"}},
		{"invalid path", []string{"place dart dart0 at 1, 1", "upgrade dart0 path 3"}},
		{"hero upgrade", []string{"place quincy q at 1, 1", "upgrade q path 0"}},
		{"retarget without position", []string{"place mortar m at 1, 1", "retarget m"}},
		{"discount over 100", []string{"place dart dart0 at 1, 1 with 150% discount"}},
		{"unknown removal price", []string{"remove obstacle at 5, 5 for ???"}},
		{"round zero", []string{"round 0"}},
		{"sold unit", []string{"place dart dart0 at 1, 1", "sell dart0", "special dart0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := feed(t, p, "logs#medium#1920x1080.btd6", tt.lines...)
			require.Len(t, s.Diagnostics, 1)
			assert.Equal(t, len(tt.lines), s.Diagnostics[0].Line)
			assert.Len(t, s.Actions, len(tt.lines)-1)
		})
	}
}

func TestBuilderUpgradeLegality(t *testing.T) {
	p := testParser(t)
	s := feed(t, p, "logs#medium#1920x1080.btd6",
		"place dart dart0 at 1, 1",
		"upgrade dart0 path 0",
		"upgrade dart0 path 0",
		"upgrade dart0 path 0",
		"upgrade dart0 path 1",
		"upgrade dart0 path 1",
		"upgrade dart0 path 1", // two paths above 2
		"upgrade dart0 path 2", // three active paths
		"upgrade dart0 path 0",
		"upgrade dart0 path 0",
		"upgrade dart0 path 0", // beyond 5
	)

	require.Len(t, s.Diagnostics, 3)
	assert.Equal(t, []int{7, 8, 11}, []int{s.Diagnostics[0].Line, s.Diagnostics[1].Line, s.Diagnostics[2].Line})

	dart, _ := s.Unit("dart0")
	assert.Equal(t, [3]int{5, 2, 0}, dart.Upgrades)
	assert.Equal(t, "5-2-0", UpgradeString(dart.Upgrades))

	// the fifth tier asks for confirmation
	last := s.Actions[len(s.Actions)-1]
	assert.Equal(t, ClickConfirm{Target: TargetParagonDialog, Unit: dart.ID}, last)
}

func TestBuilderConfirmationFromTable(t *testing.T) {
	p := testParser(t)
	s := feed(t, p, "logs#medium#1920x1080.btd6",
		"place super s0 at 1, 1",
		"upgrade s0 path 0",
		"upgrade s0 path 0",
		"upgrade s0 path 0",
		"upgrade s0 path 0",
	)
	assert.Equal(t, []string{"place", "upgrade", "upgrade", "upgrade", "upgrade", "click"}, kinds(s.Actions))
}

func TestBuilderSellRefund(t *testing.T) {
	p := testParser(t)
	s := feed(t, p, "logs#medium#1920x1080.btd6",
		"place dart dart0 at 1, 1",
		"upgrade dart0 path 0",
		"sell dart0",
	)
	require.Len(t, s.Actions, 3)
	// (200 + 140) * 0.7
	assert.Equal(t, -238, s.Actions[2].Cost())
	assert.Equal(t, 102, s.Cost())
}

func TestBuilderLineOfDefense(t *testing.T) {
	tables, err := data.NewLoader(nil).LoadTables()
	require.NoError(t, err)
	user := &data.User{
		MonkeyKnowledge:        map[string]bool{economy.FirstLastLineOfDefense: true},
		MonkeyKnowledgeEnabled: true,
	}
	p := NewParser(tables, economy.NewModel(user), nil)

	s := feed(t, p, "logs#medium#1920x1080.btd6",
		"place spike spike0 at 1, 1",
		"place spike spike1 at 2, 2",
	)
	assert.Equal(t, 850, s.Actions[0].Cost())
	assert.Equal(t, 1000, s.Actions[1].Cost())
}

func TestBuilderKeys(t *testing.T) {
	p := testParser(t)
	s := feed(t, p, "logs#medium#1920x1080.btd6",
		"place dart dart0 at 1, 1",
		"place quincy hero0 at 2, 2",
		"upgrade dart0 path 2",
		"special dart0",
	)
	assert.Equal(t, "q", s.Actions[0].(Place).Key)
	assert.Equal(t, "u", s.Actions[1].(Place).Key)
	assert.Equal(t, "/", s.Actions[2].(Upgrade).Key)
	assert.Equal(t, "page_down", s.Actions[3].(Special).Key)
}

func TestCompatible(t *testing.T) {
	tests := []struct {
		origin string
		group  string
		want   []string
	}{
		{"chimps", "", []string{"hard", "medium", "easy", "chimps"}},
		{"chimps", "primary", []string{"hard", "medium", "easy", "primary_only", "chimps"}},
		{"hard", "magic", []string{"medium", "easy", "magic_monkeys_only", "hard"}},
		{"medium", "magic", []string{"easy", "medium"}},
		{"medium", "military", []string{"easy", "military_only", "medium"}},
		{"easy", "primary", []string{"primary_only", "easy"}},
		{"primary_only", "primary", []string{"primary_only"}},
		{"primary_only", "", []string{"primary_only"}},
		{"magic_monkeys_only", "magic", []string{"hard", "medium", "easy", "magic_monkeys_only"}},
		{"deflation", "", []string{"deflation"}},
		{"impoppable", "support", []string{"hard", "medium", "easy", "impoppable"}},
	}
	for _, tt := range tests {
		t.Run(tt.origin+"/"+tt.group, func(t *testing.T) {
			got := Compatible(tt.origin, tt.group)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, got, tt.origin)
		})
	}
}

func TestSingleGroupAndKind(t *testing.T) {
	p := testParser(t)
	towers := p.Tables().Towers

	s := feed(t, p, "logs#medium#1920x1080.btd6",
		"place quincy hero0 at 1, 1",
		"place sniper a at 2, 2",
		"place sniper b at 3, 3",
		"upgrade b path 1",
	)
	assert.Equal(t, data.GroupMilitary, SingleGroup(s.Units, towers))
	assert.Equal(t, "sniper", SingleKind(s.Units))
	assert.Equal(t, map[string][3]int{"sniper": {0, 1, 0}}, UpgradeRequirements(s.Units))

	s = feed(t, p, "logs#medium#1920x1080.btd6",
		"place sniper a at 2, 2",
		"place wizard w at 3, 3",
	)
	assert.Equal(t, "", SingleGroup(s.Units, towers))
	assert.Equal(t, "", SingleKind(s.Units))

	assert.Equal(t, "", SingleGroup(nil, towers))
}
