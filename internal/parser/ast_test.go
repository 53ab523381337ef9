package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlace(t *testing.T) {
	p := Build()

	line, err := p.ParseString("", "place dart dart0 at 1000, 520")
	require.NoError(t, err)
	require.NotNil(t, line.Place)

	assert.Equal(t, "dart", line.Place.Kind)
	assert.Equal(t, "dart0", line.Place.Name)
	assert.Equal(t, Pos{X: 1000, Y: 520}, line.Place.At)
	assert.Nil(t, line.Place.Discount)

	line, err = p.ParseString("", "place quincy hero at 10, 20 with 15% discount")
	require.NoError(t, err)
	require.NotNil(t, line.Place.Discount)
	assert.Equal(t, 15, *line.Place.Discount)
}

func TestParseUpgrade(t *testing.T) {
	p := Build()

	line, err := p.ParseString("", "upgrade dart0 path 2 with 100% discount")
	require.NoError(t, err)
	require.NotNil(t, line.Upgrade)
	assert.Equal(t, "dart0", line.Upgrade.Name)
	assert.Equal(t, 2, line.Upgrade.Path)
	assert.Equal(t, 100, *line.Upgrade.Discount)
}

func TestParseRetarget(t *testing.T) {
	p := Build()

	t.Run("cycle", func(t *testing.T) {
		line, err := p.ParseString("", "retarget sniper0")
		require.NoError(t, err)
		require.NotNil(t, line.Retarget)
		assert.Nil(t, line.Retarget.To)
	})

	t.Run("position", func(t *testing.T) {
		line, err := p.ParseString("", "retarget mortar0 to 300, 400")
		require.NoError(t, err)
		require.NotNil(t, line.Retarget.To)
		assert.Equal(t, Pos{X: 300, Y: 400}, *line.Retarget.To)
	})
}

func TestParseRemove(t *testing.T) {
	p := Build()

	line, err := p.ParseString("", "remove obstacle at 5, 6 for 500")
	require.NoError(t, err)
	require.NotNil(t, line.Remove)
	assert.Equal(t, 500, *line.Remove.Price)
	assert.False(t, line.Remove.Unknown)

	line, err = p.ParseString("", "remove obstacle at 5, 6 for ???")
	require.NoError(t, err)
	assert.Nil(t, line.Remove.Price)
	assert.True(t, line.Remove.Unknown)
}

func TestParseSimpleInstructions(t *testing.T) {
	p := Build()

	line, err := p.ParseString("", "special village0")
	require.NoError(t, err)
	assert.Equal(t, "village0", line.Special.Name)

	line, err = p.ParseString("", "sell farm0")
	require.NoError(t, err)
	assert.Equal(t, "farm0", line.Sell.Name)

	line, err = p.ParseString("", "round 40")
	require.NoError(t, err)
	assert.Equal(t, 40, line.Round.Round)

	line, err = p.ParseString("", "speed fast")
	require.NoError(t, err)
	assert.Equal(t, "fast", line.Speed.Speed)
}

func TestParseRejectsMalformed(t *testing.T) {
	p := Build()

	for _, input := range []string{
		"",
		"Place dart dart0 at 1, 2",
		"place dart at 1, 2",
		"upgrade dart0 path",
		"round -3",
		"sell",
		"jump dart0",
		"place dart dart0 at 1, 2 with 10% off",
		"place dart dart0 at 1,2",
		"place dart dart0 at 1 , 2",
		"place dart dart0 at 1,  2",
		"retarget mortar0 to 3,4",
		"remove obstacle at 5 ,6 for 100",
	} {
		_, err := p.ParseString("", input)
		assert.Error(t, err, input)
	}
}

func TestParseFileName(t *testing.T) {
	p := BuildFileName()

	fn, err := p.ParseString("", "monkey_lane#chimps#2560x1440#noMK.btd6")
	require.NoError(t, err)
	assert.Equal(t, "monkey_lane", fn.Map)
	assert.Equal(t, "chimps", fn.Gamemode)
	assert.Equal(t, "2560x1440", fn.Resolution)
	assert.Equal(t, []string{"noMK"}, fn.Flags)

	fn, err = p.ParseString("", "logs#easy#1920x1080.btd6")
	require.NoError(t, err)
	assert.Empty(t, fn.Flags)

	fn, err = p.ParseString("", "logs#easy#1920x1080#noLL#some note v1.2.btd6")
	require.NoError(t, err)
	assert.Equal(t, []string{"noLL", "#", "some", " ", "note", " ", "v1", ".", "2"}, fn.Flags)

	for _, bad := range []string{"logs#easy.btd6", "logs#easy#1920x1080.txt", "readme.md", "logs#easy#1920x1080.btd6.bak"} {
		_, err := p.ParseString("", bad)
		assert.Error(t, err, bad)
	}
}

func TestMapError(t *testing.T) {
	err := MapError("upgrade x", assert.AnError)
	assert.Contains(t, err.Error(), "upgrade <name> path <0-2>")
	assert.ErrorIs(t, err, assert.AnError)

	err = MapError("jump x", assert.AnError)
	assert.Contains(t, err.Error(), "unknown instruction")
}
