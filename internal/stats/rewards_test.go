package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTotalXP(t *testing.T) {
	tests := []struct {
		round int
		want  float64
	}{
		{-1, 0},
		{0, 20},
		{5, 420},
		{20, 4620},
		{40, 21420},
		{60, 56970},
		{100, 231570},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundTotalXP(tt.round), "round %d", tt.round)
	}
}

func TestXP(t *testing.T) {
	assert.Equal(t, 21400.0, XP("easy", "beginner"))
	assert.Equal(t, 21400.0, XP("primary_only", "beginner"))
	assert.InDelta(t, 23540.0, XP("easy", "intermediate"), 1e-6)
	assert.Equal(t, 56950.0, XP("medium", "beginner"))
	assert.InDelta(t, 231150.0*1.3, XP("chimps", "expert"), 1e-6)
	assert.Equal(t, 0.0, XP("sandbox", "beginner"))
}

func TestCash(t *testing.T) {
	assert.Equal(t, 15, Cash("easy", "beginner"))
	assert.Equal(t, 100, Cash("medium", "expert"))
	assert.Equal(t, 120, Cash("hard", "advanced"))
	assert.Equal(t, 240, Cash("impoppable", "expert"))
	assert.Equal(t, 0, Cash("impoppable", "unknown"))
	assert.Equal(t, 0, Cash("", "beginner"))
}

func TestPerHour(t *testing.T) {
	assert.Equal(t, 642000.0, PerHour(21400, 120))
	assert.Equal(t, 0.0, PerHour(21400, -1))
	assert.Equal(t, 0.0, PerHour(21400, 0))
}

func TestRunLog(t *testing.T) {
	log := NewRunLog()
	assert.False(t, log.HadDefeats("a", "easy"))

	log.Record("a", "easy", true)
	assert.False(t, log.HadDefeats("a", "easy"))

	log.Record("a", "easy", false)
	assert.True(t, log.HadDefeats("a", "easy"))
	assert.False(t, log.HadDefeats("a", "hard"))
	assert.Equal(t, RunCount{Attempts: 2, Wins: 1, Defeats: 1}, log.Count("a", "easy"))

	var none *RunLog
	assert.False(t, none.HadDefeats("a", "easy"))
}
