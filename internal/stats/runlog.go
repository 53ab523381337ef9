package stats

// RunCount tallies the outcomes of one file on one gamemode during a session.
type RunCount struct {
	Attempts int `json:"attempts"`
	Wins     int `json:"wins"`
	Defeats  int `json:"defeats"`
}

// RunLog is the in-session record the selection engine consults. Unlike the
// Ledger it is never persisted.
type RunLog struct {
	runs map[string]map[string]*RunCount
}

func NewRunLog() *RunLog {
	return &RunLog{runs: make(map[string]map[string]*RunCount)}
}

// Record counts one attempt.
func (l *RunLog) Record(file, gamemode string, win bool) {
	byMode, ok := l.runs[file]
	if !ok {
		byMode = make(map[string]*RunCount)
		l.runs[file] = byMode
	}
	c, ok := byMode[gamemode]
	if !ok {
		c = &RunCount{}
		byMode[gamemode] = c
	}
	c.Attempts++
	if win {
		c.Wins++
	} else {
		c.Defeats++
	}
}

// Count returns the tally for file on gamemode.
func (l *RunLog) Count(file, gamemode string) RunCount {
	if l == nil {
		return RunCount{}
	}
	if c := l.runs[file][gamemode]; c != nil {
		return *c
	}
	return RunCount{}
}

// HadDefeats reports whether file lost at least once on gamemode this session.
func (l *RunLog) HadDefeats(file, gamemode string) bool {
	return l.Count(file, gamemode).Defeats > 0
}
