package cmd

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadBuildMeta(t *testing.T) {
	info := &debug.BuildInfo{
		GoVersion: "go1.24.7",
		Main:      debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "4f2c9e1"},
			{Key: "vcs.time", Value: "2026-10-01T08:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	m := readBuildMeta(info, true)
	assert.Equal(t, "v0.3.0", m.Version)
	assert.Equal(t, "4f2c9e1", m.Commit)
	assert.Equal(t, "2026-10-01T08:00:00Z", m.BuildDate)
	assert.True(t, m.Modified)
	assert.Equal(t, "go1.24.7", m.GoVersion)

	m = readBuildMeta(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true)
	assert.Equal(t, "dev", m.Version)
	assert.Equal(t, "none", m.Commit)

	m = readBuildMeta(nil, false)
	assert.Equal(t, "unknown", m.BuildDate)
	assert.NotEmpty(t, m.GoVersion)
}

func TestReadBuildMetaKeepsLinkerValues(t *testing.T) {
	Version, Commit = "v1.0.0", "abc123"
	t.Cleanup(func() { Version, Commit = "dev", "none" })

	m := readBuildMeta(&debug.BuildInfo{
		Main:     debug.Module{Version: "v0.9.0"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffff"}},
	}, true)
	assert.Equal(t, "v1.0.0", m.Version)
	assert.Equal(t, "abc123", m.Commit)
}
