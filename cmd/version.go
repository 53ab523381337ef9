/*
Copyright © 2026 shinnku-nikaidou
*/
package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var (
	// Version is set with -ldflags at release time. It also tags winning runs in the stats ledger.
	Version = "dev"
	// Commit is set with -ldflags at release time, or read from the embedded VCS info.
	Commit = "none"
	// BuildDate is set with -ldflags at release time, or read from the embedded VCS info.
	BuildDate = "unknown"
)

type buildMeta struct {
	Version   string
	Commit    string
	BuildDate string
	Modified  bool
	GoVersion string
}

// readBuildMeta fills whatever ldflags left unset from the build info
// the go tool embeds.
func readBuildMeta(info *debug.BuildInfo, ok bool) buildMeta {
	m := buildMeta{Version: Version, Commit: Commit, BuildDate: BuildDate, GoVersion: runtime.Version()}
	if !ok || info == nil {
		return m
	}
	m.GoVersion = info.GoVersion
	if m.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		m.Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if m.Commit == "none" {
				m.Commit = s.Value
			}
		case "vcs.time":
			if m.BuildDate == "unknown" {
				m.BuildDate = s.Value
			}
		case "vcs.modified":
			m.Modified = s.Value == "true"
		}
	}
	return m
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the application version",
	Long:  `Prints the version autobtd6 tags winning runs with, together with the commit and toolchain it was built from.`,
	Run: func(cmd *cobra.Command, args []string) {
		m := readBuildMeta(debug.ReadBuildInfo())
		commit := m.Commit
		if m.Modified {
			commit += " (modified)"
		}
		fmt.Printf("autobtd6 %s\n", m.Version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", m.BuildDate)
		fmt.Printf("Go: %s %s/%s\n", m.GoVersion, runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
