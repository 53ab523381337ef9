/*
Copyright © 2026 shinnku-nikaidou
*/
package cmd

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shinnku-nikaidou/AutoBTD6/internal/playthrough"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/report"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/selection"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Inspect and update the playthrough run record",
}

var statsShowCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Print recorded attempts, wins and validation per resolution",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		files := e.ledger.Files()
		if len(args) == 1 {
			files = []string{args[0]}
		}

		doc := e.ledger.Document()
		var rows [][]string
		for _, file := range files {
			fs, ok := doc[file]
			if !ok {
				continue
			}
			for _, res := range slices.Sorted(maps.Keys(fs.Resolutions)) {
				rs := fs.Resolutions[res]
				if rs == nil {
					continue
				}
				validation := "unvalidated"
				if rs.Validation != nil {
					validation = map[bool]string{true: "valid", false: "invalid"}[*rs.Validation]
				}
				if len(rs.Gamemodes) == 0 {
					rows = append(rows, []string{filepath.Base(file), res, validation, "-", "0", "0", "-"})
				}
				for _, gm := range slices.Sorted(maps.Keys(rs.Gamemodes)) {
					gs := rs.Gamemodes[gm]
					rows = append(rows, []string{
						filepath.Base(file), res, validation, gm,
						fmt.Sprint(gs.Attempts), fmt.Sprint(gs.Wins), formatAverage(gs.WinTimes),
					})
				}
			}
		}
		if len(rows) == 0 {
			fmt.Println(dimStyle.Render("Nothing recorded."))
			return nil
		}
		fmt.Println(renderTable([]string{"File", "Resolution", "Validation", "Gamemode", "Attempts", "Wins", "Avg time"}, rows))
		return nil
	},
}

func formatAverage(times []float64) string {
	if len(times) == 0 {
		return "-"
	}
	total := 0.0
	for _, t := range times {
		total += t
	}
	return fmt.Sprintf("%.0fs", total/float64(len(times)))
}

var statsValidateCmd = &cobra.Command{
	Use:   "validate [file] [valid|invalid]",
	Short: "Store the result of a validation run at the configured resolution",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var valid bool
		switch strings.ToLower(args[1]) {
		case "valid", "true", "yes":
			valid = true
		case "invalid", "false", "no":
		default:
			return fmt.Errorf("result must be valid or invalid, got %q", args[1])
		}

		e, err := loadEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		if _, err := playthrough.Decode(args[0]); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		if err := e.ledger.SetValidation(cmd.Context(), args[0], e.cfg.Resolution, valid); err != nil {
			return err
		}
		fmt.Printf("%s is %s at %s\n", filepath.Base(args[0]), e.ledger.Validation(args[0], e.cfg.Resolution), e.cfg.Resolution)
		return nil
	},
}

var statsRecordCmd = &cobra.Command{
	Use:   "record [file]",
	Short: "Record one attempt of a playthrough",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		id, err := playthrough.Decode(args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		run := stats.Run{Gamemode: id.Gamemode}
		if gm, _ := cmd.Flags().GetString("gamemode"); gm != "" {
			run.Gamemode = gm
		}
		run.Win, _ = cmd.Flags().GetBool("win")
		if run.Win {
			played, _ := cmd.Flags().GetDuration("time")
			end := time.Now()
			run.Timeline.Start(end.Add(-played))
			run.Timeline.Stop(end)
		}

		if err := e.ledger.RecordRun(cmd.Context(), args[0], e.cfg.Resolution, run); err != nil {
			return err
		}
		totals := e.ledger.Totals(args[0], run.Gamemode)
		fmt.Printf("%s on %s: %d attempts, %d wins\n", filepath.Base(args[0]), run.Gamemode, totals.Attempts, totals.Wins)
		return nil
	},
}

var statsHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the journal of runs and validations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()
		if e.journal == nil {
			return fmt.Errorf("the run journal is disabled")
		}

		entries, err := e.journal.Load()
		if err != nil {
			return err
		}
		var rows [][]string
		for _, entry := range entries {
			switch en := entry.(type) {
			case *stats.RunEntry:
				outcome := "defeat"
				if en.Win {
					outcome = fmt.Sprintf("win in %.0fs", en.Seconds)
				}
				rows = append(rows, []string{en.At.Local().Format(time.DateTime), filepath.Base(en.File), en.Resolution, en.Gamemode, outcome})
			case *stats.ValidationEntry:
				outcome := "invalid"
				if en.Valid {
					outcome = "valid"
				}
				rows = append(rows, []string{en.At.Local().Format(time.DateTime), filepath.Base(en.File), en.Resolution, "-", outcome})
			}
		}
		if len(rows) == 0 {
			fmt.Println(dimStyle.Render("Nothing recorded."))
			return nil
		}
		fmt.Println(renderTable([]string{"At", "File", "Resolution", "Gamemode", "Outcome"}, rows))
		return nil
	},
}

var statsReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a PDF of XP and cash per hour for every playthrough",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		c, err := filteredCatalog(cmd, e)
		if err != nil {
			return err
		}
		sel := selection.NewSelector(e.tables, e.ledger)
		rows := report.Collect(c.Flatten(), sel, e.ledger)

		pdf, err := report.Generate(rows, "Playthrough stats", time.Now())
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("out")
		if err := os.WriteFile(out, pdf, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		fmt.Printf("Wrote %d entries to %s\n", len(rows), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.AddCommand(statsShowCmd, statsValidateCmd, statsRecordCmd, statsHistoryCmd, statsReportCmd)

	statsRecordCmd.Flags().String("gamemode", "", "gamemode played (default: the recorded one)")
	statsRecordCmd.Flags().Bool("win", false, "the attempt was won")
	statsRecordCmd.Flags().Duration("time", 0, "active play time of a win, e.g. 14m30s")

	filterFlags(statsReportCmd)
	statsReportCmd.Flags().String("out", "playthrough_stats.pdf", "PDF file to write")
}
