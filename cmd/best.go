/*
Copyright © 2026 shinnku-nikaidou
*/
package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/shinnku-nikaidou/AutoBTD6/internal/catalog"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/selection"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/stats"
)

var bestCmd = &cobra.Command{
	Use:   "best [map]",
	Short: "Pick the playthrough to run next",
	Long: `Picks the most valuable playthrough for a map: the highest value gamemode
wins, ties go to playthroughs that need no monkey knowledge, then to the
fastest average win. Playthroughs that lost within --since are only picked
when every candidate has lost.

Without a map, every entry is ranked by XP or cash per hour instead.`,
	Args: cobra.MaximumNArgs(1),
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

		if len(args) == 0 {
			by, _ := cmd.Flags().GetString("rank")
			return printRanking(c, sel, by)
		}

		var runs *stats.RunLog
		if since, _ := cmd.Flags().GetDuration("since"); since > 0 && e.journal != nil {
			if runs, err = e.journal.RunLog(time.Now().Add(-since)); err != nil {
				return err
			}
		}

		entry, ok := sel.BestFor(c, args[0], runs, e.cfg.PreferNoMK)
		if !ok {
			return fmt.Errorf("no playthrough available for %s", args[0])
		}
		avg := "-"
		if t := sel.AverageTime(entry); t >= 0 {
			avg = fmt.Sprintf("%.0fs", t)
		}
		fmt.Println(renderTable(
			[]string{"Map", "Gamemode", "Value", "File", "Avg time", "XP/h", "Cash/h"},
			[][]string{{
				entry.Map(),
				entry.Gamemode,
				fmt.Sprint(e.tables.GamemodeValue(entry.Gamemode)),
				filepath.Base(entry.Filename),
				avg,
				fmt.Sprintf("%.0f", sel.XPPerHour(entry)),
				fmt.Sprintf("%.0f", sel.CashPerHour(entry)),
			}},
		))
		return nil
	},
}

func printRanking(c *catalog.Catalog, sel *selection.Selector, by string) error {
	var gain func(catalog.Entry) float64
	switch by {
	case "xp":
		gain = sel.XPPerHour
	case "cash":
		gain = sel.CashPerHour
	default:
		return fmt.Errorf("--rank must be xp or cash, got %q", by)
	}

	var rows [][]string
	for i, r := range selection.RankByGain(c.Flatten(), gain) {
		rows = append(rows, []string{
			fmt.Sprint(i + 1),
			r.Entry.Map(),
			r.Entry.Gamemode,
			filepath.Base(r.Entry.Filename),
			fmt.Sprintf("%.0f", r.Gain),
		})
	}
	if len(rows) == 0 {
		fmt.Println(dimStyle.Render("No playthroughs match."))
		return nil
	}
	fmt.Println(renderTable([]string{"#", "Map", "Gamemode", "File", by + "/h"}, rows))
	return nil
}

func init() {
	rootCmd.AddCommand(bestCmd)
	filterFlags(bestCmd)
	bestCmd.Flags().Duration("since", 12*time.Hour, "how far back journaled defeats count against a playthrough")
	bestCmd.Flags().String("rank", "xp", "gain to rank by without a map (xp or cash)")
}
