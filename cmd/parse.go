/*
Copyright © 2026 shinnku-nikaidou
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinnku-nikaidou/AutoBTD6/internal/playthrough"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Price every step of a playthrough file",
	Long: `Parses a playthrough file for the configured resolution and prints each
resulting step with its price, the final state of every placed unit and the
lines that were skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		opts := playthrough.Options{Resolution: e.cfg.Resolution}
		opts.Gamemode, _ = cmd.Flags().GetString("gamemode")
		opts.NoRescale, _ = cmd.Flags().GetBool("no-rescale")

		s, err := e.parser.ParseFile(args[0], opts)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Map         string                   `json:"map"`
				Gamemode    string                   `json:"gamemode"`
				Hero        string                   `json:"hero,omitempty"`
				Cost        int                      `json:"cost"`
				Steps       []string                 `json:"steps"`
				Units       []playthrough.PlacedUnit `json:"units"`
				Diagnostics []playthrough.Diagnostic `json:"diagnostics"`
			}{s.Map, s.Gamemode, s.Hero, s.Cost(), steps(s), s.Units, s.Diagnostics})
		}

		var rows [][]string
		for i, a := range s.Actions {
			rows = append(rows, []string{fmt.Sprint(i + 1), a.Kind(), a.String(), fmt.Sprint(a.Cost())})
		}
		fmt.Println(headerStyle.Render(fmt.Sprintf("%s / %s (%s)", s.Map, s.Gamemode, s.Category)))
		fmt.Println(renderTable([]string{"#", "Kind", "Step", "Cost"}, rows))

		var units [][]string
		for _, u := range s.Units {
			state := "active"
			if u.Sold {
				state = "sold"
			}
			units = append(units, []string{u.Name, u.Kind, u.Pos.String(), playthrough.UpgradeString(u.Upgrades), fmt.Sprint(u.Value), state})
		}
		if len(units) > 0 {
			fmt.Println(renderTable([]string{"Name", "Kind", "Position", "Upgrades", "Value", "State"}, units))
		}

		fmt.Printf("Total cost: %d\n", s.Cost())
		for _, d := range s.Diagnostics {
			fmt.Println(dimStyle.Render("skipped " + d.String()))
		}
		return nil
	},
}

func steps(s *playthrough.Script) []string {
	out := make([]string, len(s.Actions))
	for i, a := range s.Actions {
		out[i] = a.String()
	}
	return out
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().String("gamemode", "", "price for this gamemode instead of the recorded one")
	parseCmd.Flags().Bool("no-rescale", false, "fail instead of rescaling positions to the configured resolution")
	parseCmd.Flags().Bool("json", false, "print JSON")
}
