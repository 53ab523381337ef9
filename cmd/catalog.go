/*
Copyright © 2026 shinnku-nikaidou
*/
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/shinnku-nikaidou/AutoBTD6/internal/catalog"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
)

// filterFlags registers the catalog filter flags on cmd.
func filterFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("consider-user", false, "drop maps, heroes and gamemodes the user has not unlocked")
	cmd.Flags().String("category", "", "only maps of this category")
	cmd.Flags().String("gamemode", "", "only this gamemode")
	cmd.Flags().StringSlice("hero", nil, "allowed heroes")
	cmd.Flags().StringSlice("flag", nil, "required filename flags (noMK, noLL, ...)")
	cmd.Flags().Bool("original", false, "only the gamemode each file was recorded on")
	cmd.Flags().String("validated", "", "only validated (yes) or unvalidated (no) playthroughs")
	cmd.Flags().String("where", "", "CEL expression over entry and stats")
}

// filteredCatalog discovers playthroughs and applies the filter flags of cmd.
func filteredCatalog(cmd *cobra.Command, e *env) (*catalog.Catalog, error) {
	considerUser, _ := cmd.Flags().GetBool("consider-user")
	all, err := e.library.Discover(e.cfg.PlaythroughDirs, considerUser)
	if err != nil {
		return nil, err
	}

	f := catalog.Filter{
		MonkeyKnowledge: e.cfg.MonkeyKnowledge,
		Resolution:      e.cfg.Resolution,
	}
	f.Category, _ = cmd.Flags().GetString("category")
	f.Gamemode, _ = cmd.Flags().GetString("gamemode")
	f.Heroes, _ = cmd.Flags().GetStringSlice("hero")
	f.RequiredFlags, _ = cmd.Flags().GetStringSlice("flag")
	f.OriginalOnly, _ = cmd.Flags().GetBool("original")
	f.Where, _ = cmd.Flags().GetString("where")

	switch v, _ := cmd.Flags().GetString("validated"); v {
	case "":
	case "yes":
		f.Validation = catalog.OnlyValidated
	case "no":
		f.Validation = catalog.OnlyUnvalidated
	default:
		return nil, fmt.Errorf("--validated must be yes or no, got %q", v)
	}

	return e.library.Filter(all, f)
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#874BFD"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Render()
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the playthroughs available for each map and gamemode",
	Long: `Discovers every playthrough file in the configured directories, offers
each one for all the gamemodes it is compatible with and prints what is left
after filtering.`,
	Args: cobra.NoArgs,
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
		if c.Len() == 0 {
			fmt.Println(dimStyle.Render("No playthroughs match."))
			return nil
		}

		var rows [][]string
		for _, entry := range c.Flatten() {
			origin := ""
			if entry.Original {
				origin = "*"
			}
			avg := "-"
			if t := e.library.AverageTime(entry); t >= 0 {
				avg = fmt.Sprintf("%.0fs", t)
			}
			rows = append(rows, []string{
				entry.Map(),
				entry.Gamemode + origin,
				filepath.Base(entry.Filename),
				e.library.Validation(entry, e.cfg.Resolution).String(),
				avg,
			})
		}
		fmt.Println(renderTable([]string{"Map", "Gamemode", "File", "Validation", "Avg time"}, rows))
		fmt.Println(dimStyle.Render(fmt.Sprintf("%d entries on %d maps (* recorded gamemode)", c.Len(), len(c.Maps()))))
		return nil
	},
}

var sandboxCmd = &cobra.Command{
	Use:   "sandbox [map] [gamemode...]",
	Short: "Print the first sandbox gamemode the user's medals open on a map",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		gm, ok := e.library.AvailableSandbox(args[0], args[1:]...)
		if !ok {
			return fmt.Errorf("no sandbox available on %s", args[0])
		}
		fmt.Println(gm)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(sandboxCmd)
	filterFlags(catalogCmd)
}
