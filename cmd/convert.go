/*
Copyright © 2026 shinnku-nikaidou
*/
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/shinnku-nikaidou/AutoBTD6/internal/playthrough"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/position"
)

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Rescale playthrough files to another resolution",
	Long: `Writes a copy of a playthrough file with every position rescaled to the
target resolution. With --all every playthrough in a directory is converted.
Existing files are never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		toFlag, _ := cmd.Flags().GetString("to")
		to, err := position.ParseResolution(toFlag)
		if err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}
		outDir, _ := cmd.Flags().GetString("out")
		allDir, _ := cmd.Flags().GetString("all")

		switch {
		case allDir != "":
			return convertAll(allDir, to, outDir)
		case len(args) == 1:
			target, err := playthrough.ConvertFile(args[0], to, outDir)
			if err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", target)
			return nil
		}
		return errors.New("must specify either [file] or --all")
	},
}

func convertAll(dir string, to position.Resolution, outDir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var files []string
	for _, f := range entries {
		if f.IsDir() {
			continue
		}
		path := filepath.Join(dir, f.Name())
		id, err := playthrough.Decode(path)
		if err != nil || id.Resolution == to {
			continue
		}
		files = append(files, path)
	}

	bar := progressbar.Default(int64(len(files)), "Converting")
	converted, skipped := 0, 0
	for _, path := range files {
		if _, err := playthrough.ConvertFile(path, to, outDir); err != nil {
			if !errors.Is(err, playthrough.ErrTargetExists) {
				return err
			}
			slog.Debug("conversion target exists", "file", path, "error", err)
			skipped++
		} else {
			converted++
		}
		_ = bar.Add(1)
	}

	fmt.Printf("\nConverted %d files to %s, %d already present.\n", converted, to, skipped)
	return nil
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().String("to", "", "target resolution, e.g. 2560x1440")
	convertCmd.Flags().String("out", "", "directory to write to (default: next to the source)")
	convertCmd.Flags().String("all", "", "convert every playthrough in this directory")
	_ = convertCmd.MarkFlagRequired("to")
}
