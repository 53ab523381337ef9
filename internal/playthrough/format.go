package playthrough

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/shinnku-nikaidou/AutoBTD6/internal/position"
)

// Format renders the script back into instruction file text. Synthetic
// confirmation clicks are left out.
func Format(s *Script) string {
	var b strings.Builder
	for _, a := range s.Actions {
		line := formatAction(a)
		if line == "" {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func withDiscount(line string, d *int) string {
	if d == nil {
		return line
	}
	return fmt.Sprintf("%s with %d%% discount", line, *d)
}

func formatAction(a Action) string {
	switch a := a.(type) {
	case Place:
		return withDiscount(fmt.Sprintf("place %s %s at %s", a.Type, a.Name, a.Pos), a.Discount)
	case Upgrade:
		return withDiscount(fmt.Sprintf("upgrade %s path %d", a.Name, a.Path), a.Discount)
	case Retarget:
		if a.To != nil {
			return fmt.Sprintf("retarget %s to %s", a.Name, *a.To)
		}
		return "retarget " + a.Name
	case Special:
		return "special " + a.Name
	case Sell:
		return "sell " + a.Name
	case RemoveObstacle:
		return fmt.Sprintf("remove obstacle at %s for %d", a.Pos, a.Price)
	case AwaitRound:
		return fmt.Sprintf("round %d", a.Round)
	case SetSpeed:
		return "speed " + a.Speed
	}
	return ""
}

// Save writes the script into dir under its canonical filename and returns the path.
// An existing file is never overwritten.
func Save(dir string, s *Script) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := s.Identity.Filename(dir)
	if err := writeNew(path, Format(s)); err != nil {
		return "", err
	}
	return path, nil
}

// ConvertFile rescales every position in the instruction file at path to
// resolution to and writes the result next to it, or into outDir when set.
// It returns the new file's path.
func ConvertFile(path string, to position.Resolution, outDir string) (string, error) {
	id, err := Decode(path)
	if err != nil {
		return "", err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read playthrough %s: %w", path, err)
	}

	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	target := id.WithResolution(to).Filename(outDir)
	if err := writeNew(target, position.RescaleString(string(raw), id.Resolution, to)); err != nil {
		return "", err
	}
	return target, nil
}

func writeNew(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", ErrTargetExists, path)
	}
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
