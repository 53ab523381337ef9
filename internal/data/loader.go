package data

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaults embed.FS

// Loader handles reading the read-only static tables
type Loader struct {
	dataDirs []string
}

// NewLoader initializes a new Data Loader with the given data directory fallback hierarchy.
// The embedded defaults are consulted after every directory.
func NewLoader(dataDirs []string) *Loader {
	return &Loader{
		dataDirs: dataDirs,
	}
}

// LoadTables reads the map, gamemode, tower and keybind tables.
func (l *Loader) LoadTables() (*Tables, error) {
	t := &Tables{}
	if err := l.load("maps", &t.Maps); err != nil {
		return nil, err
	}
	if err := l.load("gamemodes", &t.Gamemodes); err != nil {
		return nil, err
	}
	if err := l.load("towers", &t.Towers); err != nil {
		return nil, err
	}
	if err := l.load("keybinds", &t.Keybinds); err != nil {
		return nil, err
	}
	if t.Maps == nil {
		t.Maps = make(map[string]Map)
	}
	if t.Gamemodes == nil {
		t.Gamemodes = make(map[string]Gamemode)
	}
	if t.Towers.Monkeys == nil {
		t.Towers.Monkeys = make(map[string]Tower)
	}
	if t.Towers.Heroes == nil {
		t.Towers.Heroes = make(map[string]Hero)
	}
	return t, nil
}

// LoadUser reads the user unlock state from path. A missing file yields an empty state.
func LoadUser(path string) (*User, error) {
	u := &User{}
	f, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to open user config %s: %w", path, err)
	default:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(u); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode user config %s: %w", path, err)
		}
	}

	if u.MonkeyKnowledge == nil {
		u.MonkeyKnowledge = make(map[string]bool)
	}
	if u.Heroes == nil {
		u.Heroes = make(map[string]bool)
	}
	if u.UnlockedMaps == nil {
		u.UnlockedMaps = make(map[string]bool)
	}
	if u.Medals == nil {
		u.Medals = make(map[string]map[string]bool)
	}
	return u, nil
}

// load decodes the first "<name>.yaml" or "<name>.json" found in the data
// directories, falling back to the embedded defaults. yaml.v3 reads both.
func (l *Loader) load(name string, target interface{}) error {
	for _, dir := range l.dataDirs {
		for _, ext := range []string{".yaml", ".json"} {
			path := filepath.Join(dir, name+ext)
			f, err := os.Open(path)
			if err != nil {
				continue
			}
			defer f.Close()
			if err := yaml.NewDecoder(f).Decode(target); err != nil {
				return fmt.Errorf("failed to decode table %s: %w", path, err)
			}
			return nil
		}
	}

	f, err := defaults.Open("defaults/" + name + ".yaml")
	if err != nil {
		return fmt.Errorf("could not find table %s in any available data directory", name)
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(target); err != nil {
		return fmt.Errorf("failed to decode embedded table %s: %w", name, err)
	}
	return nil
}
