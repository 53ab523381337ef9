// Package catalog discovers instruction files and indexes them by map and gamemode.
package catalog

import (
	"github.com/shinnku-nikaidou/AutoBTD6/internal/playthrough"
)

// Entry is one instruction file offered for one compatible gamemode.
type Entry struct {
	Filename string
	Identity playthrough.Identity
	// Gamemode is the gamemode the entry is offered for.
	Gamemode string
	// Original is set when Gamemode is the one the file was recorded on.
	Original bool
}

// Map is the name of the map the entry plays on.
func (e Entry) Map() string {
	return e.Identity.Map
}

type mapIndex struct {
	gamemodes []string
	entries   map[string][]Entry
}

// Catalog indexes entries by map, then gamemode. Maps, gamemodes and entries
// keep the order they were added in.
type Catalog struct {
	maps  []string
	index map[string]*mapIndex
}

func New() *Catalog {
	return &Catalog{index: make(map[string]*mapIndex)}
}

// Add appends an entry.
func (c *Catalog) Add(e Entry) {
	m, ok := c.index[e.Map()]
	if !ok {
		m = &mapIndex{entries: make(map[string][]Entry)}
		c.index[e.Map()] = m
		c.maps = append(c.maps, e.Map())
	}
	if _, ok := m.entries[e.Gamemode]; !ok {
		m.gamemodes = append(m.gamemodes, e.Gamemode)
	}
	m.entries[e.Gamemode] = append(m.entries[e.Gamemode], e)
}

// Maps lists the maps with at least one entry.
func (c *Catalog) Maps() []string {
	return c.maps
}

// Gamemodes lists the gamemodes offered on mapName.
func (c *Catalog) Gamemodes(mapName string) []string {
	if m, ok := c.index[mapName]; ok {
		return m.gamemodes
	}
	return nil
}

// Entries lists the entries for mapName on gamemode.
func (c *Catalog) Entries(mapName, gamemode string) []Entry {
	if m, ok := c.index[mapName]; ok {
		return m.entries[gamemode]
	}
	return nil
}

// ForMap lists every entry on mapName, gamemode by gamemode.
func (c *Catalog) ForMap(mapName string) []Entry {
	m, ok := c.index[mapName]
	if !ok {
		return nil
	}
	var out []Entry
	for _, gm := range m.gamemodes {
		out = append(out, m.entries[gm]...)
	}
	return out
}

// Flatten lists every entry in catalog order.
func (c *Catalog) Flatten() []Entry {
	var out []Entry
	for _, name := range c.maps {
		out = append(out, c.ForMap(name)...)
	}
	return out
}

// Len counts the entries.
func (c *Catalog) Len() int {
	n := 0
	for _, m := range c.index {
		for _, es := range m.entries {
			n += len(es)
		}
	}
	return n
}
