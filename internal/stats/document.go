// Package stats records playthrough outcomes and derives rewards from them.
package stats

import (
	"encoding/json"
	"fmt"
)

const (
	versionKey    = "version"
	validationKey = "validation_result"
)

// GamemodeStats are the outcomes of one file on one gamemode at one resolution.
type GamemodeStats struct {
	Attempts int `json:"attempts"`
	Wins     int `json:"wins"`
	// WinTimes holds the active play time of every win, in seconds.
	WinTimes []float64 `json:"win_times"`
}

// ResolutionStats is the ledger entry for one file at one resolution.
// It is stored as {"validation_result": bool, "<gamemode>": {...}}.
type ResolutionStats struct {
	// Validation is nil until a validation run has been recorded.
	Validation *bool
	Gamemodes  map[string]*GamemodeStats
}

func (r ResolutionStats) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Gamemodes)+1)
	for gm, s := range r.Gamemodes {
		out[gm] = s
	}
	if r.Validation != nil {
		out[validationKey] = *r.Validation
	}
	return json.Marshal(out)
}

func (r *ResolutionStats) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.Gamemodes = make(map[string]*GamemodeStats, len(raw))
	for key, value := range raw {
		if key == validationKey {
			if err := json.Unmarshal(value, &r.Validation); err != nil {
				return fmt.Errorf("%s: %w", validationKey, err)
			}
			continue
		}
		s := &GamemodeStats{}
		if err := json.Unmarshal(value, s); err != nil {
			return fmt.Errorf("gamemode %s: %w", key, err)
		}
		r.Gamemodes[key] = s
	}
	return nil
}

// FileStats is the ledger entry for one instruction file.
// It is stored as {"version": "...", "<W>x<H>": {...}}.
type FileStats struct {
	// Version is the bot version that recorded the last win.
	Version     string
	Resolutions map[string]*ResolutionStats
}

func (f FileStats) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(f.Resolutions)+1)
	for res, s := range f.Resolutions {
		out[res] = s
	}
	if f.Version != "" {
		out[versionKey] = f.Version
	}
	return json.Marshal(out)
}

func (f *FileStats) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	f.Resolutions = make(map[string]*ResolutionStats, len(raw))
	for key, value := range raw {
		if key == versionKey {
			// older ledgers store null when no version was known
			var v *string
			if err := json.Unmarshal(value, &v); err != nil {
				return fmt.Errorf("%s: %w", versionKey, err)
			}
			if v != nil {
				f.Version = *v
			}
			continue
		}
		s := &ResolutionStats{}
		if err := json.Unmarshal(value, s); err != nil {
			return fmt.Errorf("resolution %s: %w", key, err)
		}
		f.Resolutions[key] = s
	}
	return nil
}

// Document is the whole ledger keyed by instruction filename.
type Document map[string]*FileStats

// Encode renders the document the way it is stored.
func (d Document) Encode() ([]byte, error) {
	if d == nil {
		d = Document{}
	}
	return json.MarshalIndent(d, "", "    ")
}

// DecodeDocument parses a stored document. Empty input is an empty document.
func DecodeDocument(b []byte) (Document, error) {
	d := Document{}
	if len(b) == 0 {
		return d, nil
	}
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("failed to decode stats document: %w", err)
	}
	for file, fs := range d {
		if fs == nil {
			delete(d, file)
		}
	}
	return d, nil
}

func (d Document) resolution(file, res string, create bool) *ResolutionStats {
	fs, ok := d[file]
	if !ok {
		if !create {
			return nil
		}
		fs = &FileStats{Resolutions: make(map[string]*ResolutionStats)}
		d[file] = fs
	}
	if fs.Resolutions == nil {
		fs.Resolutions = make(map[string]*ResolutionStats)
	}
	rs, ok := fs.Resolutions[res]
	if !ok || rs == nil {
		if !create {
			return nil
		}
		rs = &ResolutionStats{Gamemodes: make(map[string]*GamemodeStats)}
		fs.Resolutions[res] = rs
	}
	if rs.Gamemodes == nil {
		rs.Gamemodes = make(map[string]*GamemodeStats)
	}
	return rs
}
