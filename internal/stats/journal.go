package stats

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// DefaultJournal is the journal file name used when none is configured.
const DefaultJournal = "playthrough_runs.jsonl"

// EntryType names a journal record.
type EntryType string

const (
	EntryRun        EntryType = "run"
	EntryValidation EntryType = "validation"
)

// Entry is one journal record.
type Entry interface {
	Type() EntryType
	Time() time.Time
}

// RunEntry records one attempt.
type RunEntry struct {
	File       string    `json:"file"`
	Resolution string    `json:"resolution"`
	Gamemode   string    `json:"gamemode"`
	Win        bool      `json:"win"`
	Seconds    float64   `json:"seconds,omitempty"`
	At         time.Time `json:"at"`
}

func (e *RunEntry) Type() EntryType { return EntryRun }
func (e *RunEntry) Time() time.Time { return e.At }

// ValidationEntry records a validation result.
type ValidationEntry struct {
	File       string    `json:"file"`
	Resolution string    `json:"resolution"`
	Valid      bool      `json:"valid"`
	At         time.Time `json:"at"`
}

func (e *ValidationEntry) Type() EntryType { return EntryValidation }
func (e *ValidationEntry) Time() time.Time { return e.At }

// entryWrapper tags a serialized entry with its type.
type entryWrapper struct {
	Type  EntryType       `json:"type"`
	Entry json.RawMessage `json:"data"`
}

// Journal is an append-only JSON lines history of every run and validation.
type Journal struct {
	file *os.File
}

// OpenJournal opens or creates the journal at path for appending.
func OpenJournal(path string) (*Journal, error) {
	if path == "" {
		path = DefaultJournal
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return &Journal{file: file}, nil
}

// Append writes one entry and syncs the file.
func (j *Journal) Append(e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	line, err := json.Marshal(entryWrapper{Type: e.Type(), Entry: data})
	if err != nil {
		return err
	}
	if _, err := j.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append to journal: %w", err)
	}
	return j.file.Sync()
}

// Load reads every entry in the order it was written.
func (j *Journal) Load() ([]Entry, error) {
	if _, err := j.file.Seek(0, 0); err != nil {
		return nil, err
	}

	var entries []Entry
	scanner := bufio.NewScanner(j.file)
	for scanner.Scan() {
		var wrapper entryWrapper
		if err := json.Unmarshal(scanner.Bytes(), &wrapper); err != nil {
			return nil, fmt.Errorf("failed to decode journal line: %w", err)
		}

		var e Entry
		switch wrapper.Type {
		case EntryRun:
			e = &RunEntry{}
		case EntryValidation:
			e = &ValidationEntry{}
		default:
			return nil, fmt.Errorf("unknown entry type in journal: %s", wrapper.Type)
		}
		if err := json.Unmarshal(wrapper.Entry, e); err != nil {
			return nil, fmt.Errorf("failed to parse %s entry: %w", wrapper.Type, err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// RunLog replays the runs recorded at or after since.
func (j *Journal) RunLog(since time.Time) (*RunLog, error) {
	entries, err := j.Load()
	if err != nil {
		return nil, err
	}
	log := NewRunLog()
	for _, e := range entries {
		run, ok := e.(*RunEntry)
		if !ok || run.At.Before(since) {
			continue
		}
		log.Record(run.File, run.Gamemode, run.Win)
	}
	return log, nil
}

// Close closes the journal file.
func (j *Journal) Close() error {
	return j.file.Close()
}
