package stats

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultFile is the ledger file name used when none is configured.
const DefaultFile = "playthrough_stats.json"

// FileBackend keeps the ledger in a JSON file.
type FileBackend struct {
	Path string
}

func NewFileBackend(path string) *FileBackend {
	if path == "" {
		path = DefaultFile
	}
	return &FileBackend{Path: path}
}

// Load reads the ledger. A missing file is an empty ledger.
func (b *FileBackend) Load(_ context.Context) (Document, error) {
	raw, err := os.ReadFile(b.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", b.Path, err)
	}
	return DecodeDocument(raw)
}

// Save replaces the file with doc. The write goes through a temp file so a
// crash never leaves a truncated ledger behind.
func (b *FileBackend) Save(_ context.Context, doc Document) error {
	raw, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}

	dir := filepath.Dir(b.Path)
	tmp, err := os.CreateTemp(dir, ".stats-*.json")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), b.Path); err != nil {
		return fmt.Errorf("replace %s: %w", b.Path, err)
	}
	return nil
}
