package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mamadbah2/stoktrack/internal/domain/models"
)

var _ Backend = (*FileBackend)(nil)

// FileBackend stores the snapshot as a single JSON file on local disk.
type FileBackend struct {
	path string
}

// NewFileBackend builds a file-backed snapshot store at path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// ReadSnapshot loads and decodes the snapshot file. A missing file is not an
// error; it just means no snapshot was written yet.
func (f *FileBackend) ReadSnapshot(_ context.Context) (models.Snapshot, bool, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.Snapshot{}, false, nil
		}
		return models.Snapshot{}, false, fmt.Errorf("read %s: %w", f.path, err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return models.Snapshot{}, false, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return snap, true, nil
}

// WriteSnapshot serializes the snapshot and replaces the file atomically so
// a crash mid-write never leaves a truncated snapshot behind.
func (f *FileBackend) WriteSnapshot(_ context.Context, snap models.Snapshot) error {
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "snapshot-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

func readSeedFile(path string) (models.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("read seed %s: %w", path, err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("decode seed %s: %w", path, err)
	}
	return snap, nil
}
