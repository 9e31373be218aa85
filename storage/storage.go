// Package storage persists the cashbook snapshot, either as a JSON file or
// inside a bbolt database.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/cashbook"
	"github.com/rs/zerolog"
)

// Storage reads and writes one snapshot. Load returns nil data when nothing
// was ever saved.
type Storage interface {
	Load() ([]byte, error)
	Save(data []byte) error
	Close() error
}

// Open returns the storage of the given kind ("file" or "bolt") at path.
func Open(kind, path string) (Storage, error) {
	switch strings.ToLower(kind) {
	case "", "file":
		return NewFileStorage(path), nil
	case "bolt":
		s, err := NewBoltStorage(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage kind %q", kind)
	}
}

// FileStorage keeps the snapshot as a JSON file.
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage { return &FileStorage{path: path} }

// Path returns the snapshot file path.
func (s *FileStorage) Path() string { return s.path }

func (s *FileStorage) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return data, nil
}

// Save writes data to a temporary file next to the snapshot and renames it,
// so that the snapshot is never half written.
func (s *FileStorage) Save(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %q: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary snapshot: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

func (s *FileStorage) Close() error { return nil }

// Keeper opens ledgers backed by a Storage.
type Keeper struct {
	Storage Storage
	Log     zerolog.Logger
}

// Load reads the snapshot and opens a ledger that saves back to the storage.
//
// The ledger is never nil: an unreadable storage or snapshot yields the
// default book. The returned error reports what was ignored.
func (k Keeper) Load() (*cashbook.Ledger, error) {
	opts := []cashbook.Option{cashbook.WithSaver(k.Storage), cashbook.WithLogger(k.Log)}
	data, err := k.Storage.Load()
	if err != nil {
		k.Log.Error().Err(err).Msg("cannot read snapshot, starting from the default state")
		return cashbook.NewLedger(opts...), err
	}
	state, err := cashbook.DecodeState(data)
	if err != nil {
		k.Log.Warn().Err(err).Msg("snapshot repaired while loading")
	}
	return cashbook.Open(state, opts...), err
}
