/*
Package jsonfile persists snapshots as a single JSON document on disk.

PURPOSE:
  The default storage mode. A snapshot is one self-contained value, so
  one file holds it whole; no partial updates exist that would need a
  database. Matches the wire format byte for byte, which makes the data
  file inspectable and diffable during demos.

ATOMICITY:
  Save writes to a temp file in the same directory and renames it over
  the target, so a crash mid-write never leaves a torn snapshot behind.

SEE ALSO:
  - model/store.go:  the interface this implements
  - store/sqlite/:   the relational alternative
*/
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/warp/factory-trace/model"
)

// Store reads and writes one snapshot file.
type Store struct {
	path string
	mu   sync.RWMutex
	log  zerolog.Logger
}

// New creates a store over the given file path. The file does not have
// to exist yet; Load reports absence as (nil, nil).
func New(path string, log zerolog.Logger) *Store {
	return &Store{path: path, log: log}
}

// Load reads the snapshot file. A missing file means no data has been
// generated yet and is not an error.
func (s *Store) Load(ctx context.Context) (*model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.log.Debug().Str("path", s.path).Msg("no snapshot file yet")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}

	var snap model.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot file %s: %w", s.path, err)
	}
	return &snap, nil
}

// Save replaces the snapshot file atomically.
func (s *Store) Save(ctx context.Context, snap *model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing snapshot file: %w", err)
	}

	s.log.Info().Str("path", s.path).Int("bytes", len(raw)).Msg("snapshot saved")
	return nil
}
