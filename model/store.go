/*
store.go - Snapshot persistence boundary

PURPOSE:
  The engines never touch storage; they receive a *Snapshot and compute.
  A Store owns where snapshots live (local JSON file, SQLite, ...). This
  keeps persistence swappable and the engines pure.

IMPLEMENTATIONS:
  store/jsonfile: pretty-printed JSON file (default)
  store/sqlite:   SQLite database, one document table per collection

SEMANTICS:
  Load returns (nil, nil) when no snapshot has been saved yet - absence
  of data is a normal state, not an error. Save replaces the previous
  snapshot wholesale; snapshots are never patched incrementally.
*/
package model

import "context"

// Store loads and saves complete snapshots.
type Store interface {
	// Load returns the persisted snapshot, or (nil, nil) when none exists.
	Load(ctx context.Context) (*Snapshot, error)

	// Save persists the snapshot, replacing any previous one.
	Save(ctx context.Context, s *Snapshot) error
}
