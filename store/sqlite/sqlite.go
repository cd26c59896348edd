/*
Package sqlite provides a SQLite-backed snapshot store.

PURPOSE:
  The relational storage mode. Entities are stored one row per record
  with their id columns lifted out for indexing and the full record kept
  as a JSON document, so the schema never chases the entity shape.

KEY TABLES:
  snapshot_meta:      window metadata plus machine park and shift calendar
  suppliers:          one row per supplier
  materials:          one row per catalog entry
  material_lots:      one row per received lot
  orders:             one row per customer order
  production_batches: one row per batch, indexed by (date, machine_name)

DERIVED VIEW:
  The production rollup is NOT persisted. Batches are the source of
  truth; Load re-derives the rollup through the aggregation engine, so
  a stored snapshot can never carry a stale rollup.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite is opened in WAL mode so
  readers do not block each other.

USAGE:
  store, err := sqlite.New("./data/factory.db", log)
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - model/store.go:   the interface this implements
  - store/jsonfile/:  the single-file alternative
  - rollup/:          re-derives the production view on Load
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/warp/factory-trace/model"
	"github.com/warp/factory-trace/rollup"
)

// Store persists snapshots in SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	log zerolog.Logger
}

// New creates a SQLite store at the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, log: log}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- One row: the snapshot window and reference data
	CREATE TABLE IF NOT EXISTS snapshot_meta (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		generated_at TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		machines_json TEXT NOT NULL,
		shifts_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS suppliers (
		id TEXT PRIMARY KEY,
		doc TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS materials (
		id TEXT PRIMARY KEY,
		doc TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS material_lots (
		lot_number TEXT PRIMARY KEY,
		material_id TEXT NOT NULL,
		supplier_id TEXT NOT NULL,
		received_date TEXT NOT NULL,
		doc TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_lots_supplier
		ON material_lots(supplier_id, received_date);

	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		doc TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS production_batches (
		batch_id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		machine_name TEXT NOT NULL,
		order_id TEXT,
		seq INTEGER NOT NULL,
		doc TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_batches_date_machine
		ON production_batches(date, machine_name);
	CREATE INDEX IF NOT EXISTS idx_batches_order
		ON production_batches(order_id) WHERE order_id IS NOT NULL;
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save replaces the stored snapshot atomically. A snapshot is one
// generation; there is never a reason to keep two.
func (s *Store) Save(ctx context.Context, snap *model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{
		"snapshot_meta", "suppliers", "materials", "material_lots", "orders", "production_batches",
	} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	machinesJSON, err := json.Marshal(snap.Machines)
	if err != nil {
		return fmt.Errorf("failed to encode machines: %w", err)
	}
	shiftsJSON, err := json.Marshal(snap.Shifts)
	if err != nil {
		return fmt.Errorf("failed to encode shifts: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshot_meta (id, generated_at, start_date, end_date, machines_json, shifts_json)
		VALUES (1, ?, ?, ?, ?, ?)`,
		snap.GeneratedAt, snap.StartDate, snap.EndDate, string(machinesJSON), string(shiftsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot meta: %w", err)
	}

	for i := range snap.Suppliers {
		sup := &snap.Suppliers[i]
		if err := insertDoc(ctx, tx, "INSERT INTO suppliers (id, doc) VALUES (?, ?)", string(sup.ID), sup); err != nil {
			return err
		}
	}
	for i := range snap.MaterialsCatalog {
		mat := &snap.MaterialsCatalog[i]
		if err := insertDoc(ctx, tx, "INSERT INTO materials (id, doc) VALUES (?, ?)", string(mat.ID), mat); err != nil {
			return err
		}
	}
	for i := range snap.MaterialLots {
		lot := &snap.MaterialLots[i]
		doc, err := json.Marshal(lot)
		if err != nil {
			return fmt.Errorf("failed to encode lot %s: %w", lot.LotNumber, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO material_lots (lot_number, material_id, supplier_id, received_date, doc)
			VALUES (?, ?, ?, ?, ?)`,
			string(lot.LotNumber), string(lot.MaterialID), string(lot.SupplierID), lot.ReceivedDate, string(doc),
		)
		if err != nil {
			return fmt.Errorf("failed to insert lot %s: %w", lot.LotNumber, err)
		}
	}
	for i := range snap.Orders {
		order := &snap.Orders[i]
		doc, err := json.Marshal(order)
		if err != nil {
			return fmt.Errorf("failed to encode order %s: %w", order.ID, err)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO orders (id, status, doc) VALUES (?, ?, ?)",
			string(order.ID), string(order.Status), string(doc),
		)
		if err != nil {
			return fmt.Errorf("failed to insert order %s: %w", order.ID, err)
		}
	}
	for i := range snap.ProductionBatches {
		b := &snap.ProductionBatches[i]
		doc, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("failed to encode batch %s: %w", b.BatchID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO production_batches (batch_id, date, machine_name, order_id, seq, doc)
			VALUES (?, ?, ?, ?, ?, ?)`,
			string(b.BatchID), b.Date, b.MachineName, nullString(string(b.OrderID)), i, string(doc),
		)
		if err != nil {
			return fmt.Errorf("failed to insert batch %s: %w", b.BatchID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	s.log.Info().
		Int("suppliers", len(snap.Suppliers)).
		Int("lots", len(snap.MaterialLots)).
		Int("orders", len(snap.Orders)).
		Int("batches", len(snap.ProductionBatches)).
		Msg("snapshot saved to sqlite")
	return nil
}

// Load reads the stored snapshot and re-derives the production rollup
// from the batch rows. No stored snapshot means (nil, nil).
func (s *Store) Load(ctx context.Context) (*model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &model.Snapshot{}
	var machinesJSON, shiftsJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT generated_at, start_date, end_date, machines_json, shifts_json
		FROM snapshot_meta WHERE id = 1`,
	).Scan(&snap.GeneratedAt, &snap.StartDate, &snap.EndDate, &machinesJSON, &shiftsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot meta: %w", err)
	}
	if err := json.Unmarshal([]byte(machinesJSON), &snap.Machines); err != nil {
		return nil, fmt.Errorf("failed to decode machines: %w", err)
	}
	if err := json.Unmarshal([]byte(shiftsJSON), &snap.Shifts); err != nil {
		return nil, fmt.Errorf("failed to decode shifts: %w", err)
	}

	if err := loadDocs(ctx, s.db, "SELECT doc FROM suppliers ORDER BY id", &snap.Suppliers); err != nil {
		return nil, err
	}
	if err := loadDocs(ctx, s.db, "SELECT doc FROM materials ORDER BY id", &snap.MaterialsCatalog); err != nil {
		return nil, err
	}
	if err := loadDocs(ctx, s.db, "SELECT doc FROM material_lots ORDER BY lot_number", &snap.MaterialLots); err != nil {
		return nil, err
	}
	if err := loadDocs(ctx, s.db, "SELECT doc FROM orders ORDER BY id", &snap.Orders); err != nil {
		return nil, err
	}
	if err := loadDocs(ctx, s.db, "SELECT doc FROM production_batches ORDER BY seq", &snap.ProductionBatches); err != nil {
		return nil, err
	}

	agg := rollup.New(snap.Machines, snap.Shifts, rollup.WithLogger(s.log))
	snap.Production = agg.Aggregate(snap.ProductionBatches)

	return snap, nil
}

// insertDoc inserts one (id, json) row.
func insertDoc(ctx context.Context, tx *sql.Tx, query, id string, v any) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, query, id, string(doc)); err != nil {
		return fmt.Errorf("failed to insert %s: %w", id, err)
	}
	return nil
}

// loadDocs scans a doc column into a slice of T.
func loadDocs[T any](ctx context.Context, db *sql.DB, query string, out *[]T) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		var v T
		if err := json.Unmarshal([]byte(doc), &v); err != nil {
			return fmt.Errorf("failed to decode row: %w", err)
		}
		*out = append(*out, v)
	}
	return rows.Err()
}

// nullString converts empty strings to NULL for optional columns.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
