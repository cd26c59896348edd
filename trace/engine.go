/*
Package trace answers point lookups and multi-hop joins over a snapshot.

PURPOSE:
  The traceability query engine. Given an indexed snapshot it answers:
  - by-id lookups (supplier, batch, order)
  - backward trace: batch -> materials -> lots -> suppliers
  - forward trace: supplier -> lots -> batches -> quality issues -> orders
  - lot trace: lot -> usage, serial coverage, linked quality issues
  - serial trace: one part's complete production history
  - supplier scorecard and impact analysis

ARCHITECTURE:
  Backward and forward trace are inverses over the same batch<->lot
  relation, so both directions are built on one shared helper pair
  (lotsForSupplier / batchesUsingLots). That keeps the two directions
  consistent by construction.

CONCURRENCY:
  The engine is pure and stateless over an immutable snapshot: safe for
  concurrent use. Build one Engine per snapshot generation and share it;
  the id maps in model.Index are constructed once, not per query.

ERROR POLICY:
  Missing top-level ids return *model.NotFoundError. Dangling interior
  references (a usage naming a lot absent from the snapshot) degrade to
  nil enrichment plus a warning log; partial traceability is still
  useful during an investigation.

SEE ALSO:
  - results.go: the result record types
  - model/snapshot.go: the Index this engine reads
*/
package trace

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/warp/factory-trace/model"
)

// Config carries the documented estimation constants. Both are
// approximations by design; see the scorecard notes in results.go.
type Config struct {
	// DefectCost is the per-defect cost used for impact estimates.
	DefectCost decimal.Decimal

	// PartsPerBatchEstimate approximates batch output for PPM math when
	// exact per-batch counts are not attributable to one supplier.
	PartsPerBatchEstimate int
}

// DefaultConfig returns the reference constants: $50 per defect,
// 400 parts per batch.
func DefaultConfig() Config {
	return Config{
		DefectCost:            decimal.NewFromInt(50),
		PartsPerBatchEstimate: 400,
	}
}

// Engine answers traceability queries over one indexed snapshot.
type Engine struct {
	idx *model.Index
	cfg Config
	log zerolog.Logger
}

// NewEngine creates an engine over a prebuilt index.
func NewEngine(idx *model.Index, cfg Config, log zerolog.Logger) *Engine {
	if cfg.PartsPerBatchEstimate <= 0 {
		cfg.PartsPerBatchEstimate = DefaultConfig().PartsPerBatchEstimate
	}
	if cfg.DefectCost.IsZero() {
		cfg.DefectCost = DefaultConfig().DefectCost
	}
	return &Engine{idx: idx, cfg: cfg, log: log}
}

// =============================================================================
// POINT LOOKUPS
// =============================================================================

// Supplier resolves a supplier by id.
func (e *Engine) Supplier(id model.SupplierID) (*model.Supplier, error) {
	s, ok := e.idx.SupplierByID[id]
	if !ok {
		return nil, model.NewNotFound("supplier", string(id))
	}
	return s, nil
}

// Batch resolves a production batch by id.
func (e *Engine) Batch(id model.BatchID) (*model.ProductionBatch, error) {
	b, ok := e.idx.BatchByID[id]
	if !ok {
		return nil, model.NewNotFound("batch", string(id))
	}
	return b, nil
}

// Order resolves a customer order by id.
func (e *Engine) Order(id model.OrderID) (*model.Order, error) {
	o, ok := e.idx.OrderByID[id]
	if !ok {
		return nil, model.NewNotFound("order", string(id))
	}
	return o, nil
}

// =============================================================================
// SHARED JOIN HELPERS
// =============================================================================
//
// Forward trace, supplier impact and the scorecard all pivot on the same
// two joins. Keeping them here guarantees the directions stay consistent.

// lotsForSupplier returns the supplier's lots, optionally filtered to
// received_date within the inclusive range.
func (e *Engine) lotsForSupplier(id model.SupplierID, r model.DateRange) []*model.MaterialLot {
	var lots []*model.MaterialLot
	for _, lot := range e.idx.LotsBySupplier[id] {
		if r.Contains(lot.ReceivedDate) {
			lots = append(lots, lot)
		}
	}
	return lots
}

// lotNumberSet collects the lot numbers of a lot list.
func lotNumberSet(lots []*model.MaterialLot) map[model.LotNumber]struct{} {
	set := make(map[model.LotNumber]struct{}, len(lots))
	for _, lot := range lots {
		set[lot.LotNumber] = struct{}{}
	}
	return set
}

// batchesUsingLots scans all batches (optionally date-filtered) whose
// materials_consumed reference any lot in the set. A batch counts once
// even when it draws multiple lots from the set.
func (e *Engine) batchesUsingLots(lotSet map[model.LotNumber]struct{}, r model.DateRange) []*model.ProductionBatch {
	snap := e.idx.Snapshot
	var matched []*model.ProductionBatch
	for i := range snap.ProductionBatches {
		b := &snap.ProductionBatches[i]
		if !r.Contains(b.Date) {
			continue
		}
		for _, usage := range b.MaterialsConsumed {
			if _, ok := lotSet[usage.LotNumber]; ok {
				matched = append(matched, b)
				break
			}
		}
	}
	return matched
}

// costImpact computes defects x per-defect cost, rounded to cents.
func (e *Engine) costImpact(totalDefects int) float64 {
	cost := e.cfg.DefectCost.Mul(decimal.NewFromInt(int64(totalDefects)))
	v, _ := cost.Round(2).Float64()
	return v
}
