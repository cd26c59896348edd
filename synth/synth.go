/*
Package synth generates complete demo snapshots.

PURPOSE:
  Produces a full, invariant-respecting snapshot from a seed: the fixed
  supplier/material catalog, received lots, customer orders, and a batch
  history with serial ranges and material traceability. The production
  rollup is not generated directly; it is derived from the batches by
  the rollup package, so the two can never disagree.

PLANTED SCENARIOS:
  The data is random but not featureless. Four scenarios are planted so
  dashboards and walkthroughs have something to find:
  1. Material-defect quality spike on day 15 for Assembly-001
  2. Major mechanical breakdown (4h) on day 22 for Packaging-001
  3. Gradual output improvement (~23%) across the window
  4. Night shift running ~7% below Day shift

DETERMINISM:
  All randomness flows through one seeded source. The same seed, day
  count, and end date reproduce the same snapshot byte for byte, which
  is what makes scripted demos and the test suite possible.

SEE ALSO:
  - rollup/: derives the production view from the generated batches
  - model/validate.go: the invariants every generated snapshot passes
*/
package synth

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/warp/factory-trace/model"
	"github.com/warp/factory-trace/rollup"
)

// Config controls one generation run.
type Config struct {
	// Seed drives all randomness. Equal seeds give equal snapshots.
	Seed int64

	// Days is the length of the production window.
	Days int

	// EndDate is the last production date (YYYY-MM-DD). Empty means
	// today in UTC.
	EndDate string
}

// DefaultConfig is a 30-day window ending today, seed 42.
func DefaultConfig() Config {
	return Config{Seed: 42, Days: 30}
}

// Generator produces snapshots from a seeded random source.
type Generator struct {
	cfg Config
	rng *rand.Rand
	log zerolog.Logger
}

// New creates a Generator.
func New(cfg Config, log zerolog.Logger) *Generator {
	if cfg.Days <= 0 {
		cfg.Days = DefaultConfig().Days
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
		log: log,
	}
}

// Generate builds a complete snapshot and validates it before handing
// it back. A validation failure is a generator bug, not caller error.
func (g *Generator) Generate() (*model.Snapshot, error) {
	end, err := g.endDate()
	if err != nil {
		return nil, err
	}
	start := end.AddDate(0, 0, -(g.cfg.Days - 1))

	g.log.Info().
		Int64("seed", g.cfg.Seed).
		Int("days", g.cfg.Days).
		Str("start", start.Format(model.DateLayout)).
		Msg("generating snapshot")

	suppliers := catalogSuppliers()
	materials := catalogMaterials()
	lots := g.generateLots(suppliers, materials, start)
	orders := g.generateOrders(start)

	machines := model.DefaultMachines()
	shifts := model.DefaultShifts()
	batches := g.generateBatches(machines, shifts, materials, lots, orders, suppliers, start)

	agg := rollup.New(machines, shifts,
		rollup.WithRand(rand.New(rand.NewSource(g.cfg.Seed+1))),
		rollup.WithLogger(g.log),
	)
	production := agg.Aggregate(batches)

	snap := &model.Snapshot{
		GeneratedAt:       time.Now().UTC().Format(time.RFC3339),
		StartDate:         start.Format(model.DateLayout),
		EndDate:           end.Format(model.DateLayout),
		Machines:          machines,
		Shifts:            shifts,
		Production:        production,
		Suppliers:         suppliers,
		MaterialsCatalog:  materials,
		MaterialLots:      lots,
		Orders:            orders,
		ProductionBatches: batches,
	}

	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("generated snapshot failed validation: %w", err)
	}

	g.log.Info().
		Int("suppliers", len(suppliers)).
		Int("lots", len(lots)).
		Int("orders", len(orders)).
		Int("batches", len(batches)).
		Msg("snapshot generated")
	return snap, nil
}

func (g *Generator) endDate() (time.Time, error) {
	if g.cfg.EndDate == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return model.ParseDate(g.cfg.EndDate)
}

// =============================================================================
// RANDOM HELPERS
// =============================================================================

// weighted picks an index with probability proportional to weights.
func (g *Generator) weighted(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := g.rng.Float64() * total
	for i, w := range weights {
		if r < w {
			return i
		}
		r -= w
	}
	return len(weights) - 1
}

// between returns a uniform float in [lo, hi).
func (g *Generator) between(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// intBetween returns a uniform int in [lo, hi] inclusive.
func (g *Generator) intBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.Intn(hi-lo+1)
}
