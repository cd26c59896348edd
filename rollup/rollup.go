/*
Package rollup derives the production[date][machine] view from the batch list.

PURPOSE:
  ProductionBatch records are the source of truth. Dashboards and the
  metrics engine want a per-date/per-machine aggregate instead, so this
  package groups batches by (date, machine_name), sums the counters,
  estimates uptime/downtime against the planned two-shift day, and
  synthesizes named downtime events that account for the estimated gap.

ESTIMATION POLICY (documented, not measured):
  - A batch with no recorded duration contributes a fixed 3.0h of uptime.
  - The planned day is 16.0h (two 8.0h shifts); downtime is the shortfall.
  - Downtime is materialized as 1-2 events drawn from the fixed reason
    taxonomy; event durations sum exactly to the group's downtime.

ERROR POLICY:
  A batch missing batch_id, date, or machine_name is skipped with a
  warning log - aggregation never aborts over one bad row. The skipped
  count is reported in the completion log entry.

SEE ALSO:
  - model/production.go: the record types this fills in
  - metrics/:            the consumer of the result
*/
package rollup

import (
	"math"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/warp/factory-trace/model"
)

// fallbackUptimeHours is credited to a batch with no recorded duration.
const fallbackUptimeHours = 3.0

// Aggregator converts batch lists into model.Production.
type Aggregator struct {
	machines []model.Machine
	shifts   []model.Shift
	rng      *rand.Rand
	log      zerolog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithRand sets the random source used for the downtime-event split.
// Seed it for reproducible snapshots.
func WithRand(rng *rand.Rand) Option {
	return func(a *Aggregator) { a.rng = rng }
}

// WithLogger sets the diagnostic logger.
func WithLogger(log zerolog.Logger) Option {
	return func(a *Aggregator) { a.log = log }
}

// New creates an Aggregator for the given machine park and shift calendar.
func New(machines []model.Machine, shifts []model.Shift, opts ...Option) *Aggregator {
	a := &Aggregator{
		machines: machines,
		shifts:   shifts,
		rng:      rand.New(rand.NewSource(1)),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate groups batches by (date, machine_name) and emits one
// MachineDay per group. Malformed batches are skipped, never fatal.
func (a *Aggregator) Aggregate(batches []model.ProductionBatch) model.Production {
	production := make(model.Production)

	grouped := make(map[string]map[string][]*model.ProductionBatch)
	skipped := 0
	for i := range batches {
		b := &batches[i]
		if err := checkRequired(b); err != nil {
			a.log.Warn().Err(err).Str("batch_id", string(b.BatchID)).
				Msg("skipping malformed batch during aggregation")
			skipped++
			continue
		}
		byMachine, ok := grouped[b.Date]
		if !ok {
			byMachine = make(map[string][]*model.ProductionBatch)
			grouped[b.Date] = byMachine
		}
		byMachine[b.MachineName] = append(byMachine[b.MachineName], b)
	}

	for date, byMachine := range grouped {
		production[date] = make(map[string]*model.MachineDay, len(byMachine))
		for machine, group := range byMachine {
			production[date][machine] = a.aggregateGroup(group)
		}
	}

	a.log.Info().
		Int("batches", len(batches)).
		Int("skipped", skipped).
		Int("days", len(production)).
		Msg("aggregated batches into production rollup")
	return production
}

// aggregateGroup folds one (date, machine) group into a MachineDay.
func (a *Aggregator) aggregateGroup(group []*model.ProductionBatch) *model.MachineDay {
	day := &model.MachineDay{
		Shifts:         make(map[string]*model.ShiftTotals, len(a.shifts)),
		DowntimeEvents: []model.DowntimeEvent{},
		QualityIssues:  []model.QualityIssue{},
	}
	for _, shift := range a.shifts {
		day.Shifts[shift.Name] = &model.ShiftTotals{}
	}

	var totalUptime float64
	for _, b := range group {
		day.PartsProduced += b.PartsProduced
		day.GoodParts += b.GoodParts
		day.ScrapParts += b.ScrapParts
		day.QualityIssues = append(day.QualityIssues, b.QualityIssues...)
		day.Batches = append(day.Batches, b.BatchID)

		uptime := b.DurationHours
		if uptime <= 0 {
			uptime = fallbackUptimeHours
		}
		totalUptime += uptime

		if st, ok := day.Shifts[b.ShiftName]; ok {
			st.PartsProduced += b.PartsProduced
			st.GoodParts += b.GoodParts
			st.ScrapParts += b.ScrapParts
			st.UptimeHours += uptime
		}
	}

	if day.PartsProduced > 0 {
		day.ScrapRate = round2(float64(day.ScrapParts) / float64(day.PartsProduced) * 100)
	}
	day.UptimeHours = round2(totalUptime)
	day.DowntimeHours = round2(math.Max(0, model.PlannedHoursPerDay-totalUptime))

	for _, st := range day.Shifts {
		st.UptimeHours = round2(st.UptimeHours)
		st.DowntimeHours = round2(math.Max(0, model.PlannedHoursPerShift-st.UptimeHours))
	}

	day.DowntimeEvents = a.synthesizeDowntime(day.DowntimeHours)
	return day
}

// checkRequired verifies the fields aggregation cannot proceed without.
func checkRequired(b *model.ProductionBatch) error {
	switch {
	case b.BatchID == "":
		return &model.MalformedBatchError{BatchID: b.BatchID, Field: "batch_id"}
	case b.Date == "":
		return &model.MalformedBatchError{BatchID: b.BatchID, Field: "date"}
	case b.MachineName == "":
		return &model.MalformedBatchError{BatchID: b.BatchID, Field: "machine_name"}
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
