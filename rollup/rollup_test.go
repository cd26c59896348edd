package rollup_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/factory-trace/model"
	"github.com/warp/factory-trace/rollup"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// newTestAggregator builds an aggregator over the default plant with a
// fixed random source, so downtime-event synthesis is reproducible.
func newTestAggregator(t *testing.T) *rollup.Aggregator {
	t.Helper()
	return rollup.New(
		model.DefaultMachines(),
		model.DefaultShifts(),
		rollup.WithRand(rand.New(rand.NewSource(7))),
	)
}

func batch(id, date, machine, shift string, parts, good, scrap int, duration float64) model.ProductionBatch {
	return model.ProductionBatch{
		BatchID:       model.BatchID(id),
		Date:          date,
		MachineName:   machine,
		ShiftName:     shift,
		PartsProduced: parts,
		GoodParts:     good,
		ScrapParts:    scrap,
		DurationHours: duration,
	}
}

// =============================================================================
// GROUPING AND COUNTER SUMS
// =============================================================================

func TestAggregate_TwoBatchesSameDayMachine_SumsCounters(t *testing.T) {
	// GIVEN: two batches on the same (date, machine)
	// WHEN:  they are aggregated
	// THEN:  counters sum and scrap rate is recomputed from the sums
	agg := newTestAggregator(t)

	prod := agg.Aggregate([]model.ProductionBatch{
		batch("BATCH-1", "2024-01-15", "CNC-001", "Day", 100, 95, 5, 4.0),
		batch("BATCH-2", "2024-01-15", "CNC-001", "Day", 120, 117, 3, 3.5),
	})

	day := prod.Lookup("2024-01-15", "CNC-001")
	require.NotNil(t, day, "the (date, machine) group should exist")

	assert.Equal(t, 220, day.PartsProduced, "parts should sum across batches")
	assert.Equal(t, 212, day.GoodParts, "good parts should sum across batches")
	assert.Equal(t, 8, day.ScrapParts, "scrap should sum across batches")
	assert.InDelta(t, 3.64, day.ScrapRate, 0.001, "scrap rate is 8/220 as a rounded percentage")
	assert.Equal(t, []model.BatchID{"BATCH-1", "BATCH-2"}, day.Batches,
		"contributing batch ids keep input order")
}

func TestAggregate_SeparateMachines_SeparateGroups(t *testing.T) {
	// GIVEN: batches on two machines the same day
	// WHEN:  they are aggregated
	// THEN:  each machine gets its own record
	agg := newTestAggregator(t)

	prod := agg.Aggregate([]model.ProductionBatch{
		batch("BATCH-1", "2024-01-15", "CNC-001", "Day", 100, 95, 5, 4.0),
		batch("BATCH-2", "2024-01-15", "Assembly-001", "Day", 80, 78, 2, 4.0),
	})

	require.NotNil(t, prod.Lookup("2024-01-15", "CNC-001"))
	require.NotNil(t, prod.Lookup("2024-01-15", "Assembly-001"))
	assert.Equal(t, 100, prod.Lookup("2024-01-15", "CNC-001").PartsProduced)
	assert.Equal(t, 80, prod.Lookup("2024-01-15", "Assembly-001").PartsProduced)
}

// =============================================================================
// UPTIME / DOWNTIME ESTIMATION
// =============================================================================

func TestAggregate_UptimePlusDowntimeEqualsPlannedDay(t *testing.T) {
	// GIVEN: batches with recorded durations
	// WHEN:  the group is aggregated
	// THEN:  uptime + downtime reconciles with the 16h planned day
	agg := newTestAggregator(t)

	prod := agg.Aggregate([]model.ProductionBatch{
		batch("BATCH-1", "2024-01-15", "CNC-001", "Day", 100, 95, 5, 4.0),
		batch("BATCH-2", "2024-01-15", "CNC-001", "Day", 120, 117, 3, 3.5),
	})

	day := prod.Lookup("2024-01-15", "CNC-001")
	require.NotNil(t, day)

	assert.InDelta(t, 7.5, day.UptimeHours, 0.001)
	assert.InDelta(t, 8.5, day.DowntimeHours, 0.001)
	assert.InDelta(t, model.PlannedHoursPerDay, day.UptimeHours+day.DowntimeHours, 0.001,
		"uptime and downtime should account for the full planned day")
}

func TestAggregate_MissingDuration_UsesFallbackUptime(t *testing.T) {
	// GIVEN: a batch with no recorded duration
	// WHEN:  it is aggregated
	// THEN:  it contributes the fixed 3h fallback uptime
	agg := newTestAggregator(t)

	prod := agg.Aggregate([]model.ProductionBatch{
		batch("BATCH-1", "2024-01-15", "CNC-001", "Day", 100, 95, 5, 0),
	})

	day := prod.Lookup("2024-01-15", "CNC-001")
	require.NotNil(t, day)
	assert.InDelta(t, 3.0, day.UptimeHours, 0.001)
	assert.InDelta(t, 13.0, day.DowntimeHours, 0.001)
}

func TestAggregate_DowntimeEventDurations_SumToDowntimeExactly(t *testing.T) {
	// GIVEN: groups with varying downtime across many seeds
	// WHEN:  events are synthesized
	// THEN:  event durations always sum exactly to the group's downtime
	for seed := int64(0); seed < 20; seed++ {
		agg := rollup.New(model.DefaultMachines(), model.DefaultShifts(),
			rollup.WithRand(rand.New(rand.NewSource(seed))))

		prod := agg.Aggregate([]model.ProductionBatch{
			batch("BATCH-1", "2024-01-15", "CNC-001", "Day", 100, 95, 5, 4.3),
			batch("BATCH-2", "2024-01-15", "CNC-001", "Night", 90, 88, 2, 5.1),
		})

		day := prod.Lookup("2024-01-15", "CNC-001")
		require.NotNil(t, day)
		require.NotEmpty(t, day.DowntimeEvents, "nonzero downtime should synthesize events")

		sum := 0.0
		for _, ev := range day.DowntimeEvents {
			sum += ev.DurationHours
			assert.Contains(t, model.DowntimeReasons, ev.Reason,
				"event reason must come from the fixed taxonomy")
		}
		assert.InDelta(t, day.DowntimeHours, sum, 0.001,
			"event durations must reconcile with downtime_hours")
	}
}

func TestAggregate_FullPlannedUptime_NoDowntimeEvents(t *testing.T) {
	// GIVEN: batches covering the full 16h planned day
	// WHEN:  aggregated
	// THEN:  downtime is zero and no events are synthesized
	agg := newTestAggregator(t)

	prod := agg.Aggregate([]model.ProductionBatch{
		batch("BATCH-1", "2024-01-15", "CNC-001", "Day", 100, 95, 5, 8.0),
		batch("BATCH-2", "2024-01-15", "CNC-001", "Night", 120, 117, 3, 8.0),
	})

	day := prod.Lookup("2024-01-15", "CNC-001")
	require.NotNil(t, day)
	assert.Zero(t, day.DowntimeHours)
	assert.Empty(t, day.DowntimeEvents)
}

// =============================================================================
// SHIFT BREAKDOWN
// =============================================================================

func TestAggregate_ShiftTotals_SplitByShiftName(t *testing.T) {
	// GIVEN: one Day batch and one Night batch on the same machine
	// WHEN:  aggregated
	// THEN:  shift totals attribute counters to the correct shift
	agg := newTestAggregator(t)

	prod := agg.Aggregate([]model.ProductionBatch{
		batch("BATCH-1", "2024-01-15", "CNC-001", "Day", 100, 95, 5, 7.0),
		batch("BATCH-2", "2024-01-15", "CNC-001", "Night", 120, 117, 3, 6.0),
	})

	day := prod.Lookup("2024-01-15", "CNC-001")
	require.NotNil(t, day)
	require.Contains(t, day.Shifts, "Day")
	require.Contains(t, day.Shifts, "Night")

	assert.Equal(t, 100, day.Shifts["Day"].PartsProduced)
	assert.InDelta(t, 7.0, day.Shifts["Day"].UptimeHours, 0.001)
	assert.InDelta(t, 1.0, day.Shifts["Day"].DowntimeHours, 0.001,
		"shift downtime is the shortfall against the 8h planned shift")
	assert.Equal(t, 120, day.Shifts["Night"].PartsProduced)
	assert.InDelta(t, 2.0, day.Shifts["Night"].DowntimeHours, 0.001)
}

// =============================================================================
// ERROR POLICY
// =============================================================================

func TestAggregate_MalformedBatch_SkippedNotFatal(t *testing.T) {
	// GIVEN: one valid batch and one missing its machine name
	// WHEN:  aggregated
	// THEN:  the malformed batch is skipped and the valid one survives
	agg := newTestAggregator(t)

	bad := batch("BATCH-BAD", "2024-01-15", "", "Day", 50, 50, 0, 3.0)
	good := batch("BATCH-1", "2024-01-15", "CNC-001", "Day", 100, 95, 5, 4.0)

	prod := agg.Aggregate([]model.ProductionBatch{bad, good})

	day := prod.Lookup("2024-01-15", "CNC-001")
	require.NotNil(t, day)
	assert.Equal(t, 100, day.PartsProduced, "only the valid batch should contribute")
	assert.Len(t, prod["2024-01-15"], 1, "the malformed batch should not create a group")
}

func TestAggregate_EmptyInput_EmptyRollup(t *testing.T) {
	agg := newTestAggregator(t)
	prod := agg.Aggregate(nil)
	assert.Empty(t, prod)
}
