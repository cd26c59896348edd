package synth_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/factory-trace/model"
	"github.com/warp/factory-trace/synth"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// testConfig pins the window so the planted scenario dates are stable:
// days 0..29 map to 2024-03-01..2024-03-30.
func testConfig() synth.Config {
	return synth.Config{Seed: 42, Days: 30, EndDate: "2024-03-30"}
}

func generate(t *testing.T, cfg synth.Config) *model.Snapshot {
	t.Helper()
	snap, err := synth.New(cfg, zerolog.Nop()).Generate()
	require.NoError(t, err, "generation must produce a valid snapshot")
	return snap
}

// =============================================================================
// STRUCTURAL PROPERTIES
// =============================================================================

func TestGenerate_ProducesPopulatedValidSnapshot(t *testing.T) {
	snap := generate(t, testConfig())

	assert.Equal(t, "2024-03-01", snap.StartDate)
	assert.Equal(t, "2024-03-30", snap.EndDate)
	assert.NotEmpty(t, snap.Suppliers)
	assert.NotEmpty(t, snap.MaterialsCatalog)
	assert.NotEmpty(t, snap.MaterialLots)
	assert.NotEmpty(t, snap.Orders)
	assert.NotEmpty(t, snap.ProductionBatches)
	assert.NotEmpty(t, snap.Production)

	// Generate already validates; this guards against the check being
	// dropped in a refactor.
	assert.NoError(t, snap.Validate())
}

func TestGenerate_SameSeedSameSnapshot(t *testing.T) {
	// GIVEN: two generators with identical config
	// WHEN:  both generate
	// THEN:  everything except the generation timestamp is identical
	a := generate(t, testConfig())
	b := generate(t, testConfig())

	assert.Equal(t, a.MaterialLots, b.MaterialLots)
	assert.Equal(t, a.Orders, b.Orders)
	assert.Equal(t, a.ProductionBatches, b.ProductionBatches)
	assert.Equal(t, a.Production, b.Production)
}

func TestGenerate_DifferentSeedDifferentData(t *testing.T) {
	a := generate(t, testConfig())

	cfg := testConfig()
	cfg.Seed = 1337
	b := generate(t, cfg)

	assert.NotEqual(t, a.ProductionBatches, b.ProductionBatches)
}

func TestGenerate_SerialRangesAreGloballyMonotonic(t *testing.T) {
	// The serial counter is global across machines and dates, so each
	// batch's range starts past the previous batch's end.
	snap := generate(t, testConfig())

	prevEnd := 0
	for _, b := range snap.ProductionBatches {
		require.True(t, b.HasSerials(), "every generated batch is serialized")
		assert.Greater(t, *b.SerialStart, prevEnd,
			"batch %s reuses serial numbers", b.BatchID)
		assert.Equal(t, *b.SerialStart+b.PartsProduced-1, *b.SerialEnd,
			"range width must match parts produced")
		prevEnd = *b.SerialEnd
	}
}

func TestGenerate_DepletedLotsCarryNothing(t *testing.T) {
	snap := generate(t, testConfig())

	for _, lot := range snap.MaterialLots {
		if lot.Status == model.LotDepleted {
			assert.Zero(t, lot.QuantityRemaining, "lot %s", lot.LotNumber)
		}
		assert.Equal(t, lot.Status == model.LotQuarantine, lot.Quarantine,
			"lot %s quarantine flag must track its status", lot.LotNumber)
	}
}

func TestGenerate_BatchMaterialsResolveToKnownLots(t *testing.T) {
	snap := generate(t, testConfig())
	idx := model.NewIndex(snap)

	consuming := 0
	for _, b := range snap.ProductionBatches {
		if len(b.MaterialsConsumed) > 0 {
			consuming++
		}
		for _, u := range b.MaterialsConsumed {
			lot, ok := idx.LotByNumber[u.LotNumber]
			require.True(t, ok, "batch %s references unknown lot %s", b.BatchID, u.LotNumber)
			assert.Equal(t, u.MaterialID, lot.MaterialID)
		}
	}
	// A material with no usable lot is skipped, so not every batch is
	// guaranteed consumption, but the bulk of production must be traced.
	assert.Greater(t, consuming, len(snap.ProductionBatches)/2)
}

// =============================================================================
// PLANTED SCENARIOS
// =============================================================================

func TestGenerate_PlantsQualitySpike(t *testing.T) {
	// Scenario 1: day 15 of the window, Assembly-001 scraps ~12%
	// against a ~3% baseline, with a cluster of material issues.
	snap := generate(t, testConfig())

	day := snap.Production.Lookup("2024-03-15", "Assembly-001")
	require.NotNil(t, day)

	assert.Greater(t, day.ScrapRate, 8.0, "the spike should dominate the baseline")
	require.GreaterOrEqual(t, len(day.QualityIssues), 4)

	materialIssues := 0
	for _, issue := range day.QualityIssues {
		if issue.Type == "material" {
			materialIssues++
			assert.NotEmpty(t, issue.AffectedSerials, "spike issues name their serials")
		}
	}
	assert.GreaterOrEqual(t, materialIssues, 3, "the spike is a material-defect cluster")
}

func TestGenerate_PlantsMajorBreakdown(t *testing.T) {
	// Scenario 2: day 22, Packaging-001 loses 4h and half its output.
	snap := generate(t, testConfig())

	day := snap.Production.Lookup("2024-03-22", "Packaging-001")
	require.NotNil(t, day)

	assert.InDelta(t, 4.0, day.DowntimeHours, 0.01)

	eventSum := 0.0
	for _, ev := range day.DowntimeEvents {
		eventSum += ev.DurationHours
	}
	assert.InDelta(t, day.DowntimeHours, eventSum, 0.001,
		"synthesized events reconcile with the planted downtime")
}

func TestGenerate_NightShiftRunsBelowDayShift(t *testing.T) {
	// Scenario 4: Night output trails Day output across the window.
	snap := generate(t, testConfig())

	totals := map[string]int{}
	for _, b := range snap.ProductionBatches {
		totals[b.ShiftName] += b.PartsProduced
	}
	require.Positive(t, totals["Day"])
	require.Positive(t, totals["Night"])
	assert.Less(t, totals["Night"], totals["Day"])
}

func TestGenerate_PlantsOutputImprovement(t *testing.T) {
	// Scenario 3: total output in the last week clearly exceeds the
	// first week.
	snap := generate(t, testConfig())

	firstWeek, lastWeek := 0, 0
	for _, b := range snap.ProductionBatches {
		switch {
		case b.Date <= "2024-03-07":
			firstWeek += b.PartsProduced
		case b.Date >= "2024-03-24":
			lastWeek += b.PartsProduced
		}
	}
	require.Positive(t, firstWeek)
	assert.Greater(t, float64(lastWeek), float64(firstWeek)*1.1)
}
