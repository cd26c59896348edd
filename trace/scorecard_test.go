package trace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/factory-trace/model"
)

func january() model.DateRange {
	return model.DateRange{Start: "2024-01-01", End: "2024-01-31"}
}

func TestScorecard_HighIssuePenaltyAndPPM(t *testing.T) {
	// GIVEN: SUP-001 with one lot, one batch (2 scrap), one High issue
	// WHEN:  the scorecard is computed over January
	// THEN:  PPM uses the per-batch estimate and the score lands at 90
	e := newTestEngine(t)

	res, err := e.Scorecard("SUP-001", january())
	require.NoError(t, err)

	m := res.Metrics
	assert.Equal(t, 1, m.LotsReceived)
	assert.Equal(t, 1, m.BatchesProduced)
	assert.Equal(t, 400, m.TotalPartsProducedEstimate)
	assert.InDelta(t, 5000.0, m.DefectRatePPM, 0.001, "2 affected parts over a 400-part estimate")

	assert.Equal(t, 1, m.QualityIssues.Total)
	assert.Equal(t, 1, m.QualityIssues.BySeverity[model.SeverityHigh])
	assert.Equal(t, 2, m.QualityIssues.PartsAffected)
	assert.InDelta(t, 100.00, m.CostOfQuality, 0.001)

	// 100 - 5000/1000 - 5*1 high issue.
	assert.InDelta(t, 90.0, m.PerformanceScore, 0.001)
	assert.Equal(t, "A", res.Grade)
	assert.Equal(t, "Excellent supplier, maintain relationship", res.Recommendation)
}

func TestScorecard_IssuesFromOtherSuppliersExcluded(t *testing.T) {
	// BATCH-1's issue is pinned to LOT-A / SUP-001; it must not count
	// against SUP-002 even though SUP-002's lot fed the same batch.
	e := newTestEngine(t)

	res, err := e.Scorecard("SUP-002", january())
	require.NoError(t, err)

	m := res.Metrics
	assert.Equal(t, 2, m.BatchesProduced, "both batches drew from LOT-B")
	assert.Equal(t, 800, m.TotalPartsProducedEstimate)
	assert.Zero(t, m.QualityIssues.Total)
	assert.Zero(t, m.DefectRatePPM, "no pinned issues, no PPM")
	assert.Zero(t, m.CostOfQuality)
	assert.InDelta(t, 100.0, m.PerformanceScore, 0.001)
	assert.Equal(t, "A", res.Grade)
}

func TestScorecard_PPMCountsIssuePartsAffectedNotScrap(t *testing.T) {
	// GIVEN: a batch that scrapped 10 parts, with the supplier-pinned
	//        issue naming only 3 of them
	// WHEN:  the scorecard is computed over January
	// THEN:  PPM and cost of quality follow the issue tally, not the
	//        batch scrap, so suppliers sharing a batch do not absorb
	//        each other's fallout
	snap := testSnapshot()
	snap.ProductionBatches[0].ScrapParts = 10
	snap.ProductionBatches[0].GoodParts = 90
	snap.ProductionBatches[0].QualityIssues[0].PartsAffected = 3
	e := newEngineOver(t, snap)

	res, err := e.Scorecard("SUP-001", january())
	require.NoError(t, err)

	m := res.Metrics
	assert.Equal(t, 3, m.QualityIssues.PartsAffected)
	assert.InDelta(t, 7500.0, m.DefectRatePPM, 0.001, "3 affected parts over a 400-part estimate")
	assert.InDelta(t, 150.00, m.CostOfQuality, 0.001, "3 affected parts at the $50 reference cost")
}

func TestScorecard_EmptyWindow_ZeroMetrics(t *testing.T) {
	// A window before any lot arrived grades on zero activity.
	e := newTestEngine(t)

	res, err := e.Scorecard("SUP-001", model.DateRange{Start: "2023-01-01", End: "2023-01-31"})
	require.NoError(t, err)

	assert.Zero(t, res.Metrics.LotsReceived)
	assert.Zero(t, res.Metrics.BatchesProduced)
	assert.Zero(t, res.Metrics.DefectRatePPM)
	assert.InDelta(t, 100.0, res.Metrics.PerformanceScore, 0.001)
	assert.Equal(t, "A", res.Grade)
}

func TestScorecard_UnknownSupplier_NotFound(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Scorecard("SUP-999", january())
	assert.True(t, model.IsNotFound(err))
}

func TestScorecard_InvalidRange_Rejected(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Scorecard("SUP-001", model.DateRange{Start: "2024-02-01", End: "2024-01-01"})
	assert.ErrorIs(t, err, model.ErrInvalidDateRange)
}

func TestScorecard_GradeBands(t *testing.T) {
	// Drive the score down with many High issues on the batch and check
	// the band boundaries hold.
	snap := testSnapshot()
	for i := 0; i < 4; i++ {
		snap.ProductionBatches[0].QualityIssues = append(snap.ProductionBatches[0].QualityIssues,
			model.QualityIssue{Type: "material", Description: "Repeat material failure",
				PartsAffected: 1, Severity: model.SeverityHigh,
				Date: "2024-01-15", Machine: "Assembly-001",
				LotNumber: "LOT-A", SupplierID: "SUP-001"})
	}
	e := newEngineOver(t, snap)

	// 5 High issues naming 6 parts: 100 - 15 (ppm) - 25 = 60 -> D.
	res, err := e.Scorecard("SUP-001", january())
	require.NoError(t, err)
	assert.InDelta(t, 15000.0, res.Metrics.DefectRatePPM, 0.001)
	assert.InDelta(t, 60.0, res.Metrics.PerformanceScore, 0.001)
	assert.Equal(t, "D", res.Grade)
	assert.Equal(t, "Poor supplier, consider alternative sources", res.Recommendation)
}
