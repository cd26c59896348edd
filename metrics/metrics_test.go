package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/factory-trace/metrics"
	"github.com/warp/factory-trace/model"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// testProduction is a hand-built rollup across two days and two
// machines, with one 4h downtime event above the major threshold.
func testProduction() model.Production {
	return model.Production{
		"2024-01-15": {
			"CNC-001": &model.MachineDay{
				PartsProduced: 1000, GoodParts: 950, ScrapParts: 50, ScrapRate: 5.0,
				UptimeHours: 15.0, DowntimeHours: 1.0,
				DowntimeEvents: []model.DowntimeEvent{
					{Reason: "mechanical", Description: "Mechanical failure", DurationHours: 1.0},
				},
				QualityIssues: []model.QualityIssue{
					{Type: "dimensional", Description: "Out of tolerance",
						PartsAffected: 5, Severity: model.SeverityHigh},
				},
			},
		},
		"2024-01-16": {
			"CNC-001": &model.MachineDay{
				PartsProduced: 500, GoodParts: 490, ScrapParts: 10, ScrapRate: 2.0,
				UptimeHours: 12.0, DowntimeHours: 4.0,
				DowntimeEvents: []model.DowntimeEvent{
					{Reason: "mechanical", Description: "Mechanical failure", DurationHours: 4.0},
				},
				QualityIssues: []model.QualityIssue{
					{Type: "surface", Description: "Surface defect",
						PartsAffected: 2, Severity: model.SeverityMedium},
				},
			},
			"Assembly-001": &model.MachineDay{
				PartsProduced: 300, GoodParts: 295, ScrapParts: 5, ScrapRate: 1.67,
				UptimeHours: 14.0, DowntimeHours: 2.0,
				DowntimeEvents: []model.DowntimeEvent{
					{Reason: "changeover", Description: "Product changeover", DurationHours: 2.0},
				},
			},
		},
	}
}

func newTestEngine(t *testing.T) *metrics.Engine {
	t.Helper()
	return metrics.New(testProduction(), metrics.DefaultConfig())
}

func window() model.DateRange {
	return model.DateRange{Start: "2024-01-15", End: "2024-01-16"}
}

// =============================================================================
// OEE
// =============================================================================

func TestOEE_AllMachines(t *testing.T) {
	// GIVEN: three rollup entries totaling 41h uptime over 48h planned
	// WHEN:  OEE is computed with the fixed 0.95 performance factor
	// THEN:  availability x performance x quality, rounded to 3 decimals
	e := newTestEngine(t)

	res, err := e.OEE(window(), "")
	require.NoError(t, err)
	require.False(t, res.NoData)

	assert.InDelta(t, 0.854, res.Availability, 0.001, "41/48")
	assert.InDelta(t, 0.95, res.Performance, 0.001)
	assert.InDelta(t, 0.964, res.Quality, 0.001, "1735/1800")
	assert.InDelta(t, 0.782, res.OEE, 0.002)
	assert.Equal(t, 1800, res.TotalParts)
	assert.Equal(t, 1735, res.GoodParts)
	assert.Equal(t, 65, res.ScrapParts)
}

func TestOEE_MachineFilter(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.OEE(window(), "CNC-001")
	require.NoError(t, err)

	assert.InDelta(t, 0.844, res.Availability, 0.001, "27/32")
	assert.InDelta(t, 0.96, res.Quality, 0.001, "1440/1500")
	assert.Equal(t, 1500, res.TotalParts)
}

func TestOEE_WindowOutsideData_NoData(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.OEE(model.DateRange{Start: "2030-01-01", End: "2030-01-07"}, "")
	require.NoError(t, err, "an empty window is not an error")
	assert.True(t, res.NoData)
}

func TestOEE_UnknownMachine_NoData(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.OEE(window(), "Laser-009")
	require.NoError(t, err)
	assert.True(t, res.NoData)
}

// =============================================================================
// SCRAP
// =============================================================================

func TestScrap_AllMachines_IncludesPerMachineBreakdown(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Scrap(window(), "")
	require.NoError(t, err)

	assert.Equal(t, 65, res.TotalScrap)
	assert.Equal(t, 1800, res.TotalParts)
	assert.InDelta(t, 3.61, res.ScrapRate, 0.001)
	assert.Equal(t, map[string]int{"CNC-001": 60, "Assembly-001": 5}, res.ScrapByMachine)
}

func TestScrap_MachineFilter_OmitsBreakdown(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Scrap(window(), "CNC-001")
	require.NoError(t, err)

	assert.Equal(t, 60, res.TotalScrap)
	assert.Nil(t, res.ScrapByMachine, "a pinned query already knows its machine")
}

// =============================================================================
// QUALITY ISSUES
// =============================================================================

func TestQualityIssues_SeverityFilterAndCoordinates(t *testing.T) {
	// GIVEN: one High and one Medium issue across the window
	// WHEN:  filtered to High
	// THEN:  only the High issue is listed, stamped with its rollup
	//        date and machine
	e := newTestEngine(t)

	res, err := e.QualityIssues(window(), model.SeverityHigh, "")
	require.NoError(t, err)

	require.Len(t, res.Issues, 1)
	assert.Equal(t, "dimensional", res.Issues[0].Type)
	assert.Equal(t, "2024-01-15", res.Issues[0].Date)
	assert.Equal(t, "CNC-001", res.Issues[0].Machine)
	assert.Equal(t, 1, res.TotalIssues)
	assert.Equal(t, 5, res.TotalPartsAffected)
	assert.Equal(t, map[model.Severity]int{model.SeverityHigh: 1}, res.SeverityBreakdown)
}

func TestQualityIssues_Unfiltered_ListsAllInStableOrder(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.QualityIssues(window(), "", "")
	require.NoError(t, err)

	require.Len(t, res.Issues, 2)
	assert.Equal(t, "dimensional", res.Issues[0].Type, "dates ascend, machines sort by name")
	assert.Equal(t, "surface", res.Issues[1].Type)
	assert.Equal(t, 7, res.TotalPartsAffected)
}

// =============================================================================
// DOWNTIME
// =============================================================================

func TestDowntime_TotalsAndMajorEvents(t *testing.T) {
	// GIVEN: events of 1h, 4h, and 2h across the window
	// WHEN:  downtime is analyzed
	// THEN:  only the 4h event exceeds the 2h major threshold
	e := newTestEngine(t)

	res, err := e.Downtime(window(), "")
	require.NoError(t, err)

	assert.InDelta(t, 7.0, res.TotalDowntimeHours, 0.001)
	assert.InDelta(t, 5.0, res.DowntimeByReason["mechanical"], 0.001)
	assert.InDelta(t, 2.0, res.DowntimeByReason["changeover"], 0.001)

	require.Len(t, res.MajorEvents, 1, "the threshold is strict: a 2.0h event is not major")
	assert.Equal(t, "2024-01-16", res.MajorEvents[0].Date)
	assert.Equal(t, "CNC-001", res.MajorEvents[0].Machine)
	assert.InDelta(t, 4.0, res.MajorEvents[0].DurationHours, 0.001)
}

// =============================================================================
// RANGE VALIDATION
// =============================================================================

func TestReducers_RequireClosedValidRange(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.OEE(model.DateRange{Start: "2024-01-15"}, "")
	var dateErr *model.InvalidDateError
	assert.ErrorAs(t, err, &dateErr, "metrics windows need both endpoints")

	_, err = e.Scrap(model.DateRange{Start: "2024-13-01", End: "2024-01-16"}, "")
	assert.ErrorAs(t, err, &dateErr)

	_, err = e.Downtime(model.DateRange{Start: "2024-01-16", End: "2024-01-15"}, "")
	assert.ErrorIs(t, err, model.ErrInvalidDateRange)

	_, err = e.QualityIssues(model.DateRange{}, "", "")
	assert.Error(t, err)
}

func TestReducers_AreIdempotent(t *testing.T) {
	// Repeated calls over the same rollup must return identical results,
	// including listing order.
	e := newTestEngine(t)

	first, err := e.QualityIssues(window(), "", "")
	require.NoError(t, err)
	second, err := e.QualityIssues(window(), "", "")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	d1, err := e.Downtime(window(), "")
	require.NoError(t, err)
	d2, err := e.Downtime(window(), "")
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}
