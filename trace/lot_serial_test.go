package trace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/factory-trace/model"
	"github.com/warp/factory-trace/trace"
)

// =============================================================================
// LOT TRACE
// =============================================================================

func TestLotTrace_UsageAndIssuesAndQuarantine(t *testing.T) {
	// GIVEN: LOT-A, drawn by one batch that logged a High severity issue
	// WHEN:  the lot is traced
	// THEN:  usage, issues, and a quarantine recommendation are reported
	e := newTestEngine(t)

	res, err := e.LotTrace("LOT-A")
	require.NoError(t, err)

	require.NotNil(t, res.Supplier)
	assert.Equal(t, model.SupplierID("SUP-001"), res.Supplier.SupplierID)
	assert.InDelta(t, 95.0, res.Supplier.QualityRating, 0.001)

	assert.Equal(t, 1, res.Usage.BatchesCount)
	assert.InDelta(t, 25.0, res.Usage.TotalQuantityUsed, 0.001)
	require.Len(t, res.Usage.Batches, 1)
	require.NotNil(t, res.Usage.Batches[0].SerialStart, "serialized batches expose their range")
	assert.Equal(t, 1000, *res.Usage.Batches[0].SerialStart)

	assert.Equal(t, 1, res.QualityIssues.Count)
	require.Len(t, res.QualityIssues.Issues, 1)
	assert.Equal(t, model.SeverityHigh, res.QualityIssues.Issues[0].Severity)

	assert.True(t, res.QuarantineRecommendation.ShouldQuarantine,
		"a High severity issue triggers the recommendation")
	assert.Equal(t, []model.BatchID{"BATCH-1"}, res.QuarantineRecommendation.AffectedBatches)
}

func TestLotTrace_CleanLot_NoQuarantine(t *testing.T) {
	// LOT-B was drawn by both batches but never implicated in an issue.
	e := newTestEngine(t)

	res, err := e.LotTrace("LOT-B")
	require.NoError(t, err)

	assert.Equal(t, 2, res.Usage.BatchesCount)
	assert.InDelta(t, 300.0, res.Usage.TotalQuantityUsed, 0.001)
	assert.Zero(t, res.QualityIssues.Count)
	assert.False(t, res.QuarantineRecommendation.ShouldQuarantine)
}

func TestLotTrace_UnknownLot_NotFound(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.LotTrace("LOT-999")
	var nf *model.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "lot", nf.Kind)
}

// =============================================================================
// SERIAL TRACE
// =============================================================================

func TestSerialTrace_AffectedSerial_Defective(t *testing.T) {
	// GIVEN: serial 1005, named by BATCH-1's issue affected list
	// WHEN:  traced
	// THEN:  status is DEFECTIVE with the issue attached
	e := newTestEngine(t)

	res, err := e.SerialTrace(1005)
	require.NoError(t, err)

	assert.Equal(t, trace.SerialStatusDefective, res.Status)
	assert.Equal(t, model.BatchID("BATCH-1"), res.Production.BatchID)
	assert.Equal(t, "Assembly-001", res.Production.Machine)
	require.Len(t, res.QualityIssues, 1)
	assert.Equal(t, model.RootCauseSupplierQuality, res.QualityIssues[0].RootCause)

	require.NotNil(t, res.Order)
	assert.Equal(t, "Acme Manufacturing", res.Order.Customer)

	require.Len(t, res.Materials, 2)
	assert.Equal(t, "Precision Metals Inc", res.Materials[0].Supplier)
}

func TestSerialTrace_SiblingSerialInSameBatch_OK(t *testing.T) {
	// Sharing a batch with defective parts does not condemn a serial:
	// only the serials the issue names are DEFECTIVE.
	e := newTestEngine(t)

	res, err := e.SerialTrace(1050)
	require.NoError(t, err)

	assert.Equal(t, trace.SerialStatusOK, res.Status)
	assert.Empty(t, res.QualityIssues)
	assert.Equal(t, model.BatchID("BATCH-1"), res.Production.BatchID)
}

func TestSerialTrace_IssueLoggedOnDownstreamBatch_StillFound(t *testing.T) {
	// GIVEN: serial 1050 produced by BATCH-1, with the defect logged
	//        against BATCH-2 where a later station caught it
	// WHEN:  the serial is traced
	// THEN:  the scan covers every batch's issues and the part is
	//        DEFECTIVE, not OK
	snap := testSnapshot()
	snap.ProductionBatches[1].QualityIssues = append(snap.ProductionBatches[1].QualityIssues,
		model.QualityIssue{
			Type: "assembly", Description: "Cracked housing found at packaging",
			PartsAffected: 2, Severity: model.SeverityHigh,
			Date: "2024-01-16", Machine: "CNC-001",
			AffectedSerials: []int{1050, 1051},
		})
	e := newEngineOver(t, snap)

	res, err := e.SerialTrace(1050)
	require.NoError(t, err)

	assert.Equal(t, model.BatchID("BATCH-1"), res.Production.BatchID,
		"the producing batch still anchors the trace")
	require.Len(t, res.QualityIssues, 1)
	assert.Equal(t, "assembly", res.QualityIssues[0].IssueType)
	assert.Equal(t, trace.SerialStatusDefective, res.Status)
}

func TestSerialTrace_BatchWithoutOrder_NilOrderBlock(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.SerialTrace(1120)
	require.NoError(t, err)

	assert.Equal(t, model.BatchID("BATCH-2"), res.Production.BatchID)
	assert.Nil(t, res.Order, "stock production carries no order context")
	assert.Equal(t, trace.SerialStatusOK, res.Status)
}

func TestSerialTrace_UnassignedSerial_NotFound(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.SerialTrace(99)
	var nf *model.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "serial", nf.Kind)
}
