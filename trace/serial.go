package trace

import (
	"strconv"

	"github.com/warp/factory-trace/model"
)

// SerialTrace reconstructs one serialized part's history: the batch
// that produced it, the order it fulfilled, the material lots that went
// into it, and any defect pinned to this exact serial. Every batch's
// issues are scanned, not just the producing batch's: a defect found at
// a downstream station is logged on that station's batch. Status is
// DEFECTIVE only when an issue's affected-serial list names the serial;
// sharing a batch with defective parts does not condemn it.
func (e *Engine) SerialTrace(serial int) (*SerialTraceResult, error) {
	batch := e.batchForSerial(serial)
	if batch == nil {
		return nil, model.NewNotFound("serial", strconv.Itoa(serial))
	}

	result := &SerialTraceResult{
		SerialNumber: serial,
		Production: SerialProduction{
			Date:     batch.Date,
			Machine:  batch.MachineName,
			BatchID:  batch.BatchID,
			Shift:    batch.ShiftName,
			Operator: batch.Operator,
		},
		Status: SerialStatusOK,
	}

	if batch.OrderID != "" {
		if order, ok := e.idx.OrderByID[batch.OrderID]; ok {
			result.Order = &SerialOrder{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				Customer:    order.Customer,
				PartNumber:  batch.PartNumber,
			}
		} else {
			e.log.Warn().
				Str("batch_id", string(batch.BatchID)).
				Str("order_id", string(batch.OrderID)).
				Msg("serial trace: dangling order reference")
		}
	}

	for _, usage := range batch.MaterialsConsumed {
		mat := SerialMaterial{
			MaterialID: usage.MaterialID,
			LotNumber:  usage.LotNumber,
			Supplier:   "Unknown",
		}
		if lot, ok := e.idx.LotByNumber[usage.LotNumber]; ok {
			if sup, ok := e.idx.SupplierByID[lot.SupplierID]; ok {
				mat.Supplier = sup.Name
			}
		}
		result.Materials = append(result.Materials, mat)
	}

	snap := e.idx.Snapshot
	for i := range snap.ProductionBatches {
		for _, issue := range snap.ProductionBatches[i].QualityIssues {
			if !serialAffected(issue, serial) {
				continue
			}
			result.QualityIssues = append(result.QualityIssues, SerialIssue{
				IssueType: issue.Type,
				Severity:  issue.Severity,
				RootCause: issue.RootCause,
			})
			result.Status = SerialStatusDefective
		}
	}

	return result, nil
}

// batchForSerial finds the batch whose inclusive serial range covers
// the serial. Ranges never overlap within a machine (the snapshot
// validator enforces it), so the first match is the only match.
func (e *Engine) batchForSerial(serial int) *model.ProductionBatch {
	snap := e.idx.Snapshot
	for i := range snap.ProductionBatches {
		b := &snap.ProductionBatches[i]
		if b.ContainsSerial(serial) {
			return b
		}
	}
	return nil
}

func serialAffected(issue model.QualityIssue, serial int) bool {
	for _, s := range issue.AffectedSerials {
		if s == serial {
			return true
		}
	}
	return false
}
