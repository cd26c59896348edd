package trace

import "github.com/warp/factory-trace/model"

// LotTrace reports everything a received lot touched: which batches
// drew from it and how much, the serial ranges those batches produced,
// the quality issues attributed to the lot, and whether the lot should
// be quarantined.
func (e *Engine) LotTrace(lotNumber model.LotNumber) (*LotTraceResult, error) {
	lot, ok := e.idx.LotByNumber[lotNumber]
	if !ok {
		return nil, model.NewNotFound("lot", string(lotNumber))
	}

	var supplier *SupplierRef
	if sup, ok := e.idx.SupplierByID[lot.SupplierID]; ok {
		supplier = &SupplierRef{
			SupplierID:    sup.ID,
			Name:          sup.Name,
			QualityRating: sup.QualityMetrics.QualityRating,
		}
	} else {
		e.log.Warn().
			Str("lot_number", string(lotNumber)).
			Str("supplier_id", string(lot.SupplierID)).
			Msg("lot trace: dangling supplier reference")
	}

	var usages []LotBatchUsage
	var issues []LotIssueRef
	var highBatches []model.BatchID
	totalUsed := 0.0

	snap := e.idx.Snapshot
	for i := range snap.ProductionBatches {
		b := &snap.ProductionBatches[i]

		for _, usage := range b.MaterialsConsumed {
			if usage.LotNumber != lotNumber {
				continue
			}
			usages = append(usages, LotBatchUsage{
				BatchID:      b.BatchID,
				Date:         b.Date,
				Machine:      b.MachineName,
				OrderID:      b.OrderID,
				QuantityUsed: usage.QuantityUsed,
				SerialStart:  b.SerialStart,
				SerialEnd:    b.SerialEnd,
			})
			totalUsed += usage.QuantityUsed
		}

		for _, issue := range b.QualityIssues {
			if issue.LotNumber != lotNumber {
				continue
			}
			issues = append(issues, LotIssueRef{
				BatchID:       b.BatchID,
				Date:          b.Date,
				IssueType:     issue.Type,
				Severity:      issue.Severity,
				PartsAffected: issue.PartsAffected,
			})
			if issue.Severity == model.SeverityHigh {
				highBatches = append(highBatches, b.BatchID)
			}
		}
	}

	rec := QuarantineRecommendation{Reason: "No critical issues linked to this lot"}
	if len(highBatches) > 0 {
		rec = QuarantineRecommendation{
			ShouldQuarantine: true,
			Reason:           "High severity issues linked to this lot",
			AffectedBatches:  highBatches,
		}
	}

	return &LotTraceResult{
		Lot:      lot,
		Supplier: supplier,
		Usage: LotUsage{
			BatchesCount:      len(usages),
			TotalQuantityUsed: round2(totalUsed),
			Batches:           usages,
		},
		QualityIssues: LotIssues{
			Count:  len(issues),
			Issues: issues,
		},
		QuarantineRecommendation: rec,
	}, nil
}
