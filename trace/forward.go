package trace

import "github.com/warp/factory-trace/model"

// ForwardTrace walks from a supplier to every batch that consumed the
// supplier's lots, the quality fallout in those batches, and the
// customer orders they fulfilled. The range filters lots by
// received_date and batches by production date; open endpoints widen
// the window.
func (e *Engine) ForwardTrace(supplierID model.SupplierID, r model.DateRange) (*ForwardTraceResult, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	sup, err := e.Supplier(supplierID)
	if err != nil {
		return nil, err
	}

	lots := e.lotsForSupplier(supplierID, r)
	batches := e.batchesUsingLots(lotNumberSet(lots), r)

	affected := make([]AffectedBatch, 0, len(batches))
	var issues []QualityIssueSummary
	var orders []*model.Order
	seenOrders := make(map[model.OrderID]struct{})
	totalDefects := 0

	for _, b := range batches {
		affected = append(affected, AffectedBatch{
			BatchID:       b.BatchID,
			Date:          b.Date,
			MachineName:   b.MachineName,
			Shift:         b.ShiftName,
			PartsProduced: b.PartsProduced,
			ScrapParts:    b.ScrapParts,
			OrderID:       b.OrderID,
		})
		totalDefects += b.ScrapParts

		if b.ScrapParts > 0 {
			issues = append(issues, QualityIssueSummary{
				BatchID:     b.BatchID,
				Date:        b.Date,
				MachineName: b.MachineName,
				DefectCount: b.ScrapParts,
			})
		}

		if b.OrderID == "" {
			continue
		}
		if _, dup := seenOrders[b.OrderID]; dup {
			continue
		}
		seenOrders[b.OrderID] = struct{}{}
		if order, ok := e.idx.OrderByID[b.OrderID]; ok {
			orders = append(orders, order)
		} else {
			e.log.Warn().
				Str("batch_id", string(b.BatchID)).
				Str("order_id", string(b.OrderID)).
				Msg("forward trace: dangling order reference")
		}
	}

	return &ForwardTraceResult{
		Supplier:             sup,
		DateRange:            DateRangeOut{Start: r.Start, End: r.End},
		MaterialLotsSupplied: len(lots),
		AffectedBatches:      affected,
		QualityIssues:        issues,
		AffectedOrders:       orders,
		ImpactSummary: ImpactSummary{
			BatchesAffected:     len(batches),
			QualityIssuesCount:  len(issues),
			TotalDefects:        totalDefects,
			OrdersAffected:      len(orders),
			EstimatedCostImpact: e.costImpact(totalDefects),
		},
	}, nil
}

// impactDetailLimit caps the batch and issue detail lists of an impact
// report. The counters above the lists always cover the full result
// set; the lot list is returned whole.
const impactDetailLimit = 10

// SupplierImpact is the cost-focused variant of a forward trace,
// shaped for an executive summary. The range scopes lots by
// received_date and batches by production date, like ForwardTrace;
// open endpoints widen the window.
func (e *Engine) SupplierImpact(supplierID model.SupplierID, r model.DateRange) (*SupplierImpactResult, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	sup, err := e.Supplier(supplierID)
	if err != nil {
		return nil, err
	}

	lots := e.lotsForSupplier(supplierID, r)
	batches := e.batchesUsingLots(lotNumberSet(lots), r)

	var detail []ImpactBatch
	var issues []QualityIssueSummary
	totalDefects := 0
	issueCount := 0

	for _, b := range batches {
		totalDefects += b.ScrapParts
		if len(detail) < impactDetailLimit {
			detail = append(detail, ImpactBatch{
				BatchID:           b.BatchID,
				Date:              b.Date,
				MachineName:       b.MachineName,
				PartsProduced:     b.PartsProduced,
				ScrapParts:        b.ScrapParts,
				MaterialsConsumed: b.MaterialsConsumed,
			})
		}
		if b.ScrapParts > 0 {
			issueCount++
			if len(issues) < impactDetailLimit {
				issues = append(issues, QualityIssueSummary{
					BatchID:     b.BatchID,
					Date:        b.Date,
					MachineName: b.MachineName,
					DefectCount: b.ScrapParts,
				})
			}
		}
	}

	return &SupplierImpactResult{
		Supplier:             sup,
		DateRange:            DateRangeOut{Start: r.Start, End: r.End},
		MaterialLotsSupplied: len(lots),
		AffectedBatchesCount: len(batches),
		QualityIssuesCount:   issueCount,
		TotalDefects:         totalDefects,
		EstimatedCostImpact:  e.costImpact(totalDefects),
		MaterialLots:         lots,
		AffectedBatches:      detail,
		QualityIssues:        issues,
	}, nil
}
