package trace

import (
	"sort"

	"github.com/warp/factory-trace/model"
)

// OrderBatches lists the production batches assigned to an order with
// a fulfillment summary. An order with no batches yet is a valid
// answer: the summary reports zeros and a 0 quality rate.
func (e *Engine) OrderBatches(orderID model.OrderID) (*OrderBatchesResult, error) {
	order, err := e.Order(orderID)
	if err != nil {
		return nil, err
	}

	batches := e.idx.BatchesByOrder[orderID]
	summary := OrderProductionSummary{BatchesCount: len(batches)}
	for _, b := range batches {
		summary.TotalProduced += b.PartsProduced
		summary.TotalGoodParts += b.GoodParts
		summary.TotalScrap += b.ScrapParts
	}
	if summary.TotalProduced > 0 {
		summary.QualityRate = round2(float64(summary.TotalGoodParts) / float64(summary.TotalProduced) * 100)
	}

	return &OrderBatchesResult{
		Order:             order,
		AssignedBatches:   batches,
		ProductionSummary: summary,
	}, nil
}

// =============================================================================
// LIST QUERIES
// =============================================================================

// ListSuppliers returns suppliers, optionally filtered by status,
// sorted by quality rating descending.
func (e *Engine) ListSuppliers(status model.SupplierStatus) []*model.Supplier {
	snap := e.idx.Snapshot
	out := make([]*model.Supplier, 0, len(snap.Suppliers))
	for i := range snap.Suppliers {
		s := &snap.Suppliers[i]
		if status != "" && s.Status != status {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].QualityMetrics.QualityRating > out[j].QualityMetrics.QualityRating
	})
	return out
}

// BatchFilter narrows a batch listing. Zero values mean no filter.
type BatchFilter struct {
	MachineID *int
	OrderID   model.OrderID
	Range     model.DateRange
	Limit     int
}

// ListBatches returns batches matching the filter, in snapshot order
// (chronological, as generated). Limit 0 means no cap.
func (e *Engine) ListBatches(f BatchFilter) ([]*model.ProductionBatch, error) {
	if err := f.Range.Validate(); err != nil {
		return nil, err
	}
	snap := e.idx.Snapshot
	var out []*model.ProductionBatch
	for i := range snap.ProductionBatches {
		b := &snap.ProductionBatches[i]
		if f.MachineID != nil && b.MachineID != *f.MachineID {
			continue
		}
		if f.OrderID != "" && b.OrderID != f.OrderID {
			continue
		}
		if !f.Range.Contains(b.Date) {
			continue
		}
		out = append(out, b)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

// ListOrders returns orders, optionally filtered by status. Limit 0
// means no cap.
func (e *Engine) ListOrders(status model.OrderStatus, limit int) []*model.Order {
	snap := e.idx.Snapshot
	var out []*model.Order
	for i := range snap.Orders {
		o := &snap.Orders[i]
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, o)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
