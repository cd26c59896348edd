package trace

import (
	"math"

	"github.com/warp/factory-trace/model"
)

// BackwardTrace walks from a finished batch back to every material lot
// it consumed and the suppliers those lots came from. Dangling lot or
// supplier references degrade to nil enrichment with a warning; an
// investigation still benefits from the hops that do resolve.
func (e *Engine) BackwardTrace(batchID model.BatchID) (*BackwardTraceResult, error) {
	batch, err := e.Batch(batchID)
	if err != nil {
		return nil, err
	}

	entries := make([]MaterialTraceEntry, 0, len(batch.MaterialsConsumed))
	var suppliers []*model.Supplier
	seen := make(map[model.SupplierID]struct{})

	for _, usage := range batch.MaterialsConsumed {
		entry := MaterialTraceEntry{
			MaterialID:   usage.MaterialID,
			QuantityUsed: usage.QuantityUsed,
			Unit:         usage.Unit,
			LotNumber:    usage.LotNumber,
		}

		if spec, ok := e.idx.MaterialByID[usage.MaterialID]; ok {
			entry.MaterialName = spec.Name
			entry.MaterialSpec = spec
		} else {
			e.log.Warn().
				Str("batch_id", string(batchID)).
				Str("material_id", string(usage.MaterialID)).
				Msg("backward trace: material not in catalog")
		}

		lot, ok := e.idx.LotByNumber[usage.LotNumber]
		if !ok {
			e.log.Warn().
				Str("batch_id", string(batchID)).
				Str("lot_number", string(usage.LotNumber)).
				Msg("backward trace: dangling lot reference")
			entries = append(entries, entry)
			continue
		}
		entry.LotDetails = lot

		if sup, ok := e.idx.SupplierByID[lot.SupplierID]; ok {
			entry.Supplier = sup
			if _, dup := seen[sup.ID]; !dup {
				seen[sup.ID] = struct{}{}
				suppliers = append(suppliers, sup)
			}
		} else {
			e.log.Warn().
				Str("lot_number", string(lot.LotNumber)).
				Str("supplier_id", string(lot.SupplierID)).
				Msg("backward trace: dangling supplier reference")
		}
		entries = append(entries, entry)
	}

	return &BackwardTraceResult{
		Batch:          batch,
		MaterialsTrace: entries,
		Suppliers:      suppliers,
		SupplyChainSummary: SupplyChainSummary{
			MaterialsCount:     len(entries),
			SuppliersCount:     len(suppliers),
			TotalPartsProduced: batch.PartsProduced,
			ScrapParts:         batch.ScrapParts,
			QualityRate:        round2(batch.QualityRate()),
		},
	}, nil
}

// round2 rounds to two decimals, the precision used for rates and
// percentages throughout the query results.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
