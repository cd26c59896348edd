package synth

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/factory-trace/model"
)

// =============================================================================
// MATERIAL LOTS
// =============================================================================

var lotStatuses = []model.LotStatus{
	model.LotAvailable,
	model.LotInUse,
	model.LotDepleted,
	model.LotQuarantine,
	model.LotRejected,
}

// Status weights by supplier quality band. Low-quality suppliers ship
// noticeably more quarantined and rejected lots.
var (
	lowQualityLotWeights  = []float64{0.6, 0.2, 0.1, 0.05, 0.05}
	highQualityLotWeights = []float64{0.7, 0.25, 0.04, 0.005, 0.005}
)

// generateLots produces 20-30 receipts spread across the window.
func (g *Generator) generateLots(suppliers []model.Supplier, materials []model.MaterialSpec, start time.Time) []model.MaterialLot {
	numLots := g.intBetween(20, 30)
	lots := make([]model.MaterialLot, 0, numLots)
	counter := 1

	for i := 0; i < numLots; i++ {
		material := materials[g.rng.Intn(len(materials))]

		var matching []model.Supplier
		for _, s := range suppliers {
			for _, m := range s.MaterialsSupplied {
				if m == material.ID {
					matching = append(matching, s)
					break
				}
			}
		}
		if len(matching) == 0 {
			g.log.Warn().
				Str("material_id", string(material.ID)).
				Msg("no supplier carries material, skipping lot")
			continue
		}
		supplier := matching[g.rng.Intn(len(matching))]

		received := start.AddDate(0, 0, g.rng.Intn(g.cfg.Days))

		var quantity int
		switch material.Unit {
		case "kg":
			quantity = g.intBetween(500, 2000)
		case "pieces":
			quantity = g.intBetween(1000, 5000)
		default:
			quantity = g.intBetween(100, 1000)
		}

		weights := highQualityLotWeights
		if supplier.QualityMetrics.QualityRating < 80 {
			weights = lowQualityLotWeights
		}
		status := lotStatuses[g.weighted(weights)]

		var inspStatus, notes string
		switch status {
		case model.LotRejected:
			inspStatus = "Failed"
			notes = "Material did not meet specification requirements"
		case model.LotQuarantine:
			inspStatus = "Hold"
			notes = "Suspect quality - pending further investigation"
		default:
			inspStatus = "Passed"
			notes = "All tests within specification"
		}

		var remaining float64
		switch status {
		case model.LotDepleted:
			remaining = 0.0
		case model.LotInUse, model.LotAvailable:
			remaining = round2f(float64(quantity) * g.between(0.3, 1.0))
		default:
			remaining = float64(quantity)
		}

		lots = append(lots, model.MaterialLot{
			LotNumber:         model.LotNumber(fmt.Sprintf("LOT-%s-%03d", received.Format("20060102"), counter)),
			MaterialID:        material.ID,
			SupplierID:        supplier.ID,
			ReceivedDate:      received.Format(model.DateLayout),
			QuantityReceived:  float64(quantity),
			QuantityRemaining: remaining,
			InspectionResults: map[string]string{
				"status":       inspStatus,
				"inspector":    fmt.Sprintf("Inspector-%d", g.intBetween(1, 5)),
				"notes":        notes,
				"test_results": "See attached report",
			},
			Status:     status,
			Quarantine: status == model.LotQuarantine,
		})
		counter++
	}
	return lots
}

// =============================================================================
// CUSTOMER ORDERS
// =============================================================================

var orderStatuses = []model.OrderStatus{
	model.OrderPending,
	model.OrderInProgress,
	model.OrderCompleted,
	model.OrderShipped,
	model.OrderDelayed,
}

var priorities = []model.Priority{
	model.PriorityLow,
	model.PriorityNormal,
	model.PriorityHigh,
	model.PriorityUrgent,
}

var (
	pastDueStatusWeights = []float64{0.05, 0.1, 0.5, 0.3, 0.05}
	openStatusWeights    = []float64{0.2, 0.5, 0.2, 0.08, 0.02}
	priorityWeights      = []float64{0.1, 0.6, 0.25, 0.05}
)

// generateOrders produces 10-15 orders with decimal-exact totals.
func (g *Generator) generateOrders(start time.Time) []model.Order {
	numOrders := g.intBetween(10, 15)
	orders := make([]model.Order, 0, numOrders)

	for i := 0; i < numOrders; i++ {
		numItems := g.intBetween(1, 3)
		items := make([]model.OrderItem, 0, numItems)
		total := decimal.Zero

		for j := 0; j < numItems; j++ {
			quantity := g.intBetween(50, 500)
			unitPrice := decimal.NewFromFloat(g.between(10.0, 100.0)).Round(2)
			items = append(items, model.OrderItem{
				PartNumber: partNumbers[g.rng.Intn(len(partNumbers))],
				Quantity:   quantity,
				UnitPrice:  unitPrice.InexactFloat64(),
			})
			total = total.Add(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
		}

		minOffset := min(5, max(1, g.cfg.Days-1))
		maxOffset := min(25, max(1, g.cfg.Days))
		dueOffset := g.intBetween(minOffset, maxOffset)
		dueDate := start.AddDate(0, 0, dueOffset)

		// Orders due well before the window's end skew toward
		// completed or shipped.
		windowEnd := start.AddDate(0, 0, g.cfg.Days)
		weights := openStatusWeights
		if dueDate.Before(windowEnd.AddDate(0, 0, -5)) {
			weights = pastDueStatusWeights
		}
		status := orderStatuses[g.weighted(weights)]

		var shippingDate *string
		if status == model.OrderShipped {
			shipped := start.AddDate(0, 0, g.rng.Intn(dueOffset)).Format(model.DateLayout)
			shippingDate = &shipped
		}

		orders = append(orders, model.Order{
			ID:           model.OrderID(fmt.Sprintf("ORD-%03d", i+1)),
			OrderNumber:  fmt.Sprintf("PO-2024-%d", i+1000),
			Customer:     customers[g.rng.Intn(len(customers))],
			Items:        items,
			DueDate:      dueDate.Format(model.DateLayout),
			Status:       status,
			Priority:     priorities[g.weighted(priorityWeights)],
			ShippingDate: shippingDate,
			TotalValue:   total.Round(2).InexactFloat64(),
		})
	}
	return orders
}

func round2f(v float64) float64 { return math.Round(v*100) / 100 }
