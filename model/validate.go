/*
validate.go - Boundary validation for every entity

PURPOSE:
  Raw rows/JSON become trusted entities here, at the parse boundary, so
  the engines deeper in never re-check invariants. Each entity has a
  Validate method returning a *ValidationError on the first violation;
  Snapshot.Validate additionally checks cross-entity invariants:

    - every lot_number / supplier_id / material_id reference resolves
    - serial ranges never overlap within a machine
    - status=Depleted implies quantity_remaining = 0
    - parts_produced = good_parts + scrap_parts
    - status=Shipped implies shipping_date present
    - total_value approximately equals the sum of line items

TOLERANCE:
  total_value is float on the wire but money underneath, so the check
  runs on decimals with a one-cent-per-item tolerance for rounding.
*/
package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ENTITY VALIDATION
// =============================================================================

// Validate checks the supplier's own invariants.
func (s *Supplier) Validate() error {
	if s.ID == "" {
		return &ValidationError{Entity: "supplier", ID: string(s.ID), Field: "id", Msg: "is required"}
	}
	switch s.Status {
	case SupplierActive, SupplierOnHold, SupplierSuspended:
	default:
		return &ValidationError{Entity: "supplier", ID: string(s.ID), Field: "status",
			Msg: fmt.Sprintf("has unknown value %q", s.Status)}
	}
	qm := s.QualityMetrics
	if qm.QualityRating < 0 || qm.QualityRating > 100 {
		return &ValidationError{Entity: "supplier", ID: string(s.ID), Field: "quality_rating", Msg: "must be 0-100"}
	}
	if qm.OnTimeDeliveryRate < 0 || qm.OnTimeDeliveryRate > 100 {
		return &ValidationError{Entity: "supplier", ID: string(s.ID), Field: "on_time_delivery_rate", Msg: "must be 0-100"}
	}
	if qm.DefectRate < 0 {
		return &ValidationError{Entity: "supplier", ID: string(s.ID), Field: "defect_rate", Msg: "must be >= 0"}
	}
	return nil
}

// Validate checks the material spec's own invariants.
func (m *MaterialSpec) Validate() error {
	if m.ID == "" {
		return &ValidationError{Entity: "material", ID: string(m.ID), Field: "id", Msg: "is required"}
	}
	if m.Unit == "" {
		return &ValidationError{Entity: "material", ID: string(m.ID), Field: "unit", Msg: "is required"}
	}
	return nil
}

// Validate checks the lot's own invariants.
func (l *MaterialLot) Validate() error {
	if l.LotNumber == "" {
		return &ValidationError{Entity: "material_lot", ID: string(l.LotNumber), Field: "lot_number", Msg: "is required"}
	}
	if _, err := ParseDate(l.ReceivedDate); err != nil {
		return &ValidationError{Entity: "material_lot", ID: string(l.LotNumber), Field: "received_date", Msg: "is not YYYY-MM-DD"}
	}
	if l.QuantityReceived < 0 {
		return &ValidationError{Entity: "material_lot", ID: string(l.LotNumber), Field: "quantity_received", Msg: "must be >= 0"}
	}
	if l.QuantityRemaining < 0 || l.QuantityRemaining > l.QuantityReceived {
		return &ValidationError{Entity: "material_lot", ID: string(l.LotNumber), Field: "quantity_remaining",
			Msg: "must be between 0 and quantity_received"}
	}
	switch l.Status {
	case LotAvailable, LotInUse, LotDepleted, LotQuarantine, LotRejected:
	default:
		return &ValidationError{Entity: "material_lot", ID: string(l.LotNumber), Field: "status",
			Msg: fmt.Sprintf("has unknown value %q", l.Status)}
	}
	if l.Status == LotDepleted && l.QuantityRemaining != 0 {
		return &ValidationError{Entity: "material_lot", ID: string(l.LotNumber), Field: "quantity_remaining",
			Msg: "must be 0 when status is Depleted"}
	}
	if l.Quarantine != (l.Status == LotQuarantine) {
		return &ValidationError{Entity: "material_lot", ID: string(l.LotNumber), Field: "quarantine",
			Msg: "flag must be set exactly when status is Quarantine"}
	}
	return nil
}

// Validate checks the order's own invariants, including the total_value
// arithmetic against line items.
func (o *Order) Validate() error {
	if o.ID == "" {
		return &ValidationError{Entity: "order", ID: string(o.ID), Field: "id", Msg: "is required"}
	}
	if _, err := ParseDate(o.DueDate); err != nil {
		return &ValidationError{Entity: "order", ID: string(o.ID), Field: "due_date", Msg: "is not YYYY-MM-DD"}
	}
	switch o.Status {
	case OrderPending, OrderInProgress, OrderCompleted, OrderShipped, OrderDelayed:
	default:
		return &ValidationError{Entity: "order", ID: string(o.ID), Field: "status",
			Msg: fmt.Sprintf("has unknown value %q", o.Status)}
	}
	switch o.Priority {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
	default:
		return &ValidationError{Entity: "order", ID: string(o.ID), Field: "priority",
			Msg: fmt.Sprintf("has unknown value %q", o.Priority)}
	}
	if o.Status == OrderShipped && (o.ShippingDate == nil || *o.ShippingDate == "") {
		return &ValidationError{Entity: "order", ID: string(o.ID), Field: "shipping_date",
			Msg: "is required when status is Shipped"}
	}
	if o.Status != OrderShipped && o.ShippingDate != nil {
		return &ValidationError{Entity: "order", ID: string(o.ID), Field: "shipping_date",
			Msg: "must be absent unless status is Shipped"}
	}
	if o.TotalValue < 0 {
		return &ValidationError{Entity: "order", ID: string(o.ID), Field: "total_value", Msg: "must be >= 0"}
	}
	expected := decimal.Zero
	for i, item := range o.Items {
		if item.Quantity < 1 {
			return &ValidationError{Entity: "order", ID: string(o.ID),
				Field: fmt.Sprintf("items[%d].quantity", i), Msg: "must be >= 1"}
		}
		if item.UnitPrice < 0 {
			return &ValidationError{Entity: "order", ID: string(o.ID),
				Field: fmt.Sprintf("items[%d].unit_price", i), Msg: "must be >= 0"}
		}
		price := decimal.NewFromFloat(item.UnitPrice)
		expected = expected.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	// One cent per line item covers per-item rounding on the wire.
	tolerance := decimal.New(int64(len(o.Items)+1), -2)
	actual := decimal.NewFromFloat(o.TotalValue)
	if actual.Sub(expected).Abs().GreaterThan(tolerance) {
		return &ValidationError{Entity: "order", ID: string(o.ID), Field: "total_value",
			Msg: fmt.Sprintf("is %s but items sum to %s", actual.StringFixed(2), expected.StringFixed(2))}
	}
	return nil
}

// Validate checks the batch's own invariants.
func (b *ProductionBatch) Validate() error {
	if b.BatchID == "" {
		return &ValidationError{Entity: "batch", ID: string(b.BatchID), Field: "batch_id", Msg: "is required"}
	}
	if _, err := ParseDate(b.Date); err != nil {
		return &ValidationError{Entity: "batch", ID: string(b.BatchID), Field: "date", Msg: "is not YYYY-MM-DD"}
	}
	if b.MachineName == "" {
		return &ValidationError{Entity: "batch", ID: string(b.BatchID), Field: "machine_name", Msg: "is required"}
	}
	if b.PartsProduced < 0 || b.GoodParts < 0 || b.ScrapParts < 0 {
		return &ValidationError{Entity: "batch", ID: string(b.BatchID), Field: "parts_produced", Msg: "counts must be >= 0"}
	}
	if b.PartsProduced != b.GoodParts+b.ScrapParts {
		return &ValidationError{Entity: "batch", ID: string(b.BatchID), Field: "parts_produced",
			Msg: fmt.Sprintf("is %d but good+scrap is %d", b.PartsProduced, b.GoodParts+b.ScrapParts)}
	}
	if (b.SerialStart == nil) != (b.SerialEnd == nil) {
		return &ValidationError{Entity: "batch", ID: string(b.BatchID), Field: "serial_start",
			Msg: "and serial_end must be set together"}
	}
	if b.HasSerials() && *b.SerialEnd < *b.SerialStart {
		return &ValidationError{Entity: "batch", ID: string(b.BatchID), Field: "serial_end",
			Msg: "must be >= serial_start"}
	}
	if b.DurationHours < 0 {
		return &ValidationError{Entity: "batch", ID: string(b.BatchID), Field: "duration_hours", Msg: "must be >= 0"}
	}
	for i, u := range b.MaterialsConsumed {
		if u.LotNumber == "" {
			return &ValidationError{Entity: "batch", ID: string(b.BatchID),
				Field: fmt.Sprintf("materials_consumed[%d].lot_number", i), Msg: "is required"}
		}
		if u.QuantityUsed < 0 {
			return &ValidationError{Entity: "batch", ID: string(b.BatchID),
				Field: fmt.Sprintf("materials_consumed[%d].quantity_used", i), Msg: "must be >= 0"}
		}
	}
	for i, q := range b.QualityIssues {
		if q.PartsAffected < 0 {
			return &ValidationError{Entity: "batch", ID: string(b.BatchID),
				Field: fmt.Sprintf("quality_issues[%d].parts_affected", i), Msg: "must be >= 0"}
		}
		switch q.Severity {
		case SeverityLow, SeverityMedium, SeverityHigh:
		default:
			return &ValidationError{Entity: "batch", ID: string(b.BatchID),
				Field: fmt.Sprintf("quality_issues[%d].severity", i),
				Msg: fmt.Sprintf("has unknown value %q", q.Severity)}
		}
	}
	return nil
}

// =============================================================================
// SNAPSHOT VALIDATION
// =============================================================================

// Validate checks every entity plus the cross-entity invariants.
func (s *Snapshot) Validate() error {
	for i := range s.Suppliers {
		if err := s.Suppliers[i].Validate(); err != nil {
			return err
		}
	}
	for i := range s.MaterialsCatalog {
		if err := s.MaterialsCatalog[i].Validate(); err != nil {
			return err
		}
	}
	for i := range s.MaterialLots {
		if err := s.MaterialLots[i].Validate(); err != nil {
			return err
		}
	}
	for i := range s.Orders {
		if err := s.Orders[i].Validate(); err != nil {
			return err
		}
	}
	for i := range s.ProductionBatches {
		if err := s.ProductionBatches[i].Validate(); err != nil {
			return err
		}
	}

	idx := NewIndex(s)

	// Referential integrity: lot -> material/supplier, usage/issue -> lot.
	for i := range s.MaterialLots {
		lot := &s.MaterialLots[i]
		if _, ok := idx.MaterialByID[lot.MaterialID]; !ok {
			return &ValidationError{Entity: "material_lot", ID: string(lot.LotNumber),
				Field: "material_id", Msg: fmt.Sprintf("references unknown material %q", lot.MaterialID)}
		}
		if _, ok := idx.SupplierByID[lot.SupplierID]; !ok {
			return &ValidationError{Entity: "material_lot", ID: string(lot.LotNumber),
				Field: "supplier_id", Msg: fmt.Sprintf("references unknown supplier %q", lot.SupplierID)}
		}
	}
	for i := range s.ProductionBatches {
		b := &s.ProductionBatches[i]
		if b.OrderID != "" {
			if _, ok := idx.OrderByID[b.OrderID]; !ok {
				return &ValidationError{Entity: "batch", ID: string(b.BatchID),
					Field: "order_id", Msg: fmt.Sprintf("references unknown order %q", b.OrderID)}
			}
		}
		for j, u := range b.MaterialsConsumed {
			if _, ok := idx.LotByNumber[u.LotNumber]; !ok {
				return &ValidationError{Entity: "batch", ID: string(b.BatchID),
					Field: fmt.Sprintf("materials_consumed[%d].lot_number", j),
					Msg: fmt.Sprintf("references unknown lot %q", u.LotNumber)}
			}
			if _, ok := idx.MaterialByID[u.MaterialID]; !ok {
				return &ValidationError{Entity: "batch", ID: string(b.BatchID),
					Field: fmt.Sprintf("materials_consumed[%d].material_id", j),
					Msg: fmt.Sprintf("references unknown material %q", u.MaterialID)}
			}
		}
		for j, q := range b.QualityIssues {
			if q.LotNumber != "" {
				if _, ok := idx.LotByNumber[q.LotNumber]; !ok {
					return &ValidationError{Entity: "batch", ID: string(b.BatchID),
						Field: fmt.Sprintf("quality_issues[%d].lot_number", j),
						Msg: fmt.Sprintf("references unknown lot %q", q.LotNumber)}
				}
			}
			if q.SupplierID != "" {
				if _, ok := idx.SupplierByID[q.SupplierID]; !ok {
					return &ValidationError{Entity: "batch", ID: string(b.BatchID),
						Field: fmt.Sprintf("quality_issues[%d].supplier_id", j),
						Msg: fmt.Sprintf("references unknown supplier %q", q.SupplierID)}
				}
			}
		}
	}

	return s.validateSerialRanges()
}

// validateSerialRanges enforces the global non-overlap invariant:
// serial ranges across all batches for a given machine never overlap.
func (s *Snapshot) validateSerialRanges() error {
	byMachine := make(map[string][]*ProductionBatch)
	for i := range s.ProductionBatches {
		b := &s.ProductionBatches[i]
		if b.HasSerials() {
			byMachine[b.MachineName] = append(byMachine[b.MachineName], b)
		}
	}
	for machine, batches := range byMachine {
		for i := 0; i < len(batches); i++ {
			for j := i + 1; j < len(batches); j++ {
				a, b := batches[i], batches[j]
				if *a.SerialStart <= *b.SerialEnd && *b.SerialStart <= *a.SerialEnd {
					return &ValidationError{Entity: "batch", ID: string(a.BatchID), Field: "serial_start",
						Msg: fmt.Sprintf("range overlaps batch %s on machine %s", b.BatchID, machine)}
				}
			}
		}
	}
	return nil
}
