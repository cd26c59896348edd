/*
Package model provides the supply-chain data model for the factory
traceability engine.

PURPOSE:
  This package contains the typed records and invariants shared by every
  engine in the system: the entity set (suppliers, materials, lots, orders,
  batches), the derived production rollup, the snapshot container, and the
  error taxonomy. It has no behavior beyond validation - the aggregation,
  traceability, and metrics engines live in their own packages and consume
  these types as an immutable snapshot.

KEY CONCEPTS IN THIS FILE (types.go):
  - Supplier / MaterialSpec / MaterialLot: the inbound supply chain
  - Order / OrderItem: the outbound demand side
  - ProductionBatch: the SOURCE OF TRUTH for all production facts
  - MaterialUsage / QualityIssue: per-batch traceability records

DESIGN PRINCIPLES:
  1. Immutability: engines never mutate a loaded snapshot in place
  2. Type Safety: strong id types prevent mixing supplier/material/lot ids
  3. Wire Fidelity: JSON tags are the external contract (batch_id,
     lot_number, scrap_parts, ...) and never change casing
  4. Dates are plain YYYY-MM-DD strings; the format sorts lexicographically,
     so range filters are simple string comparisons

SEE ALSO:
  - production.go: derived rollup record types
  - snapshot.go:   snapshot container and id indexes
  - validate.go:   boundary validation for every entity
  - errors.go:     error taxonomy
*/
package model

// =============================================================================
// IDENTIFIERS
// =============================================================================

type SupplierID string
type MaterialID string
type LotNumber string
type BatchID string
type OrderID string

// =============================================================================
// ENUMERATIONS
// =============================================================================

// SupplierStatus is the supplier lifecycle state.
type SupplierStatus string

const (
	SupplierActive    SupplierStatus = "Active"
	SupplierOnHold    SupplierStatus = "OnHold"
	SupplierSuspended SupplierStatus = "Suspended"
)

// LotStatus is the material lot lifecycle state.
type LotStatus string

const (
	LotAvailable  LotStatus = "Available"
	LotInUse      LotStatus = "InUse"
	LotDepleted   LotStatus = "Depleted"
	LotQuarantine LotStatus = "Quarantine"
	LotRejected   LotStatus = "Rejected"
)

// OrderStatus is the customer order fulfillment state.
type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderInProgress OrderStatus = "InProgress"
	OrderCompleted  OrderStatus = "Completed"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelayed    OrderStatus = "Delayed"
)

// Priority is the customer order priority.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityNormal Priority = "Normal"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

// Severity classifies a quality issue.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// RootCause categorizes the investigated origin of a quality issue.
type RootCause string

const (
	RootCauseMaterialDefect  RootCause = "material_defect"
	RootCauseSupplierQuality RootCause = "supplier_quality"
	RootCauseProcessIssue    RootCause = "process_issue"
	RootCauseMachineIssue    RootCause = "machine_issue"
	RootCauseUnknown         RootCause = "unknown"
)

// =============================================================================
// SUPPLY CHAIN ENTITIES
// =============================================================================

// QualityMetrics holds a supplier's tracked quality figures.
// Ratings are percentages (0-100); defect_rate is defects per hundred units.
type QualityMetrics struct {
	QualityRating      float64 `json:"quality_rating"`
	OnTimeDeliveryRate float64 `json:"on_time_delivery_rate"`
	DefectRate         float64 `json:"defect_rate"`
}

// Supplier is a vendor that issues material lots.
type Supplier struct {
	ID                SupplierID        `json:"id"`
	Name              string            `json:"name"`
	Type              string            `json:"type"`
	MaterialsSupplied []MaterialID      `json:"materials_supplied"`
	Contact           map[string]string `json:"contact"`
	QualityMetrics    QualityMetrics    `json:"quality_metrics"`
	Certifications    []string          `json:"certifications"`
	Status            SupplierStatus    `json:"status"`
}

// MaterialSpec is a catalog entry for a material consumed in production.
type MaterialSpec struct {
	ID                  MaterialID        `json:"id"`
	Name                string            `json:"name"`
	Category            string            `json:"category"`
	Specification       string            `json:"specification"`
	Unit                string            `json:"unit"`
	PreferredSuppliers  []SupplierID      `json:"preferred_suppliers"`
	QualityRequirements map[string]string `json:"quality_requirements"`
}

// MaterialLot is a received quantity of one material from one supplier.
// Lots are what batches actually consume, and what traces pivot on.
type MaterialLot struct {
	LotNumber         LotNumber         `json:"lot_number"`
	MaterialID        MaterialID        `json:"material_id"`
	SupplierID        SupplierID        `json:"supplier_id"`
	ReceivedDate      string            `json:"received_date"`
	QuantityReceived  float64           `json:"quantity_received"`
	QuantityRemaining float64           `json:"quantity_remaining"`
	InspectionResults map[string]string `json:"inspection_results"`
	Status            LotStatus         `json:"status"`
	Quarantine        bool              `json:"quarantine"`
}

// OrderItem is a single line item in a customer order.
type OrderItem struct {
	PartNumber string  `json:"part_number"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

// Order is a customer order that production batches fulfill.
type Order struct {
	ID           OrderID     `json:"id"`
	OrderNumber  string      `json:"order_number"`
	Customer     string      `json:"customer"`
	Items        []OrderItem `json:"items"`
	DueDate      string      `json:"due_date"`
	Status       OrderStatus `json:"status"`
	Priority     Priority    `json:"priority"`
	ShippingDate *string     `json:"shipping_date,omitempty"`
	TotalValue   float64     `json:"total_value"`
}

// =============================================================================
// PRODUCTION ENTITIES
// =============================================================================

// MaterialUsage records one material lot consumed by one batch.
// material_name is denormalized for display; lot_number is the join key.
type MaterialUsage struct {
	MaterialID   MaterialID `json:"material_id"`
	MaterialName string     `json:"material_name"`
	LotNumber    LotNumber  `json:"lot_number"`
	QuantityUsed float64    `json:"quantity_used"`
	Unit         string     `json:"unit"`
}

// QualityIssue is a defect record scoped to a single batch, optionally
// linked to the material lot and supplier suspected as root cause.
type QualityIssue struct {
	Type          string     `json:"type"`
	Description   string     `json:"description"`
	PartsAffected int        `json:"parts_affected"`
	Severity      Severity   `json:"severity"`
	Date          string     `json:"date"`
	Machine       string     `json:"machine"`
	MaterialID    MaterialID `json:"material_id,omitempty"`
	LotNumber     LotNumber  `json:"lot_number,omitempty"`
	SupplierID    SupplierID `json:"supplier_id,omitempty"`
	SupplierName  string     `json:"supplier_name,omitempty"`
	RootCause     RootCause  `json:"root_cause,omitempty"`

	// Serial numbers of the specific parts affected, when the inspection
	// pinned the defect to individual units. Consumed by serial traces.
	AffectedSerials []int `json:"affected_serials,omitempty"`
}

// ProductionBatch is the source of truth for all production facts.
// The production[date][machine] rollup is DERIVED from batches and must
// never be treated as authoritative on its own.
type ProductionBatch struct {
	BatchID     BatchID `json:"batch_id"`
	Date        string  `json:"date"`
	MachineID   int     `json:"machine_id"`
	MachineName string  `json:"machine_name"`
	ShiftID     int     `json:"shift_id"`
	ShiftName   string  `json:"shift_name"`
	OrderID     OrderID `json:"order_id,omitempty"`
	PartNumber  string  `json:"part_number"`
	Operator    string  `json:"operator"`

	PartsProduced int `json:"parts_produced"`
	GoodParts     int `json:"good_parts"`
	ScrapParts    int `json:"scrap_parts"`

	// Inclusive serial number range; nil when serials were not assigned.
	SerialStart *int `json:"serial_start,omitempty"`
	SerialEnd   *int `json:"serial_end,omitempty"`

	MaterialsConsumed []MaterialUsage `json:"materials_consumed"`
	QualityIssues     []QualityIssue  `json:"quality_issues"`

	ProcessParameters map[string]float64 `json:"process_parameters,omitempty"`

	StartTime     string  `json:"start_time,omitempty"`
	EndTime       string  `json:"end_time,omitempty"`
	DurationHours float64 `json:"duration_hours,omitempty"`
}

// HasSerials reports whether the batch carries a serial number range.
func (b *ProductionBatch) HasSerials() bool {
	return b.SerialStart != nil && b.SerialEnd != nil
}

// ContainsSerial reports whether serial falls inside the batch's
// inclusive serial range.
func (b *ProductionBatch) ContainsSerial(serial int) bool {
	return b.HasSerials() && *b.SerialStart <= serial && serial <= *b.SerialEnd
}

// QualityRate returns good/produced as a percentage (0 when nothing ran).
func (b *ProductionBatch) QualityRate() float64 {
	if b.PartsProduced == 0 {
		return 0
	}
	return float64(b.GoodParts) / float64(b.PartsProduced) * 100
}
