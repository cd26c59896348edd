package trace

import "github.com/warp/factory-trace/model"

// =============================================================================
// BACKWARD TRACE
// =============================================================================

// MaterialTraceEntry is one hop of a backward trace: the usage line
// enriched with the lot, the material spec and the supplier behind it.
// Enrichment fields stay nil when the snapshot holds a dangling
// reference; the usage line itself is always reported.
type MaterialTraceEntry struct {
	MaterialID   model.MaterialID    `json:"material_id"`
	MaterialName string              `json:"material_name"`
	MaterialSpec *model.MaterialSpec `json:"material_spec"`
	QuantityUsed float64             `json:"quantity_used"`
	Unit         string              `json:"unit"`
	LotNumber    model.LotNumber     `json:"lot_number"`
	LotDetails   *model.MaterialLot  `json:"lot_details"`
	Supplier     *model.Supplier     `json:"supplier"`
}

// SupplyChainSummary is the roll-up block of a backward trace.
type SupplyChainSummary struct {
	MaterialsCount     int     `json:"materials_count"`
	SuppliersCount     int     `json:"suppliers_count"`
	TotalPartsProduced int     `json:"total_parts_produced"`
	ScrapParts         int     `json:"scrap_parts"`
	QualityRate        float64 `json:"quality_rate"`
}

// BackwardTraceResult answers "what went into this batch".
type BackwardTraceResult struct {
	Batch              *model.ProductionBatch `json:"batch"`
	MaterialsTrace     []MaterialTraceEntry   `json:"materials_trace"`
	Suppliers          []*model.Supplier      `json:"suppliers"`
	SupplyChainSummary SupplyChainSummary     `json:"supply_chain_summary"`
}

// =============================================================================
// FORWARD TRACE AND SUPPLIER IMPACT
// =============================================================================

// AffectedBatch is one batch reached by a forward trace.
type AffectedBatch struct {
	BatchID       model.BatchID `json:"batch_id"`
	Date          string        `json:"date"`
	MachineName   string        `json:"machine_name"`
	Shift         string        `json:"shift"`
	PartsProduced int           `json:"parts_produced"`
	ScrapParts    int           `json:"scrap_parts"`
	OrderID       model.OrderID `json:"order_id,omitempty"`
}

// QualityIssueSummary flags an affected batch that produced scrap.
type QualityIssueSummary struct {
	BatchID     model.BatchID `json:"batch_id"`
	Date        string        `json:"date"`
	MachineName string        `json:"machine_name"`
	DefectCount int           `json:"defect_count"`
}

// ImpactSummary is the roll-up block of a forward trace.
type ImpactSummary struct {
	BatchesAffected     int     `json:"batches_affected"`
	QualityIssuesCount  int     `json:"quality_issues_count"`
	TotalDefects        int     `json:"total_defects"`
	OrdersAffected      int     `json:"orders_affected"`
	EstimatedCostImpact float64 `json:"estimated_cost_impact"`
}

// ForwardTraceResult answers "where did this supplier's material go".
type ForwardTraceResult struct {
	Supplier             *model.Supplier       `json:"supplier"`
	DateRange            DateRangeOut          `json:"date_range"`
	MaterialLotsSupplied int                   `json:"material_lots_supplied"`
	AffectedBatches      []AffectedBatch       `json:"affected_batches"`
	QualityIssues        []QualityIssueSummary `json:"quality_issues"`
	AffectedOrders       []*model.Order        `json:"affected_orders"`
	ImpactSummary        ImpactSummary         `json:"impact_summary"`
}

// DateRangeOut echoes the effective query window. Empty strings mean
// the endpoint was open.
type DateRangeOut struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ImpactBatch is a forward-trace batch with its consumption detail,
// used by the cost-focused impact report.
type ImpactBatch struct {
	BatchID           model.BatchID         `json:"batch_id"`
	Date              string                `json:"date"`
	MachineName       string                `json:"machine_name"`
	PartsProduced     int                   `json:"parts_produced"`
	ScrapParts        int                   `json:"scrap_parts"`
	MaterialsConsumed []model.MaterialUsage `json:"materials_consumed"`
}

// SupplierImpactResult is the cost-focused variant of a forward trace.
// The batch and issue detail lists are truncated to the first ten
// entries; the lot list is whole and the counters always cover the
// full result.
type SupplierImpactResult struct {
	Supplier             *model.Supplier       `json:"supplier"`
	DateRange            DateRangeOut          `json:"date_range"`
	MaterialLotsSupplied int                   `json:"material_lots_supplied"`
	AffectedBatchesCount int                   `json:"affected_batches_count"`
	QualityIssuesCount   int                   `json:"quality_issues_count"`
	TotalDefects         int                   `json:"total_defects"`
	EstimatedCostImpact  float64               `json:"estimated_cost_impact"`
	MaterialLots         []*model.MaterialLot  `json:"material_lots"`
	AffectedBatches      []ImpactBatch         `json:"affected_batches"`
	QualityIssues        []QualityIssueSummary `json:"quality_issues"`
}

// =============================================================================
// LOT TRACE
// =============================================================================

// LotBatchUsage is one batch's draw from a lot, with the serial range
// it produced when the batch is serialized.
type LotBatchUsage struct {
	BatchID      model.BatchID `json:"batch_id"`
	Date         string        `json:"date"`
	Machine      string        `json:"machine"`
	OrderID      model.OrderID `json:"order_id,omitempty"`
	QuantityUsed float64       `json:"quantity_used"`
	SerialStart  *int          `json:"serial_start,omitempty"`
	SerialEnd    *int          `json:"serial_end,omitempty"`
}

// LotUsage aggregates a lot's consumption across batches.
type LotUsage struct {
	BatchesCount      int             `json:"batches_count"`
	TotalQuantityUsed float64         `json:"total_quantity_used"`
	Batches           []LotBatchUsage `json:"batches"`
}

// LotIssueRef is a quality issue attributed to the lot.
type LotIssueRef struct {
	BatchID       model.BatchID  `json:"batch_id"`
	Date          string         `json:"date"`
	IssueType     string         `json:"issue_type"`
	Severity      model.Severity `json:"severity"`
	PartsAffected int            `json:"parts_affected"`
}

// LotIssues groups the issues attributed to a lot.
type LotIssues struct {
	Count  int           `json:"count"`
	Issues []LotIssueRef `json:"issues"`
}

// QuarantineRecommendation advises quarantine when any High severity
// issue is attributed to the lot.
type QuarantineRecommendation struct {
	ShouldQuarantine bool            `json:"should_quarantine"`
	Reason           string          `json:"reason"`
	AffectedBatches  []model.BatchID `json:"affected_batches"`
}

// SupplierRef is the short supplier block embedded in lot traces.
type SupplierRef struct {
	SupplierID    model.SupplierID `json:"supplier_id"`
	Name          string           `json:"name"`
	QualityRating float64          `json:"quality_rating"`
}

// LotTraceResult answers "what did this incoming lot touch".
type LotTraceResult struct {
	Lot                      *model.MaterialLot       `json:"lot"`
	Supplier                 *SupplierRef             `json:"supplier"`
	Usage                    LotUsage                 `json:"usage"`
	QualityIssues            LotIssues                `json:"quality_issues"`
	QuarantineRecommendation QuarantineRecommendation `json:"quarantine_recommendation"`
}

// =============================================================================
// SERIAL TRACE
// =============================================================================

// SerialProduction is where and when a serial was made.
type SerialProduction struct {
	Date     string        `json:"date"`
	Machine  string        `json:"machine"`
	BatchID  model.BatchID `json:"batch_id"`
	Shift    string        `json:"shift"`
	Operator string        `json:"operator"`
}

// SerialOrder is the order context of a serial, when its batch was
// assigned to one.
type SerialOrder struct {
	OrderID     model.OrderID `json:"order_id"`
	OrderNumber string        `json:"order_number"`
	Customer    string        `json:"customer"`
	PartNumber  string        `json:"part_number"`
}

// SerialMaterial is one material lot that went into a serial.
type SerialMaterial struct {
	MaterialID model.MaterialID `json:"material_id"`
	LotNumber  model.LotNumber  `json:"lot_number"`
	Supplier   string           `json:"supplier"`
}

// SerialIssue is a defect recorded against a serial.
type SerialIssue struct {
	IssueType string          `json:"issue_type"`
	Severity  model.Severity  `json:"severity"`
	RootCause model.RootCause `json:"root_cause,omitempty"`
}

// Serial trace status values.
const (
	SerialStatusOK        = "OK"
	SerialStatusDefective = "DEFECTIVE"
)

// SerialTraceResult is the complete history of one serialized part.
type SerialTraceResult struct {
	SerialNumber  int              `json:"serial_number"`
	Production    SerialProduction `json:"production"`
	Order         *SerialOrder     `json:"order"`
	Materials     []SerialMaterial `json:"materials"`
	QualityIssues []SerialIssue    `json:"quality_issues"`
	Status        string           `json:"status"`
}

// =============================================================================
// SUPPLIER SCORECARD
// =============================================================================

// ScorecardIssues tallies the quality issues attributed to a supplier.
type ScorecardIssues struct {
	Total         int                    `json:"total"`
	BySeverity    map[model.Severity]int `json:"by_severity"`
	PartsAffected int                    `json:"parts_affected"`
}

// ScorecardMetrics is the quantitative block of a scorecard. The PPM
// numerator is the affected-parts tally of the supplier-pinned issues,
// and the denominator is batches x PartsPerBatchEstimate: an estimate,
// because a batch's output is not attributable to a single supplier's
// material share. Comparable across suppliers, not an absolute rate.
type ScorecardMetrics struct {
	LotsReceived               int             `json:"lots_received"`
	BatchesProduced            int             `json:"batches_produced"`
	TotalPartsProducedEstimate int             `json:"total_parts_produced_estimate"`
	DefectRatePPM              float64         `json:"defect_rate_ppm"`
	QualityIssues              ScorecardIssues `json:"quality_issues"`
	CostOfQuality              float64         `json:"cost_of_quality"`
	PerformanceScore           float64         `json:"performance_score"`
}

// ScorecardResult grades a supplier over a date window.
type ScorecardResult struct {
	Supplier       *model.Supplier  `json:"supplier"`
	DateRange      DateRangeOut     `json:"date_range"`
	Metrics        ScorecardMetrics `json:"metrics"`
	Grade          string           `json:"grade"`
	Recommendation string           `json:"recommendation"`
}

// =============================================================================
// ORDER BATCHES
// =============================================================================

// OrderProductionSummary totals the production assigned to an order.
type OrderProductionSummary struct {
	BatchesCount   int     `json:"batches_count"`
	TotalProduced  int     `json:"total_produced"`
	TotalGoodParts int     `json:"total_good_parts"`
	TotalScrap     int     `json:"total_scrap"`
	QualityRate    float64 `json:"quality_rate"`
}

// OrderBatchesResult lists the batches fulfilling an order.
type OrderBatchesResult struct {
	Order             *model.Order             `json:"order"`
	AssignedBatches   []*model.ProductionBatch `json:"assigned_batches"`
	ProductionSummary OrderProductionSummary   `json:"production_summary"`
}
