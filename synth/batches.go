package synth

import (
	"fmt"
	"strings"
	"time"

	"github.com/warp/factory-trace/model"
)

// serialBase is the first serial number ever assigned. The counter is
// global across machines and dates, so ranges can never overlap.
const serialBase = 1000

// Planted scenario coordinates (zero-based day offsets).
const (
	qualitySpikeDay     = 14
	qualitySpikeMachine = "Assembly-001"
	breakdownDay        = 21
	breakdownMachine    = "Packaging-001"
)

// Scenario 4: Night shift output factor relative to Day shift.
const nightShiftFactor = 0.93

// defectTypeOrder fixes the iteration order over the defect taxonomy
// so generation stays deterministic.
var defectTypeOrder = []string{"assembly", "dimensional", "material", "surface"}

// dayPlan is one machine's planned day before it is cut into batches.
type dayPlan struct {
	parts    int
	scrap    int
	downtime float64
	issues   []model.QualityIssue
}

// planDay decides one machine's output for one day, applying the
// planted scenarios.
func (g *Generator) planDay(dayNum int, machineName, date string) dayPlan {
	baseParts := 800 + g.intBetween(-50, 50)

	// Scenario 3: output improves ~23% across the window.
	improvement := 1.0 + 0.23*float64(dayNum)/float64(g.cfg.Days)
	parts := int(float64(baseParts) * improvement)

	scrapRate := 0.03
	var issues []model.QualityIssue

	if dayNum == qualitySpikeDay && machineName == qualitySpikeMachine {
		// Scenario 1: a bad fastener lot drives scrap to 12%.
		scrapRate = 0.12
		issues = []model.QualityIssue{
			{Type: "material", Description: "Defective fasteners causing assembly failures",
				PartsAffected: g.intBetween(8, 15), Severity: model.SeverityHigh},
			{Type: "material", Description: "Poor material quality in fastener batch",
				PartsAffected: g.intBetween(6, 12), Severity: model.SeverityHigh},
			{Type: "material", Description: "Material spec deviation - fastener hardness out of range",
				PartsAffected: g.intBetween(5, 10), Severity: model.SeverityMedium},
			{Type: "assembly", Description: "Assembly tooling misalignment",
				PartsAffected: g.intBetween(3, 8), Severity: model.SeverityMedium},
		}
	} else if g.rng.Float64() < 0.15 {
		kind := defectTypeOrder[g.rng.Intn(len(defectTypeOrder))]
		dt := model.DefectTypes[kind]
		issues = []model.QualityIssue{
			{Type: kind, Description: dt.Description,
				PartsAffected: g.intBetween(1, 5), Severity: dt.Severity},
		}
	}

	downtime := round2f(g.between(0.2, 0.8))
	if dayNum == breakdownDay && machineName == breakdownMachine {
		// Scenario 2: bearing failure takes the line down for 4 hours.
		downtime = 4.0
		parts = parts / 2
	}

	for i := range issues {
		issues[i].Date = date
		issues[i].Machine = machineName
	}

	return dayPlan{
		parts:    parts,
		scrap:    int(float64(parts) * scrapRate),
		downtime: downtime,
		issues:   issues,
	}
}

// generateBatches cuts each machine day into 1-2 batches per shift with
// serial ranges, material lot consumption, order assignment, and the
// planned quality issues attached.
func (g *Generator) generateBatches(
	machines []model.Machine,
	shifts []model.Shift,
	materials []model.MaterialSpec,
	lots []model.MaterialLot,
	orders []model.Order,
	suppliers []model.Supplier,
	start time.Time,
) []model.ProductionBatch {
	materialByID := make(map[model.MaterialID]*model.MaterialSpec, len(materials))
	for i := range materials {
		materialByID[materials[i].ID] = &materials[i]
	}
	lotByNumber := make(map[model.LotNumber]*model.MaterialLot, len(lots))
	lotsByMaterial := make(map[model.MaterialID][]*model.MaterialLot)
	for i := range lots {
		lot := &lots[i]
		lotByNumber[lot.LotNumber] = lot
		lotsByMaterial[lot.MaterialID] = append(lotsByMaterial[lot.MaterialID], lot)
	}
	supplierByID := make(map[model.SupplierID]*model.Supplier, len(suppliers))
	for i := range suppliers {
		supplierByID[suppliers[i].ID] = &suppliers[i]
	}

	// Batches fulfill orders that are still open, round-robin.
	var openOrders []*model.Order
	for i := range orders {
		if orders[i].Status == model.OrderPending || orders[i].Status == model.OrderInProgress {
			openOrders = append(openOrders, &orders[i])
		}
	}
	orderIndex := 0

	var batches []model.ProductionBatch
	serialCounter := serialBase

	for dayNum := 0; dayNum < g.cfg.Days; dayNum++ {
		date := start.AddDate(0, 0, dayNum).Format(model.DateLayout)

		for _, machine := range machines {
			plan := g.planDay(dayNum, machine.Name, date)
			issuesPending := plan.issues

			for _, shift := range shifts {
				factor := 1.0
				if shift.Name == "Night" {
					factor = nightShiftFactor
				}
				shiftParts := int(float64(plan.parts) * 0.5 * factor)
				shiftScrap := int(float64(plan.scrap) * 0.5 * factor)
				if shiftParts == 0 {
					continue
				}
				shiftUptime := model.PlannedHoursPerShift - plan.downtime/2

				numBatches := g.intBetween(1, 2)
				durations := g.splitDuration(shiftUptime, numBatches)

				remainingParts, remainingScrap := shiftParts, shiftScrap
				for batchNum := 0; batchNum < numBatches; batchNum++ {
					batchParts := remainingParts
					batchScrap := remainingScrap
					if batchNum < numBatches-1 {
						batchParts = shiftParts / numBatches
						batchScrap = shiftScrap / numBatches
						remainingParts -= batchParts
						remainingScrap -= batchScrap
					}
					if batchParts == 0 {
						continue
					}

					batch := model.ProductionBatch{
						BatchID: model.BatchID(fmt.Sprintf("BATCH-%s-%s-%s-%02d",
							date, machine.Name, shift.Name, batchNum+1)),
						Date:          date,
						MachineID:     machine.ID,
						MachineName:   machine.Name,
						ShiftID:       shift.ID,
						ShiftName:     shift.Name,
						PartNumber:    fmt.Sprintf("PART-%03d", machine.ID),
						Operator:      operators[g.rng.Intn(len(operators))],
						PartsProduced: batchParts,
						GoodParts:     batchParts - batchScrap,
						ScrapParts:    batchScrap,
						DurationHours: durations[batchNum],
					}

					if len(openOrders) > 0 {
						order := openOrders[orderIndex%len(openOrders)]
						orderIndex++
						batch.OrderID = order.ID
						if len(order.Items) > 0 {
							batch.PartNumber = order.Items[0].PartNumber
						}
					}

					serialStart := serialCounter
					serialEnd := serialCounter + batchParts - 1
					serialCounter = serialEnd + 1
					batch.SerialStart = &serialStart
					batch.SerialEnd = &serialEnd

					batch.MaterialsConsumed = g.consumeMaterials(machine.Name, materialByID, lotsByMaterial)

					// The day's issues land on its first batch; spreading
					// copies across shifts would double-count them in the
					// rollup.
					if len(issuesPending) > 0 {
						batch.QualityIssues = g.attachIssues(issuesPending, &batch, lotByNumber, supplierByID)
						issuesPending = nil
					}

					startMinute := g.rng.Intn(60)
					endHour := shift.StartHour + int(batch.DurationHours)
					batch.StartTime = fmt.Sprintf("%02d:%02d", shift.StartHour, startMinute)
					batch.EndTime = fmt.Sprintf("%02d:%02d", endHour, g.rng.Intn(60))

					batches = append(batches, batch)
				}
			}
		}
	}

	g.log.Info().Int("batches", len(batches)).Msg("generated production batches")
	return batches
}

// splitDuration cuts a shift's uptime into n batch durations that sum
// back to it after rounding.
func (g *Generator) splitDuration(total float64, n int) []float64 {
	if n == 1 {
		return []float64{round2f(total)}
	}
	first := round2f(total * g.between(0.4, 0.6))
	return []float64{first, round2f(total - first)}
}

// machineMaterials maps a machine to the materials it consumes.
func machineMaterials(machineName string) []model.MaterialID {
	switch {
	case strings.HasPrefix(machineName, "CNC"):
		return []model.MaterialID{"MAT-001", "MAT-002", "MAT-003"}
	case strings.HasPrefix(machineName, "Assembly"):
		return []model.MaterialID{"MAT-005", "MAT-006", "MAT-007"}
	case strings.HasPrefix(machineName, "Packaging"):
		return []model.MaterialID{"MAT-007", "MAT-008"}
	default:
		return []model.MaterialID{"MAT-008"}
	}
}

// consumeMaterials draws one usable lot per material the machine needs.
// A material with no usable lot is simply not consumed this batch.
func (g *Generator) consumeMaterials(
	machineName string,
	materialByID map[model.MaterialID]*model.MaterialSpec,
	lotsByMaterial map[model.MaterialID][]*model.MaterialLot,
) []model.MaterialUsage {
	var usages []model.MaterialUsage
	for _, matID := range machineMaterials(machineName) {
		material, ok := materialByID[matID]
		if !ok {
			continue
		}
		var usable []*model.MaterialLot
		for _, lot := range lotsByMaterial[matID] {
			if (lot.Status == model.LotAvailable || lot.Status == model.LotInUse) && lot.QuantityRemaining > 0 {
				usable = append(usable, lot)
			}
		}
		if len(usable) == 0 {
			continue
		}
		lot := usable[g.rng.Intn(len(usable))]
		usages = append(usages, model.MaterialUsage{
			MaterialID:   matID,
			MaterialName: material.Name,
			LotNumber:    lot.LotNumber,
			QuantityUsed: round2f(g.between(10.0, 50.0)),
			Unit:         material.Unit,
		})
	}
	return usages
}

// attachIssues binds the day's planned issues to a concrete batch:
// material-type issues get linked to one of the batch's lots and its
// supplier, and every issue gets the affected serial numbers sampled
// from the batch's range.
func (g *Generator) attachIssues(
	planned []model.QualityIssue,
	batch *model.ProductionBatch,
	lotByNumber map[model.LotNumber]*model.MaterialLot,
	supplierByID map[model.SupplierID]*model.Supplier,
) []model.QualityIssue {
	issues := make([]model.QualityIssue, 0, len(planned))
	for _, issue := range planned {
		issue.RootCause = model.RootCauseUnknown

		if issue.Type == "material" && len(batch.MaterialsConsumed) > 0 {
			usage := batch.MaterialsConsumed[g.rng.Intn(len(batch.MaterialsConsumed))]
			issue.MaterialID = usage.MaterialID
			issue.LotNumber = usage.LotNumber

			if lot, ok := lotByNumber[usage.LotNumber]; ok {
				issue.SupplierID = lot.SupplierID
				if sup, ok := supplierByID[lot.SupplierID]; ok {
					issue.SupplierName = sup.Name
					if sup.QualityMetrics.DefectRate > 3.0 {
						issue.RootCause = model.RootCauseSupplierQuality
					} else {
						issue.RootCause = model.RootCauseMaterialDefect
					}
				}
			}
		}

		issue.AffectedSerials = g.sampleSerials(batch, issue.PartsAffected)
		issues = append(issues, issue)
	}
	return issues
}

// sampleSerials picks a contiguous run of n serials inside the batch's
// range, representing the inspection lot that caught the defect.
func (g *Generator) sampleSerials(batch *model.ProductionBatch, n int) []int {
	if !batch.HasSerials() || n <= 0 {
		return nil
	}
	size := *batch.SerialEnd - *batch.SerialStart + 1
	if n > size {
		n = size
	}
	offset := g.rng.Intn(size - n + 1)
	serials := make([]int, n)
	for i := 0; i < n; i++ {
		serials[i] = *batch.SerialStart + offset + i
	}
	return serials
}
