package trace

import "github.com/warp/factory-trace/model"

// Scorecard grades and recommendation strings. The bands follow the
// standard school scale; both sub-70 bands share the sourcing advice.
const (
	recommendExcellent  = "Excellent supplier, maintain relationship"
	recommendGood       = "Good supplier, minor improvements needed"
	recommendAcceptable = "Acceptable supplier, quality improvement plan required"
	recommendPoor       = "Poor supplier, consider alternative sources"
)

// Scorecard grades a supplier over a date window. It is built on the
// same joins as ForwardTrace, so the two always agree on which lots and
// batches belong to the supplier.
//
// The PPM numerator is the parts_affected tally of the issues pinned
// to the supplier's lots or id; batch scrap belongs to the batch as a
// whole, and a batch usually draws from several suppliers. The
// denominator is batches x PartsPerBatchEstimate rather than exact
// batch output, for the same attribution reason. The figure is
// comparable across suppliers, not an absolute defect rate.
func (e *Engine) Scorecard(supplierID model.SupplierID, r model.DateRange) (*ScorecardResult, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	sup, err := e.Supplier(supplierID)
	if err != nil {
		return nil, err
	}

	lots := e.lotsForSupplier(supplierID, r)
	lotSet := lotNumberSet(lots)
	batches := e.batchesUsingLots(lotSet, r)

	issues := ScorecardIssues{BySeverity: make(map[model.Severity]int)}
	highCount := 0
	for _, b := range batches {
		for _, issue := range b.QualityIssues {
			if _, ok := lotSet[issue.LotNumber]; !ok && issue.SupplierID != supplierID {
				continue
			}
			issues.Total++
			issues.BySeverity[issue.Severity]++
			issues.PartsAffected += issue.PartsAffected
			if issue.Severity == model.SeverityHigh {
				highCount++
			}
		}
	}

	estimate := len(batches) * e.cfg.PartsPerBatchEstimate
	ppm := 0.0
	if estimate > 0 {
		ppm = round2(float64(issues.PartsAffected) / float64(estimate) * 1_000_000)
	}

	score := 100.0 - ppm/1000.0 - 5.0*float64(highCount)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	score = round2(score)

	grade, recommendation := gradeFor(score)

	return &ScorecardResult{
		Supplier:  sup,
		DateRange: DateRangeOut{Start: r.Start, End: r.End},
		Metrics: ScorecardMetrics{
			LotsReceived:               len(lots),
			BatchesProduced:            len(batches),
			TotalPartsProducedEstimate: estimate,
			DefectRatePPM:              ppm,
			QualityIssues:              issues,
			CostOfQuality:              e.costImpact(issues.PartsAffected),
			PerformanceScore:           score,
		},
		Grade:          grade,
		Recommendation: recommendation,
	}, nil
}

func gradeFor(score float64) (string, string) {
	switch {
	case score >= 90:
		return "A", recommendExcellent
	case score >= 80:
		return "B", recommendGood
	case score >= 70:
		return "C", recommendAcceptable
	case score >= 60:
		return "D", recommendPoor
	default:
		return "F", recommendPoor
	}
}
