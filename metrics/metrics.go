/*
Package metrics computes production KPIs over the derived rollup.

PURPOSE:
  Four pure reducers over the production[date][machine] view:
  - OEE (availability x performance x quality)
  - scrap totals and per-machine breakdown
  - filtered quality-issue listings
  - downtime analysis with major-event detection

KEY CONCEPTS:
  - All reducers take an inclusive date range and an optional machine
    name filter. The range must be two valid YYYY-MM-DD dates with
    start <= end; a bad range is an error, an empty range is not.
  - A range that matches no rollup entries yields a NoData result, not
    an error. Callers branch on the NoData flag.
  - Performance is a fixed configured constant. Computing it properly
    needs theoretical cycle-time output, which this data set does not
    carry; the constant keeps OEE comparable across machines and days.

DETERMINISM:
  Machines within a day are reduced in sorted name order so repeated
  calls over the same snapshot return identical results, including
  issue and event listing order.

SEE ALSO:
  - model/production.go: the rollup records this package reads
  - rollup/: where those records come from
*/
package metrics

import (
	"math"
	"sort"

	"github.com/warp/factory-trace/model"
)

// MajorDowntimeThresholdHours classifies a single downtime event as
// major. Events above it are listed individually in the analysis.
const MajorDowntimeThresholdHours = 2.0

// Config carries the documented estimation constants.
type Config struct {
	// Performance is the fixed OEE performance factor.
	Performance float64
}

// DefaultConfig returns the reference performance factor of 0.95.
func DefaultConfig() Config {
	return Config{Performance: 0.95}
}

// Engine computes KPIs over one production rollup. Stateless and safe
// for concurrent use.
type Engine struct {
	prod model.Production
	cfg  Config
}

// New creates an engine over a rollup view.
func New(prod model.Production, cfg Config) *Engine {
	if cfg.Performance <= 0 {
		cfg = DefaultConfig()
	}
	return &Engine{prod: prod, cfg: cfg}
}

// =============================================================================
// RESULT TYPES
// =============================================================================

// OEEResult is the OEE breakdown for a window. Components are ratios
// in [0,1] rounded to three decimals.
type OEEResult struct {
	NoData       bool    `json:"no_data,omitempty"`
	OEE          float64 `json:"oee"`
	Availability float64 `json:"availability"`
	Performance  float64 `json:"performance"`
	Quality      float64 `json:"quality"`
	TotalParts   int     `json:"total_parts"`
	GoodParts    int     `json:"good_parts"`
	ScrapParts   int     `json:"scrap_parts"`
}

// ScrapResult is the scrap summary for a window. ScrapByMachine is
// populated only for unfiltered queries.
type ScrapResult struct {
	NoData         bool           `json:"no_data,omitempty"`
	TotalScrap     int            `json:"total_scrap"`
	TotalParts     int            `json:"total_parts"`
	ScrapRate      float64        `json:"scrap_rate"`
	ScrapByMachine map[string]int `json:"scrap_by_machine,omitempty"`
}

// QualityIssuesResult lists the issues in a window with tallies.
type QualityIssuesResult struct {
	NoData             bool                   `json:"no_data,omitempty"`
	Issues             []model.QualityIssue   `json:"issues"`
	TotalIssues        int                    `json:"total_issues"`
	TotalPartsAffected int                    `json:"total_parts_affected"`
	SeverityBreakdown  map[model.Severity]int `json:"severity_breakdown"`
}

// MajorDowntimeEvent is a single downtime event above the major
// threshold, located in time and on a machine.
type MajorDowntimeEvent struct {
	Date          string  `json:"date"`
	Machine       string  `json:"machine"`
	Reason        string  `json:"reason"`
	Description   string  `json:"description"`
	DurationHours float64 `json:"duration_hours"`
}

// DowntimeResult is the downtime analysis for a window.
type DowntimeResult struct {
	NoData             bool                 `json:"no_data,omitempty"`
	TotalDowntimeHours float64              `json:"total_downtime_hours"`
	DowntimeByReason   map[string]float64   `json:"downtime_by_reason"`
	MajorEvents        []MajorDowntimeEvent `json:"major_events"`
}

// =============================================================================
// REDUCERS
// =============================================================================

// OEE computes availability x performance x quality over the window.
func (e *Engine) OEE(r model.DateRange, machine string) (*OEEResult, error) {
	var totalParts, totalGood int
	var totalUptime, totalPlanned float64

	err := e.reduce(r, machine, func(_, _ string, day *model.MachineDay) {
		totalParts += day.PartsProduced
		totalGood += day.GoodParts
		totalUptime += day.UptimeHours
		totalPlanned += model.PlannedHoursPerDay
	})
	if err != nil {
		return nil, err
	}
	if totalPlanned == 0 {
		return &OEEResult{NoData: true}, nil
	}

	availability := totalUptime / totalPlanned
	quality := 0.0
	if totalParts > 0 {
		quality = float64(totalGood) / float64(totalParts)
	}
	oee := availability * e.cfg.Performance * quality

	return &OEEResult{
		OEE:          round3(oee),
		Availability: round3(availability),
		Performance:  round3(e.cfg.Performance),
		Quality:      round3(quality),
		TotalParts:   totalParts,
		GoodParts:    totalGood,
		ScrapParts:   totalParts - totalGood,
	}, nil
}

// Scrap totals scrap over the window. The per-machine breakdown is
// omitted when the query is already pinned to one machine.
func (e *Engine) Scrap(r model.DateRange, machine string) (*ScrapResult, error) {
	totalScrap, totalParts := 0, 0
	var byMachine map[string]int
	if machine == "" {
		byMachine = make(map[string]int)
	}

	matched := false
	err := e.reduce(r, machine, func(_, name string, day *model.MachineDay) {
		matched = true
		totalScrap += day.ScrapParts
		totalParts += day.PartsProduced
		if byMachine != nil {
			byMachine[name] += day.ScrapParts
		}
	})
	if err != nil {
		return nil, err
	}
	if !matched {
		return &ScrapResult{NoData: true}, nil
	}

	rate := 0.0
	if totalParts > 0 {
		rate = round2(float64(totalScrap) / float64(totalParts) * 100)
	}
	return &ScrapResult{
		TotalScrap:     totalScrap,
		TotalParts:     totalParts,
		ScrapRate:      rate,
		ScrapByMachine: byMachine,
	}, nil
}

// QualityIssues lists issues over the window, optionally filtered by
// severity, with severity and parts-affected tallies.
func (e *Engine) QualityIssues(r model.DateRange, severity model.Severity, machine string) (*QualityIssuesResult, error) {
	issues := []model.QualityIssue{}
	breakdown := make(map[model.Severity]int)
	partsAffected := 0

	matched := false
	err := e.reduce(r, machine, func(date, name string, day *model.MachineDay) {
		matched = true
		for _, issue := range day.QualityIssues {
			if severity != "" && issue.Severity != severity {
				continue
			}
			// Stamp the rollup coordinates onto the listed issue.
			issue.Date = date
			issue.Machine = name
			issues = append(issues, issue)
			breakdown[issue.Severity]++
			partsAffected += issue.PartsAffected
		}
	})
	if err != nil {
		return nil, err
	}
	if !matched {
		return &QualityIssuesResult{NoData: true}, nil
	}

	return &QualityIssuesResult{
		Issues:             issues,
		TotalIssues:        len(issues),
		TotalPartsAffected: partsAffected,
		SeverityBreakdown:  breakdown,
	}, nil
}

// Downtime analyzes downtime over the window: total hours, hours by
// reason, and the individual events above the major threshold.
func (e *Engine) Downtime(r model.DateRange, machine string) (*DowntimeResult, error) {
	total := 0.0
	byReason := make(map[string]float64)
	var major []MajorDowntimeEvent

	matched := false
	err := e.reduce(r, machine, func(date, name string, day *model.MachineDay) {
		matched = true
		total += day.DowntimeHours
		for _, event := range day.DowntimeEvents {
			byReason[event.Reason] += event.DurationHours
			if event.DurationHours > MajorDowntimeThresholdHours {
				major = append(major, MajorDowntimeEvent{
					Date:          date,
					Machine:       name,
					Reason:        event.Reason,
					Description:   event.Description,
					DurationHours: event.DurationHours,
				})
			}
		}
	})
	if err != nil {
		return nil, err
	}
	if !matched {
		return &DowntimeResult{NoData: true}, nil
	}

	for reason, hours := range byReason {
		byReason[reason] = round2(hours)
	}
	return &DowntimeResult{
		TotalDowntimeHours: round2(total),
		DowntimeByReason:   byReason,
		MajorEvents:        major,
	}, nil
}

// =============================================================================
// SHARED REDUCTION
// =============================================================================

// reduce walks the rollup entries inside the range, machines in sorted
// name order, and calls fn for each matching record. The range must be
// closed: both endpoints are required for a metrics window.
func (e *Engine) reduce(r model.DateRange, machine string, fn func(date, name string, day *model.MachineDay)) error {
	if _, err := model.ParseDate(r.Start); err != nil {
		return err
	}
	if _, err := model.ParseDate(r.End); err != nil {
		return err
	}
	if r.Start > r.End {
		return model.ErrInvalidDateRange
	}

	for _, date := range r.Dates() {
		byMachine, ok := e.prod[date]
		if !ok {
			continue
		}
		if machine != "" {
			if day, ok := byMachine[machine]; ok {
				fn(date, machine, day)
			}
			continue
		}
		names := make([]string, 0, len(byMachine))
		for name := range byMachine {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fn(date, name, byMachine[name])
		}
	}
	return nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
