/*
production.go - Derived production rollup types

PURPOSE:
  Types for the production[date][machine] view that the rollup package
  derives from the batch list. They live here (not in the rollup package)
  so the Snapshot can embed the derived view without a package cycle.

INVARIANT:
  Everything in these records is reconstructible from the batch sequence
  plus the machine/shift reference lists. The rollup is a convenience view
  for metrics and dashboards; batches stay the source of truth.

SEE ALSO:
  - rollup/: the aggregation algorithm that fills these in
  - metrics/: the only consumer that reads them back
*/
package model

// Production maps date -> machine name -> aggregated record.
type Production map[string]map[string]*MachineDay

// MachineDay is one machine's aggregated production for one date.
type MachineDay struct {
	PartsProduced  int                     `json:"parts_produced"`
	GoodParts      int                     `json:"good_parts"`
	ScrapParts     int                     `json:"scrap_parts"`
	ScrapRate      float64                 `json:"scrap_rate"`
	UptimeHours    float64                 `json:"uptime_hours"`
	DowntimeHours  float64                 `json:"downtime_hours"`
	DowntimeEvents []DowntimeEvent         `json:"downtime_events"`
	QualityIssues  []QualityIssue          `json:"quality_issues"`
	Shifts         map[string]*ShiftTotals `json:"shifts"`

	// Contributing batch ids, in input order. Traceability back-link.
	Batches []BatchID `json:"batches"`
}

// ShiftTotals is the per-shift breakdown inside a MachineDay.
type ShiftTotals struct {
	PartsProduced int     `json:"parts_produced"`
	GoodParts     int     `json:"good_parts"`
	ScrapParts    int     `json:"scrap_parts"`
	UptimeHours   float64 `json:"uptime_hours"`
	DowntimeHours float64 `json:"downtime_hours"`
}

// DowntimeEvent is a synthesized downtime record. Durations across a
// MachineDay's events sum exactly to its DowntimeHours.
type DowntimeEvent struct {
	Reason        string  `json:"reason"`
	Description   string  `json:"description"`
	DurationHours float64 `json:"duration_hours"`
}

// Lookup returns the record for (date, machine), or nil when absent.
func (p Production) Lookup(date, machine string) *MachineDay {
	byMachine, ok := p[date]
	if !ok {
		return nil
	}
	return byMachine[machine]
}
