/*
reference.go - Factory reference data

PURPOSE:
  The fixed machine park, shift calendar, defect-type table, and downtime
  reason taxonomy. These are inputs to aggregation and generation, not
  entities: they describe the plant, not what it produced.
*/
package model

// Machine describes one piece of production equipment.
type Machine struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	IdealCycleTime int    `json:"ideal_cycle_time"` // seconds per part
}

// Shift describes one working shift of the day.
type Shift struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	StartHour int    `json:"start_hour"`
	EndHour   int    `json:"end_hour"`
}

// Planned hours used for downtime estimation. Two 8-hour shifts per day.
const (
	PlannedHoursPerShift = 8.0
	PlannedHoursPerDay   = 16.0
)

// DefaultMachines is the demo plant's machine park.
func DefaultMachines() []Machine {
	return []Machine{
		{ID: 1, Name: "CNC-001", Type: "CNC Machining Center", IdealCycleTime: 45},
		{ID: 2, Name: "Assembly-001", Type: "Assembly Station", IdealCycleTime: 120},
		{ID: 3, Name: "Packaging-001", Type: "Automated Packaging Line", IdealCycleTime: 30},
		{ID: 4, Name: "Testing-001", Type: "Quality Testing Station", IdealCycleTime: 90},
	}
}

// DefaultShifts is the two-shift calendar the plant runs.
func DefaultShifts() []Shift {
	return []Shift{
		{ID: 1, Name: "Day", StartHour: 6, EndHour: 14},
		{ID: 2, Name: "Night", StartHour: 14, EndHour: 22},
	}
}

// DefectType pairs a default severity with a description.
type DefectType struct {
	Severity    Severity
	Description string
}

// DefectTypes is the fixed defect taxonomy.
var DefectTypes = map[string]DefectType{
	"dimensional": {Severity: SeverityHigh, Description: "Out of tolerance"},
	"surface":     {Severity: SeverityMedium, Description: "Surface defect"},
	"assembly":    {Severity: SeverityHigh, Description: "Assembly issue"},
	"material":    {Severity: SeverityLow, Description: "Material quality"},
}

// DowntimeReasons is the fixed downtime taxonomy: reason key -> description.
var DowntimeReasons = map[string]string{
	"mechanical":  "Mechanical failure",
	"electrical":  "Electrical issue",
	"material":    "Material shortage",
	"changeover":  "Product changeover",
	"maintenance": "Scheduled maintenance",
}

// DowntimeReasonKeys returns the reason keys in a stable order, for
// deterministic event synthesis.
func DowntimeReasonKeys() []string {
	return []string{"mechanical", "electrical", "material", "changeover", "maintenance"}
}
