/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  The small set of request/response types the HTTP layer owns itself.
  Query results from the trace and metrics engines already carry their
  wire-format JSON tags, so they are returned directly; only setup,
  health, and error envelopes live here.

SEE ALSO:
  - handlers.go: Uses these types
  - trace/results.go: The query result shapes returned as-is
*/
package api

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SetupRequest optionally overrides generation parameters.
type SetupRequest struct {
	Days int   `json:"days,omitempty"`
	Seed int64 `json:"seed,omitempty"`
}

// SetupResponse summarizes a freshly generated snapshot.
type SetupResponse struct {
	Message   string `json:"message"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Suppliers int    `json:"suppliers"`
	Lots      int    `json:"material_lots"`
	Orders    int    `json:"orders"`
	Batches   int    `json:"production_batches"`
}

// HealthResponse reports liveness and whether data has been generated.
type HealthResponse struct {
	Status  string `json:"status"`
	HasData bool   `json:"has_data"`
}
