/*
errors.go - Centralized error types for the traceability core

PURPOSE:
  All error types in one place for consistency and discoverability.
  The engines and the HTTP layer branch on these with errors.Is/errors.As.

ERROR CATEGORIES:
  1. Not-found errors  - a requested id is absent from the snapshot
  2. Date errors       - a date string fails the YYYY-MM-DD shape check
  3. Malformed input   - a batch is missing a field aggregation requires
  4. Validation errors - an entity violates a data-model invariant

RECOVERY POLICY (each engine documents its own):
  Not-found and invalid-date errors always surface to the caller.
  Malformed batches and dangling references are recovered locally with
  best-effort partial results plus a diagnostic log entry - partial
  traceability is still useful during an investigation.

SEE ALSO:
  - validate.go: produces ValidationError
  - rollup/:     produces MalformedBatchError
  - trace/:      produces NotFoundError
*/
package model

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is the base of every NotFoundError.
	ErrNotFound = errors.New("not found")

	// ErrInvalidDateRange is returned when start > end.
	ErrInvalidDateRange = errors.New("invalid date range: start after end")

	// ErrNoData is returned by stores when no snapshot has been persisted
	// yet. Callers typically respond by generating one.
	ErrNoData = errors.New("no snapshot data available")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NotFoundError reports a missing entity by kind and id.
type NotFoundError struct {
	Kind string // "supplier", "batch", "order", "lot", "serial"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound builds a NotFoundError for the given entity kind.
func NewNotFound(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// InvalidDateError reports a date string that is not YYYY-MM-DD.
type InvalidDateError struct {
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", e.Value)
}

// MalformedBatchError reports a batch missing a field the aggregation
// engine requires. The aggregation policy is skip-and-log, never abort.
type MalformedBatchError struct {
	BatchID BatchID
	Field   string
}

func (e *MalformedBatchError) Error() string {
	return fmt.Sprintf("malformed batch %q: missing %s", e.BatchID, e.Field)
}

// ValidationError reports a data-model invariant violation found while
// validating an entity at the parse boundary.
type ValidationError struct {
	Entity string // "supplier", "material_lot", ...
	ID     string
	Field  string
	Msg    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s: %s %s", e.Entity, e.ID, e.Field, e.Msg)
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether err is (or wraps) a not-found condition.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsClientError reports whether the error is due to invalid client input
// rather than an internal failure. The HTTP layer maps these to 400.
func IsClientError(err error) bool {
	var dateErr *InvalidDateError
	var valErr *ValidationError
	return errors.As(err, &dateErr) ||
		errors.As(err, &valErr) ||
		errors.Is(err, ErrInvalidDateRange)
}
