/*
errors.go - Centralized error types for the attendance engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Every recording failure is recoverable: a rejected RecordActivity call
  leaves the ledger untouched and the caller decides how to surface it.

ERROR CATEGORIES:
  1. Recording errors - Business rule violations (duplicate check-in, ...)
  2. Lookup errors    - Unknown employee
  3. Storage errors   - Persistence failures (unavailable or corrupt store)

USAGE:
  Callers match with errors.Is:

    if errors.Is(err, attendance.ErrDuplicateCheckIn) {
        // show "already checked in" message
    }

SEE ALSO:
  - ledger.go: Produces these errors
  - api/handlers.go: Maps them to HTTP status codes
*/
package attendance

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when the employee ID is not in the
	// directory. Recording requires a known employee.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrDuplicateCheckIn is returned when a check-in is attempted while a
	// previous check-in is still inside the configured duplicate window.
	ErrDuplicateCheckIn = errors.New("duplicate check-in within window")

	// ErrNoOpenCheckIn is returned when a check-out has no unpaired check-in
	// to pair with.
	ErrNoOpenCheckIn = errors.New("no open check-in to pair with")

	// ErrInvalidActivity is returned for an unknown activity type.
	ErrInvalidActivity = errors.New("invalid activity type")

	// ErrStorage wraps persistence failures, including a corrupt store.
	ErrStorage = errors.New("storage failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DuplicateCheckInError reports a check-in rejected by the duplicate window.
type DuplicateCheckInError struct {
	EmployeeID  string
	LastCheckIn time.Time
	Window      time.Duration
}

func (e *DuplicateCheckInError) Error() string {
	return fmt.Sprintf("duplicate check-in for %s: previous check-in at %s is within the %s window",
		e.EmployeeID, e.LastCheckIn.Format(time.RFC3339), e.Window)
}

func (e *DuplicateCheckInError) Unwrap() error { return ErrDuplicateCheckIn }

// NoOpenCheckInError reports a check-out with nothing to pair to.
type NoOpenCheckInError struct {
	EmployeeID string
	At         time.Time
}

func (e *NoOpenCheckInError) Error() string {
	return fmt.Sprintf("check-out for %s at %s has no open check-in",
		e.EmployeeID, e.At.Format(time.RFC3339))
}

func (e *NoOpenCheckInError) Unwrap() error { return ErrNoOpenCheckIn }

// StorageError wraps a failure from the durable store.
type StorageError struct {
	Op  string // "append", "load", "decode"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return ErrStorage }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to a rejected recording
// rather than an engine failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrDuplicateCheckIn) ||
		errors.Is(err, ErrNoOpenCheckIn) ||
		errors.Is(err, ErrInvalidActivity)
}

// IsNotFound returns true if the error indicates a missing employee.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound)
}
