/*
Package attendance provides the attendance ledger engine.

PURPOSE:
  This package contains the core types and rules for employee attendance
  tracking: check-in, check-out and leave events, lateness derivation,
  duplicate check-in rejection, check-in/check-out pairing, and the
  idempotent auto-checkout sweep.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee: Directory entry with configured work hours
  - Event: An immutable ledger entry (one per recorded activity)
  - ActivityType / Status: Closed enumerations, not free-form strings
  - DaySummary: Presence counts for a single calendar day

DESIGN PRINCIPLES:
  1. Immutability: Events are appended, never modified or deleted
  2. Determinism: Every rule takes an explicit `now` - no wall-clock reads
  3. Type Safety: Invalid activity types and statuses are unrepresentable
  4. Snapshotting: Events carry the employee name at record time

USAGE:
  ledger := attendance.NewLedger(store, directory, attendance.DefaultConfig())
  event, err := ledger.RecordActivity(ctx, "emp-1", attendance.CheckIn, time.Now())

SEE ALSO:
  - ledger.go: Recording rules and the auto-checkout sweep
  - pairing.go: The single definition of check-in/check-out pairing
  - store.go: Persistence and directory interfaces
*/
package attendance

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// ACTIVITY TYPE - What kind of event is being recorded
// =============================================================================

type ActivityType string

const (
	CheckIn  ActivityType = "check-in"
	CheckOut ActivityType = "check-out"
	Leave    ActivityType = "leave"
)

// Valid reports whether t is one of the known activity types.
func (t ActivityType) Valid() bool {
	switch t {
	case CheckIn, CheckOut, Leave:
		return true
	}
	return false
}

// =============================================================================
// STATUS - Derived presence state, meaningful primarily on check-in events
// =============================================================================

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
	StatusLeave   Status = "leave"
)

// =============================================================================
// EMPLOYEE - Directory entry
// =============================================================================

// WorkHours holds an employee's configured daily schedule as "HH:MM" local
// time strings, matching how the admin UI captures them.
type WorkHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// StartHour returns the hour component of the configured start time.
// The minute component is deliberately ignored by the lateness rule.
func (w WorkHours) StartHour() (int, error) {
	return parseHour(w.Start)
}

// Validate checks both boundaries parse as "HH:MM".
func (w WorkHours) Validate() error {
	if _, err := parseHour(w.Start); err != nil {
		return fmt.Errorf("invalid start time %q: %w", w.Start, err)
	}
	if _, err := parseHour(w.End); err != nil {
		return fmt.Errorf("invalid end time %q: %w", w.End, err)
	}
	return nil
}

func parseHour(hhmm string) (int, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("expected HH:MM")
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("expected HH:MM: %w", err)
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("hour out of range: %d", hour)
	}
	if min, err := strconv.Atoi(parts[1]); err != nil || min < 0 || min > 59 {
		return 0, fmt.Errorf("minute out of range: %s", parts[1])
	}
	return hour, nil
}

// Employee is a directory entry. Once referenced by ledger events it should
// be treated as immutable: events store a name snapshot, not a reference.
type Employee struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	Position   string    `json:"position"`
	WorkHours  WorkHours `json:"work_hours"`
	CreatedAt  time.Time `json:"created_at"`
}

// =============================================================================
// EVENT - One immutable ledger entry
// =============================================================================

// Event records a single attendance activity. Events are append-only:
// no operation mutates or deletes one after it is written.
type Event struct {
	ID         string       `json:"id"`
	EmployeeID string       `json:"employee_id"`
	Name       string       `json:"name"` // employee name snapshot at record time
	Timestamp  time.Time    `json:"timestamp"`
	Date       time.Time    `json:"date"` // day bucket: local midnight of Timestamp
	Type       ActivityType `json:"activity_type"`
	Status     Status       `json:"status"`

	// Audit fields
	RecordedBy string    `json:"recorded_by"` // "scan", "system" (sweep), "admin"
	CreatedAt  time.Time `json:"created_at"`
}

// DayOf buckets a timestamp to its local calendar day.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two timestamps fall in the same local calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// =============================================================================
// DAY SUMMARY - Presence counts for one calendar day
// =============================================================================

// DaySummary is the dashboard view of a single day.
//
// An employee whose only event for the day is a leave still counts toward
// AbsentCount: leave is an excused absence, not a presence. LeaveCount is
// reported alongside so callers can surface it separately.
type DaySummary struct {
	Date         time.Time `json:"date"`
	PresentCount int       `json:"present_count"`
	AbsentCount  int       `json:"absent_count"`
	LeaveCount   int       `json:"leave_count"`
}

// =============================================================================
// SWEEP RESULT
// =============================================================================

// SweepResult summarizes one auto-checkout pass.
type SweepResult struct {
	Closed  []Event // check-out events appended by this pass
	Skipped int     // open check-ins younger than the threshold
}
