/*
ledger.go - Append-only attendance event log

PURPOSE:
  The Ledger is the source of truth for attendance. Every check-in,
  check-out and leave is recorded here as an immutable event; per-day
  presence and monthly reports are always derived by replaying events,
  never stored as separate mutable state.

CRITICAL INVARIANTS:
  1. APPEND-ONLY: No Update, No Delete. EVER.
  2. VALIDATED: A rejected recording leaves the ledger untouched.
  3. DETERMINISTIC: Every rule takes `now` as a parameter. The ledger
     never reads the wall clock, so the duplicate window and the sweep
     are exactly reproducible in tests.

RECORDING RULES:
  check-in:  rejected while a prior check-in sits inside the duplicate
             window; otherwise recorded as late when the hour-of-day is
             strictly past the employee's start hour, else present.
  check-out: pairs the most recent open check-in (see pairing.go);
             without one the recording fails.
  leave:     always recorded.

AUTO-CHECKOUT SWEEP:
  The host runs RunAutoCheckoutSweep on a timer. It force-closes open
  check-ins older than the configured threshold by recording a system
  check-out. Re-running with the same `now` is a no-op because the
  pairing rule no longer reports those check-ins as open.

SEE ALSO:
  - pairing.go: Open check-in query shared by recording and sweeping
  - store.go:   Injected persistence and directory interfaces
  - report:     Monthly aggregation over this ledger
*/
package attendance

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// CONFIG
// =============================================================================

// Config carries the tunable recording rules.
//
// The pharmacy ran both windows at one hour while trialing the kiosk and
// intended eight hours for production. Neither value is baked in here;
// pick per deployment.
type Config struct {
	// DuplicateCheckInWindow rejects a second check-in recorded within
	// this duration of a previous one.
	DuplicateCheckInWindow time.Duration

	// AutoCheckoutThreshold is how long a check-in may stay open before
	// the sweep force-closes it.
	AutoCheckoutThreshold time.Duration
}

// DefaultConfig returns the trial-period values.
func DefaultConfig() Config {
	return Config{
		DuplicateCheckInWindow: time.Hour,
		AutoCheckoutThreshold:  time.Hour,
	}
}

const (
	recordedByScan   = "scan"
	recordedBySystem = "system"
)

// =============================================================================
// LEDGER
// =============================================================================

// Ledger validates and appends attendance events.
type Ledger struct {
	store     Store
	directory Directory
	cfg       Config
}

// NewLedger creates a ledger over the given store and employee directory.
// Zero-valued config durations fall back to DefaultConfig.
func NewLedger(store Store, directory Directory, cfg Config) *Ledger {
	def := DefaultConfig()
	if cfg.DuplicateCheckInWindow <= 0 {
		cfg.DuplicateCheckInWindow = def.DuplicateCheckInWindow
	}
	if cfg.AutoCheckoutThreshold <= 0 {
		cfg.AutoCheckoutThreshold = def.AutoCheckoutThreshold
	}
	return &Ledger{store: store, directory: directory, cfg: cfg}
}

// Config returns the effective configuration.
func (l *Ledger) Config() Config { return l.cfg }

// RecordActivity validates and appends one event for the employee at `now`.
// On failure the ledger is unchanged and the error identifies the rule that
// rejected the recording.
func (l *Ledger) RecordActivity(ctx context.Context, employeeID string, activity ActivityType, now time.Time) (*Event, error) {
	return l.record(ctx, employeeID, activity, now, recordedByScan)
}

func (l *Ledger) record(ctx context.Context, employeeID string, activity ActivityType, now time.Time, recordedBy string) (*Event, error) {
	if !activity.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidActivity, activity)
	}

	emp, err := l.directory.Find(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmployeeNotFound, employeeID)
	}

	history, err := l.store.LoadByEmployee(ctx, employeeID, time.Time{}, now)
	if err != nil {
		return nil, err
	}

	var status Status
	switch activity {
	case CheckIn:
		if prev, dup := l.recentCheckIn(history, now); dup {
			return nil, &DuplicateCheckInError{
				EmployeeID:  employeeID,
				LastCheckIn: prev.Timestamp,
				Window:      l.cfg.DuplicateCheckInWindow,
			}
		}
		status, err = checkInStatus(*emp, now)
		if err != nil {
			return nil, err
		}

	case CheckOut:
		if _, open := OpenCheckIn(history, employeeID); !open {
			return nil, &NoOpenCheckInError{EmployeeID: employeeID, At: now}
		}
		// Status carries forward from the check-in; it is not recomputed
		// at checkout time.
		status = StatusPresent

	case Leave:
		status = StatusLeave
	}

	ev := Event{
		ID:         uuid.NewString(),
		EmployeeID: emp.ID,
		Name:       emp.Name,
		Timestamp:  now,
		Date:       DayOf(now),
		Type:       activity,
		Status:     status,
		RecordedBy: recordedBy,
		CreatedAt:  now,
	}

	if err := l.store.Append(ctx, ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// recentCheckIn returns the latest check-in inside the duplicate window.
func (l *Ledger) recentCheckIn(history []Event, now time.Time) (Event, bool) {
	cutoff := now.Add(-l.cfg.DuplicateCheckInWindow)
	var latest Event
	found := false
	for _, ev := range history {
		if ev.Type != CheckIn || !ev.Timestamp.After(cutoff) {
			continue
		}
		if !found || ev.Timestamp.After(latest.Timestamp) {
			latest = ev
			found = true
		}
	}
	return latest, found
}

// checkInStatus derives present/late. The rule compares hours only: a
// 08:00 start makes 08:59 on time and 09:00 late.
func checkInStatus(emp Employee, now time.Time) (Status, error) {
	startHour, err := emp.WorkHours.StartHour()
	if err != nil {
		return "", fmt.Errorf("employee %s has unusable work hours: %w", emp.ID, err)
	}
	if now.Hour() > startHour {
		return StatusLate, nil
	}
	return StatusPresent, nil
}

// =============================================================================
// AUTO-CHECKOUT SWEEP
// =============================================================================

// RunAutoCheckoutSweep force-closes open check-ins older than the configured
// threshold by recording a system check-out at `now`. Idempotent: calling it
// again with the same `now` appends nothing, because the first pass paired
// every eligible check-in.
func (l *Ledger) RunAutoCheckoutSweep(ctx context.Context, now time.Time) (SweepResult, error) {
	all, err := l.store.LoadAll(ctx)
	if err != nil {
		return SweepResult{}, err
	}

	var result SweepResult
	for _, open := range OpenCheckIns(all) {
		if now.Sub(open.Timestamp) <= l.cfg.AutoCheckoutThreshold {
			result.Skipped++
			continue
		}
		ev, err := l.record(ctx, open.EmployeeID, CheckOut, now, recordedBySystem)
		if err != nil {
			// An employee removed from the directory leaves orphan
			// check-ins behind; the sweep moves on.
			if IsNotFound(err) {
				log.Printf("[Sweep] skipping %s: %v", open.EmployeeID, err)
				continue
			}
			return result, err
		}
		result.Closed = append(result.Closed, *ev)
	}
	return result, nil
}

// =============================================================================
// QUERIES
// =============================================================================

// SummarizeDay counts presence for one calendar day across the whole
// directory. PresentCount + AbsentCount always equals the directory size;
// employees on leave are counted absent, with LeaveCount alongside.
func (l *Ledger) SummarizeDay(ctx context.Context, day time.Time) (DaySummary, error) {
	employees, err := l.directory.List(ctx)
	if err != nil {
		return DaySummary{}, err
	}
	events, err := l.store.LoadDay(ctx, day)
	if err != nil {
		return DaySummary{}, err
	}

	checkedIn := make(map[string]bool)
	onLeave := make(map[string]bool)
	for _, ev := range events {
		switch ev.Type {
		case CheckIn:
			checkedIn[ev.EmployeeID] = true
		case Leave:
			onLeave[ev.EmployeeID] = true
		}
	}

	return DaySummary{
		Date:         DayOf(day),
		PresentCount: len(checkedIn),
		AbsentCount:  len(employees) - len(checkedIn),
		LeaveCount:   len(onLeave),
	}, nil
}

// Events returns the employee's events in [from, to], oldest first.
// A zero `from` means "from the beginning".
func (l *Ledger) Events(ctx context.Context, employeeID string, from, to time.Time) ([]Event, error) {
	return l.store.LoadByEmployee(ctx, employeeID, from, to)
}
