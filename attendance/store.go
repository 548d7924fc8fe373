/*
store.go - Persistence and directory interfaces

PURPOSE:
  Defines the interface between the ledger rules and persistence.
  The Store holds events; the Directory holds employees. Both are injected
  into the Ledger so persistence is swappable and mockable in tests.

APPEND-ONLY CONTRACT:
  The Store interface enforces append-only semantics:
  - Append(): The ONLY write operation
  - NO Update() or Delete() methods exist
  Corrections happen by recording further events, never by editing history.

IMPLEMENTATIONS:
  - attendance/store/memory.go: In-memory, for tests and development
  - store/sqlite:               Durable SQLite store for the service
  - store/jsonfile:             Whole-ledger JSON file, the equivalent of
                                the browser local-storage the system
                                originally persisted to

SEE ALSO:
  - ledger.go: Consumes these interfaces
*/
package attendance

import (
	"context"
	"time"
)

// =============================================================================
// STORE - Event persistence (append-only)
// =============================================================================

// Store persists attendance events.
// IMPORTANT: Store is APPEND-ONLY. No Update, No Delete. Ever.
type Store interface {
	// Append persists one event. This is the ONLY write operation.
	Append(ctx context.Context, ev Event) error

	// LoadByEmployee returns the employee's events with Timestamp in
	// [from, to], ordered by Timestamp ascending.
	LoadByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]Event, error)

	// LoadDay returns all events whose day bucket equals DayOf(day),
	// ordered by Timestamp ascending.
	LoadDay(ctx context.Context, day time.Time) ([]Event, error)

	// LoadAll returns every event, ordered by Timestamp ascending.
	// Used by the auto-checkout sweep.
	LoadAll(ctx context.Context) ([]Event, error)
}

// =============================================================================
// DIRECTORY - Employee lookup (owned by the employee-management collaborator)
// =============================================================================

// Directory resolves employees. Find returns (nil, nil) for an unknown ID;
// the ledger converts that into ErrEmployeeNotFound.
type Directory interface {
	Find(ctx context.Context, id string) (*Employee, error)
	List(ctx context.Context) ([]Employee, error)
}
