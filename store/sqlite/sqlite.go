/*
Package sqlite provides the SQLite-backed durable store.

PURPOSE:
  Implements attendance.Store (the append-only event log) and
  attendance.Directory (employee records) on a single SQLite file.
  Use ":memory:" in tests.

APPEND-ONLY ENFORCEMENT:
  There are no UPDATE or DELETE statements against the events table.
  History is only ever extended.

KEY TABLES:
  events:    Immutable attendance ledger
  employees: Directory records with configured work hours

INDEXES:
  - idx_events_employee_ts: Per-employee history scans (hot path)
  - idx_events_day:         Day-summary queries

WAL MODE:
  The database is opened with WAL so readers do not block the writer.

USAGE:
  store, err := sqlite.New("./data/attendance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  ledger := attendance.NewLedger(store, store, attendance.DefaultConfig())

SEE ALSO:
  - attendance/store.go: Interface definitions
  - store/jsonfile:      The local-storage-style alternative
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pharmadesk/attendance-engine/attendance"
)

// Store implements attendance.Store and attendance.Directory on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (and migrates) the database at dbPath.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Events (append-only attendance ledger)
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		name TEXT NOT NULL,
		ts TEXT NOT NULL,
		day TEXT NOT NULL,
		activity_type TEXT NOT NULL,
		status TEXT NOT NULL,
		recorded_by TEXT NOT NULL DEFAULT 'scan',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_employee_ts
		ON events(employee_id, ts);
	CREATE INDEX IF NOT EXISTS idx_events_day
		ON events(day);
	CREATE INDEX IF NOT EXISTS idx_events_type
		ON events(activity_type);

	-- Employees (directory)
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		department TEXT NOT NULL DEFAULT '',
		position TEXT NOT NULL DEFAULT '',
		work_start TEXT NOT NULL,
		work_end TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EVENT STORE (attendance.Store interface)
// =============================================================================

// Append adds one event to the ledger.
func (s *Store) Append(ctx context.Context, ev attendance.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO events
		(id, employee_id, name, ts, day, activity_type, status, recorded_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		ev.ID,
		ev.EmployeeID,
		ev.Name,
		ev.Timestamp.Format(time.RFC3339Nano),
		ev.Date.Format("2006-01-02"),
		ev.Type,
		ev.Status,
		ev.RecordedBy,
		ev.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return &attendance.StorageError{Op: "append", Err: err}
	}
	return nil
}

// LoadByEmployee returns the employee's events in [from, to], oldest first.
// A zero `from` means unbounded.
func (s *Store) LoadByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_id, name, ts, day, activity_type, status, recorded_by, created_at
		FROM events
		WHERE employee_id = ?
	`
	args := []any{employeeID}

	if !from.IsZero() {
		query += " AND ts >= ?"
		args = append(args, from.Format(time.RFC3339Nano))
	}
	if !to.IsZero() {
		query += " AND ts <= ?"
		args = append(args, to.Format(time.RFC3339Nano))
	}
	query += " ORDER BY ts ASC, created_at ASC"

	return s.queryEvents(ctx, query, args...)
}

// LoadDay returns every event in one day bucket, oldest first.
func (s *Store) LoadDay(ctx context.Context, day time.Time) ([]attendance.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_id, name, ts, day, activity_type, status, recorded_by, created_at
		FROM events
		WHERE day = ?
		ORDER BY ts ASC, created_at ASC
	`
	return s.queryEvents(ctx, query, attendance.DayOf(day).Format("2006-01-02"))
}

// LoadAll returns the full ledger, oldest first.
func (s *Store) LoadAll(ctx context.Context) ([]attendance.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_id, name, ts, day, activity_type, status, recorded_by, created_at
		FROM events
		ORDER BY ts ASC, created_at ASC
	`
	return s.queryEvents(ctx, query)
}

func (s *Store) queryEvents(ctx context.Context, query string, args ...any) ([]attendance.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &attendance.StorageError{Op: "load", Err: err}
	}
	defer rows.Close()

	var events []attendance.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, &attendance.StorageError{Op: "load", Err: err}
	}
	return events, nil
}

func scanEvent(rows *sql.Rows) (attendance.Event, error) {
	var (
		ev        attendance.Event
		ts        string
		day       string
		createdAt string
	)

	err := rows.Scan(&ev.ID, &ev.EmployeeID, &ev.Name, &ts, &day,
		&ev.Type, &ev.Status, &ev.RecordedBy, &createdAt)
	if err != nil {
		return ev, &attendance.StorageError{Op: "decode", Err: err}
	}

	if ev.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
		return ev, &attendance.StorageError{Op: "decode", Err: fmt.Errorf("bad timestamp %q: %w", ts, err)}
	}
	if ev.Date, err = time.ParseInLocation("2006-01-02", day, ev.Timestamp.Location()); err != nil {
		return ev, &attendance.StorageError{Op: "decode", Err: fmt.Errorf("bad day %q: %w", day, err)}
	}
	ev.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)

	return ev, nil
}

// =============================================================================
// EMPLOYEE DIRECTORY (attendance.Directory interface)
// =============================================================================

// SaveEmployee inserts or updates a directory record.
func (s *Store) SaveEmployee(ctx context.Context, emp attendance.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (id, name, department, position, work_start, work_end, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			department = excluded.department,
			position = excluded.position,
			work_start = excluded.work_start,
			work_end = excluded.work_end
	`

	_, err := s.db.ExecContext(ctx, query,
		emp.ID, emp.Name, emp.Department, emp.Position,
		emp.WorkHours.Start, emp.WorkHours.End,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return &attendance.StorageError{Op: "append", Err: err}
	}
	return nil
}

// DeleteEmployee removes a directory record. Ledger events stay: they hold
// a name snapshot and do not reference this row.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	if err != nil {
		return &attendance.StorageError{Op: "append", Err: err}
	}
	return nil
}

// Find retrieves an employee by ID. Returns (nil, nil) when unknown.
func (s *Store) Find(ctx context.Context, id string) (*attendance.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var emp attendance.Employee
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, department, position, work_start, work_end, created_at FROM employees WHERE id = ?",
		id,
	).Scan(&emp.ID, &emp.Name, &emp.Department, &emp.Position,
		&emp.WorkHours.Start, &emp.WorkHours.End, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &attendance.StorageError{Op: "load", Err: err}
	}

	emp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &emp, nil
}

// List returns all employees ordered by name.
func (s *Store) List(ctx context.Context) ([]attendance.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, department, position, work_start, work_end, created_at FROM employees ORDER BY name",
	)
	if err != nil {
		return nil, &attendance.StorageError{Op: "load", Err: err}
	}
	defer rows.Close()

	var employees []attendance.Employee
	for rows.Next() {
		var emp attendance.Employee
		var createdAt string
		if err := rows.Scan(&emp.ID, &emp.Name, &emp.Department, &emp.Position,
			&emp.WorkHours.Start, &emp.WorkHours.End, &createdAt); err != nil {
			return nil, &attendance.StorageError{Op: "decode", Err: err}
		}
		emp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}
