// Package store provides in-memory Store and Directory implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pharmadesk/attendance-engine/attendance"
)

// =============================================================================
// MEMORY STORE - In-memory event log (for testing/dev)
// =============================================================================

type Memory struct {
	mu     sync.RWMutex
	events []attendance.Event
}

func NewMemory() *Memory {
	return &Memory{}
}

// Append adds a single event. Append-only.
func (m *Memory) Append(_ context.Context, ev attendance.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Binary search for insertion point keeps the slice timestamp-ordered.
	i := sort.Search(len(m.events), func(i int) bool {
		return m.events[i].Timestamp.After(ev.Timestamp)
	})
	m.events = append(m.events, attendance.Event{})
	copy(m.events[i+1:], m.events[i:])
	m.events[i] = ev
	return nil
}

func (m *Memory) LoadByEmployee(_ context.Context, employeeID string, from, to time.Time) ([]attendance.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []attendance.Event
	for _, ev := range m.events {
		if ev.EmployeeID != employeeID {
			continue
		}
		if inRange(ev.Timestamp, from, to) {
			result = append(result, ev)
		}
	}
	return result, nil
}

func (m *Memory) LoadDay(_ context.Context, day time.Time) ([]attendance.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []attendance.Event
	for _, ev := range m.events {
		if attendance.SameDay(ev.Timestamp, day) {
			result = append(result, ev)
		}
	}
	return result, nil
}

func (m *Memory) LoadAll(_ context.Context) ([]attendance.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]attendance.Event, len(m.events))
	copy(result, m.events)
	return result, nil
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && t.After(to) {
		return false
	}
	return true
}

// =============================================================================
// MEMORY DIRECTORY - In-memory employee directory
// =============================================================================

type MemoryDirectory struct {
	mu        sync.RWMutex
	employees map[string]attendance.Employee
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{employees: make(map[string]attendance.Employee)}
}

// Save adds or replaces an employee.
func (d *MemoryDirectory) Save(_ context.Context, emp attendance.Employee) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.employees[emp.ID] = emp
	return nil
}

// Delete removes an employee. Ledger events referencing it remain.
func (d *MemoryDirectory) Delete(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.employees, id)
	return nil
}

func (d *MemoryDirectory) Find(_ context.Context, id string) (*attendance.Employee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	emp, ok := d.employees[id]
	if !ok {
		return nil, nil
	}
	return &emp, nil
}

func (d *MemoryDirectory) List(_ context.Context) ([]attendance.Employee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make([]attendance.Employee, 0, len(d.employees))
	for _, emp := range d.employees {
		result = append(result, emp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}
