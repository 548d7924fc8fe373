/*
Package jsonfile persists the event ledger as a single JSON file.

PURPOSE:
  The attendance system originally kept its ledger as one JSON blob in
  browser local storage, rewritten in full on every append. This store is
  the same model on disk: load the whole list, append one event, write the
  whole list back. It suits the single-writer kiosk deployment; anything
  bigger should use store/sqlite.

FAILURE BEHAVIOR:
  A missing file is an empty ledger. An unreadable or corrupt file is a
  StorageError surfaced to the caller; the ledger never silently starts
  over on top of damaged history.
*/
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pharmadesk/attendance-engine/attendance"
)

// Store implements attendance.Store over one JSON file.
type Store struct {
	path string
	mu   sync.Mutex
}

// New creates a store persisting to path. The file is created lazily on
// the first append.
func New(path string) *Store {
	return &Store{path: path}
}

// Append reads the ledger, adds ev and writes the ledger back.
func (s *Store) Append(ctx context.Context, ev attendance.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.load()
	if err != nil {
		return err
	}
	events = append(events, ev)
	return s.save(events)
}

func (s *Store) LoadByEmployee(_ context.Context, employeeID string, from, to time.Time) ([]attendance.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.load()
	if err != nil {
		return nil, err
	}

	var result []attendance.Event
	for _, ev := range events {
		if ev.EmployeeID != employeeID {
			continue
		}
		if !from.IsZero() && ev.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && ev.Timestamp.After(to) {
			continue
		}
		result = append(result, ev)
	}
	return result, nil
}

func (s *Store) LoadDay(_ context.Context, day time.Time) ([]attendance.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.load()
	if err != nil {
		return nil, err
	}

	var result []attendance.Event
	for _, ev := range events {
		if attendance.SameDay(ev.Timestamp, day) {
			result = append(result, ev)
		}
	}
	return result, nil
}

func (s *Store) LoadAll(_ context.Context) ([]attendance.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// load reads and decodes the whole ledger, sorted by timestamp.
func (s *Store) load() ([]attendance.Event, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &attendance.StorageError{Op: "load", Err: err}
	}

	var events []attendance.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, &attendance.StorageError{Op: "decode", Err: err}
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
	return events, nil
}

// save writes the whole ledger through a temp file + rename so a crash
// mid-write cannot leave a half-written ledger behind.
func (s *Store) save(events []attendance.Event) error {
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return &attendance.StorageError{Op: "append", Err: err}
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".ledger-*.json")
	if err != nil {
		return &attendance.StorageError{Op: "append", Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &attendance.StorageError{Op: "append", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &attendance.StorageError{Op: "append", Err: err}
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return &attendance.StorageError{Op: "append", Err: err}
	}
	return nil
}
