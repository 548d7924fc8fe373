/*
pairing.go - The single definition of check-in/check-out pairing

PURPOSE:
  A check-out logically closes a work session opened by a check-in. That
  pairing rule is needed in two places - recording a check-out and the
  auto-checkout sweep - so it lives here as one query over the event list
  rather than being re-derived inline at each call site.

PAIRING RULE:
  Walk events in timestamp order. Each check-out pairs the most recent
  still-unpaired check-in by the same employee, provided that check-in is
  no more than 24 hours older. A check-in left unpaired after the walk is
  an OPEN check-in: a session nobody closed.

WHY 24 HOURS?
  A checkout more than a day after a check-in does not describe the same
  work session; the stale check-in stays open and is eventually closed by
  the sweep instead.

  System check-outs are exempt from the horizon: they ARE the sweep
  closing a session, however old. Without the exemption a check-in left
  open past the horizon could never be closed, and every sweep pass
  would append another check-out for it.
*/
package attendance

import (
	"sort"
	"time"
)

// pairingHorizon bounds how far back a check-out can reach to close a
// check-in. Sessions are same-day affairs; see package comment.
const pairingHorizon = 24 * time.Hour

// OpenCheckIns returns every check-in event with no paired check-out,
// ordered by timestamp ascending. The input may be in any order and may
// span multiple employees.
func OpenCheckIns(events []Event) []Event {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	// Per employee, a stack of unpaired check-ins so far.
	open := make(map[string][]Event)
	for _, ev := range sorted {
		switch ev.Type {
		case CheckIn:
			open[ev.EmployeeID] = append(open[ev.EmployeeID], ev)
		case CheckOut:
			stack := open[ev.EmployeeID]
			if len(stack) == 0 {
				continue
			}
			last := stack[len(stack)-1]
			// System check-outs always pair: the sweep records them
			// precisely to close sessions older than the horizon.
			if ev.RecordedBy == recordedBySystem || ev.Timestamp.Sub(last.Timestamp) <= pairingHorizon {
				open[ev.EmployeeID] = stack[:len(stack)-1]
			}
		}
	}

	var result []Event
	for _, stack := range open {
		result = append(result, stack...)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result
}

// OpenCheckIn returns the most recent unpaired check-in for one employee,
// or false if every check-in is already closed.
func OpenCheckIn(events []Event, employeeID string) (Event, bool) {
	var latest Event
	found := false
	for _, ev := range OpenCheckIns(events) {
		if ev.EmployeeID != employeeID {
			continue
		}
		if !found || ev.Timestamp.After(latest.Timestamp) {
			latest = ev
			found = true
		}
	}
	return latest, found
}
