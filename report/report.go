/*
Package report derives monthly attendance reports from the ledger.

PURPOSE:
  A report is a pure projection: filter one employee's events to a calendar
  month, group them by day, pick the check-in/check-out pair per day, and
  count lateness and leave. Nothing here writes; reports are computed on
  demand and discarded after display or export.

KEY RULES:
  - Per day, the FIRST check-in and FIRST check-out (by timestamp) win.
  - A day is late when its check-in event was recorded late.
  - An empty month is a valid report with zero counts, not an error.
  - Worked hours per day are checkout minus check-in; days with an
    incomplete pair contribute zero.

SEE ALSO:
  - aggregator.go: Store-backed wrapper around Build
  - export.go:     XLSX and PDF rendering for the back office
*/
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharmadesk/attendance-engine/attendance"
)

// =============================================================================
// REPORT TYPES - Derived, never persisted
// =============================================================================

// DayEntry is one distinct day inside the reported month.
type DayEntry struct {
	Date     time.Time       `json:"date"`
	CheckIn  string          `json:"check_in,omitempty"`  // "HH:MM" local, empty when absent
	CheckOut string          `json:"check_out,omitempty"` // "HH:MM" local, empty when absent
	IsLate   bool            `json:"is_late"`
	Worked   decimal.Decimal `json:"worked_hours"` // hours, zero for incomplete pairs
}

// Report is the monthly aggregate for one employee.
type Report struct {
	EmployeeID  string          `json:"employee_id"`
	Name        string          `json:"name"`
	Year        int             `json:"year"`
	Month       time.Month      `json:"month"`
	DaysPresent int             `json:"days_present"`
	Attendances []DayEntry      `json:"attendances"`
	LeaveCount  int             `json:"leave_count"`
	LateCount   int             `json:"late_count"`
	TotalHours  decimal.Decimal `json:"total_hours"`
}

// =============================================================================
// BUILD - Pure fold over events
// =============================================================================

// Build computes the month's report from the given events. Events outside
// the month, or for other employees, are ignored; Build never fails.
func Build(emp attendance.Employee, year int, month time.Month, events []attendance.Event) Report {
	r := Report{
		EmployeeID:  emp.ID,
		Name:        emp.Name,
		Year:        year,
		Month:       month,
		Attendances: []DayEntry{},
		TotalHours:  decimal.Zero,
	}

	// Filter to employee + calendar month, local time.
	var filtered []attendance.Event
	for _, ev := range events {
		if ev.EmployeeID != emp.ID {
			continue
		}
		if ev.Timestamp.Year() != year || ev.Timestamp.Month() != month {
			continue
		}
		filtered = append(filtered, ev)
	}

	// Group by day bucket.
	byDay := make(map[time.Time][]attendance.Event)
	for _, ev := range filtered {
		day := attendance.DayOf(ev.Timestamp)
		byDay[day] = append(byDay[day], ev)
	}

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	for _, day := range days {
		dayEvents := byDay[day]
		sort.Slice(dayEvents, func(i, j int) bool {
			return dayEvents[i].Timestamp.Before(dayEvents[j].Timestamp)
		})

		entry := DayEntry{Date: day, Worked: decimal.Zero}
		var in, out *attendance.Event
		for i := range dayEvents {
			ev := dayEvents[i]
			switch {
			case ev.Type == attendance.CheckIn && in == nil:
				in = &dayEvents[i]
			case ev.Type == attendance.CheckOut && out == nil:
				out = &dayEvents[i]
			}
		}

		if in != nil {
			entry.CheckIn = in.Timestamp.Format("15:04")
			entry.IsLate = in.Status == attendance.StatusLate
		}
		if out != nil {
			entry.CheckOut = out.Timestamp.Format("15:04")
		}
		if in != nil && out != nil && out.Timestamp.After(in.Timestamp) {
			hours := decimal.NewFromFloat(out.Timestamp.Sub(in.Timestamp).Hours()).Round(2)
			entry.Worked = hours
			r.TotalHours = r.TotalHours.Add(hours)
		}

		if entry.CheckIn != "" {
			r.DaysPresent++
		}
		if entry.IsLate {
			r.LateCount++
		}
		r.Attendances = append(r.Attendances, entry)
	}

	for _, ev := range filtered {
		if ev.Type == attendance.Leave {
			r.LeaveCount++
		}
	}

	return r
}
