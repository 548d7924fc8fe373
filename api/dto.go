/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, keeping the internal
  domain model decoupled from the external contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers; DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/pharmadesk/attendance-engine/attendance"
	"github.com/pharmadesk/attendance-engine/report"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
	WorkStart  string `json:"work_start"`
	WorkEnd    string `json:"work_end"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is the request to create an employee.
type CreateEmployeeRequest struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
	WorkStart  string `json:"work_start"`
	WorkEnd    string `json:"work_end"`
}

func toEmployeeDTO(emp attendance.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:         emp.ID,
		Name:       emp.Name,
		Department: emp.Department,
		Position:   emp.Position,
		WorkStart:  emp.WorkHours.Start,
		WorkEnd:    emp.WorkHours.End,
	}
	if !emp.CreatedAt.IsZero() {
		dto.CreatedAt = emp.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// EVENTS
// =============================================================================

// RecordActivityRequest records one activity. At is optional; the server
// clock is used when omitted.
type RecordActivityRequest struct {
	Activity string     `json:"activity"`
	At       *time.Time `json:"at,omitempty"`
}

// EventDTO represents a ledger event in API responses.
type EventDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Timestamp  string `json:"timestamp"`
	Date       string `json:"date"`
	Activity   string `json:"activity"`
	Status     string `json:"status"`
	RecordedBy string `json:"recorded_by"`
}

func toEventDTO(ev attendance.Event) EventDTO {
	return EventDTO{
		ID:         ev.ID,
		EmployeeID: ev.EmployeeID,
		Name:       ev.Name,
		Timestamp:  ev.Timestamp.Format(time.RFC3339),
		Date:       ev.Date.Format("2006-01-02"),
		Activity:   string(ev.Type),
		Status:     string(ev.Status),
		RecordedBy: ev.RecordedBy,
	}
}

// =============================================================================
// SUMMARY AND REPORTS
// =============================================================================

// DaySummaryDTO is the dashboard presence summary.
type DaySummaryDTO struct {
	Date         string `json:"date"`
	PresentCount int    `json:"present_count"`
	AbsentCount  int    `json:"absent_count"`
	LeaveCount   int    `json:"leave_count"`
}

// ReportDTO wraps a monthly report.
type ReportDTO struct {
	EmployeeID  string          `json:"employee_id"`
	Name        string          `json:"name"`
	Year        int             `json:"year"`
	Month       int             `json:"month"` // 1-12
	DaysPresent int             `json:"days_present"`
	Attendances []ReportDayDTO  `json:"attendances"`
	LeaveCount  int             `json:"leave_count"`
	LateCount   int             `json:"late_count"`
	TotalHours  float64         `json:"total_hours"`
}

// ReportDayDTO is one day inside a monthly report.
type ReportDayDTO struct {
	Date     string  `json:"date"`
	CheckIn  string  `json:"check_in,omitempty"`
	CheckOut string  `json:"check_out,omitempty"`
	IsLate   bool    `json:"is_late"`
	Worked   float64 `json:"worked_hours"`
}

func toReportDTO(r report.Report) ReportDTO {
	days := make([]ReportDayDTO, len(r.Attendances))
	for i, d := range r.Attendances {
		worked, _ := d.Worked.Float64()
		days[i] = ReportDayDTO{
			Date:     d.Date.Format("2006-01-02"),
			CheckIn:  d.CheckIn,
			CheckOut: d.CheckOut,
			IsLate:   d.IsLate,
			Worked:   worked,
		}
	}
	total, _ := r.TotalHours.Float64()
	return ReportDTO{
		EmployeeID:  r.EmployeeID,
		Name:        r.Name,
		Year:        r.Year,
		Month:       int(r.Month),
		DaysPresent: r.DaysPresent,
		Attendances: days,
		LeaveCount:  r.LeaveCount,
		LateCount:   r.LateCount,
		TotalHours:  total,
	}
}

// SweepResultDTO summarizes one manual sweep trigger.
type SweepResultDTO struct {
	ClosedCount int        `json:"closed_count"`
	Skipped     int        `json:"skipped"`
	Closed      []EventDTO `json:"closed"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
