/*
handlers.go - HTTP API handlers for the attendance engine

PURPOSE:
  Exposes the ledger and report aggregator via REST. Handles HTTP
  request/response, JSON serialization, and delegates all rules to the
  domain packages.

ENDPOINTS:
  Employees:
    GET    /api/employees                    List all employees
    POST   /api/employees                    Create employee
    GET    /api/employees/{id}               Get employee
    DELETE /api/employees/{id}               Remove employee
    GET    /api/employees/{id}/events        Event history
    POST   /api/employees/{id}/activity      Record check-in/out/leave
    GET    /api/employees/{id}/report        Monthly report (JSON)
    GET    /api/employees/{id}/report/export Monthly report (xlsx/pdf)

  Attendance:
    GET    /api/attendance/summary           Day presence summary

  Admin:
    POST   /api/admin/sweep                  Trigger the auto-checkout sweep

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Unknown employee
  - 409: Rejected recording (duplicate check-in, no open check-in)
  - 500: Storage or internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - scheduler.go: The timer that drives the sweep in production
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pharmadesk/attendance-engine/attendance"
	"github.com/pharmadesk/attendance-engine/report"
	"github.com/pharmadesk/attendance-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      *sqlite.Store
	Ledger     *attendance.Ledger
	Aggregator *report.Aggregator

	// Clock returns the server's notion of now; swapped out in tests.
	Clock func() time.Time
}

// NewHandler wires a handler over one sqlite store.
func NewHandler(store *sqlite.Store, cfg attendance.Config) *Handler {
	return &Handler{
		Store:      store,
		Ledger:     attendance.NewLedger(store, store, cfg),
		Aggregator: report.NewAggregator(store, store),
		Clock:      time.Now,
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, emp := range employees {
		dtos[i] = toEmployeeDTO(emp)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee adds a directory record.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	emp := attendance.Employee{
		ID:         req.ID,
		Name:       req.Name,
		Department: req.Department,
		Position:   req.Position,
		WorkHours:  attendance.WorkHours{Start: req.WorkStart, End: req.WorkEnd},
	}
	if err := emp.WorkHours.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid work hours", err)
		return
	}

	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// GetEmployee returns one employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	emp, err := h.Store.Find(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// DeleteEmployee removes a directory record. Ledger events are untouched.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteEmployee(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete employee", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ACTIVITY HANDLERS
// =============================================================================

// RecordActivity records a check-in, check-out or leave for an employee.
func (h *Handler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req RecordActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	now := h.Clock()
	if req.At != nil {
		now = *req.At
	}

	ev, err := h.Ledger.RecordActivity(r.Context(), id, attendance.ActivityType(req.Activity), now)
	if err != nil {
		writeRecordError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventDTO(*ev))
}

// ListEvents returns an employee's event history.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var from, to time.Time
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid 'from' timestamp", err)
			return
		}
		from = t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid 'to' timestamp", err)
			return
		}
		to = t
	}

	events, err := h.Ledger.Events(r.Context(), id, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load events", err)
		return
	}

	dtos := make([]EventDTO, len(events))
	for i, ev := range events {
		dtos[i] = toEventDTO(ev)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// SUMMARY AND REPORT HANDLERS
// =============================================================================

// DaySummary returns presence counts for one day (default: today).
func (h *Handler) DaySummary(w http.ResponseWriter, r *http.Request) {
	day := h.Clock()
	if v := r.URL.Query().Get("date"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid 'date', expected YYYY-MM-DD", err)
			return
		}
		day = t
	}

	summary, err := h.Ledger.SummarizeDay(r.Context(), day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to summarize day", err)
		return
	}

	writeJSON(w, http.StatusOK, DaySummaryDTO{
		Date:         summary.Date.Format("2006-01-02"),
		PresentCount: summary.PresentCount,
		AbsentCount:  summary.AbsentCount,
		LeaveCount:   summary.LeaveCount,
	})
}

// MonthlyReport returns the JSON report for ?year=&month= (month 1-12).
func (h *Handler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.buildReport(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toReportDTO(rep))
}

// ExportReport streams the report as ?format=xlsx or ?format=pdf.
func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.buildReport(w, r)
	if !ok {
		return
	}

	filename := fmt.Sprintf("attendance-%s-%d-%02d", rep.EmployeeID, rep.Year, int(rep.Month))

	switch r.URL.Query().Get("format") {
	case "", "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".xlsx"))
		if err := report.WriteXLSX(rep, w); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to render spreadsheet", err)
		}
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".pdf"))
		if err := report.WritePDF(rep, w); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to render PDF", err)
		}
	default:
		writeError(w, http.StatusBadRequest, "Unknown format, expected xlsx or pdf", nil)
	}
}

func (h *Handler) buildReport(w http.ResponseWriter, r *http.Request) (report.Report, bool) {
	id := chi.URLParam(r, "id")
	now := h.Clock()

	year := now.Year()
	month := now.Month()
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid 'year'", err)
			return report.Report{}, false
		}
		year = y
	}
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			writeError(w, http.StatusBadRequest, "Invalid 'month', expected 1-12", err)
			return report.Report{}, false
		}
		month = time.Month(m)
	}

	rep, err := h.Aggregator.MonthlyReport(r.Context(), id, year, month)
	if err != nil {
		if attendance.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Employee not found", err)
		} else {
			writeError(w, http.StatusInternalServerError, "Failed to build report", err)
		}
		return report.Report{}, false
	}
	return rep, true
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// TriggerSweep runs the auto-checkout sweep immediately.
func (h *Handler) TriggerSweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.Ledger.RunAutoCheckoutSweep(r.Context(), h.Clock())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Sweep failed", err)
		return
	}

	dto := SweepResultDTO{
		ClosedCount: len(result.Closed),
		Skipped:     result.Skipped,
		Closed:      make([]EventDTO, len(result.Closed)),
	}
	for i, ev := range result.Closed {
		dto.Closed[i] = toEventDTO(ev)
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeRecordError(w http.ResponseWriter, err error) {
	switch {
	case attendance.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Employee not found", err)
	case errors.Is(err, attendance.ErrInvalidActivity):
		writeError(w, http.StatusBadRequest, "Invalid activity type", err)
	case attendance.IsClientError(err):
		writeError(w, http.StatusConflict, "Recording rejected", err)
	default:
		writeError(w, http.StatusInternalServerError, "Failed to record activity", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
