package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmadesk/attendance-engine/api"
	"github.com/pharmadesk/attendance-engine/attendance"
	"github.com/pharmadesk/attendance-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// newTestServer wires a full handler over an in-memory database with a
// frozen clock at 2025-03-10 10:00 local.
func newTestServer(t *testing.T) (*httptest.Server, *api.Handler) {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := api.NewHandler(store, attendance.DefaultConfig())
	h.Clock = func() time.Time {
		return time.Date(2025, time.March, 10, 10, 0, 0, 0, time.Local)
	}

	srv := httptest.NewServer(api.NewRouter(h))
	t.Cleanup(srv.Close)
	return srv, h
}

func createEmployee(t *testing.T, srv *httptest.Server, id, name string) {
	t.Helper()
	body := fmt.Sprintf(`{"id":%q,"name":%q,"department":"Pharmacy","position":"Pharmacist","work_start":"08:00","work_end":"17:00"}`, id, name)
	resp, err := http.Post(srv.URL+"/api/employees", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func recordActivity(t *testing.T, srv *httptest.Server, id, activity string, at time.Time) *http.Response {
	t.Helper()
	body := fmt.Sprintf(`{"activity":%q,"at":%q}`, activity, at.Format(time.RFC3339))
	resp, err := http.Post(srv.URL+"/api/employees/"+id+"/activity", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func morning(hour, min int) time.Time {
	return time.Date(2025, time.March, 10, hour, min, 0, 0, time.Local)
}

// =============================================================================
// EMPLOYEE ENDPOINT TESTS
// =============================================================================

func TestAPI_CreateAndGetEmployee(t *testing.T) {
	srv, _ := newTestServer(t)
	createEmployee(t, srv, "emp-1", "Sarah Kim")

	resp, err := http.Get(srv.URL + "/api/employees/emp-1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	emp := decode[api.EmployeeDTO](t, resp)
	assert.Equal(t, "Sarah Kim", emp.Name)
	assert.Equal(t, "08:00", emp.WorkStart)
}

func TestAPI_GetEmployee_Unknown_404(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/employees/ghost")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_CreateEmployee_BadWorkHours_400(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"id":"emp-1","name":"Sarah Kim","work_start":"late-ish","work_end":"17:00"}`
	resp, err := http.Post(srv.URL+"/api/employees", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// ACTIVITY ENDPOINT TESTS
// =============================================================================

func TestAPI_RecordActivity_CheckInLate(t *testing.T) {
	// GIVEN: Start time 08:00
	// WHEN: Checking in at 10:00 via the API
	// THEN: 201 with a late event

	srv, _ := newTestServer(t)
	createEmployee(t, srv, "emp-1", "Sarah Kim")

	resp := recordActivity(t, srv, "emp-1", "check-in", morning(10, 0))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	ev := decode[api.EventDTO](t, resp)
	assert.Equal(t, "check-in", ev.Activity)
	assert.Equal(t, "late", ev.Status)
	assert.Equal(t, "scan", ev.RecordedBy)
	assert.Equal(t, "2025-03-10", ev.Date)
}

func TestAPI_RecordActivity_ErrorStatusMapping(t *testing.T) {
	// Unknown employee -> 404, duplicate check-in -> 409,
	// checkout with nothing open -> 409, bad activity -> 400.

	srv, _ := newTestServer(t)
	createEmployee(t, srv, "emp-1", "Sarah Kim")

	resp := recordActivity(t, srv, "ghost", "check-in", morning(8, 0))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = recordActivity(t, srv, "emp-1", "check-in", morning(8, 0))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = recordActivity(t, srv, "emp-1", "check-in", morning(8, 30))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	errResp := decode[api.ErrorResponse](t, resp)
	assert.Equal(t, "Recording rejected", errResp.Error)

	resp = recordActivity(t, srv, "emp-1", "lunch", morning(12, 0))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_RecordActivity_CheckOutWithoutCheckIn_409(t *testing.T) {
	srv, _ := newTestServer(t)
	createEmployee(t, srv, "emp-1", "Sarah Kim")

	resp := recordActivity(t, srv, "emp-1", "check-out", morning(17, 0))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAPI_ListEvents(t *testing.T) {
	srv, _ := newTestServer(t)
	createEmployee(t, srv, "emp-1", "Sarah Kim")

	recordActivity(t, srv, "emp-1", "check-in", morning(8, 0)).Body.Close()
	recordActivity(t, srv, "emp-1", "check-out", morning(17, 0)).Body.Close()

	resp, err := http.Get(srv.URL + "/api/employees/emp-1/events")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	events := decode[[]api.EventDTO](t, resp)
	require.Len(t, events, 2)
	assert.Equal(t, "check-in", events[0].Activity, "oldest first")
	assert.Equal(t, "check-out", events[1].Activity)
}

// =============================================================================
// SUMMARY AND REPORT ENDPOINT TESTS
// =============================================================================

func TestAPI_DaySummary(t *testing.T) {
	srv, _ := newTestServer(t)
	createEmployee(t, srv, "emp-1", "Sarah Kim")
	createEmployee(t, srv, "emp-2", "Marcus Ola")

	recordActivity(t, srv, "emp-1", "check-in", morning(8, 0)).Body.Close()
	recordActivity(t, srv, "emp-2", "leave", morning(8, 0)).Body.Close()

	resp, err := http.Get(srv.URL + "/api/attendance/summary?date=2025-03-10")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	summary := decode[api.DaySummaryDTO](t, resp)
	assert.Equal(t, "2025-03-10", summary.Date)
	assert.Equal(t, 1, summary.PresentCount)
	assert.Equal(t, 1, summary.AbsentCount, "leave counts as absent")
	assert.Equal(t, 1, summary.LeaveCount)
}

func TestAPI_MonthlyReport(t *testing.T) {
	srv, _ := newTestServer(t)
	createEmployee(t, srv, "emp-1", "Sarah Kim")

	recordActivity(t, srv, "emp-1", "check-in", morning(8, 0)).Body.Close()
	recordActivity(t, srv, "emp-1", "check-out", morning(17, 0)).Body.Close()

	resp, err := http.Get(srv.URL + "/api/employees/emp-1/report?year=2025&month=3")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rep := decode[api.ReportDTO](t, resp)
	assert.Equal(t, 2025, rep.Year)
	assert.Equal(t, 3, rep.Month)
	assert.Equal(t, 1, rep.DaysPresent)
	require.Len(t, rep.Attendances, 1)
	assert.Equal(t, "08:00", rep.Attendances[0].CheckIn)
	assert.Equal(t, "17:00", rep.Attendances[0].CheckOut)
	assert.InDelta(t, 9.0, rep.TotalHours, 0.001)
}

func TestAPI_MonthlyReport_EmptyMonthIsOK(t *testing.T) {
	srv, _ := newTestServer(t)
	createEmployee(t, srv, "emp-1", "Sarah Kim")

	resp, err := http.Get(srv.URL + "/api/employees/emp-1/report?year=2025&month=1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rep := decode[api.ReportDTO](t, resp)
	assert.Equal(t, 0, rep.DaysPresent)
	assert.Empty(t, rep.Attendances)
}

func TestAPI_MonthlyReport_BadMonth_400(t *testing.T) {
	srv, _ := newTestServer(t)
	createEmployee(t, srv, "emp-1", "Sarah Kim")

	resp, err := http.Get(srv.URL + "/api/employees/emp-1/report?year=2025&month=13")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_ExportReport_XLSXAndPDF(t *testing.T) {
	srv, _ := newTestServer(t)
	createEmployee(t, srv, "emp-1", "Sarah Kim")
	recordActivity(t, srv, "emp-1", "check-in", morning(8, 0)).Body.Close()

	resp, err := http.Get(srv.URL + "/api/employees/emp-1/report/export?year=2025&month=3&format=xlsx")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")

	resp, err = http.Get(srv.URL + "/api/employees/emp-1/report/export?year=2025&month=3&format=pdf")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}

// =============================================================================
// ADMIN ENDPOINT TESTS
// =============================================================================

func TestAPI_TriggerSweep(t *testing.T) {
	// GIVEN: Check-in at 08:00, server clock frozen at 10:00, threshold 1h
	// WHEN: POSTing the sweep endpoint
	// THEN: The open check-in is force-closed by a system check-out

	srv, _ := newTestServer(t)
	createEmployee(t, srv, "emp-1", "Sarah Kim")
	recordActivity(t, srv, "emp-1", "check-in", morning(8, 0)).Body.Close()

	resp, err := http.Post(srv.URL+"/api/admin/sweep", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decode[api.SweepResultDTO](t, resp)
	assert.Equal(t, 1, result.ClosedCount)
	require.Len(t, result.Closed, 1)
	assert.Equal(t, "system", result.Closed[0].RecordedBy)

	// Running again changes nothing.
	resp, err = http.Post(srv.URL+"/api/admin/sweep", "application/json", nil)
	require.NoError(t, err)
	result = decode[api.SweepResultDTO](t, resp)
	assert.Equal(t, 0, result.ClosedCount)
}
