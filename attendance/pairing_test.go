package attendance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmadesk/attendance-engine/attendance"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func checkInAt(employeeID string, ts time.Time) attendance.Event {
	return attendance.Event{
		ID:         "ci-" + ts.Format("150405"),
		EmployeeID: employeeID,
		Timestamp:  ts,
		Date:       attendance.DayOf(ts),
		Type:       attendance.CheckIn,
		Status:     attendance.StatusPresent,
	}
}

func checkOutAt(employeeID string, ts time.Time) attendance.Event {
	return attendance.Event{
		ID:         "co-" + ts.Format("150405"),
		EmployeeID: employeeID,
		Timestamp:  ts,
		Date:       attendance.DayOf(ts),
		Type:       attendance.CheckOut,
		Status:     attendance.StatusPresent,
	}
}

// =============================================================================
// PAIRING TESTS
// =============================================================================

func TestOpenCheckIns_UnpairedCheckInIsOpen(t *testing.T) {
	events := []attendance.Event{
		checkInAt("emp-1", at(8, 0)),
	}

	open := attendance.OpenCheckIns(events)
	require.Len(t, open, 1)
	assert.Equal(t, "emp-1", open[0].EmployeeID)
}

func TestOpenCheckIns_CheckOutClosesMostRecent(t *testing.T) {
	// GIVEN: Two check-ins followed by one check-out
	// THEN: The check-out closes the later check-in; the earlier stays open

	events := []attendance.Event{
		checkInAt("emp-1", at(8, 0)),
		checkInAt("emp-1", at(13, 0)),
		checkOutAt("emp-1", at(17, 0)),
	}

	open := attendance.OpenCheckIns(events)
	require.Len(t, open, 1)
	assert.True(t, open[0].Timestamp.Equal(at(8, 0)))
}

func TestOpenCheckIns_BalancedPairsLeaveNothingOpen(t *testing.T) {
	events := []attendance.Event{
		checkInAt("emp-1", at(8, 0)),
		checkOutAt("emp-1", at(12, 0)),
		checkInAt("emp-1", at(13, 0)),
		checkOutAt("emp-1", at(17, 0)),
	}

	assert.Empty(t, attendance.OpenCheckIns(events))
}

func TestOpenCheckIns_PairingIsPerEmployee(t *testing.T) {
	// GIVEN: emp-1 checked in and out; emp-2 only checked in
	// THEN: Only emp-2's check-in is open

	events := []attendance.Event{
		checkInAt("emp-1", at(8, 0)),
		checkInAt("emp-2", at(8, 5)),
		checkOutAt("emp-1", at(17, 0)),
	}

	open := attendance.OpenCheckIns(events)
	require.Len(t, open, 1)
	assert.Equal(t, "emp-2", open[0].EmployeeID)
}

func TestOpenCheckIns_CheckOutBeyondHorizonDoesNotPair(t *testing.T) {
	// GIVEN: A check-in and a check-out 25 hours later
	// THEN: They describe different sessions; the check-in stays open

	in := at(8, 0)
	events := []attendance.Event{
		checkInAt("emp-1", in),
		checkOutAt("emp-1", in.Add(25*time.Hour)),
	}

	open := attendance.OpenCheckIns(events)
	require.Len(t, open, 1)
	assert.True(t, open[0].Timestamp.Equal(in))
}

func TestOpenCheckIns_SystemCheckOutPairsBeyondHorizon(t *testing.T) {
	// GIVEN: A check-in and a system check-out 25 hours later
	// THEN: The system check-out closes the session regardless of age

	in := at(8, 0)
	out := checkOutAt("emp-1", in.Add(25*time.Hour))
	out.RecordedBy = "system"

	open := attendance.OpenCheckIns([]attendance.Event{
		checkInAt("emp-1", in),
		out,
	})
	assert.Empty(t, open)
}

func TestOpenCheckIns_InputOrderIrrelevant(t *testing.T) {
	// GIVEN: The same events delivered out of timestamp order
	// THEN: Pairing works on timestamps, not slice order

	events := []attendance.Event{
		checkOutAt("emp-1", at(17, 0)),
		checkInAt("emp-1", at(13, 0)),
		checkInAt("emp-1", at(8, 0)),
	}

	open := attendance.OpenCheckIns(events)
	require.Len(t, open, 1)
	assert.True(t, open[0].Timestamp.Equal(at(8, 0)))
}

func TestOpenCheckIn_ReturnsMostRecentForEmployee(t *testing.T) {
	events := []attendance.Event{
		checkInAt("emp-1", at(8, 0)),
		checkInAt("emp-1", at(13, 0)),
		checkInAt("emp-2", at(9, 0)),
	}

	open, ok := attendance.OpenCheckIn(events, "emp-1")
	require.True(t, ok)
	assert.True(t, open.Timestamp.Equal(at(13, 0)))

	_, ok = attendance.OpenCheckIn(events, "emp-3")
	assert.False(t, ok)
}
