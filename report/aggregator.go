package report

import (
	"context"
	"fmt"
	"time"

	"github.com/pharmadesk/attendance-engine/attendance"
)

// =============================================================================
// AGGREGATOR - Store-backed report generation
// =============================================================================

// Aggregator loads one month of ledger events and folds them into a Report.
type Aggregator struct {
	store     attendance.Store
	directory attendance.Directory
}

func NewAggregator(store attendance.Store, directory attendance.Directory) *Aggregator {
	return &Aggregator{store: store, directory: directory}
}

// MonthlyReport resolves the employee and builds the month's report.
// A month with no events yields an empty report, not an error.
func (a *Aggregator) MonthlyReport(ctx context.Context, employeeID string, year int, month time.Month) (Report, error) {
	emp, err := a.directory.Find(ctx, employeeID)
	if err != nil {
		return Report{}, err
	}
	if emp == nil {
		return Report{}, fmt.Errorf("%w: %s", attendance.ErrEmployeeNotFound, employeeID)
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)

	events, err := a.store.LoadByEmployee(ctx, employeeID, from, to)
	if err != nil {
		return Report{}, err
	}

	return Build(*emp, year, month, events), nil
}
