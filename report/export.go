/*
export.go - XLSX and PDF rendering of monthly reports

PURPOSE:
  The back office prints monthly reports and hands spreadsheets to the
  accountant. Both renderings are projections of an already-built Report;
  no ledger access happens here.
*/
package report

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// XLSX EXPORT
// =============================================================================

var xlsxHeader = []string{"Date", "Check-in", "Check-out", "Late", "Hours"}

// WriteXLSX renders the report as a single-sheet workbook.
func WriteXLSX(r Report, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	f.SetCellValue(sheet, "A1", fmt.Sprintf("Monthly attendance - %s", r.Name))
	f.SetCellValue(sheet, "A2", fmt.Sprintf("%s %d", r.Month, r.Year))

	for col, title := range xlsxHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 4)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, title)
	}

	row := 5
	for _, day := range r.Attendances {
		late := ""
		if day.IsLate {
			late = "late"
		}
		worked, _ := day.Worked.Float64()
		values := []any{day.Date.Format("2006-01-02"), day.CheckIn, day.CheckOut, late, worked}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	row++
	total, _ := r.TotalHours.Float64()
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("Days present: %d", r.DaysPresent))
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("Late: %d", r.LateCount))
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("Leave: %d", r.LeaveCount))
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), fmt.Sprintf("Total hours: %.2f", total))

	return f.Write(w)
}

// =============================================================================
// PDF EXPORT
// =============================================================================

// WritePDF renders the report as a printable A4 page.
func WritePDF(r Report, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Monthly Attendance Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (%s)", r.Name, r.EmployeeID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s %d", r.Month, r.Year))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(35, 8, "Date", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 8, "Check-in", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 8, "Check-out", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 8, "Late", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 8, "Hours", "1", 1, "", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, day := range r.Attendances {
		late := ""
		if day.IsLate {
			late = "late"
		}
		worked, _ := day.Worked.Float64()
		pdf.CellFormat(35, 8, day.Date.Format("2006-01-02"), "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 8, day.CheckIn, "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 8, day.CheckOut, "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 8, late, "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%.2f", worked), "1", 1, "", false, 0, "")
	}

	pdf.Ln(6)
	total, _ := r.TotalHours.Float64()
	pdf.Cell(0, 8, fmt.Sprintf("Days present: %d    Late: %d    Leave: %d    Total hours: %.2f",
		r.DaysPresent, r.LateCount, r.LeaveCount, total))

	return pdf.Output(w)
}
