package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/pkg/errors"
)

var columnWidths = []float64{44, 56, 20, 20, 20, 20, 22, 24, 26, 25}

// BuildPDF writes the monthly team report as a pdf table under dir and
// returns its path.
func BuildPDF(rows []Row, month, dir string) (string, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("Attendance Report %s", month), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 9)
	for i, header := range columns {
		pdf.CellFormat(columnWidths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range rows {
		if pdf.GetY() > 180 {
			pdf.AddPage()
		}
		pdf.CellFormat(columnWidths[0], 8, row.FullName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(columnWidths[1], 8, row.Email, "1", 0, "L", false, 0, "")
		pdf.CellFormat(columnWidths[2], 8, fmt.Sprintf("%d", row.FullDays), "1", 0, "C", false, 0, "")
		pdf.CellFormat(columnWidths[3], 8, fmt.Sprintf("%d", row.HalfDays), "1", 0, "C", false, 0, "")
		pdf.CellFormat(columnWidths[4], 8, fmt.Sprintf("%d", row.AbsentDays), "1", 0, "C", false, 0, "")
		pdf.CellFormat(columnWidths[5], 8, fmt.Sprintf("%d", row.Holidays), "1", 0, "C", false, 0, "")
		pdf.CellFormat(columnWidths[6], 8, fmt.Sprintf("%d", row.WeeklyOffs), "1", 0, "C", false, 0, "")
		pdf.CellFormat(columnWidths[7], 8, fmt.Sprintf("%.1f", row.TotalHours), "1", 0, "C", false, 0, "")
		pdf.CellFormat(columnWidths[8], 8, fmt.Sprintf("%.1f", row.EffectiveDays), "1", 0, "C", false, 0, "")
		pdf.CellFormat(columnWidths[9], 8, fmt.Sprintf("%.1f", row.AverageHours), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", errors.Wrap(err, "creating report directory")
	}

	path := filepath.Join(dir, fmt.Sprintf("attendance_report_%s.pdf", month))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", errors.Wrap(err, "saving report pdf")
	}

	return path, nil
}
