package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// BuildExcel writes the monthly team report as an xlsx file under dir
// and returns its path.
func BuildExcel(rows []Row, month, dir string) (string, error) {
	f := excelize.NewFile()
	sheet := "Report"
	f.SetSheetName("Sheet1", sheet)

	for i, header := range columns {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, header)
	}

	rowNum := 2
	for _, row := range rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), row.FullName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), row.Email)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), row.FullDays)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), row.HalfDays)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), row.AbsentDays)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), row.Holidays)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", rowNum), row.WeeklyOffs)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", rowNum), row.TotalHours)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", rowNum), row.EffectiveDays)
		f.SetCellValue(sheet, fmt.Sprintf("J%d", rowNum), row.AverageHours)
		rowNum++
	}

	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", errors.Wrap(err, "creating report directory")
	}

	path := filepath.Join(dir, fmt.Sprintf("attendance_report_%s.xlsx", month))
	if err := f.SaveAs(path); err != nil {
		return "", errors.Wrap(err, "saving report excel")
	}

	return path, nil
}
