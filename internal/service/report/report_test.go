package report

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

var testRows = []Row{
	{
		FullName:      "Asha Rao",
		Email:         "asha@acme.example",
		FullDays:      18,
		HalfDays:      3,
		AbsentDays:    1,
		Holidays:      2,
		WeeklyOffs:    7,
		TotalHours:    165,
		EffectiveDays: 19.5,
		AverageHours:  7.9,
	},
	{
		FullName:      "Vikram Shah",
		Email:         "vikram@acme.example",
		FullDays:      20,
		HalfDays:      0,
		AbsentDays:    2,
		Holidays:      2,
		WeeklyOffs:    7,
		TotalHours:    171.5,
		EffectiveDays: 20,
		AverageHours:  8.575,
	},
}

func TestBuildExcel(t *testing.T) {
	dir := t.TempDir()

	path, err := BuildExcel(testRows, "2026-08", dir)
	assert.NoError(t, err)

	f, err := excelize.OpenFile(path)
	assert.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Report", "A1")
	assert.NoError(t, err)
	assert.Equal(t, "Employee", header)

	name, err := f.GetCellValue("Report", "A2")
	assert.NoError(t, err)
	assert.Equal(t, "Asha Rao", name)

	effective, err := f.GetCellValue("Report", "I2")
	assert.NoError(t, err)
	assert.Equal(t, "19.5", effective)

	average, err := f.GetCellValue("Report", "J2")
	assert.NoError(t, err)
	assert.Equal(t, "7.9", average)
}

func TestBuildPDF(t *testing.T) {
	dir := t.TempDir()

	path, err := BuildPDF(testRows, "2026-08", dir)
	assert.NoError(t, err)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.True(t, len(data) > 0)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestBadgePNG(t *testing.T) {
	png, err := BadgePNG("TA-0001-9F2C")
	assert.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(png[:4]))
}

func TestBuildBadgeSheet(t *testing.T) {
	dir := t.TempDir()

	badges := []Badge{
		{FullName: "Asha Rao", Code: "TA-0001-9F2C"},
		{FullName: "Vikram Shah", Code: "TA-0002-11AB"},
	}

	path, err := BuildBadgeSheet(badges, dir)
	assert.NoError(t, err)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))

	// An empty team still yields a valid document.
	path, err = BuildBadgeSheet(nil, dir)
	assert.NoError(t, err)
	data, err = os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}
