// Package report renders monthly attendance reports and badge sheets
// into downloadable files.
package report

// Row is one user's monthly totals as they appear in the exports.
type Row struct {
	FullName      string
	Email         string
	FullDays      int
	HalfDays      int
	AbsentDays    int
	Holidays      int
	WeeklyOffs    int
	TotalHours    float64
	EffectiveDays float64
	AverageHours  float64
}

var columns = []string{
	"Employee",
	"Email",
	"Full Days",
	"Half Days",
	"Absent",
	"Holidays",
	"Weekly Off",
	"Total Hours",
	"Effective Days",
	"Avg Hours/Day",
}
