// Package workday classifies attendance days and aggregates them into
// monthly summaries. All functions are pure; the repositories feed them
// rows and tenant rules.
package workday

import (
	"time"
)

const (
	StatusFullDay   = "full_day"
	StatusHalfDay   = "half_day"
	StatusAbsent    = "absent"
	StatusHoliday   = "holiday"
	StatusWeeklyOff = "weekly_off"
)

// DefaultWorkingDays is Monday through Saturday. Index 0 is Monday.
var DefaultWorkingDays = []bool{true, true, true, true, true, true, false}

// Rules are the tenant thresholds for classifying a day. A completed
// session at or above FullDayHours counts as a full day, any shorter
// completed session as a half day.
type Rules struct {
	FullDayHours float64 `json:"full_day_hours"`
	WorkingDays  []bool  `json:"working_days"`
}

// DayIndex maps a date to the Monday-first weekday index 0..6.
func DayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// IsWorkingDay checks the weekday of day against the tenant working
// week. A malformed working week falls back to the default.
func IsWorkingDay(day time.Time, workingDays []bool) bool {
	if len(workingDays) != 7 {
		workingDays = DefaultWorkingDays
	}

	return workingDays[DayIndex(day)]
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Session is one day's paired clock events. ClockOut stays nil while
// the user is still clocked in.
type Session struct {
	ClockIn  *time.Time `json:"clock_in"`
	ClockOut *time.Time `json:"clock_out"`
}

func (s Session) Open() bool {
	return s.ClockIn != nil && s.ClockOut == nil
}

// Complete reports whether both clock events exist.
func (s Session) Complete() bool {
	return s.ClockIn != nil && s.ClockOut != nil
}

// Hours returns the worked hours of the session. An unpaired or
// inverted session counts as zero.
func (s Session) Hours() float64 {
	if !s.Complete() {
		return 0
	}

	worked := s.ClockOut.Sub(*s.ClockIn)
	if worked < 0 {
		return 0
	}

	return worked.Hours()
}

// Classify resolves the status of one day. Holidays win over the
// working week, the working week wins over worked hours, so work done
// on a holiday or weekly off never downgrades the day. A working day
// without a completed session is absent; an unmatched past clock in
// counts as absent too.
func Classify(day time.Time, holiday bool, rules Rules, session Session) string {
	if holiday {
		return StatusHoliday
	}
	if !IsWorkingDay(day, rules.WorkingDays) {
		return StatusWeeklyOff
	}
	if !session.Complete() {
		return StatusAbsent
	}

	if session.Hours() >= rules.FullDayHours {
		return StatusFullDay
	}

	return StatusHalfDay
}

// DayDetail is one classified day of a monthly report.
type DayDetail struct {
	Day    time.Time `json:"day"`
	Status string    `json:"status"`
	Hours  float64   `json:"hours"`
}

// Summary are the monthly totals. EffectiveDays counts a half day as
// one half of a full day; AverageHours divides the worked hours over
// the attended days.
type Summary struct {
	WorkingDays   int     `json:"working_days"`
	FullDays      int     `json:"full_days"`
	HalfDays      int     `json:"half_days"`
	AbsentDays    int     `json:"absent_days"`
	Holidays      int     `json:"holidays"`
	WeeklyOffs    int     `json:"weekly_offs"`
	TotalHours    float64 `json:"total_hours"`
	EffectiveDays float64 `json:"effective_days"`
	AverageHours  float64 `json:"average_hours_per_day"`
}

func Summarize(days []DayDetail) Summary {
	var summary Summary

	for _, day := range days {
		switch day.Status {
		case StatusFullDay:
			summary.FullDays++
		case StatusHalfDay:
			summary.HalfDays++
		case StatusAbsent:
			summary.AbsentDays++
		case StatusHoliday:
			summary.Holidays++
		case StatusWeeklyOff:
			summary.WeeklyOffs++
		}
		summary.TotalHours += day.Hours
	}

	summary.WorkingDays = summary.FullDays + summary.HalfDays + summary.AbsentDays
	summary.EffectiveDays = float64(summary.FullDays) + 0.5*float64(summary.HalfDays)

	attended := summary.FullDays + summary.HalfDays
	if attended < 1 {
		attended = 1
	}
	summary.AverageHours = summary.TotalHours / float64(attended)

	return summary
}
