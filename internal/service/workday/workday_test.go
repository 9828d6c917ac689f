package workday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testRules = Rules{
	FullDayHours: 8,
	WorkingDays:  []bool{true, true, true, true, true, false, false},
}

func day(value string) time.Time {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return d
}

func at(value string) *time.Time {
	t, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		panic(err)
	}
	return &t
}

func sess(in, out string) Session {
	return Session{ClockIn: at(in), ClockOut: at(out)}
}

func TestDayIndex(t *testing.T) {
	assert.Equal(t, 0, DayIndex(day("2026-08-24"))) // Monday
	assert.Equal(t, 4, DayIndex(day("2026-08-28"))) // Friday
	assert.Equal(t, 5, DayIndex(day("2026-08-29"))) // Saturday
	assert.Equal(t, 6, DayIndex(day("2026-08-30"))) // Sunday
}

func TestIsWorkingDay(t *testing.T) {
	assert.True(t, IsWorkingDay(day("2026-08-24"), testRules.WorkingDays))
	assert.False(t, IsWorkingDay(day("2026-08-29"), testRules.WorkingDays))

	// Malformed working week falls back to the six day default.
	assert.True(t, IsWorkingDay(day("2026-08-24"), nil))
	assert.True(t, IsWorkingDay(day("2026-08-29"), nil))
	assert.False(t, IsWorkingDay(day("2026-08-30"), []bool{true, true}))
}

func TestSessionHours(t *testing.T) {
	t.Run("Paired Session", func(t *testing.T) {
		session := sess("2026-08-24 09:00", "2026-08-24 17:30")
		assert.Equal(t, 8.5, session.Hours())
		assert.True(t, session.Complete())
		assert.False(t, session.Open())
	})

	t.Run("Open Session", func(t *testing.T) {
		session := Session{ClockIn: at("2026-08-24 09:00")}
		assert.Equal(t, 0.0, session.Hours())
		assert.True(t, session.Open())
		assert.False(t, session.Complete())
	})

	t.Run("Inverted Session", func(t *testing.T) {
		session := sess("2026-08-24 17:00", "2026-08-24 09:00")
		assert.Equal(t, 0.0, session.Hours())
	})

	t.Run("Empty Session", func(t *testing.T) {
		assert.Equal(t, 0.0, Session{}.Hours())
		assert.False(t, Session{}.Open())
		assert.False(t, Session{}.Complete())
	})
}

func TestClassify(t *testing.T) {
	monday := day("2026-08-24")
	saturday := day("2026-08-29")

	t.Run("Full Day", func(t *testing.T) {
		assert.Equal(t, StatusFullDay, Classify(monday, false, testRules, sess("2026-08-24 09:00", "2026-08-24 17:30")))
	})

	t.Run("Exactly Full Threshold", func(t *testing.T) {
		assert.Equal(t, StatusFullDay, Classify(monday, false, testRules, sess("2026-08-24 09:00", "2026-08-24 17:00")))
	})

	t.Run("Short Pair Is Half Day", func(t *testing.T) {
		assert.Equal(t, StatusHalfDay, Classify(monday, false, testRules, sess("2026-08-24 09:00", "2026-08-24 13:00")))
	})

	t.Run("Minutes Still Count As Half Day", func(t *testing.T) {
		assert.Equal(t, StatusHalfDay, Classify(monday, false, testRules, sess("2026-08-24 09:00", "2026-08-24 09:10")))
	})

	t.Run("No Activity Is Absent", func(t *testing.T) {
		assert.Equal(t, StatusAbsent, Classify(monday, false, testRules, Session{}))
	})

	t.Run("Unpaired Clock In Is Absent", func(t *testing.T) {
		assert.Equal(t, StatusAbsent, Classify(monday, false, testRules, Session{ClockIn: at("2026-08-24 09:00")}))
	})

	t.Run("Weekly Off", func(t *testing.T) {
		assert.Equal(t, StatusWeeklyOff, Classify(saturday, false, testRules, Session{}))
	})

	t.Run("Work On Weekly Off Stays Weekly Off", func(t *testing.T) {
		assert.Equal(t, StatusWeeklyOff, Classify(saturday, false, testRules, sess("2026-08-29 08:00", "2026-08-29 17:00")))
	})

	t.Run("Holiday Wins Over Everything", func(t *testing.T) {
		assert.Equal(t, StatusHoliday, Classify(monday, true, testRules, sess("2026-08-24 08:00", "2026-08-24 17:00")))
		assert.Equal(t, StatusHoliday, Classify(saturday, true, testRules, Session{}))
	})
}

func TestSummarize(t *testing.T) {
	var days []DayDetail
	add := func(status string, hours float64, count int) {
		for i := 0; i < count; i++ {
			days = append(days, DayDetail{Status: status, Hours: hours})
		}
	}

	add(StatusFullDay, 8.5, 18)
	add(StatusHalfDay, 4, 3)
	add(StatusAbsent, 0, 1)
	add(StatusHoliday, 0, 2)
	add(StatusWeeklyOff, 0, 7)

	summary := Summarize(days)

	assert.Equal(t, 18, summary.FullDays)
	assert.Equal(t, 3, summary.HalfDays)
	assert.Equal(t, 1, summary.AbsentDays)
	assert.Equal(t, 2, summary.Holidays)
	assert.Equal(t, 7, summary.WeeklyOffs)
	assert.Equal(t, 22, summary.WorkingDays)
	assert.Equal(t, 19.5, summary.EffectiveDays)
	assert.InDelta(t, 165, summary.TotalHours, 0.01)
	assert.InDelta(t, 165.0/21, summary.AverageHours, 0.01)

	assert.Equal(t, Summary{}, Summarize(nil))
}
