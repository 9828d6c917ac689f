package entity

// Values of the attendance_records type column.
const (
	ClockIn  = "clock_in"
	ClockOut = "clock_out"
)
