package attendance

import (
	"encoding/json"
	"time"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/uptrace/bun"

	"taskact/backend/internal/service/workday"
)

type Filter struct {
	UserID *int
	Month  *date.Date
}

type ClockRequest struct {
	Latitude   *float64 `json:"latitude" form:"latitude"`
	Longitude  *float64 `json:"longitude" form:"longitude"`
	DeviceInfo *string  `json:"device_info" form:"device_info"`

	// Address is resolved server side, never taken from the client.
	Address *string `json:"-" form:"-"`
}

type BadgeClockRequest struct {
	BadgeCode  *string  `json:"badge_code" form:"badge_code"`
	Latitude   *float64 `json:"latitude" form:"latitude"`
	Longitude  *float64 `json:"longitude" form:"longitude"`
	DeviceInfo *string  `json:"device_info" form:"device_info"`
}

type ClockResponse struct {
	bun.BaseModel `bun:"table:attendance_records"`

	ID             int       `json:"id" bun:"-"`
	TenantID       int       `json:"-" bun:"tenant_id"`
	UserID         int       `json:"user_id" bun:"user_id"`
	FullName       *string   `json:"full_name,omitempty" bun:"-"`
	Type           string    `json:"type" bun:"type"`
	WorkDay        string    `json:"work_day" bun:"work_day"`
	RecordedAt     time.Time `json:"recorded_at" bun:"recorded_at"`
	Latitude       *float64  `json:"latitude,omitempty" bun:"latitude"`
	Longitude      *float64  `json:"longitude,omitempty" bun:"longitude"`
	Address        *string   `json:"address,omitempty" bun:"address"`
	DeviceInfo     *string   `json:"-" bun:"device_info"`
	DistanceMeters *float64  `json:"distance_meters,omitempty" bun:"-"`
	WorkedHours    *float64  `json:"worked_hours,omitempty" bun:"-"`
	CreatedAt      time.Time `json:"-" bun:"created_at"`
	CreatedBy      int       `json:"-" bun:"created_by"`
}

type TodayResponse struct {
	WorkDay   *date.Date `json:"work_day"`
	ClockedIn bool       `json:"clocked_in"`
	ClockIn   *time.Time `json:"clock_in"`
	ClockOut  *time.Time `json:"clock_out"`
	Hours     float64    `json:"hours"`
	Address   *string    `json:"address,omitempty"`
}

func (r *TodayResponse) MarshalJSON() ([]byte, error) {
	type Alias TodayResponse
	aux := &struct {
		ClockIn  string `json:"clock_in,omitempty"`
		ClockOut string `json:"clock_out,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(r),
	}

	if r.ClockIn != nil {
		aux.ClockIn = r.ClockIn.Format("15:04")
	}

	if r.ClockOut != nil {
		aux.ClockOut = r.ClockOut.Format("15:04")
	}

	return json.Marshal(aux)
}

type HistoryResponse struct {
	WorkDay  *date.Date `json:"work_day"`
	ClockIn  *time.Time `json:"clock_in"`
	ClockOut *time.Time `json:"clock_out"`
	Hours    float64    `json:"hours"`
	Address  *string    `json:"address,omitempty"`
}

func (r *HistoryResponse) MarshalJSON() ([]byte, error) {
	type Alias HistoryResponse
	aux := &struct {
		ClockIn  string `json:"clock_in,omitempty"`
		ClockOut string `json:"clock_out,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(r),
	}

	if r.ClockIn != nil {
		aux.ClockIn = r.ClockIn.Format("15:04")
	}

	if r.ClockOut != nil {
		aux.ClockOut = r.ClockOut.Format("15:04")
	}

	return json.Marshal(aux)
}

type ReportFilter struct {
	Month  date.Date
	UserID *int
}

type DayResponse struct {
	Day    *date.Date `json:"day"`
	Status string     `json:"status"`
	Hours  float64    `json:"hours"`
}

type ReportResponse struct {
	UserID   int             `json:"user_id"`
	FullName *string         `json:"full_name"`
	Email    *string         `json:"email"`
	Month    string          `json:"month"`
	Summary  workday.Summary `json:"summary"`
	Days     []DayResponse   `json:"days"`
}

// TeamReportRow is one user's monthly totals inside the tenant wide
// report and its exports.
type TeamReportRow struct {
	UserID   int             `json:"user_id"`
	FullName *string         `json:"full_name"`
	Email    *string         `json:"email"`
	Summary  workday.Summary `json:"summary"`
}
