package attendance

import (
	"context"

	"github.com/Azure/go-autorest/autorest/date"

	"taskact/backend/internal/repository/postgres/attendance"
	"taskact/backend/internal/repository/postgres/settings"
)

type Attendance interface {
	ClockIn(ctx context.Context, request attendance.ClockRequest) (attendance.ClockResponse, error)
	ClockOut(ctx context.Context, request attendance.ClockRequest) (attendance.ClockResponse, error)
	ClockInByBadge(ctx context.Context, request attendance.BadgeClockRequest) (attendance.ClockResponse, error)
	GetToday(ctx context.Context) (attendance.TodayResponse, error)
	GetHistory(ctx context.Context, filter attendance.Filter) ([]attendance.HistoryResponse, int, error)
	GetMonthlyReport(ctx context.Context, filter attendance.ReportFilter) (attendance.ReportResponse, error)
	GetTeamMonthlyReport(ctx context.Context, month date.Date) ([]attendance.TeamReportRow, error)
	Delete(ctx context.Context, id int) error
}

type Settings interface {
	GetSettings(ctx context.Context) (settings.GetSettingsResponse, error)
}

type Geocoder interface {
	ReverseGeocode(ctx context.Context, latitude, longitude float64) string
}
