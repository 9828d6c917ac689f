package attendance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"taskact/backend/foundation/web"
	"taskact/backend/internal/repository/postgres/attendance"
	"taskact/backend/internal/repository/postgres/settings"
)

type attendanceStub struct {
	response attendance.ClockResponse
	err      error
	report   attendance.ReportResponse
	team     []attendance.TeamReportRow
	captured attendance.ClockRequest
}

func (s *attendanceStub) ClockIn(ctx context.Context, request attendance.ClockRequest) (attendance.ClockResponse, error) {
	s.captured = request
	return s.response, s.err
}

func (s *attendanceStub) ClockOut(ctx context.Context, request attendance.ClockRequest) (attendance.ClockResponse, error) {
	s.captured = request
	return s.response, s.err
}

func (s *attendanceStub) ClockInByBadge(ctx context.Context, request attendance.BadgeClockRequest) (attendance.ClockResponse, error) {
	return s.response, s.err
}

func (s *attendanceStub) GetToday(ctx context.Context) (attendance.TodayResponse, error) {
	return attendance.TodayResponse{}, s.err
}

func (s *attendanceStub) GetHistory(ctx context.Context, filter attendance.Filter) ([]attendance.HistoryResponse, int, error) {
	return nil, 0, s.err
}

func (s *attendanceStub) GetMonthlyReport(ctx context.Context, filter attendance.ReportFilter) (attendance.ReportResponse, error) {
	return s.report, s.err
}

func (s *attendanceStub) GetTeamMonthlyReport(ctx context.Context, month date.Date) ([]attendance.TeamReportRow, error) {
	return s.team, s.err
}

func (s *attendanceStub) Delete(ctx context.Context, id int) error {
	return s.err
}

type settingsStub struct {
	detail settings.GetSettingsResponse
	err    error
}

func (s *settingsStub) GetSettings(ctx context.Context) (settings.GetSettingsResponse, error) {
	return s.detail, s.err
}

type geocoderStub struct {
	address string
	called  bool
}

func (g *geocoderStub) ReverseGeocode(ctx context.Context, latitude, longitude float64) string {
	g.called = true
	return g.address
}

func newTestApp(t *testing.T, att *attendanceStub, set *settingsStub, geo *geocoderStub) *web.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := web.NewApp(web.Config{})
	controller := NewController(att, set, geo, t.TempDir())

	app.Post("/api/v1/attendance/clock-in", controller.ClockIn)
	app.Post("/api/v1/attendance/clock-out", controller.ClockOut)
	app.Post("/api/v1/attendance/clock-in/badge", controller.ClockInByBadge)
	app.Get("/api/v1/attendance/report", controller.GetMonthlyReport)
	app.Get("/api/v1/attendance/report/export", controller.ExportMonthlyReport)

	return app
}

func performRequest(app *web.App, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

func mumbaiOffice() settings.GetSettingsResponse {
	return settings.GetSettingsResponse{
		GeofenceEnabled: true,
		RadiusMeters:    100,
		Offices: []settings.OfficeResponse{
			{Name: "HQ", Latitude: 19.0760, Longitude: 72.8777},
		},
	}
}

func TestClockIn(t *testing.T) {
	t.Run("Inside Geofence Responds Created", func(t *testing.T) {
		att := &attendanceStub{response: attendance.ClockResponse{UserID: 7, Type: "clock_in", WorkDay: "2026-08-24"}}
		geo := &geocoderStub{address: "Fort, Mumbai, Maharashtra, India"}
		app := newTestApp(t, att, &settingsStub{detail: mumbaiOffice()}, geo)

		w := performRequest(app, http.MethodPost, "/api/v1/attendance/clock-in", `{"latitude":19.0760,"longitude":72.8777,"device_info":"android"}`)
		assert.Equal(t, http.StatusCreated, w.Code)

		var body struct {
			Data struct {
				Type           string   `json:"type"`
				DistanceMeters *float64 `json:"distance_meters"`
			} `json:"data"`
			Status bool `json:"status"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Status)
		assert.Equal(t, "clock_in", body.Data.Type)
		if assert.NotNil(t, body.Data.DistanceMeters) {
			assert.InDelta(t, 0, *body.Data.DistanceMeters, 1)
		}

		assert.True(t, geo.called)
		if assert.NotNil(t, att.captured.Address) {
			assert.Equal(t, "Fort, Mumbai, Maharashtra, India", *att.captured.Address)
		}
	})

	t.Run("Outside Geofence Responds Forbidden", func(t *testing.T) {
		att := &attendanceStub{}
		app := newTestApp(t, att, &settingsStub{detail: mumbaiOffice()}, &geocoderStub{})

		// Roughly one kilometre north of the office.
		w := performRequest(app, http.MethodPost, "/api/v1/attendance/clock-in", `{"latitude":19.0850,"longitude":72.8777}`)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "outside the office geofence")
	})

	t.Run("Enabled Geofence Requires Coordinates", func(t *testing.T) {
		app := newTestApp(t, &attendanceStub{}, &settingsStub{detail: mumbaiOffice()}, &geocoderStub{})

		w := performRequest(app, http.MethodPost, "/api/v1/attendance/clock-in", `{"device_info":"android"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "latitude and longitude are required")
	})

	t.Run("Enabled Geofence Without Offices Fails Closed", func(t *testing.T) {
		detail := settings.GetSettingsResponse{GeofenceEnabled: true, RadiusMeters: 100}
		app := newTestApp(t, &attendanceStub{}, &settingsStub{detail: detail}, &geocoderStub{})

		w := performRequest(app, http.MethodPost, "/api/v1/attendance/clock-in", `{"latitude":19.0760,"longitude":72.8777}`)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "no office locations configured")
	})

	t.Run("Disabled Geofence Allows Missing Coordinates", func(t *testing.T) {
		att := &attendanceStub{response: attendance.ClockResponse{Type: "clock_in"}}
		geo := &geocoderStub{address: "unused"}
		app := newTestApp(t, att, &settingsStub{}, geo)

		w := performRequest(app, http.MethodPost, "/api/v1/attendance/clock-in", `{"device_info":"kiosk tablet"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.False(t, geo.called)
		assert.Nil(t, att.captured.Address)
	})

	t.Run("Second Clock In Conflicts", func(t *testing.T) {
		att := &attendanceStub{err: web.NewRequestError(errors.New("already clocked in today"), http.StatusConflict)}
		app := newTestApp(t, att, &settingsStub{}, &geocoderStub{})

		w := performRequest(app, http.MethodPost, "/api/v1/attendance/clock-in", `{"latitude":19.0760,"longitude":72.8777}`)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "already clocked in today")
	})
}

func TestClockOut(t *testing.T) {
	t.Run("Without Open Clock In Conflicts", func(t *testing.T) {
		att := &attendanceStub{err: web.NewRequestError(errors.New("not clocked in today"), http.StatusConflict)}
		app := newTestApp(t, att, &settingsStub{}, &geocoderStub{})

		w := performRequest(app, http.MethodPost, "/api/v1/attendance/clock-out", `{"latitude":19.0760,"longitude":72.8777}`)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "not clocked in today")
	})

	t.Run("Responds With Worked Hours", func(t *testing.T) {
		hours := 8.5
		att := &attendanceStub{response: attendance.ClockResponse{Type: "clock_out", WorkedHours: &hours}}
		app := newTestApp(t, att, &settingsStub{detail: mumbaiOffice()}, &geocoderStub{})

		w := performRequest(app, http.MethodPost, "/api/v1/attendance/clock-out", `{"latitude":19.0760,"longitude":72.8777}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"worked_hours":8.5`)
	})
}

func TestClockInByBadge(t *testing.T) {
	t.Run("Badge Code Is Required", func(t *testing.T) {
		app := newTestApp(t, &attendanceStub{}, &settingsStub{}, &geocoderStub{})

		w := performRequest(app, http.MethodPost, "/api/v1/attendance/clock-in/badge", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "BadgeCode")
	})

	t.Run("Skips Geofence", func(t *testing.T) {
		att := &attendanceStub{response: attendance.ClockResponse{Type: "clock_in"}}
		geo := &geocoderStub{}
		// No offices configured; a badge tap still goes through.
		app := newTestApp(t, att, &settingsStub{detail: settings.GetSettingsResponse{GeofenceEnabled: true, RadiusMeters: 100}}, geo)

		w := performRequest(app, http.MethodPost, "/api/v1/attendance/clock-in/badge", `{"badge_code":"TA-0002-B22E"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, geo.called)
	})
}

func TestGetMonthlyReport(t *testing.T) {
	t.Run("Responds Report Envelope", func(t *testing.T) {
		name := "Asha Rao"
		att := &attendanceStub{report: attendance.ReportResponse{UserID: 7, FullName: &name, Month: "2026-08"}}
		app := newTestApp(t, att, &settingsStub{}, &geocoderStub{})

		w := performRequest(app, http.MethodGet, "/api/v1/attendance/report?year=2026&month=8", "")
		assert.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data struct {
				UserID int    `json:"user_id"`
				Month  string `json:"month"`
			} `json:"data"`
			Status bool `json:"status"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Status)
		assert.Equal(t, 7, body.Data.UserID)
		assert.Equal(t, "2026-08", body.Data.Month)
	})

	t.Run("Rejects Month Out Of Range", func(t *testing.T) {
		app := newTestApp(t, &attendanceStub{}, &settingsStub{}, &geocoderStub{})

		w := performRequest(app, http.MethodGet, "/api/v1/attendance/report?year=2026&month=13", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "month must be between 1 and 12")
	})

	t.Run("Rejects Non Numeric User Id", func(t *testing.T) {
		app := newTestApp(t, &attendanceStub{}, &settingsStub{}, &geocoderStub{})

		w := performRequest(app, http.MethodGet, "/api/v1/attendance/report?user_id=abc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestExportMonthlyReport(t *testing.T) {
	t.Run("Excel Download", func(t *testing.T) {
		name := "Asha Rao"
		att := &attendanceStub{team: []attendance.TeamReportRow{{UserID: 7, FullName: &name}}}
		app := newTestApp(t, att, &settingsStub{}, &geocoderStub{})

		w := performRequest(app, http.MethodGet, "/api/v1/attendance/report/export?year=2026&month=8", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attendance_report_2026-08")
		// xlsx is a zip container.
		assert.True(t, strings.HasPrefix(w.Body.String(), "PK"))
	})

	t.Run("Pdf Download", func(t *testing.T) {
		att := &attendanceStub{team: []attendance.TeamReportRow{}}
		app := newTestApp(t, att, &settingsStub{}, &geocoderStub{})

		w := performRequest(app, http.MethodGet, "/api/v1/attendance/report/export?year=2026&month=8&format=pdf", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
	})

	t.Run("Rejects Unknown Format", func(t *testing.T) {
		app := newTestApp(t, &attendanceStub{}, &settingsStub{}, &geocoderStub{})

		w := performRequest(app, http.MethodGet, "/api/v1/attendance/report/export?format=csv", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "format should be excel or pdf")
	})
}
