package attendance

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/pkg/errors"

	"taskact/backend/foundation/web"
	"taskact/backend/internal/repository/postgres/attendance"
	"taskact/backend/internal/service/geofence"
	"taskact/backend/internal/service/report"
)

type Controller struct {
	attendance Attendance
	settings   Settings
	geocoder   Geocoder
	basePath   string
}

func NewController(attendance Attendance, settings Settings, geocoder Geocoder, basePath string) *Controller {
	return &Controller{attendance: attendance, settings: settings, geocoder: geocoder, basePath: basePath}
}

func (uc Controller) ClockIn(c *web.Context) error {
	var request attendance.ClockRequest
	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	result, err := uc.checkGeofence(c, &request)
	if err != nil {
		return c.RespondError(err)
	}

	response, err := uc.attendance.ClockIn(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	if result.DistanceMeters >= 0 {
		response.DistanceMeters = &result.DistanceMeters
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusCreated)
}

func (uc Controller) ClockOut(c *web.Context) error {
	var request attendance.ClockRequest
	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	result, err := uc.checkGeofence(c, &request)
	if err != nil {
		return c.RespondError(err)
	}

	response, err := uc.attendance.ClockOut(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	if result.DistanceMeters >= 0 {
		response.DistanceMeters = &result.DistanceMeters
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

// ClockInByBadge serves the kiosk. The kiosk sits inside the office, so
// badge taps skip the geofence.
func (uc Controller) ClockInByBadge(c *web.Context) error {
	var request attendance.BadgeClockRequest
	if err := c.BindFunc(&request, "BadgeCode"); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.attendance.ClockInByBadge(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetToday(c *web.Context) error {
	response, err := uc.attendance.GetToday(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   &response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetHistory(c *web.Context) error {
	var filter attendance.Filter

	if userId, ok := c.GetQueryFunc(reflect.Int, "user_id").(*int); ok {
		filter.UserID = userId
	}

	month, err := uc.monthParam(c)
	if err != nil {
		return c.RespondError(err)
	}
	filter.Month = &month

	list, count, err := uc.attendance.GetHistory(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": list,
			"count":   count,
		},
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetMonthlyReport(c *web.Context) error {
	var filter attendance.ReportFilter

	if userId, ok := c.GetQueryFunc(reflect.Int, "user_id").(*int); ok {
		filter.UserID = userId
	}

	month, err := uc.monthParam(c)
	if err != nil {
		return c.RespondError(err)
	}
	filter.Month = month

	response, err := uc.attendance.GetMonthlyReport(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) ExportMonthlyReport(c *web.Context) error {
	month, err := uc.monthParam(c)
	if err != nil {
		return c.RespondError(err)
	}

	format := c.Query("format")
	if format == "" {
		format = "excel"
	}
	if format != "excel" && format != "pdf" {
		return c.RespondError(web.NewRequestError(errors.New("format should be excel or pdf"), http.StatusBadRequest))
	}

	list, err := uc.attendance.GetTeamMonthlyReport(c.Ctx, month)
	if err != nil {
		return c.RespondError(err)
	}

	rows := make([]report.Row, 0, len(list))
	for _, item := range list {
		row := report.Row{
			FullDays:      item.Summary.FullDays,
			HalfDays:      item.Summary.HalfDays,
			AbsentDays:    item.Summary.AbsentDays,
			Holidays:      item.Summary.Holidays,
			WeeklyOffs:    item.Summary.WeeklyOffs,
			TotalHours:    item.Summary.TotalHours,
			EffectiveDays: item.Summary.EffectiveDays,
			AverageHours:  item.Summary.AverageHours,
		}
		if item.FullName != nil {
			row.FullName = *item.FullName
		}
		if item.Email != nil {
			row.Email = *item.Email
		}
		rows = append(rows, row)
	}

	dir := filepath.Join(uc.basePath, "reports")
	monthName := month.Format("2006-01")

	var path, contentType string
	switch format {
	case "pdf":
		path, err = report.BuildPDF(rows, monthName, dir)
		contentType = "application/pdf"
	default:
		path, err = report.BuildExcel(rows, monthName, dir)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if err != nil {
		return c.RespondError(err)
	}

	file, err := os.Open(path)
	if err != nil {
		return c.RespondError(err)
	}
	defer file.Close()

	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "attachment; filename=\""+filepath.Base(path)+"\"")
	c.Status(http.StatusOK)
	if _, err = io.Copy(c.Writer, file); err != nil {
		return c.RespondError(err)
	}

	return nil
}

func (uc Controller) Delete(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	err := uc.attendance.Delete(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

// checkGeofence loads the tenant fence and rejects coordinates outside
// it. On success the request gains its reverse geocoded address.
func (uc Controller) checkGeofence(c *web.Context, request *attendance.ClockRequest) (geofence.Result, error) {
	detail, err := uc.settings.GetSettings(c.Ctx)
	if err != nil {
		return geofence.Result{}, err
	}

	if detail.GeofenceEnabled && (request.Latitude == nil || request.Longitude == nil) {
		return geofence.Result{}, web.NewRequestError(errors.New("latitude and longitude are required"), http.StatusBadRequest)
	}

	result := geofence.Result{DistanceMeters: -1}

	if request.Latitude != nil && request.Longitude != nil {
		offices := make([]geofence.Office, 0, len(detail.Offices))
		for _, office := range detail.Offices {
			offices = append(offices, geofence.Office{
				Name:      office.Name,
				Latitude:  office.Latitude,
				Longitude: office.Longitude,
			})
		}

		point := geofence.Point{Latitude: *request.Latitude, Longitude: *request.Longitude}
		result = geofence.Validate(point, offices, detail.GeofenceEnabled, detail.RadiusMeters)

		if !result.Allowed {
			if result.DistanceMeters < 0 {
				return result, web.NewRequestError(errors.New("no office locations configured"), http.StatusForbidden)
			}
			return result, web.NewRequestError(errors.Errorf("outside the office geofence: %.0fm away, allowed %.0fm", result.DistanceMeters, detail.RadiusMeters), http.StatusForbidden)
		}

		if address := uc.geocoder.ReverseGeocode(c.Ctx, *request.Latitude, *request.Longitude); address != "" {
			request.Address = &address
		}
	}

	return result, nil
}

// monthParam reads the optional year and month query parameters,
// defaulting to the current month.
func (uc Controller) monthParam(c *web.Context) (date.Date, error) {
	now := time.Now()
	year, month := now.Year(), int(now.Month())

	if value, ok := c.GetQueryFunc(reflect.Int, "year").(*int); ok && value != nil {
		year = *value
	}
	if value, ok := c.GetQueryFunc(reflect.Int, "month").(*int); ok && value != nil {
		month = *value
	}
	if err := c.ValidQuery(); err != nil {
		return date.Date{}, err
	}

	if month < 1 || month > 12 {
		return date.Date{}, web.NewRequestError(errors.New("month must be between 1 and 12"), http.StatusBadRequest)
	}

	return date.Date{Time: time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)}, nil
}
