package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/pkg/errors"
	"github.com/uptrace/bun/driver/pgdriver"

	"taskact/backend/foundation/web"
	"taskact/backend/internal/auth"
	"taskact/backend/internal/entity"
	"taskact/backend/internal/pkg/repository/postgresql"
	"taskact/backend/internal/repository/postgres"
	"taskact/backend/internal/service/workday"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

var defaultRules = workday.Rules{
	FullDayHours: 8,
	WorkingDays:  workday.DefaultWorkingDays,
}

// ClockIn records the opening event of today's session. The partial
// unique index on (user_id, work_day, type) makes a second clock in on
// the same day fail atomically, so concurrent requests cannot both win.
func (r Repository) ClockIn(ctx context.Context, request ClockRequest) (ClockResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleEmployee, auth.RolePartner, auth.RoleSuperAdmin)
	if err != nil {
		return ClockResponse{}, err
	}

	now := time.Now()

	var response ClockResponse

	response.TenantID = claims.TenantId
	response.UserID = claims.UserId
	response.Type = entity.ClockIn
	response.WorkDay = now.Format("2006-01-02")
	response.RecordedAt = now
	response.Latitude = request.Latitude
	response.Longitude = request.Longitude
	response.Address = request.Address
	response.DeviceInfo = request.DeviceInfo
	response.CreatedAt = now
	response.CreatedBy = claims.UserId

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			return ClockResponse{}, web.NewRequestError(errors.New("already clocked in today"), http.StatusConflict)
		}
		return ClockResponse{}, web.NewRequestError(errors.Wrap(err, "creating clock in"), http.StatusBadRequest)
	}

	return response, nil
}

// ClockOut closes today's session and reports the worked hours.
func (r Repository) ClockOut(ctx context.Context, request ClockRequest) (ClockResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleEmployee, auth.RolePartner, auth.RoleSuperAdmin)
	if err != nil {
		return ClockResponse{}, err
	}

	now := time.Now()

	clockInAt, err := r.openClockIn(ctx, claims.UserId, now)
	if err != nil {
		return ClockResponse{}, err
	}

	var response ClockResponse

	response.TenantID = claims.TenantId
	response.UserID = claims.UserId
	response.Type = entity.ClockOut
	response.WorkDay = now.Format("2006-01-02")
	response.RecordedAt = now
	response.Latitude = request.Latitude
	response.Longitude = request.Longitude
	response.Address = request.Address
	response.DeviceInfo = request.DeviceInfo
	response.CreatedAt = now
	response.CreatedBy = claims.UserId

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			return ClockResponse{}, web.NewRequestError(errors.New("already clocked out today"), http.StatusConflict)
		}
		return ClockResponse{}, web.NewRequestError(errors.Wrap(err, "creating clock out"), http.StatusBadRequest)
	}

	workedHours := now.Sub(clockInAt).Hours()
	response.WorkedHours = &workedHours

	return response, nil
}

// ClockInByBadge records a clock event for the user owning the badge.
// The kiosk account toggles: an open session is closed, otherwise a new
// one is opened.
func (r Repository) ClockInByBadge(ctx context.Context, request BadgeClockRequest) (ClockResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleKiosk)
	if err != nil {
		return ClockResponse{}, err
	}

	if err := r.ValidateStruct(&request, "BadgeCode"); err != nil {
		return ClockResponse{}, err
	}

	var member entity.User
	err = r.NewSelect().Model(&member).
		Where("badge_code = ? AND tenant_id = ? AND deleted_at IS NULL", *request.BadgeCode, claims.TenantId).
		Scan(ctx)
	if err != nil {
		return ClockResponse{}, web.NewRequestError(errors.New("badge not recognized"), http.StatusNotFound)
	}

	now := time.Now()

	session, _, err := r.daySession(ctx, member.ID, now)
	if err != nil {
		return ClockResponse{}, err
	}

	var response ClockResponse

	response.TenantID = claims.TenantId
	response.UserID = member.ID
	response.FullName = member.FullName
	response.WorkDay = now.Format("2006-01-02")
	response.RecordedAt = now
	response.Latitude = request.Latitude
	response.Longitude = request.Longitude
	response.DeviceInfo = request.DeviceInfo
	response.CreatedAt = now
	response.CreatedBy = claims.UserId

	if session.Open() {
		response.Type = entity.ClockOut
	} else {
		response.Type = entity.ClockIn
	}

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			return ClockResponse{}, web.NewRequestError(errors.New("attendance already completed today"), http.StatusConflict)
		}
		return ClockResponse{}, web.NewRequestError(errors.Wrap(err, "creating clock event by badge"), http.StatusBadRequest)
	}

	if response.Type == entity.ClockOut && session.ClockIn != nil {
		workedHours := now.Sub(*session.ClockIn).Hours()
		response.WorkedHours = &workedHours
	}

	return response, nil
}

// GetToday returns the caller's session state for the current work day.
func (r Repository) GetToday(ctx context.Context) (TodayResponse, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return TodayResponse{}, err
	}

	now := time.Now()

	session, address, err := r.daySession(ctx, claims.UserId, now)
	if err != nil {
		return TodayResponse{}, err
	}

	workDay := date.Date{Time: workday.Day(now)}

	return TodayResponse{
		WorkDay:   &workDay,
		ClockedIn: session.Open(),
		ClockIn:   session.ClockIn,
		ClockOut:  session.ClockOut,
		Hours:     session.Hours(),
		Address:   address,
	}, nil
}

// GetHistory lists the caller's day sessions for one month, newest day
// first. Partners may pass another user of their tenant.
func (r Repository) GetHistory(ctx context.Context, filter Filter) ([]HistoryResponse, int, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, 0, err
	}

	target, err := r.resolveTarget(ctx, claims, filter.UserID)
	if err != nil {
		return nil, 0, err
	}

	month := workday.Day(time.Now())
	if filter.Month != nil {
		month = filter.Month.Time
	}
	monthStart := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.Local)
	monthEnd := monthStart.AddDate(0, 1, -1)

	query := fmt.Sprintf(`
		SELECT
			work_day,
			type,
			recorded_at,
			address
		FROM attendance_records
		WHERE deleted_at IS NULL AND user_id = %d AND work_day BETWEEN '%s' AND '%s'
		ORDER BY work_day, recorded_at
	`, target, monthStart.Format("2006-01-02"), monthEnd.Format("2006-01-02"))

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting attendance history"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []HistoryResponse

	for rows.Next() {
		var (
			workDay    time.Time
			kind       string
			recordedAt time.Time
			address    *string
		)
		if err = rows.Scan(&workDay, &kind, &recordedAt, &address); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning attendance history"), http.StatusInternalServerError)
		}

		day := date.Date{Time: workDay}
		if len(list) == 0 || !list[len(list)-1].WorkDay.Equal(day.Time) {
			list = append(list, HistoryResponse{WorkDay: &day})
		}

		detail := &list[len(list)-1]
		at := recordedAt
		switch kind {
		case entity.ClockIn:
			detail.ClockIn = &at
			detail.Address = address
		case entity.ClockOut:
			detail.ClockOut = &at
		}
	}

	for i := range list {
		session := workday.Session{ClockIn: list[i].ClockIn, ClockOut: list[i].ClockOut}
		list[i].Hours = session.Hours()
	}

	// Newest day first.
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}

	return list, len(list), nil
}

// GetMonthlyReport classifies every day of the month for one user and
// totals them. Future days stay out, and today stays out while the
// session is still open.
func (r Repository) GetMonthlyReport(ctx context.Context, filter ReportFilter) (ReportResponse, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return ReportResponse{}, err
	}

	target, err := r.resolveTarget(ctx, claims, filter.UserID)
	if err != nil {
		return ReportResponse{}, err
	}

	var member entity.User
	err = r.NewSelect().Model(&member).
		Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", target, claims.TenantId).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return ReportResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return ReportResponse{}, web.NewRequestError(errors.Wrap(err, "selecting report user"), http.StatusInternalServerError)
	}

	monthStart := time.Date(filter.Month.Year(), filter.Month.Month(), 1, 0, 0, 0, 0, time.Local)
	monthEnd := monthStart.AddDate(0, 1, -1)

	rules, err := r.loadRules(ctx, claims.TenantId)
	if err != nil {
		return ReportResponse{}, err
	}

	holidays, err := r.loadHolidays(ctx, claims.TenantId, monthStart, monthEnd)
	if err != nil {
		return ReportResponse{}, err
	}

	sessions, err := r.loadSessions(ctx, []int{target}, monthStart, monthEnd)
	if err != nil {
		return ReportResponse{}, err
	}

	details := buildDays(monthStart, monthEnd, sessions[target], holidays, rules)

	days := make([]DayResponse, 0, len(details))
	for _, detail := range details {
		day := date.Date{Time: detail.Day}
		days = append(days, DayResponse{Day: &day, Status: detail.Status, Hours: detail.Hours})
	}

	return ReportResponse{
		UserID:   member.ID,
		FullName: member.FullName,
		Email:    member.Email,
		Month:    monthStart.Format("2006-01"),
		Summary:  workday.Summarize(details),
		Days:     days,
	}, nil
}

// GetTeamMonthlyReport totals the month for every user of the tenant.
func (r Repository) GetTeamMonthlyReport(ctx context.Context, month date.Date) ([]TeamReportRow, error) {
	claims, err := r.CheckClaims(ctx, auth.RolePartner, auth.RoleSuperAdmin)
	if err != nil {
		return nil, err
	}

	monthStart := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.Local)
	monthEnd := monthStart.AddDate(0, 1, -1)

	query := fmt.Sprintf(`
		SELECT
			id,
			full_name,
			email
		FROM users
		WHERE deleted_at IS NULL AND tenant_id = %d AND role != '%s'
		ORDER BY full_name
	`, claims.TenantId, auth.RoleKiosk)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting report users"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []TeamReportRow
	var ids []int

	for rows.Next() {
		var row TeamReportRow
		if err = rows.Scan(&row.UserID, &row.FullName, &row.Email); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning report users"), http.StatusInternalServerError)
		}
		list = append(list, row)
		ids = append(ids, row.UserID)
	}

	if len(list) == 0 {
		return list, nil
	}

	rules, err := r.loadRules(ctx, claims.TenantId)
	if err != nil {
		return nil, err
	}

	holidays, err := r.loadHolidays(ctx, claims.TenantId, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	sessions, err := r.loadSessions(ctx, ids, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	for i := range list {
		details := buildDays(monthStart, monthEnd, sessions[list[i].UserID], holidays, rules)
		list[i].Summary = workday.Summarize(details)
	}

	return list, nil
}

// Delete removes one attendance record, partner correction flow.
func (r Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "attendance_records", id)
}

// resolveTarget picks the user a read operation is about. Reading
// another user's data needs a partner role inside the same tenant.
func (r Repository) resolveTarget(ctx context.Context, claims auth.Claims, userID *int) (int, error) {
	if userID == nil || *userID == claims.UserId {
		return claims.UserId, nil
	}

	if !claims.Authorized(auth.RolePartner, auth.RoleSuperAdmin) {
		return 0, web.NewRequestError(errors.New("permission denied"), http.StatusForbidden)
	}

	return *userID, nil
}

// openClockIn returns the recorded_at of today's unmatched clock in.
func (r Repository) openClockIn(ctx context.Context, userID int, now time.Time) (time.Time, error) {
	query := fmt.Sprintf(`
		SELECT recorded_at
		FROM attendance_records
		WHERE deleted_at IS NULL AND user_id = %d AND work_day = '%s' AND type = '%s'
	`, userID, now.Format("2006-01-02"), entity.ClockIn)

	var clockInAt time.Time
	err := r.QueryRowContext(ctx, query).Scan(&clockInAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, web.NewRequestError(errors.New("not clocked in today"), http.StatusConflict)
	}
	if err != nil {
		return time.Time{}, web.NewRequestError(errors.Wrap(err, "selecting open clock in"), http.StatusInternalServerError)
	}

	return clockInAt, nil
}

// daySession loads one user's events for the day of now. The address of
// the clock in comes along for display.
func (r Repository) daySession(ctx context.Context, userID int, now time.Time) (workday.Session, *string, error) {
	query := fmt.Sprintf(`
		SELECT
			type,
			recorded_at,
			address
		FROM attendance_records
		WHERE deleted_at IS NULL AND user_id = %d AND work_day = '%s'
		ORDER BY recorded_at
	`, userID, now.Format("2006-01-02"))

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return workday.Session{}, nil, web.NewRequestError(errors.Wrap(err, "selecting day session"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var session workday.Session
	var address *string

	for rows.Next() {
		var (
			kind       string
			recordedAt time.Time
			addr       *string
		)
		if err = rows.Scan(&kind, &recordedAt, &addr); err != nil {
			return workday.Session{}, nil, web.NewRequestError(errors.Wrap(err, "scanning day session"), http.StatusInternalServerError)
		}

		at := recordedAt
		switch kind {
		case entity.ClockIn:
			session.ClockIn = &at
			address = addr
		case entity.ClockOut:
			session.ClockOut = &at
		}
	}

	return session, address, nil
}

// loadRules reads the tenant classification thresholds. A tenant
// without a settings row runs on the defaults.
func (r Repository) loadRules(ctx context.Context, tenantID int) (workday.Rules, error) {
	query := fmt.Sprintf(`
		SELECT
			full_day_hours,
			working_days
		FROM attendance_settings
		WHERE deleted_at IS NULL AND tenant_id = %d
	`, tenantID)

	var rules workday.Rules
	var workingDays []byte

	err := r.QueryRowContext(ctx, query).Scan(&rules.FullDayHours, &workingDays)
	if errors.Is(err, sql.ErrNoRows) {
		return defaultRules, nil
	}
	if err != nil {
		return workday.Rules{}, web.NewRequestError(errors.Wrap(err, "selecting attendance rules"), http.StatusInternalServerError)
	}

	if err = json.Unmarshal(workingDays, &rules.WorkingDays); err != nil {
		return workday.Rules{}, web.NewRequestError(errors.Wrap(err, "parsing working days"), http.StatusInternalServerError)
	}

	return rules, nil
}

// loadHolidays keys the tenant holidays of the range by day.
func (r Repository) loadHolidays(ctx context.Context, tenantID int, from, to time.Time) (map[string]bool, error) {
	query := fmt.Sprintf(`
		SELECT day
		FROM holidays
		WHERE deleted_at IS NULL AND tenant_id = %d AND day BETWEEN '%s' AND '%s'
	`, tenantID, from.Format("2006-01-02"), to.Format("2006-01-02"))

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting holidays"), http.StatusInternalServerError)
	}
	defer rows.Close()

	holidays := map[string]bool{}

	for rows.Next() {
		var day time.Time
		if err = rows.Scan(&day); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning holidays"), http.StatusInternalServerError)
		}
		holidays[day.Format("2006-01-02")] = true
	}

	return holidays, nil
}

// loadSessions folds the range's clock events into per user, per day
// sessions.
func (r Repository) loadSessions(ctx context.Context, userIDs []int, from, to time.Time) (map[int]map[string]workday.Session, error) {
	idsQuery := ""
	for i, id := range userIDs {
		if i > 0 {
			idsQuery += ","
		}
		idsQuery += fmt.Sprintf("%d", id)
	}

	query := fmt.Sprintf(`
		SELECT
			user_id,
			work_day,
			type,
			recorded_at
		FROM attendance_records
		WHERE deleted_at IS NULL AND user_id IN (%s) AND work_day BETWEEN '%s' AND '%s'
		ORDER BY user_id, work_day, recorded_at
	`, idsQuery, from.Format("2006-01-02"), to.Format("2006-01-02"))

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting attendance records"), http.StatusInternalServerError)
	}
	defer rows.Close()

	sessions := map[int]map[string]workday.Session{}

	for rows.Next() {
		var (
			userID     int
			workDay    time.Time
			kind       string
			recordedAt time.Time
		)
		if err = rows.Scan(&userID, &workDay, &kind, &recordedAt); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning attendance records"), http.StatusInternalServerError)
		}

		if sessions[userID] == nil {
			sessions[userID] = map[string]workday.Session{}
		}

		key := workDay.Format("2006-01-02")
		session := sessions[userID][key]
		at := recordedAt
		switch kind {
		case entity.ClockIn:
			session.ClockIn = &at
		case entity.ClockOut:
			session.ClockOut = &at
		}
		sessions[userID][key] = session
	}

	return sessions, nil
}

// buildDays classifies every day of the month. Days after today are
// dropped; today is dropped while its session is still open.
func buildDays(monthStart, monthEnd time.Time, sessions map[string]workday.Session, holidays map[string]bool, rules workday.Rules) []workday.DayDetail {
	today := workday.Day(time.Now())

	var details []workday.DayDetail

	for day := monthStart; !day.After(monthEnd); day = day.AddDate(0, 0, 1) {
		if day.After(today) {
			break
		}

		key := day.Format("2006-01-02")
		session := sessions[key]

		if day.Equal(today) && session.Open() {
			continue
		}

		details = append(details, workday.DayDetail{
			Day:    day,
			Status: workday.Classify(day, holidays[key], rules, session),
			Hours:  session.Hours(),
		})
	}

	return details
}
