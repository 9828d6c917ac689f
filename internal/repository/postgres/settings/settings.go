package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"taskact/backend/foundation/web"
	"taskact/backend/internal/auth"
	"taskact/backend/internal/entity"
	"taskact/backend/internal/pkg/repository/postgresql"
	"taskact/backend/internal/service/workday"
)

// MaxOffices caps the office locations a tenant can register.
const MaxOffices = 5

const cacheTTL = 10 * time.Minute

type Repository struct {
	*postgresql.Database
	redis *redis.Client
}

func NewRepository(database *postgresql.Database, redisClient *redis.Client) *Repository {
	return &Repository{Database: database, redis: redisClient}
}

func settingsKey(tenantID int) string {
	return fmt.Sprintf("attendance:settings:%d", tenantID)
}

func rulesKey(tenantID int) string {
	return fmt.Sprintf("attendance:rules:%d", tenantID)
}

// GetSettings returns the tenant geofence configuration. The result is
// cached because every clock event reads it.
func (r Repository) GetSettings(ctx context.Context) (GetSettingsResponse, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return GetSettingsResponse{}, err
	}

	if r.redis != nil {
		if cached, err := r.redis.Get(ctx, settingsKey(claims.TenantId)).Bytes(); err == nil {
			var response GetSettingsResponse
			if json.Unmarshal(cached, &response) == nil {
				return response, nil
			}
		}
	}

	var response GetSettingsResponse

	query := fmt.Sprintf(`
		SELECT
			geofence_enabled,
			radius_meters
		FROM attendance_settings
		WHERE deleted_at IS NULL AND tenant_id = %d
	`, claims.TenantId)

	err = r.QueryRowContext(ctx, query).Scan(&response.GeofenceEnabled, &response.RadiusMeters)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return GetSettingsResponse{}, web.NewRequestError(errors.Wrap(err, "selecting attendance settings"), http.StatusInternalServerError)
	}

	officesQuery := fmt.Sprintf(`
		SELECT
			name,
			latitude,
			longitude,
			address
		FROM office_locations
		WHERE deleted_at IS NULL AND tenant_id = %d
		ORDER BY position
	`, claims.TenantId)

	rows, err := r.QueryContext(ctx, officesQuery)
	if err != nil {
		return GetSettingsResponse{}, web.NewRequestError(errors.Wrap(err, "selecting office locations"), http.StatusInternalServerError)
	}
	defer rows.Close()

	for rows.Next() {
		var office OfficeResponse
		if err = rows.Scan(&office.Name, &office.Latitude, &office.Longitude, &office.Address); err != nil {
			return GetSettingsResponse{}, web.NewRequestError(errors.Wrap(err, "scanning office locations"), http.StatusInternalServerError)
		}
		response.Offices = append(response.Offices, office)
	}

	if r.redis != nil {
		if data, err := json.Marshal(response); err == nil {
			r.redis.Set(ctx, settingsKey(claims.TenantId), data, cacheTTL)
		}
	}

	return response, nil
}

// UpdateSettings replaces the tenant geofence configuration and its
// office list, then drops the cache entry.
func (r Repository) UpdateSettings(ctx context.Context, request UpdateSettingsRequest) error {
	claims, err := r.CheckClaims(ctx, auth.RolePartner, auth.RoleSuperAdmin)
	if err != nil {
		return err
	}

	if err := r.ValidateStruct(&request, "GeofenceEnabled", "RadiusMeters"); err != nil {
		return err
	}

	if *request.RadiusMeters < 0 {
		return web.NewRequestError(errors.New("radius_meters must not be negative"), http.StatusBadRequest)
	}
	if len(request.Offices) > MaxOffices {
		return web.NewRequestError(errors.Errorf("at most %d office locations are allowed", MaxOffices), http.StatusBadRequest)
	}
	for _, office := range request.Offices {
		if office.Name == nil || office.Latitude == nil || office.Longitude == nil {
			return web.NewRequestError(errors.New("every office needs name, latitude and longitude"), http.StatusBadRequest)
		}
		if *office.Latitude < -90 || *office.Latitude > 90 {
			return web.NewRequestError(errors.New("latitude out of range"), http.StatusBadRequest)
		}
		if *office.Longitude < -180 || *office.Longitude > 180 {
			return web.NewRequestError(errors.New("longitude out of range"), http.StatusBadRequest)
		}
	}

	now := time.Now()

	row := entity.AttendanceSettings{
		TenantID:        &claims.TenantId,
		GeofenceEnabled: request.GeofenceEnabled,
		RadiusMeters:    request.RadiusMeters,
	}
	row.UpdatedAt = &now
	row.UpdatedBy = &claims.UserId

	result, err := r.NewUpdate().Model(&row).
		Column("geofence_enabled", "radius_meters", "updated_at", "updated_by").
		Where("tenant_id = ? AND deleted_at IS NULL", claims.TenantId).
		Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating attendance settings"), http.StatusBadRequest)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "reading affected rows"), http.StatusInternalServerError)
	}

	// First write of a fresh tenant.
	if affected == 0 {
		row.CreatedAt = &now
		row.CreatedBy = &claims.UserId
		row.WorkingDays = workday.DefaultWorkingDays

		full := defaultFullDayHours
		row.FullDayHours = &full

		if _, err = r.NewInsert().Model(&row).Exec(ctx); err != nil {
			return web.NewRequestError(errors.Wrap(err, "creating attendance settings"), http.StatusBadRequest)
		}
	}

	if err = r.replaceOffices(ctx, claims, request.Offices, now); err != nil {
		return err
	}

	if r.redis != nil {
		r.redis.Del(ctx, settingsKey(claims.TenantId))
	}

	return nil
}

const defaultFullDayHours float64 = 8

func (r Repository) replaceOffices(ctx context.Context, claims auth.Claims, offices []OfficeRequest, now time.Time) error {
	_, err := r.ExecContext(ctx, fmt.Sprintf(`
		UPDATE office_locations SET deleted_at = now(), deleted_by = %d
		WHERE tenant_id = %d AND deleted_at IS NULL
	`, claims.UserId, claims.TenantId))
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "removing office locations"), http.StatusBadRequest)
	}

	for i, office := range offices {
		position := i
		row := entity.OfficeLocation{
			TenantID:  &claims.TenantId,
			Name:      office.Name,
			Latitude:  office.Latitude,
			Longitude: office.Longitude,
			Address:   office.Address,
			Position:  &position,
		}
		row.CreatedAt = &now
		row.CreatedBy = &claims.UserId

		if _, err = r.NewInsert().Model(&row).Exec(ctx); err != nil {
			return web.NewRequestError(errors.Wrap(err, "creating office location"), http.StatusBadRequest)
		}
	}

	return nil
}

// GetRules returns the tenant day classification thresholds.
func (r Repository) GetRules(ctx context.Context) (GetRulesResponse, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return GetRulesResponse{}, err
	}

	if r.redis != nil {
		if cached, err := r.redis.Get(ctx, rulesKey(claims.TenantId)).Bytes(); err == nil {
			var response GetRulesResponse
			if json.Unmarshal(cached, &response) == nil {
				return response, nil
			}
		}
	}

	response := GetRulesResponse{
		FullDayHours: defaultFullDayHours,
		WorkingDays:  workday.DefaultWorkingDays,
	}

	query := fmt.Sprintf(`
		SELECT
			full_day_hours,
			working_days
		FROM attendance_settings
		WHERE deleted_at IS NULL AND tenant_id = %d
	`, claims.TenantId)

	var workingDays []byte
	err = r.QueryRowContext(ctx, query).Scan(&response.FullDayHours, &workingDays)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return GetRulesResponse{}, web.NewRequestError(errors.Wrap(err, "selecting attendance rules"), http.StatusInternalServerError)
	}

	if workingDays != nil {
		if err = json.Unmarshal(workingDays, &response.WorkingDays); err != nil {
			return GetRulesResponse{}, web.NewRequestError(errors.Wrap(err, "parsing working days"), http.StatusInternalServerError)
		}
	}

	if r.redis != nil {
		if data, err := json.Marshal(response); err == nil {
			r.redis.Set(ctx, rulesKey(claims.TenantId), data, cacheTTL)
		}
	}

	return response, nil
}

// UpdateRules changes the tenant day classification thresholds and
// drops the cache entry.
func (r Repository) UpdateRules(ctx context.Context, request UpdateRulesRequest) error {
	claims, err := r.CheckClaims(ctx, auth.RolePartner, auth.RoleSuperAdmin)
	if err != nil {
		return err
	}

	if err := r.ValidateStruct(&request, "FullDayHours", "WorkingDays"); err != nil {
		return err
	}

	if *request.FullDayHours <= 0 {
		return web.NewRequestError(errors.New("full_day_hours must be positive"), http.StatusBadRequest)
	}
	if len(request.WorkingDays) != 7 {
		return web.NewRequestError(errors.New("working_days must list all seven days, Monday first"), http.StatusBadRequest)
	}

	now := time.Now()

	row := entity.AttendanceSettings{
		TenantID:     &claims.TenantId,
		FullDayHours: request.FullDayHours,
		WorkingDays:  request.WorkingDays,
	}
	row.UpdatedAt = &now
	row.UpdatedBy = &claims.UserId

	result, err := r.NewUpdate().Model(&row).
		Column("full_day_hours", "working_days", "updated_at", "updated_by").
		Where("tenant_id = ? AND deleted_at IS NULL", claims.TenantId).
		Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating attendance rules"), http.StatusBadRequest)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "reading affected rows"), http.StatusInternalServerError)
	}

	if affected == 0 {
		row.CreatedAt = &now
		row.CreatedBy = &claims.UserId

		enabled := false
		radius := 0.0
		row.GeofenceEnabled = &enabled
		row.RadiusMeters = &radius

		if _, err = r.NewInsert().Model(&row).Exec(ctx); err != nil {
			return web.NewRequestError(errors.Wrap(err, "creating attendance rules"), http.StatusBadRequest)
		}
	}

	if r.redis != nil {
		r.redis.Del(ctx, rulesKey(claims.TenantId))
	}

	return nil
}
