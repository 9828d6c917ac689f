package settings

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"taskact/backend/foundation/web"
	"taskact/backend/internal/auth"
	"taskact/backend/internal/pkg/repository/postgresql"
)

// Validation runs before any database access, so these paths are
// exercised against an empty repository.
func validationRepo() Repository {
	return Repository{Database: &postgresql.Database{}}
}

func authedCtx(role string) context.Context {
	return context.WithValue(context.Background(), auth.Key, auth.Claims{UserId: 1, TenantId: 1, Role: role})
}

func requestStatus(t *testing.T, err error) int {
	t.Helper()

	webErr, ok := web.IsRequestError(err)
	if !assert.True(t, ok, "expected a request error, got %v", err) {
		return 0
	}
	return webErr.Status
}

func TestUpdateSettingsValidation(t *testing.T) {
	r := validationRepo()

	enabled := true
	radius := 100.0

	t.Run("Requires Partner Role", func(t *testing.T) {
		err := r.UpdateSettings(authedCtx(auth.RoleEmployee), UpdateSettingsRequest{GeofenceEnabled: &enabled, RadiusMeters: &radius})
		assert.Equal(t, http.StatusForbidden, requestStatus(t, err))
	})

	t.Run("Requires Geofence Fields", func(t *testing.T) {
		err := r.UpdateSettings(authedCtx(auth.RolePartner), UpdateSettingsRequest{})
		assert.Equal(t, http.StatusBadRequest, requestStatus(t, err))
		assert.Contains(t, err.Error(), "required fields are missing")
	})

	t.Run("Rejects Negative Radius", func(t *testing.T) {
		negative := -5.0
		err := r.UpdateSettings(authedCtx(auth.RolePartner), UpdateSettingsRequest{GeofenceEnabled: &enabled, RadiusMeters: &negative})
		assert.Equal(t, http.StatusBadRequest, requestStatus(t, err))
		assert.Contains(t, err.Error(), "radius_meters must not be negative")
	})

	t.Run("Caps Office Count", func(t *testing.T) {
		name := "HQ"
		lat, lon := 19.0760, 72.8777
		offices := make([]OfficeRequest, MaxOffices+1)
		for i := range offices {
			offices[i] = OfficeRequest{Name: &name, Latitude: &lat, Longitude: &lon}
		}

		err := r.UpdateSettings(authedCtx(auth.RolePartner), UpdateSettingsRequest{GeofenceEnabled: &enabled, RadiusMeters: &radius, Offices: offices})
		assert.Equal(t, http.StatusBadRequest, requestStatus(t, err))
		assert.Contains(t, err.Error(), "at most 5 office locations")
	})

	t.Run("Rejects Latitude Out Of Range", func(t *testing.T) {
		name := "HQ"
		lat, lon := 91.0, 72.8777
		err := r.UpdateSettings(authedCtx(auth.RolePartner), UpdateSettingsRequest{
			GeofenceEnabled: &enabled,
			RadiusMeters:    &radius,
			Offices:         []OfficeRequest{{Name: &name, Latitude: &lat, Longitude: &lon}},
		})
		assert.Equal(t, http.StatusBadRequest, requestStatus(t, err))
		assert.Contains(t, err.Error(), "latitude out of range")
	})

	t.Run("Rejects Office Without Coordinates", func(t *testing.T) {
		name := "HQ"
		err := r.UpdateSettings(authedCtx(auth.RolePartner), UpdateSettingsRequest{
			GeofenceEnabled: &enabled,
			RadiusMeters:    &radius,
			Offices:         []OfficeRequest{{Name: &name}},
		})
		assert.Equal(t, http.StatusBadRequest, requestStatus(t, err))
		assert.Contains(t, err.Error(), "every office needs name, latitude and longitude")
	})
}

func TestUpdateRulesValidation(t *testing.T) {
	r := validationRepo()

	full := 8.0
	week := []bool{true, true, true, true, true, false, false}

	t.Run("Requires Partner Role", func(t *testing.T) {
		err := r.UpdateRules(authedCtx(auth.RoleKiosk), UpdateRulesRequest{FullDayHours: &full, WorkingDays: week})
		assert.Equal(t, http.StatusForbidden, requestStatus(t, err))
	})

	t.Run("Threshold Must Be Positive", func(t *testing.T) {
		zero := 0.0
		err := r.UpdateRules(authedCtx(auth.RolePartner), UpdateRulesRequest{FullDayHours: &zero, WorkingDays: week})
		assert.Equal(t, http.StatusBadRequest, requestStatus(t, err))
		assert.Contains(t, err.Error(), "full_day_hours must be positive")
	})

	t.Run("Working Days Need All Seven", func(t *testing.T) {
		err := r.UpdateRules(authedCtx(auth.RolePartner), UpdateRulesRequest{FullDayHours: &full, WorkingDays: []bool{true, true}})
		assert.Equal(t, http.StatusBadRequest, requestStatus(t, err))
		assert.Contains(t, err.Error(), "working_days must list all seven days, Monday first")
	})

	t.Run("Missing Claims Are Unauthorized", func(t *testing.T) {
		err := r.UpdateRules(context.Background(), UpdateRulesRequest{FullDayHours: &full, WorkingDays: week})
		assert.Equal(t, http.StatusUnauthorized, requestStatus(t, err))
	})
}
