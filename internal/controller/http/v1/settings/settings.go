package settings

import (
	"net/http"

	"taskact/backend/foundation/web"
	"taskact/backend/internal/repository/postgres/settings"
)

type Controller struct {
	settings Settings
}

func NewController(settings Settings) *Controller {
	return &Controller{settings: settings}
}

func (uc Controller) GetSettings(c *web.Context) error {
	response, err := uc.settings.GetSettings(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) UpdateSettings(c *web.Context) error {
	var request settings.UpdateSettingsRequest
	if err := c.BindFunc(&request, "GeofenceEnabled", "RadiusMeters"); err != nil {
		return c.RespondError(err)
	}

	err := uc.settings.UpdateSettings(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetRules(c *web.Context) error {
	response, err := uc.settings.GetRules(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) UpdateRules(c *web.Context) error {
	var request settings.UpdateRulesRequest
	if err := c.BindFunc(&request, "FullDayHours", "WorkingDays"); err != nil {
		return c.RespondError(err)
	}

	err := uc.settings.UpdateRules(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}
