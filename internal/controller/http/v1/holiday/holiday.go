package holiday

import (
	"net/http"
	"reflect"

	"taskact/backend/foundation/web"
	"taskact/backend/internal/repository/postgres/holiday"
)

type Controller struct {
	holiday Holiday
}

func NewController(holiday Holiday) *Controller {
	return &Controller{holiday: holiday}
}

func (uc Controller) GetList(c *web.Context) error {
	var filter holiday.Filter

	if year, ok := c.GetQueryFunc(reflect.Int, "year").(*int); ok {
		filter.Year = year
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.holiday.GetList(c.Ctx, filter)
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

func (uc Controller) Create(c *web.Context) error {
	var request holiday.CreateRequest
	if err := c.BindFunc(&request, "Day", "Name"); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.holiday.Create(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) Delete(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	err := uc.holiday.Delete(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}
