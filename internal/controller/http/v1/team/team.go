package team

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"reflect"

	"taskact/backend/foundation/web"
	"taskact/backend/internal/repository/postgres/user"
	"taskact/backend/internal/service/report"
)

type Controller struct {
	team     Team
	basePath string
}

func NewController(team Team, basePath string) *Controller {
	return &Controller{team: team, basePath: basePath}
}

func (uc Controller) GetTeamList(c *web.Context) error {
	var filter user.Filter

	if limit, ok := c.GetQueryFunc(reflect.Int, "limit").(*int); ok {
		filter.Limit = limit
	}
	if offset, ok := c.GetQueryFunc(reflect.Int, "offset").(*int); ok {
		filter.Offset = offset
	}
	if page, ok := c.GetQueryFunc(reflect.Int, "page").(*int); ok {
		filter.Page = page
	}
	if search, ok := c.GetQueryFunc(reflect.String, "search").(*string); ok {
		filter.Search = search
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.team.GetList(c.Ctx, filter)
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

func (uc Controller) GetTeamDetailById(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.team.GetDetailById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) CreateMember(c *web.Context) error {
	var request user.CreateRequest
	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.team.Create(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"created_data": response,
		"status":       true,
	}, http.StatusOK)
}

func (uc Controller) UpdateMemberColumns(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request user.UpdateRequest

	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	request.ID = id

	err := uc.team.UpdateColumns(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) DeleteMember(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	err := uc.team.Delete(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

// GetQrCodeById renders the member's badge code as a QR png. The kiosk
// scans it to clock the member in and out.
func (uc Controller) GetQrCodeById(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	badge, err := uc.team.GetBadgeById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	png, err := report.BadgePNG(*badge.BadgeCode)
	if err != nil {
		return c.RespondError(err)
	}

	c.Header("Content-Type", "image/png")
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=badge_%d.png", badge.ID))
	c.Status(http.StatusOK)
	if _, err = c.Writer.Write(png); err != nil {
		return c.RespondError(err)
	}

	return nil
}

// GetQrCodeList builds one pdf with every member's badge QR so the
// office can print the whole sheet at once.
func (uc Controller) GetQrCodeList(c *web.Context) error {
	list, err := uc.team.GetBadgeList(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	badges := make([]report.Badge, 0, len(list))
	for _, item := range list {
		if item.BadgeCode == nil {
			continue
		}
		badge := report.Badge{Code: *item.BadgeCode}
		if item.FullName != nil {
			badge.FullName = *item.FullName
		}
		badges = append(badges, badge)
	}

	path, err := report.BuildBadgeSheet(badges, filepath.Join(uc.basePath, "badges"))
	if err != nil {
		return c.RespondError(err)
	}

	file, err := os.Open(path)
	if err != nil {
		return c.RespondError(err)
	}
	defer file.Close()

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename=\"badges.pdf\"")
	c.Status(http.StatusOK)
	if _, err = io.Copy(c.Writer, file); err != nil {
		return c.RespondError(err)
	}

	return nil
}
