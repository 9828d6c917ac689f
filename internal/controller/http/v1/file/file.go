package file

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"taskact/backend/foundation/web"
)

type Controller struct {
	*web.App
	fileServerBasePath string
}

func NewController(app *web.App, fileServerBasePath string) *Controller {
	return &Controller{app, fileServerBasePath}
}

// File serves generated artifacts, report exports and badge sheets,
// from the media directory. Directory listing stays off.
func (cf Controller) File(c *gin.Context) {
	fs := gin.Dir(cf.fileServerBasePath, false)

	file := c.Param("filepath")
	if strings.Contains(file, "..") {
		c.JSON(http.StatusBadRequest, map[string]any{
			"error":  "incorrect link",
			"status": false,
		})
		return
	}

	f, err := fs.Open(file)
	if err != nil {
		c.JSON(http.StatusNotFound, map[string]any{
			"error":  "file not found",
			"status": false,
		})
		return
	}
	f.Close()

	http.ServeFile(c.Writer, c.Request, filepath.Join(cf.fileServerBasePath, file))
}
