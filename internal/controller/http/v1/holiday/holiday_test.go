package holiday

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"taskact/backend/foundation/web"
	"taskact/backend/internal/repository/postgres/holiday"
)

type holidayStub struct {
	list      []holiday.GetListResponse
	created   holiday.CreateResponse
	err       error
	filter    holiday.Filter
	request   holiday.CreateRequest
	deletedId int
}

func (s *holidayStub) GetList(ctx context.Context, filter holiday.Filter) ([]holiday.GetListResponse, int, error) {
	s.filter = filter
	return s.list, len(s.list), s.err
}

func (s *holidayStub) Create(ctx context.Context, request holiday.CreateRequest) (holiday.CreateResponse, error) {
	s.request = request
	return s.created, s.err
}

func (s *holidayStub) Delete(ctx context.Context, id int) error {
	s.deletedId = id
	return s.err
}

func newTestApp(t *testing.T, stub *holidayStub) *web.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := web.NewApp(web.Config{})
	controller := NewController(stub)

	app.Get("/api/v1/attendance/holidays", controller.GetList)
	app.Post("/api/v1/attendance/holidays", controller.Create)
	app.Delete("/api/v1/attendance/holidays/:id", controller.Delete)

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

func TestHolidays(t *testing.T) {
	t.Run("List Scoped To Year", func(t *testing.T) {
		name := "Republic Day"
		day := date.Date{Time: time.Date(2026, 1, 26, 0, 0, 0, 0, time.UTC)}
		stub := &holidayStub{list: []holiday.GetListResponse{{ID: 1, Day: &day, Name: &name, IsPaid: true}}}
		app := newTestApp(t, stub)

		w := performRequest(app, http.MethodGet, "/api/v1/attendance/holidays?year=2026", "")
		assert.Equal(t, http.StatusOK, w.Code)

		if assert.NotNil(t, stub.filter.Year) {
			assert.Equal(t, 2026, *stub.filter.Year)
		}

		var body struct {
			Data struct {
				Results []struct {
					Day    string `json:"day"`
					Name   string `json:"name"`
					IsPaid bool   `json:"is_paid"`
				} `json:"results"`
				Count int `json:"count"`
			} `json:"data"`
			Status bool `json:"status"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Status)
		assert.Equal(t, 1, body.Data.Count)
		assert.Equal(t, "2026-01-26", body.Data.Results[0].Day)
		assert.Equal(t, "Republic Day", body.Data.Results[0].Name)
		assert.True(t, body.Data.Results[0].IsPaid)
	})

	t.Run("Create Requires Day And Name", func(t *testing.T) {
		app := newTestApp(t, &holidayStub{})

		w := performRequest(app, http.MethodPost, "/api/v1/attendance/holidays", `{"is_paid":true}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "required fields are missing")
	})

	t.Run("Create Round Trips The Day", func(t *testing.T) {
		name := "Christmas"
		stub := &holidayStub{created: holiday.CreateResponse{ID: 3, Day: "2026-12-25", Name: &name, IsPaid: true}}
		app := newTestApp(t, stub)

		w := performRequest(app, http.MethodPost, "/api/v1/attendance/holidays", `{"day":"2026-12-25","name":"Christmas","is_paid":true}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"day":"2026-12-25"`)

		if assert.NotNil(t, stub.request.Day) {
			assert.Equal(t, "2026-12-25", stub.request.Day.Format("2006-01-02"))
		}
	})

	t.Run("Duplicate Day Conflicts", func(t *testing.T) {
		stub := &holidayStub{err: web.NewRequestError(errors.New("holiday already exists for this day"), http.StatusConflict)}
		app := newTestApp(t, stub)

		w := performRequest(app, http.MethodPost, "/api/v1/attendance/holidays", `{"day":"2026-12-25","name":"Christmas"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Delete By Id", func(t *testing.T) {
		stub := &holidayStub{}
		app := newTestApp(t, stub)

		w := performRequest(app, http.MethodDelete, "/api/v1/attendance/holidays/5", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 5, stub.deletedId)
	})

	t.Run("Delete Rejects Non Numeric Id", func(t *testing.T) {
		app := newTestApp(t, &holidayStub{})

		w := performRequest(app, http.MethodDelete, "/api/v1/attendance/holidays/xyz", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
