package router

import (
	"github.com/redis/go-redis/v9"

	"taskact/backend/foundation/web"
	"taskact/backend/internal/auth"
	"taskact/backend/internal/middleware"
	"taskact/backend/internal/pkg/repository/postgresql"
	"taskact/backend/internal/service/geocode"

	"taskact/backend/internal/repository/postgres/attendance"
	"taskact/backend/internal/repository/postgres/holiday"
	"taskact/backend/internal/repository/postgres/settings"
	"taskact/backend/internal/repository/postgres/user"

	attendance_controller "taskact/backend/internal/controller/http/v1/attendance"
	auth_controller "taskact/backend/internal/controller/http/v1/auth"
	file_controller "taskact/backend/internal/controller/http/v1/file"
	holiday_controller "taskact/backend/internal/controller/http/v1/holiday"
	settings_controller "taskact/backend/internal/controller/http/v1/settings"
	team_controller "taskact/backend/internal/controller/http/v1/team"
)

type Router struct {
	*web.App
	postgresDB         *postgresql.Database
	redisDB            *redis.Client
	geocoder           *geocode.Client
	port               string
	auth               *auth.Auth
	fileServerBasePath string
	webOrigins         []string
}

func NewRouter(
	app *web.App,
	postgresDB *postgresql.Database,
	redisDB *redis.Client,
	geocoder *geocode.Client,
	port string,
	auth *auth.Auth,
	fileServerBasePath string,
	webOrigins []string,
) *Router {
	return &Router{
		app,
		postgresDB,
		redisDB,
		geocoder,
		port,
		auth,
		fileServerBasePath,
		webOrigins,
	}
}

func (r Router) Init() error {

	r.HandleMethodNotAllowed = true
	r.Use(middleware.CORSMiddleware(r.webOrigins))

	// - postgresql
	userPostgres := user.NewRepository(r.postgresDB)
	attendancePostgres := attendance.NewRepository(r.postgresDB)
	settingsPostgres := settings.NewRepository(r.postgresDB, r.redisDB)
	holidayPostgres := holiday.NewRepository(r.postgresDB)

	// controller
	authController := auth_controller.NewController(userPostgres)
	attendanceController := attendance_controller.NewController(attendancePostgres, settingsPostgres, r.geocoder, r.fileServerBasePath)
	settingsController := settings_controller.NewController(settingsPostgres)
	holidayController := holiday_controller.NewController(holidayPostgres)
	teamController := team_controller.NewController(userPostgres, r.fileServerBasePath)

	fileC := file_controller.NewController(r.App, r.fileServerBasePath)

	// #auth
	r.Post("/api/v1/sign-in", authController.SignIn)
	r.Post("/api/v1/refresh-token", authController.RefreshToken)

	r.GET("/media/*filepath", fileC.File)
	r.HEAD("/media/*filepath", fileC.File)

	// #attendance
	r.Post("/api/v1/attendance/clock-in", attendanceController.ClockIn, middleware.Authenticate(r.auth, auth.RoleEmployee, auth.RolePartner, auth.RoleSuperAdmin))
	r.Post("/api/v1/attendance/clock-out", attendanceController.ClockOut, middleware.Authenticate(r.auth, auth.RoleEmployee, auth.RolePartner, auth.RoleSuperAdmin))
	r.Post("/api/v1/attendance/clock-in/badge", attendanceController.ClockInByBadge, middleware.Authenticate(r.auth, auth.RoleKiosk))
	r.Get("/api/v1/attendance/today", attendanceController.GetToday, middleware.Authenticate(r.auth, auth.RoleEmployee, auth.RolePartner, auth.RoleSuperAdmin))
	r.Get("/api/v1/attendance/history", attendanceController.GetHistory, middleware.Authenticate(r.auth))
	r.Get("/api/v1/attendance/report", attendanceController.GetMonthlyReport, middleware.Authenticate(r.auth))
	r.Get("/api/v1/attendance/report/export", attendanceController.ExportMonthlyReport, middleware.Authenticate(r.auth, auth.RolePartner, auth.RoleSuperAdmin))
	r.Delete("/api/v1/attendance/records/:id", attendanceController.Delete, middleware.Authenticate(r.auth, auth.RolePartner, auth.RoleSuperAdmin))

	// #settings
	r.Get("/api/v1/attendance/settings", settingsController.GetSettings, middleware.Authenticate(r.auth))
	r.Put("/api/v1/attendance/settings", settingsController.UpdateSettings, middleware.Authenticate(r.auth, auth.RolePartner, auth.RoleSuperAdmin))
	r.Get("/api/v1/attendance/rules", settingsController.GetRules, middleware.Authenticate(r.auth))
	r.Put("/api/v1/attendance/rules", settingsController.UpdateRules, middleware.Authenticate(r.auth, auth.RolePartner, auth.RoleSuperAdmin))

	// #holiday
	r.Get("/api/v1/attendance/holidays", holidayController.GetList, middleware.Authenticate(r.auth))
	r.Post("/api/v1/attendance/holidays", holidayController.Create, middleware.Authenticate(r.auth, auth.RolePartner, auth.RoleSuperAdmin))
	r.Delete("/api/v1/attendance/holidays/:id", holidayController.Delete, middleware.Authenticate(r.auth, auth.RolePartner, auth.RoleSuperAdmin))

	// #team
	r.Get("/api/v1/team/list", teamController.GetTeamList, middleware.Authenticate(r.auth, auth.RolePartner, auth.RoleSuperAdmin))
	r.Get("/api/v1/team/qrcodelist", teamController.GetQrCodeList, middleware.Authenticate(r.auth, auth.RolePartner, auth.RoleSuperAdmin))
	r.Get("/api/v1/team/:id", teamController.GetTeamDetailById, middleware.Authenticate(r.auth, auth.RolePartner, auth.RoleSuperAdmin))
	r.Get("/api/v1/team/:id/qrcode", teamController.GetQrCodeById, middleware.Authenticate(r.auth, auth.RolePartner, auth.RoleSuperAdmin))
	r.Post("/api/v1/team/create", teamController.CreateMember, middleware.Authenticate(r.auth, auth.RolePartner, auth.RoleSuperAdmin))
	r.Patch("/api/v1/team/:id", teamController.UpdateMemberColumns, middleware.Authenticate(r.auth, auth.RolePartner, auth.RoleSuperAdmin))
	r.Delete("/api/v1/team/:id", teamController.DeleteMember, middleware.Authenticate(r.auth, auth.RolePartner, auth.RoleSuperAdmin))

	return r.Run(r.port)
}
