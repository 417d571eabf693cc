package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hr-system/internal/authz"
	"hr-system/internal/controllers"
	"hr-system/internal/repositories"
	"hr-system/internal/services"
	"hr-system/pkg/config"
	"hr-system/pkg/eventbus"
	"hr-system/pkg/middleware"
	"hr-system/pkg/service"
)

const cachePrefix = "hr-system:"

type Loggers struct {
	Main   *zap.Logger
	Auth   *zap.Logger
	User   *zap.Logger
	Access *zap.Logger
}

// Services — всё, что нужно роутеру. Собирается в BuildServices или в тестах.
type Services struct {
	Auth         services.AuthServiceInterface
	Staff        services.StaffServiceInterface
	Attendance   services.AttendanceServiceInterface
	AccessMatrix services.AccessMatrixServiceInterface
}

func BuildServices(
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	engine *authz.Engine,
	bus *eventbus.Bus,
	jwtSvc service.JWTService,
	loggers *Loggers,
	cfg *config.Config,
) *Services {
	// --- 1. РЕПОЗИТОРИИ ---
	userRepo := repositories.NewUserRepository(dbConn, loggers.User)
	attendanceRepo := repositories.NewAttendanceRepository(dbConn, loggers.User)
	matrixRepo := repositories.NewAccessMatrixRepository(dbConn, loggers.Access)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient, cachePrefix)

	// --- 2. СЕРВИСЫ ---
	return &Services{
		Auth:         services.NewAuthService(userRepo, jwtSvc, loggers.Auth),
		Staff:        services.NewStaffService(userRepo, engine, bus, loggers.User),
		Attendance:   services.NewAttendanceService(attendanceRepo, engine, loggers.User),
		AccessMatrix: services.NewAccessMatrixService(engine, matrixRepo, cacheRepo, bus, loggers.Access, cfg.Access.CacheTTL),
	}
}

func InitRouter(e *echo.Echo, svc *Services, engine *authz.Engine, jwtSvc service.JWTService, loggers *Loggers) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, svc.Auth, engine, loggers.Auth)
	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, secureGroup, controllers.NewAuthController(svc.Auth, engine, loggers.Auth))
	runStaffRouter(secureGroup, controllers.NewStaffController(svc.Staff, loggers.User), authMW)
	runAttendanceRouter(secureGroup, controllers.NewAttendanceController(svc.Attendance, loggers.User))
	runAccessRouter(secureGroup, controllers.NewAccessController(svc.AccessMatrix, engine, loggers.Access), authMW)

	loggers.Main.Info("INIT_ROUTER: Создание маршрутов завершено")
}
