package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"hr-system/internal/authz"
	"hr-system/internal/listeners"
	"hr-system/internal/routes"
	"hr-system/pkg/config"
	"hr-system/pkg/customvalidator"
	"hr-system/pkg/database/postgresql"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/eventbus"
	applogger "hr-system/pkg/logger"
	appmiddleware "hr-system/pkg/middleware"
	"hr-system/pkg/service"
	"hr-system/pkg/utils"
)

func main() {
	// 1. Конфиг и логгер
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level, cfg.Log.File)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Echo и middleware
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(appmiddleware.InjectLogger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, appmiddleware.RequestIDHeader},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentDisposition, appmiddleware.RequestIDHeader},
	}))

	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		logger.Fatal("Ошибка регистрации кастомных правил валидации", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	// 3. Postgres и Redis
	dbConn := postgresql.ConnectDB(cfg.Postgres.DSN, logger)
	defer dbConn.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}

	// 4. Движок доступа, шина событий, сервисы
	engine := authz.NewEngine()
	bus := eventbus.New(logger)
	listeners.NewAuditListener(logger).Register(bus)

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL, logger)
	loggers := &routes.Loggers{
		Main:   logger,
		Auth:   logger.Named("auth"),
		User:   logger.Named("staff"),
		Access: logger.Named("access"),
	}
	svc := routes.BuildServices(dbConn, redisClient, engine, bus, jwtSvc, loggers, cfg)

	// Без матрицы движок отказывает всем, поэтому стартовать без неё нельзя.
	if err := svc.AccessMatrix.Load(ctx); err != nil {
		logger.Fatal("Не удалось загрузить матрицу доступа", zap.Error(err))
	}
	go svc.AccessMatrix.Run(ctx, cfg.Access.RefreshInterval)

	routes.InitRouter(e, svc, engine, jwtSvc, loggers)

	// 5. Запуск и корректная остановка
	go func() {
		logger.Info("🚀 Сервер запущен", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Остановка сервера...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", zap.Error(err))
	}
	bus.Wait()
}
