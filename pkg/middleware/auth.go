package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hr-system/internal/authz"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/service"
	"hr-system/pkg/utils"
)

// DeniedRedirect — куда интерфейс уводит пользователя после отказа в доступе.
const DeniedRedirect = "/dashboard"

// PrincipalResolver загружает актуального пользователя по ID из токена.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, userID int64) (authz.Principal, error)
}

// DeniedDetails — тело ответа 403, по нему интерфейс показывает уведомление и делает редирект.
type DeniedDetails struct {
	Redirect   string `json:"redirect"`
	Feature    string `json:"feature,omitempty"`
	Permission string `json:"permission,omitempty"`
}

type AuthMiddleware struct {
	jwtService service.JWTService
	resolver   PrincipalResolver
	engine     *authz.Engine
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, resolver PrincipalResolver, engine *authz.Engine, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		resolver:   resolver,
		engine:     engine,
		logger:     logger,
	}
}

// Auth - это основная функция middleware.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// 1. Извлекаем токен из заголовка
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			m.logger.Warn("AuthMiddleware: Пустой заголовок Authorization")
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		// 2. Проверяем формат заголовка "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: Неверный формат заголовка Authorization")
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		// 3. Валидируем токен
		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("AuthMiddleware: Ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		// 4. Убеждаемся, что это не refresh токен
		if claims.IsRefreshToken {
			m.logger.Warn("AuthMiddleware: Попытка доступа с refresh токеном")
			return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess, m.logger)
		}

		// 5. Роль берём из БД, а не из токена
		ctx := c.Request().Context()
		principal, err := m.resolver.ResolvePrincipal(ctx, claims.UserID)
		if err != nil {
			m.logger.Warn("AuthMiddleware: Пользователь токена недоступен", zap.Int64("userID", claims.UserID), zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		c.SetRequest(c.Request().WithContext(utils.WithPrincipal(ctx, principal)))
		m.logger.Debug("AuthMiddleware: Пользователь аутентифицирован",
			zap.Int64("userID", principal.ID),
			zap.String("role", principal.Role.String()),
		)
		return next(c)
	}
}

// RequireFeature пропускает, если у роли есть хоть какое-то действие в разделе.
func (m *AuthMiddleware) RequireFeature(feature authz.Feature) echo.MiddlewareFunc {
	return m.guard(feature, 0, func(p authz.Principal) bool {
		return m.engine.HasFeatureAccess(p.Role, feature)
	})
}

func (m *AuthMiddleware) RequirePermission(feature authz.Feature, permission authz.Permission) echo.MiddlewareFunc {
	return m.guard(feature, permission, func(p authz.Principal) bool {
		return m.engine.HasPermission(p.Role, feature, permission)
	})
}

// RequireAdmin — для действий, которые матрица не выдаёт никому, кроме admin.
func (m *AuthMiddleware) RequireAdmin() echo.MiddlewareFunc {
	return m.guard(0, 0, func(p authz.Principal) bool {
		return p.IsAdmin()
	})
}

func (m *AuthMiddleware) guard(feature authz.Feature, permission authz.Permission, allowed func(authz.Principal) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, err := utils.GetPrincipalFromCtx(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, err, m.logger)
			}
			if allowed(principal) {
				return next(c)
			}

			details := DeniedDetails{Redirect: DeniedRedirect}
			if feature.Valid() {
				details.Feature = feature.String()
			}
			if permission.Valid() {
				details.Permission = permission.String()
			}
			m.logger.Warn("Доступ запрещён",
				zap.Int64("userID", principal.ID),
				zap.String("role", principal.Role.String()),
				zap.String("feature", details.Feature),
				zap.String("permission", details.Permission),
				zap.String("path", c.Path()),
			)
			return utils.ErrorResponse(c, apperrors.NewForbiddenError("У вас нет доступа к этому разделу", details), m.logger)
		}
	}
}
