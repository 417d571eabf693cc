package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hr-system/internal/authz"
	"hr-system/internal/dto"
	"hr-system/internal/services"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/utils"
)

const refreshCookieName = "refreshToken"

type AuthController struct {
	authService services.AuthServiceInterface
	engine      *authz.Engine
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, engine *authz.Engine, logger *zap.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		engine:      engine,
		logger:      logger,
	}
}

func (ctrl *AuthController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO

	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Error("Login: ошибка привязки данных", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewBadRequestError("Неверный формат данных для входа"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	tokens, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	ctrl.setRefreshCookie(c, tokens.RefreshToken)
	return utils.SuccessResponse(c, tokens, "Авторизация прошла успешно", http.StatusOK)
}

// RefreshToken принимает refresh-токен из тела или из cookie.
func (ctrl *AuthController) RefreshToken(c echo.Context) error {
	var payload dto.RefreshTokenDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.ErrBadRequest)
	}
	if payload.RefreshToken == "" {
		if cookie, err := c.Cookie(refreshCookieName); err == nil {
			payload.RefreshToken = cookie.Value
		}
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.ErrUnauthorized)
	}

	tokens, err := ctrl.authService.Refresh(c.Request().Context(), payload.RefreshToken)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	ctrl.setRefreshCookie(c, tokens.RefreshToken)
	return utils.SuccessResponse(c, tokens, "Токены успешно обновлены", http.StatusOK)
}

func (ctrl *AuthController) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	return utils.SuccessResponse(c, nil, "Вы успешно вышли из системы.", http.StatusOK)
}

func (ctrl *AuthController) Me(c echo.Context) error {
	principal, err := utils.GetPrincipalFromCtx(c.Request().Context())
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	response := dto.MeDTO{
		Principal:   principal,
		Permissions: ctrl.engine.Permissions(principal.Role),
	}
	return utils.SuccessResponse(c, response, "Профиль пользователя успешно получен", http.StatusOK)
}

func (ctrl *AuthController) setRefreshCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
