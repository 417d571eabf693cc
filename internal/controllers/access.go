package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hr-system/internal/authz"
	"hr-system/internal/dto"
	"hr-system/internal/services"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/utils"
)

type AccessController struct {
	matrixService services.AccessMatrixServiceInterface
	engine        *authz.Engine
	logger        *zap.Logger
}

func NewAccessController(matrixService services.AccessMatrixServiceInterface, engine *authz.Engine, logger *zap.Logger) *AccessController {
	return &AccessController{
		matrixService: matrixService,
		engine:        engine,
		logger:        logger,
	}
}

// MyAccess — права текущего пользователя по всем разделам.
func (ctrl *AccessController) MyAccess(c echo.Context) error {
	principal, err := utils.GetPrincipalFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, ctrl.engine.Permissions(principal.Role), "Права доступа", http.StatusOK)
}

// Check отвечает на вопрос "можно ли мне" без выполнения действия.
// Без permission проверяется доступ к разделу в целом.
func (ctrl *AccessController) Check(c echo.Context) error {
	principal, err := utils.GetPrincipalFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.AccessCheckDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Неверный формат данных"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	feature, err := authz.ParseFeature(payload.Feature)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	result := dto.AccessCheckResultDTO{Feature: feature.String()}

	if payload.Permission == "" {
		result.Allowed = ctrl.engine.HasFeatureAccess(principal.Role, feature)
	} else {
		permission, err := authz.ParsePermission(payload.Permission)
		if err != nil {
			return utils.ErrorResponse(c, err, ctrl.logger)
		}
		result.Permission = permission.String()
		result.Allowed = ctrl.engine.HasPermission(principal.Role, feature, permission)
	}
	return utils.SuccessResponse(c, result, "Проверка доступа", http.StatusOK)
}

func (ctrl *AccessController) GetMatrix(c echo.Context) error {
	m := ctrl.matrixService.Current()
	if m == nil {
		return utils.ErrorResponse(c, apperrors.ErrInternalServer, ctrl.logger)
	}
	return utils.SuccessResponse(c, dto.NewMatrixDTO(m), "Матрица доступа", http.StatusOK)
}

func (ctrl *AccessController) UpdateCell(c echo.Context) error {
	principal, err := utils.GetPrincipalFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	role, err := authz.ParseRole(c.Param("role"))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	feature, err := authz.ParseFeature(c.Param("feature"))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.UpdateCellDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Неверный формат данных"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	perms, err := authz.ParsePermissionSet(payload.Permissions)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	m, err := ctrl.matrixService.UpdateCell(c.Request().Context(), principal, role, feature, perms)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, dto.NewMatrixDTO(m), "Матрица доступа обновлена", http.StatusOK)
}
