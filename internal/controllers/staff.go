package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hr-system/internal/authz"
	"hr-system/internal/dto"
	"hr-system/internal/services"
	"hr-system/pkg/api"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/utils"
)

// dbTimeout — сколько секунд запрос может ждать БД.
const dbTimeout = 5

type StaffController struct {
	staffService services.StaffServiceInterface
	logger       *zap.Logger
}

func NewStaffController(staffService services.StaffServiceInterface, logger *zap.Logger) *StaffController {
	return &StaffController{staffService: staffService, logger: logger}
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequestError("Неверный ID")
	}
	return id, nil
}

func (ctrl *StaffController) GetStaff(c echo.Context) error {
	params := utils.ParseListParams(c.QueryParams())
	ctx, cancel := utils.ContextWithTimeout(c, dbTimeout)
	defer cancel()

	users, total, err := ctrl.staffService.List(ctx, params)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessList(c, "Список сотрудников", dto.NewStaffList(users), total, params.Page, params.Limit)
}

func (ctrl *StaffController) FindStaff(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	ctx, cancel := utils.ContextWithTimeout(c, dbTimeout)
	defer cancel()

	user, err := ctrl.staffService.Get(ctx, id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Сотрудник найден", dto.NewStaffDTO(*user))
}

func (ctrl *StaffController) CreateStaff(c echo.Context) error {
	var payload dto.CreateStaffDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Неверный формат данных"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	user, err := ctrl.staffService.Create(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusCreated, "Сотрудник создан", dto.NewStaffDTO(*user))
}

func (ctrl *StaffController) ChangeRole(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var payload dto.ChangeRoleDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Неверный формат данных"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	role, err := authz.ParseRole(payload.Role)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	user, err := ctrl.staffService.ChangeRole(c.Request().Context(), id, role)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Роль изменена", dto.NewStaffDTO(*user))
}
