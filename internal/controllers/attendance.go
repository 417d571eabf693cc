package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hr-system/internal/dto"
	"hr-system/internal/services"
	"hr-system/pkg/api"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/utils"
)

const dateLayout = "2006-01-02"

type AttendanceController struct {
	attendanceService services.AttendanceServiceInterface
	logger            *zap.Logger
}

func NewAttendanceController(attendanceService services.AttendanceServiceInterface, logger *zap.Logger) *AttendanceController {
	return &AttendanceController{attendanceService: attendanceService, logger: logger}
}

func parseDateParam(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Неверный формат даты " + name + ", ожидается ГГГГ-ММ-ДД")
	}
	return &t, nil
}

func (ctrl *AttendanceController) CheckIn(c echo.Context) error {
	var payload dto.CheckInDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Неверный формат данных"), ctrl.logger)
	}

	id, err := ctrl.attendanceService.CheckIn(c.Request().Context(), payload.Note)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, dto.AttendanceIDDTO{ID: id}, "Приход отмечен", http.StatusCreated)
}

func (ctrl *AttendanceController) CheckOut(c echo.Context) error {
	id, err := ctrl.attendanceService.CheckOut(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, dto.AttendanceIDDTO{ID: id}, "Уход отмечен", http.StatusOK)
}

func (ctrl *AttendanceController) GetAttendance(c echo.Context) error {
	params := utils.ParseListParams(c.QueryParams())
	from, err := parseDateParam(c, "from")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	to, err := parseDateParam(c, "to")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	ctx, cancel := utils.ContextWithTimeout(c, dbTimeout)
	defer cancel()

	list, total, err := ctrl.attendanceService.List(ctx, params, from, to)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessList(c, "Табель", list, total, params.Page, params.Limit)
}

func (ctrl *AttendanceController) FindAttendance(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	ctx, cancel := utils.ContextWithTimeout(c, dbTimeout)
	defer cancel()

	record, err := ctrl.attendanceService.Get(ctx, id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return api.SuccessOne(c, http.StatusOK, "Отметка найдена", record)
}
