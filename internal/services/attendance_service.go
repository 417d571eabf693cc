package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"hr-system/internal/authz"
	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/utils"
)

type AttendanceServiceInterface interface {
	CheckIn(ctx context.Context, note null.String) (int64, error)
	CheckOut(ctx context.Context) (int64, error)
	List(ctx context.Context, params utils.ListParams, from, to *time.Time) ([]entities.Attendance, uint64, error)
	Get(ctx context.Context, id int64) (*entities.Attendance, error)
}

type AttendanceService struct {
	repo   repositories.AttendanceRepositoryInterface
	engine *authz.Engine
	logger *zap.Logger
	now    func() time.Time
}

func NewAttendanceService(
	repo repositories.AttendanceRepositoryInterface,
	engine *authz.Engine,
	logger *zap.Logger,
) AttendanceServiceInterface {
	return &AttendanceService{
		repo:   repo,
		engine: engine,
		logger: logger,
		now:    time.Now,
	}
}

// CheckIn — отметка прихода за себя. Своя запись доступна всегда, матрица не нужна.
func (s *AttendanceService) CheckIn(ctx context.Context, note null.String) (int64, error) {
	principal, err := utils.GetPrincipalFromCtx(ctx)
	if err != nil {
		return 0, err
	}
	id, err := s.repo.CheckIn(ctx, principal.ID, s.now(), note)
	if errors.Is(err, apperrors.ErrAlreadyExists) {
		return 0, apperrors.NewHttpError(http.StatusConflict, "Приход за сегодня уже отмечен", err, nil)
	}
	if err != nil {
		return 0, err
	}
	s.logger.Info("Отметка прихода", zap.Int64("userID", principal.ID), zap.Int64("attendanceID", id))
	return id, nil
}

func (s *AttendanceService) CheckOut(ctx context.Context) (int64, error) {
	principal, err := utils.GetPrincipalFromCtx(ctx)
	if err != nil {
		return 0, err
	}
	id, err := s.repo.CheckOut(ctx, principal.ID, s.now())
	if errors.Is(err, apperrors.ErrNotFound) {
		return 0, apperrors.NewHttpError(http.StatusConflict, "Нет открытой отметки прихода за сегодня", err, nil)
	}
	if err != nil {
		return 0, err
	}
	s.logger.Info("Отметка ухода", zap.Int64("userID", principal.ID), zap.Int64("attendanceID", id))
	return id, nil
}

// List: с view или manage на табель видны все (кроме строк admin для не-admin),
// без них — только свои строки.
func (s *AttendanceService) List(ctx context.Context, params utils.ListParams, from, to *time.Time) ([]entities.Attendance, uint64, error) {
	principal, err := utils.GetPrincipalFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}

	filter := entities.AttendanceFilter{DateFrom: from, DateTo: to, Limit: params.Limit, Offset: params.Offset}
	seesAll := s.engine.HasPermission(principal.Role, authz.FeatureAttendance, authz.PermView) ||
		s.engine.HasPermission(principal.Role, authz.FeatureAttendance, authz.PermManage)
	switch {
	case !seesAll:
		filter.OwnerID = &principal.ID
	case !principal.IsAdmin():
		filter.ExcludeRoles = []authz.Role{authz.RoleAdmin}
	}

	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return authz.FilterVisibleRoles(principal, list), total, nil
}

func (s *AttendanceService) Get(ctx context.Context, id int64) (*entities.Attendance, error) {
	principal, err := utils.GetPrincipalFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, reason := s.engine.ExplainOwnedResource(principal, record.UserID, record.UserRole, authz.FeatureAttendance)
	if !ok {
		s.logger.Warn("Отказ в доступе к отметке",
			zap.Int64("principalID", principal.ID),
			zap.Int64("attendanceID", id),
			zap.String("reason", reason),
		)
		if reason == authz.ReasonAdminPrivacy {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.ErrForbidden
	}
	return record, nil
}
