package services

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"hr-system/internal/authz"
	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/internal/events"
	"hr-system/internal/repositories"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/eventbus"
	"hr-system/pkg/utils"
)

type StaffServiceInterface interface {
	List(ctx context.Context, params utils.ListParams) ([]entities.User, uint64, error)
	Get(ctx context.Context, id int64) (*entities.User, error)
	Create(ctx context.Context, payload dto.CreateStaffDTO) (*entities.User, error)
	ChangeRole(ctx context.Context, id int64, role authz.Role) (*entities.User, error)
}

type StaffService struct {
	userRepo repositories.UserRepositoryInterface
	engine   *authz.Engine
	bus      *eventbus.Bus
	logger   *zap.Logger
}

func NewStaffService(
	userRepo repositories.UserRepositoryInterface,
	engine *authz.Engine,
	bus *eventbus.Bus,
	logger *zap.Logger,
) StaffServiceInterface {
	return &StaffService{
		userRepo: userRepo,
		engine:   engine,
		bus:      bus,
		logger:   logger,
	}
}

func (s *StaffService) List(ctx context.Context, params utils.ListParams) ([]entities.User, uint64, error) {
	principal, err := utils.GetPrincipalFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}

	filter := entities.UserFilter{Search: params.Search, Limit: params.Limit, Offset: params.Offset}
	if !principal.IsAdmin() {
		filter.ExcludeRoles = []authz.Role{authz.RoleAdmin}
	}

	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return authz.FilterVisibleRoles(principal, users), total, nil
}

func (s *StaffService) Get(ctx context.Context, id int64) (*entities.User, error) {
	principal, err := utils.GetPrincipalFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, reason := s.engine.ExplainOwnedResource(principal, user.ID, user.Role, authz.FeatureStaff)
	if !ok {
		s.logger.Warn("Отказ в доступе к карточке сотрудника",
			zap.Int64("principalID", principal.ID),
			zap.Int64("userID", id),
			zap.String("reason", reason),
		)
		// Карточка admin для остальных не существует.
		if reason == authz.ReasonAdminPrivacy {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.ErrForbidden
	}
	return user, nil
}

func (s *StaffService) Create(ctx context.Context, payload dto.CreateStaffDTO) (*entities.User, error) {
	principal, err := utils.GetPrincipalFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	role, err := authz.ParseRole(payload.Role)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Неизвестная роль")
	}
	if !s.engine.HasPermission(principal.Role, authz.FeatureStaff, authz.PermCreate) {
		return nil, apperrors.ErrForbidden
	}
	if role == authz.RoleAdmin && !principal.IsAdmin() {
		s.logger.Warn("Попытка создать admin без прав admin", zap.Int64("principalID", principal.ID))
		return nil, apperrors.ErrForbidden
	}

	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}

	id, err := s.userRepo.Create(ctx, entities.User{
		Fio:      payload.Fio,
		Email:    payload.Email,
		Password: hash,
		Role:     role,
		Position: payload.Position,
		IsActive: true,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, apperrors.NewHttpError(http.StatusConflict, "Сотрудник с таким email уже существует", err, map[string]interface{}{"email": payload.Email})
		}
		return nil, err
	}
	return s.userRepo.FindByID(ctx, id)
}

// ChangeRole — только admin и только для чужой учётной записи.
func (s *StaffService) ChangeRole(ctx context.Context, id int64, role authz.Role) (*entities.User, error) {
	principal, err := utils.GetPrincipalFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !principal.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	if !role.Valid() {
		return nil, apperrors.NewBadRequestError("Неизвестная роль")
	}
	if id == principal.ID {
		return nil, apperrors.NewBadRequestError("Нельзя сменить собственную роль")
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return user, nil
	}

	if err := s.userRepo.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}
	s.bus.Publish(events.StaffRoleChangedEvent{
		ActorID: principal.ID,
		UserID:  id,
		OldRole: user.Role,
		NewRole: role,
	})

	user.Role = role
	return user, nil
}
