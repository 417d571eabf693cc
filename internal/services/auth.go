package services

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"hr-system/internal/authz"
	"hr-system/internal/dto"
	"hr-system/internal/repositories"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/service"
	"hr-system/pkg/utils"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokensDTO, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokensDTO, error)
	ResolvePrincipal(ctx context.Context, userID int64) (authz.Principal, error)
}

// dummyPasswordHash сравнивается с паролем, когда пользователь не найден:
// время ответа не должно выдавать, есть ли такая учётная запись.
var dummyPasswordHash = sync.OnceValue(func() string {
	hash, err := utils.HashPassword("hr-system-dummy-password")
	if err != nil {
		panic(err)
	}
	return hash
})

type AuthService struct {
	userRepo   repositories.UserRepositoryInterface
	jwtService service.JWTService
	logger     *zap.Logger
	compare    func(hash, plain string) error
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	jwtService service.JWTService,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
		compare:    utils.ComparePasswords,
	}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokensDTO, error) {
	logger := s.logger.With(zap.String("login", payload.Login))

	user, err := s.userRepo.FindByEmail(ctx, payload.Login)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			_ = s.compare(dummyPasswordHash(), payload.Password)
			logger.Warn("Попытка входа несуществующего пользователя")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.compare(user.Password, payload.Password); err != nil {
		logger.Warn("Неверный пароль", zap.Int64("userID", user.ID))
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		logger.Warn("Попытка входа заблокированного пользователя", zap.Int64("userID", user.ID))
		return nil, apperrors.ErrInvalidCredentials
	}

	logger.Info("Успешный вход", zap.Int64("userID", user.ID), zap.String("role", user.Role.String()))
	return s.issue(user.ID)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokensDTO, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}
	// Пользователя могли заблокировать после выдачи токена.
	if _, err := s.ResolvePrincipal(ctx, claims.UserID); err != nil {
		return nil, err
	}
	return s.issue(claims.UserID)
}

// ResolvePrincipal загружает пользователя по ID из токена. Роль всегда берётся
// из БД, а не из токена: смена роли действует сразу.
func (s *AuthService) ResolvePrincipal(ctx context.Context, userID int64) (authz.Principal, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return authz.Principal{}, apperrors.ErrUnauthorized
		}
		return authz.Principal{}, err
	}
	if !user.IsActive {
		return authz.Principal{}, apperrors.ErrUnauthorized
	}
	return user.Principal(), nil
}

func (s *AuthService) issue(userID int64) (*dto.TokensDTO, error) {
	access, refresh, err := s.jwtService.GenerateTokens(userID)
	if err != nil {
		s.logger.Error("Не удалось выпустить токены", zap.Int64("userID", userID), zap.Error(err))
		return nil, apperrors.ErrInternalServer
	}
	return &dto.TokensDTO{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwtService.GetAccessTokenTTL().Seconds()),
	}, nil
}
