package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"hr-system/internal/authz"
	"hr-system/internal/events"
	"hr-system/internal/repositories"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/eventbus"
)

const accessMatrixCacheKey = "auth:access_matrix"

type AccessMatrixServiceInterface interface {
	Load(ctx context.Context) error
	Current() *authz.Matrix
	UpdateCell(ctx context.Context, actor authz.Principal, role authz.Role, feature authz.Feature, perms authz.PermissionSet) (*authz.Matrix, error)
	Run(ctx context.Context, interval time.Duration)
}

// AccessMatrixService держит матрицу доступа в движке в актуальном состоянии:
// Redis → БД → (пустая БД) матрица по умолчанию.
type AccessMatrixService struct {
	engine    *authz.Engine
	repo      repositories.AccessMatrixRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	bus       *eventbus.Bus
	logger    *zap.Logger
	cacheTTL  time.Duration

	// Загрузка и правка ячейки не должны перемежаться.
	mu sync.Mutex
}

func NewAccessMatrixService(
	engine *authz.Engine,
	repo repositories.AccessMatrixRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *AccessMatrixService {
	return &AccessMatrixService{
		engine:    engine,
		repo:      repo,
		cacheRepo: cacheRepo,
		bus:       bus,
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

func (s *AccessMatrixService) Current() *authz.Matrix {
	return s.engine.Matrix()
}

// Load собирает матрицу и ставит её в движок. Невалидная матрица не ставится,
// движок продолжает работать со старой.
func (s *AccessMatrixService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *AccessMatrixService) load(ctx context.Context) error {
	if m, ok := s.fromCache(ctx); ok {
		if err := s.engine.Swap(m); err == nil {
			return nil
		}
		s.logger.Warn("Матрица из кеша не прошла проверку, читаем из БД")
	}
	return s.loadFromDB(ctx)
}

// loadFromDB читает матрицу из БД мимо кеша, ставит её в движок и кладёт в кеш.
func (s *AccessMatrixService) loadFromDB(ctx context.Context) error {
	cells, err := s.repo.LoadAll(ctx)
	if err != nil {
		s.logger.Error("Не удалось прочитать матрицу доступа из БД", zap.Error(err))
		return err
	}

	var m *authz.Matrix
	if len(cells) == 0 {
		s.logger.Warn("Матрица доступа в БД пуста, записываем матрицу по умолчанию")
		if m, err = authz.DefaultMatrix(); err != nil {
			return err
		}
		if err := s.repo.ReplaceAll(ctx, m.Cells()); err != nil {
			return err
		}
	} else if m, err = authz.NewMatrixFromCells(cells); err != nil {
		s.logger.Error("Матрица доступа в БД неполная, оставляем текущую", zap.Error(err))
		return err
	}

	if err := s.engine.Swap(m); err != nil {
		return err
	}
	s.toCache(ctx, m)
	s.logger.Debug("Матрица доступа загружена из БД", zap.Int("cells", len(cells)))
	return nil
}

func (s *AccessMatrixService) fromCache(ctx context.Context) (*authz.Matrix, bool) {
	raw, err := s.cacheRepo.Get(ctx, accessMatrixCacheKey)
	if err != nil {
		if !errors.Is(err, repositories.ErrCacheMiss) {
			s.logger.Warn("Ошибка чтения матрицы из кеша", zap.Error(err))
		}
		return nil, false
	}
	var cells []authz.Cell
	if err := json.Unmarshal([]byte(raw), &cells); err != nil {
		s.logger.Warn("Ошибка десериализации матрицы из кеша", zap.Error(err))
		return nil, false
	}
	m, err := authz.NewMatrixFromCells(cells)
	if err != nil {
		s.logger.Warn("Матрица в кеше повреждена", zap.Error(err))
		return nil, false
	}
	return m, true
}

func (s *AccessMatrixService) toCache(ctx context.Context, m *authz.Matrix) {
	data, err := json.Marshal(m.Cells())
	if err != nil {
		s.logger.Error("Не удалось сериализовать матрицу для кеша", zap.Error(err))
		return
	}
	if err := s.cacheRepo.Set(ctx, accessMatrixCacheKey, string(data), s.cacheTTL); err != nil {
		s.logger.Error("Не удалось сохранить матрицу в кеш", zap.Error(err))
	}
}

// UpdateCell меняет одну ячейку. Только для admin; строку admin менять нельзя.
func (s *AccessMatrixService) UpdateCell(ctx context.Context, actor authz.Principal, role authz.Role, feature authz.Feature, perms authz.PermissionSet) (*authz.Matrix, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	if !role.Valid() || !feature.Valid() {
		return nil, apperrors.NewInvalidInputError("неизвестная роль или раздел")
	}
	if role == authz.RoleAdmin {
		return nil, apperrors.ErrAdminRowLocked
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.engine.Matrix()
	if current == nil {
		return nil, fmt.Errorf("матрица доступа не загружена: %w", apperrors.ErrInternalServer)
	}
	before, _ := current.Lookup(role, feature)
	if _, err := current.WithCell(role, feature, perms); err != nil {
		return nil, err
	}

	cell := authz.Cell{Role: role, Feature: feature, Permissions: perms}
	if err := s.repo.Upsert(ctx, cell, actor.ID); err != nil {
		s.logger.Error("Не удалось сохранить ячейку матрицы", zap.Error(err))
		return nil, err
	}
	if err := s.cacheRepo.Del(ctx, accessMatrixCacheKey); err != nil {
		s.logger.Error("Ошибка инвалидации кеша матрицы", zap.Error(err))
	}
	// Локальный снимок может отставать от БД на интервал перезагрузки,
	// поэтому новая матрица собирается из БД, а не из s.engine.Matrix().
	if err := s.loadFromDB(ctx); err != nil {
		return nil, err
	}
	next := s.engine.Matrix()

	s.bus.Publish(events.AccessMatrixUpdatedEvent{
		ActorID: actor.ID,
		Role:    role,
		Feature: feature,
		Before:  before,
		After:   perms,
	})
	return next, nil
}

// Run перечитывает матрицу раз в interval, пока не отменён ctx.
// Так правки, сделанные на другом экземпляре, доходят до этого.
func (s *AccessMatrixService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Load(ctx); err != nil {
				s.logger.Error("Периодическая перезагрузка матрицы не удалась", zap.Error(err))
			}
		}
	}
}
