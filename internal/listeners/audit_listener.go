package listeners

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"hr-system/internal/events"
	"hr-system/pkg/eventbus"
)

// AuditListener пишет в отдельный лог все изменения прав.
type AuditListener struct {
	logger *zap.Logger
}

func NewAuditListener(logger *zap.Logger) *AuditListener {
	return &AuditListener{logger: logger.Named("audit")}
}

func (l *AuditListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.AccessMatrixUpdated, l.Handle)
	bus.Subscribe(events.StaffRoleChanged, l.Handle)
}

func (l *AuditListener) Handle(ctx context.Context, event eventbus.Event) error {
	switch e := event.(type) {
	case events.AccessMatrixUpdatedEvent:
		l.logger.Info("Изменена матрица доступа",
			zap.Int64("actorID", e.ActorID),
			zap.Stringer("role", e.Role),
			zap.Stringer("feature", e.Feature),
			zap.Stringer("before", e.Before),
			zap.Stringer("after", e.After),
		)
	case events.StaffRoleChangedEvent:
		l.logger.Info("Изменена роль сотрудника",
			zap.Int64("actorID", e.ActorID),
			zap.Int64("userID", e.UserID),
			zap.Stringer("oldRole", e.OldRole),
			zap.Stringer("newRole", e.NewRole),
		)
	default:
		return fmt.Errorf("аудит: неожиданное событие %s", event.Name())
	}
	return nil
}
