package events

import (
	"hr-system/internal/authz"
)

const (
	AccessMatrixUpdated = "access_matrix.updated"
	StaffRoleChanged    = "staff.role.changed"
)

// AccessMatrixUpdatedEvent — admin изменил одну ячейку матрицы.
type AccessMatrixUpdatedEvent struct {
	ActorID int64
	Role    authz.Role
	Feature authz.Feature
	Before  authz.PermissionSet
	After   authz.PermissionSet
}

func (e AccessMatrixUpdatedEvent) Name() string { return AccessMatrixUpdated }

// StaffRoleChangedEvent — admin сменил роль сотрудника.
type StaffRoleChangedEvent struct {
	ActorID int64
	UserID  int64
	OldRole authz.Role
	NewRole authz.Role
}

func (e StaffRoleChangedEvent) Name() string { return StaffRoleChanged }
