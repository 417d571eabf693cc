// internal/authz/permissions.go
package authz

import (
	"fmt"
	"strings"
)

// --- РОЛИ, РАЗДЕЛЫ И ДЕЙСТВИЯ ---
// Нулевое значение каждого типа — невалидное, чтобы "забытое" поле не стало доступом.

type Role uint8

const (
	RoleAdmin Role = iota + 1
	RoleProjectManager
	RoleEngineer
	RoleAdminStaff
	RoleHRManager
	RoleGeneralManager

	roleCount = int(RoleGeneralManager)
)

var roleNames = [...]string{
	RoleAdmin:          "admin",
	RoleProjectManager: "project_manager",
	RoleEngineer:       "engineer",
	RoleAdminStaff:     "admin_staff",
	RoleHRManager:      "hr_manager",
	RoleGeneralManager: "general_manager",
}

type Feature uint8

const (
	FeatureDashboard Feature = iota + 1
	FeatureProjects
	FeatureStaff
	FeatureClients
	FeatureAttendance
	FeatureReports
	FeatureSettings
	FeatureTasks
	FeatureResidency

	featureCount = int(FeatureResidency)
)

var featureNames = [...]string{
	FeatureDashboard:  "dashboard",
	FeatureProjects:   "projects",
	FeatureStaff:      "staff",
	FeatureClients:    "clients",
	FeatureAttendance: "attendance",
	FeatureReports:    "reports",
	FeatureSettings:   "settings",
	FeatureTasks:      "tasks",
	FeatureResidency:  "residency",
}

// Permission — независимый флаг. manage НЕ включает view/create/edit/delete.
type Permission uint8

const (
	PermView Permission = iota + 1
	PermCreate
	PermEdit
	PermDelete
	PermManage

	permissionCount = int(PermManage)
)

var permissionNames = [...]string{
	PermView:   "view",
	PermCreate: "create",
	PermEdit:   "edit",
	PermDelete: "delete",
	PermManage: "manage",
}

// Roles возвращает все роли в порядке объявления.
func Roles() []Role {
	out := make([]Role, 0, roleCount)
	for i := 1; i <= roleCount; i++ {
		out = append(out, Role(i))
	}
	return out
}

// Features возвращает все разделы в порядке объявления.
func Features() []Feature {
	out := make([]Feature, 0, featureCount)
	for i := 1; i <= featureCount; i++ {
		out = append(out, Feature(i))
	}
	return out
}

// Permissions возвращает все действия в порядке объявления.
func Permissions() []Permission {
	out := make([]Permission, 0, permissionCount)
	for i := 1; i <= permissionCount; i++ {
		out = append(out, Permission(i))
	}
	return out
}

func (r Role) Valid() bool       { return r >= 1 && int(r) <= roleCount }
func (f Feature) Valid() bool    { return f >= 1 && int(f) <= featureCount }
func (p Permission) Valid() bool { return p >= 1 && int(p) <= permissionCount }

func (r Role) String() string {
	if !r.Valid() {
		return fmt.Sprintf("role(%d)", uint8(r))
	}
	return roleNames[r]
}

func (f Feature) String() string {
	if !f.Valid() {
		return fmt.Sprintf("feature(%d)", uint8(f))
	}
	return featureNames[f]
}

func (p Permission) String() string {
	if !p.Valid() {
		return fmt.Sprintf("permission(%d)", uint8(p))
	}
	return permissionNames[p]
}

// ParseRole — разбор роли на границе системы (HTTP, БД).
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i := 1; i <= roleCount; i++ {
		if roleNames[i] == s {
			return Role(i), nil
		}
	}
	return 0, fmt.Errorf("%w: неизвестная роль %q", ErrInvalidInput, s)
}

func ParseFeature(s string) (Feature, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i := 1; i <= featureCount; i++ {
		if featureNames[i] == s {
			return Feature(i), nil
		}
	}
	return 0, fmt.Errorf("%w: неизвестный раздел %q", ErrInvalidInput, s)
}

func ParsePermission(s string) (Permission, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i := 1; i <= permissionCount; i++ {
		if permissionNames[i] == s {
			return Permission(i), nil
		}
	}
	return 0, fmt.Errorf("%w: неизвестное действие %q", ErrInvalidInput, s)
}

// MarshalText / UnmarshalText — роли, разделы и действия ходят в JSON и БД строками.

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, r)
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	v, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

func (f Feature) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, f)
	}
	return []byte(f.String()), nil
}

func (f *Feature) UnmarshalText(b []byte) error {
	v, err := ParseFeature(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (p Permission) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, p)
	}
	return []byte(p.String()), nil
}

func (p *Permission) UnmarshalText(b []byte) error {
	v, err := ParsePermission(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
