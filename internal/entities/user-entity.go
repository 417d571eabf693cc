// Файл: internal/entities/user-entity.go
package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	"hr-system/internal/authz"
)

type User struct {
	ID       int64       `json:"id" db:"id"`
	Fio      string      `json:"fio" db:"fio"`
	Email    string      `json:"email" db:"email"`
	Password string      `json:"-" db:"password"`
	Role     authz.Role  `json:"role" db:"role"`
	Position null.String `json:"position" db:"position"`
	IsActive bool        `json:"is_active" db:"is_active"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (u User) OwnerRole() authz.Role { return u.Role }

// Principal — представление пользователя для движка доступа.
func (u User) Principal() authz.Principal {
	return authz.Principal{ID: u.ID, Role: u.Role, Name: u.Fio}
}

// UserFilter — фильтр списка сотрудников.
type UserFilter struct {
	Search       string
	ExcludeRoles []authz.Role
	Limit        uint64
	Offset       uint64
}

// RoleNames — роли строками, как они лежат в БД.
func RoleNames(roles []authz.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = r.String()
	}
	return out
}
