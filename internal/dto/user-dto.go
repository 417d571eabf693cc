package dto

import (
	"time"

	"github.com/aarondl/null/v8"

	"hr-system/internal/authz"
	"hr-system/internal/entities"
)

type CreateStaffDTO struct {
	Fio      string      `json:"fio" validate:"required,min=2,max=200"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=8"`
	Role     string      `json:"role" validate:"required,role"`
	Position null.String `json:"position"`
}

type ChangeRoleDTO struct {
	Role string `json:"role" validate:"required,role"`
}

type StaffDTO struct {
	ID        int64       `json:"id"`
	Fio       string      `json:"fio"`
	Email     string      `json:"email"`
	Role      authz.Role  `json:"role"`
	Position  null.String `json:"position"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
}

func NewStaffDTO(u entities.User) StaffDTO {
	return StaffDTO{
		ID:        u.ID,
		Fio:       u.Fio,
		Email:     u.Email,
		Role:      u.Role,
		Position:  u.Position,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func NewStaffList(users []entities.User) []StaffDTO {
	out := make([]StaffDTO, len(users))
	for i, u := range users {
		out[i] = NewStaffDTO(u)
	}
	return out
}
