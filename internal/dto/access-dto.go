package dto

import "hr-system/internal/authz"

type AccessCheckDTO struct {
	Feature    string `json:"feature" validate:"required,feature"`
	Permission string `json:"permission" validate:"omitempty,permission"`
}

type AccessCheckResultDTO struct {
	Feature    string `json:"feature"`
	Permission string `json:"permission,omitempty"`
	Allowed    bool   `json:"allowed"`
}

type UpdateCellDTO struct {
	Permissions []string `json:"permissions" validate:"dive,permission"`
}

// MatrixDTO — вся матрица: роль → раздел → действия.
type MatrixDTO struct {
	Roles       []authz.Role       `json:"roles"`
	Features    []authz.Feature    `json:"features"`
	Permissions []authz.Permission `json:"permissions"`
	Cells       []authz.Cell       `json:"cells"`
}

func NewMatrixDTO(m *authz.Matrix) MatrixDTO {
	return MatrixDTO{
		Roles:       authz.Roles(),
		Features:    authz.Features(),
		Permissions: authz.Permissions(),
		Cells:       m.Cells(),
	}
}
