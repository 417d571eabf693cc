package dto

import "hr-system/internal/authz"

type LoginDTO struct {
	Login    string `json:"login" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type TokensDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// MeDTO — текущий пользователь и его права по разделам, для отрисовки интерфейса.
type MeDTO struct {
	Principal   authz.Principal                       `json:"user"`
	Permissions map[authz.Feature]authz.PermissionSet `json:"permissions"`
}
