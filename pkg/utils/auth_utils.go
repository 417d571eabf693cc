package utils

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"hr-system/internal/authz"
	"hr-system/pkg/contextkeys"
	apperrors "hr-system/pkg/errors"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("не удалось хешировать пароль: %w", err)
	}
	return string(bytes), nil
}

func ComparePasswords(hashedPassword string, plainPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
}

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator(v *validator.Validate) *CustomValidator {
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// WithPrincipal кладёт аутентифицированного пользователя в контекст.
func WithPrincipal(ctx context.Context, p authz.Principal) context.Context {
	return context.WithValue(ctx, contextkeys.PrincipalKey, p)
}

// GetPrincipalFromCtx достаёт пользователя, положенного AuthMiddleware.
// Отсутствие — 401: движок доступа не работает без principal.
func GetPrincipalFromCtx(ctx context.Context) (authz.Principal, error) {
	p, ok := ctx.Value(contextkeys.PrincipalKey).(authz.Principal)
	if !ok || p.ID <= 0 {
		return authz.Principal{}, apperrors.ErrPrincipalNotFoundInContext
	}
	return p, nil
}
