// Файл: pkg/customvalidator/validator.go

package customvalidator

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"hr-system/internal/authz"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RegisterCustomValidations регистрирует правила для DTO: роли, разделы и действия
// отсекаются на границе, до движка доступа.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("role", isRole); err != nil {
		return err
	}
	if err := v.RegisterValidation("feature", isFeature); err != nil {
		return err
	}
	if err := v.RegisterValidation("permission", isPermission); err != nil {
		return err
	}
	if err := v.RegisterValidation("email", isGoodEmailFormat); err != nil {
		return err
	}
	return nil
}

func isGoodEmailFormat(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

func isRole(fl validator.FieldLevel) bool {
	_, err := authz.ParseRole(fl.Field().String())
	return err == nil
}

func isFeature(fl validator.FieldLevel) bool {
	_, err := authz.ParseFeature(fl.Field().String())
	return err == nil
}

func isPermission(fl validator.FieldLevel) bool {
	_, err := authz.ParsePermission(fl.Field().String())
	return err == nil
}
