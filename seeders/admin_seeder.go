package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"

	"hr-system/internal/authz"
	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/utils"
)

// SeedAdmin создаёт первого администратора. Если пользователь с таким email
// уже есть, ничего не делает.
func SeedAdmin(ctx context.Context, repo repositories.UserRepositoryInterface, login, password, name string) (int64, error) {
	log.Printf("  - Создание администратора %q...", login)

	if len(password) < 8 {
		return 0, fmt.Errorf("пароль администратора короче 8 символов")
	}

	existing, err := repo.FindByEmail(ctx, login)
	if err == nil {
		log.Println("    - Пользователь уже существует. Пропускаем.")
		return existing.ID, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return 0, fmt.Errorf("ошибка при проверке существования пользователя: %w", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return 0, err
	}
	id, err := repo.Create(ctx, entities.User{
		Fio:      name,
		Email:    login,
		Password: hash,
		Role:     authz.RoleAdmin,
		IsActive: true,
	})
	if err != nil {
		return 0, fmt.Errorf("не удалось создать администратора: %w", err)
	}
	log.Printf("    - Администратор создан, ID=%d", id)
	return id, nil
}
