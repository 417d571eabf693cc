package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-system/internal/authz"
	apperrors "hr-system/pkg/errors"
)

func TestStoredRole(t *testing.T) {
	role, err := storedRole("пользователь", 1, "hr_manager")
	require.NoError(t, err)
	assert.Equal(t, authz.RoleHRManager, role)

	_, err = storedRole("пользователь", 7, "superuser")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCorruptData)
	assert.NotErrorIs(t, err, authz.ErrInvalidInput, "порча данных не должна выглядеть как ошибка клиента")
	assert.Contains(t, err.Error(), "7")
}
