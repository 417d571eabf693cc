package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hr-system/internal/authz"
	"hr-system/internal/entities"
	apperrors "hr-system/pkg/errors"
)

var testPool *pgxpool.Pool

// TestMain подключается к тестовой БД из TEST_DATABASE_URL и применяет схему.
// Без переменной интеграционные тесты пропускаются.
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn != "" {
		var err error
		testPool, err = pgxpool.New(context.Background(), dsn)
		if err != nil {
			panic(err)
		}
		applySchema(testPool)
	}

	code := m.Run()
	if testPool != nil {
		testPool.Close()
	}
	os.Exit(code)
}

func applySchema(pool *pgxpool.Pool) {
	path, _ := filepath.Abs("../../testdata/schema.sql")
	schema, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	if _, err := pool.Exec(context.Background(), string(schema)); err != nil {
		panic(err)
	}
}

func requireDB(t *testing.T) {
	t.Helper()
	if testPool == nil {
		t.Skip("TEST_DATABASE_URL не задан")
	}
	_, err := testPool.Exec(context.Background(), `TRUNCATE TABLE attendance, access_matrix, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "Не удалось очистить таблицы")
}

func TestUserRepository_Integration(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewUserRepository(testPool, zap.NewNop())

	adminID, err := repo.Create(ctx, entities.User{Fio: "Админ", Email: "Admin@Corp.tj", Password: "x", Role: authz.RoleAdmin, IsActive: true})
	require.NoError(t, err)
	_, err = repo.Create(ctx, entities.User{Fio: "Инженер", Email: "eng@corp.tj", Password: "x", Role: authz.RoleEngineer, Position: null.StringFrom("Бэкенд"), IsActive: true})
	require.NoError(t, err)

	_, err = repo.Create(ctx, entities.User{Fio: "Дубль", Email: "admin@corp.tj", Password: "x", Role: authz.RoleEngineer})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	u, err := repo.FindByEmail(ctx, " ADMIN@corp.tj ")
	require.NoError(t, err)
	assert.Equal(t, adminID, u.ID)
	assert.Equal(t, authz.RoleAdmin, u.Role)

	list, total, err := repo.List(ctx, entities.UserFilter{Search: "инж", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "Бэкенд", list[0].Position.String)

	_, total, err = repo.List(ctx, entities.UserFilter{ExcludeRoles: []authz.Role{authz.RoleAdmin}, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total, "admin не должен попадать в список")

	require.NoError(t, repo.UpdateRole(ctx, list[0].ID, authz.RoleHRManager))
	u, err = repo.FindByID(ctx, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, authz.RoleHRManager, u.Role)

	assert.ErrorIs(t, repo.UpdateRole(ctx, 9999, authz.RoleEngineer), apperrors.ErrNotFound)
	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAttendanceRepository_Integration(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	users := NewUserRepository(testPool, zap.NewNop())
	repo := NewAttendanceRepository(testPool, zap.NewNop())

	uid, err := users.Create(ctx, entities.User{Fio: "Инженер", Email: "eng@corp.tj", Password: "x", Role: authz.RoleEngineer})
	require.NoError(t, err)

	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	id, err := repo.CheckIn(ctx, uid, at, null.StringFrom("офис"))
	require.NoError(t, err)

	_, err = repo.CheckIn(ctx, uid, at.Add(time.Hour), null.String{})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	closed, err := repo.CheckOut(ctx, uid, at.Add(8*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, id, closed)

	_, err = repo.CheckOut(ctx, uid, at.Add(9*time.Hour))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	a, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, authz.RoleEngineer, a.UserRole)
	assert.True(t, a.CheckOut.Valid)

	list, total, err := repo.List(ctx, entities.AttendanceFilter{OwnerID: &uid, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	assert.Len(t, list, 1)
}

func TestAccessMatrixRepository_Integration(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewAccessMatrixRepository(testPool, zap.NewNop())

	m, err := authz.DefaultMatrix()
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceAll(ctx, m.Cells()))

	cells, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	loaded, err := authz.NewMatrixFromCells(cells)
	require.NoError(t, err)
	assert.ElementsMatch(t, m.Cells(), loaded.Cells())

	users := NewUserRepository(testPool, zap.NewNop())
	adminID, err := users.Create(ctx, entities.User{Fio: "Админ", Email: "admin@corp.tj", Password: "x", Role: authz.RoleAdmin})
	require.NoError(t, err)

	cell := authz.Cell{Role: authz.RoleEngineer, Feature: authz.FeatureAttendance, Permissions: authz.NewPermissionSet(authz.PermView)}
	require.NoError(t, repo.Upsert(ctx, cell, adminID))

	cells, err = repo.LoadAll(ctx)
	require.NoError(t, err)
	loaded, err = authz.NewMatrixFromCells(cells)
	require.NoError(t, err)
	perms, ok := loaded.Lookup(authz.RoleEngineer, authz.FeatureAttendance)
	require.True(t, ok)
	assert.True(t, perms.Has(authz.PermView))
}
