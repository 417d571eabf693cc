package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hr-system/internal/authz"
)

const accessMatrixTable = "access_matrix"

// AccessMatrixRepositoryInterface — хранение матрицы доступа: одна строка на (роль, раздел).
type AccessMatrixRepositoryInterface interface {
	LoadAll(ctx context.Context) ([]authz.Cell, error)
	Upsert(ctx context.Context, cell authz.Cell, updatedBy int64) error
	ReplaceAll(ctx context.Context, cells []authz.Cell) error
}

type AccessMatrixRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	psql   sq.StatementBuilderType
}

func NewAccessMatrixRepository(pool *pgxpool.Pool, logger *zap.Logger) AccessMatrixRepositoryInterface {
	return &AccessMatrixRepository{
		pool:   pool,
		logger: logger,
		psql:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// LoadAll читает все строки. Полноту проверяет уже authz.NewMatrixFromCells,
// неизвестные имена ролей/разделов возвращаются ошибкой.
func (r *AccessMatrixRepository) LoadAll(ctx context.Context) ([]authz.Cell, error) {
	query, args, err := r.psql.Select("role", "feature", "permissions").
		From(accessMatrixTable).
		OrderBy("role", "feature").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса матрицы: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения матрицы доступа: %w", err)
	}
	defer rows.Close()

	cells := make([]authz.Cell, 0)
	for rows.Next() {
		var roleName, featureName string
		var perms []string
		if err := rows.Scan(&roleName, &featureName, &perms); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки матрицы: %w", err)
		}
		cell, err := parseCell(roleName, featureName, perms)
		if err != nil {
			return nil, err
		}
		cells = append(cells, cell)
	}
	return cells, rows.Err()
}

func parseCell(roleName, featureName string, perms []string) (authz.Cell, error) {
	role, err := authz.ParseRole(roleName)
	if err != nil {
		return authz.Cell{}, err
	}
	feature, err := authz.ParseFeature(featureName)
	if err != nil {
		return authz.Cell{}, err
	}
	set, err := authz.ParsePermissionSet(perms)
	if err != nil {
		return authz.Cell{}, fmt.Errorf("%s/%s: %w", roleName, featureName, err)
	}
	return authz.Cell{Role: role, Feature: feature, Permissions: set}, nil
}

func (r *AccessMatrixRepository) upsertQuery(cell authz.Cell, updatedBy *int64) (string, []interface{}, error) {
	return r.psql.Insert(accessMatrixTable).
		Columns("role", "feature", "permissions", "updated_by").
		Values(cell.Role.String(), cell.Feature.String(), cell.Permissions.Strings(), updatedBy).
		Suffix("ON CONFLICT (role, feature) DO UPDATE SET permissions = EXCLUDED.permissions, updated_by = EXCLUDED.updated_by, updated_at = NOW()").
		ToSql()
}

func (r *AccessMatrixRepository) Upsert(ctx context.Context, cell authz.Cell, updatedBy int64) error {
	query, args, err := r.upsertQuery(cell, &updatedBy)
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса обновления матрицы: %w", err)
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("ошибка обновления ячейки %s/%s: %w", cell.Role, cell.Feature, err)
	}
	return nil
}

// ReplaceAll перезаписывает матрицу целиком одной транзакцией (сидер).
func (r *AccessMatrixRepository) ReplaceAll(ctx context.Context, cells []authz.Cell) error {
	return WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM "+accessMatrixTable); err != nil {
			return fmt.Errorf("ошибка очистки матрицы: %w", err)
		}
		for _, cell := range cells {
			query, args, err := r.upsertQuery(cell, nil)
			if err != nil {
				return fmt.Errorf("ошибка сборки запроса матрицы: %w", err)
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("ошибка записи ячейки %s/%s: %w", cell.Role, cell.Feature, err)
			}
		}
		r.logger.Info("Матрица доступа перезаписана", zap.Int("cells", len(cells)))
		return nil
	})
}
