package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hr-system/internal/authz"
	"hr-system/internal/entities"
	apperrors "hr-system/pkg/errors"
)

const usersTable = "users"

var userColumns = []string{"u.id", "u.fio", "u.email", "u.password", "u.role", "u.position", "u.is_active", "u.created_at", "u.updated_at"}

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id int64) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	List(ctx context.Context, filter entities.UserFilter) ([]entities.User, uint64, error)
	Create(ctx context.Context, user entities.User) (int64, error)
	UpdateRole(ctx context.Context, id int64, role authz.Role) error
}

type UserRepository struct {
	storage querier
	logger  *zap.Logger
	psql    sq.StatementBuilderType
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{
		storage: storage,
		logger:  logger,
		psql:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	var role string
	err := row.Scan(&u.ID, &u.Fio, &u.Email, &u.Password, &role, &u.Position, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования пользователя: %w", err)
	}
	if u.Role, err = storedRole("пользователь", u.ID, role); err != nil {
		return nil, err
	}
	return &u, nil
}

// storedRole разбирает роль, прочитанную из БД. Роль вне перечисления —
// порча данных, а не "без прав" и не ошибка клиента.
func storedRole(entity string, id int64, name string) (authz.Role, error) {
	role, err := authz.ParseRole(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %d: %v", apperrors.ErrCorruptData, entity, id, err)
	}
	return role, nil
}

func (r *UserRepository) findOne(ctx context.Context, where sq.Sqlizer) (*entities.User, error) {
	query, args, err := r.psql.Select(userColumns...).From(usersTable + " u").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса пользователя: %w", err)
	}
	return scanUser(r.storage.QueryRow(ctx, query, args...))
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"u.id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"LOWER(u.email)": strings.ToLower(strings.TrimSpace(email))})
}

func (r *UserRepository) List(ctx context.Context, filter entities.UserFilter) ([]entities.User, uint64, error) {
	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filter.Search != "" {
			pat := "%" + filter.Search + "%"
			b = b.Where(sq.Or{sq.ILike{"u.fio": pat}, sq.ILike{"u.email": pat}})
		}
		if len(filter.ExcludeRoles) > 0 {
			b = b.Where(sq.NotEq{"u.role": entities.RoleNames(filter.ExcludeRoles)})
		}
		return b
	}

	countQuery, countArgs, err := applySearch(r.psql.Select("COUNT(*)").From(usersTable + " u")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса подсчёта: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчёта пользователей: %w", err)
	}
	if total == 0 {
		return []entities.User{}, 0, nil
	}

	query, args, err := applySearch(r.psql.Select(userColumns...).From(usersTable+" u")).
		OrderBy("u.fio ASC", "u.id ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса списка: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка пользователей: %w", err)
	}
	defer rows.Close()

	users := make([]entities.User, 0, filter.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) Create(ctx context.Context, user entities.User) (int64, error) {
	query, args, err := r.psql.Insert(usersTable).
		Columns("fio", "email", "password", "role", "position", "is_active").
		Values(user.Fio, strings.ToLower(user.Email), user.Password, user.Role.String(), user.Position, user.IsActive).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса создания: %w", err)
	}

	var id int64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, apperrors.ErrAlreadyExists
		}
		return 0, fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	r.logger.Info("Создан пользователь", zap.Int64("userID", id), zap.String("role", user.Role.String()))
	return id, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id int64, role authz.Role) error {
	query, args, err := r.psql.Update(usersTable).
		Set("role", role.String()).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса смены роли: %w", err)
	}
	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка смены роли: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
