package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hr-system/internal/entities"
	apperrors "hr-system/pkg/errors"
)

const attendanceTable = "attendance"

var attendanceColumns = []string{
	"a.id", "a.user_id", "u.fio", "u.role", "a.work_date", "a.check_in", "a.check_out", "a.note", "a.created_at",
}

type AttendanceRepositoryInterface interface {
	FindByID(ctx context.Context, id int64) (*entities.Attendance, error)
	List(ctx context.Context, filter entities.AttendanceFilter) ([]entities.Attendance, uint64, error)
	CheckIn(ctx context.Context, userID int64, at time.Time, note null.String) (int64, error)
	CheckOut(ctx context.Context, userID int64, at time.Time) (int64, error)
}

type AttendanceRepository struct {
	storage querier
	logger  *zap.Logger
	psql    sq.StatementBuilderType
}

func NewAttendanceRepository(storage *pgxpool.Pool, logger *zap.Logger) AttendanceRepositoryInterface {
	return &AttendanceRepository{
		storage: storage,
		logger:  logger,
		psql:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scanAttendance(row pgx.Row) (*entities.Attendance, error) {
	var a entities.Attendance
	var role string
	err := row.Scan(&a.ID, &a.UserID, &a.UserFio, &role, &a.WorkDate, &a.CheckIn, &a.CheckOut, &a.Note, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования отметки: %w", err)
	}
	if a.UserRole, err = storedRole("отметка", a.ID, role); err != nil {
		return nil, err
	}
	return &a, nil
}

// workDate — календарная дата отметки в часовом поясе самой отметки.
func workDate(at time.Time) time.Time {
	y, m, d := at.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (r *AttendanceRepository) base(columns ...string) sq.SelectBuilder {
	return r.psql.Select(columns...).
		From(attendanceTable + " a").
		Join(usersTable + " u ON u.id = a.user_id")
}

func (r *AttendanceRepository) FindByID(ctx context.Context, id int64) (*entities.Attendance, error) {
	query, args, err := r.base(attendanceColumns...).Where(sq.Eq{"a.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса отметки: %w", err)
	}
	return scanAttendance(r.storage.QueryRow(ctx, query, args...))
}

func (r *AttendanceRepository) List(ctx context.Context, filter entities.AttendanceFilter) ([]entities.Attendance, uint64, error) {
	where := sq.And{}
	if filter.OwnerID != nil {
		where = append(where, sq.Eq{"a.user_id": *filter.OwnerID})
	}
	if len(filter.ExcludeRoles) > 0 {
		where = append(where, sq.NotEq{"u.role": entities.RoleNames(filter.ExcludeRoles)})
	}
	if filter.DateFrom != nil {
		where = append(where, sq.GtOrEq{"a.work_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		where = append(where, sq.LtOrEq{"a.work_date": *filter.DateTo})
	}

	countQuery, countArgs, err := r.base("COUNT(*)").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса подсчёта: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчёта отметок: %w", err)
	}
	if total == 0 {
		return []entities.Attendance{}, 0, nil
	}

	query, args, err := r.base(attendanceColumns...).
		Where(where).
		OrderBy("a.work_date DESC", "a.id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса списка: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения отметок: %w", err)
	}
	defer rows.Close()

	list := make([]entities.Attendance, 0, filter.Limit)
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *a)
	}
	return list, total, rows.Err()
}

// CheckIn создаёт отметку прихода на дату at. Вторая отметка за день — ErrAlreadyExists.
func (r *AttendanceRepository) CheckIn(ctx context.Context, userID int64, at time.Time, note null.String) (int64, error) {
	query, args, err := r.psql.Insert(attendanceTable).
		Columns("user_id", "work_date", "check_in", "note").
		Values(userID, workDate(at), at, note).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса отметки прихода: %w", err)
	}

	var id int64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, apperrors.ErrAlreadyExists
		}
		return 0, fmt.Errorf("ошибка отметки прихода: %w", err)
	}
	return id, nil
}

// CheckOut закрывает открытую отметку за дату at. Нет открытой — ErrNotFound.
func (r *AttendanceRepository) CheckOut(ctx context.Context, userID int64, at time.Time) (int64, error) {
	query, args, err := r.psql.Update(attendanceTable).
		Set("check_out", at).
		Where(sq.Eq{"user_id": userID, "work_date": workDate(at), "check_out": nil}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса отметки ухода: %w", err)
	}

	var id int64
	err = r.storage.QueryRow(ctx, query, args...).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperrors.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка отметки ухода: %w", err)
	}
	return id, nil
}
