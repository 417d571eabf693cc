package routes

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aarondl/null/v8"

	"hr-system/internal/authz"
	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	apperrors "hr-system/pkg/errors"
)

// In-memory реализации репозиториев: роутер проверяется целиком, без Postgres и Redis.

type memUsers struct {
	mu    sync.Mutex
	users map[int64]entities.User
}

func (r *memUsers) FindByID(_ context.Context, id int64) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memUsers) List(_ context.Context, filter entities.UserFilter) ([]entities.User, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entities.User{}
	for _, u := range r.users {
		excluded := false
		for _, role := range filter.ExcludeRoles {
			excluded = excluded || u.Role == role
		}
		if !excluded {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, uint64(len(out)), nil
}

func (r *memUsers) Create(_ context.Context, user entities.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = int64(len(r.users) + 1)
	r.users[user.ID] = user
	return user.ID, nil
}

func (r *memUsers) UpdateRole(_ context.Context, id int64, role authz.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.Role = role
	r.users[id] = u
	return nil
}

type memAttendance struct {
	mu      sync.Mutex
	users   *memUsers
	records []entities.Attendance
}

func (r *memAttendance) FindByID(_ context.Context, id int64) (*entities.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.records {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memAttendance) List(_ context.Context, filter entities.AttendanceFilter) ([]entities.Attendance, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entities.Attendance{}
	for _, a := range r.records {
		if filter.OwnerID != nil && a.UserID != *filter.OwnerID {
			continue
		}
		out = append(out, a)
	}
	return out, uint64(len(out)), nil
}

func (r *memAttendance) CheckIn(ctx context.Context, userID int64, at time.Time, note null.String) (int64, error) {
	u, err := r.users.FindByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.records {
		if a.UserID == userID && a.WorkDate.Equal(at.Truncate(24*time.Hour)) {
			return 0, apperrors.ErrAlreadyExists
		}
	}
	id := int64(len(r.records) + 1)
	r.records = append(r.records, entities.Attendance{
		ID: id, UserID: userID, UserFio: u.Fio, UserRole: u.Role,
		WorkDate: at.Truncate(24 * time.Hour), CheckIn: at, Note: note,
	})
	return id, nil
}

func (r *memAttendance) CheckOut(_ context.Context, userID int64, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.records {
		if a.UserID == userID && !a.CheckOut.Valid {
			r.records[i].CheckOut = null.TimeFrom(at)
			return a.ID, nil
		}
	}
	return 0, apperrors.ErrNotFound
}

type memMatrix struct {
	mu    sync.Mutex
	cells []authz.Cell
}

func (r *memMatrix) LoadAll(context.Context) ([]authz.Cell, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]authz.Cell(nil), r.cells...), nil
}

func (r *memMatrix) Upsert(_ context.Context, cell authz.Cell, _ int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.cells {
		if c.Role == cell.Role && c.Feature == cell.Feature {
			r.cells[i] = cell
		}
	}
	return nil
}

func (r *memMatrix) ReplaceAll(_ context.Context, cells []authz.Cell) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cells = append([]authz.Cell(nil), cells...)
	return nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string]string
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value.(string)
	return nil
}

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *memCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}
