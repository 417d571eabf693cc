package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/aarondl/null/v8"

	"hr-system/internal/authz"
	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/utils"
)

func asPrincipal(u entities.User) context.Context {
	return utils.WithPrincipal(context.Background(), u.Principal())
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int64]entities.User
	nextID int64
	filter entities.UserFilter
}

func newFakeUserRepo(users ...entities.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[int64]entities.User{}, nextID: 100}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context, filter entities.UserFilter) ([]entities.User, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filter = filter
	out := []entities.User{}
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeUserRepo) Create(_ context.Context, user entities.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return 0, apperrors.ErrAlreadyExists
		}
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = user
	return user.ID, nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, id int64, role authz.Role) error {
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

type fakeAttendanceRepo struct {
	records map[int64]entities.Attendance
	filter  entities.AttendanceFilter
	checkIn time.Time
	err     error
}

func (r *fakeAttendanceRepo) FindByID(_ context.Context, id int64) (*entities.Attendance, error) {
	a, ok := r.records[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

func (r *fakeAttendanceRepo) List(_ context.Context, filter entities.AttendanceFilter) ([]entities.Attendance, uint64, error) {
	r.filter = filter
	out := []entities.Attendance{}
	for _, a := range r.records {
		out = append(out, a)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeAttendanceRepo) CheckIn(_ context.Context, _ int64, at time.Time, _ null.String) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.checkIn = at
	return 1, nil
}

func (r *fakeAttendanceRepo) CheckOut(_ context.Context, _ int64, _ time.Time) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	return 1, nil
}

type fakeMatrixRepo struct {
	mu       sync.Mutex
	cells    []authz.Cell
	upserts  []authz.Cell
	replaced bool
	loads    int
}

func (r *fakeMatrixRepo) LoadAll(context.Context) ([]authz.Cell, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	return append([]authz.Cell(nil), r.cells...), nil
}

func (r *fakeMatrixRepo) Upsert(_ context.Context, cell authz.Cell, _ int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts = append(r.upserts, cell)
	for i, c := range r.cells {
		if c.Role == cell.Role && c.Feature == cell.Feature {
			r.cells[i] = cell
		}
	}
	return nil
}

func (r *fakeMatrixRepo) ReplaceAll(_ context.Context, cells []authz.Cell) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cells = append([]authz.Cell(nil), cells...)
	r.replaced = true
	return nil
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string]string{}} }

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value.(string)
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}
