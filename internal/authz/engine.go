package authz

import (
	"sync/atomic"
)

// Engine отвечает на вопросы доступа по текущему снимку матрицы.
// Снимок неизменяем; замена матрицы — атомарная подмена указателя (Swap),
// поэтому решения можно принимать параллельно без блокировок.
type Engine struct {
	matrix atomic.Pointer[Matrix]
}

// NewEngine создаёт движок без матрицы: до первого Swap любое решение — отказ.
func NewEngine() *Engine {
	return &Engine{}
}

// NewEngineWithMatrix — движок с уже проверенной матрицей.
func NewEngineWithMatrix(m *Matrix) (*Engine, error) {
	e := NewEngine()
	if err := e.Swap(m); err != nil {
		return nil, err
	}
	return e, nil
}

// Swap проверяет матрицу и делает её текущей. Невалидная матрица не устанавливается,
// предыдущий снимок остаётся в силе.
func (e *Engine) Swap(m *Matrix) error {
	if err := m.Validate(); err != nil {
		return err
	}
	e.matrix.Store(m)
	return nil
}

// Matrix — текущий снимок (nil, если матрица ещё не загружена).
func (e *Engine) Matrix() *Matrix {
	return e.matrix.Load()
}

// HasFeatureAccess: admin ИЛИ набор действий роли в разделе не пуст.
// Пока матрица не загружена, отказ получают все роли, включая admin:
// сервер не стартует без матрицы, а до загрузки доступ закрыт целиком.
func (e *Engine) HasFeatureAccess(role Role, feature Feature) bool {
	m := e.matrix.Load()
	if m == nil || !role.Valid() || !feature.Valid() {
		return false
	}
	if role == RoleAdmin {
		return true
	}
	perms, ok := m.Lookup(role, feature)
	return ok && !perms.Empty()
}

// HasPermission: admin ИЛИ действие входит в набор роли для раздела.
// Права admin не настраиваются через матрицу, но без загруженной матрицы
// admin, как и остальные, получает отказ.
func (e *Engine) HasPermission(role Role, feature Feature, permission Permission) bool {
	m := e.matrix.Load()
	if m == nil || !role.Valid() || !feature.Valid() || !permission.Valid() {
		return false
	}
	if role == RoleAdmin {
		return true
	}
	perms, ok := m.Lookup(role, feature)
	return ok && perms.Has(permission)
}

// Permissions — фактические права роли по всем разделам с учётом admin.
// Используется интерфейсом, чтобы решить, какие кнопки и пункты меню показывать.
func (e *Engine) Permissions(role Role) map[Feature]PermissionSet {
	out := make(map[Feature]PermissionSet, featureCount)
	for _, f := range Features() {
		var set PermissionSet
		for _, p := range Permissions() {
			if e.HasPermission(role, f, p) {
				set = set.With(p)
			}
		}
		out[f] = set
	}
	return out
}
