package authz

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidInput     = errors.New("недопустимое значение")
	ErrIncompleteMatrix = errors.New("матрица доступа неполная")
	ErrDuplicateCell    = errors.New("ячейка матрицы задана дважды")
)

// PermissionSet — битовая маска действий, бит N соответствует Permission(N).
type PermissionSet uint8

func NewPermissionSet(perms ...Permission) PermissionSet {
	var s PermissionSet
	for _, p := range perms {
		s = s.With(p)
	}
	return s
}

func (s PermissionSet) With(p Permission) PermissionSet {
	if !p.Valid() {
		return s
	}
	return s | 1<<p
}

func (s PermissionSet) Has(p Permission) bool {
	if !p.Valid() {
		return false
	}
	return s&(1<<p) != 0
}

func (s PermissionSet) Empty() bool { return s == 0 }

// List — действия из набора в порядке объявления.
func (s PermissionSet) List() []Permission {
	out := make([]Permission, 0, permissionCount)
	for _, p := range Permissions() {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// Strings — то же, что List, но строками (для JSON, БД и Excel).
func (s PermissionSet) Strings() []string {
	list := s.List()
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.String()
	}
	return out
}

func (s PermissionSet) String() string {
	return strings.Join(s.Strings(), ",")
}

func (s PermissionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

func (s *PermissionSet) UnmarshalJSON(b []byte) error {
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return err
	}
	set, err := ParsePermissionSet(names)
	if err != nil {
		return err
	}
	*s = set
	return nil
}

// ParsePermissionSet разбирает список строк; пустой список — пустой набор.
func ParsePermissionSet(names []string) (PermissionSet, error) {
	var s PermissionSet
	for _, n := range names {
		p, err := ParsePermission(n)
		if err != nil {
			return 0, err
		}
		s = s.With(p)
	}
	return s, nil
}

type cell struct {
	defined bool
	perms   PermissionSet
}

// Matrix — неизменяемая таблица роль × раздел → набор действий.
// Индекс 0 по обеим осям не используется: нулевые Role/Feature невалидны.
type Matrix struct {
	cells [roleCount + 1][featureCount + 1]cell
}

// Cell — одна запись матрицы в "плоском" виде (хранилище, кеш, выгрузка).
type Cell struct {
	Role        Role          `json:"role"`
	Feature     Feature       `json:"feature"`
	Permissions PermissionSet `json:"permissions"`
}

// MatrixTable — исходное описание матрицы в коде.
type MatrixTable map[Role]map[Feature][]Permission

// NewMatrix собирает матрицу из описания и проверяет её полноту.
func NewMatrix(table MatrixTable) (*Matrix, error) {
	cells := make([]Cell, 0, roleCount*featureCount)
	for role, features := range table {
		for feature, perms := range features {
			for _, p := range perms {
				if !p.Valid() {
					return nil, fmt.Errorf("%w: %s/%s: %s", ErrInvalidInput, role, feature, p)
				}
			}
			cells = append(cells, Cell{Role: role, Feature: feature, Permissions: NewPermissionSet(perms...)})
		}
	}
	return NewMatrixFromCells(cells)
}

// NewMatrixFromCells собирает матрицу из плоского списка ячеек.
// Неизвестные роли и разделы, повторы и пропуски — ошибка конфигурации.
func NewMatrixFromCells(cells []Cell) (*Matrix, error) {
	m := &Matrix{}
	for _, c := range cells {
		if !c.Role.Valid() || !c.Feature.Valid() {
			return nil, fmt.Errorf("%w: ячейка %s/%s", ErrInvalidInput, c.Role, c.Feature)
		}
		if m.cells[c.Role][c.Feature].defined {
			return nil, fmt.Errorf("%w: %s/%s", ErrDuplicateCell, c.Role, c.Feature)
		}
		m.cells[c.Role][c.Feature] = cell{defined: true, perms: c.Permissions}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate — проверка полноты: у каждой роли есть запись для каждого раздела.
func (m *Matrix) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: матрица не задана", ErrIncompleteMatrix)
	}
	var missing []string
	for _, r := range Roles() {
		for _, f := range Features() {
			if !m.cells[r][f].defined {
				missing = append(missing, r.String()+"/"+f.String())
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: нет записей для %s", ErrIncompleteMatrix, strings.Join(missing, ", "))
	}
	return nil
}

// Lookup возвращает набор действий ячейки. ok=false для невалидных
// входных данных и для незаданной ячейки: вызывающий обязан трактовать это как отказ.
func (m *Matrix) Lookup(role Role, feature Feature) (PermissionSet, bool) {
	if m == nil || !role.Valid() || !feature.Valid() {
		return 0, false
	}
	c := m.cells[role][feature]
	if !c.defined {
		return 0, false
	}
	return c.perms, true
}

// Cells — все ячейки в порядке роль → раздел.
func (m *Matrix) Cells() []Cell {
	if m == nil {
		return nil
	}
	out := make([]Cell, 0, roleCount*featureCount)
	for _, r := range Roles() {
		for _, f := range Features() {
			c := m.cells[r][f]
			if !c.defined {
				continue
			}
			out = append(out, Cell{Role: r, Feature: f, Permissions: c.perms})
		}
	}
	return out
}

// Row — права одной роли по всем разделам.
func (m *Matrix) Row(role Role) map[Feature]PermissionSet {
	out := make(map[Feature]PermissionSet, featureCount)
	for _, f := range Features() {
		if perms, ok := m.Lookup(role, f); ok {
			out[f] = perms
		}
	}
	return out
}

// WithCell возвращает НОВУЮ матрицу с заменённой ячейкой. Исходная не меняется.
func (m *Matrix) WithCell(role Role, feature Feature, perms PermissionSet) (*Matrix, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: матрица не задана", ErrIncompleteMatrix)
	}
	if !role.Valid() || !feature.Valid() {
		return nil, fmt.Errorf("%w: ячейка %s/%s", ErrInvalidInput, role, feature)
	}
	next := *m
	next.cells[role][feature] = cell{defined: true, perms: perms}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return &next, nil
}
