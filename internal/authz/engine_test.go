package authz

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultEngine(t *testing.T) *Engine {
	t.Helper()
	m, err := DefaultMatrix()
	require.NoError(t, err, "встроенная матрица должна быть полной")
	e, err := NewEngineWithMatrix(m)
	require.NoError(t, err)
	return e
}

func TestHasFeatureAccess_MatchesMatrix(t *testing.T) {
	e := newDefaultEngine(t)
	m := e.Matrix()

	for _, r := range Roles() {
		for _, f := range Features() {
			perms, ok := m.Lookup(r, f)
			require.True(t, ok)
			want := r == RoleAdmin || !perms.Empty()
			assert.Equal(t, want, e.HasFeatureAccess(r, f), "%s/%s", r, f)
		}
	}
}

func TestHasPermission_AdminIsUniversal(t *testing.T) {
	e := newDefaultEngine(t)
	for _, f := range Features() {
		for _, p := range Permissions() {
			assert.True(t, e.HasPermission(RoleAdmin, f, p), "%s/%s", f, p)
		}
	}
}

func TestHasPermission_NonAdminFollowsMatrix(t *testing.T) {
	e := newDefaultEngine(t)
	m := e.Matrix()
	for _, r := range Roles() {
		if r == RoleAdmin {
			continue
		}
		for _, f := range Features() {
			perms, _ := m.Lookup(r, f)
			for _, p := range Permissions() {
				assert.Equal(t, perms.Has(p), e.HasPermission(r, f, p), "%s/%s/%s", r, f, p)
			}
		}
	}
}

func TestHasPermission_ManageDoesNotImplyOthers(t *testing.T) {
	e := newDefaultEngine(t)
	// У general_manager на projects есть view и manage, но не edit/delete/create.
	assert.True(t, e.HasPermission(RoleGeneralManager, FeatureProjects, PermManage))
	assert.False(t, e.HasPermission(RoleGeneralManager, FeatureProjects, PermEdit))
	assert.False(t, e.HasPermission(RoleGeneralManager, FeatureProjects, PermDelete))
	assert.False(t, e.HasPermission(RoleGeneralManager, FeatureProjects, PermCreate))
}

func TestScenarios(t *testing.T) {
	e := newDefaultEngine(t)

	t.Run("engineer has no attendance", func(t *testing.T) {
		assert.False(t, e.HasFeatureAccess(RoleEngineer, FeatureAttendance))
	})

	t.Run("hr manager manages staff", func(t *testing.T) {
		assert.True(t, e.HasPermission(RoleHRManager, FeatureStaff, PermManage))
	})

	t.Run("hr manager cannot open admin records", func(t *testing.T) {
		hr := Principal{ID: 7, Role: RoleHRManager}
		assert.False(t, e.CanAccessOwnedResource(hr, 1, RoleAdmin, FeatureStaff))
	})

	t.Run("project manager sees own attendance", func(t *testing.T) {
		pm := Principal{ID: 42, Role: RoleProjectManager}
		require.False(t, e.HasFeatureAccess(RoleProjectManager, FeatureAttendance))
		assert.True(t, e.CanAccessOwnedResource(pm, 42, RoleProjectManager, FeatureAttendance))
	})

	t.Run("admin always allowed", func(t *testing.T) {
		admin := Principal{ID: 1, Role: RoleAdmin}
		for _, f := range Features() {
			assert.True(t, e.HasFeatureAccess(RoleAdmin, f))
			for _, p := range Permissions() {
				assert.True(t, e.HasPermission(RoleAdmin, f, p))
			}
			assert.True(t, e.CanAccessOwnedResource(admin, 99, RoleAdmin, f))
			assert.True(t, e.CanAccessOwnedResource(admin, 99, RoleEngineer, f))
		}
	})
}

func TestCanAccessOwnedResource_SelfAccessIgnoresMatrix(t *testing.T) {
	e := newDefaultEngine(t)
	for _, r := range Roles() {
		if r == RoleAdmin {
			continue
		}
		u := Principal{ID: 10, Role: r}
		for _, f := range Features() {
			ok, reason := e.ExplainOwnedResource(u, 10, r, f)
			assert.True(t, ok, "%s/%s", r, f)
			assert.Equal(t, ReasonSelf, reason)
		}
	}
}

func TestCanAccessOwnedResource_AdminPrivacy(t *testing.T) {
	e := newDefaultEngine(t)
	for _, r := range Roles() {
		if r == RoleAdmin {
			continue
		}
		u := Principal{ID: 10, Role: r}
		for _, f := range Features() {
			ok, reason := e.ExplainOwnedResource(u, 11, RoleAdmin, f)
			assert.False(t, ok, "%s/%s", r, f)
			assert.Equal(t, ReasonAdminPrivacy, reason)
		}
	}
}

func TestCanAccessOwnedResource_Delegation(t *testing.T) {
	e := newDefaultEngine(t)

	// admin_staff: view на attendance
	ok, reason := e.ExplainOwnedResource(Principal{ID: 3, Role: RoleAdminStaff}, 5, RoleEngineer, FeatureAttendance)
	assert.True(t, ok)
	assert.Equal(t, ReasonFeatureGrant, reason)

	// engineer: пустой набор на staff
	ok, reason = e.ExplainOwnedResource(Principal{ID: 3, Role: RoleEngineer}, 5, RoleHRManager, FeatureStaff)
	assert.False(t, ok)
	assert.Equal(t, ReasonNoFeatureGrant, reason)
}

func TestCanAccessOwnedResource_ManageOnlyGrantsView(t *testing.T) {
	table := cloneTable(defaultMatrixTable)
	table[RoleEngineer][FeatureStaff] = []Permission{PermManage}
	m, err := NewMatrix(table)
	require.NoError(t, err)
	e, err := NewEngineWithMatrix(m)
	require.NoError(t, err)

	assert.True(t, e.CanAccessOwnedResource(Principal{ID: 2, Role: RoleEngineer}, 3, RoleAdminStaff, FeatureStaff))
	assert.False(t, e.HasPermission(RoleEngineer, FeatureStaff, PermView))
}

func TestFailClosed(t *testing.T) {
	t.Run("no matrix", func(t *testing.T) {
		e := NewEngine()
		assert.False(t, e.HasFeatureAccess(RoleAdmin, FeatureDashboard))
		assert.False(t, e.HasPermission(RoleAdmin, FeatureDashboard, PermView))
		ok, reason := e.ExplainOwnedResource(Principal{ID: 1, Role: RoleAdmin}, 1, RoleAdmin, FeatureStaff)
		assert.False(t, ok)
		assert.Equal(t, ReasonNoMatrix, reason)
	})

	t.Run("out of range values", func(t *testing.T) {
		e := newDefaultEngine(t)
		assert.False(t, e.HasFeatureAccess(Role(0), FeatureDashboard))
		assert.False(t, e.HasFeatureAccess(Role(200), FeatureDashboard))
		assert.False(t, e.HasFeatureAccess(RoleAdmin, Feature(0)))
		assert.False(t, e.HasFeatureAccess(RoleAdmin, Feature(99)))
		assert.False(t, e.HasPermission(RoleAdmin, FeatureStaff, Permission(0)))
		assert.False(t, e.HasPermission(RoleHRManager, FeatureStaff, Permission(77)))
		assert.False(t, e.CanAccessOwnedResource(Principal{ID: 1, Role: Role(0)}, 1, RoleEngineer, FeatureStaff))
		assert.False(t, e.CanAccessOwnedResource(Principal{ID: 1, Role: RoleHRManager}, 2, Role(0), FeatureStaff))
	})

	t.Run("undefined cell denies", func(t *testing.T) {
		// Матрица в обход конструктора: ячейки не заданы.
		m := &Matrix{}
		m.cells[RoleHRManager][FeatureStaff] = cell{defined: true, perms: NewPermissionSet(PermView)}
		_, ok := m.Lookup(RoleHRManager, FeatureClients)
		assert.False(t, ok)

		e := NewEngine()
		e.matrix.Store(m)
		assert.True(t, e.HasPermission(RoleHRManager, FeatureStaff, PermView))
		assert.False(t, e.HasFeatureAccess(RoleHRManager, FeatureClients))
		assert.False(t, e.HasPermission(RoleHRManager, FeatureClients, PermView))
	})

	t.Run("zero principal id is not self", func(t *testing.T) {
		e := newDefaultEngine(t)
		assert.False(t, e.CanAccessOwnedResource(Principal{Role: RoleEngineer}, 0, RoleEngineer, FeatureStaff))
	})
}

func TestSwap_RejectsInvalidMatrix(t *testing.T) {
	e := newDefaultEngine(t)
	before := e.Matrix()

	assert.ErrorIs(t, e.Swap(nil), ErrIncompleteMatrix)
	assert.ErrorIs(t, e.Swap(&Matrix{}), ErrIncompleteMatrix)
	assert.Same(t, before, e.Matrix(), "невалидная матрица не должна заменить текущую")
}

func TestIdempotence(t *testing.T) {
	e := newDefaultEngine(t)
	p := Principal{ID: 4, Role: RoleHRManager}
	for i := 0; i < 3; i++ {
		assert.True(t, e.HasPermission(RoleHRManager, FeatureStaff, PermManage))
		assert.False(t, e.HasFeatureAccess(RoleEngineer, FeatureAttendance))
		assert.False(t, e.CanAccessOwnedResource(p, 1, RoleAdmin, FeatureStaff))
		assert.True(t, e.CanAccessOwnedResource(p, 5, RoleEngineer, FeatureStaff))
	}
}

func TestConcurrentSwapAndDecide(t *testing.T) {
	e := newDefaultEngine(t)
	base := e.Matrix()
	withView, err := base.WithCell(RoleEngineer, FeatureAttendance, NewPermissionSet(PermView))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				// Любой снимок валиден; admin-правила от матрицы не зависят.
				_ = e.HasFeatureAccess(RoleEngineer, FeatureAttendance)
				assert.True(t, e.HasPermission(RoleAdmin, FeatureSettings, PermManage))
				assert.False(t, e.CanAccessOwnedResource(Principal{ID: 2, Role: RoleHRManager}, 1, RoleAdmin, FeatureStaff))
			}
		}()
	}
	for j := 0; j < 200; j++ {
		if j%2 == 0 {
			require.NoError(t, e.Swap(withView))
		} else {
			require.NoError(t, e.Swap(base))
		}
	}
	wg.Wait()
}

func TestEnginePermissions(t *testing.T) {
	e := newDefaultEngine(t)

	admin := e.Permissions(RoleAdmin)
	for _, f := range Features() {
		assert.Equal(t, NewPermissionSet(Permissions()...), admin[f])
	}

	eng := e.Permissions(RoleEngineer)
	assert.True(t, eng[FeatureAttendance].Empty())
	assert.Equal(t, NewPermissionSet(PermView, PermEdit), eng[FeatureTasks])
}

type listed struct {
	id   int64
	role Role
}

func (l listed) OwnerRole() Role { return l.role }

func TestFilterVisibleRoles(t *testing.T) {
	list := []listed{{1, RoleAdmin}, {2, RoleEngineer}, {3, RoleAdmin}, {4, RoleHRManager}}

	got := FilterVisibleRoles(Principal{ID: 9, Role: RoleHRManager}, list)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].id)
	assert.Equal(t, int64(4), got[1].id)

	all := FilterVisibleRoles(Principal{ID: 1, Role: RoleAdmin}, list)
	assert.Len(t, all, 4)

	assert.Empty(t, FilterVisibleRoles(Principal{ID: 9, Role: RoleEngineer}, []listed{}))
}

func cloneTable(src MatrixTable) MatrixTable {
	out := make(MatrixTable, len(src))
	for r, features := range src {
		out[r] = make(map[Feature][]Permission, len(features))
		for f, perms := range features {
			out[r][f] = append([]Permission(nil), perms...)
		}
	}
	return out
}
