package authz

// Principal — уже аутентифицированный пользователь. Движок его не проверяет,
// только авторизует.
type Principal struct {
	ID   int64  `json:"id"`
	Role Role   `json:"role"`
	Name string `json:"name,omitempty"`
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// Причины решения по чужой/своей записи, для логов и ответа клиенту.
const (
	ReasonNoMatrix       = "matrix_not_loaded"
	ReasonInvalidInput   = "invalid_input"
	ReasonAdmin          = "admin"
	ReasonAdminPrivacy   = "admin_privacy"
	ReasonSelf           = "self"
	ReasonFeatureGrant   = "feature_permission"
	ReasonNoFeatureGrant = "no_feature_permission"
)

// ExplainOwnedResource — то же, что CanAccessOwnedResource, плюс причина.
//
// Порядок правил (первое совпадение):
//  1. principal — admin → разрешить;
//  2. владелец — admin → запретить (личные записи admin скрыты от всех остальных);
//  3. principal — сам владелец → разрешить;
//  4. иначе — view или manage на раздел по матрице.
//
// Правило 2 обязано стоять перед 4: иначе "manage staff" у HR открыл бы записи admin.
// Неизвестная роль владельца для не-admin трактуется как отказ.
func (e *Engine) ExplainOwnedResource(p Principal, ownerID int64, ownerRole Role, feature Feature) (bool, string) {
	m := e.matrix.Load()
	if m == nil {
		return false, ReasonNoMatrix
	}
	if !p.Role.Valid() || !feature.Valid() {
		return false, ReasonInvalidInput
	}
	if p.Role == RoleAdmin {
		return true, ReasonAdmin
	}
	if !ownerRole.Valid() {
		return false, ReasonInvalidInput
	}
	if ownerRole == RoleAdmin {
		return false, ReasonAdminPrivacy
	}
	if p.ID > 0 && p.ID == ownerID {
		return true, ReasonSelf
	}
	if e.HasPermission(p.Role, feature, PermView) || e.HasPermission(p.Role, feature, PermManage) {
		return true, ReasonFeatureGrant
	}
	return false, ReasonNoFeatureGrant
}

// CanAccessOwnedResource — может ли principal видеть запись, принадлежащую ownerID.
func (e *Engine) CanAccessOwnedResource(p Principal, ownerID int64, ownerRole Role, feature Feature) bool {
	ok, _ := e.ExplainOwnedResource(p, ownerID, ownerRole, feature)
	return ok
}

// RoleHolder — любая запись списка, у которой есть роль (сотрудник, строка табеля...).
type RoleHolder interface {
	OwnerRole() Role
}

// FilterVisibleRoles убирает из списка записи с ролью admin, если смотрящий не admin.
// Это фильтр отображения, а не граница безопасности: доступ к самим данным
// проверяется через CanAccessOwnedResource.
func FilterVisibleRoles[T RoleHolder](p Principal, list []T) []T {
	if p.IsAdmin() {
		return list
	}
	out := make([]T, 0, len(list))
	for _, item := range list {
		if item.OwnerRole() == RoleAdmin {
			continue
		}
		out = append(out, item)
	}
	return out
}
