package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	"hr-system/internal/authz"
)

// Attendance — отметка прихода/ухода сотрудника за день.
// UserRole подтягивается JOIN'ом: он нужен для правила приватности admin.
type Attendance struct {
	ID       int64       `json:"id" db:"id"`
	UserID   int64       `json:"user_id" db:"user_id"`
	UserFio  string      `json:"user_fio" db:"fio"`
	UserRole authz.Role  `json:"user_role" db:"role"`
	WorkDate time.Time   `json:"work_date" db:"work_date"`
	CheckIn  time.Time   `json:"check_in" db:"check_in"`
	CheckOut null.Time   `json:"check_out" db:"check_out"`
	Note     null.String `json:"note" db:"note"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (a Attendance) OwnerRole() authz.Role { return a.UserRole }

// AttendanceFilter — фильтр списка. OwnerID = nil — все сотрудники.
// ExcludeRoles отсекает записи владельцев с этими ролями на уровне запроса.
type AttendanceFilter struct {
	OwnerID      *int64
	ExcludeRoles []authz.Role
	DateFrom     *time.Time
	DateTo       *time.Time
	Limit        uint64
	Offset       uint64
}
