package dto

import "github.com/aarondl/null/v8"

type CheckInDTO struct {
	Note null.String `json:"note"`
}

// AttendanceIDDTO — ответ на отметку прихода/ухода.
type AttendanceIDDTO struct {
	ID int64 `json:"id"`
}
