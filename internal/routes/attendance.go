package routes

import (
	"github.com/labstack/echo/v4"

	"hr-system/internal/controllers"
)

// Без гардов: каждый отмечается сам, а список и запись сервис режет по правам.
func runAttendanceRouter(secureGroup *echo.Group, attendanceCtrl *controllers.AttendanceController) {
	secureGroup.POST("/attendance/check-in", attendanceCtrl.CheckIn)
	secureGroup.POST("/attendance/check-out", attendanceCtrl.CheckOut)
	secureGroup.GET("/attendance", attendanceCtrl.GetAttendance)
	secureGroup.GET("/attendance/:id", attendanceCtrl.FindAttendance)
}
