package routes

import (
	"github.com/labstack/echo/v4"

	"hr-system/internal/authz"
	"hr-system/internal/controllers"
	"hr-system/pkg/middleware"
)

// Карточка сотрудника (GET /staff/:id) проверяется в сервисе: свою запись видно всегда.
func runStaffRouter(secureGroup *echo.Group, staffCtrl *controllers.StaffController, authMW *middleware.AuthMiddleware) {
	secureGroup.GET("/staff", staffCtrl.GetStaff, authMW.RequireFeature(authz.FeatureStaff))
	secureGroup.GET("/staff/:id", staffCtrl.FindStaff)
	secureGroup.POST("/staff", staffCtrl.CreateStaff, authMW.RequirePermission(authz.FeatureStaff, authz.PermCreate))
	secureGroup.PUT("/staff/:id/role", staffCtrl.ChangeRole, authMW.RequireAdmin())
}
