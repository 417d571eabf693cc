package routes

import (
	"github.com/labstack/echo/v4"

	"hr-system/internal/authz"
	"hr-system/internal/controllers"
	"hr-system/pkg/middleware"
)

func runAccessRouter(secureGroup *echo.Group, accessCtrl *controllers.AccessController, authMW *middleware.AuthMiddleware) {
	secureGroup.GET("/access/me", accessCtrl.MyAccess)
	secureGroup.POST("/access/check", accessCtrl.Check)

	secureGroup.GET("/access-matrix", accessCtrl.GetMatrix, authMW.RequirePermission(authz.FeatureSettings, authz.PermView))
	secureGroup.GET("/access-matrix/export", accessCtrl.ExportMatrix, authMW.RequirePermission(authz.FeatureReports, authz.PermView))
	secureGroup.PUT("/access-matrix/:role/:feature", accessCtrl.UpdateCell, authMW.RequireAdmin())
}
