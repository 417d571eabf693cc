package routes

import (
	"github.com/labstack/echo/v4"

	"hr-system/internal/controllers"
)

func runAuthRouter(api, secureGroup *echo.Group, authCtrl *controllers.AuthController) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authCtrl.Login)
		authGroup.POST("/refresh_token", authCtrl.RefreshToken)
		authGroup.POST("/logout", authCtrl.Logout)
	}
	secureGroup.GET("/auth/me", authCtrl.Me)
}
