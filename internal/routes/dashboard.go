package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/kssamy/RealtimeStatusUpdatrs/internal/controllers"
)

func runDashboardRouter(api *echo.Group, dashboardCtrl *controllers.DashboardController) {
	api.GET("/dashboard/stats", dashboardCtrl.GetStats)
}
