package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/kssamy/RealtimeStatusUpdatrs/internal/controllers"
)

func runReportRouter(api *echo.Group, reportCtrl *controllers.ReportController) {
	// Сегмент export не перехватывается /orders/:orderId: статические маршруты
	// в echo имеют приоритет над параметрическими независимо от порядка регистрации.
	api.GET("/orders/export", reportCtrl.ExportOrders)
}
