package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/kssamy/RealtimeStatusUpdatrs/internal/controllers"
)

func runOrderRouter(api *echo.Group, orderCtrl *controllers.OrderController) {
	{
		api.GET("/orders", orderCtrl.GetOrders)
		api.POST("/orders", orderCtrl.CreateOrder)
		api.GET("/orders/:orderId", orderCtrl.FindOrder)
		api.PUT("/orders/:orderId", orderCtrl.UpdateOrder)

		api.GET("/orders/:orderId/messages", orderCtrl.GetMessages)
		api.DELETE("/orders/:orderId/messages", orderCtrl.ClearMessages)
		api.GET("/orders/:orderId/history", orderCtrl.GetHistory)

		api.POST("/orders/:orderId/trigger-update", orderCtrl.TriggerUpdate)
	}
}
