package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/kssamy/RealtimeStatusUpdatrs/internal/controllers"
)

func runEventsRouter(api *echo.Group, eventsCtrl *controllers.EventsController) {
	{
		api.GET("/events", eventsCtrl.ServeWs)
		api.POST("/events/subscribe", eventsCtrl.Subscribe)
		api.POST("/events/unsubscribe", eventsCtrl.Unsubscribe)
	}
}
