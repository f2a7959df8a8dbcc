package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/kssamy/RealtimeStatusUpdatrs/internal/controllers"
	"github.com/kssamy/RealtimeStatusUpdatrs/internal/services"
	"github.com/kssamy/RealtimeStatusUpdatrs/pkg/websocket"
)

// RouterDeps — собранные в app/main.go зависимости HTTP-слоя.
// Сервисы создаются до роутера: симулятор, сидер и брокер используют их же.
type RouterDeps struct {
	OrderService     services.OrderServiceInterface
	DashboardService services.DashboardServiceInterface
	Hub              *websocket.Hub
	Logger           *zap.Logger
}

func InitRouter(e *echo.Echo, deps *RouterDeps) {
	deps.Logger.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")

	orderCtrl := controllers.NewOrderController(deps.OrderService, deps.Logger)
	reportCtrl := controllers.NewReportController(deps.OrderService, deps.Logger)
	dashboardCtrl := controllers.NewDashboardController(deps.DashboardService, deps.Logger)
	eventsCtrl := controllers.NewEventsController(deps.Hub, deps.Logger)

	runOrderRouter(api, orderCtrl)
	runReportRouter(api, reportCtrl)
	runDashboardRouter(api, dashboardCtrl)
	runEventsRouter(api, eventsCtrl)

	deps.Logger.Info("InitRouter: Создание маршрутов завершено")
}
