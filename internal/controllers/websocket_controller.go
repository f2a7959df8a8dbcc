package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/kssamy/RealtimeStatusUpdatrs/internal/dto"
	"github.com/kssamy/RealtimeStatusUpdatrs/pkg/utils"
	appwebsocket "github.com/kssamy/RealtimeStatusUpdatrs/pkg/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Демо открыто для любых источников, CORS решается на уровне роутера.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type EventsController struct {
	hub    *appwebsocket.Hub
	logger *zap.Logger
}

func NewEventsController(hub *appwebsocket.Hub, logger *zap.Logger) *EventsController {
	return &EventsController{
		hub:    hub,
		logger: logger,
	}
}

// ServeWs поднимает live-подключение. Параметр orderId задаёт начальную
// подписку; без него клиент получает события всех заказов.
func (c *EventsController) ServeWs(ctx echo.Context) error {
	orderID := ctx.QueryParam("orderId")

	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		c.logger.Error("Не удалось поднять live-подключение", zap.Error(err))
		return err
	}

	client := appwebsocket.NewClient(c.hub, conn, orderID)
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()

	c.logger.Info("Live-клиент подключается",
		zap.String("clientId", client.ID.String()),
		zap.String("orderId", orderID),
	)
	return nil
}

func (c *EventsController) Subscribe(ctx echo.Context) error {
	clientID, payload, err := c.bindSubscription(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.hub.Subscribe(clientID, payload.OrderID); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, nil, "Подписка на заказ оформлена", http.StatusOK)
}

func (c *EventsController) Unsubscribe(ctx echo.Context) error {
	clientID, payload, err := c.bindSubscription(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.hub.Unsubscribe(clientID, payload.OrderID); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, nil, "Подписка на заказ снята", http.StatusOK)
}

func (c *EventsController) bindSubscription(ctx echo.Context) (uuid.UUID, *dto.SubscriptionDTO, error) {
	var payload dto.SubscriptionDTO
	if err := ctx.Bind(&payload); err != nil {
		return uuid.Nil, nil, echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса")
	}
	if err := ctx.Validate(&payload); err != nil {
		return uuid.Nil, nil, err
	}

	clientID, err := uuid.Parse(payload.ClientID)
	if err != nil {
		return uuid.Nil, nil, echo.NewHTTPError(http.StatusBadRequest, "некорректный идентификатор клиента")
	}
	return clientID, &payload, nil
}
