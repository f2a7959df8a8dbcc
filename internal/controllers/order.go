package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/kssamy/RealtimeStatusUpdatrs/internal/dto"
	"github.com/kssamy/RealtimeStatusUpdatrs/internal/entities"
	"github.com/kssamy/RealtimeStatusUpdatrs/internal/services"
	"github.com/kssamy/RealtimeStatusUpdatrs/pkg/utils"
)

type OrderController struct {
	orderService services.OrderServiceInterface
	logger       *zap.Logger
}

func NewOrderController(
	orderService services.OrderServiceInterface,
	logger *zap.Logger,
) *OrderController {
	return &OrderController{
		orderService: orderService,
		logger:       logger,
	}
}

func (c *OrderController) GetOrders(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	limit := utils.ParseLimitFromQuery(ctx.Request().URL.Query())

	orders, err := c.orderService.GetOrders(reqCtx, limit)
	if err != nil {
		c.logger.Error("Ошибка при получении списка заказов", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, orders, "Заказы успешно получены", http.StatusOK)
}

func (c *OrderController) FindOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	orderID := ctx.Param("orderId")

	order, err := c.orderService.FindOrder(reqCtx, orderID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, order, "Заказ успешно получен", http.StatusOK)
}

func (c *OrderController) CreateOrder(ctx echo.Context) error {
	var payload dto.CreateOrderDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	order, err := c.orderService.CreateOrder(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, order, "Заказ успешно создан", http.StatusCreated)
}

func (c *OrderController) UpdateOrder(ctx echo.Context) error {
	orderID := ctx.Param("orderId")

	var payload dto.UpdateOrderDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	order, err := c.orderService.UpdateOrder(ctx.Request().Context(), orderID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, order, "Заказ успешно обновлён", http.StatusOK)
}

func (c *OrderController) GetMessages(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	orderID := ctx.Param("orderId")

	messages, err := c.orderService.GetMessages(reqCtx, orderID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, messages, "Сообщения заказа получены", http.StatusOK)
}

func (c *OrderController) ClearMessages(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	orderID := ctx.Param("orderId")

	removed, err := c.orderService.ClearMessages(reqCtx, orderID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, map[string]int{"removed": removed}, "Журнал сообщений очищен", http.StatusOK)
}

func (c *OrderController) GetHistory(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	orderID := ctx.Param("orderId")

	history, err := c.orderService.GetHistory(reqCtx, orderID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, history, "История заказа получена", http.StatusOK)
}

// TriggerUpdate — ручная смена статуса. Принимает любой известный статус,
// включая отмену; цепочка симулятора здесь не действует.
func (c *OrderController) TriggerUpdate(ctx echo.Context) error {
	orderID := ctx.Param("orderId")

	var payload dto.TriggerUpdateDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	order, err := c.orderService.TriggerStatusUpdate(
		ctx.Request().Context(),
		orderID,
		entities.OrderStatus(payload.Status),
		utils.SafeDeref(payload.ChangedBy),
	)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, order, "Статус заказа обновлён", http.StatusOK)
}
