package listeners

import (
	"context"

	"go.uber.org/zap"

	"github.com/kssamy/RealtimeStatusUpdatrs/internal/events"
	"github.com/kssamy/RealtimeStatusUpdatrs/pkg/eventbus"
	"github.com/kssamy/RealtimeStatusUpdatrs/pkg/websocket"
)

// BroadcastListener пересылает события заказов в live-канал: каждое
// обновление уходит клиентам, подписанным на этот заказ, и клиентам
// в режиме «все заказы».
type BroadcastListener struct {
	hub    *websocket.Hub
	logger *zap.Logger
}

func NewBroadcastListener(hub *websocket.Hub, logger *zap.Logger) *BroadcastListener {
	return &BroadcastListener{
		hub:    hub,
		logger: logger,
	}
}

func (l *BroadcastListener) Register(bus *eventbus.Bus) {
	bus.Subscribe("order.updated", l.handleOrderUpdated)
	bus.Subscribe("order.message.created", l.handleOrderMessage)
	l.logger.Info("Ретрансляция событий заказов в live-канал включена")
}

func (l *BroadcastListener) handleOrderUpdated(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderUpdatedEvent)
	if !ok {
		return nil
	}

	return l.hub.BroadcastToOrder(e.Order.OrderID, websocket.EventOrderUpdate, websocket.OrderUpdatePayload{
		Data: e.Order,
	})
}

func (l *BroadcastListener) handleOrderMessage(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderMessageEvent)
	if !ok {
		return nil
	}

	return l.hub.BroadcastToOrder(e.Message.OrderID, websocket.EventMessageUpdate, websocket.MessageUpdatePayload{
		OrderID:     e.Message.OrderID,
		MessageType: string(e.Message.MessageType),
		Content:     e.Message.Content,
		Timestamp:   e.Message.Timestamp,
	})
}
