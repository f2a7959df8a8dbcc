package listeners

import (
	"context"

	"go.uber.org/zap"

	"github.com/kssamy/RealtimeStatusUpdatrs/internal/events"
	"github.com/kssamy/RealtimeStatusUpdatrs/pkg/broker"
	"github.com/kssamy/RealtimeStatusUpdatrs/pkg/eventbus"
)

// BrokerRelayListener ретранслирует смены статусов во внешний брокер.
// Регистрируется только при настроенном подключении.
type BrokerRelayListener struct {
	publisher *broker.Publisher
	logger    *zap.Logger
}

func NewBrokerRelayListener(publisher *broker.Publisher, logger *zap.Logger) *BrokerRelayListener {
	return &BrokerRelayListener{
		publisher: publisher,
		logger:    logger,
	}
}

func (l *BrokerRelayListener) Register(bus *eventbus.Bus) {
	bus.Subscribe("order.updated", l.handleOrderUpdated)
	l.logger.Info("Ретрансляция смен статусов в брокер включена")
}

func (l *BrokerRelayListener) handleOrderUpdated(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderUpdatedEvent)
	if !ok {
		return nil
	}

	// Правки полей без смены статуса наружу не транслируются.
	if e.History.ID == 0 {
		return nil
	}

	return l.publisher.PublishStatusUpdate(ctx, broker.StatusUpdate{
		OrderID:   e.Order.OrderID,
		NewStatus: string(e.Order.Status),
		ChangedBy: e.History.Operator,
		Timestamp: e.History.Timestamp,
	})
}
