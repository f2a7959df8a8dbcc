package events

import (
	"github.com/kssamy/RealtimeStatusUpdatrs/internal/entities"
)

// OrderUpdatedEvent возникает после каждой мутации заказа: создания,
// правки полей или смены статуса. History заполнена только когда мутация
// добавила запись таймлайна; у правки полей History нулевая.
type OrderUpdatedEvent struct {
	Order   entities.Order
	History entities.OrderStatusHistory
}

// Name реализует интерфейс eventbus.Event.
func (e OrderUpdatedEvent) Name() string {
	return "order.updated"
}

// OrderMessageEvent возникает после добавления записи в журнал сообщений заказа.
type OrderMessageEvent struct {
	Message entities.OrderMessage
}

// Name реализует интерфейс eventbus.Event.
func (e OrderMessageEvent) Name() string {
	return "order.message.created"
}
