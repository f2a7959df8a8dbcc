package entities

import "time"

// OrderStatusHistory — запись таймлайна: вход заказа в очередной статус.
// Записи append-only, не редактируются и не удаляются.
type OrderStatusHistory struct {
	ID          uint64      `json:"id"`
	OrderID     string      `json:"orderId"`
	Status      OrderStatus `json:"status"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Operator    string      `json:"operator"`
	Duration    *string     `json:"duration,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
}
