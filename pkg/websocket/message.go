package websocket

import "time"

// Типы событий live-канала.
const (
	EventConnectionStatus = "connection_status"
	EventOrderUpdate      = "order_update"
	EventMessageUpdate    = "message_update"
)

// Envelope — конверт каждого исходящего сообщения live-канала.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// ConnectionStatusPayload отправляется клиенту сразу после регистрации.
// ClientID клиент использует для управления подпиской через REST.
type ConnectionStatusPayload struct {
	Connected bool      `json:"connected"`
	ClientID  string    `json:"clientId"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderUpdatePayload несёт полное актуальное состояние заказа.
type OrderUpdatePayload struct {
	Data interface{} `json:"data"`
}

// MessageUpdatePayload — новая запись журнала сообщений заказа.
type MessageUpdatePayload struct {
	OrderID     string    `json:"orderId"`
	MessageType string    `json:"messageType"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
}

// subscriptionFrame — входящий текстовый фрейм управления подпиской.
type subscriptionFrame struct {
	Action  string `json:"action"`
	OrderID string `json:"orderId"`
}
