package entities

import "time"

// MessageType — тип сообщения в журнале заказа.
type MessageType string

const (
	MessageStatusUpdate MessageType = "status_update"
	MessageInfo         MessageType = "info"
	MessageWarning      MessageType = "warning"
	MessageError        MessageType = "error"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageStatusUpdate, MessageInfo, MessageWarning, MessageError:
		return true
	}
	return false
}

// OrderMessage — сообщение журнала заказа. Журнал append-only, отдельные
// сообщения не редактируются; журнал целиком можно очистить.
// Сообщения-«сироты» для ещё не созданного заказа допустимы.
type OrderMessage struct {
	ID          uint64                 `json:"id"`
	OrderID     string                 `json:"orderId"`
	MessageType MessageType            `json:"messageType"`
	Content     string                 `json:"content"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
}
