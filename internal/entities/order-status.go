package entities

// OrderStatus — статус жизненного цикла заказа.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"

	// StatusCancelled — терминальный боковой статус: достижим из любого
	// состояния только через ручной триггер, симулятор его не использует.
	StatusCancelled OrderStatus = "cancelled"
)

// AllStatuses — все допустимые значения статуса.
var AllStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// statusChain — прямая цепочка переходов демо-симулятора.
// У delivered и cancelled преемника нет: тик по ним — no-op.
var statusChain = map[OrderStatus]OrderStatus{
	StatusPending:    StatusConfirmed,
	StatusConfirmed:  StatusProcessing,
	StatusProcessing: StatusShipped,
	StatusShipped:    StatusDelivered,
}

// NextStatus возвращает следующий статус цепочки и признак его наличия.
func NextStatus(s OrderStatus) (OrderStatus, bool) {
	next, ok := statusChain[s]
	return next, ok
}

// IsFinalStatus — у статуса нет преемника в цепочке.
func IsFinalStatus(s OrderStatus) bool {
	_, ok := statusChain[s]
	return !ok
}

// Операторы смены статуса для записей истории.
const (
	OperatorSystem = "System"
	OperatorManual = "Manual"
)

// StatusStage — человекочитаемое описание этапа для таймлайна.
type StatusStage struct {
	Title       string
	Description string
	Duration    *string
}

func strPtr(s string) *string { return &s }

// statusStages — фиксированная таблица заголовков/описаний по статусам.
var statusStages = map[OrderStatus]StatusStage{
	StatusPending: {
		Title:       "Заказ создан",
		Description: "Заказ зарегистрирован и ожидает подтверждения",
	},
	StatusConfirmed: {
		Title:       "Заказ подтверждён",
		Description: "Оплата получена, заказ передан на склад",
		Duration:    strPtr("≈10 секунд"),
	},
	StatusProcessing: {
		Title:       "Заказ комплектуется",
		Description: "Позиции заказа собираются и упаковываются",
		Duration:    strPtr("≈10 секунд"),
	},
	StatusShipped: {
		Title:       "Заказ передан в доставку",
		Description: "Посылка передана курьерской службе",
		Duration:    strPtr("≈10 секунд"),
	},
	StatusDelivered: {
		Title:       "Заказ доставлен",
		Description: "Посылка вручена получателю",
	},
	StatusCancelled: {
		Title:       "Заказ отменён",
		Description: "Заказ отменён оператором",
	},
}

// StageFor возвращает описание этапа; для неизвестного статуса — заглушку,
// чтобы запись истории всегда была читаемой.
func StageFor(s OrderStatus) StatusStage {
	if stage, ok := statusStages[s]; ok {
		return stage
	}
	return StatusStage{
		Title:       "Статус обновлён",
		Description: "Статус заказа изменён на " + string(s),
	}
}
