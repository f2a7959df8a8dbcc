package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kssamy/RealtimeStatusUpdatrs/internal/entities"
	apperrors "github.com/kssamy/RealtimeStatusUpdatrs/pkg/errors"
)

// OrderPatch — частичное обновление заказа: применяются только ненулевые поля.
// Слияние выполняется внутри критической секции хранилища, чтобы читатели
// не видели заказ, обновлённый наполовину.
type OrderPatch struct {
	CustomerID   *string
	CustomerName *string
	TotalAmount  *decimal.Decimal
	ItemCount    *int
	Status       *entities.OrderStatus
}

// StatusUpdateResult — итог составной смены статуса: заказ, запись истории
// и сообщение журнала с уже назначенными идентификаторами и временем.
type StatusUpdateResult struct {
	Order   entities.Order
	History entities.OrderStatusHistory
	Message *entities.OrderMessage
}

type OrderRepositoryInterface interface {
	CreateOrder(ctx context.Context, order entities.Order) (*entities.Order, error)
	FindOrder(ctx context.Context, orderID string) (*entities.Order, error)
	GetRecentOrders(ctx context.Context, limit int) ([]entities.Order, error)
	UpdateOrder(ctx context.Context, orderID string, patch OrderPatch) (*entities.Order, error)
	ListOrderIDs(ctx context.Context) ([]string, error)

	ApplyStatusUpdate(ctx context.Context, orderID string, newStatus entities.OrderStatus, entry entities.OrderStatusHistory, message *entities.OrderMessage) (*StatusUpdateResult, error)

	AppendMessage(ctx context.Context, message entities.OrderMessage) (*entities.OrderMessage, error)
	GetMessages(ctx context.Context, orderID string) ([]entities.OrderMessage, error)
	ClearMessages(ctx context.Context, orderID string) (int, error)

	AppendHistory(ctx context.Context, entry entities.OrderStatusHistory) (*entities.OrderStatusHistory, error)
	GetHistory(ctx context.Context, orderID string) ([]entities.OrderStatusHistory, error)
}

// OrderRepository — in-memory хранилище демо-данных. Все три набора —
// заказы, сообщения и история — живут под одним RWMutex, поэтому составные
// операции атомарны для читателей. Методы возвращают копии, внутренние
// срезы и указатели наружу не выдаются.
type OrderRepository struct {
	mu sync.RWMutex

	orders   map[string]*entities.Order
	messages map[string][]entities.OrderMessage
	history  map[string][]entities.OrderStatusHistory

	// insertedAt — порядковый номер вставки заказа, разрешает ничью
	// в сортировке по updatedAt.
	insertedAt map[string]uint64
	insertSeq  uint64

	messageSeq uint64
	historySeq uint64
}

func NewOrderRepository() OrderRepositoryInterface {
	return &OrderRepository{
		orders:     make(map[string]*entities.Order),
		messages:   make(map[string][]entities.OrderMessage),
		history:    make(map[string][]entities.OrderStatusHistory),
		insertedAt: make(map[string]uint64),
	}
}

// CreateOrder регистрирует новый заказ. Повторный orderId — ошибка
// ErrDuplicateOrder: молчаливая перезапись скрывала бы дефекты клиентов.
func (r *OrderRepository) CreateOrder(ctx context.Context, order entities.Order) (*entities.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.OrderID]; exists {
		return nil, apperrors.ErrDuplicateOrder
	}

	now := time.Now().UTC()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = order.CreatedAt
	}
	if order.Status == "" {
		order.Status = entities.StatusPending
	}

	stored := order
	r.orders[order.OrderID] = &stored
	r.insertSeq++
	r.insertedAt[order.OrderID] = r.insertSeq

	copied := stored
	return &copied, nil
}

func (r *OrderRepository) FindOrder(ctx context.Context, orderID string) (*entities.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, apperrors.ErrOrderNotFound
	}

	copied := *order
	return &copied, nil
}

// GetRecentOrders возвращает заказы по убыванию updatedAt; при равенстве
// времени заказы идут в порядке вставки, раньше созданный — первым.
// limit <= 0 снимает ограничение.
func (r *OrderRepository) GetRecentOrders(ctx context.Context, limit int) ([]entities.Order, error) {
	r.mu.RLock()

	orders := make([]entities.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orders = append(orders, *order)
	}
	seq := make(map[string]uint64, len(r.insertedAt))
	for id, n := range r.insertedAt {
		seq[id] = n
	}
	r.mu.RUnlock()

	sort.Slice(orders, func(i, j int) bool {
		if orders[i].UpdatedAt.Equal(orders[j].UpdatedAt) {
			return seq[orders[i].OrderID] < seq[orders[j].OrderID]
		}
		return orders[i].UpdatedAt.After(orders[j].UpdatedAt)
	})

	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

// UpdateOrder сливает заполненные поля патча в существующий заказ и
// обновляет updatedAt. Несуществующий заказ не создаётся.
func (r *OrderRepository) UpdateOrder(ctx context.Context, orderID string, patch OrderPatch) (*entities.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, apperrors.ErrOrderNotFound
	}

	if patch.CustomerID != nil {
		order.CustomerID = *patch.CustomerID
	}
	if patch.CustomerName != nil {
		order.CustomerName = *patch.CustomerName
	}
	if patch.TotalAmount != nil {
		order.TotalAmount = *patch.TotalAmount
	}
	if patch.ItemCount != nil {
		order.ItemCount = *patch.ItemCount
	}
	if patch.Status != nil {
		order.Status = *patch.Status
	}
	order.UpdatedAt = time.Now().UTC()

	copied := *order
	return &copied, nil
}

func (r *OrderRepository) ListOrderIDs(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.orders))
	for id := range r.orders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// ApplyStatusUpdate — составная операция смены статуса: новый статус,
// запись истории и, опционально, сообщение журнала фиксируются в одной
// критической секции с единым временем. Читатель никогда не увидит заказ
// с новым статусом, но без соответствующей записи истории.
func (r *OrderRepository) ApplyStatusUpdate(ctx context.Context, orderID string, newStatus entities.OrderStatus, entry entities.OrderStatusHistory, message *entities.OrderMessage) (*StatusUpdateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, apperrors.ErrOrderNotFound
	}

	now := time.Now().UTC()
	order.Status = newStatus
	order.UpdatedAt = now

	r.historySeq++
	entry.ID = r.historySeq
	entry.OrderID = orderID
	entry.Status = newStatus
	if entry.Timestamp.IsZero() {
		entry.Timestamp = now
	}
	r.history[orderID] = append(r.history[orderID], entry)

	result := &StatusUpdateResult{
		Order:   *order,
		History: entry,
	}

	if message != nil {
		r.messageSeq++
		stored := *message
		stored.ID = r.messageSeq
		stored.OrderID = orderID
		if stored.Timestamp.IsZero() {
			stored.Timestamp = now
		}
		r.messages[orderID] = append(r.messages[orderID], stored)
		result.Message = &stored
	}

	return result, nil
}

// AppendMessage добавляет сообщение в журнал заказа. Существование заказа
// не проверяется: сообщения-«сироты» допустимы.
func (r *OrderRepository) AppendMessage(ctx context.Context, message entities.OrderMessage) (*entities.OrderMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messageSeq++
	message.ID = r.messageSeq
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC()
	}
	r.messages[message.OrderID] = append(r.messages[message.OrderID], message)

	copied := message
	return &copied, nil
}

// GetMessages возвращает журнал заказа в порядке добавления.
// Для неизвестного заказа журнал пуст — это не ошибка.
func (r *OrderRepository) GetMessages(ctx context.Context, orderID string) ([]entities.OrderMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.messages[orderID]
	messages := make([]entities.OrderMessage, len(stored))
	copy(messages, stored)
	return messages, nil
}

// ClearMessages очищает журнал заказа и сообщает, сколько записей снято.
func (r *OrderRepository) ClearMessages(ctx context.Context, orderID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := len(r.messages[orderID])
	delete(r.messages, orderID)
	return removed, nil
}

// AppendHistory добавляет запись таймлайна напрямую, минуя смену статуса.
// Используется для стартовой записи «заказ создан» и сидинга.
func (r *OrderRepository) AppendHistory(ctx context.Context, entry entities.OrderStatusHistory) (*entities.OrderStatusHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.historySeq++
	entry.ID = r.historySeq
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	r.history[entry.OrderID] = append(r.history[entry.OrderID], entry)

	copied := entry
	return &copied, nil
}

// GetHistory возвращает таймлайн заказа в порядке добавления записей.
func (r *OrderRepository) GetHistory(ctx context.Context, orderID string) ([]entities.OrderStatusHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.history[orderID]
	history := make([]entities.OrderStatusHistory, len(stored))
	copy(history, stored)
	return history, nil
}
