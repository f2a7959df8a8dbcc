package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kssamy/RealtimeStatusUpdatrs/internal/dto"
	"github.com/kssamy/RealtimeStatusUpdatrs/internal/entities"
	"github.com/kssamy/RealtimeStatusUpdatrs/internal/events"
	"github.com/kssamy/RealtimeStatusUpdatrs/internal/repositories"
	apperrors "github.com/kssamy/RealtimeStatusUpdatrs/pkg/errors"
	"github.com/kssamy/RealtimeStatusUpdatrs/pkg/eventbus"
)

type OrderServiceInterface interface {
	GetOrders(ctx context.Context, limit int) ([]entities.Order, error)
	FindOrder(ctx context.Context, orderID string) (*entities.Order, error)
	CreateOrder(ctx context.Context, payload dto.CreateOrderDTO) (*entities.Order, error)
	UpdateOrder(ctx context.Context, orderID string, payload dto.UpdateOrderDTO) (*entities.Order, error)

	GetMessages(ctx context.Context, orderID string) ([]entities.OrderMessage, error)
	ClearMessages(ctx context.Context, orderID string) (int, error)
	GetHistory(ctx context.Context, orderID string) ([]entities.OrderStatusHistory, error)

	TriggerStatusUpdate(ctx context.Context, orderID string, newStatus entities.OrderStatus, operator string) (*entities.Order, error)
	AdvanceOrder(ctx context.Context, orderID string) (bool, error)
}

// OrderService — бизнес-логика заказов. После каждой успешной мутации
// публикует события на шину; доставку подписчикам (live-канал, брокер)
// сервис не ждёт и их ошибок не видит.
type OrderService struct {
	orderRepo repositories.OrderRepositoryInterface
	bus       *eventbus.Bus
	logger    *zap.Logger
}

func NewOrderService(
	orderRepo repositories.OrderRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) OrderServiceInterface {
	return &OrderService{
		orderRepo: orderRepo,
		bus:       bus,
		logger:    logger,
	}
}

func (s *OrderService) GetOrders(ctx context.Context, limit int) ([]entities.Order, error) {
	return s.orderRepo.GetRecentOrders(ctx, limit)
}

func (s *OrderService) FindOrder(ctx context.Context, orderID string) (*entities.Order, error) {
	return s.orderRepo.FindOrder(ctx, orderID)
}

// CreateOrder регистрирует заказ, открывает его таймлайн стартовой записью
// и публикует событие обновления, чтобы live-дашборды увидели новый заказ.
func (s *OrderService) CreateOrder(ctx context.Context, payload dto.CreateOrderDTO) (*entities.Order, error) {
	amount, err := decimal.NewFromString(payload.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("некорректная сумма заказа: %w", apperrors.ErrBadRequest)
	}

	status := entities.StatusPending
	if payload.Status != nil {
		status = entities.OrderStatus(*payload.Status)
	}

	order, err := s.orderRepo.CreateOrder(ctx, entities.Order{
		OrderID:      payload.OrderID,
		CustomerID:   payload.CustomerID,
		CustomerName: payload.CustomerName,
		TotalAmount:  amount,
		ItemCount:    payload.ItemCount,
		Status:       status,
	})
	if err != nil {
		return nil, err
	}

	stage := entities.StageFor(order.Status)
	entry, err := s.orderRepo.AppendHistory(ctx, entities.OrderStatusHistory{
		OrderID:     order.OrderID,
		Status:      order.Status,
		Title:       stage.Title,
		Description: stage.Description,
		Operator:    entities.OperatorManual,
		Duration:    stage.Duration,
		Timestamp:   order.CreatedAt,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Создан новый заказ",
		zap.String("orderId", order.OrderID),
		zap.String("status", string(order.Status)),
	)

	s.bus.Publish(ctx, events.OrderUpdatedEvent{Order: *order, History: *entry})
	return order, nil
}

// UpdateOrder сливает частичное обновление в заказ. Запись таймлайна не
// добавляется: таймлайн отражает переходы статусов, а не правки полей.
func (s *OrderService) UpdateOrder(ctx context.Context, orderID string, payload dto.UpdateOrderDTO) (*entities.Order, error) {
	patch := repositories.OrderPatch{
		CustomerID:   payload.CustomerID,
		CustomerName: payload.CustomerName,
		ItemCount:    payload.ItemCount,
	}
	if payload.TotalAmount != nil {
		amount, err := decimal.NewFromString(*payload.TotalAmount)
		if err != nil {
			return nil, fmt.Errorf("некорректная сумма заказа: %w", apperrors.ErrBadRequest)
		}
		patch.TotalAmount = &amount
	}
	if payload.Status != nil {
		status := entities.OrderStatus(*payload.Status)
		patch.Status = &status
	}

	order, err := s.orderRepo.UpdateOrder(ctx, orderID, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Заказ обновлён", zap.String("orderId", order.OrderID))

	s.bus.Publish(ctx, events.OrderUpdatedEvent{Order: *order})
	return order, nil
}

func (s *OrderService) GetMessages(ctx context.Context, orderID string) ([]entities.OrderMessage, error) {
	return s.orderRepo.GetMessages(ctx, orderID)
}

func (s *OrderService) ClearMessages(ctx context.Context, orderID string) (int, error) {
	removed, err := s.orderRepo.ClearMessages(ctx, orderID)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("Журнал сообщений заказа очищен",
			zap.String("orderId", orderID),
			zap.Int("removed", removed),
		)
	}
	return removed, nil
}

func (s *OrderService) GetHistory(ctx context.Context, orderID string) ([]entities.OrderStatusHistory, error) {
	return s.orderRepo.GetHistory(ctx, orderID)
}

// TriggerStatusUpdate переводит заказ в произвольный известный статус.
// Цепочка симулятора здесь не проверяется: ручной оператор вправе вернуть
// заказ назад, перескочить этап или отменить заказ.
func (s *OrderService) TriggerStatusUpdate(ctx context.Context, orderID string, newStatus entities.OrderStatus, operator string) (*entities.Order, error) {
	if !newStatus.Valid() {
		return nil, apperrors.ErrUnknownStatus
	}
	if operator == "" {
		operator = entities.OperatorManual
	}
	return s.applyTransition(ctx, orderID, newStatus, operator)
}

// AdvanceOrder продвигает заказ на следующий статус цепочки от имени
// оператора System. Для терминального статуса — no-op без ошибки.
func (s *OrderService) AdvanceOrder(ctx context.Context, orderID string) (bool, error) {
	order, err := s.orderRepo.FindOrder(ctx, orderID)
	if err != nil {
		return false, err
	}

	if entities.IsFinalStatus(order.Status) {
		s.logger.Debug("Заказ в терминальном статусе, продвижение пропущено",
			zap.String("orderId", orderID),
			zap.String("status", string(order.Status)),
		)
		return false, nil
	}

	next, _ := entities.NextStatus(order.Status)
	if _, err := s.applyTransition(ctx, orderID, next, entities.OperatorSystem); err != nil {
		return false, err
	}
	return true, nil
}

// applyTransition выполняет составную смену статуса и публикует события.
func (s *OrderService) applyTransition(ctx context.Context, orderID string, newStatus entities.OrderStatus, operator string) (*entities.Order, error) {
	stage := entities.StageFor(newStatus)

	result, err := s.orderRepo.ApplyStatusUpdate(ctx, orderID, newStatus,
		entities.OrderStatusHistory{
			Title:       stage.Title,
			Description: stage.Description,
			Operator:    operator,
			Duration:    stage.Duration,
		},
		&entities.OrderMessage{
			MessageType: entities.MessageStatusUpdate,
			Content:     fmt.Sprintf("Статус заказа изменён на «%s»", newStatus),
		},
	)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Статус заказа изменён",
		zap.String("orderId", orderID),
		zap.String("status", string(newStatus)),
		zap.String("operator", operator),
	)

	s.bus.Publish(ctx, events.OrderUpdatedEvent{Order: result.Order, History: result.History})
	if result.Message != nil {
		s.bus.Publish(ctx, events.OrderMessageEvent{Message: *result.Message})
	}

	return &result.Order, nil
}
