package services

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kssamy/RealtimeStatusUpdatrs/internal/repositories"
)

// SimulatorService — демо-движок прогресса: каждый тик таймера продвигает
// один случайный заказ на следующий статус цепочки от имени оператора
// System. Заказы в терминальных статусах пропускаются, неудачный тик
// логируется и не останавливает цикл.
type SimulatorService struct {
	orders    OrderServiceInterface
	orderRepo repositories.OrderRepositoryInterface
	interval  time.Duration
	logger    *zap.Logger

	stopOnce sync.Once
	stop     chan struct{}
}

func NewSimulatorService(
	orders OrderServiceInterface,
	orderRepo repositories.OrderRepositoryInterface,
	interval time.Duration,
	logger *zap.Logger,
) *SimulatorService {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &SimulatorService{
		orders:    orders,
		orderRepo: orderRepo,
		interval:  interval,
		logger:    logger,
		stop:      make(chan struct{}),
	}
}

// Run крутит цикл симуляции до вызова Stop. Запускается в отдельной горутине.
func (s *SimulatorService) Run() {
	s.logger.Info("Симулятор статусов запущен", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(context.Background())
		case <-s.stop:
			s.logger.Info("Симулятор статусов остановлен")
			return
		}
	}
}

// Stop останавливает цикл симуляции. Повторные вызовы безвредны.
func (s *SimulatorService) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

// tick выбирает случайный заказ из хранилища и продвигает его по цепочке.
// Заказы, созданные через API после старта, участвуют наравне с демо-набором.
func (s *SimulatorService) tick(ctx context.Context) {
	ids, err := s.orderRepo.ListOrderIDs(ctx)
	if err != nil {
		s.logger.Error("Тик симулятора: не удалось получить список заказов", zap.Error(err))
		return
	}
	if len(ids) == 0 {
		s.logger.Debug("Тик симулятора: заказов нет, продвигать нечего")
		return
	}

	s.advance(ctx, ids[rand.Intn(len(ids))])
}

// advance продвигает один заказ; любая ошибка касается только этого тика.
func (s *SimulatorService) advance(ctx context.Context, orderID string) {
	advanced, err := s.orders.AdvanceOrder(ctx, orderID)
	if err != nil {
		s.logger.Error("Тик симулятора не удался",
			zap.String("orderId", orderID),
			zap.Error(err),
		)
		return
	}
	if !advanced {
		return
	}

	s.logger.Debug("Симулятор продвинул заказ", zap.String("orderId", orderID))
}
