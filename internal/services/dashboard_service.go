package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kssamy/RealtimeStatusUpdatrs/internal/dto"
	"github.com/kssamy/RealtimeStatusUpdatrs/internal/entities"
	"github.com/kssamy/RealtimeStatusUpdatrs/internal/repositories"
	"github.com/kssamy/RealtimeStatusUpdatrs/pkg/websocket"
)

type DashboardServiceInterface interface {
	GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error)
}

// DashboardService собирает сводку по заказам и live-подключениям.
type DashboardService struct {
	orderRepo        repositories.OrderRepositoryInterface
	hub              *websocket.Hub
	simulatorEnabled bool
	logger           *zap.Logger
}

func NewDashboardService(
	orderRepo repositories.OrderRepositoryInterface,
	hub *websocket.Hub,
	simulatorEnabled bool,
	logger *zap.Logger,
) DashboardServiceInterface {
	return &DashboardService{
		orderRepo:        orderRepo,
		hub:              hub,
		simulatorEnabled: simulatorEnabled,
		logger:           logger,
	}
}

func (s *DashboardService) GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	orders, err := s.orderRepo.GetRecentOrders(ctx, 0)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(entities.AllStatuses))
	for _, status := range entities.AllStatuses {
		counts[string(status)] = 0
	}

	total := decimal.Zero
	for _, order := range orders {
		counts[string(order.Status)]++
		total = total.Add(order.TotalAmount)
	}

	return &dto.DashboardStatsDTO{
		TotalOrders:      int64(len(orders)),
		StatusCounts:     counts,
		TotalAmount:      total.String(),
		ConnectedClients: s.hub.ClientCount(),
		SimulatorEnabled: s.simulatorEnabled,
		GeneratedAt:      time.Now().UTC(),
	}, nil
}
