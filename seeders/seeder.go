package seeders

import (
	"context"
	"errors"
	"log"

	"github.com/shopspring/decimal"

	"github.com/kssamy/RealtimeStatusUpdatrs/internal/entities"
	"github.com/kssamy/RealtimeStatusUpdatrs/internal/repositories"
	apperrors "github.com/kssamy/RealtimeStatusUpdatrs/pkg/errors"
)

// SeedDemoOrders наполняет хранилище демо-набором заказов и возвращает их
// идентификаторы. Каждый заказ получает стартовую запись таймлайна и
// приветственное сообщение журнала.
func SeedDemoOrders(repo repositories.OrderRepositoryInterface) ([]string, error) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения демо-заказов...")

	ids := make([]string, 0, len(demoOrders))
	for _, seed := range demoOrders {
		amount, err := decimal.NewFromString(seed.TotalAmount)
		if err != nil {
			return nil, err
		}

		order, err := repo.CreateOrder(ctx, entities.Order{
			OrderID:      seed.OrderID,
			CustomerID:   seed.CustomerID,
			CustomerName: seed.CustomerName,
			TotalAmount:  amount,
			ItemCount:    seed.ItemCount,
			Status:       entities.StatusPending,
		})
		if errors.Is(err, apperrors.ErrDuplicateOrder) {
			log.Printf("  - Заказ '%s' уже существует, пропускаем", seed.OrderID)
			ids = append(ids, seed.OrderID)
			continue
		}
		if err != nil {
			log.Printf("❌ Ошибка создания демо-заказа '%s': %v", seed.OrderID, err)
			return nil, err
		}

		stage := entities.StageFor(order.Status)
		if _, err := repo.AppendHistory(ctx, entities.OrderStatusHistory{
			OrderID:     order.OrderID,
			Status:      order.Status,
			Title:       stage.Title,
			Description: stage.Description,
			Operator:    entities.OperatorSystem,
			Duration:    stage.Duration,
			Timestamp:   order.CreatedAt,
		}); err != nil {
			return nil, err
		}

		if _, err := repo.AppendMessage(ctx, entities.OrderMessage{
			OrderID:     order.OrderID,
			MessageType: entities.MessageInfo,
			Content:     "Демо-заказ создан и ожидает подтверждения",
			Timestamp:   order.CreatedAt,
		}); err != nil {
			return nil, err
		}

		ids = append(ids, order.OrderID)
	}

	log.Printf("✅ Наполнение демо-заказов завершено: %d шт.", len(ids))
	return ids, nil
}
