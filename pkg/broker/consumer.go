package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// TriggerMessage — входящая команда смены статуса из очереди триггеров.
type TriggerMessage struct {
	OrderID   string `json:"order_id"`
	NewStatus string `json:"new_status"`
	ChangedBy string `json:"changed_by"`
}

// TriggerHandler применяет команду к заказу.
type TriggerHandler func(ctx context.Context, trigger TriggerMessage) error

// TriggerConsumer читает команды смены статуса из очереди брокера.
// Семантика at-most-once: сообщение подтверждается независимо от исхода
// обработки, повторной доставки нет.
type TriggerConsumer struct {
	conn   *Connection
	queue  string
	logger *zap.Logger
}

func NewTriggerConsumer(conn *Connection, queue string, logger *zap.Logger) (*TriggerConsumer, error) {
	_, err := conn.Channel().QueueDeclare(
		queue, // name
		true,  // durable
		false, // auto-deleted
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("не удалось объявить очередь %q: %w", queue, err)
	}

	return &TriggerConsumer{
		conn:   conn,
		queue:  queue,
		logger: logger,
	}, nil
}

// Consume обрабатывает очередь триггеров до отмены контекста или разрыва
// канала. Запускается в отдельной горутине.
func (c *TriggerConsumer) Consume(ctx context.Context, handler TriggerHandler) error {
	deliveries, err := c.conn.Channel().Consume(
		c.queue, // queue
		"",      // consumer
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		return fmt.Errorf("не удалось начать чтение очереди %q: %w", c.queue, err)
	}

	c.logger.Info("Чтение очереди триггеров запущено", zap.String("queue", c.queue))

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Чтение очереди триггеров остановлено")
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				c.logger.Warn("Канал очереди триггеров закрыт брокером")
				return errors.New("канал очереди триггеров закрыт")
			}

			var trigger TriggerMessage
			if err := json.Unmarshal(delivery.Body, &trigger); err != nil {
				c.logger.Warn("Нечитаемое сообщение в очереди триггеров", zap.Error(err))
				_ = delivery.Nack(false, false)
				continue
			}

			if err := handler(ctx, trigger); err != nil {
				c.logger.Error("Не удалось применить триггер из брокера",
					zap.String("orderId", trigger.OrderID),
					zap.String("status", trigger.NewStatus),
					zap.Error(err),
				)
			}
			_ = delivery.Ack(false)
		}
	}
}
