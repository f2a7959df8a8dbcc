package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// StatusUpdate — сообщение о смене статуса заказа для внешних потребителей.
type StatusUpdate struct {
	OrderID   string    `json:"order_id"`
	NewStatus string    `json:"new_status"`
	ChangedBy string    `json:"changed_by"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher ретранслирует обновления заказов в fanout-обменник.
type Publisher struct {
	conn     *Connection
	exchange string
	logger   *zap.Logger
}

func NewPublisher(conn *Connection, exchange string, logger *zap.Logger) (*Publisher, error) {
	err := conn.Channel().ExchangeDeclare(
		exchange, // name
		"fanout", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("не удалось объявить обменник %q: %w", exchange, err)
	}

	return &Publisher{
		conn:     conn,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// PublishStatusUpdate публикует обновление статуса. Доставка best-effort:
// ошибку публикации решает вызывающий (у нас — логирует и забывает).
func (p *Publisher) PublishStatusUpdate(ctx context.Context, update StatusUpdate) error {
	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("не удалось сериализовать обновление статуса: %w", err)
	}

	err = p.conn.Channel().PublishWithContext(
		ctx,
		p.exchange, // exchange
		"",         // routing key (для fanout не используется)
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("не удалось опубликовать обновление статуса: %w", err)
	}

	p.logger.Debug("Обновление статуса отправлено в брокер",
		zap.String("orderId", update.OrderID),
		zap.String("status", update.NewStatus),
	)
	return nil
}
