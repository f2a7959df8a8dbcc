package broker

import (
	"fmt"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Connection оборачивает AMQP-соединение и канал. Переподключения нет:
// при разрыве ретрансляция просто замолкает, демо продолжает жить на
// таймерном симуляторе.
type Connection struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	logger  *zap.Logger
}

func Connect(url string, logger *zap.Logger) (*Connection, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к брокеру: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("не удалось открыть канал брокера: %w", err)
	}

	logger.Info("Подключение к брокеру установлено")

	return &Connection{
		conn:    conn,
		channel: channel,
		logger:  logger,
	}, nil
}

func (c *Connection) Channel() *amqp091.Channel {
	return c.channel
}

func (c *Connection) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			return fmt.Errorf("ошибка закрытия канала брокера: %w", err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			return fmt.Errorf("ошибка закрытия соединения с брокером: %w", err)
		}
	}
	return nil
}
