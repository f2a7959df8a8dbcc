package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client — одно live-подключение. Подписка задаётся query-параметром
// orderId при подключении и меняется позже REST-вызовами либо текстовыми
// фреймами {"action": "subscribe"|"unsubscribe", "orderId": "..."}.
// Пустая начальная подписка означает режим «все заказы».
type Client struct {
	ID   uuid.UUID
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte

	mu        sync.RWMutex
	allOrders bool
	orders    map[string]struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, orderID string) *Client {
	client := &Client{
		ID:     uuid.New(),
		Hub:    hub,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		orders: make(map[string]struct{}),
	}
	if orderID == "" {
		client.allOrders = true
	} else {
		client.orders[orderID] = struct{}{}
	}
	return client
}

// Subscribe добавляет заказ в подписку клиента.
// Режим «все заказы» при этом снимается: подписка становится адресной.
func (c *Client) Subscribe(orderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.allOrders = false
	c.orders[orderID] = struct{}{}
}

// Unsubscribe убирает заказ из подписки клиента.
func (c *Client) Unsubscribe(orderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.orders, orderID)
}

// WantsOrder сообщает, интересует ли клиента событие по данному заказу.
func (c *Client) WantsOrder(orderID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.allOrders {
		return true
	}
	_, ok := c.orders[orderID]
	return ok
}

// ReadPump читает входящие фреймы до разрыва соединения и разбирает
// команды управления подпиской. Прочие фреймы игнорируются.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Debug("Live-клиент разорвал соединение",
					zap.String("clientId", c.ID.String()),
					zap.Error(err),
				)
			}
			break
		}
		c.handleFrame(message)
	}
}

func (c *Client) handleFrame(message []byte) {
	var frame subscriptionFrame
	if err := json.Unmarshal(message, &frame); err != nil || frame.OrderID == "" {
		return
	}
	switch frame.Action {
	case "subscribe":
		c.Subscribe(frame.OrderID)
	case "unsubscribe":
		c.Unsubscribe(frame.OrderID)
	}
}

// WritePump передаёт клиенту сообщения из очереди Send и пингует соединение.
// Закрытие очереди хабом завершает насос и само соединение.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
