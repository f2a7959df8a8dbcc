package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/kssamy/RealtimeStatusUpdatrs/pkg/errors"
)

// Hub ведёт реестр live-клиентов и рассылает им события заказов.
//
// Дисциплина блокировок: запись в очередь клиента выполняется только под
// h.mu (рассылка — под RLock), а закрытие очереди — только под полным Lock
// в removeClient. Поэтому запись в уже закрытую очередь невозможна, а отвал
// клиента посреди рассылки не ломает обход реестра.
type Hub struct {
	clients map[*Client]bool
	byID    map[uuid.UUID]*Client

	Register   chan *Client
	unregister chan *Client

	mu     sync.RWMutex
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		byID:       make(map[uuid.UUID]*Client),
		Register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run обслуживает подключение и отключение клиентов.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

// addClient вводит клиента в реестр и сразу подтверждает подключение
// событием connection_status. Очередь нового клиента пуста, поэтому
// подтверждение гарантированно встаёт первым.
func (h *Hub) addClient(client *Client) {
	message, err := h.marshalEnvelope(EventConnectionStatus, ConnectionStatusPayload{
		Connected: true,
		ClientID:  client.ID.String(),
		Timestamp: time.Now().UTC(),
	})

	h.mu.Lock()
	h.clients[client] = true
	h.byID[client.ID] = client
	if err == nil {
		select {
		case client.Send <- message:
		default:
		}
	}
	h.mu.Unlock()

	h.logger.Info("Live-клиент подключён", zap.String("clientId", client.ID.String()))
}

// removeClient выводит клиента из рассылки и закрывает его очередь.
// Повторный вызов для уже удалённого клиента безвреден.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	delete(h.byID, client.ID)
	close(client.Send)

	h.logger.Info("Live-клиент отключён", zap.String("clientId", client.ID.String()))
}

// BroadcastToOrder доставляет событие клиентам, подписанным на заказ,
// и клиентам в режиме «все заказы».
func (h *Hub) BroadcastToOrder(orderID string, messageType string, payload interface{}) error {
	return h.broadcast(messageType, payload, func(client *Client) bool {
		return client.WantsOrder(orderID)
	})
}

// BroadcastAll доставляет событие всем подключённым клиентам.
func (h *Hub) BroadcastAll(messageType string, payload interface{}) error {
	return h.broadcast(messageType, payload, nil)
}

func (h *Hub) broadcast(messageType string, payload interface{}, wants func(*Client) bool) error {
	message, err := h.marshalEnvelope(messageType, payload)
	if err != nil {
		return err
	}

	// Переполненная очередь означает мёртвое или безнадёжно отставшее
	// соединение: такой клиент выводится из рассылки после обхода.
	var stale []*Client

	h.mu.RLock()
	for client := range h.clients {
		if wants != nil && !wants(client) {
			continue
		}
		select {
		case client.Send <- message:
		default:
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stale {
		h.logger.Warn("Очередь live-клиента переполнена, клиент отключается",
			zap.String("clientId", client.ID.String()),
			zap.String("type", messageType),
		)
		h.removeClient(client)
	}
	return nil
}

func (h *Hub) marshalEnvelope(messageType string, payload interface{}) ([]byte, error) {
	message, err := json.Marshal(Envelope{
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		h.logger.Error("Не удалось сериализовать live-событие",
			zap.String("type", messageType),
			zap.Error(err),
		)
		return nil, err
	}
	return message, nil
}

// Subscribe добавляет заказ в подписку клиента по его идентификатору.
func (h *Hub) Subscribe(clientID uuid.UUID, orderID string) error {
	client, err := h.findClient(clientID)
	if err != nil {
		return err
	}
	client.Subscribe(orderID)
	h.logger.Info("Live-клиент подписан на заказ",
		zap.String("clientId", clientID.String()),
		zap.String("orderId", orderID),
	)
	return nil
}

// Unsubscribe убирает заказ из подписки клиента по его идентификатору.
func (h *Hub) Unsubscribe(clientID uuid.UUID, orderID string) error {
	client, err := h.findClient(clientID)
	if err != nil {
		return err
	}
	client.Unsubscribe(orderID)
	h.logger.Info("Live-клиент отписан от заказа",
		zap.String("clientId", clientID.String()),
		zap.String("orderId", orderID),
	)
	return nil
}

func (h *Hub) findClient(clientID uuid.UUID) (*Client, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.byID[clientID]
	if !ok {
		return nil, apperrors.ErrClientNotFound
	}
	return client, nil
}

// ClientCount возвращает число подключённых live-клиентов.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
