package eventbus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// handlerTimeout ограничивает время работы слушателя над одним событием.
	handlerTimeout = 1 * time.Minute

	// queueSize — ёмкость очереди каждого слушателя. Переполненная очередь
	// означает безнадёжно отставшего слушателя: событие отбрасывается.
	queueSize = 64
)

// Event — любое событие в системе.
type Event interface {
	Name() string
}

// Listener — обработчик (слушатель) событий.
type Listener func(ctx context.Context, event Event) error

// Bus — внутрипроцессная шина событий. У каждого слушателя своя очередь
// и своя горутина: события обрабатываются асинхронно, но строго в порядке
// публикации. Ошибки слушателей логируются и не доходят до публикующего.
type Bus struct {
	listeners map[string][]chan Event
	mu        sync.RWMutex
	logger    *zap.Logger
}

func New(logger *zap.Logger) *Bus {
	return &Bus{
		listeners: make(map[string][]chan Event),
		logger:    logger,
	}
}

// Subscribe подписывает слушателя на событие с указанным именем.
func (b *Bus) Subscribe(eventName string, listener Listener) {
	queue := make(chan Event, queueSize)
	go b.run(eventName, queue, listener)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventName] = append(b.listeners[eventName], queue)
}

// Publish публикует событие всем подписчикам, не блокируясь: если очередь
// слушателя заполнена, событие для него отбрасывается с предупреждением.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	eventName := event.Name()
	for _, queue := range b.listeners[eventName] {
		select {
		case queue <- event:
		default:
			b.logger.Warn("Очередь слушателя переполнена, событие отброшено",
				zap.String("event", eventName),
			)
		}
	}
}

// run последовательно обрабатывает очередь одного слушателя.
func (b *Bus) run(eventName string, queue <-chan Event, listener Listener) {
	for event := range queue {
		ctxWithTimeout, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		if err := listener(ctxWithTimeout, event); err != nil {
			b.logger.Error("Ошибка в обработчике события",
				zap.String("event", eventName),
				zap.Error(err),
			)
		}
		cancel()
	}
}
