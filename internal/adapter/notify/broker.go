package notify

import (
	"sync"

	"github.com/google/uuid"
	"github.com/runecoins/coinstore/internal/core/domain"
	"go.uber.org/zap"
)

const subscriberBuffer = 16

// Broker is the process-wide registry of connected admin sessions.
// Best-effort fan-out: a subscriber that cannot keep up loses events,
// and there is no backlog for late joiners.
type Broker struct {
	mu          sync.Mutex
	subscribers map[string]chan domain.Notification
	logger      *zap.Logger
}

func NewBroker(log *zap.Logger) *Broker {
	return &Broker{
		subscribers: make(map[string]chan domain.Notification),
		logger:      log,
	}
}

type Subscription struct {
	ID string
	C  <-chan domain.Notification
}

func (b *Broker) Subscribe() Subscription {
	ch := make(chan domain.Notification, subscriberBuffer)
	id := uuid.NewString()

	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()

	return Subscription{ID: id, C: ch}
}

func (b *Broker) Unsubscribe(id string) {
	b.mu.Lock()
	ch, ok := b.subscribers[id]
	if ok {
		delete(b.subscribers, id)
	}
	b.mu.Unlock()

	if ok {
		close(ch)
	}
}

func (b *Broker) Broadcast(event domain.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			b.logger.Warn("dropping notification for slow subscriber",
				zap.String("subscriber", id), zap.String("type", string(event.Type)))
		}
	}
}

func (b *Broker) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}
