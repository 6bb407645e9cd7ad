package notify

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/dtroode/fingerprint-server/internal/logger"
	"github.com/dtroode/fingerprint-server/internal/model"
)

// Subscription is an observer registered on a Hub. Events arrive on C until
// the subscription is removed or the hub is closed, then C is closed.
type Subscription struct {
	ID uuid.UUID
	C  <-chan model.Event

	ch      chan model.Event
	once    sync.Once
	dropped atomic.Int64
}

func (s *Subscription) close() {
	s.once.Do(func() { close(s.ch) })
}

// Hub fans events out to subscribers. Publish never blocks: a subscriber whose
// buffer is full misses the event and the drop is logged.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]*Subscription
	buffer int
	closed bool
	logger *logger.Logger
}

func NewHub(buffer int, logger *logger.Logger) *Hub {
	if buffer <= 0 {
		buffer = 1
	}
	return &Hub{
		subs:   make(map[uuid.UUID]*Subscription),
		buffer: buffer,
		logger: logger,
	}
}

// Subscribe registers a new observer. Subscribing to a closed hub returns a
// subscription whose channel is already closed.
func (h *Hub) Subscribe() *Subscription {
	ch := make(chan model.Event, h.buffer)
	sub := &Subscription{ID: uuid.New(), C: ch, ch: ch}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		sub.close()
		return sub
	}
	h.subs[sub.ID] = sub

	h.logger.Debug("Event hub: subscribed", "subscription", sub.ID, "subscribers", len(h.subs))
	return sub
}

// Unsubscribe removes the observer and closes its channel. Unknown IDs are ignored.
func (h *Hub) Unsubscribe(id uuid.UUID) {
	h.mu.Lock()
	sub, ok := h.subs[id]
	delete(h.subs, id)
	h.mu.Unlock()

	if !ok {
		return
	}
	sub.close()
	h.logger.Debug("Event hub: unsubscribed", "subscription", id)
}

// Publish delivers event to every current subscriber at most once.
func (h *Hub) Publish(event model.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}

	for _, sub := range lo.Values(h.subs) {
		select {
		case sub.ch <- event:
		default:
			dropped := sub.dropped.Add(1)
			h.logger.Warn("Event hub: subscriber is not keeping up, event dropped",
				"subscription", sub.ID,
				"kind", event.Kind,
				"dropped", dropped,
			)
		}
	}
}

// Subscribers returns the number of registered observers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close removes every subscriber. Later publishes are discarded.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := lo.Values(h.subs)
	h.subs = make(map[uuid.UUID]*Subscription)
	h.closed = true
	h.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
}
