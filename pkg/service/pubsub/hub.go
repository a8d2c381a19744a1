// Package pubsub fans message-created events out to connected dashboard
// sessions. Delivery is best-effort and at-most-once: a subscriber that
// cannot keep up has events dropped rather than buffered, and nothing is
// replayed after reconnect.
package pubsub

import (
	"context"
	"sync"

	"github.com/salonevoice/salonevoice/pkg/domain/interfaces"
	"github.com/salonevoice/salonevoice/pkg/domain/model"
	"github.com/salonevoice/salonevoice/pkg/utils/logging"
)

const subscriberBuffer = 16

// Hub is an in-process publish/subscribe channel for inbound messages
type Hub struct {
	mu          sync.RWMutex
	subscribers map[int]chan *model.InboundMessage
	nextID      int
	closed      bool
}

var _ interfaces.MessagePublisher = &Hub{}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[int]chan *model.InboundMessage),
	}
}

// Subscribe registers a new subscriber and returns its channel plus an
// unsubscribe function. The channel is closed on unsubscribe or hub close.
func (h *Hub) Subscribe() (<-chan *model.InboundMessage, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		ch := make(chan *model.InboundMessage)
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	ch := make(chan *model.InboundMessage, subscriberBuffer)
	h.subscribers[id] = ch

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subscribers[id]; ok {
				delete(h.subscribers, id)
				close(ch)
			}
		})
	}
	return ch, unsubscribe
}

// Publish delivers the message to every current subscriber. A subscriber
// with a full buffer is skipped; the event is logged and dropped.
func (h *Hub) Publish(ctx context.Context, msg *model.InboundMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}

	for id, ch := range h.subscribers {
		select {
		case ch <- msg:
		default:
			logging.From(ctx).Warn("dropping event for slow subscriber",
				"subscriber", id, "message_id", msg.ID)
		}
	}
}

// Close shuts the hub down and closes every subscriber channel
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subscribers {
		delete(h.subscribers, id)
		close(ch)
	}
}
