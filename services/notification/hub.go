package notification

import (
	"fmt"
	"sync"
	"time"

	"room-booking/logger"
)

// Notification is one fire-and-forget toast for the UI.
type Notification struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	CreatedAt   time.Time `json:"created_at"`
}

// Hub fans notifications out to any number of stream subscribers. Delivery is
// best effort: a subscriber that stops draining loses messages rather than
// blocking the sender.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Notification
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subs: make(map[int]chan Notification),
	}
}

// Notify implements the reconciler's NotificationSink.
func (h *Hub) Notify(title, description, severity string) {
	n := Notification{
		Title:       title,
		Description: description,
		Severity:    severity,
		CreatedAt:   time.Now(),
	}

	logger.Info(fmt.Sprintf("Notification [%s] %s: %s", severity, title, description))

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- n:
		default:
		}
	}
}

// Subscribe registers a stream consumer and returns its channel plus an
// unsubscribe function.
func (h *Hub) Subscribe() (<-chan Notification, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++

	ch := make(chan Notification, 32)
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}

	return ch, cancel
}
