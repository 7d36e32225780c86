package reconciler

import (
	"sync"
)

// ChangeEvent signals that a watched table may have changed. The engine treats
// every event as an opaque re-check signal; Payload is carried for logging only.
type ChangeEvent struct {
	Table     string
	Operation string
	Payload   interface{}
}

// ChangeNotifier is an in-process publish/subscribe channel for data change
// events. The CRUD layer publishes after each committed write; the engine
// subscribes and coalesces bursts into one reconciliation pass.
type ChangeNotifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan ChangeEvent
}

// NewChangeNotifier creates an empty notifier.
func NewChangeNotifier() *ChangeNotifier {
	return &ChangeNotifier{
		subs: make(map[int]chan ChangeEvent),
	}
}

// Publish delivers the event to every subscriber without blocking. A
// subscriber that has fallen behind loses the event; that is acceptable
// because events carry no state, only "re-check".
func (n *ChangeNotifier) Publish(event ChangeEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe registers a new subscriber and returns its channel together with
// an unsubscribe function. The channel is closed on unsubscribe.
func (n *ChangeNotifier) Subscribe() (<-chan ChangeEvent, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++

	ch := make(chan ChangeEvent, 16)
	n.subs[id] = ch

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if sub, ok := n.subs[id]; ok {
			delete(n.subs, id)
			close(sub)
		}
	}

	return ch, cancel
}
