package reconciler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_DeliversToSubscribers(t *testing.T) {
	n := NewChangeNotifier()
	events, unsubscribe := n.Subscribe()
	defer unsubscribe()

	n.Publish(ChangeEvent{Table: "reservations", Operation: "INSERT", Payload: uint(7)})

	select {
	case event := <-events:
		assert.Equal(t, "reservations", event.Table)
		assert.Equal(t, "INSERT", event.Operation)
	default:
		t.Fatal("expected a buffered event")
	}
}

func TestNotifier_PublishNeverBlocks(t *testing.T) {
	n := NewChangeNotifier()
	_, unsubscribe := n.Subscribe()
	defer unsubscribe()

	// Nobody drains; publishing far past the buffer must still return.
	for i := 0; i < 1000; i++ {
		n.Publish(ChangeEvent{Table: "rooms", Operation: "UPDATE"})
	}
}

func TestNotifier_UnsubscribeClosesChannel(t *testing.T) {
	n := NewChangeNotifier()
	events, unsubscribe := n.Subscribe()

	unsubscribe()

	_, open := <-events
	require.False(t, open)

	// Publishing after unsubscribe must not panic.
	n.Publish(ChangeEvent{Table: "rooms", Operation: "UPDATE"})
}
