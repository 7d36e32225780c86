package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_FansOutToAllSubscribers(t *testing.T) {
	hub := NewHub()

	first, cancelFirst := hub.Subscribe()
	second, cancelSecond := hub.Subscribe()
	defer cancelFirst()
	defer cancelSecond()

	hub.Notify("Reservation completed", "Reservation #1 has ended", "info")

	for _, ch := range []<-chan Notification{first, second} {
		select {
		case n := <-ch:
			assert.Equal(t, "Reservation completed", n.Title)
			assert.Equal(t, "info", n.Severity)
			assert.False(t, n.CreatedAt.IsZero())
		default:
			t.Fatal("expected a buffered notification")
		}
	}
}

func TestHub_SlowSubscriberLosesInsteadOfBlocking(t *testing.T) {
	hub := NewHub()

	_, cancel := hub.Subscribe()
	defer cancel()

	// Far more than the buffer; Notify must keep returning.
	for i := 0; i < 200; i++ {
		hub.Notify("Room status changed", "", "info")
	}
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe()
	cancel()

	_, open := <-ch
	require.False(t, open)

	// Notifying with no subscribers is fine.
	hub.Notify("Room status changed", "", "info")
}
