package reconciler

import (
	"context"
	"errors"
	"testing"
	"time"

	roomModel "room-booking/models/room"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngineFixture(t *testing.T, clock Clock) (*memStore, *recordingSink, *Engine) {
	t.Helper()

	store := newMemStore()
	sink := &recordingSink{}
	engine := New(Config{
		TickInterval:      time.Minute,
		Debounce:          time.Millisecond,
		StoreTimeout:      time.Second,
		BaseCooldown:      30 * time.Second,
		CooldownIncrement: 15 * time.Second,
		CooldownCap:       5 * time.Minute,
		FailureThreshold:  3,
	}, clock, store, store, store, NewChangeNotifier(), sink)

	return store, sink, engine
}

// noon returns a fixed reference instant so windows are easy to reason about.
func noon() time.Time {
	return time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
}

func TestEngine_CoveringReservationOccupiesRoom(t *testing.T) {
	clock := newFakeClock(noon())
	store, _, engine := newEngineFixture(t, clock)

	store.addRoom(1, "Meeting Room A", roomModel.RoomStatusAvailable)
	store.addReservation(10, 1, noon(), noon().Add(-time.Hour), noon().Add(time.Hour))

	engine.RunOnce(context.Background())

	assert.Equal(t, roomModel.RoomStatusOccupied, store.roomStatus(1))

	entry := engine.TrackerSnapshot()[1]
	assert.True(t, entry.Persistent, "occupied entries are locked in place")
}

func TestEngine_RepeatedPassesDoNotRewrite(t *testing.T) {
	clock := newFakeClock(noon())
	store, _, engine := newEngineFixture(t, clock)

	store.addRoom(1, "Meeting Room A", roomModel.RoomStatusAvailable)
	store.addReservation(10, 1, noon(), noon().Add(-time.Hour), noon().Add(time.Hour))

	engine.RunOnce(context.Background())
	writes := store.statusWrites

	clock.Advance(time.Second)
	engine.RunOnce(context.Background())
	engine.RunOnce(context.Background())

	assert.Equal(t, writes, store.statusWrites, "unchanged status must not be rewritten")
}

func TestEngine_ExpiredReservationCompletesAndReverts(t *testing.T) {
	clock := newFakeClock(noon())
	store, sink, engine := newEngineFixture(t, clock)

	store.addRoom(1, "Meeting Room A", roomModel.RoomStatusAvailable)
	store.addReservation(10, 1, noon(), noon().Add(-time.Hour), noon().Add(time.Hour))

	engine.RunOnce(context.Background())
	require.Equal(t, roomModel.RoomStatusOccupied, store.roomStatus(1))

	clock.Advance(2 * time.Hour)
	engine.RunOnce(context.Background())

	assert.True(t, store.reservationStatus(10).IsCompleted())
	assert.Equal(t, roomModel.RoomStatusAvailable, store.roomStatus(1))
	assert.Contains(t, sink.titles(), "Reservation completed")
}

func TestEngine_CoveringWindowSuppressesRevert(t *testing.T) {
	clock := newFakeClock(noon())
	store, _, engine := newEngineFixture(t, clock)

	store.addRoom(1, "Meeting Room A", roomModel.RoomStatusAvailable)
	// One window just ended, an overlapping one still covers now.
	store.addReservation(10, 1, noon(), noon().Add(-2*time.Hour), noon().Add(-time.Minute))
	store.addReservation(11, 1, noon(), noon().Add(-time.Hour), noon().Add(time.Hour))

	engine.RunOnce(context.Background())

	assert.True(t, store.reservationStatus(10).IsCompleted())
	assert.Equal(t, roomModel.RoomStatusOccupied, store.roomStatus(1),
		"the covering window wins; no flicker through available")
}

func TestEngine_MaintenanceRoomIsInertForStatus(t *testing.T) {
	clock := newFakeClock(noon())
	store, _, engine := newEngineFixture(t, clock)

	store.addRoom(1, "Meeting Room A", roomModel.RoomStatusMaintenance)
	store.addReservation(10, 1, noon(), noon().Add(-time.Hour), noon().Add(time.Hour))
	store.addReservation(11, 1, noon(), noon().Add(-3*time.Hour), noon().Add(-2*time.Hour))

	engine.RunOnce(context.Background())

	assert.Equal(t, roomModel.RoomStatusMaintenance, store.roomStatus(1),
		"covering windows never override maintenance")
	assert.True(t, store.reservationStatus(11).IsCompleted(),
		"expired reservations still retire")
	assert.False(t, store.reservationStatus(10).IsCompleted())
}

func TestEngine_DegradedAfterConsecutiveFailures(t *testing.T) {
	clock := newFakeClock(noon())
	store, sink, engine := newEngineFixture(t, clock)

	store.addRoom(1, "Meeting Room A", roomModel.RoomStatusAvailable)
	store.listErr = errors.New("connection refused")

	for i := 0; i < 3; i++ {
		engine.RunOnce(context.Background())
	}

	assert.True(t, engine.Degraded())
	assert.Contains(t, sink.titles(), "Connection degraded")

	// One clean pass recovers.
	store.mu.Lock()
	store.listErr = nil
	store.mu.Unlock()
	engine.RunOnce(context.Background())

	assert.False(t, engine.Degraded())
}

func TestEngine_BelowThresholdStaysQuiet(t *testing.T) {
	clock := newFakeClock(noon())
	store, sink, engine := newEngineFixture(t, clock)

	store.addRoom(1, "Meeting Room A", roomModel.RoomStatusAvailable)
	store.listErr = errors.New("connection refused")

	engine.RunOnce(context.Background())
	engine.RunOnce(context.Background())

	assert.False(t, engine.Degraded())
	assert.NotContains(t, sink.titles(), "Connection degraded")
}

func TestEngine_StartStop(t *testing.T) {
	clock := newFakeClock(noon())
	store, _, engine := newEngineFixture(t, clock)
	store.addRoom(1, "Meeting Room A", roomModel.RoomStatusAvailable)

	ctx, cancel := context.WithCancel(context.Background())
	engine.Start(ctx)
	cancel()

	select {
	case <-engine.Stopped():
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not stop after context cancellation")
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}
	cfg.applyDefaults()

	assert.Equal(t, 20*time.Second, cfg.TickInterval)
	assert.Equal(t, 2*time.Second, cfg.Debounce)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, 30*time.Second, cfg.BaseCooldown)
	assert.Equal(t, 15*time.Second, cfg.CooldownIncrement)
	assert.Equal(t, 5*time.Minute, cfg.CooldownCap)
	assert.Equal(t, 3, cfg.FailureThreshold)
}

// startEngineWithNotifier builds a started engine whose notifier the test
// controls, with the ticker pushed out of the way so only change events and
// the debounce timer drive passes.
func startEngineWithNotifier(t *testing.T, debounce time.Duration) (*memStore, *ChangeNotifier, func()) {
	t.Helper()

	store := newMemStore()
	store.addRoom(1, "Meeting Room A", roomModel.RoomStatusAvailable)
	notifier := NewChangeNotifier()
	engine := New(Config{
		TickInterval:      time.Hour,
		Debounce:          debounce,
		StoreTimeout:      time.Second,
		BaseCooldown:      30 * time.Second,
		CooldownIncrement: 15 * time.Second,
		CooldownCap:       5 * time.Minute,
		FailureThreshold:  3,
	}, newFakeClock(noon()), store, store, store, notifier, &recordingSink{})

	ctx, cancel := context.WithCancel(context.Background())
	engine.Start(ctx)

	stop := func() {
		cancel()
		select {
		case <-engine.Stopped():
		case <-time.After(2 * time.Second):
			t.Fatal("engine did not stop")
		}
	}
	return store, notifier, stop
}

func waitForPasses(t *testing.T, store *memStore, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if store.listCount() >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d passes, saw %d", n, store.listCount())
}

func TestEngine_ChangeBurstCoalescesIntoOnePass(t *testing.T) {
	store, notifier, stop := startEngineWithNotifier(t, 80*time.Millisecond)
	defer stop()

	waitForPasses(t, store, 1) // startup pass

	for i := 0; i < 5; i++ {
		notifier.Publish(ChangeEvent{Table: "reservations", Operation: "INSERT"})
	}

	waitForPasses(t, store, 2)
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, 2, store.listCount(), "five events, one debounced pass")
}

func TestEngine_SteadyEventStreamStillReconciles(t *testing.T) {
	store, notifier, stop := startEngineWithNotifier(t, 50*time.Millisecond)
	defer stop()

	waitForPasses(t, store, 1)

	// The debounce timer is armed by the first event of a burst and not
	// rearmed by followers, so a stream that never goes quiet must still
	// produce passes at roughly the debounce interval.
	deadline := time.Now().Add(400 * time.Millisecond)
	for time.Now().Before(deadline) {
		notifier.Publish(ChangeEvent{Table: "reservations", Operation: "UPDATE"})
		time.Sleep(20 * time.Millisecond)
	}

	waitForPasses(t, store, 3)
}
