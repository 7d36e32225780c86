package reconciler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"room-booking/logger"
	reservationModel "room-booking/models/reservation"
	roomModel "room-booking/models/room"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
)

// Config tunes the engine. Zero values are replaced by the defaults below.
type Config struct {
	// TickInterval is the periodic trigger. The divergent polling intervals of
	// the per-screen implementations this engine replaces are unified here.
	TickInterval time.Duration
	// Debounce collapses a burst of change notifications into one pass.
	Debounce time.Duration
	// StoreTimeout bounds each store call so a stalled dependency cannot hold
	// the single-flight guard forever.
	StoreTimeout time.Duration

	// Cooldown scaling for repeated writes of an unchanged status.
	BaseCooldown      time.Duration
	CooldownIncrement time.Duration
	CooldownCap       time.Duration

	// FailureThreshold is the number of consecutive failing passes before the
	// engine reports itself degraded.
	FailureThreshold int

	// Retention is how long completed reservations are kept before cleanup.
	Retention time.Duration
}

const (
	defaultTickInterval      = 20 * time.Second
	defaultDebounce          = 2 * time.Second
	defaultStoreTimeout      = 5 * time.Second
	defaultBaseCooldown      = 30 * time.Second
	defaultCooldownIncrement = 15 * time.Second
	defaultCooldownCap       = 5 * time.Minute
	defaultFailureThreshold  = 3
	defaultRetention         = 30 * 24 * time.Hour
)

func (c *Config) applyDefaults() {
	if c.TickInterval <= 0 {
		c.TickInterval = defaultTickInterval
	}
	if c.Debounce <= 0 {
		c.Debounce = defaultDebounce
	}
	if c.StoreTimeout <= 0 {
		c.StoreTimeout = defaultStoreTimeout
	}
	if c.BaseCooldown <= 0 {
		c.BaseCooldown = defaultBaseCooldown
	}
	if c.CooldownIncrement <= 0 {
		c.CooldownIncrement = defaultCooldownIncrement
	}
	if c.CooldownCap <= 0 {
		c.CooldownCap = defaultCooldownCap
	}
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = defaultFailureThreshold
	}
	if c.Retention <= 0 {
		c.Retention = defaultRetention
	}
}

// ConfigFromEnv reads the engine tuning knobs from the environment.
func ConfigFromEnv() Config {
	cfg := Config{}
	if v, err := strconv.Atoi(os.Getenv("RECONCILE_INTERVAL_SECONDS")); err == nil && v > 0 {
		cfg.TickInterval = time.Duration(v) * time.Second
	}
	if v, err := strconv.Atoi(os.Getenv("RECONCILE_DEBOUNCE_MS")); err == nil && v > 0 {
		cfg.Debounce = time.Duration(v) * time.Millisecond
	}
	if v, err := strconv.Atoi(os.Getenv("RECONCILE_STORE_TIMEOUT_SECONDS")); err == nil && v > 0 {
		cfg.StoreTimeout = time.Duration(v) * time.Second
	}
	cfg.applyDefaults()
	return cfg
}

// Engine is the occupancy reconciler: a single background worker that derives
// each room's status from its reservations on every trigger, writing through
// the mutator and completion processor under the single-flight guard.
type Engine struct {
	cfg Config

	clock        Clock
	reservations ReservationStore
	rooms        RoomStore
	mutator      *StatusMutator
	completion   *CompletionProcessor
	tracker      *StatusTracker
	notifier     *ChangeNotifier
	notify       NotificationSink

	guard    singleFlight
	trigger  chan struct{}
	stopped  chan struct{}
	degraded atomic.Bool

	// consecutive failing passes; worker-owned
	failures int
}

// New builds an engine over the given collaborators. The tracker, mutator and
// completion processor are created here so their lifecycle is tied to this
// instance and nothing shares their state across engines.
func New(cfg Config, clock Clock, reservations ReservationStore, rooms RoomStore, announcements AnnouncementStore, notifier *ChangeNotifier, notify NotificationSink) *Engine {
	cfg.applyDefaults()

	tracker := NewStatusTracker(cfg.BaseCooldown, cfg.CooldownIncrement, cfg.CooldownCap)
	mutator := NewStatusMutator(rooms, announcements)
	completion := NewCompletionProcessor(reservations, mutator, tracker, notify)

	return &Engine{
		cfg:          cfg,
		clock:        clock,
		reservations: reservations,
		rooms:        rooms,
		mutator:      mutator,
		completion:   completion,
		tracker:      tracker,
		notifier:     notifier,
		notify:       notify,
		trigger:      make(chan struct{}, 1),
		stopped:      make(chan struct{}),
	}
}

// Mutator exposes the status mutator for the administrative maintenance
// toggle, which shares its permission guard and announcement side-effects.
func (e *Engine) Mutator() *StatusMutator {
	return e.mutator
}

// TrackerSnapshot returns a read-only copy of the status tracker state.
func (e *Engine) TrackerSnapshot() map[uint]TrackerEntry {
	return e.tracker.Snapshot()
}

// Degraded reports whether recent passes have been failing persistently.
func (e *Engine) Degraded() bool {
	return e.degraded.Load()
}

// Start launches the worker goroutine. It returns immediately; the worker runs
// until ctx is cancelled. In-flight store calls finish, no new pass starts.
func (e *Engine) Start(ctx context.Context) {
	events, unsubscribe := e.notifier.Subscribe()
	go e.run(ctx, events, unsubscribe)
	logger.Success(fmt.Sprintf("Occupancy reconciler started (tick %s, debounce %s)", e.cfg.TickInterval, e.cfg.Debounce))
}

// Stopped is closed once the worker has fully exited.
func (e *Engine) Stopped() <-chan struct{} {
	return e.stopped
}

// RequestRun asks for a reconciliation pass at the next opportunity. Safe to
// call from any goroutine; redundant requests collapse.
func (e *Engine) RequestRun() {
	select {
	case e.trigger <- struct{}{}:
	default:
	}
}

func (e *Engine) run(ctx context.Context, events <-chan ChangeEvent, unsubscribe func()) {
	defer close(e.stopped)
	defer unsubscribe()

	ticker := time.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()

	// The debounce timer starts on the first event of a burst and is not
	// rearmed by followers, so a steady stream still reconciles regularly.
	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}
	debouncing := false

	// First pass on startup re-reads the source of truth.
	e.RequestRun()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Occupancy reconciler stopping")
			return

		case <-ticker.C:
			e.RequestRun()

		case event, ok := <-events:
			if !ok {
				return
			}
			logger.Debug(fmt.Sprintf("Change event: %s %s", event.Table, event.Operation))
			if !debouncing {
				debouncing = true
				debounce.Reset(e.cfg.Debounce)
			}

		case <-debounce.C:
			debouncing = false
			e.RequestRun()

		case <-e.trigger:
			e.RunOnce(ctx)
		}
	}
}

// RunOnce executes one reconciliation pass under the single-flight guard. A
// call arriving while a pass is running queues exactly one follow-up pass.
func (e *Engine) RunOnce(ctx context.Context) {
	if !e.guard.tryAcquire() {
		return
	}
	for {
		e.pass(ctx)
		if !e.guard.release() {
			return
		}
		if ctx.Err() != nil {
			e.guard.release()
			return
		}
	}
}

// pass reconciles every room with reservations today. It never reports errors
// to its caller; failures are logged, counted and retried on the next trigger.
func (e *Engine) pass(ctx context.Context) {
	passID := uuid.NewString()[:8]
	nowAt := e.clock.Now()

	listCtx, cancel := context.WithTimeout(ctx, e.cfg.StoreTimeout)
	reservations, err := e.reservations.ListActiveForDate(listCtx, now.With(nowAt).BeginningOfDay())
	cancel()
	if err != nil {
		e.recordPassOutcome(passID, err)
		return
	}

	byRoom := make(map[uint][]reservationModel.Reservation)
	for _, res := range reservations {
		byRoom[res.RoomID] = append(byRoom[res.RoomID], res)
	}

	var firstErr error
	for roomID, roomReservations := range byRoom {
		if ctx.Err() != nil {
			return
		}
		roomCtx, cancel := context.WithTimeout(ctx, e.cfg.StoreTimeout)
		err := e.reconcileRoom(roomCtx, roomID, roomReservations, nowAt, passID)
		cancel()
		if err != nil {
			// Abort early for this room only; the rest of the pass continues.
			logger.Error(fmt.Sprintf("[%s] Reconcile failed for room %d", passID, roomID), err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	cleanupCtx, cancel := context.WithTimeout(ctx, e.cfg.StoreTimeout)
	if err := e.reservations.DeleteCompletedBefore(cleanupCtx, nowAt.Add(-e.cfg.Retention)); err != nil {
		logger.Warning(fmt.Sprintf("[%s] Completed-reservation cleanup failed: %v", passID, err))
	}
	cancel()

	e.recordPassOutcome(passID, firstErr)
}

// reconcileRoom applies at most one outcome to the room: occupied, available,
// or completion-driven available. Contradictory writes in one pass are
// impossible by construction.
func (e *Engine) reconcileRoom(ctx context.Context, roomID uint, reservations []reservationModel.Reservation, nowAt time.Time, passID string) error {
	current, err := e.rooms.Get(ctx, roomID)
	if err != nil {
		return fmt.Errorf("load room %d: %w", roomID, err)
	}

	covering := false
	var expired []reservationModel.Reservation
	for _, res := range reservations {
		switch {
		case res.Expired(nowAt):
			expired = append(expired, res)
		case res.Covers(nowAt):
			// Overlapping windows are a booking-time anomaly; any covering
			// window keeps the room occupied.
			covering = true
		}
	}

	if current.Status.IsMaintenance() {
		// Windows of a maintenance room are inert for status derivation, but
		// expired reservations still retire.
		for i := range expired {
			if err := e.completion.Complete(ctx, &expired[i], nowAt, false); err != nil {
				return err
			}
		}
		return nil
	}

	// Completion first: it implies availability, never the reverse. When a
	// covering window exists the revert is suppressed so the room receives a
	// single occupied outcome below.
	for i := range expired {
		if err := e.completion.Complete(ctx, &expired[i], nowAt, !covering); err != nil {
			return err
		}
	}
	if len(expired) > 0 && !covering {
		logger.Info(fmt.Sprintf("[%s] Room %d: %d reservation(s) completed", passID, roomID, len(expired)))
		return nil
	}

	desired := roomModel.RoomStatusAvailable
	if covering {
		desired = roomModel.RoomStatusOccupied
	}

	if !e.tracker.ShouldApply(roomID, desired, nowAt) {
		return nil
	}

	_, changed, err := e.mutator.SetStatus(ctx, roomID, desired, SystemActor)
	if err != nil {
		if errors.Is(err, ErrInvariantViolation) || errors.Is(err, ErrPermissionDenied) {
			// Should be unreachable given the maintenance check above.
			logger.Error(fmt.Sprintf("[%s] Rejected transition for room %d", passID, roomID), err)
			return nil
		}
		return err
	}

	// A reservation in progress must never be toggled away from occupied
	// except by genuine completion, so occupied entries are locked.
	e.tracker.Record(roomID, desired, nowAt, desired == roomModel.RoomStatusOccupied)

	if changed {
		logger.Success(fmt.Sprintf("[%s] Room %d -> %s", passID, roomID, desired))
	}
	return nil
}

// recordPassOutcome tracks consecutive failures and flips the degraded
// indicator once they cross the threshold. Transient errors stay quiet below
// it: the UI keeps showing the last written state.
func (e *Engine) recordPassOutcome(passID string, err error) {
	if err == nil {
		if e.degraded.Swap(false) {
			logger.Success(fmt.Sprintf("[%s] Reconciler recovered", passID))
		}
		e.failures = 0
		return
	}

	e.failures++
	logger.Error(fmt.Sprintf("[%s] Reconciliation pass failed (%d consecutive)", passID, e.failures), err)
	if e.failures >= e.cfg.FailureThreshold && !e.degraded.Swap(true) {
		e.notify.Notify(
			"Connection degraded",
			"Room statuses may be stale; the booking backend is not responding.",
			SeverityWarning,
		)
	}
}
