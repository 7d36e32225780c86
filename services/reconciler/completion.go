package reconciler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	reservationModel "room-booking/models/reservation"
	roomModel "room-booking/models/room"
)

// CompletionProcessor retires reservations whose window has elapsed. Completion
// is one-way and idempotent: a reservation is marked completed exactly once,
// and the room reverts to available unless it is under maintenance.
type CompletionProcessor struct {
	reservations ReservationStore
	mutator      *StatusMutator
	tracker      *StatusTracker
	notify       NotificationSink

	mu   sync.Mutex
	done map[uint]time.Time // process-local memory of handled reservation ids
}

// NewCompletionProcessor wires a processor over the engine's collaborators.
func NewCompletionProcessor(reservations ReservationStore, mutator *StatusMutator, tracker *StatusTracker, notify NotificationSink) *CompletionProcessor {
	return &CompletionProcessor{
		reservations: reservations,
		mutator:      mutator,
		tracker:      tracker,
		notify:       notify,
		done:         make(map[uint]time.Time),
	}
}

func (p *CompletionProcessor) alreadyDone(id uint) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.done[id]
	return ok
}

func (p *CompletionProcessor) markDone(id uint, now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done[id] = now
	// Entries older than a day can never be re-listed; drop them.
	for key, at := range p.done {
		if now.Sub(at) > 24*time.Hour {
			delete(p.done, key)
		}
	}
}

// Complete retires one reservation. When revertRoom is false the room status is
// left to the caller, which happens when another reservation already covers the
// room at the same instant.
func (p *CompletionProcessor) Complete(ctx context.Context, res *reservationModel.Reservation, now time.Time, revertRoom bool) error {
	if res.Status.IsCompleted() || p.alreadyDone(res.ID) {
		return nil
	}

	if err := p.reservations.MarkCompleted(ctx, res.ID, SystemActor.Name); err != nil {
		return fmt.Errorf("mark reservation %d completed: %w", res.ID, err)
	}

	// The occupied lock is spent; the next pass decides the room fresh.
	p.tracker.Clear(res.RoomID)

	if revertRoom {
		_, _, err := p.mutator.SetStatus(ctx, res.RoomID, roomModel.RoomStatusAvailable, SystemActor)
		switch {
		case err == nil:
			p.tracker.Record(res.RoomID, roomModel.RoomStatusAvailable, now, false)
		case isMaintenanceDenied(err):
			// Maintenance is sticky; the reservation still retires.
		default:
			return fmt.Errorf("revert room %d after completion: %w", res.RoomID, err)
		}
	}

	p.markDone(res.ID, now)
	p.notifyCompleted(res)
	return nil
}

// isMaintenanceDenied reports whether a revert failed only because the room is
// under maintenance, which leaves the completion itself valid.
func isMaintenanceDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

func (p *CompletionProcessor) notifyCompleted(res *reservationModel.Reservation) {
	p.notify.Notify(
		"Reservation completed",
		fmt.Sprintf("Reservation #%d has ended; room is available again.", res.ID),
		SeverityInfo,
	)
}
