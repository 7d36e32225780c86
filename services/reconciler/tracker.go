package reconciler

import (
	"sync"
	"time"

	roomModel "room-booking/models/room"
)

// TrackerEntry is the per-room memory of the last applied status. Entries are
// process-local; the Room Store stays the source of truth across restarts.
type TrackerEntry struct {
	Status        roomModel.RoomStatus `json:"status"`
	LastAppliedAt time.Time            `json:"last_applied_at"`
	AttemptCount  int                  `json:"attempt_count"`
	Persistent    bool                 `json:"persistent"`
}

// StatusTracker remembers what the engine last wrote per room and gates
// re-writes behind a scaling cooldown. A persistent entry locks its status in
// place until a genuinely different status is requested.
//
// The worker goroutine owns all writes; the mutex exists only so diagnostic
// snapshots can be taken from HTTP handlers.
type StatusTracker struct {
	mu        sync.RWMutex
	entries   map[uint]TrackerEntry
	base      time.Duration
	increment time.Duration
	max       time.Duration
}

// NewStatusTracker creates a tracker with the given cooldown scaling:
// cooldown = min(base + attempts*increment, max).
func NewStatusTracker(base, increment, max time.Duration) *StatusTracker {
	return &StatusTracker{
		entries:   make(map[uint]TrackerEntry),
		base:      base,
		increment: increment,
		max:       max,
	}
}

func (t *StatusTracker) cooldown(attempts int) time.Duration {
	d := t.base + time.Duration(attempts)*t.increment
	if d > t.max {
		return t.max
	}
	return d
}

// ShouldApply decides whether writing candidate for the room is worthwhile
// right now. A different status than last applied always passes; the same
// status is blocked while its persistent lock or cooldown window holds.
func (t *StatusTracker) ShouldApply(roomID uint, candidate roomModel.RoomStatus, now time.Time) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entry, ok := t.entries[roomID]
	if !ok {
		return true
	}
	if entry.Status != candidate {
		return true
	}
	if entry.Persistent {
		return false
	}
	return now.Sub(entry.LastAppliedAt) >= t.cooldown(entry.AttemptCount)
}

// Record notes an applied (or no-op confirmed) status. Repeats of the same
// status extend the cooldown by bumping the attempt count; a status change
// resets it.
func (t *StatusTracker) Record(roomID uint, applied roomModel.RoomStatus, now time.Time, persistent bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.entries[roomID]
	if ok && entry.Status == applied {
		entry.AttemptCount++
	} else {
		entry = TrackerEntry{AttemptCount: 0}
	}
	entry.Status = applied
	entry.LastAppliedAt = now
	entry.Persistent = persistent
	t.entries[roomID] = entry
}

// Clear drops the room's entry, releasing any persistent lock. Called on
// completion so the next genuine transition is applied immediately.
func (t *StatusTracker) Clear(roomID uint) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, roomID)
}

// Snapshot returns a copy of the tracker state for read-only diagnostics.
func (t *StatusTracker) Snapshot() map[uint]TrackerEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[uint]TrackerEntry, len(t.entries))
	for id, entry := range t.entries {
		out[id] = entry
	}
	return out
}
