package reconciler

import (
	"testing"
	"time"

	roomModel "room-booking/models/room"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_FirstWriteAlwaysApplies(t *testing.T) {
	tr := NewStatusTracker(30*time.Second, 15*time.Second, 5*time.Minute)
	now := time.Now()

	assert.True(t, tr.ShouldApply(1, roomModel.RoomStatusAvailable, now))
}

func TestTracker_DifferentStatusBypassesCooldown(t *testing.T) {
	tr := NewStatusTracker(30*time.Second, 15*time.Second, 5*time.Minute)
	now := time.Now()

	tr.Record(1, roomModel.RoomStatusAvailable, now, false)

	// Same status immediately afterwards is gated; a different one is not.
	assert.False(t, tr.ShouldApply(1, roomModel.RoomStatusAvailable, now.Add(time.Second)))
	assert.True(t, tr.ShouldApply(1, roomModel.RoomStatusOccupied, now.Add(time.Second)))
}

func TestTracker_CooldownScalesWithAttempts(t *testing.T) {
	tr := NewStatusTracker(30*time.Second, 15*time.Second, 5*time.Minute)
	now := time.Now()

	// First record: attempt count 0, cooldown 30s.
	tr.Record(1, roomModel.RoomStatusAvailable, now, false)
	assert.False(t, tr.ShouldApply(1, roomModel.RoomStatusAvailable, now.Add(29*time.Second)))
	assert.True(t, tr.ShouldApply(1, roomModel.RoomStatusAvailable, now.Add(30*time.Second)))

	// Second record of the same status: attempt count 1, cooldown 45s.
	now = now.Add(30 * time.Second)
	tr.Record(1, roomModel.RoomStatusAvailable, now, false)
	assert.False(t, tr.ShouldApply(1, roomModel.RoomStatusAvailable, now.Add(44*time.Second)))
	assert.True(t, tr.ShouldApply(1, roomModel.RoomStatusAvailable, now.Add(45*time.Second)))
}

func TestTracker_CooldownIsCapped(t *testing.T) {
	tr := NewStatusTracker(30*time.Second, 15*time.Second, time.Minute)
	now := time.Now()

	// Enough repeats to push base + attempts*increment far past the cap.
	for i := 0; i < 10; i++ {
		tr.Record(1, roomModel.RoomStatusAvailable, now, false)
	}

	assert.True(t, tr.ShouldApply(1, roomModel.RoomStatusAvailable, now.Add(time.Minute)))
	assert.False(t, tr.ShouldApply(1, roomModel.RoomStatusAvailable, now.Add(59*time.Second)))
}

func TestTracker_PersistentEntryBlocksUntilDifferentStatus(t *testing.T) {
	tr := NewStatusTracker(30*time.Second, 15*time.Second, 5*time.Minute)
	now := time.Now()

	tr.Record(1, roomModel.RoomStatusOccupied, now, true)

	// No amount of elapsed time unlocks a persistent same-status write.
	assert.False(t, tr.ShouldApply(1, roomModel.RoomStatusOccupied, now.Add(24*time.Hour)))
	assert.True(t, tr.ShouldApply(1, roomModel.RoomStatusAvailable, now.Add(time.Second)))
}

func TestTracker_ClearReleasesPersistentLock(t *testing.T) {
	tr := NewStatusTracker(30*time.Second, 15*time.Second, 5*time.Minute)
	now := time.Now()

	tr.Record(1, roomModel.RoomStatusOccupied, now, true)
	tr.Clear(1)

	assert.True(t, tr.ShouldApply(1, roomModel.RoomStatusOccupied, now))
}

func TestTracker_StatusChangeResetsAttempts(t *testing.T) {
	tr := NewStatusTracker(30*time.Second, 15*time.Second, 5*time.Minute)
	now := time.Now()

	tr.Record(1, roomModel.RoomStatusAvailable, now, false)
	tr.Record(1, roomModel.RoomStatusAvailable, now, false)
	tr.Record(1, roomModel.RoomStatusOccupied, now, false)

	snapshot := tr.Snapshot()
	require.Contains(t, snapshot, uint(1))
	assert.Equal(t, 0, snapshot[1].AttemptCount)
	assert.Equal(t, roomModel.RoomStatusOccupied, snapshot[1].Status)
}

func TestTracker_SnapshotIsACopy(t *testing.T) {
	tr := NewStatusTracker(30*time.Second, 15*time.Second, 5*time.Minute)
	now := time.Now()

	tr.Record(1, roomModel.RoomStatusAvailable, now, false)

	snapshot := tr.Snapshot()
	snapshot[1] = TrackerEntry{Status: roomModel.RoomStatusMaintenance}

	assert.Equal(t, roomModel.RoomStatusAvailable, tr.Snapshot()[1].Status)
}
