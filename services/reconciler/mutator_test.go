package reconciler

import (
	"context"
	"testing"

	"room-booking/constants"
	roomModel "room-booking/models/room"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var superAdmin = Actor{ID: 1, Name: "root", Permissions: []string{constants.PermSuperAdminFull}}

func TestMutator_SameStatusIsNoOp(t *testing.T) {
	store := newMemStore()
	store.addRoom(1, "Meeting Room A", roomModel.RoomStatusAvailable)
	m := NewStatusMutator(store, store)

	rm, changed, err := m.SetStatus(context.Background(), 1, roomModel.RoomStatusAvailable, SystemActor)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, roomModel.RoomStatusAvailable, rm.Status)
	assert.Zero(t, store.statusWrites, "no store write for a no-op")
}

func TestMutator_NormalTransitionWritesAndAudits(t *testing.T) {
	store := newMemStore()
	store.addRoom(1, "Meeting Room A", roomModel.RoomStatusAvailable)
	m := NewStatusMutator(store, store)

	rm, changed, err := m.SetStatus(context.Background(), 1, roomModel.RoomStatusOccupied, SystemActor)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, roomModel.RoomStatusOccupied, rm.Status)

	require.Len(t, store.statusEvents, 1)
	assert.Equal(t, roomModel.RoomStatusAvailable, store.statusEvents[0].OldStatus)
	assert.Equal(t, roomModel.RoomStatusOccupied, store.statusEvents[0].NewStatus)
	assert.Equal(t, SystemActor.Name, store.statusEvents[0].CreatedBy)
}

func TestMutator_MaintenanceRequiresSuperAdmin(t *testing.T) {
	store := newMemStore()
	store.addRoom(1, "Meeting Room A", roomModel.RoomStatusAvailable)
	m := NewStatusMutator(store, store)

	_, _, err := m.SetStatus(context.Background(), 1, roomModel.RoomStatusMaintenance, SystemActor)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, roomModel.RoomStatusAvailable, store.roomStatus(1))

	_, changed, err := m.SetStatus(context.Background(), 1, roomModel.RoomStatusMaintenance, superAdmin)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, roomModel.RoomStatusMaintenance, store.roomStatus(1))
}

func TestMutator_LeavingMaintenanceRequiresSuperAdmin(t *testing.T) {
	store := newMemStore()
	store.addRoom(1, "Meeting Room A", roomModel.RoomStatusMaintenance)
	m := NewStatusMutator(store, store)

	_, _, err := m.SetStatus(context.Background(), 1, roomModel.RoomStatusAvailable, SystemActor)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, changed, err := m.SetStatus(context.Background(), 1, roomModel.RoomStatusAvailable, superAdmin)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestMutator_OccupiedOntoMaintenanceIsInvariantViolation(t *testing.T) {
	store := newMemStore()
	store.addRoom(1, "Meeting Room A", roomModel.RoomStatusMaintenance)
	m := NewStatusMutator(store, store)

	_, _, err := m.SetStatus(context.Background(), 1, roomModel.RoomStatusOccupied, superAdmin)
	assert.ErrorIs(t, err, ErrInvariantViolation)
	assert.Equal(t, roomModel.RoomStatusMaintenance, store.roomStatus(1))
}

func TestMutator_MaintenanceAnnouncementLifecycle(t *testing.T) {
	store := newMemStore()
	store.addRoom(1, "Meeting Room A", roomModel.RoomStatusAvailable)
	m := NewStatusMutator(store, store)
	ctx := context.Background()

	_, _, err := m.SetStatus(ctx, 1, roomModel.RoomStatusMaintenance, superAdmin)
	require.NoError(t, err)

	existing, err := store.FindMaintenanceByRoom(ctx, 1)
	require.NoError(t, err)
	require.Len(t, existing, 1)
	assert.Equal(t, MaintenanceAnnouncementTitle("Meeting Room A"), existing[0].Title)
	assert.Equal(t, superAdmin.ID, existing[0].AuthorID)

	_, _, err = m.SetStatus(ctx, 1, roomModel.RoomStatusAvailable, superAdmin)
	require.NoError(t, err)

	existing, err = store.FindMaintenanceByRoom(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, existing, "announcement removed when maintenance ends")
}

func TestMutator_AtMostOneMaintenanceAnnouncementPerRoom(t *testing.T) {
	store := newMemStore()
	store.addRoom(1, "Meeting Room A", roomModel.RoomStatusAvailable)
	m := NewStatusMutator(store, store)
	ctx := context.Background()

	_, _, err := m.SetStatus(ctx, 1, roomModel.RoomStatusMaintenance, superAdmin)
	require.NoError(t, err)
	_, _, err = m.SetStatus(ctx, 1, roomModel.RoomStatusAvailable, superAdmin)
	require.NoError(t, err)
	_, _, err = m.SetStatus(ctx, 1, roomModel.RoomStatusMaintenance, superAdmin)
	require.NoError(t, err)

	existing, err := store.FindMaintenanceByRoom(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, existing, 1)
}

func TestMutator_ReasonLandsOnAuditEvent(t *testing.T) {
	store := newMemStore()
	store.addRoom(1, "Meeting Room A", roomModel.RoomStatusAvailable)
	m := NewStatusMutator(store, store)

	_, _, err := m.SetStatusWithReason(context.Background(), 1, roomModel.RoomStatusMaintenance, superAdmin, "projector repair")
	require.NoError(t, err)

	require.Len(t, store.statusEvents, 1)
	assert.Equal(t, "projector repair", store.statusEvents[0].Reason)
}

func TestMutator_InvalidStatusRejected(t *testing.T) {
	store := newMemStore()
	store.addRoom(1, "Meeting Room A", roomModel.RoomStatusAvailable)
	m := NewStatusMutator(store, store)

	_, _, err := m.SetStatus(context.Background(), 1, roomModel.RoomStatus("demolished"), superAdmin)
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

func TestMutator_MaintenanceToggleRequiresSuperAdminBothWays(t *testing.T) {
	admin := Actor{ID: 7, Name: "alice", Permissions: []string{constants.PermAdminFull}}

	store := newMemStore()
	store.addRoom(1, "Meeting Room A", roomModel.RoomStatusOccupied)
	m := NewStatusMutator(store, store)

	// Disabling maintenance on an occupied room must not become a plain
	// occupied-to-available write for a lesser actor.
	_, _, err := m.SetMaintenance(context.Background(), 1, false, admin, "")
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, roomModel.RoomStatusOccupied, store.roomStatus(1))
	assert.Zero(t, store.statusWrites)

	_, _, err = m.SetMaintenance(context.Background(), 1, true, admin, "")
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, roomModel.RoomStatusOccupied, store.roomStatus(1))
	assert.Zero(t, store.statusWrites)
}

func TestMutator_MaintenanceDisableOutsideMaintenanceIsNoOp(t *testing.T) {
	store := newMemStore()
	store.addRoom(1, "Meeting Room A", roomModel.RoomStatusOccupied)
	m := NewStatusMutator(store, store)

	rm, changed, err := m.SetMaintenance(context.Background(), 1, false, superAdmin, "")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, roomModel.RoomStatusOccupied, rm.Status)
	assert.Zero(t, store.statusWrites, "nothing to exit, nothing written")
}

func TestMutator_MaintenanceToggleRoundTrip(t *testing.T) {
	store := newMemStore()
	store.addRoom(1, "Meeting Room A", roomModel.RoomStatusAvailable)
	m := NewStatusMutator(store, store)

	rm, changed, err := m.SetMaintenance(context.Background(), 1, true, superAdmin, "projector repair")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, roomModel.RoomStatusMaintenance, rm.Status)

	rm, changed, err = m.SetMaintenance(context.Background(), 1, false, superAdmin, "")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, roomModel.RoomStatusAvailable, rm.Status)
}
