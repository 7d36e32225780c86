package reconciler

import (
	"context"
	"fmt"

	"room-booking/constants"
	"room-booking/logger"
	announcementModel "room-booking/models/announcement"
	roomModel "room-booking/models/room"
)

// MaintenanceAnnouncementTitle builds the deterministic title shown while a
// room is under maintenance.
func MaintenanceAnnouncementTitle(roomName string) string {
	return fmt.Sprintf("%s Under Maintenance", roomName)
}

// StatusMutator applies validated room status transitions. All engine and
// administrative status writes funnel through here so the maintenance
// invariant has a single enforcement point.
type StatusMutator struct {
	rooms         RoomStore
	announcements AnnouncementStore
}

// NewStatusMutator wires a mutator over the given stores.
func NewStatusMutator(rooms RoomStore, announcements AnnouncementStore) *StatusMutator {
	return &StatusMutator{
		rooms:         rooms,
		announcements: announcements,
	}
}

// SetStatus validates and applies a status transition. It returns the room and
// whether a store write actually happened; a request matching the current
// status is a no-op success so callers can still extend their cooldowns.
//
// Moving a room into or out of maintenance requires the super-admin
// permission. The reconciler itself never requests maintenance either way.
func (m *StatusMutator) SetStatus(ctx context.Context, roomID uint, newStatus roomModel.RoomStatus, actor Actor) (*roomModel.Room, bool, error) {
	return m.SetStatusWithReason(ctx, roomID, newStatus, actor, "")
}

// SetStatusWithReason is SetStatus with a free-form reason recorded on the
// audit event, used by the administrative maintenance toggle.
func (m *StatusMutator) SetStatusWithReason(ctx context.Context, roomID uint, newStatus roomModel.RoomStatus, actor Actor, reason string) (*roomModel.Room, bool, error) {
	if !newStatus.IsValid() {
		return nil, false, fmt.Errorf("%w: unknown status %q", ErrInvariantViolation, newStatus)
	}

	current, err := m.rooms.Get(ctx, roomID)
	if err != nil {
		return nil, false, fmt.Errorf("load room %d: %w", roomID, err)
	}

	if current.Status == newStatus {
		return current, false, nil
	}

	crossesMaintenance := newStatus.IsMaintenance() || current.Status.IsMaintenance()
	if crossesMaintenance && !actor.HasPermission(constants.PermSuperAdminFull) {
		return nil, false, fmt.Errorf("%w: %s may not move room %d %s -> %s",
			ErrPermissionDenied, actor.Name, roomID, current.Status, newStatus)
	}

	// Unreachable through the guard above for the reconciler; a maintenance
	// room only ever leaves through an explicit available/maintenance toggle.
	if current.Status.IsMaintenance() && newStatus == roomModel.RoomStatusOccupied {
		return nil, false, fmt.Errorf("%w: occupied write onto maintenance room %d",
			ErrInvariantViolation, roomID)
	}

	updated, err := m.rooms.SetStatus(ctx, roomID, newStatus, actor.Name)
	if err != nil {
		return nil, false, fmt.Errorf("set status of room %d: %w", roomID, err)
	}

	// Past the core write everything is best-effort: log and carry on.
	event := &roomModel.RoomStatusEvent{
		RoomID:    roomID,
		OldStatus: current.Status,
		NewStatus: newStatus,
		Reason:    reason,
		CreatedBy: actor.Name,
	}
	if err := m.rooms.AppendStatusEvent(ctx, event); err != nil {
		logger.Error(fmt.Sprintf("Failed to record status event for room %d", roomID), err)
	}

	if crossesMaintenance {
		if newStatus.IsMaintenance() {
			m.createMaintenanceAnnouncement(ctx, updated, actor)
		} else {
			m.removeMaintenanceAnnouncements(ctx, updated)
		}
	}

	return updated, true, nil
}

// SetMaintenance drives the administrative maintenance toggle. Both
// directions demand the super-admin permission up front, so a disable request
// against a room that never entered maintenance cannot slip through as an
// ordinary occupied-to-available write. Disabling a room that is not in
// maintenance is a no-op.
func (m *StatusMutator) SetMaintenance(ctx context.Context, roomID uint, enabled bool, actor Actor, reason string) (*roomModel.Room, bool, error) {
	if !actor.HasPermission(constants.PermSuperAdminFull) {
		return nil, false, fmt.Errorf("%w: %s may not toggle maintenance on room %d",
			ErrPermissionDenied, actor.Name, roomID)
	}

	if enabled {
		return m.SetStatusWithReason(ctx, roomID, roomModel.RoomStatusMaintenance, actor, reason)
	}

	current, err := m.rooms.Get(ctx, roomID)
	if err != nil {
		return nil, false, fmt.Errorf("load room %d: %w", roomID, err)
	}
	if !current.Status.IsMaintenance() {
		return current, false, nil
	}
	return m.SetStatusWithReason(ctx, roomID, roomModel.RoomStatusAvailable, actor, reason)
}

// createMaintenanceAnnouncement publishes the standing notice for a room
// entering maintenance. At most one such announcement exists per room, so an
// existing one is left alone.
func (m *StatusMutator) createMaintenanceAnnouncement(ctx context.Context, rm *roomModel.Room, actor Actor) {
	existing, err := m.announcements.FindMaintenanceByRoom(ctx, rm.ID)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to look up maintenance announcements for room %d", rm.ID), err)
		return
	}
	if len(existing) > 0 {
		logger.Debug(fmt.Sprintf("Maintenance announcement already exists for room %d", rm.ID))
		return
	}

	roomID := rm.ID
	a := &announcementModel.Announcement{
		Title:    MaintenanceAnnouncementTitle(rm.Name),
		Body:     fmt.Sprintf("%s is temporarily unavailable for booking.", rm.Name),
		Kind:     announcementModel.KindMaintenance,
		RoomID:   &roomID,
		AuthorID: actor.ID,
	}
	if err := m.announcements.Create(ctx, a); err != nil {
		logger.Error(fmt.Sprintf("Failed to create maintenance announcement for room %d", rm.ID), err)
		return
	}
	logger.Success(fmt.Sprintf("Maintenance announcement created for room %s", rm.Name))
}

// removeMaintenanceAnnouncements clears the standing notices when a room
// leaves maintenance.
func (m *StatusMutator) removeMaintenanceAnnouncements(ctx context.Context, rm *roomModel.Room) {
	existing, err := m.announcements.FindMaintenanceByRoom(ctx, rm.ID)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to look up maintenance announcements for room %d", rm.ID), err)
		return
	}
	if len(existing) == 0 {
		return
	}

	ids := make([]uint, 0, len(existing))
	for _, a := range existing {
		ids = append(ids, a.ID)
	}
	if err := m.announcements.DeleteMany(ctx, ids); err != nil {
		logger.Error(fmt.Sprintf("Failed to remove maintenance announcements for room %d", rm.ID), err)
		return
	}
	logger.Success(fmt.Sprintf("Maintenance announcements removed for room %s", rm.Name))
}
