package reconciler

import (
	"context"
	"errors"
	"time"

	announcementModel "room-booking/models/announcement"
	reservationModel "room-booking/models/reservation"
	roomModel "room-booking/models/room"
)

var (
	// ErrPermissionDenied is returned when an actor without elevated privilege
	// tries to move a room into or out of maintenance.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvariantViolation is returned on a transition that must be
	// unreachable, such as writing occupied onto a maintenance room. It is a
	// programming error, not a user error.
	ErrInvariantViolation = errors.New("room status invariant violation")
)

// Actor identifies who is requesting a status change.
type Actor struct {
	ID          uint
	Uuid        string
	Name        string
	Permissions []string
}

// HasPermission reports whether the actor carries the given permission string.
func (a Actor) HasPermission(perm string) bool {
	for _, p := range a.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// SystemActor is the identity the reconciler writes under. It carries no
// elevated permissions, so the maintenance guard applies to it like anyone else.
var SystemActor = Actor{Name: "occupancy-reconciler"}

// ReservationStore is the engine's view of reservation persistence.
type ReservationStore interface {
	// ListActiveForDate returns all reservations on the given date that have
	// not reached their terminal status.
	ListActiveForDate(ctx context.Context, date time.Time) ([]reservationModel.Reservation, error)
	// MarkCompleted moves a reservation to its terminal status. Marking an
	// already-completed reservation is a no-op success.
	MarkCompleted(ctx context.Context, id uint, actor string) error
	// DeleteCompletedBefore removes completed reservations older than the
	// cutoff as secondary cleanup behind the status mark.
	DeleteCompletedBefore(ctx context.Context, cutoff time.Time) error
}

// RoomStore is the engine's view of room persistence. Status writes go through
// the StatusMutator, never directly.
type RoomStore interface {
	Get(ctx context.Context, id uint) (*roomModel.Room, error)
	SetStatus(ctx context.Context, id uint, status roomModel.RoomStatus, actor string) (*roomModel.Room, error)
	// AppendStatusEvent writes an audit record for an applied transition.
	// Failures here must not roll back the status write.
	AppendStatusEvent(ctx context.Context, event *roomModel.RoomStatusEvent) error
}

// AnnouncementStore manages the standing maintenance announcements.
type AnnouncementStore interface {
	FindMaintenanceByRoom(ctx context.Context, roomID uint) ([]announcementModel.Announcement, error)
	Create(ctx context.Context, a *announcementModel.Announcement) error
	DeleteMany(ctx context.Context, ids []uint) error
}

// Notification severities understood by the sink.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// NotificationSink receives fire-and-forget user-facing notifications.
type NotificationSink interface {
	Notify(title, description, severity string)
}
