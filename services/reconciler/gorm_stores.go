package reconciler

import (
	"context"
	"time"

	announcementModel "room-booking/models/announcement"
	reservationModel "room-booking/models/reservation"
	roomModel "room-booking/models/room"
	"room-booking/services/reservation_event"

	"gorm.io/gorm"
)

// GormReservationStore backs ReservationStore with the bookings database.
type GormReservationStore struct {
	DB *gorm.DB
}

func (s *GormReservationStore) ListActiveForDate(ctx context.Context, date time.Time) ([]reservationModel.Reservation, error) {
	var reservations []reservationModel.Reservation
	err := s.DB.WithContext(ctx).
		Where("date = ? AND status <> ?", date.Format("2006-01-02"), reservationModel.ReservationStatusCompleted).
		Find(&reservations).Error
	return reservations, err
}

func (s *GormReservationStore) MarkCompleted(ctx context.Context, id uint, actor string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var res reservationModel.Reservation
		if err := tx.First(&res, id).Error; err != nil {
			return err
		}
		if res.Status.IsCompleted() {
			return nil
		}

		updates := map[string]interface{}{
			"status":     reservationModel.ReservationStatusCompleted,
			"updated_by": actor,
		}
		if err := tx.Model(&res).Updates(updates).Error; err != nil {
			return err
		}

		return reservation_event.SnapshotReservationStatus(tx, &res, reservationModel.ReservationStatusCompleted, actor)
	})
}

func (s *GormReservationStore) DeleteCompletedBefore(ctx context.Context, cutoff time.Time) error {
	return s.DB.WithContext(ctx).
		Where("status = ? AND updated_at < ?", reservationModel.ReservationStatusCompleted, cutoff).
		Delete(&reservationModel.Reservation{}).Error
}

// GormRoomStore backs RoomStore with the bookings database.
type GormRoomStore struct {
	DB *gorm.DB
}

func (s *GormRoomStore) Get(ctx context.Context, id uint) (*roomModel.Room, error) {
	var rm roomModel.Room
	if err := s.DB.WithContext(ctx).First(&rm, id).Error; err != nil {
		return nil, err
	}
	return &rm, nil
}

func (s *GormRoomStore) SetStatus(ctx context.Context, id uint, status roomModel.RoomStatus, actor string) (*roomModel.Room, error) {
	updates := map[string]interface{}{
		"status":     status,
		"updated_by": actor,
	}
	if err := s.DB.WithContext(ctx).Model(&roomModel.Room{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *GormRoomStore) AppendStatusEvent(ctx context.Context, event *roomModel.RoomStatusEvent) error {
	return s.DB.WithContext(ctx).Create(event).Error
}

// GormAnnouncementStore backs AnnouncementStore with the bookings database.
type GormAnnouncementStore struct {
	DB *gorm.DB
}

func (s *GormAnnouncementStore) FindMaintenanceByRoom(ctx context.Context, roomID uint) ([]announcementModel.Announcement, error) {
	var announcements []announcementModel.Announcement
	err := s.DB.WithContext(ctx).
		Where("kind = ? AND room_id = ?", announcementModel.KindMaintenance, roomID).
		Find(&announcements).Error
	return announcements, err
}

func (s *GormAnnouncementStore) Create(ctx context.Context, a *announcementModel.Announcement) error {
	return s.DB.WithContext(ctx).Create(a).Error
}

func (s *GormAnnouncementStore) DeleteMany(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).Where("id IN ?", ids).Delete(&announcementModel.Announcement{}).Error
}
