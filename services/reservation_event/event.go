package reservation_event

import (
	reservationModel "room-booking/models/reservation"

	"gorm.io/gorm"
)

// SnapshotReservationStatus appends a ReservationStatusEvent row for the given
// reservation within the caller's transaction.
func SnapshotReservationStatus(tx *gorm.DB, r *reservationModel.Reservation, status reservationModel.ReservationStatus, createdBy string) error {
	ev := reservationModel.ReservationStatusEvent{
		ReservationID: r.ID,
		Status:        status,
		CreatedBy:     createdBy,
	}

	return tx.Create(&ev).Error
}
