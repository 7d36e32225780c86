package reservation

import (
	"time"
)

// ReservationStatusEvent represents a status change event for a reservation
type ReservationStatusEvent struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Foreign key for reservation relationship
	ReservationID uint        `gorm:"not null;index" json:"reservation_id"`
	Reservation   Reservation `gorm:"foreignKey:ReservationID" json:"reservation"`

	Status    ReservationStatus `gorm:"size:20;not null" json:"status"`
	CreatedBy string            `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the ReservationStatusEvent model
func (ReservationStatusEvent) TableName() string {
	return "reservation_status_events"
}
