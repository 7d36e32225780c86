package reservation

import (
	"room-booking/models/room"
	"room-booking/models/user"
	"time"
)

// Reservation represents one time-boxed claim on a room. StartTime and EndTime
// are same-day wall-clock instants on Date; the reconciler treats
// [StartTime, EndTime) as the occupancy window.
type Reservation struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Foreign key for room relationship
	RoomID uint      `gorm:"not null;index" json:"room_id"`
	Room   room.Room `gorm:"foreignKey:RoomID" json:"room"`

	// Foreign key for users relationship
	UserID uint      `gorm:"not null;index" json:"user_id"`
	User   user.User `gorm:"foreignKey:UserID" json:"user"`

	Date      time.Time `gorm:"type:date;not null;index" json:"date"`
	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Purpose string `gorm:"type:text" json:"purpose"`

	Status ReservationStatus `gorm:"size:20;not null;default:approved;index" json:"status"`

	CreatedBy string     `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedBy string     `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"` // Soft delete field
}

// Covers reports whether the reservation window contains the given instant.
func (r *Reservation) Covers(now time.Time) bool {
	return !now.Before(r.StartTime) && now.Before(r.EndTime)
}

// Expired reports whether the reservation window has fully elapsed.
func (r *Reservation) Expired(now time.Time) bool {
	return !now.Before(r.EndTime)
}
