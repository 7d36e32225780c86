package room

import (
	"room-booking/models/building"
	"time"
)

// Room represents a bookable room whose operational status is derived by the
// occupancy reconciler from its reservations.
type Room struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	Name string `gorm:"type:varchar(255);not null" json:"name"`

	// Foreign key for building relationship
	BuildingID uint              `gorm:"not null;index" json:"building_id"`
	Building   building.Building `gorm:"foreignKey:BuildingID" json:"building"`

	Floor    int `gorm:"type:int;default:1" json:"floor"`
	Capacity int `gorm:"type:int;default:1" json:"capacity"`

	Status      RoomStatus `gorm:"size:20;not null;default:available" json:"status"`
	Description string     `gorm:"type:text" json:"description"`

	CreatedBy string     `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedBy string     `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}
