package room

import (
	"time"
)

// RoomStatusEvent records every applied room status transition (who/when/what),
// giving the availability history an audit trail independent of the live row.
type RoomStatusEvent struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Foreign key for room relationship
	RoomID uint `gorm:"not null;index" json:"room_id"`
	Room   Room `gorm:"foreignKey:RoomID" json:"room"`

	OldStatus RoomStatus `gorm:"size:20;not null" json:"old_status"`
	NewStatus RoomStatus `gorm:"size:20;not null" json:"new_status"`
	Reason    string     `gorm:"type:varchar(255)" json:"reason,omitempty"`

	CreatedBy string    `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the RoomStatusEvent model
func (RoomStatusEvent) TableName() string {
	return "room_status_events"
}
