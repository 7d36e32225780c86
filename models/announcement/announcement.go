package announcement

import (
	"room-booking/models/user"
	"time"
)

// AnnouncementKind tags what an announcement is about. Maintenance
// announcements are linked to their room by foreign key so the reconciler can
// find and remove them without scanning titles.
type AnnouncementKind string

const (
	KindGeneral     AnnouncementKind = "general"
	KindMaintenance AnnouncementKind = "maintenance"
)

func (ak AnnouncementKind) IsValid() bool {
	switch ak {
	case KindGeneral, KindMaintenance:
		return true
	default:
		return false
	}
}

// Announcement is a standing notice shown to all users.
type Announcement struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	Title string `gorm:"type:varchar(255);not null" json:"title"`
	Body  string `gorm:"type:text" json:"body"`

	Kind AnnouncementKind `gorm:"size:20;not null;default:general;index" json:"kind"`

	// Set for maintenance announcements; nil for general ones.
	RoomID *uint `gorm:"index" json:"room_id,omitempty"`

	// Foreign key for users relationship
	AuthorID uint      `gorm:"not null" json:"author_id"`
	Author   user.User `gorm:"foreignKey:AuthorID" json:"author"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}
