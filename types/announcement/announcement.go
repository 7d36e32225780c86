package announcement

import (
	"fmt"
)

// AnnouncementCreateRequest represents the request payload for creating a
// general announcement. Maintenance announcements are engine-managed and
// cannot be created through this payload.
type AnnouncementCreateRequest struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
	Body  string `json:"body" validate:"omitempty"`
}

func (r AnnouncementCreateRequest) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}
