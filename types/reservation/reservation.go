package reservation

import (
	"fmt"
	"time"
)

// ReservationCreateRequest represents the request payload for creating a reservation
type ReservationCreateRequest struct {
	RoomID    uint   `json:"room_id" validate:"required"`
	Date      string `json:"date" validate:"required"`       // YYYY-MM-DD
	StartTime string `json:"start_time" validate:"required"` // HH:MM
	EndTime   string `json:"end_time" validate:"required"`   // HH:MM
	Purpose   string `json:"purpose" validate:"omitempty,max=1000"`
}

// Validate checks the request field presence and window ordering.
func (r ReservationCreateRequest) Validate() error {
	if r.RoomID == 0 {
		return fmt.Errorf("room_id is required")
	}
	if r.Date == "" {
		return fmt.Errorf("date is required")
	}
	if r.StartTime == "" {
		return fmt.Errorf("start_time is required")
	}
	if r.EndTime == "" {
		return fmt.Errorf("end_time is required")
	}

	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	start, err := time.Parse("15:04", r.StartTime)
	if err != nil {
		return fmt.Errorf("start_time must be HH:MM")
	}
	end, err := time.Parse("15:04", r.EndTime)
	if err != nil {
		return fmt.Errorf("end_time must be HH:MM")
	}
	if !start.Before(end) {
		return fmt.Errorf("start_time must be before end_time")
	}
	return nil
}

// Window resolves the request into concrete same-day start/end instants.
func (r ReservationCreateRequest) Window() (date, start, end time.Time, err error) {
	date, err = time.ParseInLocation("2006-01-02", r.Date, time.Local)
	if err != nil {
		return
	}
	startClock, err := time.Parse("15:04", r.StartTime)
	if err != nil {
		return
	}
	endClock, err := time.Parse("15:04", r.EndTime)
	if err != nil {
		return
	}
	start = date.Add(time.Duration(startClock.Hour())*time.Hour + time.Duration(startClock.Minute())*time.Minute)
	end = date.Add(time.Duration(endClock.Hour())*time.Hour + time.Duration(endClock.Minute())*time.Minute)
	return
}

// ParseTextRequest represents a free-text reservation request to be parsed
type ParseTextRequest struct {
	Text string `json:"text" validate:"required,min=1"`
}

func (r ParseTextRequest) Validate() error {
	if r.Text == "" {
		return fmt.Errorf("text is required")
	}
	return nil
}
