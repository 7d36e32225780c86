package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRequest_Validate(t *testing.T) {
	valid := ReservationCreateRequest{
		RoomID:    1,
		Date:      "2026-03-10",
		StartTime: "14:00",
		EndTime:   "15:30",
	}
	assert.NoError(t, valid.Validate())

	cases := []struct {
		name    string
		mutate  func(*ReservationCreateRequest)
		message string
	}{
		{"missing room", func(r *ReservationCreateRequest) { r.RoomID = 0 }, "room_id is required"},
		{"bad date", func(r *ReservationCreateRequest) { r.Date = "10/03/2026" }, "date must be YYYY-MM-DD"},
		{"bad start", func(r *ReservationCreateRequest) { r.StartTime = "2pm" }, "start_time must be HH:MM"},
		{"inverted window", func(r *ReservationCreateRequest) { r.StartTime, r.EndTime = "16:00", "15:00" }, "start_time must be before end_time"},
		{"zero-length window", func(r *ReservationCreateRequest) { r.EndTime = r.StartTime }, "start_time must be before end_time"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			err := req.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestCreateRequest_Window(t *testing.T) {
	req := ReservationCreateRequest{
		RoomID:    1,
		Date:      "2026-03-10",
		StartTime: "14:00",
		EndTime:   "15:30",
	}

	date, start, end, err := req.Window()
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local), date)
	assert.Equal(t, time.Date(2026, 3, 10, 14, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2026, 3, 10, 15, 30, 0, 0, time.Local), end)
}
