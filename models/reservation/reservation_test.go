package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReservation_Window(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.Local)
	end := start.Add(time.Hour)
	res := Reservation{StartTime: start, EndTime: end}

	// The window is half-open: [start, end).
	assert.False(t, res.Covers(start.Add(-time.Second)))
	assert.True(t, res.Covers(start))
	assert.True(t, res.Covers(start.Add(30*time.Minute)))
	assert.False(t, res.Covers(end))

	assert.False(t, res.Expired(end.Add(-time.Second)))
	assert.True(t, res.Expired(end))
}

func TestReservationStatus_Monotonic(t *testing.T) {
	assert.True(t, ReservationStatusApproved.CanBeUpdated())
	assert.False(t, ReservationStatusCompleted.CanBeUpdated())
	assert.True(t, ReservationStatusCompleted.IsCompleted())
	assert.False(t, ReservationStatus("pending").IsValid())
}
