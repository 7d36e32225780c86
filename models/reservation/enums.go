package reservation

// ReservationStatus is monotonic: approved -> completed, never reversed.
type ReservationStatus string

const (
	ReservationStatusApproved  ReservationStatus = "approved"
	ReservationStatusCompleted ReservationStatus = "completed"
)

// Helper methods for ReservationStatus
func (rs ReservationStatus) String() string {
	return string(rs)
}

func (rs ReservationStatus) IsValid() bool {
	switch rs {
	case ReservationStatusApproved, ReservationStatusCompleted:
		return true
	default:
		return false
	}
}

// IsCompleted returns true if the reservation is in its terminal state
func (rs ReservationStatus) IsCompleted() bool {
	return rs == ReservationStatusCompleted
}

// CanBeUpdated returns true if the reservation status can still change
func (rs ReservationStatus) CanBeUpdated() bool {
	return rs == ReservationStatusApproved
}

// GetAllReservationStatuses returns all valid reservation statuses
func GetAllReservationStatuses() []ReservationStatus {
	return []ReservationStatus{
		ReservationStatusApproved,
		ReservationStatusCompleted,
	}
}
