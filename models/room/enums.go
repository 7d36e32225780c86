package room

// RoomStatus is the operational status the reconciler derives and writes.
type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "available"
	RoomStatusOccupied    RoomStatus = "occupied"
	RoomStatusMaintenance RoomStatus = "maintenance"
)

// Helper methods for RoomStatus
func (rs RoomStatus) String() string {
	return string(rs)
}

func (rs RoomStatus) IsValid() bool {
	switch rs {
	case RoomStatusAvailable, RoomStatusOccupied, RoomStatusMaintenance:
		return true
	default:
		return false
	}
}

// IsMaintenance returns true if the room is withdrawn from normal operation.
func (rs RoomStatus) IsMaintenance() bool {
	return rs == RoomStatusMaintenance
}

// CanTransitionTo returns true if the reconciler may move a room from rs to
// target on its own. Maintenance is sticky in both directions: entering and
// leaving it is reserved to an elevated administrative action.
func (rs RoomStatus) CanTransitionTo(target RoomStatus) bool {
	if !target.IsValid() {
		return false
	}
	if rs == RoomStatusMaintenance || target == RoomStatusMaintenance {
		return false
	}
	return rs != target
}

// GetAllRoomStatuses returns all valid room statuses
func GetAllRoomStatuses() []RoomStatus {
	return []RoomStatus{
		RoomStatusAvailable,
		RoomStatusOccupied,
		RoomStatusMaintenance,
	}
}
