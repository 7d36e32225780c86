package constants

// Organization permissions
const (
	// Admin permissions
	PermSuperAdminFull = "room-booking.super-admin.full-permit"
	PermAdminFull      = "room-booking.admin.full-permit"
	PermStaffFull      = "room-booking.staff.full-permit"
	PermMemberFull     = "room-booking.member.full-permit"

	// Special permissions
	PermAny = "any"
)

// Permission groups for convenience
var (
	RoomAdminPermissions = []string{
		PermSuperAdminFull,
		PermAdminFull,
	}

	BookingPermissions = []string{
		PermSuperAdminFull,
		PermAdminFull,
		PermStaffFull,
		PermMemberFull,
	}
)
