package domain

import "context"

// Permission names a capability granted to roles.
type Permission string

const (
	PermViewEvents      Permission = "view events"
	PermCreateEvents    Permission = "create events"
	PermEditEvents      Permission = "edit events"
	PermDeleteEvents    Permission = "delete events"
	PermScanAttendance  Permission = "scan attendance"
	PermPresentQRCode   Permission = "present qr-code"
	PermManageStaticQRs Permission = "manage static qrs"
	PermViewAttendance  Permission = "view attendance"
	PermJoinActivities  Permission = "join activities"
)

// Authorizer decides whether a user holds a permission.
type Authorizer interface {
	// Authorize returns ErrForbidden when the user lacks permission.
	Authorize(ctx context.Context, userID string, permission Permission) error
}
