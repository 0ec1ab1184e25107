package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Scan status values reported to a device presenting a dynamic code.
const (
	ScanStatusPending = "pending"
	ScanStatusUsed    = "used"
)

// DefaultAttendeeName is shown when a consumed code carries no recorded name.
const DefaultAttendeeName = "Participant"

// Attendance is a single recorded entry into an event. At most one exists per
// (event, ticket), per (event, scanned value) and per (event, user).
// swagger:model Attendance
type Attendance struct {
	ID                string              `json:"id"`
	EventID           string              `json:"event_id"`
	UserID            *string             `json:"user_id"`
	TicketID          *string             `json:"attendee_id"`
	ScannedValue      string              `json:"scanned_barcode_value"`
	Name              string              `json:"name"`
	OriginInstitution *string             `json:"origin_institution"`
	Longitude         decimal.NullDecimal `json:"longitude" swaggertype:"string"`
	Latitude          decimal.NullDecimal `json:"latitude" swaggertype:"string"`
	ScannedAt         time.Time           `json:"scanned_at"`
}

// AttendanceWithEvent pairs an attendance row with the event it belongs to.
type AttendanceWithEvent struct {
	Attendance *Attendance `json:"attendance"`
	EventName  string      `json:"event_name"`
	EventStart time.Time   `json:"event_start"`
}

// ScanStatus is the poll result for a dynamic code.
type ScanStatus struct {
	Status       string `json:"status"`
	AttendeeName string `json:"attendee_name,omitempty"`
}

// RedeemResult is returned to the scanner after a successful ticket redemption.
type RedeemResult struct {
	Attendance   *Attendance `json:"attendance"`
	AttendeeName string      `json:"attendee_name"`
}

// CheckInRequest is a barcode check-in submitted by a device that scanned an event code.
type CheckInRequest struct {
	// Code is the static QR code printed for the event.
	Code string
	// ScanID is the per-display dynamic value, when the code was shown on a rotating screen.
	ScanID        string
	IsGuest       bool
	Name          string
	InstitutionID *string
	// Latitude and Longitude are nil when the device shared no location.
	Latitude  *float64
	Longitude *float64
}

// CheckInContext is what a device needs to render a check-in form for a code.
type CheckInContext struct {
	EventID          string         `json:"event_id"`
	EventName        string         `json:"event_name"`
	Label            string         `json:"label"`
	AlreadyCheckedIn bool           `json:"already_checked_in"`
	Institutions     []*Institution `json:"institutions"`
}

// AttendanceRepository defines storage operations for attendance records.
type AttendanceRepository interface {
	// Create inserts the record; any uniqueness violation returns ErrAlreadyCheckedIn.
	Create(ctx context.Context, attendance *Attendance) error
	ExistsForTicket(ctx context.Context, eventID, ticketID string) (bool, error)
	ExistsForUser(ctx context.Context, eventID, userID string) (bool, error)
	GetByEventAndScanValue(ctx context.Context, eventID, value string) (*Attendance, error)
	GetByEventAndTicket(ctx context.Context, eventID, ticketID string) (*Attendance, error)
	ListByEvent(ctx context.Context, eventID string, params PaginationParams) ([]*Attendance, int, error)
	ListByUser(ctx context.Context, userID string, params PaginationParams) ([]*AttendanceWithEvent, int, error)
}

// AttendanceService records and queries event attendance.
type AttendanceService interface {
	RedeemTicket(ctx context.Context, eventID, ticketCode string) (*RedeemResult, error)
	CheckIn(ctx context.Context, req CheckInRequest, actor *Identity) (*Attendance, error)
	ScanStatus(ctx context.Context, eventID, scanValue string) (*ScanStatus, error)
	GetCheckInContext(ctx context.Context, code string, actor *Identity) (*CheckInContext, error)
	ListEventAttendance(ctx context.Context, eventID string, params PaginationParams) ([]*Attendance, int, error)
	ListMyAttendance(ctx context.Context, userID string, params PaginationParams) ([]*AttendanceWithEvent, int, error)
}
