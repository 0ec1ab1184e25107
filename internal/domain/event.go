package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventStatusDraft        EventStatus = "draft"
	EventStatusRegistration EventStatus = "registration"
	EventStatusOngoing      EventStatus = "ongoing"
	EventStatusCompleted    EventStatus = "completed"
)

var eventStatusOrder = map[EventStatus]int{
	EventStatusDraft:        0,
	EventStatusRegistration: 1,
	EventStatusOngoing:      2,
	EventStatusCompleted:    3,
}

// Valid reports whether s is a known status.
func (s EventStatus) Valid() bool {
	_, ok := eventStatusOrder[s]
	return ok
}

// CanTransitionTo reports whether an operator may move an event from s to next.
// Statuses only move forward; skipping steps is allowed, staying put is a no-op.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	from, ok := eventStatusOrder[s]
	if !ok {
		return false
	}
	to, ok := eventStatusOrder[next]
	if !ok {
		return false
	}
	return to >= from
}

// AcceptsAttendance reports whether attendance may be recorded in this status.
func (s EventStatus) AcceptsAttendance() bool {
	return s == EventStatusRegistration || s == EventStatusOngoing
}

// AttendanceMode selects how attendance is proven for an event.
type AttendanceMode string

const (
	AttendanceModeTicketing AttendanceMode = "ticketing"
	AttendanceModeBarcode   AttendanceMode = "barcode"
)

// Valid reports whether m is a known attendance mode.
func (m AttendanceMode) Valid() bool {
	return m == AttendanceModeTicketing || m == AttendanceModeBarcode
}

// Event represents an event attendees can register for and check into.
// swagger:model Event
type Event struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Description    *string             `json:"description"`
	LocationName   *string             `json:"location_name"`
	Longitude      decimal.NullDecimal `json:"longitude" swaggertype:"string"`
	Latitude       decimal.NullDecimal `json:"latitude" swaggertype:"string"`
	Speaker        *string             `json:"speaker"`
	Type           string              `json:"type"`
	CategoryID     *string             `json:"category_id"`
	StartDate      time.Time           `json:"start_date"`
	EndDate        time.Time           `json:"end_date"`
	Status         EventStatus         `json:"status"`
	AttendanceMode AttendanceMode      `json:"attendance_mode"`
	// MaxAttendees caps issued tickets; 0 means unlimited.
	MaxAttendees int       `json:"max_attendees"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewEvent returns a new draft Event. ID is typically set by the repository on create.
func NewEvent(name, eventType string, mode AttendanceMode, startDate, endDate time.Time, maxAttendees int, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Name:           name,
		Type:           eventType,
		AttendanceMode: mode,
		StartDate:      startDate,
		EndDate:        endDate,
		Status:         EventStatusDraft,
		MaxAttendees:   maxAttendees,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}
}

// HasRoomFor reports whether one more ticket fits when issued already exist.
func (e *Event) HasRoomFor(issued int) bool {
	return e.MaxAttendees == 0 || issued < e.MaxAttendees
}

// EventRundown is one agenda entry of an event.
// swagger:model EventRundown
type EventRundown struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Title       string    `json:"title"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Description *string   `json:"description"`
}

// EventWithRundowns bundles an event with its ordered agenda.
type EventWithRundowns struct {
	Event    *Event          `json:"event"`
	Rundowns []*EventRundown `json:"rundowns"`
}

// EventCategory groups events for browsing.
// swagger:model EventCategory
type EventCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// EventFilter narrows event listings. Zero values mean "any".
type EventFilter struct {
	Search string
	Status EventStatus
	Mode   AttendanceMode
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	// Create inserts the event and its rundowns atomically.
	Create(ctx context.Context, event *Event, rundowns []*EventRundown) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	ListByStatuses(ctx context.Context, statuses []EventStatus) ([]*Event, error)
	// Update saves the event fields and replaces its rundowns atomically.
	Update(ctx context.Context, event *Event, rundowns []*EventRundown) error
	// UpdateStatus moves the event from one status to another. It returns
	// ErrInvalidStatusTransition when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to EventStatus) (*Event, error)
	Delete(ctx context.Context, id string) error
	ListRundowns(ctx context.Context, eventID string) ([]*EventRundown, error)
	ReplaceRundowns(ctx context.Context, eventID string, rundowns []*EventRundown) error
}

// CategoryRepository reads event categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]*EventCategory, error)
}

// PublicEvents is the landing listing split by phase and mode.
type PublicEvents struct {
	Ongoing           []*Event `json:"ongoing"`
	UpcomingTicketing []*Event `json:"upcoming_ticketing"`
	UpcomingBarcode   []*Event `json:"upcoming_barcode"`
}

// EventService defines the business logic for the event registry.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event, rundowns []*EventRundown) error
	GetEvent(ctx context.Context, id string) (*EventWithRundowns, error)
	// GetPublicEvent hides drafts behind ErrNotFound.
	GetPublicEvent(ctx context.Context, id string) (*EventWithRundowns, error)
	ListEvents(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	ListPublicEvents(ctx context.Context) (*PublicEvents, error)
	UpdateEvent(ctx context.Context, event *Event, rundowns []*EventRundown) (*Event, error)
	UpdateStatus(ctx context.Context, id string, status EventStatus) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error
	ImportRundown(ctx context.Context, eventID, sessionizeID string) ([]*EventRundown, error)
	ListCategories(ctx context.Context) ([]*EventCategory, error)
}
