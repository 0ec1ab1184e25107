package domain

import (
	"context"
	"time"
)

// Ticket is an attendee's registration for a ticketing-mode event. It is unique per
// (event, holder) and its code is unique across all events.
// swagger:model Ticket
type Ticket struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	UserID       string    `json:"user_id"`
	TicketCode   string    `json:"ticket_code"`
	RegisteredAt time.Time `json:"registered_at"`
}

// NewTicket creates a new Ticket. ID is typically set by the repository on create.
func NewTicket(eventID, userID, code string, registeredAt time.Time) *Ticket {
	return &Ticket{
		EventID:      eventID,
		UserID:       userID,
		TicketCode:   code,
		RegisteredAt: registeredAt,
	}
}

// TicketWithHolder is a ticket joined with its holder's profile.
type TicketWithHolder struct {
	Ticket      *Ticket `json:"ticket"`
	HolderName  string  `json:"holder_name"`
	HolderEmail string  `json:"holder_email"`
}

// TicketWithEvent bundles a ticket with the event it admits to.
type TicketWithEvent struct {
	Ticket *Ticket `json:"ticket"`
	Event  *Event  `json:"event"`
}

// TicketRepository defines storage operations for tickets.
type TicketRepository interface {
	// CreateWithinCapacity inserts the ticket after re-counting the event's tickets under a
	// row lock. capacity 0 means unlimited. Returns ErrQuotaExceeded or ErrAlreadyRegistered.
	CreateWithinCapacity(ctx context.Context, ticket *Ticket, capacity int) error
	GetByID(ctx context.Context, id string) (*Ticket, error)
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*Ticket, error)
	GetByEventAndCode(ctx context.Context, eventID, code string) (*TicketWithHolder, error)
	CountByEvent(ctx context.Context, eventID string) (int, error)
	// ListActiveByUser returns the user's tickets for events that are not completed.
	ListActiveByUser(ctx context.Context, userID string, params PaginationParams) ([]*TicketWithEvent, int, error)
	ListByEvent(ctx context.Context, eventID, search string, params PaginationParams) ([]*TicketWithHolder, int, error)
}

// TicketService defines the ticket issuing operations.
type TicketService interface {
	IssueTicket(ctx context.Context, eventID string, holder *Identity) (*Ticket, error)
	IsRegistered(ctx context.Context, eventID, userID string) (bool, error)
	ListMyTickets(ctx context.Context, holder *Identity, params PaginationParams) ([]*TicketWithEvent, int, error)
	GetMyTicket(ctx context.Context, ticketID string, holder *Identity) (*TicketWithEvent, error)
	ListEventTickets(ctx context.Context, eventID, search string, params PaginationParams) ([]*TicketWithHolder, int, error)
}
