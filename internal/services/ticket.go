package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventattendance/internal/domain"
)

type ticketService struct {
	eventRepo      domain.EventRepository
	ticketRepo     domain.TicketRepository
	emailService   domain.EmailService
	metrics        domain.Metrics
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewTicketService creates a TicketService. emailService may be nil to skip confirmations.
func NewTicketService(
	eventRepo domain.EventRepository,
	ticketRepo domain.TicketRepository,
	emailService domain.EmailService,
	metrics domain.Metrics,
	logger *slog.Logger,
	timeout time.Duration,
) domain.TicketService {
	return &ticketService{
		eventRepo:      eventRepo,
		ticketRepo:     ticketRepo,
		emailService:   emailService,
		metrics:        metrics,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// IssueTicket registers holder for a ticketing-mode event. The checks run in the order
// status, mode, duplicate, quota; the repository re-checks quota under a row lock.
func (s *ticketService) IssueTicket(ctx context.Context, eventID string, holder *domain.Identity) (*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if holder == nil || holder.UserID == "" {
		return nil, domain.ErrForbidden
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Status != domain.EventStatusRegistration {
		return nil, domain.ErrRegistrationClosed
	}
	if event.AttendanceMode != domain.AttendanceModeTicketing {
		return nil, domain.ErrWrongAttendanceMode
	}
	if _, err := s.ticketRepo.GetByEventAndUser(ctx, eventID, holder.UserID); err == nil {
		return nil, domain.ErrAlreadyRegistered
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if event.MaxAttendees > 0 {
		issued, err := s.ticketRepo.CountByEvent(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("count tickets: %w", err)
		}
		if !event.HasRoomFor(issued) {
			return nil, domain.ErrQuotaExceeded
		}
	}

	code, err := newTicketCode(event.ID, holder.UserID)
	if err != nil {
		return nil, fmt.Errorf("generate ticket code: %w", err)
	}
	ticket := domain.NewTicket(event.ID, holder.UserID, code, time.Now())
	if err := s.ticketRepo.CreateWithinCapacity(ctx, ticket, event.MaxAttendees); err != nil {
		if isBusinessError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	s.metrics.TicketIssued(event.ID)
	s.sendConfirmation(ctx, event, ticket, holder)
	return ticket, nil
}

func (s *ticketService) sendConfirmation(ctx context.Context, event *domain.Event, ticket *domain.Ticket, holder *domain.Identity) {
	if s.emailService == nil || holder.Email == "" {
		return
	}
	data := &domain.TicketIssuedEmailData{
		Email:      holder.Email,
		Name:       holder.Name,
		EventName:  event.Name,
		EventStart: event.StartDate,
		TicketCode: ticket.TicketCode,
	}
	if event.LocationName != nil {
		data.Location = *event.LocationName
	}
	if err := s.emailService.SendTicketIssued(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "ticket confirmation email failed", "ticket_id", ticket.ID, "err", err)
	}
}

func (s *ticketService) IsRegistered(ctx context.Context, eventID, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	_, err := s.ticketRepo.GetByEventAndUser(ctx, eventID, userID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("get ticket: %w", err)
}

func (s *ticketService) ListMyTickets(ctx context.Context, holder *domain.Identity, params domain.PaginationParams) ([]*domain.TicketWithEvent, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	tickets, total, err := s.ticketRepo.ListActiveByUser(ctx, holder.UserID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, total, nil
}

func (s *ticketService) GetMyTicket(ctx context.Context, ticketID string, holder *domain.Identity) (*domain.TicketWithEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if ticket.UserID != holder.UserID {
		return nil, domain.ErrForbidden
	}
	event, err := s.eventRepo.GetByID(ctx, ticket.EventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &domain.TicketWithEvent{Ticket: ticket, Event: event}, nil
}

func (s *ticketService) ListEventTickets(ctx context.Context, eventID, search string, params domain.PaginationParams) ([]*domain.TicketWithHolder, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get event: %w", err)
	}
	tickets, total, err := s.ticketRepo.ListByEvent(ctx, eventID, search, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list event tickets: %w", err)
	}
	return tickets, total, nil
}
