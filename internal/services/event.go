package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"eventattendance/internal/domain"
)

const maxNameLength = 255

var (
	decimal90  = decimal.NewFromInt(90)
	decimal180 = decimal.NewFromInt(180)
)

type eventService struct {
	eventRepo      domain.EventRepository
	categoryRepo   domain.CategoryRepository
	sf             domain.ScheduleFetcher
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository,
	categoryRepo domain.CategoryRepository,
	scheduleFetcher domain.ScheduleFetcher,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		categoryRepo:   categoryRepo,
		sf:             scheduleFetcher,
		contextTimeout: timeout,
	}
}

func validateEvent(e *domain.Event) error {
	e.Name = strings.TrimSpace(e.Name)
	e.Type = strings.TrimSpace(e.Type)
	switch {
	case e.Name == "":
		return domain.InvalidInputf("name is required")
	case len(e.Name) > maxNameLength:
		return domain.InvalidInputf("name must be at most %d characters", maxNameLength)
	case e.Type == "":
		return domain.InvalidInputf("type is required")
	case !e.AttendanceMode.Valid():
		return domain.InvalidInputf("attendance_mode must be ticketing or barcode")
	case e.StartDate.IsZero() || e.EndDate.IsZero():
		return domain.InvalidInputf("start_date and end_date are required")
	case e.EndDate.Before(e.StartDate):
		return domain.InvalidInputf("end_date must not be before start_date")
	case e.MaxAttendees < 0:
		return domain.InvalidInputf("max_attendees must be zero or positive")
	}
	if e.Latitude.Valid && e.Latitude.Decimal.Abs().GreaterThan(decimal90) {
		return domain.InvalidInputf("latitude must be between -90 and 90")
	}
	if e.Longitude.Valid && e.Longitude.Decimal.Abs().GreaterThan(decimal180) {
		return domain.InvalidInputf("longitude must be between -180 and 180")
	}
	return nil
}

func validateRundowns(rundowns []*domain.EventRundown) error {
	for i, rd := range rundowns {
		rd.Title = strings.TrimSpace(rd.Title)
		if rd.Title == "" {
			return domain.InvalidInputf("rundowns[%d].title is required", i)
		}
		if rd.StartTime.IsZero() || rd.EndTime.IsZero() {
			return domain.InvalidInputf("rundowns[%d] start_time and end_time are required", i)
		}
		if rd.EndTime.Before(rd.StartTime) {
			return domain.InvalidInputf("rundowns[%d].end_time must not be before start_time", i)
		}
	}
	return nil
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event, rundowns []*domain.EventRundown) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.Status == "" {
		event.Status = domain.EventStatusDraft
	}
	if !event.Status.Valid() {
		return domain.InvalidInputf("unknown status %q", event.Status)
	}
	if err := validateEvent(event); err != nil {
		return err
	}
	if err := validateRundowns(rundowns); err != nil {
		return err
	}

	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	if err := s.eventRepo.Create(ctx, event, rundowns); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.EventWithRundowns, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.getWithRundowns(ctx, id)
}

func (s *eventService) getWithRundowns(ctx context.Context, id string) (*domain.EventWithRundowns, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	rundowns, err := s.eventRepo.ListRundowns(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list rundowns: %w", err)
	}
	if rundowns == nil {
		rundowns = []*domain.EventRundown{}
	}
	return &domain.EventWithRundowns{Event: event, Rundowns: rundowns}, nil
}

func (s *eventService) GetPublicEvent(ctx context.Context, id string) (*domain.EventWithRundowns, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	out, err := s.getWithRundowns(ctx, id)
	if err != nil {
		return nil, err
	}
	if out.Event.Status == domain.EventStatusDraft {
		return nil, domain.ErrNotFound
	}
	return out, nil
}

func (s *eventService) ListEvents(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, domain.InvalidInputf("unknown status %q", filter.Status)
	}
	if filter.Mode != "" && !filter.Mode.Valid() {
		return nil, 0, domain.InvalidInputf("unknown attendance mode %q", filter.Mode)
	}
	events, total, err := s.eventRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

// ListPublicEvents groups ongoing events and upcoming (registration) events by mode.
func (s *eventService) ListPublicEvents(ctx context.Context) (*domain.PublicEvents, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByStatuses(ctx, []domain.EventStatus{domain.EventStatusRegistration, domain.EventStatusOngoing})
	if err != nil {
		return nil, fmt.Errorf("list public events: %w", err)
	}
	out := &domain.PublicEvents{
		Ongoing:           []*domain.Event{},
		UpcomingTicketing: []*domain.Event{},
		UpcomingBarcode:   []*domain.Event{},
	}
	for _, e := range events {
		switch {
		case e.Status == domain.EventStatusOngoing:
			out.Ongoing = append(out.Ongoing, e)
		case e.AttendanceMode == domain.AttendanceModeTicketing:
			out.UpcomingTicketing = append(out.UpcomingTicketing, e)
		default:
			out.UpcomingBarcode = append(out.UpcomingBarcode, e)
		}
	}
	return out, nil
}

// UpdateEvent saves editable fields and replaces the rundown. Status is changed only via UpdateStatus.
func (s *eventService) UpdateEvent(ctx context.Context, event *domain.Event, rundowns []*domain.EventRundown) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.eventRepo.GetByID(ctx, event.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	event.Status = existing.Status
	event.CreatedAt = existing.CreatedAt
	if err := validateEvent(event); err != nil {
		return nil, err
	}
	if err := validateRundowns(rundowns); err != nil {
		return nil, err
	}
	event.UpdatedAt = time.Now()
	if err := s.eventRepo.Update(ctx, event, rundowns); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !status.Valid() {
		return nil, domain.InvalidInputf("unknown status %q", status)
	}
	existing, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !existing.Status.CanTransitionTo(status) {
		return nil, domain.ErrInvalidStatusTransition
	}
	if existing.Status == status {
		return existing, nil
	}
	updated, err := s.eventRepo.UpdateStatus(ctx, id, existing.Status, status)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidStatusTransition) {
			return nil, domain.ErrInvalidStatusTransition
		}
		return nil, fmt.Errorf("update status: %w", err)
	}
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// ImportRundown replaces the event's rundown with the sessions of a Sessionize schedule.
func (s *eventService) ImportRundown(ctx context.Context, eventID, sessionizeID string) ([]*domain.EventRundown, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if strings.TrimSpace(sessionizeID) == "" {
		return nil, domain.InvalidInputf("sessionize id is required")
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	data, err := s.sf.Fetch(ctx, sessionizeID)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule: %w", err)
	}

	rooms := make(map[int]string, len(data.Rooms))
	for _, r := range data.Rooms {
		rooms[r.ID] = r.Name
	}
	rundowns := make([]*domain.EventRundown, 0, len(data.Sessions))
	for _, sess := range data.Sessions {
		if sess.StartsAt.IsZero() || strings.TrimSpace(sess.Title) == "" {
			continue
		}
		end := sess.EndsAt
		if end.Before(sess.StartsAt) {
			end = sess.StartsAt
		}
		rd := &domain.EventRundown{EventID: eventID, Title: strings.TrimSpace(sess.Title), StartTime: sess.StartsAt, EndTime: end}
		desc := strings.TrimSpace(sess.Description)
		if room, ok := rooms[sess.RoomID]; ok && room != "" {
			if desc == "" {
				desc = room
			} else {
				desc = room + ": " + desc
			}
		}
		if desc != "" {
			rd.Description = &desc
		}
		rundowns = append(rundowns, rd)
	}
	sort.SliceStable(rundowns, func(i, j int) bool { return rundowns[i].StartTime.Before(rundowns[j].StartTime) })

	if err := s.eventRepo.ReplaceRundowns(ctx, eventID, rundowns); err != nil {
		return nil, fmt.Errorf("replace rundowns: %w", err)
	}
	return rundowns, nil
}

func (s *eventService) ListCategories(ctx context.Context) ([]*domain.EventCategory, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
