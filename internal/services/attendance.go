package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"eventattendance/internal/domain"
)

const coordinatePlaces = 7

type attendanceService struct {
	eventRepo       domain.EventRepository
	ticketRepo      domain.TicketRepository
	attendanceRepo  domain.AttendanceRepository
	staticQRRepo    domain.StaticQRRepository
	institutionRepo domain.InstitutionRepository
	metrics         domain.Metrics
	contextTimeout  time.Duration
}

func NewAttendanceService(
	eventRepo domain.EventRepository,
	ticketRepo domain.TicketRepository,
	attendanceRepo domain.AttendanceRepository,
	staticQRRepo domain.StaticQRRepository,
	institutionRepo domain.InstitutionRepository,
	metrics domain.Metrics,
	timeout time.Duration,
) domain.AttendanceService {
	return &attendanceService{
		eventRepo:       eventRepo,
		ticketRepo:      ticketRepo,
		attendanceRepo:  attendanceRepo,
		staticQRRepo:    staticQRRepo,
		institutionRepo: institutionRepo,
		metrics:         metrics,
		contextTimeout:  timeout,
	}
}

func (s *attendanceService) activeEvent(ctx context.Context, eventID string, mode domain.AttendanceMode) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.Status.AcceptsAttendance() {
		return nil, domain.ErrEventNotActive
	}
	if event.AttendanceMode != mode {
		return nil, domain.ErrWrongAttendanceMode
	}
	return event, nil
}

// RedeemTicket records attendance for the ticket with the scanned code.
func (s *attendanceService) RedeemTicket(ctx context.Context, eventID, ticketCode string) (*domain.RedeemResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	res, err := s.redeemTicket(ctx, eventID, strings.TrimSpace(ticketCode))
	s.metrics.CheckIn(domain.ProtocolTicket, outcomeOf(err))
	return res, err
}

func (s *attendanceService) redeemTicket(ctx context.Context, eventID, code string) (*domain.RedeemResult, error) {
	if code == "" {
		return nil, domain.InvalidInputf("ticket code is required")
	}
	if _, err := s.activeEvent(ctx, eventID, domain.AttendanceModeTicketing); err != nil {
		return nil, err
	}
	holder, err := s.ticketRepo.GetByEventAndCode(ctx, eventID, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	used, err := s.attendanceRepo.ExistsForTicket(ctx, eventID, holder.Ticket.ID)
	if err != nil {
		return nil, fmt.Errorf("check attendance: %w", err)
	}
	if used {
		return nil, &domain.AlreadyCheckedInError{Name: holder.HolderName}
	}

	attendance := &domain.Attendance{
		EventID:      eventID,
		UserID:       &holder.Ticket.UserID,
		TicketID:     &holder.Ticket.ID,
		ScannedValue: holder.Ticket.TicketCode,
		Name:         holder.HolderName,
		ScannedAt:    time.Now(),
	}
	if err := s.attendanceRepo.Create(ctx, attendance); err != nil {
		if errors.Is(err, domain.ErrAlreadyCheckedIn) {
			return nil, &domain.AlreadyCheckedInError{Name: holder.HolderName}
		}
		return nil, fmt.Errorf("record attendance: %w", err)
	}
	return &domain.RedeemResult{Attendance: attendance, AttendeeName: holder.HolderName}, nil
}

// resolveCode maps a static code to its event, which must be an active barcode-mode event.
func (s *attendanceService) resolveCode(ctx context.Context, code string) (*domain.StaticQR, *domain.Event, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil, domain.InvalidInputf("code is required")
	}
	qr, err := s.staticQRRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: invalid or unknown QR code", domain.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("get static qr: %w", err)
	}
	event, err := s.activeEvent(ctx, qr.EventID, domain.AttendanceModeBarcode)
	if err != nil {
		return nil, nil, err
	}
	return qr, event, nil
}

func (s *attendanceService) GetCheckInContext(ctx context.Context, code string, actor *domain.Identity) (*domain.CheckInContext, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	qr, event, err := s.resolveCode(ctx, code)
	if err != nil {
		return nil, err
	}
	out := &domain.CheckInContext{EventID: event.ID, EventName: event.Name, Label: qr.Label}
	if actor != nil {
		out.AlreadyCheckedIn, err = s.attendanceRepo.ExistsForUser(ctx, event.ID, actor.UserID)
		if err != nil {
			return nil, fmt.Errorf("check attendance: %w", err)
		}
	}
	out.Institutions, err = s.institutionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list institutions: %w", err)
	}
	return out, nil
}

// CheckIn records a barcode-mode attendance. actor is nil for anonymous submissions.
func (s *attendanceService) CheckIn(ctx context.Context, req domain.CheckInRequest, actor *domain.Identity) (*domain.Attendance, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	a, err := s.checkIn(ctx, req, actor)
	s.metrics.CheckIn(domain.ProtocolBarcode, outcomeOf(err))
	return a, err
}

func (s *attendanceService) checkIn(ctx context.Context, req domain.CheckInRequest, actor *domain.Identity) (*domain.Attendance, error) {
	if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}
	qr, event, err := s.resolveCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	if actor != nil {
		exists, err := s.attendanceRepo.ExistsForUser(ctx, event.ID, actor.UserID)
		if err != nil {
			return nil, fmt.Errorf("check attendance: %w", err)
		}
		if exists {
			return nil, &domain.AlreadyCheckedInError{Name: actor.Name}
		}
	}

	scanValue := strings.TrimSpace(req.ScanID)
	if scanValue != "" {
		prior, err := s.attendanceRepo.GetByEventAndScanValue(ctx, event.ID, scanValue)
		if err == nil {
			return nil, &domain.AlreadyCheckedInError{Name: prior.Name}
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("check scan value: %w", err)
		}
	} else {
		scanValue, err = newBarcodeValue(qr.Label)
		if err != nil {
			return nil, fmt.Errorf("generate scan value: %w", err)
		}
	}

	attendance := &domain.Attendance{
		EventID:      event.ID,
		ScannedValue: scanValue,
		Latitude:     coordinate(req.Latitude),
		Longitude:    coordinate(req.Longitude),
		ScannedAt:    time.Now(),
	}
	// A signed-in actor owns the record even when submitting the guest form.
	if actor != nil {
		userID := actor.UserID
		attendance.UserID = &userID
	}
	switch {
	case req.IsGuest:
		name := strings.TrimSpace(req.Name)
		if name == "" {
			return nil, domain.InvalidInputf("name is required for guests")
		}
		attendance.Name = name
		if req.InstitutionID != nil && *req.InstitutionID != "" {
			inst, err := s.institutionRepo.GetByID(ctx, *req.InstitutionID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, domain.InvalidInputf("unknown institution")
				}
				return nil, fmt.Errorf("get institution: %w", err)
			}
			attendance.OriginInstitution = &inst.Name
		}
	case actor != nil:
		attendance.Name = actor.Name
	default:
		return nil, domain.InvalidInputf("session is invalid, sign in or check in as a guest")
	}

	if err := s.attendanceRepo.Create(ctx, attendance); err != nil {
		if errors.Is(err, domain.ErrAlreadyCheckedIn) {
			return nil, domain.ErrAlreadyCheckedIn
		}
		return nil, fmt.Errorf("record attendance: %w", err)
	}
	return attendance, nil
}

// validateCoordinates checks whichever coordinates the device supplied.
func validateCoordinates(lat, lon *float64) error {
	if lat != nil && (math.IsNaN(*lat) || math.Abs(*lat) > 90) {
		return domain.InvalidInputf("latitude must be between -90 and 90")
	}
	if lon != nil && (math.IsNaN(*lon) || math.Abs(*lon) > 180) {
		return domain.InvalidInputf("longitude must be between -180 and 180")
	}
	return nil
}

func coordinate(v *float64) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(*v).Round(coordinatePlaces))
}

// ScanStatus reports whether a displayed scan value has been consumed. It never writes.
func (s *attendanceService) ScanStatus(ctx context.Context, eventID, scanValue string) (*domain.ScanStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	scanValue = strings.TrimSpace(scanValue)
	if scanValue == "" {
		return nil, domain.InvalidInputf("scan_id is required")
	}
	a, err := s.attendanceRepo.GetByEventAndScanValue(ctx, eventID, scanValue)
	if errors.Is(err, domain.ErrNotFound) {
		s.metrics.ScanPolled(domain.ScanStatusPending)
		return &domain.ScanStatus{Status: domain.ScanStatusPending}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get attendance: %w", err)
	}
	name := a.Name
	if strings.TrimSpace(name) == "" {
		name = domain.DefaultAttendeeName
	}
	s.metrics.ScanPolled(domain.ScanStatusUsed)
	return &domain.ScanStatus{Status: domain.ScanStatusUsed, AttendeeName: name}, nil
}

func (s *attendanceService) ListEventAttendance(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Attendance, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get event: %w", err)
	}
	out, total, err := s.attendanceRepo.ListByEvent(ctx, eventID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list attendance: %w", err)
	}
	return out, total, nil
}

func (s *attendanceService) ListMyAttendance(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.AttendanceWithEvent, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	out, total, err := s.attendanceRepo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list attendance: %w", err)
	}
	return out, total, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return domain.OutcomeRecorded
	case errors.Is(err, domain.ErrAlreadyCheckedIn):
		return domain.OutcomeDuplicate
	default:
		return domain.OutcomeRejected
	}
}
