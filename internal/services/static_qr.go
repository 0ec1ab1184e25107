package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventattendance/internal/domain"
)

type staticQRService struct {
	eventRepo      domain.EventRepository
	staticQRRepo   domain.StaticQRRepository
	contextTimeout time.Duration
}

func NewStaticQRService(eventRepo domain.EventRepository, staticQRRepo domain.StaticQRRepository, timeout time.Duration) domain.StaticQRService {
	return &staticQRService{eventRepo: eventRepo, staticQRRepo: staticQRRepo, contextTimeout: timeout}
}

// Create issues a new static code for a barcode-mode event.
func (s *staticQRService) Create(ctx context.Context, eventID, label string) (*domain.StaticQR, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	label = strings.TrimSpace(label)
	if label == "" {
		return nil, domain.InvalidInputf("label is required")
	}
	if len(label) > maxNameLength {
		return nil, domain.InvalidInputf("label must be at most %d characters", maxNameLength)
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.AttendanceMode != domain.AttendanceModeBarcode {
		return nil, domain.ErrWrongAttendanceMode
	}

	qr := &domain.StaticQR{
		EventID:   event.ID,
		Label:     label,
		Code:      uuid.NewString(),
		CreatedAt: time.Now(),
	}
	if err := s.staticQRRepo.Create(ctx, qr); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("create static qr: %w", err)
	}
	return qr, nil
}

func (s *staticQRService) ListByEvent(ctx context.Context, eventID string) ([]*domain.StaticQR, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	qrs, err := s.staticQRRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list static qrs: %w", err)
	}
	return qrs, nil
}

func (s *staticQRService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.staticQRRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete static qr: %w", err)
	}
	return nil
}
