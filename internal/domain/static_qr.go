package domain

import (
	"context"
	"time"
)

// StaticQR is a long-lived check-in code printed or displayed for a barcode-mode event.
// swagger:model StaticQR
type StaticQR struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Label     string    `json:"label"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// StaticQRRepository defines storage operations for static codes.
type StaticQRRepository interface {
	Create(ctx context.Context, qr *StaticQR) error
	GetByCode(ctx context.Context, code string) (*StaticQR, error)
	ListByEvent(ctx context.Context, eventID string) ([]*StaticQR, error)
	Delete(ctx context.Context, id string) error
}

// StaticQRService manages static codes for events.
type StaticQRService interface {
	Create(ctx context.Context, eventID, label string) (*StaticQR, error)
	ListByEvent(ctx context.Context, eventID string) ([]*StaticQR, error)
	Delete(ctx context.Context, id string) error
}
