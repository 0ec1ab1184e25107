package domain

import "context"

// Check-in protocols and outcomes reported to Metrics.
const (
	ProtocolTicket  = "ticket"
	ProtocolBarcode = "barcode"

	OutcomeRecorded  = "recorded"
	OutcomeDuplicate = "duplicate"
	OutcomeRejected  = "rejected"
)

// Metrics records business counters.
type Metrics interface {
	TicketIssued(eventID string)
	CheckIn(protocol, outcome string)
	ScanPolled(status string)
}

// RateLimiter admits or rejects one hit for key in the current window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
