package domain

import (
	"context"
	"time"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// TicketIssuedEmailData holds data for the ticket confirmation email.
type TicketIssuedEmailData struct {
	Email      string
	Name       string
	EventName  string
	EventStart time.Time
	Location   string
	TicketCode string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendTicketIssued(ctx context.Context, data *TicketIssuedEmailData) error
}
