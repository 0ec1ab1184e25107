package domain

import (
	"errors"
	"fmt"
)

// Base error kinds. Every business error below wraps exactly one of them so the
// delivery layer can map by kind with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
)

var (
	ErrTicketNotFound = fmt.Errorf("%w: ticket is not valid for this event", ErrNotFound)

	ErrAlreadyRegistered = fmt.Errorf("%w: already registered for this event", ErrConflict)
	ErrAlreadyCheckedIn  = fmt.Errorf("%w: already checked in", ErrConflict)
	ErrQuotaExceeded     = fmt.Errorf("%w: event quota is full", ErrConflict)

	ErrRegistrationClosed      = fmt.Errorf("%w: registration for this event is not open", ErrInvalidState)
	ErrWrongAttendanceMode     = fmt.Errorf("%w: attendance mode does not allow this operation", ErrInvalidState)
	ErrEventNotActive          = fmt.Errorf("%w: event is not accepting attendance", ErrInvalidState)
	ErrInvalidStatusTransition = fmt.Errorf("%w: event status cannot move backwards", ErrInvalidState)
)

// AlreadyCheckedInError reports a consumed proof-of-entry together with the name
// recorded by whoever consumed it, when known.
type AlreadyCheckedInError struct {
	Name string
}

func (e *AlreadyCheckedInError) Error() string {
	if e.Name == "" {
		return ErrAlreadyCheckedIn.Error()
	}
	return fmt.Sprintf("%s (%s)", ErrAlreadyCheckedIn.Error(), e.Name)
}

func (e *AlreadyCheckedInError) Unwrap() error { return ErrAlreadyCheckedIn }

// InvalidInputf returns an ErrInvalidInput carrying a human readable reason.
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
