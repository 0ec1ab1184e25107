package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventattendance/internal/domain"
)

const internalErrorMessage = "something went wrong, please try again later"

// WriteServiceError maps a service error to its status and error code. Unclassified
// errors are logged and reported as 500; their text is only exposed when debug is set.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, debug bool, err error) {
	var checkedIn *domain.AlreadyCheckedInError
	switch {
	case errors.As(err, &checkedIn):
		WriteJSONErrorDetails(w, http.StatusConflict, ErrCodeConflict, err.Error(),
			map[string]any{"attendee_name": checkedIn.Name})
	case errors.Is(err, domain.ErrInvalidInput):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicateEmail):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		WriteJSONError(w, http.StatusUnprocessableEntity, ErrCodeUnprocessable, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		WriteJSONError(w, http.StatusForbidden, ErrCodeForbidden, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, err.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		msg := internalErrorMessage
		if debug {
			msg = err.Error()
		}
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, msg)
	}
}
