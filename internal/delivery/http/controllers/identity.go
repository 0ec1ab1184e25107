package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "eventattendance/internal/delivery/http/helpers"
	"eventattendance/internal/delivery/http/middleware"
	"eventattendance/internal/domain"
)

// currentIdentity loads the principal for the request's user ID. It returns nil
// without error for anonymous requests.
func currentIdentity(r *http.Request, users domain.UserService) (*domain.Identity, error) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return nil, nil
	}
	return users.GetIdentity(r.Context(), userID)
}

// requireIdentity is currentIdentity for authenticated routes; it writes the error
// response itself and reports whether the caller may continue.
func requireIdentity(w http.ResponseWriter, r *http.Request, users domain.UserService, logger *slog.Logger, debug bool) (*domain.Identity, bool) {
	id, err := currentIdentity(r, users)
	if err != nil {
		writeIdentityError(w, r, logger, debug, err)
		return nil, false
	}
	if id == nil {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return nil, false
	}
	return id, true
}

// writeIdentityError treats a token for a deleted user as an invalid session.
func writeIdentityError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, debug bool, err error) {
	if errors.Is(err, domain.ErrUserNotFound) {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "session is invalid, please sign in again")
		return
	}
	h.WriteServiceError(w, r, logger, debug, err)
}
