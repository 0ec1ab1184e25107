package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventattendance/internal/delivery/http/helpers"
	"eventattendance/internal/delivery/http/middleware"
	"eventattendance/internal/domain"
)

func TestTicketController_JoinEvent(t *testing.T) {
	tests := []struct {
		name       string
		noUser     bool
		users      *fakeUserService
		fakeErr    error
		wantStatus int
		wantCode   string
	}{
		{name: "success", users: &fakeUserService{}, wantStatus: http.StatusCreated},
		{name: "no user in context", noUser: true, users: &fakeUserService{}, wantStatus: http.StatusUnauthorized, wantCode: helpers.ErrCodeUnauthorized},
		{name: "deleted user", users: &fakeUserService{err: domain.ErrUserNotFound}, wantStatus: http.StatusUnauthorized, wantCode: helpers.ErrCodeUnauthorized},
		{name: "already registered", users: &fakeUserService{}, fakeErr: domain.ErrAlreadyRegistered, wantStatus: http.StatusConflict, wantCode: helpers.ErrCodeConflict},
		{name: "quota full", users: &fakeUserService{}, fakeErr: domain.ErrQuotaExceeded, wantStatus: http.StatusConflict, wantCode: helpers.ErrCodeConflict},
		{name: "registration closed", users: &fakeUserService{}, fakeErr: domain.ErrRegistrationClosed, wantStatus: http.StatusUnprocessableEntity, wantCode: helpers.ErrCodeUnprocessable},
		{name: "wrong mode", users: &fakeUserService{}, fakeErr: domain.ErrWrongAttendanceMode, wantStatus: http.StatusUnprocessableEntity, wantCode: helpers.ErrCodeUnprocessable},
		{name: "event not found", users: &fakeUserService{}, fakeErr: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tickets := &fakeTicketService{
				ticket: &domain.Ticket{ID: "t-1", EventID: "ev-1", UserID: "user-123", TicketCode: "EVTEV1U-ABC"},
				err:    tt.fakeErr,
			}
			ctrl := NewTicketController(testLogger, false, tickets, tt.users)
			req := httptest.NewRequest(http.MethodPost, "/events/ev-1/join", nil)
			req.SetPathValue("eventID", "ev-1")
			if !tt.noUser {
				req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			}
			rr := httptest.NewRecorder()

			ctrl.JoinEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantCode, envelope.Error.Code)
				return
			}
			var ticket domain.Ticket
			decodeData(t, envelope, &ticket)
			assert.Equal(t, "EVTEV1U-ABC", ticket.TicketCode)
			require.NotNil(t, tickets.lastHolder)
			assert.Equal(t, "user-123", tickets.lastHolder.UserID)
			assert.Equal(t, "user-123@example.com", tickets.lastHolder.Email)
			assert.Equal(t, "ev-1", tickets.lastEventID)
		})
	}
}

func TestTicketController_ListMyTickets(t *testing.T) {
	tickets := &fakeTicketService{
		mine:  []*domain.TicketWithEvent{{Ticket: &domain.Ticket{ID: "t-1"}, Event: &domain.Event{ID: "ev-1"}}},
		total: 1,
	}
	ctrl := NewTicketController(testLogger, false, tickets, &fakeUserService{})
	req := httptest.NewRequest(http.MethodGet, "/me/tickets", nil)
	req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
	rr := httptest.NewRecorder()

	ctrl.ListMyTickets(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp ListMyTicketsResponse
	decodeData(t, decodeEnvelope(t, rr), &resp)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 1, resp.Pagination.TotalPages)
	assert.Equal(t, "user-123", tickets.lastHolder.UserID)
}

func TestTicketController_GetMyTicket(t *testing.T) {
	tests := []struct {
		name       string
		fakeErr    error
		wantStatus int
	}{
		{name: "success", wantStatus: http.StatusOK},
		{name: "someone else's ticket", fakeErr: domain.ErrForbidden, wantStatus: http.StatusForbidden},
		{name: "missing", fakeErr: domain.ErrNotFound, wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tickets := &fakeTicketService{
				withEvent: &domain.TicketWithEvent{Ticket: &domain.Ticket{ID: "t-1"}, Event: &domain.Event{ID: "ev-1"}},
				err:       tt.fakeErr,
			}
			ctrl := NewTicketController(testLogger, false, tickets, &fakeUserService{})
			req := httptest.NewRequest(http.MethodGet, "/me/tickets/t-1", nil)
			req.SetPathValue("ticketID", "t-1")
			req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			rr := httptest.NewRecorder()

			ctrl.GetMyTicket(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}
