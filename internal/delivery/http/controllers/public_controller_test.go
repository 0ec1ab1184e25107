package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventattendance/internal/delivery/http/middleware"
	"eventattendance/internal/domain"
)

func TestPublicController_ListPublicEvents(t *testing.T) {
	events := &fakeEventService{public: &domain.PublicEvents{
		Ongoing:           []*domain.Event{{ID: "ev-live"}},
		UpcomingTicketing: []*domain.Event{},
		UpcomingBarcode:   []*domain.Event{{ID: "ev-soon"}},
	}}
	ctrl := NewPublicController(testLogger, false, events, &fakeTicketService{})
	req := httptest.NewRequest(http.MethodGet, "/public/events", nil)
	rr := httptest.NewRecorder()

	ctrl.ListPublicEvents(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var out domain.PublicEvents
	decodeData(t, decodeEnvelope(t, rr), &out)
	require.Len(t, out.Ongoing, 1)
	assert.Equal(t, "ev-live", out.Ongoing[0].ID)
	assert.Empty(t, out.UpcomingTicketing)
	require.Len(t, out.UpcomingBarcode, 1)
}

func TestPublicController_GetPublicEvent(t *testing.T) {
	found := &domain.EventWithRundowns{Event: &domain.Event{ID: "ev-1"}, Rundowns: []*domain.EventRundown{}}
	tests := []struct {
		name           string
		userID         string
		events         *fakeEventService
		tickets        *fakeTicketService
		wantStatus     int
		wantRegistered bool
	}{
		{
			name:       "anonymous",
			events:     &fakeEventService{event: found},
			tickets:    &fakeTicketService{registered: true},
			wantStatus: http.StatusOK,
		},
		{
			name:           "registered user",
			userID:         "user-123",
			events:         &fakeEventService{event: found},
			tickets:        &fakeTicketService{registered: true},
			wantStatus:     http.StatusOK,
			wantRegistered: true,
		},
		{
			name:       "draft is hidden",
			events:     &fakeEventService{err: domain.ErrNotFound},
			tickets:    &fakeTicketService{},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "registration lookup fails",
			userID:     "user-123",
			events:     &fakeEventService{event: found},
			tickets:    &fakeTicketService{err: errors.New("db down")},
			wantStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewPublicController(testLogger, false, tt.events, tt.tickets)
			req := httptest.NewRequest(http.MethodGet, "/public/events/ev-1", nil)
			req.SetPathValue("eventID", "ev-1")
			if tt.userID != "" {
				req = req.WithContext(middleware.SetUserID(req.Context(), tt.userID))
			}
			rr := httptest.NewRecorder()

			ctrl.GetPublicEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp PublicEventResponse
			decodeData(t, decodeEnvelope(t, rr), &resp)
			assert.Equal(t, "ev-1", resp.Event.ID)
			assert.Equal(t, tt.wantRegistered, resp.IsRegistered)
			if tt.userID != "" {
				assert.Equal(t, tt.userID, tt.tickets.registeredID)
			}
		})
	}
}

func TestPublicController_ListCategories(t *testing.T) {
	ctrl := NewPublicController(testLogger, false, &fakeEventService{}, &fakeTicketService{})
	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	rr := httptest.NewRecorder()

	ctrl.ListCategories(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":[],"error":null}`, rr.Body.String())
}
