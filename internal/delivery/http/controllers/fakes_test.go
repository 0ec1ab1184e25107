package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"eventattendance/internal/delivery/http/helpers"
	"eventattendance/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	return envelope
}

// decodeData re-encodes envelope.Data into out.
func decodeData(t *testing.T, envelope helpers.APIResponse, out any) {
	t.Helper()
	require.Nil(t, envelope.Error, "success response must have error nil")
	b, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, out))
}

type fakeAuthService struct {
	signUpUser *domain.User
	signUpErr  error
	token      string
	loginUser  *domain.User
	loginErr   error
	lastEmail  string
	lastName   string
}

func (f *fakeAuthService) SignUp(_ context.Context, email, _, name string) (*domain.User, error) {
	f.lastEmail, f.lastName = email, name
	return f.signUpUser, f.signUpErr
}

func (f *fakeAuthService) Login(_ context.Context, email, _ string) (string, *domain.User, error) {
	f.lastEmail = email
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	return f.token, f.loginUser, nil
}

// fakeUserService resolves any user ID to an identity named after it unless err is set.
type fakeUserService struct {
	err error
}

func (f *fakeUserService) GetByID(_ context.Context, id string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.User{ID: id, Name: "Name of " + id, Email: id + "@example.com"}, nil
}

func (f *fakeUserService) GetIdentity(ctx context.Context, id string) (*domain.Identity, error) {
	u, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.Identity{UserID: u.ID, Name: u.Name, Email: u.Email}, nil
}

func (f *fakeUserService) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	u, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.Profile{User: u, Roles: []string{"attendee"}, Permissions: []domain.Permission{domain.PermJoinActivities}}, nil
}

type fakeEventService struct {
	event        *domain.EventWithRundowns
	events       []*domain.Event
	total        int
	public       *domain.PublicEvents
	categories   []*domain.EventCategory
	rundowns     []*domain.EventRundown
	err          error
	lastEvent    *domain.Event
	lastRundowns []*domain.EventRundown
	lastFilter   domain.EventFilter
	lastParams   domain.PaginationParams
	lastStatus   domain.EventStatus
	lastID       string
}

func (f *fakeEventService) CreateEvent(_ context.Context, event *domain.Event, rundowns []*domain.EventRundown) error {
	f.lastEvent, f.lastRundowns = event, rundowns
	if f.err != nil {
		return f.err
	}
	event.ID = "ev-created"
	if event.Status == "" {
		event.Status = domain.EventStatusDraft
	}
	return nil
}

func (f *fakeEventService) GetEvent(_ context.Context, id string) (*domain.EventWithRundowns, error) {
	f.lastID = id
	return f.event, f.err
}

func (f *fakeEventService) GetPublicEvent(_ context.Context, id string) (*domain.EventWithRundowns, error) {
	f.lastID = id
	return f.event, f.err
}

func (f *fakeEventService) ListEvents(_ context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.lastFilter, f.lastParams = filter, params
	return f.events, f.total, f.err
}

func (f *fakeEventService) ListPublicEvents(_ context.Context) (*domain.PublicEvents, error) {
	return f.public, f.err
}

func (f *fakeEventService) UpdateEvent(_ context.Context, event *domain.Event, rundowns []*domain.EventRundown) (*domain.Event, error) {
	f.lastEvent, f.lastRundowns = event, rundowns
	if f.err != nil {
		return nil, f.err
	}
	return event, nil
}

func (f *fakeEventService) UpdateStatus(_ context.Context, id string, status domain.EventStatus) (*domain.Event, error) {
	f.lastID, f.lastStatus = id, status
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Event{ID: id, Status: status}, nil
}

func (f *fakeEventService) DeleteEvent(_ context.Context, id string) error {
	f.lastID = id
	return f.err
}

func (f *fakeEventService) ImportRundown(_ context.Context, eventID, _ string) ([]*domain.EventRundown, error) {
	f.lastID = eventID
	return f.rundowns, f.err
}

func (f *fakeEventService) ListCategories(_ context.Context) ([]*domain.EventCategory, error) {
	return f.categories, f.err
}

type fakeTicketService struct {
	ticket       *domain.Ticket
	withEvent    *domain.TicketWithEvent
	mine         []*domain.TicketWithEvent
	holders      []*domain.TicketWithHolder
	total        int
	registered   bool
	err          error
	lastHolder   *domain.Identity
	lastEventID  string
	lastSearch   string
	registeredID string
}

func (f *fakeTicketService) IssueTicket(_ context.Context, eventID string, holder *domain.Identity) (*domain.Ticket, error) {
	f.lastEventID, f.lastHolder = eventID, holder
	return f.ticket, f.err
}

func (f *fakeTicketService) IsRegistered(_ context.Context, eventID, userID string) (bool, error) {
	f.lastEventID, f.registeredID = eventID, userID
	return f.registered, f.err
}

func (f *fakeTicketService) ListMyTickets(_ context.Context, holder *domain.Identity, _ domain.PaginationParams) ([]*domain.TicketWithEvent, int, error) {
	f.lastHolder = holder
	return f.mine, f.total, f.err
}

func (f *fakeTicketService) GetMyTicket(_ context.Context, _ string, holder *domain.Identity) (*domain.TicketWithEvent, error) {
	f.lastHolder = holder
	return f.withEvent, f.err
}

func (f *fakeTicketService) ListEventTickets(_ context.Context, eventID, search string, _ domain.PaginationParams) ([]*domain.TicketWithHolder, int, error) {
	f.lastEventID, f.lastSearch = eventID, search
	return f.holders, f.total, f.err
}

type fakeAttendanceService struct {
	redeem       *domain.RedeemResult
	attendance   *domain.Attendance
	status       *domain.ScanStatus
	checkInCtx   *domain.CheckInContext
	list         []*domain.Attendance
	mine         []*domain.AttendanceWithEvent
	total        int
	err          error
	lastCode     string
	lastScanID   string
	lastEventID  string
	lastRequest  domain.CheckInRequest
	lastActor    *domain.Identity
	lastUserID   string
	checkInCalls int
}

func (f *fakeAttendanceService) RedeemTicket(_ context.Context, eventID, code string) (*domain.RedeemResult, error) {
	f.lastEventID, f.lastCode = eventID, code
	return f.redeem, f.err
}

func (f *fakeAttendanceService) CheckIn(_ context.Context, req domain.CheckInRequest, actor *domain.Identity) (*domain.Attendance, error) {
	f.checkInCalls++
	f.lastRequest, f.lastActor = req, actor
	return f.attendance, f.err
}

func (f *fakeAttendanceService) ScanStatus(_ context.Context, eventID, scanValue string) (*domain.ScanStatus, error) {
	f.lastEventID, f.lastScanID = eventID, scanValue
	return f.status, f.err
}

func (f *fakeAttendanceService) GetCheckInContext(_ context.Context, code string, actor *domain.Identity) (*domain.CheckInContext, error) {
	f.lastCode, f.lastActor = code, actor
	return f.checkInCtx, f.err
}

func (f *fakeAttendanceService) ListEventAttendance(_ context.Context, eventID string, _ domain.PaginationParams) ([]*domain.Attendance, int, error) {
	f.lastEventID = eventID
	return f.list, f.total, f.err
}

func (f *fakeAttendanceService) ListMyAttendance(_ context.Context, userID string, _ domain.PaginationParams) ([]*domain.AttendanceWithEvent, int, error) {
	f.lastUserID = userID
	return f.mine, f.total, f.err
}

type fakeStaticQRService struct {
	qr        *domain.StaticQR
	list      []*domain.StaticQR
	err       error
	lastEvent string
	lastLabel string
	lastID    string
}

func (f *fakeStaticQRService) Create(_ context.Context, eventID, label string) (*domain.StaticQR, error) {
	f.lastEvent, f.lastLabel = eventID, label
	return f.qr, f.err
}

func (f *fakeStaticQRService) ListByEvent(_ context.Context, eventID string) ([]*domain.StaticQR, error) {
	f.lastEvent = eventID
	return f.list, f.err
}

func (f *fakeStaticQRService) Delete(_ context.Context, id string) error {
	f.lastID = id
	return f.err
}
