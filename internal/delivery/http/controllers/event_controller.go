package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"eventattendance/internal/delivery/http/helpers"
	"eventattendance/internal/domain"
)

// RundownRequest is one agenda entry in an event create or update body.
type RundownRequest struct {
	Title       string    `json:"title" validate:"required,max=255"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	Description *string   `json:"description"`
}

// EventRequest is the request body for POST /admin/events and PUT /admin/events/{eventID}.
// Status is only honoured on create; use PATCH .../status afterwards.
type EventRequest struct {
	Name           string                `json:"name" validate:"required,max=255"`
	Description    *string               `json:"description"`
	LocationName   *string               `json:"location_name" validate:"omitempty,max=255"`
	Latitude       *float64              `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude      *float64              `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Speaker        *string               `json:"speaker" validate:"omitempty,max=255"`
	Type           string                `json:"type" validate:"required,max=100"`
	CategoryID     *string               `json:"category_id" validate:"omitempty,uuid"`
	StartDate      time.Time             `json:"start_date" validate:"required"`
	EndDate        time.Time             `json:"end_date" validate:"required"`
	Status         domain.EventStatus    `json:"status" validate:"omitempty,oneof=draft registration ongoing completed"`
	AttendanceMode domain.AttendanceMode `json:"attendance_mode" validate:"required,oneof=ticketing barcode"`
	MaxAttendees   int                   `json:"max_attendees" validate:"gte=0"`
	Rundowns       []RundownRequest      `json:"rundowns" validate:"dive"`
}

// Validate implements Validator for the cross-field rules.
func (e EventRequest) Validate() []string {
	var errs []string
	if !e.StartDate.IsZero() && !e.EndDate.IsZero() && e.EndDate.Before(e.StartDate) {
		errs = append(errs, "end_date must not be before start_date")
	}
	for i, rd := range e.Rundowns {
		if !rd.StartTime.IsZero() && !rd.EndTime.IsZero() && rd.EndTime.Before(rd.StartTime) {
			errs = append(errs, fmt.Sprintf("rundowns[%d].end_time must not be before start_time", i))
		}
	}
	return errs
}

func (e EventRequest) toDomain(id string) (*domain.Event, []*domain.EventRundown) {
	event := &domain.Event{
		ID:             id,
		Name:           e.Name,
		Description:    e.Description,
		LocationName:   e.LocationName,
		Speaker:        e.Speaker,
		Type:           e.Type,
		CategoryID:     e.CategoryID,
		StartDate:      e.StartDate,
		EndDate:        e.EndDate,
		Status:         e.Status,
		AttendanceMode: e.AttendanceMode,
		MaxAttendees:   e.MaxAttendees,
	}
	if e.Latitude != nil {
		event.Latitude = decimal.NewNullDecimal(decimal.NewFromFloat(*e.Latitude))
	}
	if e.Longitude != nil {
		event.Longitude = decimal.NewNullDecimal(decimal.NewFromFloat(*e.Longitude))
	}
	rundowns := make([]*domain.EventRundown, 0, len(e.Rundowns))
	for _, rd := range e.Rundowns {
		rundowns = append(rundowns, &domain.EventRundown{
			EventID:     id,
			Title:       rd.Title,
			StartTime:   rd.StartTime,
			EndTime:     rd.EndTime,
			Description: rd.Description,
		})
	}
	return event, rundowns
}

// UpdateStatusRequest is the request body for PATCH /admin/events/{eventID}/status.
type UpdateStatusRequest struct {
	Status domain.EventStatus `json:"status" validate:"required,oneof=draft registration ongoing completed"`
}

// EventSuccessResponse is the success response envelope for endpoints returning one event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventDetailSuccessResponse is the success response envelope for GET /admin/events/{eventID}.
type EventDetailSuccessResponse struct {
	Data  *domain.EventWithRundowns `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// ListEventsResponse is the paginated response for GET /admin/events.
type ListEventsResponse struct {
	Items      []*domain.Event        `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListEventTicketsResponse is the paginated response for GET /admin/events/{eventID}/attendees.
type ListEventTicketsResponse struct {
	Items      []*domain.TicketWithHolder `json:"items"`
	Pagination helpers.PaginationMeta     `json:"pagination"`
}

// EventController serves the operator-facing event registry.
type EventController struct {
	Logger  *slog.Logger
	Debug   bool
	Service domain.EventService
	Tickets domain.TicketService
}

func NewEventController(logger *slog.Logger, debug bool, svc domain.EventService, tickets domain.TicketService) *EventController {
	return &EventController{
		Logger:  logger,
		Debug:   debug,
		Service: svc,
		Tickets: tickets,
	}
}

func (c *EventController) fail(w http.ResponseWriter, r *http.Request, err error) {
	helpers.WriteServiceError(w, r, c.Logger, c.Debug, err)
}

// CreateEvent godoc
// @Summary Create an event
// @Description Create an event with its rundown. Status defaults to draft.
// @Tags admin-events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body EventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, rundowns := req.toDomain("")
	if err := c.Service.CreateEvent(r.Context(), event, rundowns); err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// ListEvents godoc
// @Summary List events
// @Tags admin-events
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name contains"
// @Param status query string false "draft, registration, ongoing or completed"
// @Param mode query string false "ticketing or barcode"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /admin/events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	q := r.URL.Query()
	filter := domain.EventFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Status: domain.EventStatus(q.Get("status")),
		Mode:   domain.AttendanceMode(q.Get("mode")),
	}
	list, total, err := c.Service.ListEvents(r.Context(), filter, params)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	if list == nil {
		list = []*domain.Event{}
	}
	meta := helpers.NewPaginationMeta(params, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventsResponse{Items: list, Pagination: meta})
}

// GetEvent godoc
// @Summary Get an event by ID
// @Description Returns the event with its rundown, including drafts.
// @Tags admin-events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventDetailSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	out, err := c.Service.GetEvent(r.Context(), r.PathValue("eventID"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, out)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Replaces the editable fields and the rundown. The status field is ignored.
// @Tags admin-events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param event body EventRequest true "Event data"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/events/{eventID} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, rundowns := req.toDomain(r.PathValue("eventID"))
	updated, err := c.Service.UpdateEvent(r.Context(), event, rundowns)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, updated)
}

// UpdateStatus godoc
// @Summary Move an event to another status
// @Description Statuses only move forward: draft, registration, ongoing, completed.
// @Tags admin-events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body UpdateStatusRequest true "New status"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: unprocessable"
// @Router /admin/events/{eventID}/status [patch]
func (c *EventController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateStatus(r.Context(), r.PathValue("eventID"), req.Status)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Tags admin-events
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 204
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.DeleteEvent(r.Context(), r.PathValue("eventID")); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportRundown godoc
// @Summary Import the rundown from Sessionize
// @Description Fetches the Sessionize schedule and replaces the event's rundown with its sessions.
// @Tags admin-events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param sessionizeID path string true "Sessionize event ID"
// @Success 200 {object} helpers.APIResponse "data contains the imported rundown"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/rundown/import/sessionize/{sessionizeID} [post]
func (c *EventController) ImportRundown(w http.ResponseWriter, r *http.Request) {
	rundowns, err := c.Service.ImportRundown(r.Context(), r.PathValue("eventID"), r.PathValue("sessionizeID"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rundowns)
}

// ListEventTickets godoc
// @Summary List ticket holders of an event
// @Tags admin-events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param search query string false "Holder name or email contains"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/events/{eventID}/attendees [get]
func (c *EventController) ListEventTickets(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	list, total, err := c.Tickets.ListEventTickets(r.Context(), r.PathValue("eventID"), strings.TrimSpace(r.URL.Query().Get("search")), params)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	if list == nil {
		list = []*domain.TicketWithHolder{}
	}
	meta := helpers.NewPaginationMeta(params, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventTicketsResponse{Items: list, Pagination: meta})
}
