package controllers

import (
	"log/slog"
	"net/http"

	"eventattendance/internal/delivery/http/helpers"
	"eventattendance/internal/delivery/http/middleware"
	"eventattendance/internal/domain"
)

// PublicEventResponse is the body of GET /public/events/{eventID}.
// IsRegistered is only true for an authenticated holder of a ticket.
type PublicEventResponse struct {
	Event        *domain.Event          `json:"event"`
	Rundowns     []*domain.EventRundown `json:"rundowns"`
	IsRegistered bool                   `json:"is_registered"`
}

// PublicEventSuccessResponse is the success response envelope for GET /public/events/{eventID}.
type PublicEventSuccessResponse struct {
	Data  PublicEventResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// PublicEventsSuccessResponse is the success response envelope for GET /public/events.
type PublicEventsSuccessResponse struct {
	Data  *domain.PublicEvents `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// PublicController serves the landing pages; no permission is required.
type PublicController struct {
	Logger  *slog.Logger
	Debug   bool
	Events  domain.EventService
	Tickets domain.TicketService
}

func NewPublicController(logger *slog.Logger, debug bool, events domain.EventService, tickets domain.TicketService) *PublicController {
	return &PublicController{
		Logger:  logger,
		Debug:   debug,
		Events:  events,
		Tickets: tickets,
	}
}

// ListPublicEvents godoc
// @Summary List public events
// @Description Ongoing events plus upcoming events open for registration, grouped by attendance mode.
// @Tags public
// @Produce json
// @Success 200 {object} controllers.PublicEventsSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /public/events [get]
func (c *PublicController) ListPublicEvents(w http.ResponseWriter, r *http.Request) {
	out, err := c.Events.ListPublicEvents(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, c.Debug, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, out)
}

// GetPublicEvent godoc
// @Summary Get a public event
// @Description Returns a non-draft event with its rundown. With a token, is_registered tells whether the caller holds a ticket.
// @Tags public
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.PublicEventSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /public/events/{eventID} [get]
func (c *PublicController) GetPublicEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	out, err := c.Events.GetPublicEvent(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, c.Debug, err)
		return
	}
	resp := PublicEventResponse{Event: out.Event, Rundowns: out.Rundowns}
	if userID, ok := middleware.UserIDFromContext(r.Context()); ok {
		resp.IsRegistered, err = c.Tickets.IsRegistered(r.Context(), eventID, userID)
		if err != nil {
			helpers.WriteServiceError(w, r, c.Logger, c.Debug, err)
			return
		}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, resp)
}

// ListCategories godoc
// @Summary List event categories
// @Tags public
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the categories"
// @Router /categories [get]
func (c *PublicController) ListCategories(w http.ResponseWriter, r *http.Request) {
	list, err := c.Events.ListCategories(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, c.Debug, err)
		return
	}
	if list == nil {
		list = []*domain.EventCategory{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}
