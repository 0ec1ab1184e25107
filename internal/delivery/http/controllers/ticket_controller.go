package controllers

import (
	"log/slog"
	"net/http"

	h "eventattendance/internal/delivery/http/helpers"
	"eventattendance/internal/domain"
)

// TicketSuccessResponse is the success response envelope for POST /events/{eventID}/join.
type TicketSuccessResponse struct {
	Data  *domain.Ticket `json:"data"`
	Error *h.APIError    `json:"error"`
}

// ListMyTicketsResponse is the paginated response for GET /me/tickets.
type ListMyTicketsResponse struct {
	Items      []*domain.TicketWithEvent `json:"items"`
	Pagination h.PaginationMeta          `json:"pagination"`
}

// TicketController serves attendee ticket endpoints.
type TicketController struct {
	Logger  *slog.Logger
	Debug   bool
	Service domain.TicketService
	Users   domain.UserService
}

func NewTicketController(logger *slog.Logger, debug bool, svc domain.TicketService, users domain.UserService) *TicketController {
	return &TicketController{
		Logger:  logger,
		Debug:   debug,
		Service: svc,
		Users:   users,
	}
}

// JoinEvent godoc
// @Summary Join an event
// @Description Issues a ticket for a ticketing-mode event that is open for registration. A confirmation email is sent when possible.
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 201 {object} controllers.TicketSuccessResponse "data contains the issued ticket"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already registered or quota full)"
// @Failure 422 {object} helpers.APIResponse "error.code: unprocessable (registration closed or wrong mode)"
// @Router /events/{eventID}/join [post]
func (c *TicketController) JoinEvent(w http.ResponseWriter, r *http.Request) {
	holder, ok := requireIdentity(w, r, c.Users, c.Logger, c.Debug)
	if !ok {
		return
	}
	ticket, err := c.Service.IssueTicket(r.Context(), r.PathValue("eventID"), holder)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, c.Debug, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, ticket)
}

// ListMyTickets godoc
// @Summary List my tickets
// @Description Tickets for events that are not completed, newest first.
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /me/tickets [get]
func (c *TicketController) ListMyTickets(w http.ResponseWriter, r *http.Request) {
	holder, ok := requireIdentity(w, r, c.Users, c.Logger, c.Debug)
	if !ok {
		return
	}
	params := h.ParsePagination(r)
	list, total, err := c.Service.ListMyTickets(r.Context(), holder, params)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, c.Debug, err)
		return
	}
	if list == nil {
		list = []*domain.TicketWithEvent{}
	}
	meta := h.NewPaginationMeta(params, total)
	h.WriteJSONSuccess(w, http.StatusOK, ListMyTicketsResponse{Items: list, Pagination: meta})
}

// GetMyTicket godoc
// @Summary Get one of my tickets
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param ticketID path string true "Ticket ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains ticket and event"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /me/tickets/{ticketID} [get]
func (c *TicketController) GetMyTicket(w http.ResponseWriter, r *http.Request) {
	holder, ok := requireIdentity(w, r, c.Users, c.Logger, c.Debug)
	if !ok {
		return
	}
	out, err := c.Service.GetMyTicket(r.Context(), r.PathValue("ticketID"), holder)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, c.Debug, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, out)
}
