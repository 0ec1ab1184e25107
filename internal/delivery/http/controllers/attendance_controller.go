package controllers

import (
	"log/slog"
	"net/http"

	h "eventattendance/internal/delivery/http/helpers"
	"eventattendance/internal/delivery/http/middleware"
	"eventattendance/internal/domain"
)

const (
	scanSuccessMessage    = "Check-in successful"
	checkInSuccessMessage = "Your attendance has been recorded"
)

// ScanRequest is the request body for POST /admin/events/{eventID}/scan.
type ScanRequest struct {
	TicketCode string `json:"ticket_code" validate:"required,max=255"`
}

// ScanResponse is returned to the scanner after a ticket is redeemed.
type ScanResponse struct {
	Message      string             `json:"message"`
	AttendeeName string             `json:"attendee_name"`
	Attendance   *domain.Attendance `json:"attendance"`
}

// ScanSuccessResponse is the success response envelope for POST /admin/events/{eventID}/scan.
type ScanSuccessResponse struct {
	Data  ScanResponse `json:"data"`
	Error *h.APIError  `json:"error"`
}

// CheckInRequest is the request body for POST /check-in. Latitude and longitude
// come from the device's geolocation when the user shares it.
type CheckInRequest struct {
	Code          string   `json:"code" validate:"required,max=255"`
	ScanID        string   `json:"scan_id" validate:"omitempty,max=255"`
	IsGuest       bool     `json:"is_guest"`
	Name          string   `json:"name" validate:"omitempty,max=255"`
	InstitutionID *string  `json:"institution_id"`
	Latitude      *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude     *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

func (c CheckInRequest) toDomain() domain.CheckInRequest {
	return domain.CheckInRequest{
		Code:          c.Code,
		ScanID:        c.ScanID,
		IsGuest:       c.IsGuest,
		Name:          c.Name,
		InstitutionID: c.InstitutionID,
		Latitude:      c.Latitude,
		Longitude:     c.Longitude,
	}
}

// CheckInResponse is the body of a successful POST /check-in.
type CheckInResponse struct {
	Message    string             `json:"message"`
	Attendance *domain.Attendance `json:"attendance"`
}

// CheckInSuccessResponse is the success response envelope for POST /check-in.
type CheckInSuccessResponse struct {
	Data  CheckInResponse `json:"data"`
	Error *h.APIError     `json:"error"`
}

// ScanStatusSuccessResponse is the success response envelope for GET .../scan-status.
type ScanStatusSuccessResponse struct {
	Data  *domain.ScanStatus `json:"data"`
	Error *h.APIError        `json:"error"`
}

// ListAttendanceResponse is the paginated response for GET /admin/events/{eventID}/attendance.
type ListAttendanceResponse struct {
	Items      []*domain.Attendance `json:"items"`
	Pagination h.PaginationMeta     `json:"pagination"`
}

// ListMyAttendanceResponse is the paginated response for GET /me/attendance.
type ListMyAttendanceResponse struct {
	Items      []*domain.AttendanceWithEvent `json:"items"`
	Pagination h.PaginationMeta              `json:"pagination"`
}

// AttendanceController serves the scanner, the check-in form and attendance history.
type AttendanceController struct {
	Logger  *slog.Logger
	Debug   bool
	Service domain.AttendanceService
	Users   domain.UserService
}

func NewAttendanceController(logger *slog.Logger, debug bool, svc domain.AttendanceService, users domain.UserService) *AttendanceController {
	return &AttendanceController{
		Logger:  logger,
		Debug:   debug,
		Service: svc,
		Users:   users,
	}
}

// ScanTicket godoc
// @Summary Redeem a scanned ticket
// @Description Records attendance for the ticket code read by the operator's scanner. A repeated scan returns 409 with the holder's name in error.details.attendee_name.
// @Tags scanner
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body ScanRequest true "Scanned ticket code"
// @Success 200 {object} controllers.ScanSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 422 {object} helpers.APIResponse "error.code: unprocessable"
// @Router /admin/events/{eventID}/scan [post]
func (c *AttendanceController) ScanTicket(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Service.RedeemTicket(r.Context(), r.PathValue("eventID"), req.TicketCode)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, c.Debug, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, ScanResponse{
		Message:      scanSuccessMessage,
		AttendeeName: res.AttendeeName,
		Attendance:   res.Attendance,
	})
}

// ScanStatus godoc
// @Summary Poll a displayed code
// @Description Reports whether the dynamic code shown on a presenter screen has been used. Never writes.
// @Tags scanner
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param scan_id query string true "Displayed scan value"
// @Success 200 {object} controllers.ScanStatusSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Router /admin/events/{eventID}/scan-status [get]
func (c *AttendanceController) ScanStatus(w http.ResponseWriter, r *http.Request) {
	status, err := c.Service.ScanStatus(r.Context(), r.PathValue("eventID"), r.URL.Query().Get("scan_id"))
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, c.Debug, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, status)
}

// GetCheckIn godoc
// @Summary Resolve a check-in code
// @Description Returns what the check-in form needs for a static code: the event, the label and the institution list. With a token, already_checked_in reports a prior check-in.
// @Tags check-in
// @Produce json
// @Param code query string true "Static QR code"
// @Success 200 {object} helpers.APIResponse "data contains the check-in context"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: unprocessable"
// @Router /check-in [get]
func (c *AttendanceController) GetCheckIn(w http.ResponseWriter, r *http.Request) {
	actor, err := currentIdentity(r, c.Users)
	if err != nil {
		writeIdentityError(w, r, c.Logger, c.Debug, err)
		return
	}
	out, err := c.Service.GetCheckInContext(r.Context(), r.URL.Query().Get("code"), actor)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, c.Debug, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, out)
}

// CheckIn godoc
// @Summary Check in with a scanned code
// @Description Records a barcode-mode attendance. Signed-in users check in as themselves; anyone else must check in as a guest with a name.
// @Tags check-in
// @Accept json
// @Produce json
// @Param body body CheckInRequest true "Check-in data"
// @Success 201 {object} controllers.CheckInSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 422 {object} helpers.APIResponse "error.code: unprocessable"
// @Router /check-in [post]
func (c *AttendanceController) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req CheckInRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, err := currentIdentity(r, c.Users)
	if err != nil {
		writeIdentityError(w, r, c.Logger, c.Debug, err)
		return
	}
	attendance, err := c.Service.CheckIn(r.Context(), req.toDomain(), actor)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, c.Debug, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, CheckInResponse{Message: checkInSuccessMessage, Attendance: attendance})
}

// ListEventAttendance godoc
// @Summary List an event's attendance
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/events/{eventID}/attendance [get]
func (c *AttendanceController) ListEventAttendance(w http.ResponseWriter, r *http.Request) {
	params := h.ParsePagination(r)
	list, total, err := c.Service.ListEventAttendance(r.Context(), r.PathValue("eventID"), params)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, c.Debug, err)
		return
	}
	if list == nil {
		list = []*domain.Attendance{}
	}
	meta := h.NewPaginationMeta(params, total)
	h.WriteJSONSuccess(w, http.StatusOK, ListAttendanceResponse{Items: list, Pagination: meta})
}

// ListMyAttendance godoc
// @Summary List my attendance history
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /me/attendance [get]
func (c *AttendanceController) ListMyAttendance(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := h.ParsePagination(r)
	list, total, err := c.Service.ListMyAttendance(r.Context(), userID, params)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, c.Debug, err)
		return
	}
	if list == nil {
		list = []*domain.AttendanceWithEvent{}
	}
	meta := h.NewPaginationMeta(params, total)
	h.WriteJSONSuccess(w, http.StatusOK, ListMyAttendanceResponse{Items: list, Pagination: meta})
}
