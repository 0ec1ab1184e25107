package controllers

import (
	"log/slog"
	"net/http"

	h "eventattendance/internal/delivery/http/helpers"
	"eventattendance/internal/domain"
)

// CreateStaticQRRequest is the request body for POST /admin/events/{eventID}/static-qrs.
type CreateStaticQRRequest struct {
	Label string `json:"label" validate:"required,max=255"`
}

// StaticQRSuccessResponse is the success response envelope for a created static code.
type StaticQRSuccessResponse struct {
	Data  *domain.StaticQR `json:"data"`
	Error *h.APIError      `json:"error"`
}

type StaticQRController struct {
	Logger  *slog.Logger
	Debug   bool
	Service domain.StaticQRService
}

func NewStaticQRController(logger *slog.Logger, debug bool, svc domain.StaticQRService) *StaticQRController {
	return &StaticQRController{Logger: logger, Debug: debug, Service: svc}
}

// ListStaticQRs godoc
// @Summary List static codes of an event
// @Tags static-qrs
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the static codes"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/events/{eventID}/static-qrs [get]
func (c *StaticQRController) ListStaticQRs(w http.ResponseWriter, r *http.Request) {
	list, err := c.Service.ListByEvent(r.Context(), r.PathValue("eventID"))
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, c.Debug, err)
		return
	}
	if list == nil {
		list = []*domain.StaticQR{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, list)
}

// CreateStaticQR godoc
// @Summary Create a static code
// @Description Creates a printable check-in code for a barcode-mode event.
// @Tags static-qrs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body CreateStaticQRRequest true "Label"
// @Success 201 {object} controllers.StaticQRSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: unprocessable"
// @Router /admin/events/{eventID}/static-qrs [post]
func (c *StaticQRController) CreateStaticQR(w http.ResponseWriter, r *http.Request) {
	var req CreateStaticQRRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	qr, err := c.Service.Create(r.Context(), r.PathValue("eventID"), req.Label)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, c.Debug, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, qr)
}

// DeleteStaticQR godoc
// @Summary Delete a static code
// @Tags static-qrs
// @Security BearerAuth
// @Param staticQrID path string true "Static QR ID (UUID)"
// @Success 204
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/static-qrs/{staticQrID} [delete]
func (c *StaticQRController) DeleteStaticQR(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.Delete(r.Context(), r.PathValue("staticQrID")); err != nil {
		h.WriteServiceError(w, r, c.Logger, c.Debug, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
