package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventattendance/internal/delivery/http/controllers"
	"eventattendance/internal/delivery/http/middleware"
	"eventattendance/internal/domain"
)

// RouterDeps carries the controllers and cross-cutting collaborators the routes need.
type RouterDeps struct {
	Logger     *slog.Logger
	Verifier   domain.TokenVerifier
	Authorizer domain.Authorizer
	Limiter    domain.RateLimiter
	// Metrics serves GET /metrics; nil leaves the route unregistered.
	Metrics http.Handler

	Auth       *controllers.AuthController
	Public     *controllers.PublicController
	Events     *controllers.EventController
	Tickets    *controllers.TicketController
	Attendance *controllers.AttendanceController
	StaticQRs  *controllers.StaticQRController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(d RouterDeps) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(d.Verifier, d.Logger)
	optional := middleware.OptionalAuth(d.Verifier, d.Logger)
	limited := middleware.RateLimit(d.Limiter, d.Logger)
	can := func(perm domain.Permission, next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequirePermission(d.Authorizer, perm, d.Logger)(next))
	}

	// Auth
	mux.HandleFunc("POST /auth/signup", d.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", d.Auth.Login)
	mux.HandleFunc("GET /me", auth(d.Auth.GetMe))

	// Public
	mux.HandleFunc("GET /public/events", d.Public.ListPublicEvents)
	mux.HandleFunc("GET /public/events/{eventID}", optional(d.Public.GetPublicEvent))
	mux.HandleFunc("GET /categories", d.Public.ListCategories)

	// Event registry
	mux.HandleFunc("GET /admin/events", can(domain.PermViewEvents, d.Events.ListEvents))
	mux.HandleFunc("POST /admin/events", can(domain.PermCreateEvents, d.Events.CreateEvent))
	mux.HandleFunc("GET /admin/events/{eventID}", can(domain.PermViewEvents, d.Events.GetEvent))
	mux.HandleFunc("PUT /admin/events/{eventID}", can(domain.PermEditEvents, d.Events.UpdateEvent))
	mux.HandleFunc("DELETE /admin/events/{eventID}", can(domain.PermDeleteEvents, d.Events.DeleteEvent))
	mux.HandleFunc("PATCH /admin/events/{eventID}/status", can(domain.PermEditEvents, d.Events.UpdateStatus))
	mux.HandleFunc("POST /admin/events/{eventID}/rundown/import/sessionize/{sessionizeID}", can(domain.PermEditEvents, d.Events.ImportRundown))
	mux.HandleFunc("GET /admin/events/{eventID}/attendees", can(domain.PermViewEvents, d.Events.ListEventTickets))

	// Scanner and attendance
	mux.HandleFunc("POST /admin/events/{eventID}/scan", can(domain.PermScanAttendance, d.Attendance.ScanTicket))
	mux.HandleFunc("GET /admin/events/{eventID}/scan-status", can(domain.PermPresentQRCode, limited(d.Attendance.ScanStatus)))
	mux.HandleFunc("GET /admin/events/{eventID}/attendance", can(domain.PermViewAttendance, d.Attendance.ListEventAttendance))
	mux.HandleFunc("GET /check-in", optional(limited(d.Attendance.GetCheckIn)))
	mux.HandleFunc("POST /check-in", optional(limited(d.Attendance.CheckIn)))
	mux.HandleFunc("GET /me/attendance", auth(d.Attendance.ListMyAttendance))

	// Static codes
	mux.HandleFunc("GET /admin/events/{eventID}/static-qrs", can(domain.PermManageStaticQRs, d.StaticQRs.ListStaticQRs))
	mux.HandleFunc("POST /admin/events/{eventID}/static-qrs", can(domain.PermManageStaticQRs, d.StaticQRs.CreateStaticQR))
	mux.HandleFunc("DELETE /admin/static-qrs/{staticQrID}", can(domain.PermManageStaticQRs, d.StaticQRs.DeleteStaticQR))

	// Tickets
	mux.HandleFunc("POST /events/{eventID}/join", can(domain.PermJoinActivities, d.Tickets.JoinEvent))
	mux.HandleFunc("GET /me/tickets", auth(d.Tickets.ListMyTickets))
	mux.HandleFunc("GET /me/tickets/{ticketID}", auth(d.Tickets.GetMyTicket))

	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics)
	}

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
