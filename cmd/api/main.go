package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"eventattendance/config"
	_ "eventattendance/docs"
	"eventattendance/internal/adapters/auth"
	"eventattendance/internal/adapters/email"
	"eventattendance/internal/adapters/metrics"
	"eventattendance/internal/adapters/ratelimit"
	"eventattendance/internal/adapters/sessionize"
	deliveryhttp "eventattendance/internal/delivery/http"
	"eventattendance/internal/delivery/http/controllers"
	"eventattendance/internal/delivery/http/middleware"
	"eventattendance/internal/domain"
	"eventattendance/internal/repository/postgres"
	"eventattendance/internal/services"
)

const shutdownTimeout = 10 * time.Second

// @title Event Attendance API
// @version 1.0
// @description Event registry, ticket issuance and attendance check-in.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), cfg.ContextTimeout)
	err = db.PingContext(pingCtx)
	cancelPing()
	if err != nil {
		log.Fatalf("ping database: %v", err)
	}

	limiter := domain.RateLimiter(ratelimit.NewNoopLimiter())
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("parse REDIS_URL: %v", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		limiter = ratelimit.NewRedisLimiter(rdb, "checkin", cfg.RateLimitPerMinute, time.Minute)
	} else {
		logger.Warn("REDIS_URL not set, rate limiting disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewPrometheus(registry)

	mailer, err := email.NewMailer(cfg.Mail)
	if err != nil {
		log.Fatalf("init mailer: %v", err)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		log.Fatalf("load email templates: %v", err)
	}
	fetcher := sessionize.NewHTTPFetcher(&http.Client{Timeout: 15 * time.Second}, sessionize.WithLocation(cfg.ScheduleLocation))
	hasher := auth.NewBcryptHasher(0)
	tokens := auth.NewJWT(cfg.JWTSecret)

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)
	attendanceRepo := postgres.NewAttendanceRepository(db)
	staticQRRepo := postgres.NewStaticQRRepository(db)
	institutionRepo := postgres.NewInstitutionRepository(db)

	// Services
	timeout := cfg.ContextTimeout
	authService := services.NewAuthService(userRepo, roleRepo, hasher, tokens, cfg.JWTExpiry, timeout)
	userService := services.NewUserService(userRepo, roleRepo, timeout)
	authorizer := services.NewAuthorizer(roleRepo, timeout)
	eventService := services.NewEventService(eventRepo, categoryRepo, fetcher, timeout)
	emailService := services.NewEmailService(mailer, renderer)
	ticketService := services.NewTicketService(eventRepo, ticketRepo, emailService, recorder, logger, timeout)
	attendanceService := services.NewAttendanceService(eventRepo, ticketRepo, attendanceRepo, staticQRRepo, institutionRepo, recorder, timeout)
	staticQRService := services.NewStaticQRService(eventRepo, staticQRRepo, timeout)

	router := deliveryhttp.NewRouter(deliveryhttp.RouterDeps{
		Logger:     logger,
		Verifier:   tokens,
		Authorizer: authorizer,
		Limiter:    limiter,
		Metrics:    promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Auth:       controllers.NewAuthController(logger, cfg.Debug, authService, userService),
		Public:     controllers.NewPublicController(logger, cfg.Debug, eventService, ticketService),
		Events:     controllers.NewEventController(logger, cfg.Debug, eventService, ticketService),
		Tickets:    controllers.NewTicketController(logger, cfg.Debug, ticketService, userService),
		Attendance: controllers.NewAttendanceController(logger, cfg.Debug, attendanceService, userService),
		StaticQRs:  controllers.NewStaticQRController(logger, cfg.Debug, staticQRService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, router)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}
