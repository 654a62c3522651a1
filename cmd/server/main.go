package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/aeroguide/aeroguide-api/internal/config"
	"github.com/aeroguide/aeroguide-api/internal/database"
	"github.com/aeroguide/aeroguide-api/internal/handlers"
	"github.com/aeroguide/aeroguide-api/internal/logging"
	"github.com/aeroguide/aeroguide-api/internal/metrics"
	"github.com/aeroguide/aeroguide-api/internal/middleware"
	"github.com/aeroguide/aeroguide-api/internal/routes"
	"github.com/aeroguide/aeroguide-api/internal/services"
	"github.com/aeroguide/aeroguide-api/internal/validation"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	baseHandler := logging.Setup(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" && cfg.DBPassword == "" {
		slog.Error("DATABASE_URL or DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.ServiceDB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.ServiceDB)
	logging.WithSink(baseHandler, pgLogHandler)

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.ServiceDB, cfg.LogRetentionDays, cleanupDone)

	// Google sign-in keys
	verifier, err := services.NewGoogleVerifier(cfg.GoogleJWKSURL, cfg.GoogleClientID, cfg.IsProduction())
	if err != nil {
		slog.Error("google verifier init failed", "error", err)
		os.Exit(1)
	}
	if cfg.GoogleClientID == "" {
		slog.Warn("GOOGLE_CLIENT_ID is not set; Google audience checks will fail in production")
	}

	// Services
	sessions := services.NewSessionManager(cfg.JWTSecret, cfg.JWTExpiresIn)
	authService := services.NewAuthService(database.ServiceDB, sessions, verifier, cfg.AdminEmailList())
	schoolService := services.NewSchoolService(database.DB, database.ServiceDB)
	reviewService := services.NewReviewService(database.DB, database.ServiceDB)
	inquiryService := services.NewInquiryService(database.DB, database.ServiceDB)
	contactService := services.NewContactService(database.ServiceDB)
	userService := services.NewUserService(database.ServiceDB)
	statsService := services.NewStatsService(database.ServiceDB)

	// Handlers
	validate := validation.New()
	appMetrics := metrics.New()
	h := routes.Handlers{
		Auth:    handlers.NewAuthHandler(authService, validate, appMetrics),
		School:  handlers.NewSchoolHandler(schoolService, validate, appMetrics),
		Review:  handlers.NewReviewHandler(reviewService, validate, appMetrics),
		Inquiry: handlers.NewInquiryHandler(inquiryService, validate, appMetrics),
		Contact: handlers.NewContactHandler(contactService, validate, appMetrics),
		Admin:   handlers.NewAdminHandler(statsService, userService, validate),
		Health:  handlers.NewHealthHandler(database.DB),
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(appMetrics.Middleware())
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	// Routes
	routes.Setup(app, cfg, sessions.Secret(), h, appMetrics)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	verifier.Close()
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)
	database.Close()

	slog.Info("server stopped")
}
