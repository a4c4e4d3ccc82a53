package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	h "github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stanstork/gpl-website-api/internal/cache"
	"github.com/stanstork/gpl-website-api/internal/config"
	"github.com/stanstork/gpl-website-api/internal/content"
	"github.com/stanstork/gpl-website-api/internal/handlers"
	"github.com/stanstork/gpl-website-api/internal/migration"
	"github.com/stanstork/gpl-website-api/internal/monitoring"
	"github.com/stanstork/gpl-website-api/internal/notification"
	"github.com/stanstork/gpl-website-api/internal/repository"
	"github.com/stanstork/gpl-website-api/internal/routes"
	"github.com/stanstork/gpl-website-api/internal/submission"

	_ "github.com/lib/pq" // PostgreSQL driver
)

type application struct {
	config        *config.Config
	db            *sql.DB
	contactsCache *cache.ContactsCache
	metrics       *monitoring.Metrics
	notifications *notification.Service
	logger        zerolog.Logger
}

func main() {
	// Set up structured, level-based logging.
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	logger := zerolog.New(consoleWriter).With().Timestamp().Logger()

	log.SetFlags(0)
	log.SetOutput(logger)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn().Err(err).Msg("Failed to read .env file")
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Initialize database connection.
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to the database")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to ping database")
	}

	// Run database migrations.
	if err := migration.Run(db, logger); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	app := &application{
		config:  cfg,
		db:      db,
		metrics: monitoring.NewMetrics(prometheus.DefaultRegisterer),
		logger:  logger,
	}

	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		app.contactsCache = cache.NewContactsCache(client, cfg.Redis.TTL)
		defer app.contactsCache.Close()
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Emergency contacts cache enabled")
	}

	app.notifications = app.initNotifications()

	// Initialize the HTTP router and middleware.
	router := app.initRouter()
	corsHandler := h.CORS(
		h.AllowedOrigins(cfg.AllowedOrigins),
		h.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		h.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Request-ID"}),
		h.ExposedHeaders([]string{"X-Request-ID", "X-Contacts-Source"}),
		h.AllowCredentials(),
	)(router)
	handler := h.RecoveryHandler(h.RecoveryLogger(log.Default()), h.PrintRecoveryStack(false))(corsHandler)

	// Start the HTTP server and handle graceful shutdown.
	app.startServer(handler)

	logger.Info().Msg("Application terminated.")
}

func (app *application) initNotifications() *notification.Service {
	notifiers := []notification.Notifier{notification.NewLogNotifier(app.logger)}
	if app.config.Email.Enabled {
		emailNotifier, err := notification.NewEmailNotifier(app.config.Email, app.logger)
		if err != nil {
			app.logger.Fatal().Err(err).Msg("failed to configure staff email notifier")
		}
		notifiers = append(notifiers, emailNotifier)
	}
	return notification.NewService(app.logger, notifiers...)
}

// initRouter sets up all HTTP handlers and returns the router.
func (app *application) initRouter() http.Handler {
	// Repositories
	userRepo := repository.NewUserRepository(app.db)
	contactRepo := repository.NewContactRepository(app.db)
	serviceRequestRepo := repository.NewServiceRequestRepository(app.db)
	feedbackRepo := repository.NewFeedbackRepository(app.db)
	faqRepo := repository.NewFAQRepository(app.db)
	newsRepo := repository.NewNewsRepository(app.db)
	emergencyRepo := repository.NewEmergencyContactRepository(app.db)

	// Interfaces stay nil when redis is off.
	var snapshot content.ContactsSnapshot
	var invalidator handlers.ContactsInvalidator
	checks := []handlers.HealthCheck{{Name: "database", Check: app.db.PingContext}}
	if app.contactsCache != nil {
		snapshot = app.contactsCache
		invalidator = app.contactsCache
		checks = append(checks, handlers.HealthCheck{Name: "redis", Check: app.contactsCache.Ping})
	}

	pipeline := submission.NewPipeline(submission.Dependencies{
		Contacts:        contactRepo,
		ServiceRequests: serviceRequestRepo,
		Feedback:        feedbackRepo,
		Alerts:          app.notifications,
		Metrics:         app.metrics,
		Hotline:         app.config.Emergency.Hotline,
	}, app.logger)

	contentService := content.NewService(content.Dependencies{
		FAQs:              faqRepo,
		News:              newsRepo,
		EmergencyContacts: emergencyRepo,
		Snapshot:          snapshot,
		Metrics:           app.metrics,
	}, content.Config{
		FAQPageSize:      app.config.Content.FAQPageSize,
		NewsDefaultLimit: app.config.Content.NewsDefaultLimit,
		NewsMaxLimit:     app.config.Content.NewsMaxLimit,
	}, app.logger)

	return routes.NewRouter(routes.Handlers{
		Auth:             handlers.NewAuthHandler(userRepo, app.config.JWTSecret, app.config.TokenTTL, app.logger),
		Health:           handlers.NewHealthHandler(app.logger, checks...),
		Submissions:      handlers.NewSubmissionHandler(pipeline, app.logger),
		Content:          handlers.NewContentHandler(contentService, app.logger),
		AdminSubmissions: handlers.NewAdminSubmissionHandler(contactRepo, serviceRequestRepo, feedbackRepo, app.logger),
		AdminContent:     handlers.NewAdminContentHandler(faqRepo, newsRepo, emergencyRepo, invalidator, app.logger),
	}, app.logger, app.metrics)
}

// startServer launches the HTTP server and handles graceful shutdown.
func (app *application) startServer(handler http.Handler) {
	server := &http.Server{
		Addr:              ":" + app.config.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for server errors
	serverErrCh := make(chan error, 1)
	go func() {
		app.logger.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	// Wait for an interrupt signal or a server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-quit:
		app.logger.Info().Msgf("Received signal: %s. Shutting down...", sig)
	case err := <-serverErrCh:
		app.logger.Error().Err(err).Msg("Server error occurred")
	}

	// Gracefully shut down the HTTP server.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		app.logger.Error().Err(err).Msg("HTTP server shutdown error")
	} else {
		app.logger.Info().Msg("HTTP server shutdown complete.")
	}

	// Let in-flight staff alerts finish.
	app.logger.Info().Msg("Waiting for pending notifications...")
	app.notifications.Wait()
	app.logger.Info().Msg("Notifications drained.")
}
