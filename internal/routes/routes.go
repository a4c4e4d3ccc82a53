package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/stanstork/gpl-website-api/internal/authz"
	"github.com/stanstork/gpl-website-api/internal/handlers"
	"github.com/stanstork/gpl-website-api/internal/middleware"
	"github.com/stanstork/gpl-website-api/internal/models"
	"github.com/stanstork/gpl-website-api/internal/monitoring"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth             *handlers.AuthHandler
	Health           *handlers.HealthHandler
	Submissions      *handlers.SubmissionHandler
	Content          *handlers.ContentHandler
	AdminSubmissions *handlers.AdminSubmissionHandler
	AdminContent     *handlers.AdminContentHandler
	// MetricsHandler defaults to promhttp.Handler().
	MetricsHandler http.Handler
}

// NewRouter sets up the API routes.
func NewRouter(h Handlers, logger zerolog.Logger, metrics *monitoring.Metrics) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.Logging(logger, metrics))

	router.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)
	router.HandleFunc("/ping", handlers.Ping).Methods(http.MethodGet)

	metricsHandler := h.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	router.Handle("/metrics", metricsHandler).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	// Public forms
	api.HandleFunc("/contact", h.Submissions.Contact).Methods(http.MethodPost)
	api.HandleFunc("/service-request", h.Submissions.ServiceRequest).Methods(http.MethodPost)
	api.HandleFunc("/outage", h.Submissions.Outage).Methods(http.MethodPost)
	api.HandleFunc("/streetlight", h.Submissions.Streetlight).Methods(http.MethodPost)
	api.HandleFunc("/feedback", h.Submissions.Feedback).Methods(http.MethodPost)

	// Public content
	api.HandleFunc("/faqs", h.Content.FAQs).Methods(http.MethodGet)
	api.HandleFunc("/news", h.Content.News).Methods(http.MethodGet)
	api.HandleFunc("/news/{slug}", h.Content.NewsBySlug).Methods(http.MethodGet)
	api.HandleFunc("/emergency-contacts", h.Content.EmergencyContacts).Methods(http.MethodGet)

	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)

	api.Handle("/auth/me", h.Auth.JWTMiddleware(http.HandlerFunc(h.Auth.Me))).Methods(http.MethodGet)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(h.Auth.JWTMiddleware)
	admin.Use(authz.RequireRole(models.RoleAdmin))

	admin.HandleFunc("/dashboard", h.AdminSubmissions.Dashboard).Methods(http.MethodGet)
	admin.HandleFunc("/contacts", h.AdminSubmissions.ListContacts).Methods(http.MethodGet)
	admin.HandleFunc("/contacts/{id}", h.AdminSubmissions.UpdateContact).Methods(http.MethodPatch)
	admin.HandleFunc("/service-requests", h.AdminSubmissions.ListServiceRequests).Methods(http.MethodGet)
	admin.HandleFunc("/service-requests/{id}", h.AdminSubmissions.UpdateServiceRequest).Methods(http.MethodPatch)
	admin.HandleFunc("/feedback", h.AdminSubmissions.ListFeedback).Methods(http.MethodGet)
	admin.HandleFunc("/feedback/{id}", h.AdminSubmissions.UpdateFeedback).Methods(http.MethodPatch)

	admin.HandleFunc("/faqs", h.AdminContent.ListFAQs).Methods(http.MethodGet)
	admin.HandleFunc("/faqs", h.AdminContent.CreateFAQ).Methods(http.MethodPost)
	admin.HandleFunc("/faqs/{id}", h.AdminContent.UpdateFAQ).Methods(http.MethodPut)
	admin.HandleFunc("/faqs/{id}", h.AdminContent.DeleteFAQ).Methods(http.MethodDelete)
	admin.HandleFunc("/news", h.AdminContent.ListNews).Methods(http.MethodGet)
	admin.HandleFunc("/news", h.AdminContent.CreateNews).Methods(http.MethodPost)
	admin.HandleFunc("/news/{id}", h.AdminContent.UpdateNews).Methods(http.MethodPut)
	admin.HandleFunc("/news/{id}", h.AdminContent.DeleteNews).Methods(http.MethodDelete)
	admin.HandleFunc("/emergency-contacts", h.AdminContent.ListEmergencyContacts).Methods(http.MethodGet)
	admin.HandleFunc("/emergency-contacts", h.AdminContent.CreateEmergencyContact).Methods(http.MethodPost)
	admin.HandleFunc("/emergency-contacts/{id}", h.AdminContent.UpdateEmergencyContact).Methods(http.MethodPut)
	admin.HandleFunc("/emergency-contacts/{id}", h.AdminContent.DeleteEmergencyContact).Methods(http.MethodDelete)

	return router
}
