package http

import (
	"net/http"

	"medibook/internal/delivery/http/handler"
	"medibook/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	healthHandler       *handler.HealthHandler
	sessionHandler      *handler.SessionHandler
	doctorHandler       *handler.DoctorHandler
	availabilityHandler *handler.AvailabilityHandler
	appointmentHandler  *handler.AppointmentHandler
	notificationHandler *handler.NotificationHandler
	chatHandler         *handler.ChatHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	loggingMiddleware   *middleware.LoggingMiddleware
}

func NewRouter(
	healthHandler *handler.HealthHandler,
	sessionHandler *handler.SessionHandler,
	doctorHandler *handler.DoctorHandler,
	availabilityHandler *handler.AvailabilityHandler,
	appointmentHandler *handler.AppointmentHandler,
	notificationHandler *handler.NotificationHandler,
	chatHandler *handler.ChatHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		healthHandler:       healthHandler,
		sessionHandler:      sessionHandler,
		doctorHandler:       doctorHandler,
		availabilityHandler: availabilityHandler,
		appointmentHandler:  appointmentHandler,
		notificationHandler: notificationHandler,
		chatHandler:         chatHandler,
		auditLogHandler:     auditLogHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
		loggingMiddleware:   loggingMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health checks (public)
	api.HandleFunc("/health", r.healthHandler.Live).Methods(http.MethodGet)
	api.HandleFunc("/health/ready", r.healthHandler.Ready).Methods(http.MethodGet)

	// Everything below requires a bearer token
	protected := api.PathPrefix("").Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	protected.HandleFunc("/auth/me", r.sessionHandler.GetCurrentUser).Methods(http.MethodGet)
	protected.HandleFunc("/auth/logout", r.sessionHandler.Logout).Methods(http.MethodPost)

	// Doctor directory (any role)
	protected.HandleFunc("/doctors", r.doctorHandler.SearchDoctors).Methods(http.MethodGet)
	protected.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	protected.HandleFunc("/doctors/{id}/slots", r.doctorHandler.GetSlots).Methods(http.MethodGet)

	// Doctor self-service
	doctor := protected.PathPrefix("/doctor").Subrouter()
	doctor.Use(middleware.RequireDoctor)
	doctor.HandleFunc("/profile", r.doctorHandler.UpdateSelfProfile).Methods(http.MethodPut)
	doctor.HandleFunc("/availability", r.availabilityHandler.ListRules).Methods(http.MethodGet)
	doctor.HandleFunc("/availability", r.availabilityHandler.CreateRule).Methods(http.MethodPost)
	doctor.HandleFunc("/availability/{id}", r.availabilityHandler.UpdateRule).Methods(http.MethodPatch)
	doctor.HandleFunc("/availability/{id}", r.availabilityHandler.DeleteRule).Methods(http.MethodDelete)
	doctor.HandleFunc("/schedule", r.appointmentHandler.Schedule).Methods(http.MethodGet)
	doctor.HandleFunc("/events", r.appointmentHandler.CreatePersonalEvent).Methods(http.MethodPost)

	// Appointments
	patientOnly := middleware.RequirePatient
	doctorOnly := middleware.RequireDoctor
	protected.Handle("/appointments", patientOnly(http.HandlerFunc(r.appointmentHandler.Book))).Methods(http.MethodPost)
	protected.Handle("/appointments", patientOnly(http.HandlerFunc(r.appointmentHandler.ListMine))).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}", r.appointmentHandler.Get).Methods(http.MethodGet)
	protected.Handle("/appointments/{id}/confirm", doctorOnly(http.HandlerFunc(r.appointmentHandler.Confirm))).Methods(http.MethodPost)
	protected.Handle("/appointments/{id}/complete", doctorOnly(http.HandlerFunc(r.appointmentHandler.Complete))).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{id}/cancel", r.appointmentHandler.Cancel).Methods(http.MethodPost)

	// Notifications
	protected.HandleFunc("/notifications", r.notificationHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/unread-count", r.notificationHandler.UnreadCount).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/read-all", r.notificationHandler.MarkAllRead).Methods(http.MethodPost)
	protected.HandleFunc("/notifications/ws", r.notificationHandler.Stream).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/{id}/read", r.notificationHandler.MarkRead).Methods(http.MethodPost)
	protected.HandleFunc("/notifications/{id}", r.notificationHandler.Delete).Methods(http.MethodDelete)

	protected.HandleFunc("/chat", r.chatHandler.Chat).Methods(http.MethodPost)

	protected.HandleFunc("/audit-logs", r.auditLogHandler.ListMine).Methods(http.MethodGet)
	protected.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	r.router.Use(r.loggingMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}
