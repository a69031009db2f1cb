package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medibook/config"
	deliveryHttp "medibook/internal/delivery/http"
	"medibook/internal/delivery/http/handler"
	"medibook/internal/delivery/http/middleware"
	"medibook/internal/infrastructure/cache"
	"medibook/internal/infrastructure/database"
	"medibook/internal/repository"
	"medibook/internal/service"
	"medibook/internal/usecase"
	"medibook/pkg/jwt"
	"medibook/pkg/llm"
	"medibook/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	JWT         *jwt.JWTService
	Usecases    *Usecases
	Server      *http.Server
}

// Usecases is the wired application layer shared by the API and the workers.
type Usecases struct {
	Availability usecase.AvailabilityUsecase
	Appointment  usecase.AppointmentUsecase
	Doctor       usecase.DoctorUsecase
	Notification usecase.NotificationUsecase
	Reminder     usecase.ReminderUsecase
	Chat         usecase.ChatUsecase
	AuditLog     usecase.AuditLogUsecase
	Session      usecase.SessionUsecase
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	app.Log = setupLogger(cfg.Log)
	app.Log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, app.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	// Initialize Redis (optional)
	redisClient, err := cache.NewRedisClient(cfg.Redis, app.Log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	app.JWT = jwt.NewJWTService(cfg.JWT)
	app.Usecases = app.initializeUsecases()
	app.Server = app.initializeServer()

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(cfg config.LogConfig) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// notificationHub fans out across instances through Redis when it is configured.
func (app *App) notificationHub() service.NotificationHub {
	if app.RedisClient != nil {
		return service.NewRedisHub(app.RedisClient, app.Log)
	}
	return service.NewLocalHub()
}

func (app *App) initializeUsecases() *Usecases {
	db, log, cfg := app.DB, app.Log, app.Config

	// Initialize repositories
	profileRepo := repository.NewProfileRepository()
	doctorRepo := repository.NewDoctorRepository()
	ruleRepo := repository.NewAvailabilityRuleRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	notificationRepo := repository.NewNotificationRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	hub := app.notificationHub()
	auditService := service.NewAuditService(db, log, auditLogRepo)
	dispatcher := service.NewNotificationDispatcher(db, log, notificationRepo, profileRepo, hub)
	clock := usecase.NewClock(cfg.App.Location())

	availabilityUsecase := usecase.NewAvailabilityUsecase(db, log, ruleRepo, doctorRepo, appointmentRepo, auditService, clock)

	return &Usecases{
		Availability: availabilityUsecase,
		Appointment:  usecase.NewAppointmentUsecase(db, log, appointmentRepo, doctorRepo, availabilityUsecase, dispatcher, auditService, clock, cfg.Notification.Timeout),
		Doctor:       usecase.NewDoctorUsecase(db, log, doctorRepo, auditService),
		Notification: usecase.NewNotificationUsecase(db, log, notificationRepo, hub),
		Reminder:     usecase.NewReminderUsecase(db, log, appointmentRepo, dispatcher, auditService, clock),
		Chat:         usecase.NewChatUsecase(db, log, profileRepo, llm.NewFromConfig(cfg.LLM)),
		AuditLog:     usecase.NewAuditLogUsecase(db, log, auditLogRepo),
		Session:      usecase.NewSessionUsecase(db, log, profileRepo, app.RedisClient, app.JWT),
	}
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer() *http.Server {
	uc := app.Usecases

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(app.DB, app.RedisClient)
	sessionHandler := handler.NewSessionHandler(uc.Session)
	doctorHandler := handler.NewDoctorHandler(uc.Doctor, uc.Availability, customValidator)
	availabilityHandler := handler.NewAvailabilityHandler(uc.Availability, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(uc.Appointment, customValidator)
	notificationHandler := handler.NewNotificationHandler(uc.Notification, app.Log)
	chatHandler := handler.NewChatHandler(uc.Chat, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(uc.AuditLog)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(app.JWT, app.RedisClient)
	corsMiddleware := middleware.NewCORSMiddleware()
	loggingMiddleware := middleware.NewLoggingMiddleware(app.Log)

	// Initialize router
	router := deliveryHttp.NewRouter(
		healthHandler,
		sessionHandler,
		doctorHandler,
		availabilityHandler,
		appointmentHandler,
		notificationHandler,
		chatHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
		loggingMiddleware,
	)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", app.Config.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// RunReminders calls SendDueReminders every interval until ctx is done. The first run
// happens immediately.
func (app *App) RunReminders(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := app.Usecases.Reminder.SendDueReminders(ctx, time.Now()); err != nil {
			app.Log.Errorf("Reminder run failed: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
