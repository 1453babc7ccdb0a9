package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"medical-appointment-booking/config"
	deliveryHttp "medical-appointment-booking/internal/delivery/http"
	"medical-appointment-booking/internal/delivery/http/handler"
	"medical-appointment-booking/internal/delivery/http/middleware"
	"medical-appointment-booking/internal/infrastructure/cache"
	"medical-appointment-booking/internal/infrastructure/database"
	"medical-appointment-booking/internal/repository"
	"medical-appointment-booking/internal/service"
	"medical-appointment-booking/internal/usecase"
	"medical-appointment-booking/pkg/jwt"
	"medical-appointment-booking/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
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

	setupLogger(cfg.App.Env)
	logrus.Info("Configuration loaded successfully")

	// Apply schema before gorm opens its pool
	if err := database.RunMigrations(cfg.DB); err != nil {
		return nil, err
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	server, authUsecase := initializeServer(cfg, db, redisClient)
	app.Server = server

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := authUsecase.EnsureAdmin(ctx, cfg.Admin); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to bootstrap admin: %w", err)
	}

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(env string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	if env == "development" {
		logrus.SetLevel(logrus.DebugLevel)
		return
	}
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*http.Server, usecase.AuthUsecase) {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)
	sessions := jwt.NewSessionStore(redisClient)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize booking services
	policy := service.NewBookingPolicy(cfg.Booking)
	doctorCache := service.NewRedisDoctorCache(redisClient, cfg.Cache.DoctorTTL)
	doctorDirectory := service.NewDoctorDirectory(db, log, doctorCache, doctorProfileRepo)
	availabilityChecker := service.NewAvailabilityChecker(db, log, policy, doctorDirectory, appointmentRepo)
	bookingValidator := service.NewBookingValidator(db, log, policy, availabilityChecker, appointmentRepo, customValidator, time.Now)
	transitions := service.NewStatusTransitionManager(cfg.Booking.CancellationCutoff())
	calendar := service.NewSlotCalendar(policy, time.Now)
	auditService := service.NewAuditService(log, auditLogRepo)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, doctorProfileRepo, patientProfileRepo, auditService, jwtService, sessions)
	doctorProfileUsecase := usecase.NewDoctorProfileUsecase(db, log, userRepo, doctorProfileRepo, doctorDirectory, auditService)
	patientProfileUsecase := usecase.NewPatientProfileUsecase(db, log, userRepo, patientProfileRepo, auditService)
	appointmentUsecase := usecase.NewAppointmentUsecase(
		db, log, policy, calendar, availabilityChecker, bookingValidator, transitions,
		auditService, appointmentRepo, patientProfileRepo, time.Now,
	)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo, policy.Location())

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorProfileUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	patientHandler := handler.NewPatientHandler(patientProfileUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, sessions, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.CORS)
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler, doctorHandler, appointmentHandler, patientHandler, auditLogHandler,
		authMiddleware, corsMiddleware, loggingMiddleware,
	)
	httpRouter := router.Setup()

	logrus.WithFields(logrus.Fields{
		"weekdays":    cfg.Booking.AllowedWeekdays,
		"window_days": cfg.Booking.AdvanceWindowDays,
		"timezone":    cfg.Booking.Location.String(),
	}).Info("Booking policy loaded")

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}, authUsecase
}

// shutdownGrace bounds how long in-flight requests get after a signal.
const shutdownGrace = 10 * time.Second

// Run serves until ctx is cancelled, then drains requests and closes the
// database and Redis pools.
func (app *App) Run(ctx context.Context) error {
	defer app.Close()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.WithFields(logrus.Fields{
			"addr": app.Server.Addr,
			"env":  app.Config.App.Env,
		}).Info("Server starting")
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logrus.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := app.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logrus.Info("Server shutdown complete")
	return nil
}

// Close releases the database and Redis pools. It is safe on a partly
// built App.
func (app *App) Close() {
	if app.DB != nil {
		if sqlDB, err := app.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
