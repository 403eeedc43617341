package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"

	"github.com/ChenteAlv/oh-sansi-back/internal/auth"
	"github.com/ChenteAlv/oh-sansi-back/internal/competitor"
	"github.com/ChenteAlv/oh-sansi-back/internal/config"
	"github.com/ChenteAlv/oh-sansi-back/internal/db"
	"github.com/ChenteAlv/oh-sansi-back/internal/enrollment"
	"github.com/ChenteAlv/oh-sansi-back/internal/health"
	"github.com/ChenteAlv/oh-sansi-back/internal/logger"
	"github.com/ChenteAlv/oh-sansi-back/internal/messaging"
	"github.com/ChenteAlv/oh-sansi-back/internal/metrics"
	"github.com/ChenteAlv/oh-sansi-back/internal/middleware"
	"github.com/ChenteAlv/oh-sansi-back/internal/user"
)

type App struct {
	config *config.Config
	router *gin.Engine
	server *http.Server
	logger *slog.Logger
	events messaging.Producer
}

func New() *App {
	slogLogger := logger.NewWithServiceContext(ServiceName, Version)

	// Set as default logger so slog.Info() uses JSON format
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env)

	app := &App{
		config: cfg,
		router: gin.New(),
		logger: slogLogger,
	}
	app.router.Use(gin.Recovery())
	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	database := db.New(cfg.Database)

	ctx := context.Background()
	err = db.RunMigrations(ctx, database,
		(*user.Role)(nil),
		(*user.User)(nil),
		(*competitor.Region)(nil),
		(*competitor.Province)(nil),
		(*competitor.School)(nil),
		(*competitor.Competitor)(nil),
		(*enrollment.Level)(nil),
		(*enrollment.Grade)(nil),
		(*enrollment.Category)(nil),
		(*enrollment.Area)(nil),
		(*enrollment.Call)(nil),
		(*enrollment.Tutor)(nil),
		(*enrollment.Enrollment)(nil),
		(*enrollment.TutorEnrollment)(nil),
		(*auth.RefreshToken)(nil),
	)
	if err != nil {
		log.Fatal("failed to run migrations:", err)
	}
	if err := db.SeedRoles(ctx, database, user.RoleCompetitor, user.RoleTutor); err != nil {
		log.Fatal("failed to seed roles:", err)
	}

	m, err := metrics.New(otel.Meter(ServiceName))
	if err != nil {
		slogLogger.Warn("failed to initialize metrics", "error", err)
		m = nil
	}

	app.events = newProducer(cfg.Messaging, slogLogger)

	// Health endpoints (no auth required)
	healthHandler := health.NewHandler(database)
	healthHandler.RegisterRoutes(app.router)

	// Repositories
	userRepo := user.NewRepository(database)
	competitorRepo := competitor.NewRepository(database)
	enrollmentRepo := enrollment.NewRepository(database)

	// Auth setup
	authRepo := auth.NewRepository(database)
	authService := auth.NewService(authRepo, userRepo)
	authHandler := auth.NewHandler(authService, slogLogger)
	authHandler.RegisterRoutes(app.router)

	// Competitor registration is public; everything else lives under /api.
	competitorService := competitor.NewService(competitorRepo, app.events, slogLogger)
	competitorHandler := competitor.NewHandler(competitorService, slogLogger, m)
	competitorHandler.RegisterRoutes(app.router)

	enrollmentService := enrollment.NewService(competitorRepo, enrollmentRepo)
	enrollmentHandler := enrollment.NewHandler(enrollmentService, slogLogger, m)

	api := app.router.Group("/api")
	api.Use(auth.Middleware(slogLogger))
	enrollmentHandler.RegisterRoutes(api)
	authHandler.RegisterProtectedRoutes(api)

	slogLogger.Info("application initialized successfully")

	return app
}

// newProducer builds the configured event producer. A broker outage at boot
// downgrades the service to run without eventing instead of failing.
func newProducer(cfg config.MessagingConfig, logger *slog.Logger) messaging.Producer {
	switch cfg.Backend {
	case "nats":
		producer, err := messaging.NewNATSProducer(cfg.NATS.URL, cfg.NATS.Subject, logger)
		if err != nil {
			logger.Warn("failed to initialize NATS producer", "error", err)
			return nil
		}
		return producer
	case "kafka":
		producer, err := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		if err != nil {
			logger.Warn("failed to initialize kafka producer", "error", err)
			return nil
		}
		return producer
	case "":
		logger.Info("messaging disabled")
		return nil
	default:
		logger.Warn("unknown messaging backend", "backend", cfg.Backend)
		return nil
	}
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")
	if a.events != nil {
		if err := a.events.Close(); err != nil {
			a.logger.Warn("failed to close event producer", "error", err)
		}
	}
	return a.server.Shutdown(ctx)
}
