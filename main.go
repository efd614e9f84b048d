package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nnish16/Tourist-Safety/internal/audit"
	"github.com/nnish16/Tourist-Safety/internal/classify"
	"github.com/nnish16/Tourist-Safety/internal/config"
	"github.com/nnish16/Tourist-Safety/internal/engine"
	"github.com/nnish16/Tourist-Safety/internal/evidence"
	"github.com/nnish16/Tourist-Safety/internal/handler"
	"github.com/nnish16/Tourist-Safety/internal/harden"
	"github.com/nnish16/Tourist-Safety/internal/inference"
	"github.com/nnish16/Tourist-Safety/internal/middleware"
	"github.com/nnish16/Tourist-Safety/internal/notify"
	"github.com/nnish16/Tourist-Safety/internal/pdf"
	"github.com/nnish16/Tourist-Safety/internal/scheduler"
	"github.com/nnish16/Tourist-Safety/internal/security"
	"github.com/nnish16/Tourist-Safety/internal/stream"
	"github.com/nnish16/Tourist-Safety/internal/triage"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize Zap logger
	var logger *zap.Logger
	if cfg.Server.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded successfully",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	// Initialize the optional audit database. Without one, audit entries
	// go to structured logs only.
	var auditSink audit.Sink = audit.NewNopSink(logger)
	var pool *pgxpool.Pool
	if cfg.Audit.DatabaseURL != "" {
		poolCfg, err := pgxpool.ParseConfig(cfg.Audit.DatabaseURL)
		if err != nil {
			logger.Fatal("Failed to parse audit database URL", zap.Error(err))
		}
		poolCfg.MaxConns = int32(cfg.Audit.MaxConns)
		poolCfg.MaxConnLifetime = cfg.Audit.ConnMaxLifetime

		pool, err = pgxpool.NewWithConfig(context.Background(), poolCfg)
		if err != nil {
			logger.Fatal("Failed to connect to audit database", zap.Error(err))
		}
		defer pool.Close()

		if err := pool.Ping(context.Background()); err != nil {
			logger.Fatal("Failed to ping audit database", zap.Error(err))
		}
		logger.Info("Successfully connected to audit database")
		auditSink = audit.NewPostgresSink(pool, logger)
	}

	// Initialize the optional blob evidence store
	var evidenceStore evidence.Store = evidence.NopStore{}
	if cfg.Evidence.AccountName != "" {
		blobStore, err := evidence.NewBlobStore(
			cfg.Evidence.AccountName,
			cfg.Evidence.AccountKey,
			cfg.Evidence.Container,
			logger,
		)
		if err != nil {
			logger.Fatal("Failed to initialize evidence blob store", zap.Error(err))
		}
		evidenceStore = blobStore
		logger.Info("Evidence blob store initialized",
			zap.String("container", cfg.Evidence.Container),
		)
	}

	// Initialize the inference client
	client, err := inference.NewGeminiClient(
		cfg.Inference.Endpoint,
		cfg.Inference.APIKey,
		cfg.Inference.Model,
		cfg.Inference.Timeout,
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to initialize inference client", zap.Error(err))
	}

	// Initialize core services
	hardener := harden.New(logger)
	notifier := notify.NewService(cfg.Engine.NotificationTTL, nil, logger)
	defer notifier.Close()

	hub := stream.NewHub(logger)
	defer hub.Close()

	classifier := classify.NewService(client, hardener, cfg.Engine.ClassificationTTL, nil, logger)

	eng := engine.NewEngine(
		triage.NewPipeline(client, hardener, logger),
		client,
		hardener,
		notifier,
		hub,
		auditSink,
		evidenceStore,
		nil,
		logger,
	)

	// Optional identity sealing for disclosure audit entries
	if cfg.Security.IdentitySealKey != "" {
		sealer, err := security.NewEncryptor([]byte(cfg.Security.IdentitySealKey))
		if err != nil {
			logger.Fatal("Failed to initialize identity sealer", zap.Error(err))
		}
		eng.SetIdentitySealer(sealer)
		logger.Info("Identity sealing enabled for disclosure audit entries")
	}

	poller := scheduler.NewPoller(eng, classifier, cfg.Engine.PollInterval, logger)
	defer poller.Stop()

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	r := gin.New()

	// Add recovery middleware (must be first)
	r.Use(middleware.RecoveryMiddleware(logger))

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Configure appropriately for production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add request ID middleware
	r.Use(middleware.RequestIDMiddleware())

	// Add request logging middleware
	r.Use(middleware.RequestLoggingMiddleware(logger))

	// Add error logging middleware
	r.Use(middleware.ErrorLoggingMiddleware(logger))

	// Register API handlers
	handler.RegisterRoutes(r, handler.Handlers{
		Subjects:      handler.NewSubjectHandler(eng, classifier, poller, logger),
		Incidents:     handler.NewIncidentHandler(eng, pdf.NewPDFGenerator(logger), logger),
		Notifications: handler.NewNotificationHandler(notifier, logger),
		Assist:        handler.NewAssistHandler(eng, logger),
		Stream:        hub.ServeWS,
	})

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	poller.Stop()
	logger.Info("Server exited")
}
