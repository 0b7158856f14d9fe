package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	creditapp "github.com/shopkhata/backend/internal/application/credit"
	"github.com/shopkhata/backend/internal/domain/ledger"
	"github.com/shopkhata/backend/internal/infrastructure/auth"
	"github.com/shopkhata/backend/internal/infrastructure/config"
	"github.com/shopkhata/backend/internal/infrastructure/logger"
	"github.com/shopkhata/backend/internal/infrastructure/persistence"
	"github.com/shopkhata/backend/internal/interfaces/http/handler"
	"github.com/shopkhata/backend/internal/interfaces/http/middleware"
	"github.com/shopkhata/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting ShopKhata Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	creditSaleRepo := persistence.NewGormCreditSaleRepository(db.DB)
	creditPaymentRepo := persistence.NewGormCreditPaymentRepository(db.DB)
	commitmentRepo := persistence.NewGormPaymentCommitmentRepository(db.DB)
	reminderRepo := persistence.NewGormPaymentReminderRepository(db.DB)
	creditHistoryRepo := persistence.NewGormCustomerCreditHistoryRepository(db.DB)

	// Transaction scope for operations that touch the sale, its payments and
	// the customer balance atomically
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Balance reconciliation. Interest on overdue balances is disabled until
	// a tenant-level policy is introduced.
	reconciler := ledger.NewReconciler(ledger.NoInterest{})

	// Initialize application services
	issuanceService := creditapp.NewIssuanceService(txScope, reconciler, creditapp.IssuanceConfig{
		DefaultTermsInDays: cfg.Credit.DefaultTermsInDays,
	})
	paymentService := creditapp.NewPaymentService(txScope, reconciler)
	commitmentService := creditapp.NewCommitmentService(txScope, reconciler, log)
	reminderService := creditapp.NewReminderService(reminderRepo, creditSaleRepo, creditapp.ReminderConfig{
		LeadDays: cfg.Credit.ReminderLeadDays,
	})
	historyService := creditapp.NewHistoryService(creditHistoryRepo, creditSaleRepo, creditPaymentRepo, customerRepo, log)
	queryService := creditapp.NewQueryService(creditSaleRepo, creditPaymentRepo, commitmentRepo, customerRepo, reconciler)

	// JWT authentication
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize HTTP handlers
	creditHandler := handler.NewCreditHandler(issuanceService, paymentService, queryService)
	engagementHandler := handler.NewEngagementHandler(commitmentService, reminderService, historyService, queryService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Report JSON field names in binding errors
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. CORS - Handle cross-origin requests
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Liveness and readiness probes, outside API versioning and authentication
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	// Setup API routes with JWT authentication
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		Logger:     log,
	}))

	r.Register(creditHandler).
		Register(engagementHandler).
		Register(systemHandler)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
