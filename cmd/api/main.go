package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wormos/shipops-api/docs"
	"github.com/wormos/shipops-api/internal/auth"
	"github.com/wormos/shipops-api/internal/config"
	"github.com/wormos/shipops-api/internal/database"
	"github.com/wormos/shipops-api/internal/http/handler"
	"github.com/wormos/shipops-api/internal/http/middleware"
	"github.com/wormos/shipops-api/internal/http/router"
	"github.com/wormos/shipops-api/internal/jobs"
	"github.com/wormos/shipops-api/internal/logger"
	"github.com/wormos/shipops-api/internal/repository"
	"github.com/wormos/shipops-api/internal/service"
	"github.com/wormos/shipops-api/internal/storage"
	"github.com/wormos/shipops-api/internal/warehouse"
	"go.uber.org/zap"
)

// backgroundJobTimeout bounds a single scheduled job run
const backgroundJobTimeout = 5 * time.Minute

// @title ShipOps API
// @version 1.0
// @description Ship repair operations API for work orders, cost and income ledgers and profit reporting

// @contact.name API Support
// @contact.email support@wormos.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "shipops-staging.wormos.io"
	case "production":
		docs.SwaggerInfo.Host = "api.shipops.wormos.io"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize storage
	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize warehouse connection (optional - for group reporting)
	// The app continues without it; confirmed reports stay queued locally
	var whClient *warehouse.Client
	if cfg.Warehouse.Enabled {
		whClient, err = warehouse.NewClient(&cfg.Warehouse, log)
		if err != nil {
			log.Warn("Warehouse connection failed, continuing without it",
				zap.Error(err),
			)
		}
	} else {
		log.Info("Warehouse not configured, skipping")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	workOrderRepo := repository.NewWorkOrderRepository(db)
	serviceItemRepo := repository.NewServiceItemRepository(db)
	costLineRepo := repository.NewCostLineRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	profitReportRepo := repository.NewProfitReportRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Initialize middleware (the token issuer lives here)
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize services
	auditLogService := service.NewAuditLogService(auditLogRepo, log)
	notificationService := service.NewNotificationService(notificationRepo, log)
	authService := service.NewAuthService(userRepo, authMiddleware.TokenIssuer(), auditLogService, log)
	userService := service.NewUserService(userRepo, log)
	workOrderService := service.NewWorkOrderService(workOrderRepo, userRepo, auditLogService, notificationRepo, cfg.Notifications.AdminEmail, log)
	serviceItemService := service.NewServiceItemService(serviceItemRepo, workOrderRepo, userRepo, auditLogService, log)
	costLineService := service.NewCostLineService(costLineRepo, workOrderRepo, auditLogService, log)
	attachmentService := service.NewAttachmentService(attachmentRepo, costLineRepo, serviceItemRepo, workOrderRepo, fileStorage, &cfg.Storage, log)
	incomeService := service.NewIncomeService(quoteRepo, invoiceRepo, paymentRepo, workOrderRepo, auditLogService, log)
	profitReportService := service.NewProfitReportService(profitReportRepo, costLineRepo, quoteRepo, invoiceRepo, paymentRepo, workOrderRepo, notificationRepo, auditLogService, log)
	dashboardService := service.NewDashboardService(workOrderService, notificationService, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, log)
	workOrderHandler := handler.NewWorkOrderHandler(workOrderService, log)
	costLineHandler := handler.NewCostLineHandler(costLineService, attachmentService, log)
	incomeHandler := handler.NewIncomeHandler(incomeService, log)
	profitReportHandler := handler.NewProfitReportHandler(profitReportService, log)
	serviceItemHandler := handler.NewServiceItemHandler(serviceItemService, attachmentService, log)
	userHandler := handler.NewUserHandler(userService, log)
	notificationHandler := handler.NewNotificationHandler(notificationService, log)
	auditHandler := handler.NewAuditHandler(auditLogService, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		authHandler,
		workOrderHandler,
		costLineHandler,
		incomeHandler,
		profitReportHandler,
		serviceItemHandler,
		userHandler,
		notificationHandler,
		auditHandler,
		dashboardHandler,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)

		// Refresh stale statuses immediately so restarts catch up on missed ticks
		if err := jobs.RegisterStatusRefreshJob(
			scheduler, workOrderService, log,
			cfg.Jobs.StatusRefreshSchedule, backgroundJobTimeout, true,
		); err != nil {
			log.Error("Failed to register status refresh job", zap.Error(err))
		}

		if err := jobs.RegisterOverdueInvoiceJob(
			scheduler, invoiceRepo, log,
			cfg.Jobs.OverdueInvoiceSchedule, backgroundJobTimeout,
		); err != nil {
			log.Error("Failed to register overdue invoice job", zap.Error(err))
		}

		if whClient.IsEnabled() {
			if err := jobs.RegisterWarehouseSyncJob(
				scheduler, profitReportRepo, whClient, log,
				cfg.Jobs.WarehouseSyncSchedule, backgroundJobTimeout,
			); err != nil {
				log.Error("Failed to register warehouse sync job", zap.Error(err))
			}
		}

		scheduler.Start()
		log.Info("Scheduler started",
			zap.Strings("jobs", scheduler.GetJobNames()),
		)
	} else {
		log.Info("Background jobs disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		// Close warehouse connection if initialized
		if err := whClient.Close(); err != nil {
			log.Warn("Error closing warehouse connection", zap.Error(err))
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
