package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wormos/shipops-api/internal/auth"
	"github.com/wormos/shipops-api/internal/config"
	"github.com/wormos/shipops-api/internal/database"
	"github.com/wormos/shipops-api/internal/http/handler"
	"github.com/wormos/shipops-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/wormos/shipops-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                 *config.Config
	logger              *zap.Logger
	db                  *gorm.DB
	authMiddleware      *auth.Middleware
	rateLimiter         *middleware.RateLimiter
	authHandler         *handler.AuthHandler
	workOrderHandler    *handler.WorkOrderHandler
	costLineHandler     *handler.CostLineHandler
	incomeHandler       *handler.IncomeHandler
	profitReportHandler *handler.ProfitReportHandler
	serviceItemHandler  *handler.ServiceItemHandler
	userHandler         *handler.UserHandler
	notificationHandler *handler.NotificationHandler
	auditHandler        *handler.AuditHandler
	dashboardHandler    *handler.DashboardHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	workOrderHandler *handler.WorkOrderHandler,
	costLineHandler *handler.CostLineHandler,
	incomeHandler *handler.IncomeHandler,
	profitReportHandler *handler.ProfitReportHandler,
	serviceItemHandler *handler.ServiceItemHandler,
	userHandler *handler.UserHandler,
	notificationHandler *handler.NotificationHandler,
	auditHandler *handler.AuditHandler,
	dashboardHandler *handler.DashboardHandler,
) *Router {
	return &Router{
		cfg:                 cfg,
		logger:              logger,
		db:                  db,
		authMiddleware:      authMiddleware,
		rateLimiter:         rateLimiter,
		authHandler:         authHandler,
		workOrderHandler:    workOrderHandler,
		costLineHandler:     costLineHandler,
		incomeHandler:       incomeHandler,
		profitReportHandler: profitReportHandler,
		serviceItemHandler:  serviceItemHandler,
		userHandler:         userHandler,
		notificationHandler: notificationHandler,
		auditHandler:        auditHandler,
		dashboardHandler:    dashboardHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP) // Apply IP-based rate limiting globally

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats":   stats,
		})
	})

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		// Check database
		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/login", rt.authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)

			// Work orders and their nested ledgers
			r.Route("/work-orders", func(r chi.Router) {
				r.Get("/", rt.workOrderHandler.List)
				r.Post("/", rt.workOrderHandler.Create)
				r.Get("/stats", rt.workOrderHandler.Stats)
				r.Get("/alerts", rt.workOrderHandler.Alerts)
				r.Get("/{id}", rt.workOrderHandler.GetByID)
				r.Put("/{id}", rt.workOrderHandler.Update)
				r.Delete("/{id}", rt.workOrderHandler.Delete)
				r.Post("/{id}/generate-no", rt.workOrderHandler.GenerateInternalNo)
				r.Put("/{id}/status", rt.workOrderHandler.OverrideStatus)

				// Cost ledger
				r.Route("/{id}/cost-lines", func(r chi.Router) {
					r.Get("/", rt.costLineHandler.List)
					r.Post("/", rt.costLineHandler.Create)
					r.Get("/summary", rt.costLineHandler.Summary)
					r.Post("/lock", rt.costLineHandler.LockAll)
					r.Put("/{lineId}", rt.costLineHandler.Update)
					r.Delete("/{lineId}", rt.costLineHandler.Delete)
				})

				// Cost documentation attachments
				r.Route("/{id}/cost-attachments", func(r chi.Router) {
					r.Get("/", rt.costLineHandler.ListAttachments)
					r.Post("/", rt.costLineHandler.UploadAttachment)
					r.Get("/{attachmentId}", rt.costLineHandler.DownloadAttachment)
					r.Delete("/{attachmentId}", rt.costLineHandler.DeleteAttachment)
				})

				// Income ledger
				r.Get("/{id}/income", rt.incomeHandler.Overview)
				r.Route("/{id}/quotes", func(r chi.Router) {
					r.Post("/", rt.incomeHandler.CreateQuote)
					r.Put("/{quoteId}", rt.incomeHandler.UpdateQuote)
					r.Delete("/{quoteId}", rt.incomeHandler.DeleteQuote)
				})
				r.Route("/{id}/invoices", func(r chi.Router) {
					r.Post("/", rt.incomeHandler.CreateInvoice)
					r.Put("/{invoiceId}", rt.incomeHandler.UpdateInvoice)
					r.Delete("/{invoiceId}", rt.incomeHandler.DeleteInvoice)
				})
				r.Route("/{id}/payments", func(r chi.Router) {
					r.Post("/", rt.incomeHandler.CreatePayment)
					r.Put("/{paymentId}", rt.incomeHandler.UpdatePayment)
					r.Delete("/{paymentId}", rt.incomeHandler.DeletePayment)
				})

				// Profit reports
				r.Route("/{id}/profit-reports", func(r chi.Router) {
					r.Get("/", rt.profitReportHandler.List)
					r.Post("/", rt.profitReportHandler.Generate)
					r.Get("/latest", rt.profitReportHandler.GetLatest)
					r.Get("/{reportId}", rt.profitReportHandler.GetByID)
					r.Post("/{reportId}/confirm", rt.profitReportHandler.Confirm)
					r.Post("/{reportId}/export", rt.profitReportHandler.Export)
					r.Post("/{reportId}/print", rt.profitReportHandler.Print)
				})

				// Service items
				r.Route("/{id}/service-items", func(r chi.Router) {
					r.Get("/", rt.serviceItemHandler.List)
					r.Post("/", rt.serviceItemHandler.Create)
					r.Get("/{itemId}", rt.serviceItemHandler.GetByID)
					r.Put("/{itemId}", rt.serviceItemHandler.Update)
					r.Delete("/{itemId}", rt.serviceItemHandler.Delete)
					r.Post("/{itemId}/attachments", rt.serviceItemHandler.UploadAttachment)
					r.Get("/{itemId}/attachments/{attachmentId}", rt.serviceItemHandler.DownloadAttachment)
					r.Delete("/{itemId}/attachments/{attachmentId}", rt.serviceItemHandler.DeleteAttachment)
				})
			})

			// Users
			r.Route("/users", func(r chi.Router) {
				r.Get("/engineers", rt.userHandler.ListEngineers)
				r.Get("/{id}", rt.userHandler.GetByID)

				// Mutations and the full listing are admin territory
				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireAdmin)
					r.Get("/", rt.userHandler.List)
					r.Post("/", rt.userHandler.Create)
					r.Put("/{id}", rt.userHandler.Update)
				})
			})

			// Notifications
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", rt.notificationHandler.List)
				r.Get("/unread-count", rt.notificationHandler.UnreadCount)
				r.Put("/read-all", rt.notificationHandler.MarkAllAsRead)
				r.Get("/{id}", rt.notificationHandler.GetByID)
				r.Put("/{id}/read", rt.notificationHandler.MarkAsRead)
			})

			// Dashboard
			r.Get("/dashboard", rt.dashboardHandler.Overview)

			// Audit logs (admin only)
			r.Route("/audit-logs", func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireAdmin)
				r.Get("/", rt.auditHandler.List)
				r.Get("/{entityType}/{entityId}", rt.auditHandler.GetByEntity)
			})
		})
	})

	return r
}
