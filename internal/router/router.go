// Package router sets up all HTTP routes for the API.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-tools-api/internal/config"
	"github.com/Shimizu-Technology/pdf-tools-api/internal/database"
	"github.com/Shimizu-Technology/pdf-tools-api/internal/handlers"
	"github.com/Shimizu-Technology/pdf-tools-api/internal/middleware"
	"github.com/Shimizu-Technology/pdf-tools-api/internal/services/ocr"
	"github.com/Shimizu-Technology/pdf-tools-api/internal/services/pdfops"
	webhookservice "github.com/Shimizu-Technology/pdf-tools-api/internal/services/webhook"
	"github.com/Shimizu-Technology/pdf-tools-api/internal/services/worker"
)

// Setup creates and configures the Gin router with all routes.
func Setup(db *database.DB, wp *worker.Pool, pdf *pdfops.Service, ocrSvc *ocr.Service, ws *webhookservice.Service, cfg *config.Config) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	h := handlers.NewHandler(db, wp, pdf, ocrSvc, ws, cfg)
	rateLimiter := middleware.NewRateLimiter()

	// --- Public Routes (no auth required) ---
	r.GET("/api/v1/health", h.HealthCheck)
	r.POST("/api/v1/keys", h.CreateAPIKey)

	// API Documentation
	r.GET("/api/docs", h.ServeSwaggerUI)
	r.GET("/api/docs/openapi.yaml", h.ServeOpenAPISpec)

	// --- Auth Routes — public ---
	r.POST("/api/v1/auth/register", h.Register)
	r.POST("/api/v1/auth/login", h.Login)

	// --- JWT-protected routes ---
	jwtProtected := r.Group("/api/v1")
	jwtProtected.Use(middleware.JWTAuth(db, cfg.JWTSecret))
	{
		jwtProtected.GET("/auth/me", h.GetMe)
		jwtProtected.POST("/auth/refresh", h.RefreshToken)
		jwtProtected.GET("/workspace", h.GetWorkspace)
		jwtProtected.POST("/workspace", h.SaveToWorkspace)
		jwtProtected.DELETE("/workspace/:type/:id", h.RemoveFromWorkspace)
	}

	// --- Protected Routes (API key OR JWT) ---
	protected := r.Group("/api/v1")
	protected.Use(middleware.DualAuth(db, cfg.JWTSecret))
	protected.Use(rateLimiter.RateLimit())
	{
		// Document endpoints
		protected.POST("/documents", h.UploadDocument)
		protected.GET("/documents", h.ListDocuments)
		protected.POST("/documents/merge", h.MergeDocuments) // must be before :id
		protected.GET("/documents/:id", h.GetDocument)
		protected.GET("/documents/:id/download", h.DownloadDocument)
		protected.DELETE("/documents/:id", h.DeleteDocument)

		// Page operations — synchronous, each output is a new document
		protected.POST("/documents/:id/extract", h.ExtractPages)
		protected.POST("/documents/:id/remove", h.RemovePages)
		protected.POST("/documents/:id/rotate", h.RotateDocument)
		protected.POST("/documents/:id/split", h.SplitDocument)
		protected.POST("/documents/:id/text", h.ExtractText)

		// OCR — asynchronous via the worker pool
		protected.POST("/documents/:id/ocr", h.CreateOCRJob)
		protected.GET("/documents/:id/ocr", h.ListDocumentOCRRuns)
		protected.GET("/ocr/:id", h.GetOCRRun)
		protected.GET("/ocr/:id/export", h.ExportOCRRun)

		// Job polling
		protected.GET("/jobs", h.ListJobs)
		protected.GET("/jobs/:id", h.GetJob)

		// API key management
		protected.GET("/keys", h.ListAPIKeys)
		protected.DELETE("/keys/:id", h.RevokeAPIKey)

		// Webhook management
		protected.POST("/webhooks", h.CreateWebhook)
		protected.GET("/webhooks", h.ListWebhooks)
		protected.GET("/webhooks/deliveries", h.ListWebhookDeliveries)
		protected.PATCH("/webhooks/:id", h.UpdateWebhook)
		protected.DELETE("/webhooks/:id", h.DeleteWebhook)
	}

	return r
}
