// Package handlers contains HTTP handler functions for the API.
//
// Go Pattern: Handlers in Gin receive a *gin.Context which provides:
// - Request data (params, query, body, headers)
// - Response methods (JSON, String, Status)
// - Middleware data (c.Get/c.Set)
//
// Unlike Ruby controllers, Go handlers are plain functions — no class inheritance.
// We group related handlers into a struct (Handler) that holds shared dependencies.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-tools-api/internal/config"
	"github.com/Shimizu-Technology/pdf-tools-api/internal/database"
	"github.com/Shimizu-Technology/pdf-tools-api/internal/models"
	"github.com/Shimizu-Technology/pdf-tools-api/internal/services/ocr"
	"github.com/Shimizu-Technology/pdf-tools-api/internal/services/pdfops"
	"github.com/Shimizu-Technology/pdf-tools-api/internal/services/webhook"
	"github.com/Shimizu-Technology/pdf-tools-api/internal/services/worker"
)

// Handler holds shared dependencies for all HTTP handlers.
// Go Pattern: Dependency injection via struct fields. Instead of global
// variables or service locators, we pass dependencies explicitly.
// This makes testing easy — just create a Handler with mock dependencies.
type Handler struct {
	DB       *database.DB
	Worker   *worker.Pool
	PDF      *pdfops.Service
	OCR      *ocr.Service
	Webhooks *webhook.Service

	JWTSecret   string
	AdminAPIKey string

	// Owner override (bypass queue caps for personal use)
	OwnerAPIKeyID     string
	OwnerAPIKeyPrefix string

	// Document storage
	StorageDir  string
	MaxUploadMB int

	DefaultRateLimit int
}

// NewHandler creates a new handler with all dependencies.
func NewHandler(db *database.DB, wp *worker.Pool, pdf *pdfops.Service, ocrSvc *ocr.Service, ws *webhook.Service, cfg *config.Config) *Handler {
	return &Handler{
		DB:                db,
		Worker:            wp,
		PDF:               pdf,
		OCR:               ocrSvc,
		Webhooks:          ws,
		JWTSecret:         cfg.JWTSecret,
		AdminAPIKey:       cfg.AdminAPIKey,
		OwnerAPIKeyID:     cfg.OwnerAPIKeyID,
		OwnerAPIKeyPrefix: cfg.OwnerAPIKeyPrefix,
		StorageDir:        cfg.StorageDir,
		MaxUploadMB:       cfg.MaxUploadMB,
		DefaultRateLimit:  cfg.DefaultRateLimit,
	}
}

// HealthCheck returns the API health status.
// GET /api/v1/health
func (h *Handler) HealthCheck(c *gin.Context) {
	// Check database connectivity
	dbStatus := "healthy"
	if err := h.DB.HealthCheck(c.Request.Context()); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	tesseract := "missing"
	if h.OCR.Available() {
		tesseract = "available"
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "ok",
		Version:   "1.0.0",
		Database:  dbStatus,
		Workers:   h.Worker.WorkerCount(),
		Tesseract: tesseract,
	})
}
