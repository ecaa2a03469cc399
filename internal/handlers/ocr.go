// ocr.go handles OCR job submission and result retrieval.
//
// OCR is the one operation that runs asynchronously: Tesseract can take
// minutes on a large scan, so the handler creates a pending run + job and
// answers 202. Clients poll GET /jobs/:id (or subscribe to job webhooks)
// and fetch the text from GET /ocr/:id once the run completes.
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-tools-api/internal/middleware"
	"github.com/Shimizu-Technology/pdf-tools-api/internal/models"
	"github.com/Shimizu-Technology/pdf-tools-api/internal/services/worker"
)

// maxActiveJobsPerKey caps how many pending/processing jobs one API key can
// hold at a time. The owner key is exempt.
const maxActiveJobsPerKey = 5

// CreateOCRJob starts OCR over a document (or a page subset).
// POST /api/v1/documents/:id/ocr
//
// Request body (all fields optional):
//
//	{"pages": "1-3", "language": "eng+deu"}
//
// Response: 202 with the pending job. The run ID is in job.result_id once
// the job completes.
func (h *Handler) CreateOCRJob(c *gin.Context) {
	if !h.OCR.Available() {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "ocr_unavailable",
			Message: "Tesseract is not installed on this server",
			Code:    http.StatusServiceUnavailable,
		})
		return
	}

	doc := h.loadDocument(c)
	if doc == nil {
		return
	}

	var req models.OCRRequest
	// Empty body means all pages, default language.
	_ = c.ShouldBindJSON(&req)

	// Reject a range expression that matches nothing now, not minutes later
	// when a worker picks the job up.
	if req.Pages != "" {
		if _, ok := h.resolvePages(c, req.Pages, doc.PageCount); !ok {
			return
		}
	}

	language := req.Language
	if language == "" {
		language = h.OCR.DefaultLanguage()
	}

	apiKey := middleware.GetAPIKey(c)
	var apiKeyID *string
	if apiKey != nil {
		apiKeyID = &apiKey.ID
	}

	// Per-key queue cap — keeps one client from monopolizing the workers.
	if apiKey != nil && !h.isOwnerRequest(c) {
		active, err := h.DB.CountActiveJobs(c.Request.Context(), apiKey.ID)
		if err == nil && active >= maxActiveJobsPerKey {
			c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error:   "too_many_jobs",
				Message: "Too many active jobs; wait for current jobs to finish",
				Code:    http.StatusTooManyRequests,
			})
			return
		}
	}

	run := &models.OCRRun{
		DocumentID: doc.ID,
		Language:   language,
		Pages:      req.Pages,
		Status:     models.StatusPending,
	}
	if err := h.DB.CreateOCRRun(c.Request.Context(), run); err != nil {
		log.Printf("❌ Failed to create ocr run: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to create OCR run",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	payload, _ := json.Marshal(worker.OCRPayload{
		RunID:    run.ID,
		Pages:    req.Pages,
		Language: language,
	})

	j := &models.Job{
		Type:       string(worker.JobOCR),
		Status:     models.StatusPending,
		DocumentID: doc.ID,
		Params:     payload,
		APIKeyID:   apiKeyID,
	}
	if err := h.DB.CreateJob(c.Request.Context(), j); err != nil {
		log.Printf("❌ Failed to create job record: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to create job record",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	job := worker.Job{
		ID:        j.ID,
		Type:      worker.JobOCR,
		Payload:   payload,
		CreatedAt: time.Now(),
	}

	if err := h.Worker.Submit(job); err != nil {
		if h.isOwnerRequest(c) {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
			defer cancel()
			if err := h.Worker.SubmitBlocking(ctx, job); err == nil {
				c.JSON(http.StatusAccepted, gin.H{"job": j, "ocr_run_id": run.ID})
				return
			}
		}
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "queue_full",
			Message: "Job queue is full, try again later",
			Code:    http.StatusServiceUnavailable,
		})
		return
	}

	// Return 202 Accepted — the work is happening in the background
	c.JSON(http.StatusAccepted, gin.H{"job": j, "ocr_run_id": run.ID})
}

// GetOCRRun returns an OCR run with its per-page results.
// GET /api/v1/ocr/:id
func (h *Handler) GetOCRRun(c *gin.Context) {
	id := c.Param("id")

	run, err := h.DB.GetOCRRun(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "OCR run not found",
			Code:    http.StatusNotFound,
		})
		return
	}

	pages, err := h.DB.GetOCRPages(c.Request.Context(), id)
	if err != nil {
		log.Printf("⚠️  Failed to get ocr pages for run %s: %v", id, err)
		pages = []models.OCRPage{}
	}
	if pages == nil {
		pages = []models.OCRPage{}
	}

	c.JSON(http.StatusOK, gin.H{"run": run, "pages": pages})
}

// ListDocumentOCRRuns returns all OCR runs for a document, newest first.
// GET /api/v1/documents/:id/ocr
func (h *Handler) ListDocumentOCRRuns(c *gin.Context) {
	doc := h.loadDocument(c)
	if doc == nil {
		return
	}

	runs, err := h.DB.ListOCRRunsByDocument(c.Request.Context(), doc.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to list OCR runs",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	if runs == nil {
		runs = []models.OCRRun{}
	}

	c.JSON(http.StatusOK, runs)
}
