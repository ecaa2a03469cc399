// jobs.go handles job status endpoints for polling async work.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-tools-api/internal/middleware"
	"github.com/Shimizu-Technology/pdf-tools-api/internal/models"
)

// GetJob returns a single job's status.
// GET /api/v1/jobs/:id
//
// Clients poll this after a 202 response. A completed OCR job carries the
// run ID in result_id.
func (h *Handler) GetJob(c *gin.Context) {
	id := c.Param("id")

	j, err := h.DB.GetJob(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "Job not found",
			Code:    http.StatusNotFound,
		})
		return
	}

	c.JSON(http.StatusOK, j)
}

// ListJobs returns recent jobs for the authenticated API key.
// GET /api/v1/jobs?limit=20
func (h *Handler) ListJobs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	var apiKeyID *string
	if apiKey := middleware.GetAPIKey(c); apiKey != nil {
		apiKeyID = &apiKey.ID
	}

	jobs, err := h.DB.ListJobs(c.Request.Context(), limit, apiKeyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to list jobs",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	if jobs == nil {
		jobs = []models.Job{}
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":       jobs,
		"queue_size": h.Worker.QueueSize(),
	})
}
