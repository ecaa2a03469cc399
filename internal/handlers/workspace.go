// workspace.go handles workspace-related HTTP endpoints.
package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-tools-api/internal/middleware"
	"github.com/Shimizu-Technology/pdf-tools-api/internal/models"
)

// GetWorkspace returns the authenticated user's saved workspace items.
// GET /api/v1/workspace
func (h *Handler) GetWorkspace(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "Login required to access workspace",
			Code:    http.StatusUnauthorized,
		})
		return
	}

	documents, err := h.DB.GetWorkspaceDocuments(c.Request.Context(), user.ID)
	if err != nil {
		log.Printf("Failed to get workspace documents: %v", err)
		documents = []models.Document{}
	}

	runs, err := h.DB.GetWorkspaceOCRRuns(c.Request.Context(), user.ID)
	if err != nil {
		log.Printf("Failed to get workspace ocr runs: %v", err)
		runs = []models.OCRRun{}
	}

	if documents == nil {
		documents = []models.Document{}
	}
	if runs == nil {
		runs = []models.OCRRun{}
	}

	c.JSON(http.StatusOK, models.WorkspaceResponse{
		Documents: documents,
		OCRRuns:   runs,
	})
}

// SaveToWorkspace adds an item to the authenticated user's workspace.
// POST /api/v1/workspace
func (h *Handler) SaveToWorkspace(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "Login required to save to workspace",
			Code:    http.StatusUnauthorized,
		})
		return
	}

	var req models.SaveWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "item_type ('document' or 'ocr') and item_id are required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	item := &models.WorkspaceItem{
		UserID:   user.ID,
		ItemType: req.ItemType,
		ItemID:   req.ItemID,
	}

	if err := h.DB.SaveWorkspaceItem(c.Request.Context(), item); err != nil {
		// ON CONFLICT DO NOTHING means it might already exist — that's fine
		c.JSON(http.StatusOK, gin.H{"message": "Item saved to workspace"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Item saved to workspace", "id": item.ID})
}

// RemoveFromWorkspace removes an item from the authenticated user's workspace.
// DELETE /api/v1/workspace/:type/:id
func (h *Handler) RemoveFromWorkspace(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "Login required",
			Code:    http.StatusUnauthorized,
		})
		return
	}

	itemType := c.Param("type")
	itemID := c.Param("id")

	if err := h.DB.RemoveWorkspaceItem(c.Request.Context(), user.ID, itemType, itemID); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to remove item",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed from workspace"})
}
