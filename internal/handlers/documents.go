// documents.go handles document upload, retrieval, download, and deletion.
package handlers

import (
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Shimizu-Technology/pdf-tools-api/internal/middleware"
	"github.com/Shimizu-Technology/pdf-tools-api/internal/models"
	"github.com/Shimizu-Technology/pdf-tools-api/internal/services/pdfops"
)

// UploadDocument accepts a PDF upload and stores it.
// POST /api/v1/documents
//
// The request is multipart/form-data with the PDF under the "file" field.
// The stored filename is a UUID — the original name only lives in the
// database, so hostile filenames never touch the filesystem.
func (h *Handler) UploadDocument(c *gin.Context) {
	// Cap the request body before reading anything.
	maxBytes := int64(h.MaxUploadMB) << 20
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: fmt.Sprintf("Provide a PDF under the 'file' form field (max %d MB)", h.MaxUploadMB),
			Code:    http.StatusBadRequest,
		})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to read uploaded file",
			Code:    http.StatusBadRequest,
		})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
			Error:   "too_large",
			Message: fmt.Sprintf("Upload exceeds the %d MB limit", h.MaxUploadMB),
			Code:    http.StatusRequestEntityTooLarge,
		})
		return
	}

	// Check the magic bytes, not the extension — extensions lie.
	if !pdfops.ValidatePDF(data) {
		c.JSON(http.StatusUnsupportedMediaType, models.ErrorResponse{
			Error:   "invalid_pdf",
			Message: "File does not look like a PDF",
			Code:    http.StatusUnsupportedMediaType,
		})
		return
	}

	filename := uuid.New().String() + ".pdf"
	path := filepath.Join(h.StorageDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("❌ Failed to store upload: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "storage_error",
			Message: "Failed to store document",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	pageCount, err := h.PDF.PageCount(path)
	if err != nil {
		os.Remove(path)
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   "unreadable_pdf",
			Message: "PDF could not be parsed: " + err.Error(),
			Code:    http.StatusUnprocessableEntity,
		})
		return
	}

	var apiKeyID *string
	if apiKey := middleware.GetAPIKey(c); apiKey != nil {
		apiKeyID = &apiKey.ID
	}

	doc := &models.Document{
		Filename:     filename,
		OriginalName: fileHeader.Filename,
		PageCount:    pageCount,
		SizeBytes:    int64(len(data)),
		SourceOp:     "upload",
		APIKeyID:     apiKeyID,
	}

	if err := h.DB.CreateDocument(c.Request.Context(), doc); err != nil {
		log.Printf("❌ Failed to create document record: %v", err)
		os.Remove(path)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to create document record",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// GetDocument retrieves a single document's metadata.
// GET /api/v1/documents/:id
func (h *Handler) GetDocument(c *gin.Context) {
	id := c.Param("id")

	doc, err := h.DB.GetDocument(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "Document not found",
			Code:    http.StatusNotFound,
		})
		return
	}

	c.JSON(http.StatusOK, doc)
}

// ListDocuments returns a paginated list of documents.
// GET /api/v1/documents?page=1&per_page=20&source_op=upload&search=report
func (h *Handler) ListDocuments(c *gin.Context) {
	// Go Pattern: ShouldBindQuery reads query parameters into a struct
	// using the `form` tags. Similar to Express's req.query but type-safe.
	var params models.DocumentListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_params",
			Message: "Invalid query parameters: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	// Filter by the authenticated API key
	if apiKey := middleware.GetAPIKey(c); apiKey != nil {
		params.APIKeyID = &apiKey.ID
	}

	documents, total, err := h.DB.ListDocuments(c.Request.Context(), params)
	if err != nil {
		log.Printf("❌ Failed to list documents: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to list documents",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	// Ensure we return an empty array, not null
	if documents == nil {
		documents = []models.Document{}
	}

	perPage := params.PerPage
	if perPage < 1 {
		perPage = 20
	}
	page := params.Page
	if page < 1 {
		page = 1
	}

	c.JSON(http.StatusOK, models.PaginatedResponse[models.Document]{
		Data:       documents,
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(perPage))),
	})
}

// DownloadDocument streams the stored PDF back to the client.
// GET /api/v1/documents/:id/download
func (h *Handler) DownloadDocument(c *gin.Context) {
	id := c.Param("id")

	doc, err := h.DB.GetDocument(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "Document not found",
			Code:    http.StatusNotFound,
		})
		return
	}

	path := filepath.Join(h.StorageDir, doc.Filename)
	if _, err := os.Stat(path); err != nil {
		// Metadata exists but the file is gone — storage drift.
		log.Printf("⚠️  Document %s missing from storage: %s", doc.ID, path)
		c.JSON(http.StatusGone, models.ErrorResponse{
			Error:   "file_missing",
			Message: "Document file is no longer available",
			Code:    http.StatusGone,
		})
		return
	}

	downloadName := sanitizeFilename(doc.OriginalName)
	if downloadName == "" {
		downloadName = doc.ID + ".pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, downloadName))
	c.File(path)
}

// DeleteDocument removes a document's record and its file.
// DELETE /api/v1/documents/:id
func (h *Handler) DeleteDocument(c *gin.Context) {
	id := c.Param("id")

	doc, err := h.DB.GetDocument(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "Document not found",
			Code:    http.StatusNotFound,
		})
		return
	}

	// Check ownership - only allow deletion if the API key owns this document
	if apiKey := middleware.GetAPIKey(c); apiKey != nil {
		if doc.APIKeyID != nil && *doc.APIKeyID != apiKey.ID {
			c.JSON(http.StatusForbidden, models.ErrorResponse{
				Error:   "forbidden",
				Message: "You can only delete your own documents",
				Code:    http.StatusForbidden,
			})
			return
		}
	}

	if err := h.DB.DeleteDocument(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "Document not found",
			Code:    http.StatusNotFound,
		})
		return
	}

	// Best effort — the record is gone either way.
	if err := os.Remove(filepath.Join(h.StorageDir, doc.Filename)); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️  Failed to remove file for document %s: %v", id, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}
