// pdf.go handles the synchronous page operations: extract, remove, rotate,
// split, merge, and text extraction.
//
// All of them follow the same shape: load the source document, resolve the
// page range expression against its page count, run the pdfcpu operation
// into a temp file, and register the output as a new document. Outputs are
// first-class documents — they can be downloaded, split again, merged, or
// OCR'd like any upload.
package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Shimizu-Technology/pdf-tools-api/internal/middleware"
	"github.com/Shimizu-Technology/pdf-tools-api/internal/models"
	"github.com/Shimizu-Technology/pdf-tools-api/internal/pagerange"
	"github.com/Shimizu-Technology/pdf-tools-api/internal/services/pdfops"
)

// loadDocument fetches the document for the :id param, writing a 404 on
// failure. Returns nil when the response has already been sent.
func (h *Handler) loadDocument(c *gin.Context) *models.Document {
	doc, err := h.DB.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "Document not found",
			Code:    http.StatusNotFound,
		})
		return nil
	}
	return doc
}

// resolvePages resolves a range expression against a document and rejects
// empty results. Malformed and out-of-range tokens are dropped silently by
// the resolver, so "abc" and "5" against a 3-page document both land here
// with nothing left — the 400 is the caller's only signal.
func (h *Handler) resolvePages(c *gin.Context, expression string, maxPages int) ([]int, bool) {
	pages := pagerange.Resolve(expression, maxPages)
	if len(pages) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "no_valid_pages",
			Message: fmt.Sprintf("Page range %q matches no pages in a %d-page document", expression, maxPages),
			Code:    http.StatusBadRequest,
		})
		return nil, false
	}
	return pages, true
}

// storeDerived moves an operation output into storage and registers it as a
// new document descended from parent.
func (h *Handler) storeDerived(ctx context.Context, outFile, originalName, sourceOp string, parent *models.Document, apiKeyID *string) (*models.Document, error) {
	pageCount, err := h.PDF.PageCount(outFile)
	if err != nil {
		return nil, fmt.Errorf("output is not a readable PDF: %w", err)
	}

	info, err := os.Stat(outFile)
	if err != nil {
		return nil, fmt.Errorf("failed to stat output: %w", err)
	}

	filename := uuid.New().String() + ".pdf"
	path := filepath.Join(h.StorageDir, filename)
	if err := os.Rename(outFile, path); err != nil {
		return nil, fmt.Errorf("failed to move output into storage: %w", err)
	}

	var parentID *string
	if parent != nil {
		parentID = &parent.ID
	}

	doc := &models.Document{
		Filename:     filename,
		OriginalName: originalName,
		PageCount:    pageCount,
		SizeBytes:    info.Size(),
		SourceOp:     sourceOp,
		ParentID:     parentID,
		APIKeyID:     apiKeyID,
	}

	if err := h.DB.CreateDocument(ctx, doc); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to create document record: %w", err)
	}
	return doc, nil
}

// requestAPIKeyID returns the authenticated API key's ID, or nil.
func requestAPIKeyID(c *gin.Context) *string {
	if apiKey := middleware.GetAPIKey(c); apiKey != nil {
		return &apiKey.ID
	}
	return nil
}

// derivedName builds an output document name like "report (extracted).pdf".
func derivedName(originalName, op string) string {
	base := strings.TrimSuffix(originalName, filepath.Ext(originalName))
	if base == "" {
		base = "document"
	}
	return fmt.Sprintf("%s (%s).pdf", base, op)
}

// operationError writes a 500 for a failed pdfcpu operation.
func operationError(c *gin.Context, op string, err error) {
	log.Printf("❌ %s failed: %v", op, err)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "operation_failed",
		Message: fmt.Sprintf("Failed to %s: %v", op, err),
		Code:    http.StatusInternalServerError,
	})
}

// ExtractPages copies the selected pages into a new document.
// POST /api/v1/documents/:id/extract
//
// Request body:
//
//	{"pages": "1-3, 5, 8-10"}
//
// The resolved pages come back in the response so callers can see what the
// expression actually matched.
func (h *Handler) ExtractPages(c *gin.Context) {
	doc := h.loadDocument(c)
	if doc == nil {
		return
	}

	var req models.ExtractPagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "pages is required (e.g. \"1-3, 5\")",
			Code:    http.StatusBadRequest,
		})
		return
	}

	pages, ok := h.resolvePages(c, req.Pages, doc.PageCount)
	if !ok {
		return
	}

	inFile := filepath.Join(h.StorageDir, doc.Filename)
	outFile := filepath.Join(h.StorageDir, "tmp_"+uuid.New().String()+".pdf")
	defer os.Remove(outFile)

	if err := h.PDF.ExtractPages(inFile, outFile, pagerange.Selection(pages)); err != nil {
		operationError(c, "extract pages", err)
		return
	}

	out, err := h.storeDerived(c.Request.Context(), outFile, derivedName(doc.OriginalName, "extracted"), "extract", doc, requestAPIKeyID(c))
	if err != nil {
		operationError(c, "store extracted document", err)
		return
	}

	c.JSON(http.StatusCreated, models.OperationResponse{
		Document:      *out,
		ResolvedPages: pages,
		ResolvedCount: len(pages),
	})
}

// RemovePages produces a copy of the document without the selected pages.
// POST /api/v1/documents/:id/remove
func (h *Handler) RemovePages(c *gin.Context) {
	doc := h.loadDocument(c)
	if doc == nil {
		return
	}

	var req models.RemovePagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "pages is required (e.g. \"1-3, 5\")",
			Code:    http.StatusBadRequest,
		})
		return
	}

	pages, ok := h.resolvePages(c, req.Pages, doc.PageCount)
	if !ok {
		return
	}

	// Removing every page would produce an empty (invalid) PDF.
	if len(pages) >= doc.PageCount {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "no_pages_left",
			Message: "Cannot remove all pages of a document",
			Code:    http.StatusBadRequest,
		})
		return
	}

	inFile := filepath.Join(h.StorageDir, doc.Filename)
	outFile := filepath.Join(h.StorageDir, "tmp_"+uuid.New().String()+".pdf")
	defer os.Remove(outFile)

	if err := h.PDF.RemovePages(inFile, outFile, pagerange.Selection(pages)); err != nil {
		operationError(c, "remove pages", err)
		return
	}

	out, err := h.storeDerived(c.Request.Context(), outFile, derivedName(doc.OriginalName, "pages removed"), "remove", doc, requestAPIKeyID(c))
	if err != nil {
		operationError(c, "store document", err)
		return
	}

	c.JSON(http.StatusCreated, models.OperationResponse{
		Document:      *out,
		ResolvedPages: pages,
		ResolvedCount: len(pages),
	})
}

// RotateDocument rotates the selected pages (or all pages) clockwise.
// POST /api/v1/documents/:id/rotate
//
// Request body:
//
//	{"pages": "2-4", "degrees": 90}
//
// Omitting "pages" rotates the entire document.
func (h *Handler) RotateDocument(c *gin.Context) {
	doc := h.loadDocument(c)
	if doc == nil {
		return
	}

	var req models.RotateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "degrees is required (90, 180, or 270)",
			Code:    http.StatusBadRequest,
		})
		return
	}

	if req.Degrees != 90 && req.Degrees != 180 && req.Degrees != 270 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_degrees",
			Message: "degrees must be 90, 180, or 270 (clockwise)",
			Code:    http.StatusBadRequest,
		})
		return
	}

	// An empty expression means the whole document; pdfcpu takes that as a
	// nil selection.
	var pages []int
	var selection []string
	if req.Pages != "" {
		var ok bool
		pages, ok = h.resolvePages(c, req.Pages, doc.PageCount)
		if !ok {
			return
		}
		selection = pagerange.Selection(pages)
	}

	inFile := filepath.Join(h.StorageDir, doc.Filename)
	outFile := filepath.Join(h.StorageDir, "tmp_"+uuid.New().String()+".pdf")
	defer os.Remove(outFile)

	if err := h.PDF.Rotate(inFile, outFile, req.Degrees, selection); err != nil {
		operationError(c, "rotate pages", err)
		return
	}

	out, err := h.storeDerived(c.Request.Context(), outFile, derivedName(doc.OriginalName, "rotated"), "rotate", doc, requestAPIKeyID(c))
	if err != nil {
		operationError(c, "store rotated document", err)
		return
	}

	c.JSON(http.StatusCreated, models.OperationResponse{
		Document:      *out,
		ResolvedPages: pages,
		ResolvedCount: len(pages),
	})
}

// SplitDocument breaks a document into slices of span pages each.
// POST /api/v1/documents/:id/split
//
// Request body (optional):
//
//	{"span": 2}
//
// span defaults to 1 — one output document per page.
func (h *Handler) SplitDocument(c *gin.Context) {
	doc := h.loadDocument(c)
	if doc == nil {
		return
	}

	var req models.SplitRequest
	// Empty body is fine — span defaults to 1.
	_ = c.ShouldBindJSON(&req)
	if req.Span < 1 {
		req.Span = 1
	}

	inFile := filepath.Join(h.StorageDir, doc.Filename)
	outDir := filepath.Join(h.StorageDir, "tmp_split_"+uuid.New().String())
	defer os.RemoveAll(outDir)

	outputs, err := h.PDF.Split(inFile, outDir, req.Span)
	if err != nil {
		operationError(c, "split document", err)
		return
	}

	apiKeyID := requestAPIKeyID(c)
	docs := make([]models.Document, 0, len(outputs))
	for i, outFile := range outputs {
		name := derivedName(doc.OriginalName, fmt.Sprintf("part %d", i+1))
		out, err := h.storeDerived(c.Request.Context(), outFile, name, "split", doc, apiKeyID)
		if err != nil {
			operationError(c, "store split output", err)
			return
		}
		docs = append(docs, *out)
	}

	c.JSON(http.StatusCreated, models.SplitResponse{
		Documents: docs,
		Count:     len(docs),
	})
}

// MergeDocuments concatenates documents in the order given.
// POST /api/v1/documents/merge
//
// Request body:
//
//	{"document_ids": ["id-1", "id-2"]}
func (h *Handler) MergeDocuments(c *gin.Context) {
	var req models.MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "document_ids is required (2 to 20 document IDs)",
			Code:    http.StatusBadRequest,
		})
		return
	}

	inFiles := make([]string, 0, len(req.DocumentIDs))
	var first *models.Document
	for _, id := range req.DocumentIDs {
		doc, err := h.DB.GetDocument(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "not_found",
				Message: "Document not found: " + id,
				Code:    http.StatusNotFound,
			})
			return
		}
		if first == nil {
			first = doc
		}
		inFiles = append(inFiles, filepath.Join(h.StorageDir, doc.Filename))
	}

	outFile := filepath.Join(h.StorageDir, "tmp_"+uuid.New().String()+".pdf")
	defer os.Remove(outFile)

	if err := h.PDF.Merge(inFiles, outFile); err != nil {
		operationError(c, "merge documents", err)
		return
	}

	// The merged output descends from the first input.
	out, err := h.storeDerived(c.Request.Context(), outFile, derivedName(first.OriginalName, "merged"), "merge", first, requestAPIKeyID(c))
	if err != nil {
		operationError(c, "store merged document", err)
		return
	}

	c.JSON(http.StatusCreated, models.OperationResponse{Document: *out})
}

// ExtractText returns the text layer of the selected pages.
// POST /api/v1/documents/:id/text
//
// This reads the PDF's embedded text — scanned documents without a text
// layer come back empty. Use the OCR endpoint for those.
func (h *Handler) ExtractText(c *gin.Context) {
	doc := h.loadDocument(c)
	if doc == nil {
		return
	}

	var req models.ExtractTextRequest
	// Empty body means all pages.
	_ = c.ShouldBindJSON(&req)

	var pages []int
	if req.Pages != "" {
		var ok bool
		pages, ok = h.resolvePages(c, req.Pages, doc.PageCount)
		if !ok {
			return
		}
	}

	data, err := os.ReadFile(filepath.Join(h.StorageDir, doc.Filename))
	if err != nil {
		log.Printf("⚠️  Document %s missing from storage", doc.ID)
		c.JSON(http.StatusGone, models.ErrorResponse{
			Error:   "file_missing",
			Message: "Document file is no longer available",
			Code:    http.StatusGone,
		})
		return
	}

	result, err := pdfops.ExtractText(data, pages)
	if err != nil {
		operationError(c, "extract text", err)
		return
	}

	c.JSON(http.StatusOK, models.TextResponse{
		DocumentID:    doc.ID,
		Text:          result.Text,
		PageCount:     result.PageCount,
		WordCount:     result.WordCount,
		ResolvedCount: len(pages),
	})
}
