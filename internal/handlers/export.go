// export.go handles OCR result export in multiple formats.
//
// Supported formats:
//   - txt  — Plain recognized text
//   - md   — Markdown with a metadata header and per-page sections
//   - json — Full JSON with run metadata and per-page results
//
// Go Pattern: Each export format is its own function. This makes it easy
// to add new formats later — just add a case to the switch and a new
// formatter function. This is the "Strategy pattern" without the ceremony.
package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-tools-api/internal/models"
)

// ExportOCRRun exports a completed OCR run in the requested format.
// GET /api/v1/ocr/:id/export?format=txt|md|json
//
// Response headers are set for file download:
//   - Content-Type: appropriate MIME type
//   - Content-Disposition: attachment with filename
func (h *Handler) ExportOCRRun(c *gin.Context) {
	id := c.Param("id")
	format := c.DefaultQuery("format", "txt")

	// Validate format before doing any database work
	validFormats := map[string]bool{"txt": true, "md": true, "json": true}
	if !validFormats[format] {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_format",
			Message: "Supported formats: txt, md, json",
			Code:    http.StatusBadRequest,
		})
		return
	}

	run, err := h.DB.GetOCRRun(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "OCR run not found",
			Code:    http.StatusNotFound,
		})
		return
	}

	// Only export completed runs
	if run.Status != models.StatusCompleted {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_ready",
			Message: "OCR run is not completed (status: " + string(run.Status) + ")",
			Code:    http.StatusNotFound,
		})
		return
	}

	// Name the export after the source document where possible.
	filename := ""
	doc, err := h.DB.GetDocument(c.Request.Context(), run.DocumentID)
	if err == nil {
		filename = sanitizeFilename(strings.TrimSuffix(doc.OriginalName, ".pdf"))
	}
	if filename == "" {
		filename = "ocr-" + run.ID
	}

	switch format {
	case "txt":
		exportTXT(c, run, filename)
	case "md":
		exportMarkdown(c, h, run, doc, filename)
	case "json":
		exportJSON(c, h, run, filename)
	}
}

// exportTXT returns the recognized text as plain text.
func exportTXT(c *gin.Context, run *models.OCRRun, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.txt"`, filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(run.Text))
}

// exportMarkdown returns the run as Markdown with a metadata header and one
// section per recognized page.
func exportMarkdown(c *gin.Context, h *Handler, run *models.OCRRun, doc *models.Document, filename string) {
	var sb strings.Builder

	title := filename
	if doc != nil {
		title = doc.OriginalName
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Language | %s |\n", run.Language))
	sb.WriteString(fmt.Sprintf("| Pages recognized | %d |\n", run.PageCount))
	sb.WriteString(fmt.Sprintf("| Words | %d |\n", run.WordCount))
	if run.Pages != "" {
		sb.WriteString(fmt.Sprintf("| Page range | %s |\n", run.Pages))
	}
	sb.WriteString(fmt.Sprintf("| Recognized | %s |\n", run.CreatedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString("\n---\n\n")

	pages, err := h.DB.GetOCRPages(c.Request.Context(), run.ID)
	if err == nil && len(pages) > 0 {
		for _, p := range pages {
			sb.WriteString(fmt.Sprintf("## Page %d\n\n", p.PageNumber))
			sb.WriteString(p.Text)
			sb.WriteString("\n\n")
		}
	} else {
		sb.WriteString("## Text\n\n")
		sb.WriteString(run.Text)
		sb.WriteString("\n")
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.md"`, filename))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(sb.String()))
}

// exportJSON returns the full run data as JSON.
// This includes all metadata — useful for programmatic consumption.
func exportJSON(c *gin.Context, h *Handler, run *models.OCRRun, filename string) {
	pages, err := h.DB.GetOCRPages(c.Request.Context(), run.ID)
	if err != nil {
		pages = []models.OCRPage{}
	}

	// Build a clean export structure (we control what's included)
	exportData := map[string]interface{}{
		"id":           run.ID,
		"document_id":  run.DocumentID,
		"language":     run.Language,
		"page_range":   run.Pages,
		"page_count":   run.PageCount,
		"text":         run.Text,
		"word_count":   run.WordCount,
		"reading_time": fmt.Sprintf("%d min", int(math.Ceil(float64(run.WordCount)/200.0))),
		"status":       run.Status,
		"pages":        pages,
		"created_at":   run.CreatedAt,
	}

	jsonBytes, err := json.MarshalIndent(exportData, "", "  ")
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "export_error",
			Message: "Failed to generate JSON export",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.json"`, filename))
	c.Data(http.StatusOK, "application/json; charset=utf-8", jsonBytes)
}

// sanitizeFilename removes characters that aren't safe for filenames.
// Go Pattern: Keep it simple — replace unsafe characters with hyphens
// and trim the result. We don't need a full filesystem-safe sanitizer
// since this is just for the Content-Disposition header.
func sanitizeFilename(name string) string {
	// Replace common unsafe characters
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-",
		"?", "-", "\"", "-", "<", "-", ">", "-",
		"|", "-", "\n", " ", "\r", "",
	)
	name = replacer.Replace(name)

	// Collapse multiple hyphens/spaces
	for strings.Contains(name, "  ") {
		name = strings.ReplaceAll(name, "  ", " ")
	}
	for strings.Contains(name, "--") {
		name = strings.ReplaceAll(name, "--", "-")
	}

	name = strings.TrimSpace(name)

	// Limit length
	if len(name) > 100 {
		name = name[:100]
	}

	return name
}
