// ocr.go handles OCR run and per-page result database operations.
package database

import (
	"context"
	"fmt"

	"github.com/Shimizu-Technology/pdf-tools-api/internal/models"
)

// CreateOCRRun inserts a new OCR run record.
func (db *DB) CreateOCRRun(ctx context.Context, r *models.OCRRun) error {
	query := `
		INSERT INTO ocr_runs (document_id, language, pages, page_count, text, word_count, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return db.QueryRowContext(ctx, query,
		r.DocumentID, r.Language, r.Pages, r.PageCount, r.Text, r.WordCount, r.Status,
	).Scan(&r.ID, &r.CreatedAt)
}

// UpdateOCRRun updates an OCR run after processing completes or fails.
func (db *DB) UpdateOCRRun(ctx context.Context, r *models.OCRRun) error {
	_, err := db.ExecContext(ctx, `
		UPDATE ocr_runs
		SET page_count = $2, text = $3, word_count = $4, status = $5
		WHERE id = $1`,
		r.ID, r.PageCount, r.Text, r.WordCount, r.Status,
	)
	return err
}

// GetOCRRun retrieves a single OCR run by ID.
func (db *DB) GetOCRRun(ctx context.Context, id string) (*models.OCRRun, error) {
	var r models.OCRRun
	err := db.GetContext(ctx, &r, `SELECT * FROM ocr_runs WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("ocr run not found: %w", err)
	}
	return &r, nil
}

// ListOCRRunsByDocument returns OCR runs for a document, newest first.
func (db *DB) ListOCRRunsByDocument(ctx context.Context, documentID string) ([]models.OCRRun, error) {
	var runs []models.OCRRun
	err := db.SelectContext(ctx, &runs,
		`SELECT * FROM ocr_runs WHERE document_id = $1 ORDER BY created_at DESC`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ocr runs: %w", err)
	}
	return runs, nil
}

// CreateOCRPage inserts the recognized text for one page of a run.
func (db *DB) CreateOCRPage(ctx context.Context, p *models.OCRPage) error {
	query := `
		INSERT INTO ocr_pages (run_id, page_number, text, word_count)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return db.QueryRowContext(ctx, query,
		p.RunID, p.PageNumber, p.Text, p.WordCount,
	).Scan(&p.ID)
}

// GetOCRPages returns the per-page results for a run, in page order.
func (db *DB) GetOCRPages(ctx context.Context, runID string) ([]models.OCRPage, error) {
	var pages []models.OCRPage
	err := db.SelectContext(ctx, &pages,
		`SELECT * FROM ocr_pages WHERE run_id = $1 ORDER BY page_number ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ocr pages: %w", err)
	}
	return pages, nil
}
