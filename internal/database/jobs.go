// jobs.go handles background job database operations.
package database

import (
	"context"
	"fmt"

	"github.com/Shimizu-Technology/pdf-tools-api/internal/models"
)

// CreateJob inserts a new job record in "pending" state.
func (db *DB) CreateJob(ctx context.Context, j *models.Job) error {
	query := `
		INSERT INTO jobs (type, status, document_id, params, api_key_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	return db.QueryRowContext(ctx, query,
		j.Type, j.Status, j.DocumentID, j.Params, j.APIKeyID,
	).Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt)
}

// GetJob retrieves a single job by ID.
func (db *DB) GetJob(ctx context.Context, id string) (*models.Job, error) {
	var j models.Job
	err := db.GetContext(ctx, &j, `SELECT * FROM jobs WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("job not found: %w", err)
	}
	return &j, nil
}

// UpdateJob updates a job's status and result after processing.
func (db *DB) UpdateJob(ctx context.Context, j *models.Job) error {
	query := `
		UPDATE jobs
		SET status = $2, result_id = $3, error_message = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return db.QueryRowContext(ctx, query,
		j.ID, j.Status, j.ResultID, j.ErrorMessage,
	).Scan(&j.UpdatedAt)
}

// ListJobs returns recent jobs, optionally filtered by the owning API key.
func (db *DB) ListJobs(ctx context.Context, limit int, apiKeyID *string) ([]models.Job, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var jobs []models.Job
	var err error
	if apiKeyID != nil {
		err = db.SelectContext(ctx, &jobs,
			`SELECT * FROM jobs WHERE api_key_id = $1 ORDER BY created_at DESC LIMIT $2`,
			*apiKeyID, limit)
	} else {
		err = db.SelectContext(ctx, &jobs,
			`SELECT * FROM jobs ORDER BY created_at DESC LIMIT $1`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// CountActiveJobs returns the number of pending or processing jobs for an
// API key. Used to cap queue usage per key (the owner key is exempt).
func (db *DB) CountActiveJobs(ctx context.Context, apiKeyID string) (int, error) {
	var count int
	err := db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM jobs WHERE api_key_id = $1 AND status IN ('pending', 'processing')`,
		apiKeyID)
	if err != nil {
		return 0, fmt.Errorf("failed to count active jobs: %w", err)
	}
	return count, nil
}
