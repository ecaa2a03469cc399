// users.go handles user-related database operations.
package database

import (
	"context"
	"fmt"

	"github.com/Shimizu-Technology/pdf-tools-api/internal/models"
)

// CreateUser inserts a new user record.
func (db *DB) CreateUser(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return db.QueryRowContext(ctx, query,
		u.Email, u.PasswordHash, u.Name,
	).Scan(&u.ID, &u.CreatedAt)
}

// GetUserByEmail retrieves a user by email address.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := db.GetContext(ctx, &u, `SELECT * FROM users WHERE email = $1`, email)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	return &u, nil
}

// GetUserByID retrieves a user by ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := db.GetContext(ctx, &u, `SELECT * FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	return &u, nil
}

// --- Workspace Operations ---

// SaveWorkspaceItem adds an item to a user's workspace.
func (db *DB) SaveWorkspaceItem(ctx context.Context, item *models.WorkspaceItem) error {
	query := `
		INSERT INTO workspace_items (user_id, item_type, item_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, item_type, item_id) DO NOTHING
		RETURNING id, created_at`

	return db.QueryRowContext(ctx, query,
		item.UserID, item.ItemType, item.ItemID,
	).Scan(&item.ID, &item.CreatedAt)
}

// RemoveWorkspaceItem removes an item from a user's workspace.
func (db *DB) RemoveWorkspaceItem(ctx context.Context, userID, itemType, itemID string) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM workspace_items WHERE user_id = $1 AND item_type = $2 AND item_id = $3`,
		userID, itemType, itemID)
	return err
}

// GetWorkspaceDocuments returns documents saved to a user's workspace.
func (db *DB) GetWorkspaceDocuments(ctx context.Context, userID string) ([]models.Document, error) {
	var documents []models.Document
	err := db.SelectContext(ctx, &documents,
		`SELECT d.* FROM documents d
		 JOIN workspace_items wi ON wi.item_id = d.id AND wi.item_type = 'document'
		 WHERE wi.user_id = $1
		 ORDER BY wi.created_at DESC LIMIT 50`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace documents: %w", err)
	}
	return documents, nil
}

// GetWorkspaceOCRRuns returns OCR runs saved to a user's workspace.
func (db *DB) GetWorkspaceOCRRuns(ctx context.Context, userID string) ([]models.OCRRun, error) {
	var runs []models.OCRRun
	err := db.SelectContext(ctx, &runs,
		`SELECT r.* FROM ocr_runs r
		 JOIN workspace_items wi ON wi.item_id = r.id AND wi.item_type = 'ocr'
		 WHERE wi.user_id = $1
		 ORDER BY wi.created_at DESC LIMIT 50`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace ocr runs: %w", err)
	}
	return runs, nil
}

// LinkAPIKeyToUser associates an API key with a user.
func (db *DB) LinkAPIKeyToUser(ctx context.Context, apiKeyID, userID string) error {
	_, err := db.ExecContext(ctx, `UPDATE api_keys SET user_id = $2 WHERE id = $1`, apiKeyID, userID)
	return err
}
