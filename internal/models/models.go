// Package models defines the data structures used throughout the application.
//
// Go Pattern: Models are plain structs with JSON tags for serialization.
// Unlike Ruby's ActiveRecord or JavaScript's Mongoose, Go models are just
// data containers — no ORM magic. The database package handles persistence.
//
// JSON tags (e.g., `json:"id"`) control how struct fields are serialized
// to/from JSON. The `db` tags work with sqlx for database column mapping.
package models

import (
	"encoding/json"
	"time"
)

// JobStatus represents the processing state of a background job.
// Go Pattern: We use string constants instead of enums (Go doesn't have enums).
// This is a common pattern — define a type alias and named constants.
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Document represents a PDF stored on disk with metadata in the database.
// Uploaded files and operation outputs (merged, split, extracted documents)
// are all Documents — SourceOp records how each one came to exist.
type Document struct {
	ID           string    `json:"id" db:"id"`
	Filename     string    `json:"filename" db:"filename"`           // Stored filename (UUID-based)
	OriginalName string    `json:"original_name" db:"original_name"` // Name from the upload, or a generated one for outputs
	PageCount    int       `json:"page_count" db:"page_count"`
	SizeBytes    int64     `json:"size_bytes" db:"size_bytes"`
	SourceOp     string    `json:"source_op" db:"source_op"`               // "upload", "merge", "split", "extract", "remove", "rotate"
	ParentID     *string   `json:"parent_id,omitempty" db:"parent_id"`     // Pointer = nullable; the document this was derived from
	APIKeyID     *string   `json:"api_key_id,omitempty" db:"api_key_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Job represents an asynchronous operation processed by the worker pool.
// Fast page operations run synchronously in the handler; OCR always runs
// as a job because Tesseract can take minutes on large documents.
type Job struct {
	ID               string          `json:"id" db:"id"`
	Type             string          `json:"type" db:"type"` // "ocr"
	Status           JobStatus       `json:"status" db:"status"`
	DocumentID       string          `json:"document_id" db:"document_id"`
	Params           json.RawMessage `json:"params,omitempty" db:"params"` // JSONB — operation-specific parameters
	ResultID         *string         `json:"result_id,omitempty" db:"result_id"` // OCR run or output document, depending on type
	ErrorMessage     string          `json:"error_message,omitempty" db:"error_message"`
	APIKeyID         *string         `json:"api_key_id,omitempty" db:"api_key_id"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// OCRRun represents one OCR pass over a document (or a page subset of it).
type OCRRun struct {
	ID         string    `json:"id" db:"id"`
	DocumentID string    `json:"document_id" db:"document_id"`
	Language   string    `json:"language" db:"language"`       // Tesseract language string, e.g. "eng" or "eng+deu"
	Pages      string    `json:"pages" db:"pages"`             // The page range expression as entered ("" = all pages)
	PageCount  int       `json:"page_count" db:"page_count"`   // Number of pages actually recognized
	Text       string    `json:"text" db:"text"`               // Concatenated recognized text
	WordCount  int       `json:"word_count" db:"word_count"`
	Status     JobStatus `json:"status" db:"status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// OCRPage holds the recognized text for a single page of an OCR run.
type OCRPage struct {
	ID         string `json:"id" db:"id"`
	RunID      string `json:"run_id" db:"run_id"`
	PageNumber int    `json:"page_number" db:"page_number"` // 1-based page number in the source document
	Text       string `json:"text" db:"text"`
	WordCount  int    `json:"word_count" db:"word_count"`
}

// APIKey represents an API key for authentication.
// Note: We store the HASH of the key, never the raw key itself.
type APIKey struct {
	ID         string     `json:"id" db:"id"`
	KeyHash    string     `json:"-" db:"key_hash"`            // "-" means never serialize to JSON
	KeyPrefix  string     `json:"key_prefix" db:"key_prefix"` // First 8 chars for identification
	Name       string     `json:"name" db:"name"`
	Active     bool       `json:"active" db:"active"`
	RateLimit  int        `json:"rate_limit" db:"rate_limit"` // Requests per hour
	UserID     *string    `json:"user_id,omitempty" db:"user_id"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty" db:"last_used_at"` // Pointer = nullable
}

// User represents a registered account for JWT authentication.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// WorkspaceItem links a user to a saved document or OCR run.
type WorkspaceItem struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	ItemType  string    `json:"item_type" db:"item_type"` // "document" or "ocr"
	ItemID    string    `json:"item_id" db:"item_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Webhook represents a registered webhook endpoint for job notifications.
type Webhook struct {
	ID        string    `json:"id" db:"id"`
	APIKeyID  string    `json:"api_key_id" db:"api_key_id"`
	URL       string    `json:"url" db:"url"`
	Events    []string  `json:"events" db:"events"`
	Secret    string    `json:"-" db:"secret"` // HMAC secret — never serialized
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ValidWebhookEvents enumerates the events a webhook can subscribe to.
var ValidWebhookEvents = map[string]bool{
	"job.completed": true,
	"job.failed":    true,
}

// WebhookDelivery tracks a single webhook delivery attempt sequence.
type WebhookDelivery struct {
	ID           string     `json:"id" db:"id"`
	WebhookID    string     `json:"webhook_id" db:"webhook_id"`
	Event        string     `json:"event" db:"event"`
	Payload      string     `json:"payload" db:"payload"`
	Status       string     `json:"status" db:"status"` // "pending", "success", "failed"
	Attempts     int        `json:"attempts" db:"attempts"`
	LastError    string     `json:"last_error,omitempty" db:"last_error"`
	ResponseCode int        `json:"response_code,omitempty" db:"response_code"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty" db:"delivered_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// WebhookPayload is the JSON body sent to webhook endpoints.
type WebhookPayload struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// --- Request/Response DTOs (Data Transfer Objects) ---
// Go Pattern: Separate structs for API input/output vs database models.
// This keeps your API contract clean and independent of your database schema.

// ExtractPagesRequest is the JSON body for POST /api/v1/documents/:id/extract.
// Pages is a range expression like "1-3, 5, 8-10".
type ExtractPagesRequest struct {
	Pages string `json:"pages" binding:"required"`
}

// RemovePagesRequest is the JSON body for POST /api/v1/documents/:id/remove.
type RemovePagesRequest struct {
	Pages string `json:"pages" binding:"required"`
}

// RotateRequest is the JSON body for POST /api/v1/documents/:id/rotate.
// An empty Pages expression rotates the whole document.
type RotateRequest struct {
	Pages   string `json:"pages,omitempty"`
	Degrees int    `json:"degrees" binding:"required"` // 90, 180, or 270 (clockwise)
}

// SplitRequest is the JSON body for POST /api/v1/documents/:id/split.
// Span is the number of pages per output document (default 1).
type SplitRequest struct {
	Span int `json:"span,omitempty"`
}

// MergeRequest is the JSON body for POST /api/v1/documents/merge.
// Documents are merged in the order given.
type MergeRequest struct {
	DocumentIDs []string `json:"document_ids" binding:"required,min=2,max=20"`
}

// ExtractTextRequest is the JSON body for POST /api/v1/documents/:id/text.
// An empty Pages expression extracts text from every page.
type ExtractTextRequest struct {
	Pages string `json:"pages,omitempty"`
}

// OCRRequest is the JSON body for POST /api/v1/documents/:id/ocr.
type OCRRequest struct {
	Pages    string `json:"pages,omitempty"`    // Empty = all pages
	Language string `json:"language,omitempty"` // Tesseract language string; empty = server default
}

// OperationResponse is returned by synchronous page operations.
// ResolvedCount reports how many pages the range expression matched —
// the caller's only visibility into silently dropped tokens.
type OperationResponse struct {
	Document      Document `json:"document"`
	ResolvedPages []int    `json:"resolved_pages,omitempty"`
	ResolvedCount int      `json:"resolved_count,omitempty"`
}

// SplitResponse is returned by the split operation — one document per slice.
type SplitResponse struct {
	Documents []Document `json:"documents"`
	Count     int        `json:"count"`
}

// TextResponse is returned by the text extraction operation.
type TextResponse struct {
	DocumentID    string `json:"document_id"`
	Text          string `json:"text"`
	PageCount     int    `json:"page_count"`
	WordCount     int    `json:"word_count"`
	ResolvedCount int    `json:"resolved_count,omitempty"`
}

// CreateAPIKeyRequest is the JSON body for POST /api/v1/keys.
type CreateAPIKeyRequest struct {
	Name      string `json:"name" binding:"required"`
	RateLimit int    `json:"rate_limit,omitempty"` // 0 = use default
}

// CreateAPIKeyResponse includes the raw key — shown only once at creation time.
type CreateAPIKeyResponse struct {
	APIKey
	RawKey string `json:"raw_key"` // The actual API key — save it! Only shown once.
}

// RegisterRequest is the JSON body for POST /api/v1/auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

// LoginRequest is the JSON body for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// WorkspaceResponse groups a user's saved items by type.
type WorkspaceResponse struct {
	Documents []Document `json:"documents"`
	OCRRuns   []OCRRun   `json:"ocr_runs"`
}

// SaveWorkspaceRequest is the JSON body for POST /api/v1/workspace.
type SaveWorkspaceRequest struct {
	ItemType string `json:"item_type" binding:"required,oneof=document ocr"`
	ItemID   string `json:"item_id" binding:"required"`
}

// CreateWebhookRequest is the JSON body for POST /api/v1/webhooks.
type CreateWebhookRequest struct {
	URL    string   `json:"url" binding:"required,url"`
	Events []string `json:"events" binding:"required,min=1"`
}

// UpdateWebhookRequest is the JSON body for PATCH /api/v1/webhooks/:id.
type UpdateWebhookRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// DocumentListParams holds query parameters for listing documents.
type DocumentListParams struct {
	Page     int    `form:"page"`      // Page number (1-indexed)
	PerPage  int    `form:"per_page"`  // Items per page
	SourceOp string `form:"source_op"` // Filter by origin operation
	Search   string `form:"search"`    // Search in original filename
	SortBy   string `form:"sort_by"`   // "created_at", "original_name", "page_count", "size_bytes"
	SortDir  string `form:"sort_dir"`  // "asc" or "desc"
	APIKeyID *string
}

// PaginatedResponse wraps a list response with pagination metadata.
// Go Pattern: Generics (added in Go 1.18) let us create type-safe
// containers. `any` is an alias for `interface{}` — it means "any type".
type PaginatedResponse[T any] struct {
	Data       []T `json:"data"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// ErrorResponse is a standard error format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Database  string `json:"database"`
	Workers   int    `json:"workers"`
	Tesseract string `json:"tesseract"` // "available" or "missing"
}
