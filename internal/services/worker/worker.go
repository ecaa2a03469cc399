// Package worker provides a background job processing system using goroutines.
//
// Go Pattern: Goroutines and channels are Go's concurrency primitives.
// A goroutine is like a lightweight thread (thousands are fine), and
// channels are typed pipes for communication between goroutines.
//
// This worker pool pattern is very common in Go:
// 1. Create a buffered channel as a job queue
// 2. Spawn N worker goroutines that read from the channel
// 3. Send jobs to the channel from your HTTP handlers
// 4. Workers process jobs concurrently
//
// Think of it like a restaurant: the channel is the order window,
// workers are the cooks, and handlers are the waiters taking orders.
//
// Only OCR runs through the pool — the synchronous page operations are
// fast enough to answer in the request, but Tesseract can take minutes.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/Shimizu-Technology/pdf-tools-api/internal/database"
	"github.com/Shimizu-Technology/pdf-tools-api/internal/models"
	"github.com/Shimizu-Technology/pdf-tools-api/internal/pagerange"
	"github.com/Shimizu-Technology/pdf-tools-api/internal/services/ocr"
	"github.com/Shimizu-Technology/pdf-tools-api/internal/services/webhook"
)

// JobType identifies what kind of work a job represents.
type JobType string

const (
	JobOCR JobType = "ocr"
)

// Job represents a unit of work to be processed by a worker.
type Job struct {
	ID        string // The database record ID
	Type      JobType
	Payload   json.RawMessage // Flexible payload — different job types need different data
	CreatedAt time.Time
}

// OCRPayload is the data needed for an OCR job.
type OCRPayload struct {
	RunID    string `json:"run_id"`
	Pages    string `json:"pages"`    // Range expression as submitted; "" means all pages
	Language string `json:"language"` // Tesseract language string; "" means server default
}

// Pool manages a pool of worker goroutines.
type Pool struct {
	// Go Pattern: Channels are the backbone of Go concurrency.
	// This buffered channel acts as our job queue.
	// Buffered means it can hold `queueSize` jobs before blocking.
	jobs       chan Job
	workers    int
	db         *database.DB
	recognizer *ocr.Service
	storageDir string
	webhooks   *webhook.Service

	// Go Pattern: sync.WaitGroup tracks running goroutines.
	// We call wg.Add(1) when starting a worker, wg.Done() when it finishes,
	// and wg.Wait() blocks until all workers are done (used for graceful shutdown).
	wg sync.WaitGroup

	// Go Pattern: context.Context with cancel for graceful shutdown.
	// When we call cancel(), all workers' contexts are cancelled.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewPool creates a new worker pool.
func NewPool(workers, queueSize int, db *database.DB, recognizer *ocr.Service, storageDir string) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		jobs:       make(chan Job, queueSize), // Buffered channel
		workers:    workers,
		db:         db,
		recognizer: recognizer,
		storageDir: storageDir,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// SetWebhookService wires in the webhook service for job event notifications.
// Optional — without it, jobs complete silently.
func (p *Pool) SetWebhookService(ws *webhook.Service) {
	p.webhooks = ws
}

// Start launches the worker goroutines.
// Go Pattern: The `go` keyword starts a new goroutine (lightweight thread).
// Each worker runs in its own goroutine, reading from the shared jobs channel.
func (p *Pool) Start() {
	log.Printf("🚀 Starting %d background workers", p.workers)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i) // Launch worker goroutine
	}
}

// Stop gracefully shuts down all workers.
// Go Pattern: Close the channel + cancel the context + wait for completion.
func (p *Pool) Stop() {
	log.Println("⏹️  Stopping workers...")
	p.cancel()    // Signal all workers to stop
	close(p.jobs) // Close the channel (workers will drain remaining jobs)
	p.wg.Wait()   // Wait for all workers to finish
	log.Println("✅ All workers stopped")
}

// Submit adds a job to the queue.
// Returns an error if the queue is full (non-blocking).
func (p *Pool) Submit(job Job) error {
	// Go Pattern: `select` with `default` makes channel operations non-blocking.
	// Without default, sending to a full channel would block the HTTP handler.
	select {
	case p.jobs <- job:
		log.Printf("📥 Job queued: %s (type: %s)", job.ID, job.Type)
		return nil
	default:
		return fmt.Errorf("job queue is full; try again later")
	}
}

// SubmitBlocking adds a job to the queue, waiting for space until the
// context is done. Used for the owner key's queue-full bypass.
func (p *Pool) SubmitBlocking(ctx context.Context, job Job) error {
	select {
	case p.jobs <- job:
		log.Printf("📥 Job queued (blocking): %s (type: %s)", job.ID, job.Type)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("timed out waiting for queue space: %w", ctx.Err())
	case <-p.ctx.Done():
		return fmt.Errorf("worker pool is shutting down")
	}
}

// QueueSize returns the current number of jobs in the queue.
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}

// WorkerCount returns the number of workers.
func (p *Pool) WorkerCount() int {
	return p.workers
}

// worker is the main loop for each worker goroutine.
// It reads jobs from the channel and processes them.
func (p *Pool) worker(id int) {
	defer p.wg.Done() // Signal completion when this worker exits

	log.Printf("👷 Worker %d started", id)

	// Go Pattern: `range` over a channel reads values until the channel is closed.
	// This is the idiomatic way to consume from a channel.
	for job := range p.jobs {
		// Check if we should stop
		select {
		case <-p.ctx.Done():
			log.Printf("👷 Worker %d shutting down", id)
			return
		default:
			// Continue processing
		}

		log.Printf("👷 Worker %d processing job: %s (type: %s)", id, job.ID, job.Type)

		var err error
		switch job.Type {
		case JobOCR:
			err = p.processOCR(job)
		default:
			log.Printf("❌ Worker %d: unknown job type: %s", id, job.Type)
		}

		if err != nil {
			log.Printf("❌ Worker %d: job %s failed: %v", id, job.ID, err)
		} else {
			log.Printf("✅ Worker %d: job %s completed", id, job.ID)
		}
	}

	log.Printf("👷 Worker %d stopped", id)
}

// processOCR handles OCR jobs: resolve the requested page range against the
// document, run Tesseract page by page, and persist the run plus per-page
// results. The job and run records move through pending → processing →
// completed/failed together.
func (p *Pool) processOCR(job Job) error {
	ctx := p.ctx

	// Get the job record from the database
	j, err := p.db.GetJob(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("failed to get job: %w", err)
	}

	// Update status to processing
	j.Status = models.StatusProcessing
	if err := p.db.UpdateJob(ctx, j); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	// Parse the job payload
	var payload OCRPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return p.failJob(ctx, j, payload.RunID, fmt.Errorf("invalid ocr payload: %w", err))
	}

	doc, err := p.db.GetDocument(ctx, j.DocumentID)
	if err != nil {
		return p.failJob(ctx, j, payload.RunID, fmt.Errorf("document not found: %w", err))
	}

	// Resolve the page range against the document. An empty expression means
	// the whole document; a non-empty one that matches nothing fails the job
	// (the handler already rejected this case, but the document may have
	// changed between submit and processing).
	var pages []int
	if payload.Pages == "" {
		pages = pagerange.All(doc.PageCount)
	} else {
		pages = pagerange.Resolve(payload.Pages, doc.PageCount)
	}
	if len(pages) == 0 {
		return p.failJob(ctx, j, payload.RunID, fmt.Errorf("page range %q matches no pages", payload.Pages))
	}

	inFile := filepath.Join(p.storageDir, doc.Filename)
	result, err := p.recognizer.RecognizePDF(ctx, inFile, pages, payload.Language)
	if err != nil {
		return p.failJob(ctx, j, payload.RunID, fmt.Errorf("ocr failed: %w", err))
	}

	// Persist per-page results first, then the run summary
	for _, pr := range result.Pages {
		page := &models.OCRPage{
			RunID:      payload.RunID,
			PageNumber: pr.PageNumber,
			Text:       pr.Text,
			WordCount:  pr.WordCount,
		}
		if err := p.db.CreateOCRPage(ctx, page); err != nil {
			return p.failJob(ctx, j, payload.RunID, fmt.Errorf("failed to save page %d: %w", pr.PageNumber, err))
		}
	}

	run, err := p.db.GetOCRRun(ctx, payload.RunID)
	if err != nil {
		return p.failJob(ctx, j, payload.RunID, fmt.Errorf("ocr run not found: %w", err))
	}
	run.PageCount = len(result.Pages)
	run.Text = result.Text
	run.WordCount = result.WordCount
	run.Status = models.StatusCompleted
	if err := p.db.UpdateOCRRun(ctx, run); err != nil {
		return p.failJob(ctx, j, payload.RunID, fmt.Errorf("failed to save ocr run: %w", err))
	}

	j.Status = models.StatusCompleted
	j.ResultID = &payload.RunID
	if err := p.db.UpdateJob(ctx, j); err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}

	p.notify(ctx, "job.completed", j)
	return nil
}

// failJob marks a job (and its OCR run, if one exists) as failed and fires
// the failure webhook. It returns the original error for the worker log.
func (p *Pool) failJob(ctx context.Context, j *models.Job, runID string, cause error) error {
	j.Status = models.StatusFailed
	j.ErrorMessage = cause.Error()
	if err := p.db.UpdateJob(ctx, j); err != nil {
		log.Printf("⚠️  Failed to mark job %s failed: %v", j.ID, err)
	}

	if runID != "" {
		if run, err := p.db.GetOCRRun(ctx, runID); err == nil {
			run.Status = models.StatusFailed
			if err := p.db.UpdateOCRRun(ctx, run); err != nil {
				log.Printf("⚠️  Failed to mark ocr run %s failed: %v", runID, err)
			}
		}
	}

	p.notify(ctx, "job.failed", j)
	return cause
}

// notify fires a webhook event if the webhook service is wired in.
func (p *Pool) notify(ctx context.Context, event string, j *models.Job) {
	if p.webhooks == nil {
		return
	}
	p.webhooks.NotifyEvent(ctx, event, j)
}
