// Package ocr provides Optical Character Recognition for scanned PDFs.
//
// This package wraps the Tesseract OCR engine via gosseract. It requires
// Tesseract to be installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr tesseract-ocr-eng
//
// Recognition works on page images: scanned PDFs carry one full-page image
// per page, which we pull out with pdfcpu, clean up with the imaging
// package, and feed to Tesseract one page at a time.
package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/Shimizu-Technology/pdf-tools-api/internal/pagerange"
	imagingservice "github.com/Shimizu-Technology/pdf-tools-api/internal/services/imaging"
	"github.com/Shimizu-Technology/pdf-tools-api/internal/services/pdfops"
)

// Client wraps Tesseract for OCR operations.
// A Client is NOT safe for concurrent use — create one per goroutine
// (the worker pool creates one per job).
type Client struct {
	client *gosseract.Client
}

// NewClient creates a new OCR client with the given language(s).
// Multiple languages are specified as a "+" separated string (e.g. "eng+fra").
// The client must be closed when no longer needed to release resources.
func NewClient(language string) (*Client, error) {
	client := gosseract.NewClient()
	if language != "" {
		if err := client.SetLanguage(language); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set OCR language %q: %w", language, err)
		}
	}
	return &Client{client: client}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// RecognizeFile performs OCR on an image file (PNG, TIFF, JPEG, etc.).
// Returns the recognized text with leading/trailing whitespace trimmed.
func (c *Client) RecognizeFile(path string) (string, error) {
	if err := c.client.SetImage(path); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// RecognizeImage performs OCR on in-memory image data.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// PageResult holds the recognized text for one page.
type PageResult struct {
	PageNumber int
	Text       string
	WordCount  int
}

// Result holds the output of an OCR pass over a document.
type Result struct {
	Pages     []PageResult
	Text      string // All pages concatenated in page order
	WordCount int
}

// Service runs OCR over PDF documents.
type Service struct {
	pdf           *pdfops.Service
	tesseractPath string
	defaultLang   string
}

// New creates an OCR service. tesseractPath may be empty when the binary
// is missing; Available reports this and handlers reject OCR requests.
func New(pdf *pdfops.Service, tesseractPath, defaultLang string) *Service {
	if defaultLang == "" {
		defaultLang = "eng"
	}
	return &Service{
		pdf:           pdf,
		tesseractPath: tesseractPath,
		defaultLang:   defaultLang,
	}
}

// Available reports whether a Tesseract binary was found at startup.
func (s *Service) Available() bool {
	return s.tesseractPath != ""
}

// DefaultLanguage returns the configured default Tesseract language string.
func (s *Service) DefaultLanguage() string {
	return s.defaultLang
}

// RecognizePDF extracts the page images for the given pages (1-based,
// ascending) from a PDF file, preprocesses them, and runs Tesseract on
// each. Pages without an extractable image produce an empty PageResult
// rather than an error — consistent with how the rest of the pipeline
// treats unusable pages.
func (s *Service) RecognizePDF(ctx context.Context, inFile string, pages []int, language string) (*Result, error) {
	if !s.Available() {
		return nil, fmt.Errorf("tesseract binary not found; install tesseract-ocr or set TESSERACT_PATH")
	}
	if language == "" {
		language = s.defaultLang
	}
	if len(pages) == 0 {
		return &Result{}, nil
	}

	// Page images land in a temp dir that disappears with the job.
	tmpDir, err := os.MkdirTemp("", "pdf-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	images, err := s.pdf.ExtractImages(inFile, tmpDir, pagerange.Selection(pages))
	if err != nil {
		return nil, fmt.Errorf("failed to extract page images: %w", err)
	}

	// Index the first image found for each page. Scanned pages carry a
	// single full-page image; if a page somehow has several, the first is
	// the page scan and the rest are embedded artifacts.
	imageByPage := make(map[int]string)
	for _, img := range images {
		page := pdfops.PageFromImageName(img)
		if page > 0 {
			if _, ok := imageByPage[page]; !ok {
				imageByPage[page] = img
			}
		}
	}

	client, err := NewClient(language)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	result := &Result{}
	var allText strings.Builder

	for _, page := range pages {
		// OCR is slow; honor cancellation between pages.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		pr := PageResult{PageNumber: page}

		if img, ok := imageByPage[page]; ok {
			cleaned := filepath.Join(tmpDir, fmt.Sprintf("prep_%d.png", page))
			src := img
			if err := imagingservice.PreprocessFile(img, cleaned); err == nil {
				src = cleaned
			}
			// Preprocessing failures fall back to the raw image — worse
			// accuracy beats a failed job.

			text, err := client.RecognizeFile(src)
			if err != nil {
				return nil, fmt.Errorf("OCR failed on page %d: %w", page, err)
			}
			pr.Text = text
			pr.WordCount = pdfops.CountWords(text)
		}

		if pr.Text != "" {
			if allText.Len() > 0 {
				allText.WriteString(fmt.Sprintf("\n--- Page %d ---\n", page))
			}
			allText.WriteString(pr.Text)
		}

		result.Pages = append(result.Pages, pr)
	}

	result.Text = strings.TrimSpace(allText.String())
	result.WordCount = pdfops.CountWords(result.Text)
	return result, nil
}
