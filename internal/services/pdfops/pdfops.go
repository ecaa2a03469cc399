// Package pdfops provides PDF page manipulation built on pdfcpu.
//
// pdfcpu is a pure Go PDF processor — no CGO, no external binaries.
// Every operation here takes and produces files on disk: the API stores
// uploaded documents in the storage dir, and outputs become new documents.
//
// Page selections are pdfcpu's string form ("1", "2", "10"); callers build
// them from resolved page ranges via pagerange.Selection.
package pdfops

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Service wraps pdfcpu operations with a shared configuration.
type Service struct {
	conf *model.Configuration
}

// New creates a PDF operations service.
func New() *Service {
	conf := model.NewDefaultConfiguration()
	// Relaxed validation: accept slightly malformed PDFs the way desktop
	// viewers do. Scanned documents from office copiers are rarely pristine.
	conf.ValidationMode = model.ValidationRelaxed
	return &Service{conf: conf}
}

// PageCount returns the number of pages in a PDF file.
func (s *Service) PageCount(inFile string) (int, error) {
	count, err := api.PageCountFile(inFile)
	if err != nil {
		return 0, fmt.Errorf("failed to read page count: %w", err)
	}
	return count, nil
}

// ExtractPages copies the selected pages (ascending resolved order) from
// inFile into a new document at outFile.
func (s *Service) ExtractPages(inFile, outFile string, selection []string) error {
	if err := api.TrimFile(inFile, outFile, selection, s.conf); err != nil {
		return fmt.Errorf("failed to extract pages: %w", err)
	}
	return nil
}

// RemovePages writes a copy of inFile to outFile with the selected pages removed.
func (s *Service) RemovePages(inFile, outFile string, selection []string) error {
	if err := api.RemovePagesFile(inFile, outFile, selection, s.conf); err != nil {
		return fmt.Errorf("failed to remove pages: %w", err)
	}
	return nil
}

// Rotate rotates the selected pages clockwise by the given degrees
// (90, 180, or 270). A nil selection rotates every page.
func (s *Service) Rotate(inFile, outFile string, degrees int, selection []string) error {
	if degrees != 90 && degrees != 180 && degrees != 270 {
		return fmt.Errorf("invalid rotation %d: must be 90, 180, or 270", degrees)
	}
	if err := api.RotateFile(inFile, outFile, degrees, selection, s.conf); err != nil {
		return fmt.Errorf("failed to rotate pages: %w", err)
	}
	return nil
}

// Merge concatenates the input files, in order, into a single document.
func (s *Service) Merge(inFiles []string, outFile string) error {
	if len(inFiles) < 2 {
		return fmt.Errorf("merge requires at least 2 input files, got %d", len(inFiles))
	}
	if err := api.MergeCreateFile(inFiles, outFile, false, s.conf); err != nil {
		return fmt.Errorf("failed to merge documents: %w", err)
	}
	return nil
}

// Split writes inFile into outDir as a series of documents of span pages
// each (span=1 means one document per page) and returns the output paths
// in page order.
func (s *Service) Split(inFile, outDir string, span int) ([]string, error) {
	if span < 1 {
		span = 1
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create split output dir: %w", err)
	}
	if err := api.SplitFile(inFile, outDir, span, s.conf); err != nil {
		return nil, fmt.Errorf("failed to split document: %w", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read split output dir: %w", err)
	}

	var outputs []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".pdf") {
			outputs = append(outputs, filepath.Join(outDir, e.Name()))
		}
	}
	// pdfcpu names outputs "<base>_<firstpage>.pdf"; lexical order puts
	// page 10 before page 2, so sort numerically on the page suffix.
	sort.Slice(outputs, func(i, j int) bool {
		return splitFileOrdinal(outputs[i]) < splitFileOrdinal(outputs[j])
	})
	return outputs, nil
}

// ExtractImages pulls embedded page images out of inFile into outDir for
// the selected pages, returning the written image paths. This is the feed
// for OCR: scanned PDFs carry one full-page image per page.
func (s *Service) ExtractImages(inFile, outDir string, selection []string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image output dir: %w", err)
	}
	if err := api.ExtractImagesFile(inFile, outDir, selection, s.conf); err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image output dir: %w", err)
	}

	var images []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg", ".tif", ".tiff":
			images = append(images, filepath.Join(outDir, e.Name()))
		}
	}
	sort.Slice(images, func(i, j int) bool {
		pi, pj := PageFromImageName(images[i]), PageFromImageName(images[j])
		if pi != pj {
			return pi < pj
		}
		return images[i] < images[j]
	})
	return images, nil
}

// imagePagePattern matches pdfcpu's image filenames: "<base>_<page>_<Im#>.<ext>".
var imagePagePattern = regexp.MustCompile(`_(\d+)_[^_]+\.\w+$`)

// PageFromImageName extracts the 1-based page number from a pdfcpu image
// filename. Returns 0 when the name doesn't match the expected pattern.
func PageFromImageName(path string) int {
	m := imagePagePattern.FindStringSubmatch(filepath.Base(path))
	if len(m) != 2 {
		return 0
	}
	page, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return page
}

// splitFileOrdinal extracts the trailing page number from a pdfcpu split
// output filename ("<base>_<firstpage>.pdf").
func splitFileOrdinal(path string) int {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	idx := strings.LastIndex(name, "_")
	if idx < 0 {
		return 0
	}
	n, err := strconv.Atoi(name[idx+1:])
	if err != nil {
		return 0
	}
	return n
}

// ValidatePDF checks if the data looks like a valid PDF by checking the magic bytes.
func ValidatePDF(data []byte) bool {
	// PDF files start with "%PDF-"
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}
