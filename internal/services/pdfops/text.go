// text.go provides PDF text extraction.
//
// We use the ledongthuc/pdf library for text extraction.
// It's a pure Go implementation — no CGO or external dependencies required.
// This makes deployment simpler (just a single binary).
package pdfops

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// TextResult holds the output from a PDF text extraction.
type TextResult struct {
	Text      string // Extracted text content
	PageCount int    // Number of pages text was extracted from
	WordCount int    // Word count
}

// ExtractText reads a PDF from memory and extracts text content from the
// given pages (1-based). A nil or empty pages slice means every page.
//
// Go Pattern: We accept io.ReaderAt + size instead of a filename because
// the data may come from an HTTP upload (in memory), not a file on disk.
// The pdf library requires ReaderAt for random access to the PDF structure.
func ExtractText(data []byte, pages []int) (*TextResult, error) {
	reader := bytes.NewReader(data)
	size := int64(len(data))

	pdfReader, err := pdf.NewReader(reader, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	totalPages := pdfReader.NumPage()
	if totalPages == 0 {
		return &TextResult{}, nil
	}

	if len(pages) == 0 {
		pages = make([]int, totalPages)
		for i := range pages {
			pages[i] = i + 1
		}
	}

	// Extract text from each requested page
	var allText strings.Builder
	extracted := 0
	for _, i := range pages {
		if i < 1 || i > totalPages {
			continue
		}
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Log but don't fail — some pages may have images only
			allText.WriteString(fmt.Sprintf("\n--- Page %d (text extraction failed) ---\n", i))
			continue
		}

		if extracted > 0 {
			allText.WriteString(fmt.Sprintf("\n--- Page %d ---\n", i))
		}
		allText.WriteString(strings.TrimSpace(text))
		extracted++
	}

	extractedText := strings.TrimSpace(allText.String())

	return &TextResult{
		Text:      extractedText,
		PageCount: extracted,
		WordCount: CountWords(extractedText),
	}, nil
}

// CountWords counts the number of words in a text string.
func CountWords(text string) int {
	words := strings.Fields(text)
	return len(words)
}
