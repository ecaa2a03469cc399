// pdfops_test.go — Unit tests for the pure helpers in the PDF operations
// service. The pdfcpu-backed file operations are exercised against real
// documents in integration environments; here we cover the logic that
// doesn't need a PDF on disk.
package pdfops

import "testing"

func TestValidatePDF(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"valid header", []byte("%PDF-1.7\n..."), true},
		{"minimal header", []byte("%PDF-"), true},
		{"html masquerading", []byte("<html><body>not a pdf"), false},
		{"empty data", []byte{}, false},
		{"truncated header", []byte("%PD"), false},
		{"header not at start", []byte("\n%PDF-1.4"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidatePDF(tt.data); got != tt.want {
				t.Errorf("ValidatePDF(%q) = %v, want %v", tt.data, got, tt.want)
			}
		})
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"whitespace only", "   \n\t  ", 0},
		{"single word", "hello", 1},
		{"multiple words", "the quick brown fox", 4},
		{"mixed whitespace", "one\ttwo\nthree  four", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWords(tt.text); got != tt.want {
				t.Errorf("CountWords(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

// TestPageFromImageName verifies parsing of pdfcpu's image output filenames.
func TestPageFromImageName(t *testing.T) {
	tests := []struct {
		name string
		path string
		want int
	}{
		{"typical name", "/tmp/ocr/scan_1_Im0.png", 1},
		{"double digit page", "/tmp/ocr/scan_12_Im0.png", 12},
		{"second image on page", "report_3_Im1.jpg", 3},
		{"underscore in base name", "my_scan_7_Im0.png", 7},
		{"no page component", "cover.png", 0},
		{"non-numeric page", "scan_x_Im0.png", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PageFromImageName(tt.path); got != tt.want {
				t.Errorf("PageFromImageName(%q) = %d, want %d", tt.path, got, tt.want)
			}
		})
	}
}

func TestSplitFileOrdinal(t *testing.T) {
	tests := []struct {
		name string
		path string
		want int
	}{
		{"first page", "/out/doc_1.pdf", 1},
		{"tenth page", "/out/doc_10.pdf", 10},
		{"underscored base", "/out/my_doc_3.pdf", 3},
		{"no ordinal", "/out/doc.pdf", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitFileOrdinal(tt.path); got != tt.want {
				t.Errorf("splitFileOrdinal(%q) = %d, want %d", tt.path, got, tt.want)
			}
		})
	}
}
