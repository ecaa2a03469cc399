// export_test.go contains tests for the export helpers.
//
// Go Pattern: Table-driven tests are the standard Go testing pattern.
// You define a slice of test cases (each with a name, inputs, and expected
// outputs), then loop through them. This makes it easy to add new cases
// and keeps the test logic DRY.
package handlers

import (
	"strings"
	"testing"
)

// TestSanitizeFilename verifies filename sanitization.
func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "clean filename",
			input:    "Quarterly Report",
			expected: "Quarterly Report",
		},
		{
			name:     "slashes and colons",
			input:    "Invoices 1/2: January",
			expected: "Invoices 1-2- January",
		},
		{
			name:     "special characters",
			input:    "Scan? <Page 1>",
			expected: "Scan- -Page 1-",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "long name gets truncated",
			input:    strings.Repeat("a", 200),
			expected: strings.Repeat("a", 100),
		},
	}

	for _, tt := range tests {
		// Go Pattern: t.Run creates a sub-test with its own name.
		// This makes test output clearer: "TestSanitizeFilename/empty_string"
		t.Run(tt.name, func(t *testing.T) {
			result := sanitizeFilename(tt.input)
			if result != tt.expected {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

// TestDerivedName verifies output document naming.
func TestDerivedName(t *testing.T) {
	tests := []struct {
		name     string
		original string
		op       string
		expected string
	}{
		{"simple pdf", "report.pdf", "extracted", "report (extracted).pdf"},
		{"no extension", "report", "merged", "report (merged).pdf"},
		{"empty name", "", "rotated", "document (rotated).pdf"},
		{"dotted name", "scan.v2.pdf", "part 3", "scan.v2 (part 3).pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := derivedName(tt.original, tt.op)
			if result != tt.expected {
				t.Errorf("derivedName(%q, %q) = %q, want %q", tt.original, tt.op, result, tt.expected)
			}
		})
	}
}
