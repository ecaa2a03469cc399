// auth_test.go — Unit tests for API key hashing.
//
// Go Pattern: Even simple functions deserve tests. HashAPIKey is security-critical
// — if it breaks, authentication breaks. Tests catch regressions early.
package middleware

import (
	"testing"

	"github.com/Shimizu-Technology/pdf-tools-api/internal/models"
)

var testAPIKey = models.APIKey{ID: "key-123", KeyPrefix: "pdt_abcd..."}

// TestHashAPIKey verifies that hashing is deterministic and produces
// the expected SHA-256 output.
func TestHashAPIKey(t *testing.T) {
	// Test: same input always produces same output (deterministic)
	t.Run("deterministic", func(t *testing.T) {
		key := "pdt_determinism_test"
		hash1 := HashAPIKey(key)
		hash2 := HashAPIKey(key)
		if hash1 != hash2 {
			t.Errorf("HashAPIKey is not deterministic: %q != %q", hash1, hash2)
		}
	})

	// Test: different inputs produce different outputs
	t.Run("different inputs different outputs", func(t *testing.T) {
		hash1 := HashAPIKey("pdt_key_one")
		hash2 := HashAPIKey("pdt_key_two")
		if hash1 == hash2 {
			t.Error("HashAPIKey produced same hash for different inputs")
		}
	})

	// Test: output is 64 hex characters (256 bits = 64 hex chars)
	t.Run("output length", func(t *testing.T) {
		hash := HashAPIKey("pdt_any_key")
		if len(hash) != 64 {
			t.Errorf("HashAPIKey output length = %d, want 64", len(hash))
		}
	})
}

// TestIsOwnerAPIKey verifies the owner override matching.
func TestIsOwnerAPIKey(t *testing.T) {
	key := &testAPIKey
	tests := []struct {
		name        string
		ownerID     string
		ownerPrefix string
		want        bool
	}{
		{"matches by id", "key-123", "", true},
		{"matches by prefix", "", "pdt_abcd...", true},
		{"no owner configured", "", "", false},
		{"wrong id", "other-id", "", false},
		{"wrong prefix", "", "pdt_zzzz...", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOwnerAPIKey(key, tt.ownerID, tt.ownerPrefix); got != tt.want {
				t.Errorf("IsOwnerAPIKey = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("nil key never matches", func(t *testing.T) {
		if IsOwnerAPIKey(nil, "key-123", "pdt_abcd...") {
			t.Error("IsOwnerAPIKey(nil, ...) = true, want false")
		}
	})
}
