package webhook

import "testing"

func TestSignPayload(t *testing.T) {
	payload := []byte(`{"event":"job.completed"}`)

	sig1 := SignPayload(payload, "secret-a")
	sig2 := SignPayload(payload, "secret-a")
	if sig1 != sig2 {
		t.Error("same payload and secret produced different signatures")
	}

	// HMAC-SHA256 hex = 64 characters
	if len(sig1) != 64 {
		t.Errorf("signature length = %d, want 64", len(sig1))
	}

	if SignPayload(payload, "secret-b") == sig1 {
		t.Error("different secrets produced the same signature")
	}
	if SignPayload([]byte(`{"event":"job.failed"}`), "secret-a") == sig1 {
		t.Error("different payloads produced the same signature")
	}
}

func TestGenerateSecret(t *testing.T) {
	s1, err := GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret error: %v", err)
	}
	// 32 random bytes hex-encoded
	if len(s1) != 64 {
		t.Errorf("secret length = %d, want 64", len(s1))
	}

	s2, err := GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret error: %v", err)
	}
	if s1 == s2 {
		t.Error("two generated secrets are identical")
	}
}
