package auth

import (
	"strings"
	"testing"
)

func TestBcryptHasher_HashAndMatch(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher()

	hash, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if hash == "s3cret" || hash == "" {
		t.Fatalf("hash must not equal or be empty: %q", hash)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected bcrypt hash, got %q", hash)
	}

	if !h.Matches("s3cret", hash) {
		t.Fatal("Matches must accept the original password")
	}
	if h.Matches("wrong", hash) {
		t.Fatal("Matches must reject a wrong password")
	}
}

func TestBcryptHasher_SaltedHashesDiffer(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher()

	h1, err := h.Hash("same")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	h2, err := h.Hash("same")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same password must differ (salt)")
	}
}
