package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/estermelatii/wishkeeper/internal/common"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateToken("alice@example.com", "user-123", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	claims, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.Subject != "alice@example.com" {
		t.Fatalf("subject mismatch: got %q", claims.Subject)
	}
	if claims.UserID != "user-123" {
		t.Fatalf("userID mismatch: got %q", claims.UserID)
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		t.Fatalf("missing issued-at or expiry: %+v", claims)
	}
	if !claims.ExpiresAt.After(claims.IssuedAt.Time) {
		t.Fatalf("expiry must be after issued-at")
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := GenerateToken("u1@example.com", "u1", secret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = ParseToken(tok, secret)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("u2@example.com", "u2", []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = ParseToken(tok, []byte("wrong-secret"))
	if !errors.Is(err, common.ErrTokenMalformed) {
		t.Fatalf("expected common.ErrTokenMalformed, got %v", err)
	}
}

func TestParseToken_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := ParseToken("not.a.jwt", []byte("k"))
	if !errors.Is(err, common.ErrTokenMalformed) {
		t.Fatalf("expected common.ErrTokenMalformed, got %v", err)
	}
}

func TestExtractProjections(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := GenerateToken("bob@example.com", "id-9", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	sub, err := ExtractSubject(tok, secret)
	if err != nil || sub != "bob@example.com" {
		t.Fatalf("ExtractSubject = %q, %v", sub, err)
	}

	uid, err := ExtractUserID(tok, secret)
	if err != nil || uid != "id-9" {
		t.Fatalf("ExtractUserID = %q, %v", uid, err)
	}

	if _, err := ExtractSubject("garbage", secret); !errors.Is(err, common.ErrTokenMalformed) {
		t.Fatalf("expected malformed error, got %v", err)
	}
}
