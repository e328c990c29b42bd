package auth

import (
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPassword(hash, "correct horse battery staple") {
		t.Error("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("expected non-matching password to fail")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	jwt := NewJWT("test-secret")

	token, err := jwt.Generate(42, "user@example.com")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(strings.Split(token, ".")) != 3 {
		t.Fatalf("expected three token segments, got %q", token)
	}

	claims, err := jwt.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user ID 42, got %d", claims.UserID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("unexpected email %q", claims.Email)
	}
}

func TestJWTRejectsTampering(t *testing.T) {
	jwt := NewJWT("test-secret")
	token, err := jwt.Generate(42, "user@example.com")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := jwt.Validate(token + "x"); err == nil {
		t.Error("expected tampered signature to be rejected")
	}
	if _, err := jwt.Validate("not-a-token"); err == nil {
		t.Error("expected malformed token to be rejected")
	}
	if _, err := NewJWT("other-secret").Validate(token); err == nil {
		t.Error("expected token signed with a different secret to be rejected")
	}
}
