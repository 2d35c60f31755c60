package service

import (
	"errors"
	"testing"
)

func TestAuthService_TokenRoundTrip(t *testing.T) {
	svc := NewAuthService("test-secret", 3600)

	token, err := svc.IssueToken(42)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	userID, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if userID != 42 {
		t.Errorf("userID = %d, want 42", userID)
	}
}

func TestAuthService_ExpiredToken(t *testing.T) {
	// Negative max age makes exp fall in the past.
	svc := NewAuthService("test-secret", -60)

	token, err := svc.IssueToken(7)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	_, err = svc.VerifyToken(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("error = %v, want %v", err, ErrTokenExpired)
	}
}

func TestAuthService_WrongSecret(t *testing.T) {
	issuer := NewAuthService("secret-a", 3600)
	verifier := NewAuthService("secret-b", 3600)

	token, err := issuer.IssueToken(7)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	_, err = verifier.VerifyToken(token)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("error = %v, want %v", err, ErrTokenInvalid)
	}
}

func TestAuthService_MalformedToken(t *testing.T) {
	svc := NewAuthService("test-secret", 3600)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.VerifyToken(token); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("VerifyToken(%q) error = %v, want %v", token, err, ErrTokenInvalid)
		}
	}
}
