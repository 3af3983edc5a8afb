package auth

import (
	"testing"
	"time"
)

func TestVerifyRoundtrip(t *testing.T) {
	v := NewVerifier("test-secret")

	token, err := v.Issue("user-1", "user@example.com", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sess, err := v.Verify(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.UserID != "user-1" || sess.Email != "user@example.com" {
		t.Fatalf("unexpected session %+v", sess)
	}
	if sess.Anonymous() {
		t.Fatal("expected non-anonymous session")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewVerifier("secret-a").Issue("user-1", "", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := NewVerifier("secret-b").Verify(token); err == nil {
		t.Fatal("expected verification to fail with wrong secret")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	v := NewVerifier("test-secret")

	token, err := v.Issue("user-1", "", -time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := v.Verify(token); err == nil {
		t.Fatal("expected verification to fail for expired token")
	}
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	v := NewVerifier("test-secret")

	token, err := v.Issue("", "user@example.com", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := v.Verify(token); err == nil {
		t.Fatal("expected verification to fail without subject")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	v := NewVerifier("test-secret")

	for _, token := range []string{"", "   ", "not-a-token"} {
		if _, err := v.Verify(token); err == nil {
			t.Fatalf("expected verification to fail for %q", token)
		}
	}
}
