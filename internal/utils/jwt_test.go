package utils

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "test-signing-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 42, "ama@example.com", "customer", 7)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	claims, err := VerifyAccessToken(testSecret, tok.Token)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "ama@example.com" {
		t.Errorf("Email = %q, want ama@example.com", claims.Email)
	}
	if claims.Role != "customer" {
		t.Errorf("Role = %q, want customer", claims.Role)
	}
	wantExp := time.Now().UTC().Add(7 * 24 * time.Hour)
	if claims.ExpiresAt.Before(wantExp.Add(-time.Minute)) || claims.ExpiresAt.After(wantExp.Add(time.Minute)) {
		t.Errorf("ExpiresAt = %v, want ~%v", claims.ExpiresAt, wantExp)
	}
}

func TestVerifyAccessTokenExpired(t *testing.T) {
	// A negative TTL produces a token whose embedded expiry is already
	// in the past.
	tok, err := NewAccessToken(testSecret, 42, "ama@example.com", "customer", -1)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, err := VerifyAccessToken(testSecret, tok.Token); err != ErrInvalidToken {
		t.Fatalf("expired token: err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyAccessTokenTampered(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 42, "ama@example.com", "customer", 7)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	// Flip one byte of the payload segment.
	parts := strings.Split(tok.Token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]
	if _, err := VerifyAccessToken(testSecret, tampered); err != ErrInvalidToken {
		t.Fatalf("tampered token: err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyAccessTokenDefectsCollapse(t *testing.T) {
	// Every defect must yield the same undifferentiated error.
	wrongKey, err := NewAccessToken("another-secret", 42, "ama@example.com", "customer", 7)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"wrong secret", wrongKey.Token},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := VerifyAccessToken(testSecret, tc.raw); err != ErrInvalidToken {
				t.Fatalf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}
