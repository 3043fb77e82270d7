package app

import (
	"testing"
	"time"
)

func TestMagicTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	token, err := SignMagicToken(secret, "link-1", "user@example.com", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	linkID, email, err := ParseMagicToken(secret, token)
	if err != nil {
		t.Fatal(err)
	}
	if linkID != "link-1" || email != "user@example.com" {
		t.Fatalf("got %q %q", linkID, email)
	}
}

func TestMagicTokenWrongSecret(t *testing.T) {
	token, err := SignMagicToken([]byte("secret-a"), "link-1", "user@example.com", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := ParseMagicToken([]byte("secret-b"), token); err == nil {
		t.Fatal("wrong secret must be rejected")
	}
}

func TestMagicTokenExpired(t *testing.T) {
	secret := []byte("test-secret")
	token, err := SignMagicToken(secret, "link-1", "user@example.com", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := ParseMagicToken(secret, token); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestMagicTokenGarbage(t *testing.T) {
	if _, _, err := ParseMagicToken([]byte("x"), "not-a-jwt"); err == nil {
		t.Fatal("garbage must be rejected")
	}
}
