package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestNewAccessTokenClaims(t *testing.T) {
	at, err := NewAccessToken("secret", 42, "HOST", 15)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	tok, err := jwt.Parse(at.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if claims["sub"].(float64) != 42 {
		t.Errorf("sub = %v, want 42", claims["sub"])
	}
	if claims["role"] != "HOST" {
		t.Errorf("role = %v, want HOST", claims["role"])
	}
	if time.Until(at.Exp) > 15*time.Minute || time.Until(at.Exp) < 14*time.Minute {
		t.Errorf("unexpected expiry %v", at.Exp)
	}
}

func TestNewRefreshTokenIsRandom(t *testing.T) {
	a, err := NewRefreshToken(30)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	b, err := NewRefreshToken(30)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if a.Raw == b.Raw {
		t.Error("two refresh tokens must not collide")
	}
	if len(a.Raw) != 96 {
		t.Errorf("raw length = %d, want 96 hex chars", len(a.Raw))
	}
}

func TestHashRefreshRawStable(t *testing.T) {
	h1 := HashRefreshRaw("abc")
	h2 := HashRefreshRaw("abc")
	if h1 != h2 {
		t.Error("hash must be deterministic")
	}
	if h1 == "abc" || len(h1) != 64 {
		t.Errorf("unexpected hash %q", h1)
	}
}
