package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateAndParseJWT(t *testing.T) {
	secret := "test-secret-12345"
	userID := uuid.New()

	token, err := GenerateJWT(secret, userID, "gestor", time.Hour)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	claims, err := ParseJWT(secret, token)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("expected user_id=%s, got %s", userID, claims.UserID)
	}
	if claims.Role != "gestor" {
		t.Errorf("expected role=gestor, got %s", claims.Role)
	}
}

func TestParseJWT_WrongSecret(t *testing.T) {
	token, err := GenerateJWT("secret-a", uuid.New(), "admin", time.Hour)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if _, err := ParseJWT("secret-b", token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParseJWT_Expired(t *testing.T) {
	token, err := GenerateJWT("secret", uuid.New(), "admin", -time.Minute)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if _, err := ParseJWT("secret", token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if hash == "s3cret-password" {
		t.Fatal("hash must not equal plaintext")
	}

	if !CheckPassword(hash, "s3cret-password") {
		t.Error("expected password to verify")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Error("expected wrong password to fail")
	}
}
