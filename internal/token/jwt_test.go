package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestGenerateVerifyRoundTrip(t *testing.T) {
	userID := uuid.New()

	tok, err := Generate("secret", userID, "user@example.com", "ADMIN", time.Hour)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	claims, err := Verify("secret", tok)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.ID != userID.String() {
		t.Errorf("id = %s, want %s", claims.ID, userID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("email = %s, want user@example.com", claims.Email)
	}
	if claims.Role != "ADMIN" {
		t.Errorf("role = %s, want ADMIN", claims.Role)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		t.Fatalf("missing expiry: %v", err)
	}
	if remaining := time.Until(exp.Time); remaining < 59*time.Minute || remaining > time.Hour {
		t.Errorf("expiry window = %v, want ~1h", remaining)
	}
}

func TestGenerateDefaultTTL(t *testing.T) {
	tok, err := Generate("secret", uuid.New(), "user@example.com", "CLIENT", 0)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	claims, err := Verify("secret", tok)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	exp, _ := claims.GetExpirationTime()
	if remaining := time.Until(exp.Time); remaining < 59*time.Minute || remaining > time.Hour {
		t.Errorf("default TTL should be one hour, got %v", remaining)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	tok, err := Generate("secret", uuid.New(), "user@example.com", "CLIENT", time.Hour)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if _, err := Verify("other-secret", tok); err == nil {
		t.Fatalf("token signed with a different secret must not verify")
	}
}

func TestVerifyExpired(t *testing.T) {
	claims := Claims{
		ID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}

	if _, err := Verify("secret", expired); err == nil {
		t.Fatalf("expired token must not verify")
	}
}

func TestVerifyGarbage(t *testing.T) {
	if _, err := Verify("secret", "not-a-token"); err == nil {
		t.Fatalf("garbage must not verify")
	}
}
