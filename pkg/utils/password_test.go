package utils

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("pw12345678")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "pw12345678" {
		t.Fatalf("password not hashed")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	if !VerifyPassword("pw12345678", hash) {
		t.Errorf("correct password should verify")
	}
	if VerifyPassword("wrongpass", hash) {
		t.Errorf("wrong password should not verify")
	}
	if VerifyPassword("", hash) {
		t.Errorf("empty password should not verify")
	}
}

func TestVerifyPasswordEmptyHash(t *testing.T) {
	if VerifyPassword("anything", "") {
		t.Errorf("empty hash should never verify")
	}
}

func TestGenerateRandomString(t *testing.T) {
	s := GenerateRandomString(32)
	if len(s) != 32 {
		t.Fatalf("length = %d, want 32", len(s))
	}
	if s == GenerateRandomString(32) {
		t.Errorf("two random strings should differ")
	}
}
