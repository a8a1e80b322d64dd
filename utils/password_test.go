package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hashed, err := HashPassword("s3cret-pass", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hashed == "s3cret-pass" {
		t.Fatal("stored password equals the plaintext")
	}

	if !CheckPassword(hashed, "s3cret-pass") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hashed, "wrong-pass") {
		t.Error("wrong password accepted")
	}
}
