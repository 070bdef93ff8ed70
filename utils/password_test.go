package utils

import "testing"

func TestHashPasswordNeverPlaintext(t *testing.T) {
	hashed, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if hashed == "secret1" {
		t.Fatal("stored password must not be the plaintext value")
	}
	if hashed == "" {
		t.Fatal("expected a non-empty hash")
	}
}

func TestCheckPassword(t *testing.T) {
	hashed, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if !CheckPassword(hashed, "secret1") {
		t.Fatal("expected the correct password to verify")
	}
	if CheckPassword(hashed, "wrong-password") {
		t.Fatal("expected a wrong password to fail verification")
	}
}
