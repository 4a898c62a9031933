package auth

import (
	"strings"
	"testing"
)

func TestHashPassword_Format(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("admin123", DefaultParams)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	// $argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Fatalf("Hash should have 6 parts, got: %d", len(parts))
	}
	if parts[1] != "argon2id" {
		t.Errorf("Expected argon2id algorithm, got: %s", parts[1])
	}
	if parts[2] != "v=19" {
		t.Errorf("Expected v=19, got: %s", parts[2])
	}
	if parts[3] != "m=65536,t=3,p=4" {
		t.Errorf("Expected m=65536,t=3,p=4, got: %s", parts[3])
	}
	if !IsHash(hash) {
		t.Error("IsHash should recognise its own output")
	}
}

func TestHashPassword_Uniqueness(t *testing.T) {
	t.Parallel()

	hash1, err := HashPassword("same", TestParams)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	hash2, err := HashPassword("same", TestParams)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash1 == hash2 {
		t.Error("Same password should produce different hashes due to random salt")
	}

	match1, _ := VerifyPassword("same", hash1)
	match2, _ := VerifyPassword("same", hash2)
	if !match1 || !match2 {
		t.Error("Both hashes should verify correctly")
	}
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("admin123", TestParams)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"correct", "admin123", true},
		{"wrong", "admin124", false},
		{"empty", "", false},
		{"case differs", "ADMIN123", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := VerifyPassword(tt.password, hash)
			if err != nil {
				t.Fatalf("VerifyPassword error: %v", err)
			}
			if got != tt.want {
				t.Errorf("VerifyPassword(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestVerifyPassword_InvalidHash(t *testing.T) {
	t.Parallel()

	invalid := []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=4$!!!$aGFzaA",
		"$argon2id$v=19$bogus$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=4294967295,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8,t=1000,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8,t=1,p=0$c2FsdA$aGFzaA",
	}

	for _, hash := range invalid {
		if _, err := VerifyPassword("x", hash); err != ErrInvalidHash {
			t.Errorf("VerifyPassword(%q) err = %v, want ErrInvalidHash", hash, err)
		}
	}

	if _, err := VerifyPassword("x", "$argon2id$v=18$m=8,t=1,p=1$c2FsdA$aGFzaA"); err != ErrIncompatibleVersion {
		t.Errorf("expected ErrIncompatibleVersion, got %v", err)
	}
}

func TestCheckPassword_LegacyPlaintext(t *testing.T) {
	t.Parallel()

	ok, upgrade, err := CheckPassword("admin123", "admin123")
	if err != nil || !ok || !upgrade {
		t.Fatalf("plaintext match: ok=%v upgrade=%v err=%v", ok, upgrade, err)
	}

	ok, upgrade, err = CheckPassword("wrong", "admin123")
	if err != nil || ok || upgrade {
		t.Fatalf("plaintext mismatch: ok=%v upgrade=%v err=%v", ok, upgrade, err)
	}

	hash, _ := HashPassword("admin123", TestParams)
	ok, upgrade, err = CheckPassword("admin123", hash)
	if err != nil || !ok || upgrade {
		t.Fatalf("hashed match: ok=%v upgrade=%v err=%v", ok, upgrade, err)
	}
}
