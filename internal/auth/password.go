// Package auth provides password hashing and client identity for NonnoWeb.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argon2KeyLen  = 32
	argon2SaltLen = 16
	phcPrefix     = "$argon2id$"

	// Upper bounds on costs read back from a stored hash.
	maxMemory = 256 * 1024 // KiB
	maxTime   = 16
)

// Params are the Argon2id cost parameters.
type Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
}

// DefaultParams follow the OWASP 2024 recommended minimum.
var DefaultParams = Params{Time: 3, Memory: 64 * 1024, Threads: 4}

// TestParams are cheap parameters for tests.
var TestParams = Params{Time: 1, Memory: 8, Threads: 1}

var (
	// ErrInvalidHash indicates the hash format is invalid.
	ErrInvalidHash = errors.New("invalid hash format")
	// ErrIncompatibleVersion indicates the hash version is not supported.
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
)

// HashPassword creates an Argon2id hash of the password in PHC string format.
func HashPassword(password string, p Params) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, argon2KeyLen)

	// $argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.Memory,
		p.Time,
		p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// IsHash reports whether stored looks like a PHC Argon2id hash rather than
// a legacy plaintext password.
func IsHash(stored string) bool {
	return strings.HasPrefix(stored, phcPrefix)
}

// VerifyPassword checks if the password matches the hash.
// Uses constant-time comparison to prevent timing attacks.
func VerifyPassword(password, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return false, ErrInvalidHash
	}

	if parts[1] != "argon2id" {
		return false, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, ErrInvalidHash
	}
	if version != argon2.Version {
		return false, ErrIncompatibleVersion
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, ErrInvalidHash
	}
	if memory == 0 || memory > maxMemory || time == 0 || time > maxTime || threads == 0 {
		return false, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrInvalidHash
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, ErrInvalidHash
	}

	computedHash := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(expectedHash)))

	return subtle.ConstantTimeCompare(computedHash, expectedHash) == 1, nil
}

// CheckPassword verifies password against stored, which may be a hash or a
// legacy plaintext value. needsUpgrade is true when a plaintext value matched.
func CheckPassword(password, stored string) (ok, needsUpgrade bool, err error) {
	if !IsHash(stored) {
		match := subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1
		return match, match, nil
	}
	ok, err = VerifyPassword(password, stored)
	return ok, false, err
}
