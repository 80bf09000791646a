// Package auth provides authentication primitives for saasbase: API key
// generation/validation, password hashing, JWT creation/verification, and the
// role vocabulary used for authorization decisions.
// See internal/middleware for the request-time logic that uses these primitives.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const (
	// APIKeyLength is the length of the random part of the API key in bytes
	APIKeyLength = 32

	// DisplayPrefixLength is the number of characters of the plaintext key kept
	// for display in key listings
	DisplayPrefixLength = 7
)

// GenerateAPIKey creates a new random API key with the given prefix (e.g. "sb_").
// Returns: full key (shown to the caller exactly once), sha256 hex digest
// (stored and used as the lookup key on verification), and display prefix.
//
// The digest is deterministic so verification is a single indexed equality
// lookup on the stored digest; the plaintext is never persisted.
func GenerateAPIKey(prefix string) (key string, digest string, displayPrefix string, err error) {
	randomBytes := make([]byte, APIKeyLength)
	_, err = rand.Read(randomBytes)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	// Encode to base64 (URL-safe)
	randomPart := base64.RawURLEncoding.EncodeToString(randomBytes)

	fullKey := prefix + randomPart

	displayPrefixStr := fullKey
	if len(fullKey) > DisplayPrefixLength {
		displayPrefixStr = fullKey[:DisplayPrefixLength]
	}

	return fullKey, DigestAPIKey(fullKey), displayPrefixStr, nil
}

// DigestAPIKey computes the sha256 hex digest of a plaintext API key. The same
// function is used at generation time (to store) and at verification time
// (to look up), so the two can never drift.
func DigestAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
