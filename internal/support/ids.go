package support

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// SHA256Checksum hex-encodes the SHA-256 digest of content, used by
// internal/cache to key file contents without trusting mtimes.
func SHA256Checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// NewRunID generates a run identifier for a persisted analysis
// (internal/store), per SPEC_FULL.md §6.4.
func NewRunID() string {
	return uuid.New().String()
}
