// Package identity derives and maintains the salted one-way hash that
// stands in for a recipient's email in public assertion documents.
package identity

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// hashPrefix tags the digest algorithm, as required by the hosted
// assertion format.
const hashPrefix = "sha256$"

// saltLength keeps salts short enough to embed in every assertion while
// still defeating rainbow-table lookups of common addresses.
const saltLength = 5

// Hash computes the identity hash for a raw identity value and salt:
// "sha256$" followed by the hex digest of raw+salt. Deterministic so the
// stored hash can be recomputed for no-op detection.
func Hash(raw, salt string) string {
	sum := sha256.Sum256([]byte(raw + salt))
	return hashPrefix + hex.EncodeToString(sum[:])
}

// GenerateSalt produces a short random token. Entropy comes from a v4 UUID
// (crypto/rand underneath); collisions across the user population are
// negligible and harmless since salts are per-user.
func GenerateSalt() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])[:saltLength]
}
