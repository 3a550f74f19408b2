package primitives

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashSHA256 returns the lowercase hex-encoded SHA-256 digest of data, used
// for SHATTER's plaintext chunk fingerprints (defense in depth beyond the
// AEAD tag: it survives a manifest field being swapped independently of the
// chunk ciphertext).
func HashSHA256(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
