package primitives

import (
	"crypto/rand"
	"fmt"
)

// RandomBytes returns n cryptographically secure random bytes from the
// platform CSPRNG. No userspace reseeding or pooling is performed.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return b, nil
}

// SaltSize is the fixed size of every keying-context salt in this module:
// VAULT folder salt, VAULT per-file salt, SHATTER manifest salt.
const SaltSize = 16

// NewSalt returns a fresh SaltSize-byte random salt.
func NewSalt() ([]byte, error) {
	return RandomBytes(SaltSize)
}
