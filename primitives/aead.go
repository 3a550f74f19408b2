package primitives

import (
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// NonceSize is the ChaCha20-Poly1305 nonce size in bytes.
	NonceSize = chacha20poly1305.NonceSize
	// TagSize is the ChaCha20-Poly1305 authentication tag size in bytes.
	TagSize = chacha20poly1305.Overhead
	// KeySize is the ChaCha20-Poly1305 key size in bytes.
	KeySize = chacha20poly1305.KeySize
)

// AEAD wraps ChaCha20-Poly1305 encryption/decryption. Associated data is
// mandatory wherever the format calls for it; passing nil AD where the
// format requires a specific AD value is a caller bug, not a supported mode.
type AEAD struct {
	key []byte
}

// NewAEAD constructs an AEAD engine bound to a 32-byte key.
func NewAEAD(key []byte) (*AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("chacha20poly1305 requires a %d-byte key, got %d", KeySize, len(key))
	}
	return &AEAD{key: key}, nil
}

// Seal encrypts plaintext under nonce and ad, returning ciphertext‖tag.
func (a *AEAD) Seal(nonce, plaintext, ad []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("nonce must be %d bytes, got %d", NonceSize, len(nonce))
	}
	aead, err := chacha20poly1305.New(a.key)
	if err != nil {
		return nil, fmt.Errorf("construct aead: %w", err)
	}
	return aead.Seal(nil, nonce, plaintext, ad), nil
}

// Open authenticates and decrypts ciphertext‖tag under nonce and ad. All
// failures collapse to ErrCryptoVerification; callers must not attempt to
// distinguish malformed input from a tampered tag from a wrong key.
func (a *AEAD) Open(nonce, ciphertext, ad []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		return nil, ErrCryptoVerification
	}
	aead, err := chacha20poly1305.New(a.key)
	if err != nil {
		return nil, ErrCryptoVerification
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, ad)
	if err != nil {
		return nil, ErrCryptoVerification
	}
	return plaintext, nil
}

// DeterministicNonce derives nonce = HMAC-SHA256(key, ctx)[:12]. Safe only
// when the (key, ctx) pair is guaranteed unique — SHATTER relies on each
// chunk having its own randomly generated key, so even a fixed per-chunk
// context yields a fresh (key, nonce) pair every time.
func DeterministicNonce(key, ctx []byte) []byte {
	return hmacTruncate(key, ctx, NonceSize)
}
