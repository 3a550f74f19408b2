package container

import (
	"fmt"

	"github.com/antigravity-labs/securecore/primitives"
)

// WrapKey encrypts keyToWrap under master with AD bound to ctx, the identity
// of the thing the key belongs to (SHATTER: the chunk's UUID). The returned
// blob is nonce(12) ‖ AEAD_ciphertext ‖ tag(16).
//
// ctx MUST be the identity of the slot the key is destined for. Moving a
// wrapped key to a different slot (a different ctx) makes it unwrappable —
// this is the point: it defeats cut-and-paste attacks across chunks.
func WrapKey(master, keyToWrap []byte, ctx string) ([]byte, error) {
	nonce, err := primitives.RandomBytes(primitives.NonceSize)
	if err != nil {
		return nil, fmt.Errorf("generate wrap nonce: %w", err)
	}
	aead, err := primitives.NewAEAD(master)
	if err != nil {
		return nil, fmt.Errorf("construct wrap aead: %w", err)
	}
	ciphertext, err := aead.Seal(nonce, keyToWrap, []byte(ctx))
	if err != nil {
		return nil, fmt.Errorf("wrap key: %w", err)
	}
	return append(nonce, ciphertext...), nil
}

// UnwrapKey reverses WrapKey. Unwrapping under any ctx other than the one it
// was wrapped with fails with the generic cryptographic-verification error —
// never a distinct oracle that would let a caller tell "wrong context" from
// "tampered ciphertext" from "wrong master key".
func UnwrapKey(master, wrapped []byte, ctx string) ([]byte, error) {
	if len(wrapped) < primitives.NonceSize {
		return nil, primitives.ErrCryptoVerification
	}
	nonce := wrapped[:primitives.NonceSize]
	ciphertext := wrapped[primitives.NonceSize:]

	aead, err := primitives.NewAEAD(master)
	if err != nil {
		return nil, primitives.ErrCryptoVerification
	}
	return aead.Open(nonce, ciphertext, []byte(ctx))
}
