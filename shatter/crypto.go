package shatter

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/antigravity-labs/securecore/container"
	"github.com/antigravity-labs/securecore/primitives"
)

// deriveMasterKey derives the manifest master key from a passphrase and the
// manifest's 16-byte salt using Argon2id under primitives.ShatterKDFParams.
func deriveMasterKey(passphrase string, salt []byte) *primitives.Secret {
	return primitives.DeriveMasterKeyArgon2id(passphrase, salt)
}

// newChunkKey generates a fresh 32-byte chunk key.
func newChunkKey() ([]byte, error) {
	return primitives.RandomBytes(primitives.KeySize)
}

// encryptChunk seals plaintext under chunkKey with the deterministic
// per-index nonce and AD = little-endian u64(index), returning
// nonce‖ciphertext‖tag.
func encryptChunk(chunkKey, plaintext []byte, index uint64) ([]byte, error) {
	nonce := primitives.DeterministicNonce(chunkKey, container.IndexAD(index))
	aead, err := primitives.NewAEAD(chunkKey)
	if err != nil {
		return nil, fmt.Errorf("construct chunk aead: %w", err)
	}
	ct, err := aead.Seal(nonce, plaintext, container.IndexAD(index))
	if err != nil {
		return nil, fmt.Errorf("seal chunk: %w", err)
	}
	return append(nonce, ct...), nil
}

// decryptChunk reverses encryptChunk. Any failure collapses to
// primitives.ErrCryptoVerification.
func decryptChunk(chunkKey, blob []byte, index uint64) ([]byte, error) {
	if len(blob) < primitives.NonceSize {
		return nil, primitives.ErrCryptoVerification
	}
	nonce := blob[:primitives.NonceSize]
	ct := blob[primitives.NonceSize:]
	aead, err := primitives.NewAEAD(chunkKey)
	if err != nil {
		return nil, primitives.ErrCryptoVerification
	}
	return aead.Open(nonce, ct, container.IndexAD(index))
}

// wrapChunkKey wraps a chunk key under the manifest master key with AD
// bound to the chunk's UUID string, and returns it base64-encoded for the
// manifest's "key" field.
func wrapChunkKey(masterKey, chunkKey []byte, chunkID string) (string, error) {
	wrapped, err := container.WrapKey(masterKey, chunkKey, chunkID)
	if err != nil {
		return "", fmt.Errorf("wrap chunk key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(wrapped), nil
}

// unwrapChunkKey reverses wrapChunkKey. Any failure, including a malformed
// base64 field, collapses to primitives.ErrCryptoVerification.
func unwrapChunkKey(masterKey []byte, wrappedB64, chunkID string) ([]byte, error) {
	wrapped, err := base64.StdEncoding.DecodeString(wrappedB64)
	if err != nil {
		return nil, primitives.ErrCryptoVerification
	}
	return container.UnwrapKey(masterKey, wrapped, chunkID)
}

// encryptManifest seals the manifest JSON under the master key with AD =
// u64le(0), and frames it as salt‖nonce‖ciphertext‖tag.
func encryptManifest(masterKey, salt, manifestJSON []byte) ([]byte, error) {
	nonce, err := primitives.RandomBytes(primitives.NonceSize)
	if err != nil {
		return nil, fmt.Errorf("generate manifest nonce: %w", err)
	}
	aead, err := primitives.NewAEAD(masterKey)
	if err != nil {
		return nil, fmt.Errorf("construct manifest aead: %w", err)
	}
	ct, err := aead.Seal(nonce, manifestJSON, container.IndexAD(0))
	if err != nil {
		return nil, fmt.Errorf("seal manifest: %w", err)
	}
	out := make([]byte, 0, len(salt)+len(nonce)+len(ct))
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, ct...)
	return out, nil
}

// decryptManifest reverses the salt‖nonce‖ciphertext framing and returns
// the master key (derived from passphrase + the embedded salt) plus the
// decrypted manifest JSON bytes.
func decryptManifest(passphrase string, framed []byte) (*primitives.Secret, []byte, error) {
	if len(framed) < primitives.SaltSize+primitives.NonceSize {
		return nil, nil, primitives.ErrCryptoVerification
	}
	salt := framed[:primitives.SaltSize]
	nonce := framed[primitives.SaltSize : primitives.SaltSize+primitives.NonceSize]
	ct := framed[primitives.SaltSize+primitives.NonceSize:]

	masterKey := deriveMasterKey(passphrase, salt)

	var result []byte
	err := masterKey.Use(func(key []byte) error {
		aead, aerr := primitives.NewAEAD(key)
		if aerr != nil {
			return aerr
		}
		pt, aerr := aead.Open(nonce, ct, container.IndexAD(0))
		if aerr != nil {
			return aerr
		}
		result = pt
		return nil
	})
	if err != nil {
		masterKey.Destroy()
		return nil, nil, primitives.ErrCryptoVerification
	}

	return masterKey, result, nil
}

// chunkIDHex returns a fresh random chunk id as 32 lowercase hex characters
// (no dashes), matching sharding.py's uuid.uuid4().hex. Used as both the
// manifest entry's "id" and the on-disk "<id>.enc" filename stem.
func chunkIDHex() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate chunk id: %w", err)
	}
	return strings.ReplaceAll(id.String(), "-", ""), nil
}
