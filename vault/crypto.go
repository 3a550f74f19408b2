package vault

import (
	"fmt"

	"github.com/antigravity-labs/securecore/container"
	"github.com/antigravity-labs/securecore/primitives"
)

// Fixed HKDF salts/info labels, matching
// modules/vault/core/security.py/crypto_manager.py. These are part of the
// on-disk format, not configuration: changing them breaks compatibility
// with every sentinel and file already written.
var (
	fileSubkeyInfo     = []byte("file-encryption-key")
	nameSubkeySalt     = []byte("FILENAME_ENCRYPTION_SALT")
	sentinelSubkeySalt = []byte("MANIFEST_KEY_SALT")
	sentinelSubkeyInfo = []byte("")
)

const sentinelMagic = "ANTIGRAVITY_VAULT_OK_v2"

// deriveMasterKey derives the folder master key from a passphrase and the
// folder's 16-byte salt using scrypt under primitives.VaultKDFParams.
func deriveMasterKey(passphrase string, salt []byte) (*primitives.Secret, error) {
	return primitives.DeriveMasterKeyScrypt(passphrase, salt)
}

// deriveNameSubkey derives the one per-vault subkey used for every
// filename and directory name.
func deriveNameSubkey(masterKey []byte) ([]byte, error) {
	return primitives.DeriveSubkey(masterKey, nameSubkeySalt, []byte(""))
}

// deriveFileSubkey derives a per-file subkey from the master key and that
// file's own random salt.
func deriveFileSubkey(masterKey, fileSalt []byte) ([]byte, error) {
	return primitives.DeriveSubkey(masterKey, fileSalt, fileSubkeyInfo)
}

// deriveSentinelSubkey derives the subkey the sentinel's magic string is
// sealed under.
func deriveSentinelSubkey(masterKey []byte) ([]byte, error) {
	return primitives.DeriveSubkey(masterKey, sentinelSubkeySalt, sentinelSubkeyInfo)
}

// encryptName seals name under subkey with a fresh random nonce and no
// associated data, returning the raw AEAD blob (caller base64-urlsafe
// encodes it for use as a filename). Random-nonce, non-deterministic —
// unlike the teacher's SIV mode, VAULT names do not need to be
// content-addressed, only reversible under the passphrase.
func encryptName(subkey []byte, name string) ([]byte, error) {
	nonce, err := primitives.RandomBytes(primitives.NonceSize)
	if err != nil {
		return nil, fmt.Errorf("generate name nonce: %w", err)
	}
	aead, err := primitives.NewAEAD(subkey)
	if err != nil {
		return nil, fmt.Errorf("construct name aead: %w", err)
	}
	ct, err := aead.Seal(nonce, []byte(name), nil)
	if err != nil {
		return nil, fmt.Errorf("seal name: %w", err)
	}
	return append(nonce, ct...), nil
}

// decryptName reverses encryptName. Any failure collapses to
// primitives.ErrCryptoVerification.
func decryptName(subkey []byte, blob []byte) (string, error) {
	if len(blob) < primitives.NonceSize {
		return "", primitives.ErrCryptoVerification
	}
	nonce := blob[:primitives.NonceSize]
	ct := blob[primitives.NonceSize:]
	aead, err := primitives.NewAEAD(subkey)
	if err != nil {
		return "", primitives.ErrCryptoVerification
	}
	pt, err := aead.Open(nonce, ct, nil)
	if err != nil {
		return "", primitives.ErrCryptoVerification
	}
	return string(pt), nil
}

// encryptFileChunk seals one file chunk under fileSubkey with a fresh
// random nonce and AD = little-endian u64(index).
func encryptFileChunk(fileSubkey, plaintext []byte, index uint64) ([]byte, error) {
	nonce, err := primitives.RandomBytes(primitives.NonceSize)
	if err != nil {
		return nil, fmt.Errorf("generate chunk nonce: %w", err)
	}
	aead, err := primitives.NewAEAD(fileSubkey)
	if err != nil {
		return nil, fmt.Errorf("construct file aead: %w", err)
	}
	ct, err := aead.Seal(nonce, plaintext, container.IndexAD(index))
	if err != nil {
		return nil, fmt.Errorf("seal file chunk: %w", err)
	}
	return append(nonce, ct...), nil
}

// decryptFileChunk reverses encryptFileChunk. Any failure collapses to
// primitives.ErrCryptoVerification.
func decryptFileChunk(fileSubkey, blob []byte, index uint64) ([]byte, error) {
	if len(blob) < primitives.NonceSize {
		return nil, primitives.ErrCryptoVerification
	}
	nonce := blob[:primitives.NonceSize]
	ct := blob[primitives.NonceSize:]
	aead, err := primitives.NewAEAD(fileSubkey)
	if err != nil {
		return nil, primitives.ErrCryptoVerification
	}
	return aead.Open(nonce, ct, container.IndexAD(index))
}
