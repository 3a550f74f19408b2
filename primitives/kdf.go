package primitives

import (
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/scrypt"
)

// Argon2idParams bind SHATTER's memory-hard KDF configuration into the
// format. These are NOT caller-configurable: SHATTER manifests are versioned
// and the parameters are part of that version's contract.
type Argon2idParams struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
}

// ShatterKDFParams is the fixed Argon2id parameter set for SHATTER manifests
// (64 MiB memory, 2 passes, parallelism 2), matching
// modules/shatter/core/crypto.py's derive_master_key.
var ShatterKDFParams = Argon2idParams{
	MemoryKiB:   64 * 1024,
	Iterations:  2,
	Parallelism: 2,
}

// DeriveMasterKeyArgon2id derives a 32-byte master key from a passphrase and
// salt using Argon2id under ShatterKDFParams.
func DeriveMasterKeyArgon2id(passphrase string, salt []byte) *Secret {
	key := argon2.IDKey([]byte(passphrase), salt, ShatterKDFParams.Iterations,
		ShatterKDFParams.MemoryKiB, ShatterKDFParams.Parallelism, KeySize)
	return NewSecret(key)
}

// ScryptParams bind VAULT's memory-hard KDF configuration into the format.
type ScryptParams struct {
	N int
	R int
	P int
}

// VaultKDFParams is the fixed scrypt parameter set for VAULT folders
// (N=2^16, r=8, p=1), matching modules/vault/core/security.py's
// derive_master_key.
var VaultKDFParams = ScryptParams{
	N: 1 << 16,
	R: 8,
	P: 1,
}

// DeriveMasterKeyScrypt derives a 32-byte master key from a passphrase and
// salt using scrypt under VaultKDFParams.
func DeriveMasterKeyScrypt(passphrase string, salt []byte) (*Secret, error) {
	key, err := scrypt.Key([]byte(passphrase), salt, VaultKDFParams.N, VaultKDFParams.R, VaultKDFParams.P, KeySize)
	if err != nil {
		return nil, fmt.Errorf("scrypt derive: %w", err)
	}
	return NewSecret(key), nil
}
