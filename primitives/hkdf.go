package primitives

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// DeriveSubkey derives a 32-byte subkey from master using HKDF-SHA-256 with
// the given salt and info label. Used for VAULT's per-file subkey (info =
// "file-encryption-key"), VAULT's filename subkey (salt =
// "FILENAME_ENCRYPTION_SALT"), and VAULT's sentinel subkey (salt =
// "MANIFEST_KEY_SALT").
func DeriveSubkey(master, salt, info []byte) ([]byte, error) {
	r := hkdf.New(sha256.New, master, salt, info)
	out := make([]byte, KeySize)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("hkdf derive: %w", err)
	}
	return out, nil
}
