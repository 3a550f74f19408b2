package vault

import (
	"encoding/base64"

	"github.com/antigravity-labs/securecore/primitives"
)

// maxPathLen is the conservative path-length cap enforced before any name
// is encrypted, to avoid an OS-level path-length failure mid-walk.
const maxPathLen = 250

// encryptedName returns the url-safe base64 form of name encrypted under
// subkey — the string used as the on-disk basename (before the ".agv"
// suffix is appended for files).
func encryptedName(subkey []byte, name string) (string, error) {
	blob, err := encryptName(subkey, name)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(blob), nil
}

// decryptedName reverses encryptedName.
func decryptedName(subkey []byte, encoded string) (string, error) {
	blob, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	return decryptName(subkey, blob)
}

// estimatedNameLen returns the approximate base64-url length of an
// AEAD-encrypted name of plaintext length n, used for the path-length
// policy check before encrypting.
func estimatedNameLen(n int) int {
	raw := primitives.NonceSize + primitives.TagSize + n
	return base64.URLEncoding.EncodedLen(raw)
}
