package vault

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/antigravity-labs/securecore"
)

// encryptFileEntry encrypts one regular file's content, then its basename,
// in place: content first so a rename failure never leaves a plaintext
// file under an already-renamed path.
func encryptFileEntry(masterKey, nameSubkey []byte, path string) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	if estimatedNameLen(len(base)) > maxPathLen-len(dir) {
		return securecore.NewInputError(path, "encrypted name would exceed the path length policy")
	}

	tmpPath := path + encryptedExt + ".tmp"
	if err := encryptFileContent(masterKey, path, tmpPath); err != nil {
		return securecore.NewCryptoError(path, "file-encrypt-failed", err)
	}

	encPath := path + encryptedExt
	if err := os.Rename(tmpPath, encPath); err != nil {
		os.Remove(tmpPath)
		return securecore.NewIOError("rename", encPath, err)
	}

	if err := secureEraseFile(path); err != nil {
		return securecore.NewIOError("secure-erase", path, err)
	}

	encodedName, err := encryptedName(nameSubkey, base)
	if err != nil {
		return securecore.NewCryptoError(path, "filename-encrypt-failed", err)
	}
	finalPath := filepath.Join(dir, encodedName+encryptedExt)
	if err := os.Rename(encPath, finalPath); err != nil {
		return securecore.NewIOError("rename", finalPath, err)
	}
	return nil
}

// decryptFileEntry reverses encryptFileEntry: decrypts the name (falling
// back to a "decrypted_<name>" placeholder if that fails, matching
// file_utils.py's _decrypt_single_file), then streams the content back.
func decryptFileEntry(masterKey, nameSubkey []byte, path string) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, encryptedExt)

	plainName, err := decryptedName(nameSubkey, stem)
	if err != nil {
		plainName = "decrypted_" + stem
	}

	tmpPath := filepath.Join(dir, plainName+".tmp")
	if err := decryptFileContent(masterKey, path, tmpPath); err != nil {
		return securecore.NewCryptoError(path, "file-decrypt-failed", err)
	}

	finalPath := filepath.Join(dir, plainName)
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return securecore.NewIOError("rename", finalPath, err)
	}

	if err := os.Remove(path); err != nil {
		return securecore.NewIOError("remove", path, err)
	}
	return nil
}

// encryptDirEntry renames a non-root directory's leaf name to its
// encrypted form.
func encryptDirEntry(nameSubkey []byte, path string) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	if estimatedNameLen(len(base)) > maxPathLen-len(dir) {
		return securecore.NewInputError(path, "encrypted name would exceed the path length policy")
	}

	encodedName, err := encryptedName(nameSubkey, base)
	if err != nil {
		return securecore.NewCryptoError(path, "dirname-encrypt-failed", err)
	}
	finalPath := filepath.Join(dir, encodedName)
	if err := os.Rename(path, finalPath); err != nil {
		return securecore.NewIOError("rename", finalPath, err)
	}
	return nil
}

// decryptDirEntry reverses encryptDirEntry. A directory whose name fails to
// decrypt is left untouched, matching the spec's "whose leaf name decrypts
// successfully" qualifier.
func decryptDirEntry(nameSubkey []byte, path string) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	plainName, err := decryptedName(nameSubkey, base)
	if err != nil {
		return nil
	}
	finalPath := filepath.Join(dir, plainName)
	if err := os.Rename(path, finalPath); err != nil {
		return securecore.NewIOError("rename", finalPath, err)
	}
	return nil
}
