package vault

import (
	"io"
	"os"

	"github.com/antigravity-labs/securecore/internal/atomicio"
	"github.com/antigravity-labs/securecore/primitives"
)

// fileChunkSize is VAULT's streaming chunk size (64 KiB), fixed and part of
// the on-disk format.
const fileChunkSize = 64 * 1024

const encryptedExt = ".agv"

// encryptFileContent streams plaintext from srcPath in fileChunkSize
// blocks, writing "file_salt ‖ {nonce‖ct‖tag}*" to dstPath via a temp file
// plus atomic rename.
func encryptFileContent(masterKey []byte, srcPath, dstPath string) error {
	fileSalt, err := primitives.NewSalt()
	if err != nil {
		return err
	}
	fileSubkey, err := deriveFileSubkey(masterKey, fileSalt)
	if err != nil {
		return err
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	tmpPath := dstPath + ".tmp"
	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer func() {
		tmp.Close()
		os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(fileSalt); err != nil {
		return err
	}

	buf := make([]byte, fileChunkSize)
	var index uint64
	for {
		n, readErr := io.ReadFull(src, buf)
		if n > 0 {
			blob, encErr := encryptFileChunk(fileSubkey, buf[:n], index)
			if encErr != nil {
				return encErr
			}
			if _, werr := tmp.Write(blob); werr != nil {
				return werr
			}
			index++
		}
		if readErr == io.EOF {
			break
		}
		if readErr == io.ErrUnexpectedEOF {
			break
		}
		if readErr != nil {
			return readErr
		}
	}

	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, dstPath)
}

// decryptFileContent streams srcPath (file_salt ‖ {nonce‖ct‖tag}*) and
// writes the recovered plaintext to dstPath via a temp file plus atomic
// rename. Per spec, the final chunk's length is derived from file size,
// not an in-band length field.
func decryptFileContent(masterKey []byte, srcPath, dstPath string) error {
	info, err := os.Stat(srcPath)
	if err != nil {
		return err
	}
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	saltBuf := make([]byte, primitives.SaltSize)
	if _, err := io.ReadFull(src, saltBuf); err != nil {
		return primitives.ErrCryptoVerification
	}
	fileSubkey, err := deriveFileSubkey(masterKey, saltBuf)
	if err != nil {
		return err
	}

	remaining := info.Size() - primitives.SaltSize
	const recordOverhead = primitives.NonceSize + primitives.TagSize
	fullRecord := int64(fileChunkSize + recordOverhead)

	tmpPath := dstPath + ".tmp"
	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer func() {
		tmp.Close()
		os.Remove(tmpPath)
	}()

	var index uint64
	for remaining > 0 {
		recordLen := fullRecord
		if remaining < fullRecord {
			recordLen = remaining
		}
		if recordLen < recordOverhead {
			return primitives.ErrCryptoVerification
		}

		blob := make([]byte, recordLen)
		if _, err := io.ReadFull(src, blob); err != nil {
			return primitives.ErrCryptoVerification
		}

		plaintext, err := decryptFileChunk(fileSubkey, blob, index)
		if err != nil {
			return primitives.ErrCryptoVerification
		}
		if _, err := tmp.Write(plaintext); err != nil {
			return err
		}

		remaining -= recordLen
		index++
	}

	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, dstPath)
}

func secureEraseFile(path string) error {
	return atomicio.SecureErase(path)
}
