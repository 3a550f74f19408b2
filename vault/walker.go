package vault

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/antigravity-labs/securecore"
	"github.com/antigravity-labs/securecore/progress"
)

// EncryptInput configures an EncryptFolder invocation.
type EncryptInput struct {
	Folder     string
	Passphrase string
	Progress   progress.Func
	Logger     logrus.FieldLogger
}

// DecryptInput configures a DecryptFolder invocation.
type DecryptInput struct {
	Folder     string
	Passphrase string
	Progress   progress.Func
	Logger     logrus.FieldLogger
}

func loggerOrDefault(l logrus.FieldLogger) logrus.FieldLogger {
	if l != nil {
		return l
	}
	return logrus.StandardLogger()
}

func progressOrNop(p progress.Func) progress.Func {
	if p == nil {
		return progress.Nop
	}
	return p
}

// EncryptFolder walks in.Folder bottom-up, encrypting every regular file's
// content and every file/directory name in place, and writes a sentinel at
// the root proving the folder is locked under in.Passphrase.
//
// State rules: PLAIN -> LOCKED-THIS-KEY succeeds. LOCKED-THIS-KEY or
// LOCKED-OTHER refuse with a conflict error. CORRUPT refuses with a format
// error; the caller may inspect ".vault_manifest.bak" by hand.
func EncryptFolder(ctx context.Context, in EncryptInput) error {
	if in.Folder == "" {
		return securecore.NewInputError("", "folder is required")
	}
	if in.Passphrase == "" {
		return securecore.NewInputError(in.Folder, "passphrase is required")
	}
	info, err := os.Stat(in.Folder)
	if err != nil || !info.IsDir() {
		return securecore.NewInputError(in.Folder, "folder does not exist or is not a directory")
	}

	state, err := inspectSentinel(in.Folder, in.Passphrase)
	if err != nil {
		return securecore.NewIOError("read", filepath.Join(in.Folder, SentinelFilename), err)
	}
	switch state {
	case StateLockedThisKey:
		return securecore.NewConflictError(in.Folder, "already locked by this passphrase")
	case StateLockedOther:
		return securecore.NewConflictError(in.Folder, "existing sentinel; refuse to double-lock")
	case StateCorrupt:
		return securecore.NewFormatError(in.Folder, "sentinel exists but is unreadable", nil)
	}

	log := loggerOrDefault(in.Logger).WithField("component", "vault")
	prog := progressOrNop(in.Progress)

	masterKey, err := writeSentinel(in.Folder, in.Passphrase)
	if err != nil {
		return securecore.NewCryptoError(in.Folder, "sentinel-write-failed", err)
	}
	defer masterKey.Destroy()

	var mk []byte
	if err := masterKey.Use(func(k []byte) error {
		mk = append([]byte(nil), k...)
		return nil
	}); err != nil {
		return securecore.NewCryptoError(in.Folder, "master-key-open-failed", err)
	}
	defer zeroBytes(mk)

	nameSubkey, err := deriveNameSubkey(mk)
	if err != nil {
		return securecore.NewCryptoError(in.Folder, "name-subkey-derivation-failed", err)
	}
	defer zeroBytes(nameSubkey)

	entries, err := walkBottomUp(in.Folder, walkModeEncrypt)
	if err != nil {
		return securecore.NewIOError("walk", in.Folder, err)
	}

	total := len(entries)
	for i, ent := range entries {
		select {
		case <-ctx.Done():
			return securecore.NewIOError("encrypt", in.Folder, ctx.Err())
		default:
		}

		if ent.isDir {
			if ent.path == in.Folder {
				continue
			}
			if err := encryptDirEntry(nameSubkey, ent.path); err != nil {
				return err
			}
		} else {
			if err := encryptFileEntry(mk, nameSubkey, ent.path); err != nil {
				return err
			}
		}
		prog(float64(i+1)/float64(total), ent.path)
		log.WithField("path", ent.path).Debug("encrypted")
	}

	log.WithField("folder", in.Folder).Info("vault encrypt complete")
	return nil
}

// DecryptFolder reverses EncryptFolder: verifies the sentinel, walks
// bottom-up, decrypts every name and every file's content, then securely
// erases the sentinel on success.
//
// State rules: LOCKED-THIS-KEY -> PLAIN succeeds. LOCKED-OTHER refuses
// with "wrong passphrase." PLAIN or CORRUPT refuse.
func DecryptFolder(ctx context.Context, in DecryptInput) error {
	if in.Folder == "" {
		return securecore.NewInputError("", "folder is required")
	}
	if in.Passphrase == "" {
		return securecore.NewInputError(in.Folder, "passphrase is required")
	}

	state, err := inspectSentinel(in.Folder, in.Passphrase)
	if err != nil {
		return securecore.NewIOError("read", filepath.Join(in.Folder, SentinelFilename), err)
	}
	switch state {
	case StatePlain:
		return securecore.NewInputError(in.Folder, "folder is not locked")
	case StateLockedOther:
		return securecore.NewCryptoError(in.Folder, "wrong-passphrase", nil)
	case StateCorrupt:
		return securecore.NewFormatError(in.Folder, "sentinel exists but is unreadable", nil)
	}

	log := loggerOrDefault(in.Logger).WithField("component", "vault")
	prog := progressOrNop(in.Progress)

	masterKey, err := loadMasterKey(in.Folder, in.Passphrase)
	if err != nil {
		return securecore.NewCryptoError(in.Folder, "master-key-derivation-failed", err)
	}
	defer masterKey.Destroy()

	var mk []byte
	if err := masterKey.Use(func(k []byte) error {
		mk = append([]byte(nil), k...)
		return nil
	}); err != nil {
		return securecore.NewCryptoError(in.Folder, "master-key-open-failed", err)
	}
	defer zeroBytes(mk)

	nameSubkey, err := deriveNameSubkey(mk)
	if err != nil {
		return securecore.NewCryptoError(in.Folder, "name-subkey-derivation-failed", err)
	}
	defer zeroBytes(nameSubkey)

	entries, err := walkBottomUp(in.Folder, walkModeDecrypt)
	if err != nil {
		return securecore.NewIOError("walk", in.Folder, err)
	}

	total := len(entries)
	for i, ent := range entries {
		select {
		case <-ctx.Done():
			return securecore.NewIOError("decrypt", in.Folder, ctx.Err())
		default:
		}

		if ent.isDir {
			if ent.path == in.Folder {
				continue
			}
			if err := decryptDirEntry(nameSubkey, ent.path); err != nil {
				return err
			}
		} else {
			if err := decryptFileEntry(mk, nameSubkey, ent.path); err != nil {
				return err
			}
		}
		prog(float64(i+1)/float64(total), ent.path)
		log.WithField("path", ent.path).Debug("decrypted")
	}

	if err := eraseSentinel(in.Folder); err != nil {
		return securecore.NewIOError("secure-erase", filepath.Join(in.Folder, SentinelFilename), err)
	}

	log.WithField("folder", in.Folder).Info("vault decrypt complete")
	return nil
}

type walkEntry struct {
	path  string
	isDir bool
	depth int
}

// walkMode selects which regular files walkBottomUp yields: encrypting
// only ever touches plaintext (non-".agv") files, decrypting only ever
// touches ciphertext ("*.agv") files. Directories are never filtered by
// this — every directory in the tree still needs its name processed in
// both directions.
type walkMode int

const (
	walkModeEncrypt walkMode = iota
	walkModeDecrypt
)

// walkBottomUp returns every directory entry under root relevant to mode
// (root itself included, last), ordered so that every child appears before
// its parent — the ordering EncryptFolder/DecryptFolder rely on so a
// directory is never renamed out from under files still being processed
// inside it.
//
// Per mode, regular files are filtered by their ".agv" suffix: encrypt
// skips files already encrypted (spec: "skip files already ending in
// .agv"), decrypt only processes encrypted files (spec: "each *.agv
// file"), matching file_utils.py's process_folder.
func walkBottomUp(root string, mode walkMode) ([]walkEntry, error) {
	var entries []walkEntry
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") || strings.HasSuffix(name, SentinelFilename) ||
			name == SentinelFilename+".bak" {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			isEncrypted := strings.HasSuffix(name, encryptedExt)
			if mode == walkModeEncrypt && isEncrypted {
				return nil
			}
			if mode == walkModeDecrypt && !isEncrypted {
				return nil
			}
		}
		depth := strings.Count(strings.TrimPrefix(path, root), string(os.PathSeparator))
		entries = append(entries, walkEntry{path: path, isDir: d.IsDir(), depth: depth})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].depth > entries[j].depth
	})
	entries = append(entries, walkEntry{path: root, isDir: true, depth: 0})
	return entries, nil
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
