package vault

import (
	"os"
	"path/filepath"

	"github.com/antigravity-labs/securecore/internal/atomicio"
	"github.com/antigravity-labs/securecore/primitives"
)

// SentinelFilename is the root-of-trust file marking a folder as locked.
const SentinelFilename = ".vault_manifest"

// State is one of the four folder states the sentinel determines.
type State int

const (
	// StatePlain means no sentinel exists: the folder is unlocked.
	StatePlain State = iota
	// StateLockedThisKey means the sentinel verifies under the supplied
	// passphrase.
	StateLockedThisKey
	// StateLockedOther means a sentinel exists but does not verify under
	// the supplied passphrase.
	StateLockedOther
	// StateCorrupt means the sentinel exists but cannot even be parsed
	// (truncated, wrong framing).
	StateCorrupt
)

// inspectSentinel reads the sentinel at folder root (if any) and reports
// which of the four states the folder is in for the given passphrase.
func inspectSentinel(folder, passphrase string) (State, error) {
	path := filepath.Join(folder, SentinelFilename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return StatePlain, nil
		}
		return StateCorrupt, err
	}

	if len(data) < primitives.SaltSize+primitives.NonceSize {
		return StateCorrupt, nil
	}

	if verifySentinel(data, passphrase) {
		return StateLockedThisKey, nil
	}
	return StateLockedOther, nil
}

// verifySentinel reports whether data decrypts to the expected magic
// string under passphrase.
func verifySentinel(data []byte, passphrase string) bool {
	salt := data[:primitives.SaltSize]
	rest := data[primitives.SaltSize:]

	masterKey, err := deriveMasterKey(passphrase, salt)
	if err != nil {
		return false
	}
	defer masterKey.Destroy()

	ok := false
	masterKey.Use(func(mk []byte) error {
		subkey, serr := deriveSentinelSubkey(mk)
		if serr != nil {
			return serr
		}
		if len(rest) < primitives.NonceSize {
			return primitives.ErrCryptoVerification
		}
		nonce := rest[:primitives.NonceSize]
		ct := rest[primitives.NonceSize:]
		aead, aerr := primitives.NewAEAD(subkey)
		if aerr != nil {
			return aerr
		}
		pt, aerr := aead.Open(nonce, ct, nil)
		if aerr != nil {
			return aerr
		}
		ok = primitives.ConstantTimeEqual(string(pt), sentinelMagic)
		return nil
	})
	return ok
}

// writeSentinel derives a fresh salt and master key, seals the magic
// string under the sentinel subkey, and atomically writes the sentinel and
// its ".bak" copy. Returns the master key for the caller to reuse for the
// rest of the folder walk.
func writeSentinel(folder, passphrase string) (*primitives.Secret, error) {
	salt, err := primitives.NewSalt()
	if err != nil {
		return nil, err
	}
	masterKey, err := deriveMasterKey(passphrase, salt)
	if err != nil {
		return nil, err
	}

	var framed []byte
	err = masterKey.Use(func(mk []byte) error {
		subkey, serr := deriveSentinelSubkey(mk)
		if serr != nil {
			return serr
		}
		nonce, rerr := primitives.RandomBytes(primitives.NonceSize)
		if rerr != nil {
			return rerr
		}
		aead, aerr := primitives.NewAEAD(subkey)
		if aerr != nil {
			return aerr
		}
		ct, aerr := aead.Seal(nonce, []byte(sentinelMagic), nil)
		if aerr != nil {
			return aerr
		}
		framed = append(append(append([]byte{}, salt...), nonce...), ct...)
		return nil
	})
	if err != nil {
		masterKey.Destroy()
		return nil, err
	}

	path := filepath.Join(folder, SentinelFilename)
	if err := atomicio.WriteFile(path, framed, 0o600); err != nil {
		masterKey.Destroy()
		return nil, err
	}
	if err := atomicio.CopyFile(path, path+".bak"); err != nil {
		masterKey.Destroy()
		return nil, err
	}
	return masterKey, nil
}

// loadMasterKey re-derives the master key for an already-verified sentinel.
func loadMasterKey(folder, passphrase string) (*primitives.Secret, error) {
	path := filepath.Join(folder, SentinelFilename)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < primitives.SaltSize {
		return nil, primitives.ErrCryptoVerification
	}
	salt := data[:primitives.SaltSize]
	return deriveMasterKey(passphrase, salt)
}

// eraseSentinel securely erases the sentinel and its backup after a
// successful folder decrypt.
func eraseSentinel(folder string) error {
	path := filepath.Join(folder, SentinelFilename)
	if err := atomicio.SecureErase(path); err != nil {
		return err
	}
	return atomicio.SecureErase(path + ".bak")
}
