package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity-labs/securecore"
)

func mustWriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	}
}

func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		require.NoError(t, err)
		if d.IsDir() || path == root {
			return nil
		}
		rel, rerr := filepath.Rel(root, path)
		require.NoError(t, rerr)
		data, rerr := os.ReadFile(path)
		require.NoError(t, rerr)
		out[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}

// VA-1: a simple two-file folder locks and unlocks back to its original
// contents, with names unreadable in between.
func TestVA1FolderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	mustWriteTree(t, dir, map[string]string{
		"a.txt":     "hi",
		"sub/b.txt": "bye",
	})

	require.NoError(t, EncryptFolder(context.Background(), EncryptInput{Folder: dir, Passphrase: "pw"}))

	_, err := os.Stat(filepath.Join(dir, "a.txt"))
	assert.True(t, os.IsNotExist(err), "plaintext name should no longer exist")

	var sawEncFiles int
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, werr error) error {
		require.NoError(t, werr)
		if !d.IsDir() && filepath.Ext(path) == encryptedExt {
			sawEncFiles++
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, sawEncFiles)

	require.NoError(t, DecryptFolder(context.Background(), DecryptInput{Folder: dir, Passphrase: "pw"}))

	got := readTree(t, dir)
	assert.Equal(t, map[string]string{
		"a.txt":     "hi",
		"sub/b.txt": "bye",
	}, got)
}

// VA-2: a Unicode filename round-trips byte-exact.
func TestVA2UnicodeFilenameRoundTrip(t *testing.T) {
	dir := t.TempDir()
	mustWriteTree(t, dir, map[string]string{
		"Düma_🌍.txt": "unicode content",
	})

	require.NoError(t, EncryptFolder(context.Background(), EncryptInput{Folder: dir, Passphrase: "pw"}))
	require.NoError(t, DecryptFolder(context.Background(), DecryptInput{Folder: dir, Passphrase: "pw"}))

	got := readTree(t, dir)
	assert.Equal(t, map[string]string{"Düma_🌍.txt": "unicode content"}, got)
}

// Security law 5: wrong passphrase is refused before any file is touched.
func TestDecryptFolderWrongPassphraseLeavesFolderUntouched(t *testing.T) {
	dir := t.TempDir()
	mustWriteTree(t, dir, map[string]string{"a.txt": "hi"})

	require.NoError(t, EncryptFolder(context.Background(), EncryptInput{Folder: dir, Passphrase: "right"}))

	before := listNames(t, dir)

	err := DecryptFolder(context.Background(), DecryptInput{Folder: dir, Passphrase: "wrong"})
	require.Error(t, err)
	assert.True(t, securecore.Is(err, securecore.KindCrypto))

	after := listNames(t, dir)
	assert.Equal(t, before, after)
}

// Security law 6: double-encrypting a locked folder is refused, both for
// the same and for a different passphrase.
func TestEncryptFolderRefusesDoubleLock(t *testing.T) {
	dir := t.TempDir()
	mustWriteTree(t, dir, map[string]string{"a.txt": "hi"})

	require.NoError(t, EncryptFolder(context.Background(), EncryptInput{Folder: dir, Passphrase: "pw"}))

	err := EncryptFolder(context.Background(), EncryptInput{Folder: dir, Passphrase: "pw"})
	require.Error(t, err)
	assert.True(t, securecore.Is(err, securecore.KindConflict))

	err = EncryptFolder(context.Background(), EncryptInput{Folder: dir, Passphrase: "other"})
	require.Error(t, err)
	assert.True(t, securecore.Is(err, securecore.KindConflict))
}

func TestDecryptFolderRefusesPlainFolder(t *testing.T) {
	dir := t.TempDir()
	mustWriteTree(t, dir, map[string]string{"a.txt": "hi"})

	err := DecryptFolder(context.Background(), DecryptInput{Folder: dir, Passphrase: "pw"})
	require.Error(t, err)
	assert.True(t, securecore.Is(err, securecore.KindInput))
}

func listNames(t *testing.T, root string) []string {
	t.Helper()
	var names []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		require.NoError(t, err)
		if path == root {
			return nil
		}
		rel, rerr := filepath.Rel(root, path)
		require.NoError(t, rerr)
		names = append(names, rel)
		return nil
	})
	require.NoError(t, err)
	return names
}
