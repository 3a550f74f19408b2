package vault

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity-labs/securecore/primitives"
)

func TestEncryptDecryptFileContentRoundTrip(t *testing.T) {
	dir := t.TempDir()
	masterKey, err := primitives.RandomBytes(primitives.KeySize)
	require.NoError(t, err)

	plaintext := make([]byte, fileChunkSize*3+123) // forces a short final chunk
	for i := range plaintext {
		plaintext[i] = byte(i % 251)
	}
	src := filepath.Join(dir, "plain.bin")
	require.NoError(t, os.WriteFile(src, plaintext, 0o600))

	enc := filepath.Join(dir, "plain.bin.agv")
	require.NoError(t, encryptFileContent(masterKey, src, enc))

	dec := filepath.Join(dir, "plain.bin.out")
	require.NoError(t, decryptFileContent(masterKey, enc, dec))

	got, err := os.ReadFile(dec)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestEncryptDecryptEmptyFile(t *testing.T) {
	dir := t.TempDir()
	masterKey, err := primitives.RandomBytes(primitives.KeySize)
	require.NoError(t, err)

	src := filepath.Join(dir, "empty.bin")
	require.NoError(t, os.WriteFile(src, nil, 0o600))

	enc := filepath.Join(dir, "empty.bin.agv")
	require.NoError(t, encryptFileContent(masterKey, src, enc))

	dec := filepath.Join(dir, "empty.bin.out")
	require.NoError(t, decryptFileContent(masterKey, enc, dec))

	got, err := os.ReadFile(dec)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecryptFileContentFailsOnWrongMasterKey(t *testing.T) {
	dir := t.TempDir()
	masterKey, err := primitives.RandomBytes(primitives.KeySize)
	require.NoError(t, err)
	other, err := primitives.RandomBytes(primitives.KeySize)
	require.NoError(t, err)

	src := filepath.Join(dir, "plain.bin")
	require.NoError(t, os.WriteFile(src, []byte("some content here"), 0o600))

	enc := filepath.Join(dir, "plain.bin.agv")
	require.NoError(t, encryptFileContent(masterKey, src, enc))

	dec := filepath.Join(dir, "plain.bin.out")
	err = decryptFileContent(other, enc, dec)
	assert.ErrorIs(t, err, primitives.ErrCryptoVerification)
}

func TestDecryptFileContentFailsOnTamperedChunk(t *testing.T) {
	dir := t.TempDir()
	masterKey, err := primitives.RandomBytes(primitives.KeySize)
	require.NoError(t, err)

	src := filepath.Join(dir, "plain.bin")
	require.NoError(t, os.WriteFile(src, []byte("tamper detection payload"), 0o600))

	enc := filepath.Join(dir, "plain.bin.agv")
	require.NoError(t, encryptFileContent(masterKey, src, enc))

	data, err := os.ReadFile(enc)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(enc, data, 0o600))

	dec := filepath.Join(dir, "plain.bin.out")
	err = decryptFileContent(masterKey, enc, dec)
	assert.ErrorIs(t, err, primitives.ErrCryptoVerification)
}

func TestSecureEraseFileRemovesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secret.txt")
	require.NoError(t, os.WriteFile(path, []byte("erase me"), 0o600))

	require.NoError(t, secureEraseFile(path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
