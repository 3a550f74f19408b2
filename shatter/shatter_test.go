package shatter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity-labs/securecore"
)

func writeTempFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func manifestPathFor(outDir, original string) string {
	return filepath.Join(outDir, trimExt(filepath.Base(original))+manifestSuffix)
}

func TestShatterReassembleRoundTrip(t *testing.T) {
	dir := t.TempDir()
	plaintext := []byte("the quick brown fox jumps over the lazy dog, repeated for bulk.")
	src := writeTempFile(t, dir, "payload.txt", plaintext)

	outDir, err := Shatter(context.Background(), Input{Path: src, Passphrase: "s3cr3t"})
	require.NoError(t, err)

	outPath, err := Reassemble(context.Background(), ReassembleInput{
		ManifestPath: manifestPathFor(outDir, src),
		Passphrase:   "s3cr3t",
		OutDir:       dir,
	})
	require.NoError(t, err)

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

// SH-1: plaintext of exactly one chunk_size yields exactly one chunk.
func TestSH1ExactChunkSizeYieldsOneChunk(t *testing.T) {
	dir := t.TempDir()
	plaintext := make([]byte, tier1Chunk)
	for i := range plaintext {
		plaintext[i] = byte(i)
	}
	src := writeTempFile(t, dir, "exact.bin", plaintext)

	outDir, err := Shatter(context.Background(), Input{Path: src, Passphrase: "pw"})
	require.NoError(t, err)

	outPath, err := Reassemble(context.Background(), ReassembleInput{
		ManifestPath: manifestPathFor(outDir, src),
		Passphrase:   "pw",
		OutDir:       dir,
	})
	require.NoError(t, err)

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)

	data, err := os.ReadFile(manifestPathFor(outDir, src))
	require.NoError(t, err)
	_, manifestJSON, err := decryptManifest("pw", data)
	require.NoError(t, err)
	m, err := parseManifest(manifestJSON)
	require.NoError(t, err)
	assert.Len(t, m.Chunks, 1)
}

// Security law 3: flipping the bits of one byte in a chunk file fails
// reassembly without producing output.
func TestTamperedChunkFailsReassembly(t *testing.T) {
	dir := t.TempDir()
	src := writeTempFile(t, dir, "a.bin", []byte("some plaintext bytes to shard"))

	outDir, err := Shatter(context.Background(), Input{Path: src, Passphrase: "pw"})
	require.NoError(t, err)

	data, err := os.ReadFile(manifestPathFor(outDir, src))
	require.NoError(t, err)
	_, manifestJSON, err := decryptManifest("pw", data)
	require.NoError(t, err)
	m, err := parseManifest(manifestJSON)
	require.NoError(t, err)
	require.NotEmpty(t, m.Chunks)

	chunkPath := filepath.Join(outDir, m.Chunks[0].Filename)
	blob, err := os.ReadFile(chunkPath)
	require.NoError(t, err)
	blob[len(blob)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(chunkPath, blob, 0o600))

	restoreDir := t.TempDir()
	_, err = Reassemble(context.Background(), ReassembleInput{
		ManifestPath: manifestPathFor(outDir, src),
		Passphrase:   "pw",
		OutDir:       restoreDir,
	})
	require.Error(t, err)
	assert.True(t, securecore.Is(err, securecore.KindCrypto))
	_, statErr := os.Stat(filepath.Join(restoreDir, "a.bin"))
	assert.True(t, os.IsNotExist(statErr))
}

// Security law 4: manifest tamper falls back to the ".bak" copy.
func TestTamperedManifestFallsBackToBackup(t *testing.T) {
	dir := t.TempDir()
	src := writeTempFile(t, dir, "b.bin", []byte("more plaintext for this test case"))

	outDir, err := Shatter(context.Background(), Input{Path: src, Passphrase: "pw"})
	require.NoError(t, err)

	manifestPath := manifestPathFor(outDir, src)
	data, err := os.ReadFile(manifestPath)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(manifestPath, data, 0o600))

	_, err = Reassemble(context.Background(), ReassembleInput{
		ManifestPath: manifestPath,
		Passphrase:   "pw",
		OutDir:       dir,
	})
	require.Error(t, err)
	assert.True(t, securecore.Is(err, securecore.KindCrypto))

	outPath, err := Reassemble(context.Background(), ReassembleInput{
		ManifestPath: manifestPath + ".bak",
		Passphrase:   "pw",
		OutDir:       dir,
	})
	require.NoError(t, err)
	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("more plaintext for this test case"), got)
}

// Security law 7: mutating the manifest's recorded hash (leaving the
// ciphertext untouched) must still be caught.
func TestHashMismatchFailsReassembly(t *testing.T) {
	dir := t.TempDir()
	src := writeTempFile(t, dir, "c.bin", []byte("hash check payload"))

	outDir, err := Shatter(context.Background(), Input{Path: src, Passphrase: "pw"})
	require.NoError(t, err)

	manifestPath := manifestPathFor(outDir, src)
	data, err := os.ReadFile(manifestPath)
	require.NoError(t, err)
	masterKey, manifestJSON, err := decryptManifest("pw", data)
	require.NoError(t, err)
	m, err := parseManifest(manifestJSON)
	require.NoError(t, err)
	m.Chunks[0].Hash = "0000000000000000000000000000000000000000000000000000000000000000"

	remarshaled, err := m.marshal()
	require.NoError(t, err)

	var mk []byte
	require.NoError(t, masterKey.Use(func(k []byte) error {
		mk = append([]byte(nil), k...)
		return nil
	}))
	salt := data[:16]
	reframed, err := encryptManifest(mk, salt, remarshaled)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(manifestPath, reframed, 0o600))

	_, err = Reassemble(context.Background(), ReassembleInput{
		ManifestPath: manifestPath,
		Passphrase:   "pw",
		OutDir:       dir,
	})
	require.Error(t, err)
	assert.True(t, securecore.Is(err, securecore.KindCrypto))
}

// Security law 8: reassembling with delete_source into the sharded dir
// itself must not delete its own output.
func TestSafeOutputDirectoryDoesNotDeleteOwnOutput(t *testing.T) {
	dir := t.TempDir()
	src := writeTempFile(t, dir, "d.bin", []byte("safe output directory payload"))

	outDir, err := Shatter(context.Background(), Input{Path: src, Passphrase: "pw"})
	require.NoError(t, err)

	outPath, err := Reassemble(context.Background(), ReassembleInput{
		ManifestPath: manifestPathFor(outDir, src),
		Passphrase:   "pw",
		OutDir:       outDir,
		DeleteSource: true,
	})
	require.NoError(t, err)

	_, statErr := os.Stat(outPath)
	assert.NoError(t, statErr)
}

func TestReassembleWrongPassphraseFails(t *testing.T) {
	dir := t.TempDir()
	src := writeTempFile(t, dir, "e.bin", []byte("wrong passphrase payload"))

	outDir, err := Shatter(context.Background(), Input{Path: src, Passphrase: "right"})
	require.NoError(t, err)

	_, err = Reassemble(context.Background(), ReassembleInput{
		ManifestPath: manifestPathFor(outDir, src),
		Passphrase:   "wrong",
		OutDir:       dir,
	})
	require.Error(t, err)
	assert.True(t, securecore.Is(err, securecore.KindCrypto))
}

func TestScanForManifestsFindsShardedDirectories(t *testing.T) {
	dir := t.TempDir()
	src := writeTempFile(t, dir, "f.bin", []byte("scan me"))

	outDir, err := Shatter(context.Background(), Input{Path: src, Passphrase: "pw"})
	require.NoError(t, err)

	found, err := ScanForManifests(dir)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, manifestPathFor(outDir, src), found[0])
}
