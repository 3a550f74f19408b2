package shatter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity-labs/securecore/primitives"
)

// SH-4: chunks must be written out in manifest-index order even though the
// worker pool can finish them in any order.
func TestDecryptChunksParallelPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	master, err := primitives.RandomBytes(primitives.KeySize)
	require.NoError(t, err)

	const n = 40
	chunks := make([]ChunkEntry, n)
	want := make([][]byte, n)
	for i := 0; i < n; i++ {
		chunkKey, err := newChunkKey()
		require.NoError(t, err)
		plaintext := []byte{byte(i), byte(i + 1), byte(i + 2)}
		want[i] = plaintext

		blob, err := encryptChunk(chunkKey, plaintext, uint64(i))
		require.NoError(t, err)

		id, err := chunkIDHex()
		require.NoError(t, err)
		filename := id + ".enc"
		require.NoError(t, os.WriteFile(filepath.Join(dir, filename), blob, 0o600))

		wrapped, err := wrapChunkKey(master, chunkKey, id)
		require.NoError(t, err)

		chunks[i] = ChunkEntry{
			Index:    i,
			ID:       id,
			Filename: filename,
			Key:      wrapped,
			Hash:     primitives.HashSHA256(plaintext),
		}
	}

	// Workers race concurrently and may finish in any order; the pool must
	// still place each plaintext back at its own slice position regardless
	// of completion order.
	got, err := decryptChunksParallel(context.Background(), dir, master, chunks)
	require.NoError(t, err)
	require.Len(t, got, n)
	for i := 0; i < n; i++ {
		assert.Equal(t, want[i], got[i], "index %d", i)
	}
}

func TestDecryptChunksParallelEmptyReturnsNil(t *testing.T) {
	got, err := decryptChunksParallel(context.Background(), t.TempDir(), nil, nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}
