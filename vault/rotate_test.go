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

func TestRotatePassphraseRelocksUnderNewPassphrase(t *testing.T) {
	dir := t.TempDir()
	mustWriteTree(t, dir, map[string]string{
		"a.txt":     "hi",
		"sub/b.txt": "bye",
	})
	require.NoError(t, EncryptFolder(context.Background(), EncryptInput{Folder: dir, Passphrase: "old-pw"}))

	var statuses []string
	require.NoError(t, RotatePassphrase(context.Background(), RotateInput{
		Folder:        dir,
		OldPassphrase: "old-pw",
		NewPassphrase: "new-pw",
		Progress: func(fraction float64, status string) {
			statuses = append(statuses, status)
		},
	}))
	assert.NotEmpty(t, statuses)

	state, err := inspectSentinel(dir, "new-pw")
	require.NoError(t, err)
	assert.Equal(t, StateLockedThisKey, state)

	state, err = inspectSentinel(dir, "old-pw")
	require.NoError(t, err)
	assert.Equal(t, StateLockedOther, state)

	require.NoError(t, DecryptFolder(context.Background(), DecryptInput{Folder: dir, Passphrase: "new-pw"}))
	got := readTree(t, dir)
	assert.Equal(t, map[string]string{"a.txt": "hi", "sub/b.txt": "bye"}, got)
}

func TestRotatePassphraseRejectsSamePassphrase(t *testing.T) {
	dir := t.TempDir()
	err := RotatePassphrase(context.Background(), RotateInput{
		Folder:        dir,
		OldPassphrase: "same",
		NewPassphrase: "same",
	})
	require.Error(t, err)
	assert.True(t, securecore.Is(err, securecore.KindInput))
}

func TestRotatePassphraseFailsUnderWrongOldPassphraseLeavesFolderLocked(t *testing.T) {
	dir := t.TempDir()
	mustWriteTree(t, dir, map[string]string{"a.txt": "hi"})
	require.NoError(t, EncryptFolder(context.Background(), EncryptInput{Folder: dir, Passphrase: "right"}))

	err := RotatePassphrase(context.Background(), RotateInput{
		Folder:        dir,
		OldPassphrase: "wrong",
		NewPassphrase: "new-pw",
	})
	require.Error(t, err)
	assert.True(t, securecore.Is(err, securecore.KindCrypto))

	state, err := inspectSentinel(dir, "right")
	require.NoError(t, err)
	assert.Equal(t, StateLockedThisKey, state)

	_, statErr := os.Stat(filepath.Join(dir, SentinelFilename))
	assert.NoError(t, statErr)
}
