package vault

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/antigravity-labs/securecore"
	"github.com/antigravity-labs/securecore/progress"
)

// RotateInput configures a RotatePassphrase invocation.
type RotateInput struct {
	Folder        string
	OldPassphrase string
	NewPassphrase string
	Progress      progress.Func
	Logger        logrus.FieldLogger
}

// RotatePassphrase re-locks folder under NewPassphrase: it decrypts under
// OldPassphrase into an in-place PLAIN state, then immediately re-encrypts
// under NewPassphrase. Between the two halves the folder is unlocked on
// disk. A failure partway through the decrypt half leaves
// the folder still locked under OldPassphrase (DecryptFolder's own
// abort-leaves-ciphertext-intact guarantee); a failure partway through the
// encrypt half leaves it PLAIN, which the caller must treat as exposed and
// retry.
//
// There is no cheaper rotation path: both the per-file subkey and the name
// subkey are derived from the folder's master key, which is itself derived
// from the passphrase, so every file and every name must be re-keyed.
func RotatePassphrase(ctx context.Context, in RotateInput) error {
	if in.OldPassphrase == in.NewPassphrase {
		return securecore.NewInputError(in.Folder, "new passphrase must differ from old passphrase")
	}

	if err := DecryptFolder(ctx, DecryptInput{
		Folder:     in.Folder,
		Passphrase: in.OldPassphrase,
		Progress:   halfProgress(in.Progress, 0),
		Logger:     in.Logger,
	}); err != nil {
		return err
	}

	if err := EncryptFolder(ctx, EncryptInput{
		Folder:     in.Folder,
		Passphrase: in.NewPassphrase,
		Progress:   halfProgress(in.Progress, 1),
		Logger:     in.Logger,
	}); err != nil {
		return err
	}

	return nil
}

// halfProgress rescales a progress callback into the [half*0.5, half*0.5+0.5]
// sub-range so a two-phase rotation reports smooth overall progress
// instead of jumping from 100% back to 0%.
func halfProgress(fn progress.Func, half int) progress.Func {
	if fn == nil {
		return progress.Nop
	}
	base := float64(half) * 0.5
	return func(fraction float64, status string) {
		fn(base+fraction*0.5, status)
	}
}
