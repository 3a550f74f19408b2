package atomicio

import (
	"fmt"
	"os"

	"github.com/antigravity-labs/securecore/primitives"
)

// SecureErase overwrites path with one pass of random bytes, fsyncs, then
// unlinks it. Grounded on the original _secure_delete/secure_delete: a
// single overwrite pass is not a physical-erasure guarantee on flash media
// (wear-leveling may retain the old block), so a plaintext file erased this
// way may still be recoverable from the underlying storage.
func SecureErase(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %q: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open %q for erase: %w", path, err)
	}

	size := info.Size()
	const chunk = 64 * 1024
	var written int64
	for written < size {
		n := int64(chunk)
		if size-written < n {
			n = size - written
		}
		buf, err := primitives.RandomBytes(int(n))
		if err != nil {
			f.Close()
			return fmt.Errorf("generate random overwrite bytes: %w", err)
		}
		if _, err := f.WriteAt(buf, written); err != nil {
			f.Close()
			return fmt.Errorf("overwrite %q: %w", path, err)
		}
		written += n
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %q: %w", path, err)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove %q: %w", path, err)
	}
	return nil
}
