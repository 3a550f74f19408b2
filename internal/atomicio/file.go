// Package atomicio provides write-then-rename helpers so that a chunk,
// manifest, or sentinel file either exists in its old complete form or its
// new complete form — never a partially written one — even if the process
// is interrupted mid-write.
//
// Grounded on DataDog-go-secure-sdk's ioutil/atomic.WriteFile: create a
// temp file next to the target, write, fsync, rename over. Simplified here
// to the fixed-size in-memory blobs SHATTER and VAULT produce (manifests,
// sentinels, chunk files) rather than an arbitrary io.Reader stream.
package atomicio

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile atomically replaces filename's content with data: write to a
// sibling temp file, fsync it, then rename over the target. If anything
// fails before the rename, filename is left untouched and the temp file is
// removed.
func WriteFile(filename string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, filepath.Base(filename)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if perm != 0 {
		if err = os.Chmod(tmpName, perm); err != nil {
			return fmt.Errorf("chmod temp file: %w", err)
		}
	}
	if err = os.Rename(tmpName, filename); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// CopyFile copies src to dst byte-for-byte, used for the manifest/sentinel
// ".bak" backup copy left in place alongside the primary.
func CopyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %q: %w", src, err)
	}
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %q: %w", src, err)
	}
	if err := os.WriteFile(dst, data, info.Mode()); err != nil {
		return fmt.Errorf("write %q: %w", dst, err)
	}
	return nil
}
