package vault

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

func removeQuiet(path string) error {
	return os.Remove(path)
}

// CleanOrphans removes leftover ".agv.tmp"/".tmp" files under folder — the
// supplemented, explicit-opt-in counterpart to the interruption scenario
// the original implementation never handles: a crash between writing a
// temp file and renaming it over its target. It is never called
// automatically by EncryptFolder/DecryptFolder so that it can never race a
// concurrent invocation, and it never removes anything but a temp file —
// a plaintext sibling is untouched even if present.
func CleanOrphans(folder string) ([]string, error) {
	var removed []string
	err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasSuffix(name, encryptedExt+".tmp") || strings.HasSuffix(name, ".tmp") {
			if rmErr := removeQuiet(path); rmErr == nil {
				removed = append(removed, path)
			}
		}
		return nil
	})
	if err != nil {
		return removed, err
	}
	return removed, nil
}
