package shatter

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/antigravity-labs/securecore"
)

// ScanForManifests recursively walks dir and returns the path of every
// "*.shatter_manifest" file found, grounded on
// modules/shatter/core/sharding.py's scan_directory_for_manifests.
// Backup copies ("*.shatter_manifest.bak") are not included.
func ScanForManifests(dir string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, manifestSuffix) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, securecore.NewIOError("walk", dir, err)
	}
	return found, nil
}
