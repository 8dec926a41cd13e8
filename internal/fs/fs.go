// Package fs provides file system helper functions.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// Mkdir creates recursively directories.
func Mkdir(path string) error {
	return os.MkdirAll(path, os.FileMode(0755))
}

// Symlink creates a symbolic link at linkPath pointing to target.
// Parent directories of linkPath are created if they do not exist.
func Symlink(target, linkPath string) error {
	if err := Mkdir(filepath.Dir(linkPath)); err != nil {
		return err
	}

	return os.Symlink(target, linkPath)
}

// Delete removes path and, if it is a directory, everything below it.
// A non-existent path is not an error.
func Delete(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("deleting %q failed: %w", path, err)
	}

	return nil
}
