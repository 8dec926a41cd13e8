// Package checksum computes the update-check checksums of archive sources.
//
// A checksum scheme maps one regular file to a checksum string. Schemes are
// selected by name via SchemeFunc, the default scheme is md5, matching what
// deployed suite configurations expect. The mtime+size scheme digests stat
// information only and never reads file content.
package checksum

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/blake3"
)

// DefaultScheme is the scheme used when a configuration does not name one.
const DefaultScheme = "md5"

// Func computes the checksum of one regular file.
type Func func(path string) (string, error)

// Entry describes one path found below an archive source.
// For a directory Sum is empty and IsDir is true.
// RelPath is relative to the source root, it is empty when the source root
// itself is a regular file.
type Entry struct {
	RelPath string
	Sum     string
	IsDir   bool
}

// SchemeFunc returns the checksum function registered for name.
// The empty name selects DefaultScheme. A "sum" suffix is accepted as alias
// (md5sum, sha1sum, ...).
func SchemeFunc(name string) (Func, error) {
	if name == "" {
		name = DefaultScheme
	}

	switch strings.TrimSuffix(name, "sum") {
	case "md5":
		return hashFile(md5.New), nil
	case "sha1":
		return hashFile(sha1.New), nil
	case "sha256":
		return hashFile(sha256.New), nil
	case "blake3":
		return hashFile(func() hash.Hash { return blake3.New() }), nil
	case "mtime+size":
		return mtimeAndSize, nil
	default:
		return nil, fmt.Errorf("unknown checksum scheme %q, supported: md5, sha1, sha256, blake3, mtime+size", name)
	}
}

// Sum resolves path to checksum entries using fn.
// A regular file yields exactly one entry with an empty RelPath. A directory
// is walked recursively in lexical order, yielding one entry per contained
// directory and file.
func Sum(path string, fn Func) ([]Entry, error) {
	isDir, err := isDirectory(path)
	if err != nil {
		return nil, err
	}

	if !isDir {
		sum, err := fn(path)
		if err != nil {
			return nil, err
		}

		return []Entry{{Sum: sum}}, nil
	}

	var entries []Entry
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if p == path {
			return nil
		}

		relPath, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}

		if d.IsDir() {
			entries = append(entries, Entry{RelPath: relPath, IsDir: true})
			return nil
		}

		sum, err := fn(p)
		if err != nil {
			return err
		}

		entries = append(entries, Entry{RelPath: relPath, Sum: sum})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func isDirectory(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	return fi.IsDir(), nil
}

func hashFile(newHash func() hash.Hash) Func {
	return func(path string) (string, error) {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()

		h := newHash()
		if _, err := io.Copy(h, f); err != nil {
			return "", fmt.Errorf("reading %q failed: %w", path, err)
		}

		return hex.EncodeToString(h.Sum(nil)), nil
	}
}

func mtimeAndSize(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("source=%s:mtime=%d:size=%d",
		path, fi.ModTime().UnixNano(), fi.Size()), nil
}
