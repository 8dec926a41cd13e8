package fs

import (
	"fmt"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// Glob resolves the pattern to paths of files and directories.
// Matches are resolved in the same way than filepath.Glob() does, with the
// exception that '**' is supported to match files and directories
// recursively.
// If the pattern does not match anything, an empty slice and a nil error are
// returned.
// The result is sorted in lexical order.
func Glob(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("resolving glob %q failed: %w", pattern, err)
	}

	slices.Sort(matches)

	return matches, nil
}
