package prune

import (
	"os"
	"path/filepath"
)

// SuiteEngine resolves suite run directories and the per-cycle
// housekeeping globs of the workflow engine that runs the suites.
type SuiteEngine interface {
	// SuiteDir returns the absolute run directory of the named suite on
	// the local host.
	SuiteDir(suiteName string) (string, error)
	// SuiteDirRel returns the run directory of the named suite relative
	// to a user's home directory. It is used in commands sent to remote
	// hosts, where the home directory is unknown.
	SuiteDirRel(suiteName string) string
	// CycleItemsGlobs returns the glob patterns, relative to the suite
	// run directory, of the items a completed cycle leaves behind.
	CycleItemsGlobs(cycle string) []string
}

// SuiteHome is the default SuiteEngine. It locates suite run directories
// under the conventional cylc-run tree in the home directory.
type SuiteHome struct{}

func (SuiteHome) SuiteDir(suiteName string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, "cylc-run", suiteName), nil
}

func (SuiteHome) SuiteDirRel(suiteName string) string {
	return "cylc-run/" + suiteName
}

// CycleItemsGlobs returns the job logs, the cycle share directory and the
// cycle work directory. The patterns use forward slashes, they are also
// sent to remote POSIX shells.
func (SuiteHome) CycleItemsGlobs(cycle string) []string {
	return []string{
		"log/job/" + cycle + "*",
		"share/cycle/" + cycle,
		"work/" + cycle,
	}
}
