// Package arch implements the incremental archiving application.
//
// Archive targets are declared in the application configuration: source
// globs, an optional rename or transform step, an optional compression
// scheme and a shell command template that ships the result. A run
// resolves all targets, compares them against the state cache of the
// previous run and executes only the targets that changed.
package arch

import (
	"context"
	"errors"
	"os"
	"sort"

	"github.com/google/uuid"

	"github.com/lijunde/rose/internal/compress"
	"github.com/lijunde/rose/internal/log"
	"github.com/lijunde/rose/pkg/cfg"
	"github.com/lijunde/rose/pkg/storage"
)

// SectionName is the configuration section of the archive application.
// Target sections are named "arch:<target>", the bare section holds
// run-level defaults.
const SectionName = "arch"

const (
	// EnvSuiteName names the suite the application works on. An empty or
	// unset value turns the run into a no-op.
	EnvSuiteName = "ROSE_SUITE_NAME"
	// EnvTaskCycleTime is the cycle the task runs for, available to
	// rename-format as the cycle placeholder.
	EnvTaskCycleTime = "ROSE_TASK_CYCLE_TIME"
)

// App is the archive application.
type App struct {
	Config      *cfg.AppConfig
	Store       storage.Storer
	Compressors *compress.Manager
	Reporter    Reporter
	// SuiteDir resolves the run directory of the named suite. The
	// application enters it for the duration of the run, source globs and
	// the archive commands are relative to it.
	SuiteDir func(suiteName string) (string, error)
}

// Run executes the archive application and returns the number of failed
// targets.
// When ROSE_SUITE_NAME is unset the run is a silent no-op.
func (a *App) Run(ctx context.Context) (badCount int, err error) {
	suiteName := os.Getenv(EnvSuiteName)
	if suiteName == "" {
		log.Debugf("%s is not set, nothing to do", EnvSuiteName)
		return 0, nil
	}

	suiteDir, err := a.SuiteDir(suiteName)
	if err != nil {
		return 0, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return 0, err
	}

	if err := os.Chdir(suiteDir); err != nil {
		return 0, err
	}

	defer func() {
		if chdirErr := os.Chdir(cwd); chdirErr != nil && err == nil {
			err = chdirErr
		}
	}()

	return a.run(ctx)
}

func (a *App) run(ctx context.Context) (int, error) {
	resolver := &Resolver{
		Config:      a.Config,
		Compressors: a.Compressors,
		Reporter:    a.Reporter,
	}

	targets, err := resolver.ResolveTargets()
	if err != nil {
		return 0, err
	}

	for _, target := range targets {
		stored, err := a.Store.SelectTarget(ctx, target.Name)
		if err != nil && !errors.Is(err, storage.ErrNotExist) {
			return 0, err
		}

		if err == nil && target.Equal(targetFromRecord(stored)) {
			target.Status = StatusOld
			continue
		}

		if err := a.Store.DeleteTarget(ctx, target.Name); err != nil {
			return 0, err
		}
	}

	sort.Slice(targets, func(i, j int) bool {
		return targets[i].Name < targets[j].Name
	})

	keep := make([]string, 0, len(targets))
	for _, target := range targets {
		keep = append(keep, target.Name)
	}

	if err := a.Store.DeleteAllExcept(ctx, keep); err != nil {
		return 0, err
	}

	updater := &targetUpdater{
		store:          a.Store,
		compressors:    a.Compressors,
		reporter:       a.Reporter,
		workDirPattern: "rose-arch-" + uuid.NewString() + "-*",
	}

	badCount := 0
	for _, target := range targets {
		if err := updater.update(ctx, target); err != nil {
			return 0, err
		}

		if target.Status == StatusBad {
			badCount++
		}
	}

	return badCount, nil
}
