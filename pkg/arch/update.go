package arch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lijunde/rose/internal/compress"
	"github.com/lijunde/rose/internal/exec"
	"github.com/lijunde/rose/internal/fs"
	"github.com/lijunde/rose/internal/log"
	"github.com/lijunde/rose/pkg/storage"
)

// targetUpdater runs the archive state machine of single targets.
type targetUpdater struct {
	store       storage.Storer
	compressors *compress.Manager
	reporter    Reporter
	// workDirPattern is the os.MkdirTemp pattern for per-target work
	// directories, it carries the run id.
	workDirPattern string
}

// update brings one resolved target into its final state and reports it.
// Old targets are only reported, Bad and Null targets are reported without
// execution. Pending targets are executed: their sources are staged and
// compressed in a work directory and the archive command runs on the
// result. Failures of a single target never abort the run, the target
// ends up Bad.
func (u *targetUpdater) update(ctx context.Context, target *Target) error {
	switch target.Status {
	case StatusOld:
		u.reporter.Out((&TargetEvent{Target: target}).String())
		return nil

	case StatusBad, StatusNull:
		if target.Status == StatusBad {
			target.CommandRC = 1
		} else {
			target.CommandRC = 0
		}

		event := (&TargetEvent{Target: target}).String()
		u.reporter.Out(event)
		u.reporter.Err(event)

		return nil

	case StatusPending:
		return u.execute(ctx, target)

	default:
		return fmt.Errorf("target %q has unexpected status %q before its update", target.Name, target.Status)
	}
}

func (u *targetUpdater) execute(ctx context.Context, target *Target) error {
	// The provisional record forces a re-run when this update dies before
	// recording its real result.
	target.CommandRC = 1
	if err := u.store.InsertTarget(ctx, target.toRecord()); err != nil {
		return err
	}

	workDir, err := os.MkdirTemp("", u.workDirPattern)
	if err != nil {
		return err
	}

	now := time.Now()
	times := &UpdateTimes{Init: now, Transform: now, Archive: now}

	var retCode *int

	defer func() {
		if err := fs.Delete(workDir); err != nil {
			log.Errorf("removing work directory of target %q failed: %s", target.Name, err)
		}

		event := (&TargetEvent{Target: target, Times: times, RetCode: retCode}).String()
		u.reporter.Out(event)

		if target.Status == StatusBad || target.Status == StatusNull {
			u.reporter.Err(event)
		}
	}()

	target.Status = StatusBad

	if err := u.stage(target, workDir); err != nil {
		u.reporter.Err(err.Error())
		return nil
	}

	if target.CompressScheme != "" {
		if err := u.compressSources(target, workDir); err != nil {
			u.reporter.Err(err.Error())
			return nil
		}
	}

	times.Transform = time.Now()

	command, err := u.archiveCommand(target)
	if err != nil {
		u.reporter.Err(err.Error())
		return nil
	}

	result, err := exec.ShellCommand(command).Run()
	if err != nil {
		return err
	}

	times.Archive = time.Now()
	retCode = &result.ExitCode
	target.CommandRC = result.ExitCode

	if result.ExitCode != 0 {
		u.reporter.Err(result.ExpectSuccess().Error())
	} else {
		target.Status = StatusNew
		if stderr := result.StrStderr(); stderr != "" {
			u.reporter.Err(stderr)
		}
	}

	if stdout := result.StrStdout(); stdout != "" {
		u.reporter.Out(stdout)
	}

	return u.store.UpdateCommandRC(ctx, target.Name, target.CommandRC)
}

// stage populates the work directory with the sources of the target under
// their current names. Without renames and without a source edit command
// the sources are used in place and nothing is staged. A rename stages
// each source as a symlink to its original, a source edit command instead
// produces the staged file from the original.
func (u *targetUpdater) stage(target *Target, workDir string) error {
	renameRequired := false
	for _, source := range target.Sources {
		if source.Name != source.OrigName {
			renameRequired = true
			break
		}
	}

	if !renameRequired && target.SourceEditFormat == "" {
		return nil
	}

	for _, source := range target.SortedSources() {
		source.Path = filepath.Join(workDir, source.Name)

		if err := fs.Mkdir(filepath.Dir(source.Path)); err != nil {
			return err
		}

		if target.SourceEditFormat == "" {
			// The symlink target must stay valid from any directory the
			// archive command runs in.
			origPath, err := filepath.Abs(source.OrigPath)
			if err != nil {
				return err
			}

			if err := fs.Symlink(origPath, source.Path); err != nil {
				return err
			}

			continue
		}

		command, err := formatTemplate(target.SourceEditFormat, map[string]string{
			"in":  source.OrigPath,
			"out": source.Path,
		})
		if err != nil {
			return err
		}

		result, err := exec.ShellCommand(command).Run()
		if err != nil {
			return err
		}

		if err := result.ExpectSuccess(); err != nil {
			return err
		}
	}

	return nil
}

func (u *targetUpdater) compressSources(target *Target, workDir string) error {
	sources := target.SortedSources()

	req := &compress.Request{
		TargetName: target.Name,
		Scheme:     target.CompressScheme,
		Sources:    make([]*compress.Source, len(sources)),
	}
	for i, source := range sources {
		req.Sources[i] = &compress.Source{Name: source.Name, Path: source.Path}
	}

	workSourcePath, err := u.compressors.Handler(target.CompressScheme).CompressSources(req, workDir)
	if err != nil {
		return err
	}

	target.WorkSourcePath = workSourcePath

	for i, source := range sources {
		source.Path = req.Sources[i].Path
	}

	return nil
}

// archiveCommand renders the shell command of the target. The sources
// placeholder expands to the consolidated artifact when a compression
// handler produced one, otherwise to all source paths.
func (u *targetUpdater) archiveCommand(target *Target) (string, error) {
	var sourcePaths []string
	if target.WorkSourcePath != "" {
		sourcePaths = []string{target.WorkSourcePath}
	} else {
		for _, source := range target.SortedSources() {
			sourcePaths = append(sourcePaths, source.Path)
		}
	}

	command, err := formatTemplate(target.CommandFormat, map[string]string{
		"sources": exec.QuoteArgs(sourcePaths),
		"target":  exec.QuoteArgs([]string{target.Name}),
	})
	if err != nil {
		return "", &ValueError{
			TargetName: target.Name,
			Key:        "command-format",
			Value:      target.CommandFormat,
			Err:        err,
		}
	}

	return command, nil
}
