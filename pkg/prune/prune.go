// Package prune implements the housekeeping application.
//
// After a cycle of a running suite completes, the application deletes
// the files the cycle left behind, on the local host and on the remote
// hosts its jobs ran on. What to delete is described by glob patterns,
// partly derived from the configured cycles through the suite engine
// and partly configured directly.
package prune

import (
	"fmt"
	"os"
	"strings"

	"github.com/lijunde/rose/internal/exec"
	"github.com/lijunde/rose/internal/fs"
	"github.com/lijunde/rose/internal/log"
	"github.com/lijunde/rose/pkg/cfg"
)

// SectionName is the configuration section of the housekeeping
// application.
const SectionName = "prune"

// EnvSuiteName names the suite the application works on. An empty or
// unset value turns the run into a no-op.
const EnvSuiteName = "ROSE_SUITE_NAME"

// Reporter receives the run output. Deleted paths go to Out, failures of
// single hosts to Err.
type Reporter interface {
	Out(line string)
	Err(line string)
}

// App is the housekeeping application.
type App struct {
	Config   *cfg.AppConfig
	Engine   SuiteEngine
	Reporter Reporter
}

// Run deletes the stale items of the configured cycles and globs, first
// on the configured remote hosts, then on the local host.
// Cycle values are used verbatim, offset arithmetic is the business of
// the scheduler that sets them.
// When ROSE_SUITE_NAME is unset, or neither cycles nor globs are
// configured, the run is a silent no-op. A failing remote host is
// reported and does not stop the run, a failing local delete does.
func (a *App) Run() error {
	suiteName := os.Getenv(EnvSuiteName)
	if suiteName == "" {
		log.Debugf("%s is not set, nothing to do", EnvSuiteName)
		return nil
	}

	cycles, err := a.splitValue("cycles")
	if err != nil {
		return err
	}

	configGlobs, err := a.splitValue("globs")
	if err != nil {
		return err
	}

	if len(cycles) == 0 && len(configGlobs) == 0 {
		log.Debugf("neither cycles nor globs are configured, nothing to do")
		return nil
	}

	var globs []string
	for _, cycle := range cycles {
		globs = append(globs, a.Engine.CycleItemsGlobs(cycle)...)
	}
	globs = append(globs, configGlobs...)

	hosts, err := a.splitValue("remote-hosts")
	if err != nil {
		return err
	}

	a.pruneRemote(hosts, a.Engine.SuiteDirRel(suiteName), globs)

	suiteDir, err := a.Engine.SuiteDir(suiteName)
	if err != nil {
		return err
	}

	return a.pruneLocal(suiteDir, globs)
}

func (a *App) splitValue(key string) ([]string, error) {
	value, err := a.Config.Value(SectionName, SectionName, key)
	if err != nil {
		return nil, err
	}

	words, err := exec.SplitWords(value)
	if err != nil {
		return nil, fmt.Errorf("%s: bad %s: %q: %w", SectionName, key, value, err)
	}

	return words, nil
}

// pruneRemote runs the removal command on every host. Each line the
// remote ls prints becomes a delete report. Failures, including spawn
// errors, are reported per host and the remaining hosts are still
// visited.
func (a *App) pruneRemote(hosts []string, suiteDirRel string, globs []string) {
	if len(hosts) == 0 {
		return
	}

	shCmd := remoteShellCommand(suiteDirRel, globs)

	for _, host := range hosts {
		result, err := exec.Command("ssh", host, shCmd).Run()
		if err != nil {
			a.Reporter.Err(fmt.Sprintf("%s: %s", host, err))
			continue
		}

		if err := result.ExpectSuccess(); err != nil {
			a.Reporter.Err(err.Error())
			continue
		}

		for _, line := range strings.Split(result.StrStdout(), "\n") {
			if line == "" {
				continue
			}

			a.Reporter.Out("delete: " + host + ":" + suiteDirRel + "/" + line)
		}
	}
}

// remoteShellCommand renders the removal command for one remote host.
// The glob list is substituted unquoted, the remote shell expands it.
// The trailing %(g) is sent verbatim instead of the glob list, which
// makes the remote shell reject the command line as a syntax error.
// TODO: substituting the glob list into the rm, like the ls already
// does, turns remote removal from a reported per-host failure into a
// real removal. Audit existing suite configurations before changing it.
func remoteShellCommand(suiteDirRel string, globs []string) string {
	return fmt.Sprintf("cd %s && ls -d %s && rm -rf %%(g)",
		suiteDirRel, strings.Join(globs, " "))
}

// pruneLocal deletes everything the globs match below the suite
// directory and reports each deleted path.
func (a *App) pruneLocal(suiteDir string, globs []string) (err error) {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	if err := os.Chdir(suiteDir); err != nil {
		return err
	}

	defer func() {
		if chdirErr := os.Chdir(cwd); chdirErr != nil && err == nil {
			err = chdirErr
		}
	}()

	for _, pattern := range globs {
		paths, err := fs.Glob(pattern)
		if err != nil {
			return fmt.Errorf("%s: bad glob %q: %w", SectionName, pattern, err)
		}

		for _, path := range paths {
			if err := fs.Delete(path); err != nil {
				return err
			}

			a.Reporter.Out("delete: " + path)
		}
	}

	return nil
}
