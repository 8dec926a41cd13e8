package command

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/lijunde/rose/internal/command/term"
	"github.com/lijunde/rose/internal/exec"
	"github.com/lijunde/rose/internal/log"
	"github.com/lijunde/rose/internal/testutils/fstest"
	"github.com/lijunde/rose/internal/testutils/logwriter"
	"github.com/lijunde/rose/internal/testutils/ostest"
)

// interceptCmdOutput changes the stdout and stderr streams to that the
// commands write to the returned buffers, all output is additionally still
// logged via the test logger
func interceptCmdOutput(t *testing.T) (stdoutBuf, stderrBuf *bytes.Buffer) {
	var bufStdout bytes.Buffer
	var bufStderr bytes.Buffer

	oldStdout := stdout
	stdout = term.NewStream(logwriter.New(t, &bufStdout))
	oldStderr := stderr
	stderr = term.NewStream(logwriter.New(t, &bufStderr))

	t.Cleanup(func() {
		stdout = oldStdout
		stderr = oldStderr
	})

	return &bufStdout, &bufStderr
}

type exitInfo struct {
	Code int
}

func (e *exitInfo) String() string {
	return fmt.Sprintf("program terminated with exit code: %d", e.Code)
}

// initTest does the following:
// - changes the exitFunc to panic instead of calling os.Exit(),
// - changes stdout and stderr streams for the command to be redirect to the
//   test logger,
// - changes the exec debug function to the test logger
func initTest(t *testing.T) {
	t.Helper()

	oldExitFunc := exitFunc
	exitFunc = func(code int) {
		panic(&exitInfo{Code: code})
	}

	t.Cleanup(func() {
		exitFunc = oldExitFunc
	})

	redirectOutputToLogger(t)
}

func redirectOutputToLogger(t *testing.T) {
	log.RedirectToTestingLog(t)

	oldExecDebugfFn := exec.DefaultDebugfFn
	exec.DefaultDebugfFn = t.Logf

	oldStdout := stdout
	stdout = term.NewStream(logwriter.New(t, io.Discard))
	oldStderr := stderr
	stderr = term.NewStream(logwriter.New(t, io.Discard))

	t.Cleanup(func() {
		exec.DefaultDebugfFn = oldExecDebugfFn
		stdout = oldStdout
		stderr = oldStderr
	})
}

// interceptExitCode changes the exitFunc to store the exit Code in
// resultExitCode.
// The previous exitFunc will be restored when the test finished.
func interceptExitCode(t *testing.T, resultExitCode *int) {
	oldExitFunc := exitFunc
	exitFunc = func(code int) {
		*resultExitCode = code
	}

	t.Cleanup(func() {
		exitFunc = oldExitFunc
	})
}

// prepareSuiteRun creates the run directory of the named suite under a
// fresh home directory and a task work directory containing appConfig as
// application configuration. It selects the suite via the environment and
// changes the working directory to the work directory, like a task runner
// would before starting the command.
func prepareSuiteRun(t *testing.T, suiteName, appConfig string) (suiteDir, workDir string) {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ROSE_SUITE_NAME", suiteName)

	suiteDir = filepath.Join(home, "cylc-run", suiteName)
	fstest.Mkdir(t, suiteDir)

	workDir = t.TempDir()
	fstest.WriteToFile(t, []byte(appConfig), filepath.Join(workDir, appConfigFileName))
	ostest.Chdir(t, workDir)

	return suiteDir, workDir
}
