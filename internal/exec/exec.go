// Package exec runs external commands.
package exec

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
)

var (
	// DefaultDebugfFn is the default debug print function.
	DefaultDebugfFn = func(string, ...any) {}
	// DefaultDebugPrefix is the default prefix that is prepended to messages passed to the debugf function.
	DefaultDebugPrefix = "exec: "
)

// Cmd represents a command that can be run.
type Cmd struct {
	*exec.Cmd

	debugfFn     func(format string, v ...any)
	debugfPrefix string
}

// Command returns a new Cmd struct.
// If name contains no path separators, Command uses LookPath to resolve name
// to a complete path if possible. Otherwise it uses name directly as Path.
// By default a command is run in the current working directory.
func Command(name string, arg ...string) *Cmd {
	return &Cmd{
		Cmd:          exec.Command(name, arg...),
		debugfFn:     DefaultDebugfFn,
		debugfPrefix: DefaultDebugPrefix,
	}
}

// ShellCommand returns a Cmd that runs line via "sh -c".
func ShellCommand(line string) *Cmd {
	return Command("sh", "-c", line)
}

// Directory changes the directory in which the command is executed.
func (c *Cmd) Directory(dir string) *Cmd {
	c.Cmd.Dir = dir
	return c
}

// Run executes the command and blocks until it terminated.
// Stdout and stderr of the process are captured separately.
// A non-zero exit code is not an error, callers that require success use
// Result.ExpectSuccess().
func (c *Cmd) Run() (*Result, error) {
	var stdout, stderr bytes.Buffer

	cmd := c.Cmd
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.debugfFn(c.debugfPrefix+"running '%s' in directory '%s'\n", cmdString(cmd), cmd.Dir)

	err := cmd.Start()
	if err != nil {
		return nil, err
	}

	var exitCode int
	waitErr := cmd.Wait()
	if exitCode, err = exitCodeFromErr(waitErr); err != nil {
		return nil, err
	}

	c.debugfFn(c.debugfPrefix+"command terminated with exitCode: %d\n", exitCode)

	result := Result{
		Command:  cmdString(cmd),
		Dir:      cmd.Dir,
		ExitCode: exitCode,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
	}
	if result.Dir == "" {
		result.Dir = "."
	}

	return &result, nil
}

func cmdString(cmd *exec.Cmd) string {
	// cmd.Args[0] contains the command name, cmd.Path the absolute command
	// path, omit cmd.Args[0] from the string
	if len(cmd.Args) > 1 {
		return fmt.Sprintf("%s %v", cmd.Path, strings.Join(cmd.Args[1:], " "))
	}

	return cmd.Path
}

func exitCodeFromErr(err error) (int, error) {
	if err == nil {
		return 0, nil
	}

	ee, ok := err.(*exec.ExitError)
	if !ok {
		return 0, err
	}

	if status, ok := ee.Sys().(syscall.WaitStatus); ok {
		return status.ExitStatus(), nil
	}

	return 0, err
}
