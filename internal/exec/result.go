package exec

// Result describes the result of a run Cmd.
type Result struct {
	Command  string
	Dir      string
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// StrStdout returns the captured standard output as string.
func (r *Result) StrStdout() string {
	return string(r.Stdout)
}

// StrStderr returns the captured standard error as string.
func (r *Result) StrStderr() string {
	return string(r.Stderr)
}

// ExpectSuccess returns an ExitCodeError if the command exited with a code
// != 0.
func (r *Result) ExpectSuccess() error {
	if r.ExitCode != 0 {
		return &ExitCodeError{Result: r}
	}

	return nil
}
