package exec

import (
	"strconv"
	"strings"
)

// ExitCodeError is returned from Result.ExpectSuccess() when a command exited
// with a code != 0.
type ExitCodeError struct {
	*Result
}

// Error returns the error description including the captured process output.
func (e *ExitCodeError) Error() string {
	var result strings.Builder

	result.WriteString("execution failed: '")
	result.WriteString(e.Command)
	result.WriteString("' in directory '")
	result.WriteString(e.Dir)
	result.WriteString("' exited with code ")
	result.WriteString(strconv.Itoa(e.ExitCode))
	result.WriteString(", expected 0")

	if len(e.Stdout) == 0 && len(e.Stderr) == 0 {
		return result.String()
	}

	result.WriteString(", output:\n")

	var stdoutExists bool
	if len(e.Stdout) > 0 {
		result.WriteString("### stdout ###\n")
		result.WriteString(strings.TrimSpace(string(e.Stdout)))
		result.WriteRune('\n')
		stdoutExists = true
	}

	if len(e.Stderr) > 0 {
		if stdoutExists {
			result.WriteRune('\n')
		}
		result.WriteString("### stderr ###\n")
		result.WriteString(strings.TrimSpace(string(e.Stderr)))
		result.WriteRune('\n')
	}

	return result.String()
}
