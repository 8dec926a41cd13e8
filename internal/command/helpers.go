package command

import (
	"github.com/lijunde/rose/internal/command/term"
	"github.com/lijunde/rose/pkg/arch"
	"github.com/lijunde/rose/pkg/cfg"
	"github.com/lijunde/rose/pkg/prune"
)

// appConfigFileName is the default application configuration file,
// relative to the working directory of the task.
const appConfigFileName = "rose-app.toml"

// exitOnErr prints the error prefixed with the optional msg arguments and
// terminates with exitCodeError. A nil error is ignored.
func exitOnErr(err error, msg ...any) {
	if err == nil {
		return
	}

	stderr.ErrPrintln(err, msg...)
	exitFunc(exitCodeError)
}

func exitOnErrf(err error, format string, v ...any) {
	if err == nil {
		return
	}

	stderr.ErrPrintf(err, format, v...)
	exitFunc(exitCodeError)
}

func mustReadAppConfig(path string) *cfg.AppConfig {
	config, err := cfg.FromFile(path)
	exitOnErr(err)

	return config
}

// termReporter routes application run reports to the output streams.
// Error-level reports carry the same prefix as other error messages.
type termReporter struct{}

func (termReporter) Out(line string) {
	stdout.Println(line)
}

func (termReporter) Err(line string) {
	stderr.Println(term.ErrPrefix, line)
}

var _ arch.Reporter = termReporter{}
var _ prune.Reporter = termReporter{}
