package exec

import (
	"github.com/alessio/shellescape"
	"github.com/google/shlex"
)

// SplitWords tokenizes line following POSIX shell word-splitting rules,
// honouring quotes and escapes.
func SplitWords(line string) ([]string, error) {
	return shlex.Split(line)
}

// QuoteArgs returns args joined to one shell command line fragment, each
// argument quoted so that the shell passes it through verbatim.
func QuoteArgs(args []string) string {
	return shellescape.QuoteCommand(args)
}
