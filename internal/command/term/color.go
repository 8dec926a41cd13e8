package term

import (
	"github.com/fatih/color"
)

var (
	// Highlight marks file names and identifiers in informational output.
	Highlight = color.New(color.FgGreen).SprintFunc()

	// ErrPrefix is the prefix of error messages printed to the user.
	ErrPrefix = color.New(color.FgRed).Sprint("ERROR:")
)
