package command

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
	// exitCodeMaxBadTargets caps the bad-target count reported as exit
	// code of the arch command, codes above it are reserved for shell and
	// signal exits.
	exitCodeMaxBadTargets = 125
)
