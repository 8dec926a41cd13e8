package arch

import "fmt"

// DuplicateTargetError describes two configuration sections resolving to
// the same target name.
type DuplicateTargetError struct {
	SectionName string
	TargetName  string
}

func (e *DuplicateTargetError) Error() string {
	return fmt.Sprintf("%s: duplicate archive target: %q", e.SectionName, e.TargetName)
}

// ValueError describes a bad configuration value of one target.
type ValueError struct {
	TargetName string
	Key        string
	Value      string
	Err        error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: bad %s: %s: %s", e.TargetName, e.Key, e.Value, e.Err)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}
