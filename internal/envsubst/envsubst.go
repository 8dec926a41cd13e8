// Package envsubst substitutes environment variable references in strings.
//
// References have the form $NAME or ${NAME}. A reference preceded by an odd
// number of backslashes is escaped and emitted literally, every backslash
// pair collapses to a single backslash.
package envsubst

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var symbolRE = regexp.MustCompile(`(\\*)(\$(?:\{([A-Za-z_][A-Za-z0-9_]*)\}|([A-Za-z_][A-Za-z0-9_]*)))`)

// UnboundVariableError is returned when a string references an environment
// variable that is not defined in the process environment.
type UnboundVariableError struct {
	Name string
}

func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("environment variable %q is undefined", e.Name)
}

// Expand replaces all unescaped $NAME and ${NAME} references in s with the
// value of the environment variable NAME.
// If a referenced variable is undefined, an UnboundVariableError is
// returned. Variables that are defined but empty substitute to the empty
// string.
func Expand(s string) (string, error) {
	return expand(s, os.LookupEnv)
}

// expand runs the substitution with a custom variable lookup, allowing tests
// to run without mutating the process environment.
func expand(s string, lookup func(string) (string, bool)) (string, error) {
	var b strings.Builder
	last := 0

	for _, m := range symbolRE.FindAllStringSubmatchIndex(s, -1) {
		// m indexes: 0,1 whole; 2,3 backslashes; 4,5 symbol; 6,7
		// braced name; 8,9 bare name.
		b.WriteString(s[last:m[0]])
		last = m[1]

		backslashes := s[m[2]:m[3]]
		symbol := s[m[4]:m[5]]

		name := ""
		if m[6] >= 0 {
			name = s[m[6]:m[7]]
		} else {
			name = s[m[8]:m[9]]
		}

		// Pairs of backslashes collapse, a remaining odd one escapes
		// the $ symbol.
		b.WriteString(strings.Repeat(`\`, len(backslashes)/2))
		if len(backslashes)%2 == 1 {
			b.WriteString(symbol)
			continue
		}

		val, exists := lookup(name)
		if !exists {
			return "", &UnboundVariableError{Name: name}
		}

		b.WriteString(val)
	}

	b.WriteString(s[last:])

	return b.String(), nil
}
