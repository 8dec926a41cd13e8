package arch

import (
	"fmt"
	"strings"
)

// formatTemplate substitutes %(key)s placeholders in format with values.
// %% renders a literal percent sign. A placeholder referencing a key that
// is not in values, a conversion other than s or a stray % is an error.
func formatTemplate(format string, values map[string]string) (string, error) {
	var b strings.Builder

	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch != '%' {
			b.WriteByte(ch)
			continue
		}

		if i+1 >= len(format) {
			return "", fmt.Errorf("incomplete format directive at end of %q", format)
		}

		if format[i+1] == '%' {
			b.WriteByte('%')
			i++
			continue
		}

		if format[i+1] != '(' {
			return "", fmt.Errorf("unsupported format directive %q in %q", format[i:i+2], format)
		}

		end := strings.IndexByte(format[i+2:], ')')
		if end < 0 {
			return "", fmt.Errorf("unterminated placeholder in %q", format)
		}

		key := format[i+2 : i+2+end]

		convPos := i + 2 + end + 1
		if convPos >= len(format) || format[convPos] != 's' {
			return "", fmt.Errorf("placeholder %%(%s) in %q must use the s conversion", key, format)
		}

		value, exist := values[key]
		if !exist {
			return "", fmt.Errorf("unknown placeholder key %q in %q", key, format)
		}

		b.WriteString(value)
		i = convPos
	}

	return b.String(), nil
}

// validateTemplate checks that format only references the passed keys and
// contains no malformed directives.
func validateTemplate(format string, keys ...string) error {
	values := make(map[string]string, len(keys))
	for _, key := range keys {
		values[key] = ""
	}

	_, err := formatTemplate(format, values)

	return err
}
