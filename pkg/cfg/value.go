package cfg

import (
	"fmt"

	"github.com/lijunde/rose/internal/envsubst"
)

// CompulsoryKeyError describes a compulsory option that is set neither in
// its section nor in the defaults section.
type CompulsoryKeyError struct {
	Section string
	Key     string
}

func (e *CompulsoryKeyError) Error() string {
	return fmt.Sprintf("%s: compulsory option %q is not set", e.Section, e.Key)
}

// Value resolves key for the section sectionName.
// A key that is not set in the section falls back to the defaults section,
// a key set to the empty string shadows the default. Environment variables
// in the resolved value are substituted, referencing an undefined variable
// is an error.
func (c *AppConfig) Value(sectionName, defaultsName, key string) (string, error) {
	value := c.rawValue(sectionName, defaultsName, key)
	if value == "" {
		return "", nil
	}

	value, err := envsubst.Expand(value)
	if err != nil {
		return "", fieldErrorWrap(err, sectionName, key)
	}

	return value, nil
}

// CompulsoryValue is like Value but returns a *CompulsoryKeyError when the
// resolved value is empty.
func (c *AppConfig) CompulsoryValue(sectionName, defaultsName, key string) (string, error) {
	value := c.rawValue(sectionName, defaultsName, key)
	if value == "" {
		return "", &CompulsoryKeyError{Section: sectionName, Key: key}
	}

	value, err := envsubst.Expand(value)
	if err != nil {
		return "", fieldErrorWrap(err, sectionName, key)
	}

	return value, nil
}

func (c *AppConfig) rawValue(sectionName, defaultsName, key string) string {
	if value, exist := c.sections[sectionName][key]; exist {
		return value
	}

	if value, exist := c.sections[defaultsName][key]; exist {
		return value
	}

	return ""
}
