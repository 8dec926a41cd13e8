// Package cfg implements the application configuration file parser.
//
// An application configuration is a TOML file of flat string tables. Bare
// table names are plain sections, table names containing a colon address one
// named entry of an application section ("arch:foo.tar.gz"). All option
// values are strings, the applications interpret them.
package cfg

import (
	"fmt"
	"os"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// IgnoreMarker prefixes section names that are disabled without being
// removed from the configuration file.
const IgnoreMarker = "!"

// AppConfig is a parsed application configuration.
type AppConfig struct {
	sections map[string]map[string]string
	filePath string
}

// FromFile reads the application configuration from a file and returns it.
func FromFile(path string) (*AppConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config, err := FromBytes(content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s failed: %w", path, err)
	}

	config.filePath = path

	return config, nil
}

// FromBytes parses an application configuration document.
func FromBytes(content []byte) (*AppConfig, error) {
	sections := map[string]map[string]string{}

	if err := toml.Unmarshal(content, &sections); err != nil {
		return nil, err
	}

	return &AppConfig{sections: sections}, nil
}

// FilePath returns the path the configuration was loaded from.
func (c *AppConfig) FilePath() string {
	return c.filePath
}

// SectionNames returns the names of all sections in sorted order,
// including ignored ones.
func (c *AppConfig) SectionNames() []string {
	names := make([]string, 0, len(c.sections))
	for name := range c.sections {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Section returns the options of the named section.
// The second return value is false when the section does not exist.
func (c *AppConfig) Section(name string) (map[string]string, bool) {
	section, exist := c.sections[name]
	return section, exist
}

// IsIgnored returns true if the section name carries the ignore marker.
func IsIgnored(sectionName string) bool {
	return strings.HasPrefix(sectionName, IgnoreMarker)
}
