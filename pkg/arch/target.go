package arch

import (
	"sort"

	"github.com/lijunde/rose/pkg/storage"
)

// Status describes the state of a target relative to the cache.
type Status int

const (
	// StatusPending marks a freshly resolved target that has not been
	// compared or executed yet.
	StatusPending Status = iota
	// StatusOld marks a target that is unchanged since the last run.
	StatusOld
	// StatusNew marks a target that was archived in this run.
	StatusNew
	// StatusBad marks a failed target.
	StatusBad
	// StatusNull marks a target without sources.
	StatusNull
)

// String returns the single-character marker used in run reports.
func (s Status) String() string {
	switch s {
	case StatusOld:
		return "="
	case StatusNew:
		return "+"
	case StatusBad:
		return "!"
	case StatusNull:
		return "0"
	default:
		return "?"
	}
}

// Target is one named archive target resolved from the configuration.
type Target struct {
	Name             string
	CompressScheme   string
	CommandFormat    string
	CommandRC        int
	SourceEditFormat string
	// Sources are keyed by checksum. Two sources with identical content
	// collapse into one entry, the later resolved one wins.
	Sources map[string]*Source
	Status  Status

	// WorkSourcePath is the consolidated artifact produced by a
	// compression handler. It only exists while the target updates and is
	// never persisted or compared.
	WorkSourcePath string
}

// NewTarget returns a pending target without sources.
func NewTarget(name string) *Target {
	return &Target{
		Name:    name,
		Sources: map[string]*Source{},
		Status:  StatusPending,
	}
}

// Equal reports whether the target matches other in the attributes that
// decide whether a re-archive is required: name, compression scheme,
// command format, command return code, source edit format and sources.
// Status and work source path never take part in the comparison.
func (t *Target) Equal(other *Target) bool {
	if other == nil {
		return false
	}

	if t.Name != other.Name ||
		t.CompressScheme != other.CompressScheme ||
		t.CommandFormat != other.CommandFormat ||
		t.CommandRC != other.CommandRC ||
		t.SourceEditFormat != other.SourceEditFormat {
		return false
	}

	if len(t.Sources) != len(other.Sources) {
		return false
	}

	for checksum, source := range t.Sources {
		otherSource, exist := other.Sources[checksum]
		if !exist || !source.Equal(otherSource) {
			return false
		}
	}

	return true
}

// SortedSources returns the sources of the target ordered by name.
func (t *Target) SortedSources() []*Source {
	sources := make([]*Source, 0, len(t.Sources))
	for _, source := range t.Sources {
		sources = append(sources, source)
	}

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Name < sources[j].Name
	})

	return sources
}

func (t *Target) toRecord() *storage.TargetRecord {
	record := &storage.TargetRecord{
		Name:             t.Name,
		CompressScheme:   t.CompressScheme,
		CommandFormat:    t.CommandFormat,
		CommandRC:        t.CommandRC,
		SourceEditFormat: t.SourceEditFormat,
		Sources:          make([]*storage.SourceRecord, 0, len(t.Sources)),
	}

	for _, source := range t.SortedSources() {
		record.Sources = append(record.Sources, &storage.SourceRecord{
			Name:     source.Name,
			Checksum: source.Checksum,
		})
	}

	return record
}

// targetFromRecord reconstructs a target from its stored state.
// Stored sources only carry checksum and name, which is all the equality
// comparison needs.
func targetFromRecord(record *storage.TargetRecord) *Target {
	target := NewTarget(record.Name)
	target.CompressScheme = record.CompressScheme
	target.CommandFormat = record.CommandFormat
	target.CommandRC = record.CommandRC
	target.SourceEditFormat = record.SourceEditFormat

	for _, source := range record.Sources {
		target.Sources[source.Checksum] = NewSource(source.Checksum, source.Name, "")
	}

	return target
}

// Source is one file below an archive target.
type Source struct {
	Checksum string
	OrigName string
	OrigPath string
	// Name starts as OrigName and is rewritten by rename-format.
	Name string
	// Path starts as OrigPath and is rewritten by staging and per-file
	// compression.
	Path string
}

// NewSource returns a source whose current name and path equal the
// original ones.
func NewSource(checksum, origName, origPath string) *Source {
	return &Source{
		Checksum: checksum,
		OrigName: origName,
		OrigPath: origPath,
		Name:     origName,
		Path:     origPath,
	}
}

// Equal reports whether the source matches other by checksum and name.
func (s *Source) Equal(other *Source) bool {
	return other != nil && s.Checksum == other.Checksum && s.Name == other.Name
}
