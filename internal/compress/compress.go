// Package compress transforms staged archive sources before the archive
// command runs.
//
// Schemes come in two flavours: consolidating schemes (tar and friends)
// bundle all sources of a target into a single artifact, per-file schemes
// (gz, zst, lz4) compress every source on its own. The scheme of a target
// is either configured explicitly or inferred from the target name.
package compress

import (
	"fmt"
	"io"
	"sort"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Source is one staged source file of a target.
// Name is the archive-relative name, Path the location on disk. Per-file
// schemes update Path to the compressed copy.
type Source struct {
	Name string
	Path string
}

// Request describes the sources of one target to compress.
type Request struct {
	// TargetName is the name of the archive target, consolidating schemes
	// derive the artifact filename from its base name.
	TargetName string
	// Scheme is the concrete scheme name the target selected.
	Scheme string
	// Sources are the staged sources of the target.
	Sources []*Source
}

// Handler compresses the staged sources of a target.
type Handler interface {
	// CompressSources compresses the sources of req into workDir.
	// Consolidating handlers return the path of the produced artifact,
	// per-file handlers update the source paths and return an empty string.
	CompressSources(req *Request, workDir string) (string, error)
}

// Manager resolves compression schemes by name.
type Manager struct {
	handlers map[string]Handler
}

// NewManager returns a Manager with all built-in schemes registered.
func NewManager() *Manager {
	m := &Manager{handlers: map[string]Handler{}}

	m.register(&tarHandler{}, "tar", "tar.gz", "tgz", "tar.zst", "tar.lz4")
	m.register(&fileHandler{}, "gz", "zst", "lz4")

	return m
}

func (m *Manager) register(h Handler, schemes ...string) {
	for _, scheme := range schemes {
		m.handlers[scheme] = h
	}
}

// Handler returns the handler registered for scheme.
// It returns nil when the scheme is unknown, callers use this to probe
// whether a target name tail selects a scheme.
func (m *Manager) Handler(scheme string) Handler {
	return m.handlers[scheme]
}

// Schemes returns the names of all registered schemes in sorted order.
func (m *Manager) Schemes() []string {
	result := make([]string, 0, len(m.handlers))
	for scheme := range m.handlers {
		result = append(result, scheme)
	}

	sort.Strings(result)

	return result
}

// streamWriter layers the compressing writer for scheme over w.
func streamWriter(scheme string, w io.Writer) (io.WriteCloser, error) {
	switch scheme {
	case "gz":
		return gzip.NewWriter(w), nil
	case "zst":
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	case "lz4":
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("no stream compressor for scheme %q", scheme)
	}
}
