package arch

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lijunde/rose/internal/compress"
	"github.com/lijunde/rose/internal/testutils/fstest"
	"github.com/lijunde/rose/internal/testutils/ostest"
	"github.com/lijunde/rose/pkg/cfg"
)

type recordingReporter struct {
	outLines []string
	errLines []string
}

func (r *recordingReporter) Out(line string) {
	r.outLines = append(r.outLines, line)
}

func (r *recordingReporter) Err(line string) {
	r.errLines = append(r.errLines, line)
}

func newResolver(t *testing.T, configDoc string) (*Resolver, *recordingReporter) {
	t.Helper()

	config, err := cfg.FromBytes([]byte(configDoc))
	require.NoError(t, err)

	reporter := &recordingReporter{}

	return &Resolver{
		Config:      config,
		Compressors: compress.NewManager(),
		Reporter:    reporter,
	}, reporter
}

// chdirToSourceTree creates a directory tree with source files and makes
// it the working directory.
func chdirToSourceTree(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	fstest.WriteToFile(t, []byte("alpha\n"), filepath.Join(dir, "logs", "a.log"))
	fstest.WriteToFile(t, []byte("beta\n"), filepath.Join(dir, "logs", "b.log"))
	fstest.WriteToFile(t, []byte("data-x\n"), filepath.Join(dir, "data", "x"))
	fstest.WriteToFile(t, []byte("data-y\n"), filepath.Join(dir, "data", "sub", "y"))
	ostest.Chdir(t, dir)

	return dir
}

func TestResolveTargetsSkipsForeignAndIgnoredSections(t *testing.T) {
	chdirToSourceTree(t)

	resolver, _ := newResolver(t, `
[arch]
command-format = "cp %(sources)s %(target)s"

["arch:t.tar"]
source = "logs/a.log"

["!arch:disabled.tar"]
source = "logs/a.log"

["other:x"]
source = "logs/a.log"

[prune]
cycles = "-PT6H"
`)

	targets, err := resolver.ResolveTargets()
	require.NoError(t, err)

	require.Len(t, targets, 1)
	assert.Equal(t, "t.tar", targets[0].Name)
	assert.Equal(t, StatusPending, targets[0].Status)
}

func TestResolveTargetsDuplicateNameIsFatal(t *testing.T) {
	chdirToSourceTree(t)

	resolver, _ := newResolver(t, `
[arch]
command-format = "cp %(sources)s %(target)s"

["arch:t.tar"]
source = "logs/a.log"

["arch:(t.tar)"]
source = "logs/b.log"
`)

	_, err := resolver.ResolveTargets()
	require.Error(t, err)

	var dupErr *DuplicateTargetError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "t.tar", dupErr.TargetName)
}

func TestResolveTargetsSectionNameEnvSubstitution(t *testing.T) {
	chdirToSourceTree(t)
	t.Setenv("ROSE_TEST_TARGET", "renamed")

	resolver, _ := newResolver(t, `
[arch]
command-format = "cp %(sources)s %(target)s"

["arch:${ROSE_TEST_TARGET}.tar"]
source = "logs/a.log"
`)

	targets, err := resolver.ResolveTargets()
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "renamed.tar", targets[0].Name)
}

func TestResolveTargetsUnboundEnvInSectionNameIsFatal(t *testing.T) {
	chdirToSourceTree(t)

	resolver, _ := newResolver(t, `
[arch]
command-format = "cp %(sources)s %(target)s"

["arch:${ROSE_TEST_UNDEFINED_TARGET_VAR}.tar"]
source = "logs/a.log"
`)

	_, err := resolver.ResolveTargets()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ROSE_TEST_UNDEFINED_TARGET_VAR")
}

func TestResolveTargetPrefix(t *testing.T) {
	chdirToSourceTree(t)

	resolver, _ := newResolver(t, `
[arch]
command-format = "cp %(sources)s %(target)s"
target-prefix = "backups/"

["arch:t.tar"]
source = "logs/a.log"
`)

	targets, err := resolver.ResolveTargets()
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "backups/t.tar", targets[0].Name)
}

func TestResolveSourcesGlobAndChecksums(t *testing.T) {
	chdirToSourceTree(t)

	resolver, _ := newResolver(t, `
[arch]
command-format = "cp %(sources)s %(target)s"

["arch:t.tar"]
source = "logs/*.log"
`)

	targets, err := resolver.ResolveTargets()
	require.NoError(t, err)
	require.Len(t, targets, 1)

	target := targets[0]
	require.Len(t, target.Sources, 2)

	var names []string
	for checksum, source := range target.Sources {
		assert.Equal(t, checksum, source.Checksum)
		assert.Len(t, checksum, 32, "default update-check must be md5")
		assert.Equal(t, source.Name, source.OrigName)
		assert.Equal(t, source.Path, source.OrigPath)
		names = append(names, source.Name)
	}

	assert.ElementsMatch(t, []string{"logs/a.log", "logs/b.log"}, names)
}

func TestResolveSourcesDirectoryExpandsRecursively(t *testing.T) {
	chdirToSourceTree(t)

	resolver, _ := newResolver(t, `
[arch]
command-format = "cp %(sources)s %(target)s"

["arch:t.tar"]
source = "data"
`)

	targets, err := resolver.ResolveTargets()
	require.NoError(t, err)

	var names []string
	for _, source := range targets[0].Sources {
		names = append(names, source.Name)
	}

	assert.ElementsMatch(t, []string{"data/x", filepath.Join("data", "sub", "y")}, names)
}

func TestResolveSourcePrefixStrippedFromNames(t *testing.T) {
	chdirToSourceTree(t)

	resolver, _ := newResolver(t, `
[arch]
command-format = "cp %(sources)s %(target)s"

["arch:t.tar"]
source = "*.log"
source-prefix = "logs/"
`)

	targets, err := resolver.ResolveTargets()
	require.NoError(t, err)

	var names, paths []string
	for _, source := range targets[0].Sources {
		names = append(names, source.Name)
		paths = append(paths, source.Path)
	}

	assert.ElementsMatch(t, []string{"a.log", "b.log"}, names)
	assert.ElementsMatch(t, []string{"logs/a.log", "logs/b.log"}, paths)
}

func TestResolveRequiredSourceWithoutMatchIsBad(t *testing.T) {
	chdirToSourceTree(t)

	resolver, reporter := newResolver(t, `
[arch]
command-format = "cp %(sources)s %(target)s"

["arch:t.tar"]
source = "missing/*"
`)

	targets, err := resolver.ResolveTargets()
	require.NoError(t, err)

	assert.Equal(t, StatusBad, targets[0].Status)
	require.Len(t, reporter.errLines, 1)
	assert.Contains(t, reporter.errLines[0], "configuration value error")
	assert.Contains(t, reporter.errLines[0], "missing/*")
}

func TestResolveOptionalSourceWithoutMatchIsSilent(t *testing.T) {
	chdirToSourceTree(t)

	resolver, reporter := newResolver(t, `
[arch]
command-format = "cp %(sources)s %(target)s"

["arch:t.tar"]
source = "logs/a.log (missing/*)"
`)

	targets, err := resolver.ResolveTargets()
	require.NoError(t, err)

	assert.Equal(t, StatusPending, targets[0].Status)
	assert.Len(t, targets[0].Sources, 1)
	assert.Empty(t, reporter.errLines)
}

func TestResolveOptionalTargetWithoutSourcesIsNull(t *testing.T) {
	chdirToSourceTree(t)

	resolver, reporter := newResolver(t, `
[arch]
command-format = "cp %(sources)s %(target)s"

["arch:(opt.tar)"]
source = "(missing/*)"
`)

	targets, err := resolver.ResolveTargets()
	require.NoError(t, err)
	require.Len(t, targets, 1)

	assert.Equal(t, "opt.tar", targets[0].Name)
	assert.Equal(t, StatusNull, targets[0].Status)
	assert.Empty(t, reporter.errLines)
}

func TestResolveCompulsoryTargetWithoutSourcesIsBad(t *testing.T) {
	chdirToSourceTree(t)

	resolver, _ := newResolver(t, `
[arch]
command-format = "cp %(sources)s %(target)s"

["arch:t.tar"]
source = "(missing/*)"
`)

	targets, err := resolver.ResolveTargets()
	require.NoError(t, err)
	assert.Equal(t, StatusBad, targets[0].Status)
}

func TestResolveChecksumCollisionLastSourceWins(t *testing.T) {
	dir := t.TempDir()
	fstest.WriteToFile(t, []byte("same content\n"), filepath.Join(dir, "same1.log"))
	fstest.WriteToFile(t, []byte("same content\n"), filepath.Join(dir, "same2.log"))
	ostest.Chdir(t, dir)

	resolver, _ := newResolver(t, `
[arch]
command-format = "cp %(sources)s %(target)s"

["arch:t.tar"]
source = "*.log"
`)

	targets, err := resolver.ResolveTargets()
	require.NoError(t, err)

	require.Len(t, targets[0].Sources, 1)
	for _, source := range targets[0].Sources {
		assert.Equal(t, "same2.log", source.Name)
	}
}

func TestResolveCompulsoryCommandFormatMissing(t *testing.T) {
	chdirToSourceTree(t)

	resolver, _ := newResolver(t, `
["arch:t.tar"]
source = "logs/a.log"
`)

	_, err := resolver.ResolveTargets()
	require.Error(t, err)

	var keyErr *cfg.CompulsoryKeyError
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, "command-format", keyErr.Key)
}

func TestResolveMalformedCommandFormatIsBad(t *testing.T) {
	chdirToSourceTree(t)

	resolver, reporter := newResolver(t, `
["arch:t.tar"]
command-format = "cp %(src)s %(target)s"
source = "logs/a.log"
`)

	targets, err := resolver.ResolveTargets()
	require.NoError(t, err)

	assert.Equal(t, StatusBad, targets[0].Status)
	require.Len(t, reporter.errLines, 1)
	assert.Contains(t, reporter.errLines[0], "bad command-format")
}

func TestResolveUnknownUpdateCheckIsFatal(t *testing.T) {
	chdirToSourceTree(t)

	resolver, _ := newResolver(t, `
[arch]
command-format = "cp %(sources)s %(target)s"

["arch:t.tar"]
source = "logs/a.log"
update-check = "crc32"
`)

	_, err := resolver.ResolveTargets()
	require.Error(t, err)

	var valueErr *ValueError
	require.ErrorAs(t, err, &valueErr)
	assert.Equal(t, "update-check", valueErr.Key)
	assert.Equal(t, "crc32", valueErr.Value)
}

func TestResolveUpdateCheckSelectsScheme(t *testing.T) {
	chdirToSourceTree(t)

	resolver, _ := newResolver(t, `
[arch]
command-format = "cp %(sources)s %(target)s"

["arch:t.tar"]
source = "logs/a.log"
update-check = "sha256"
`)

	targets, err := resolver.ResolveTargets()
	require.NoError(t, err)

	for checksum := range targets[0].Sources {
		assert.Len(t, checksum, 64)
	}
}

func TestResolveCompressSchemeInferredFromName(t *testing.T) {
	chdirToSourceTree(t)

	testcases := []struct {
		TargetName string
		Scheme     string
	}{
		{TargetName: "logs.tar.gz", Scheme: "tar.gz"},
		{TargetName: "logs.tgz", Scheme: "tgz"},
		{TargetName: "logs.tar.zst", Scheme: "tar.zst"},
		{TargetName: "notes.txt", Scheme: ""},
		{TargetName: "plain", Scheme: ""},
	}

	for _, tc := range testcases {
		t.Run(tc.TargetName, func(t *testing.T) {
			resolver, _ := newResolver(t, `
[arch]
command-format = "cp %(sources)s %(target)s"

["arch:`+tc.TargetName+`"]
source = "logs/a.log"
`)

			targets, err := resolver.ResolveTargets()
			require.NoError(t, err)
			assert.Equal(t, tc.Scheme, targets[0].CompressScheme)
		})
	}
}

func TestResolveCompressSchemeInferenceUsesBaseName(t *testing.T) {
	chdirToSourceTree(t)

	// the directory part contains a dot, the base name selects no scheme
	resolver, _ := newResolver(t, `
[arch]
command-format = "cp %(sources)s %(target)s"

["arch:dir.gz/plain"]
source = "logs/a.log"
`)

	targets, err := resolver.ResolveTargets()
	require.NoError(t, err)
	assert.Empty(t, targets[0].CompressScheme)
}

func TestResolveExplicitUnknownCompressSchemeIsBad(t *testing.T) {
	chdirToSourceTree(t)

	resolver, reporter := newResolver(t, `
[arch]
command-format = "cp %(sources)s %(target)s"

["arch:t.tar"]
source = "logs/a.log"
compress = "rar"
`)

	targets, err := resolver.ResolveTargets()
	require.NoError(t, err)

	assert.Equal(t, StatusBad, targets[0].Status)
	assert.Equal(t, "rar", targets[0].CompressScheme, "the bad scheme stays recorded on the target")
	require.Len(t, reporter.errLines, 1)
	assert.Contains(t, reporter.errLines[0], "bad compress")
}

func TestResolveRenameFormat(t *testing.T) {
	chdirToSourceTree(t)
	t.Setenv(EnvTaskCycleTime, "20260102T0000Z")

	resolver, _ := newResolver(t, `
[arch]
command-format = "cp %(sources)s %(target)s"

["arch:t.tar"]
source = "logs/a.log"
rename-format = "%(cycle)s-%(name)s"
`)

	targets, err := resolver.ResolveTargets()
	require.NoError(t, err)

	for _, source := range targets[0].Sources {
		assert.Equal(t, "20260102T0000Z-logs/a.log", source.Name)
		assert.Equal(t, "logs/a.log", source.OrigName)
	}
}

func TestResolveRenameFormatWithParserCaptures(t *testing.T) {
	chdirToSourceTree(t)
	t.Setenv(EnvTaskCycleTime, "20260102T0000Z")

	resolver, _ := newResolver(t, `
[arch]
command-format = "cp %(sources)s %(target)s"

["arch:t.tar"]
source = "*.log"
source-prefix = "logs/"
rename-format = "%(stem)s-%(cycle)s.log"
rename-parser = "(?P<stem>[a-z]+)\\.log"
`)

	targets, err := resolver.ResolveTargets()
	require.NoError(t, err)

	var names []string
	for _, source := range targets[0].Sources {
		names = append(names, source.Name)
	}

	assert.ElementsMatch(t,
		[]string{"a-20260102T0000Z.log", "b-20260102T0000Z.log"}, names)
}

func TestResolveInvalidRenameParserIsFatal(t *testing.T) {
	chdirToSourceTree(t)

	resolver, _ := newResolver(t, `
[arch]
command-format = "cp %(sources)s %(target)s"

["arch:t.tar"]
source = "logs/a.log"
rename-format = "%(name)s"
rename-parser = "(unclosed"
`)

	_, err := resolver.ResolveTargets()
	require.Error(t, err)

	var valueErr *ValueError
	require.ErrorAs(t, err, &valueErr)
	assert.Equal(t, "rename-parser", valueErr.Key)
}

func TestResolveInvalidRenameFormatIsFatal(t *testing.T) {
	chdirToSourceTree(t)

	resolver, _ := newResolver(t, `
[arch]
command-format = "cp %(sources)s %(target)s"

["arch:t.tar"]
source = "logs/a.log"
rename-format = "%(undefined_key)s"
`)

	_, err := resolver.ResolveTargets()
	require.Error(t, err)

	var valueErr *ValueError
	require.ErrorAs(t, err, &valueErr)
	assert.Equal(t, "rename-format", valueErr.Key)
}
