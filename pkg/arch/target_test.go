package arch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTarget() *Target {
	target := NewTarget("backup.tar.gz")
	target.CompressScheme = "tar.gz"
	target.CommandFormat = "cp %(sources)s %(target)s"
	target.Sources = map[string]*Source{
		"aaaa": NewSource("aaaa", "a.log", "logs/a.log"),
		"bbbb": NewSource("bbbb", "b.log", "logs/b.log"),
	}

	return target
}

func TestTargetEqual(t *testing.T) {
	target := testTarget()
	other := testTarget()

	assert.True(t, target.Equal(other))

	t.Run("nil", func(t *testing.T) {
		assert.False(t, target.Equal(nil))
	})

	t.Run("status is not compared", func(t *testing.T) {
		other := testTarget()
		other.Status = StatusBad
		assert.True(t, target.Equal(other))
	})

	t.Run("work source path is not compared", func(t *testing.T) {
		other := testTarget()
		other.WorkSourcePath = "/tmp/x/backup.tar.gz"
		assert.True(t, target.Equal(other))
	})

	t.Run("command rc", func(t *testing.T) {
		other := testTarget()
		other.CommandRC = 1
		assert.False(t, target.Equal(other))
	})

	t.Run("command format", func(t *testing.T) {
		other := testTarget()
		other.CommandFormat = "mv %(sources)s %(target)s"
		assert.False(t, target.Equal(other))
	})

	t.Run("compress scheme", func(t *testing.T) {
		other := testTarget()
		other.CompressScheme = "tar"
		assert.False(t, target.Equal(other))
	})

	t.Run("source checksum", func(t *testing.T) {
		other := testTarget()
		delete(other.Sources, "bbbb")
		other.Sources["cccc"] = NewSource("cccc", "b.log", "logs/b.log")
		assert.False(t, target.Equal(other))
	})

	t.Run("source name", func(t *testing.T) {
		other := testTarget()
		other.Sources["bbbb"] = NewSource("bbbb", "renamed.log", "logs/b.log")
		assert.False(t, target.Equal(other))
	})

	t.Run("source count", func(t *testing.T) {
		other := testTarget()
		delete(other.Sources, "bbbb")
		assert.False(t, target.Equal(other))
	})
}

func TestSourceEqualIgnoresPaths(t *testing.T) {
	source := NewSource("aaaa", "a.log", "logs/a.log")

	// a stored source carries no path information
	stored := NewSource("aaaa", "a.log", "")

	assert.True(t, source.Equal(stored))
}

func TestTargetRecordRoundTrip(t *testing.T) {
	target := testTarget()
	target.CommandRC = 0
	target.SourceEditFormat = "tr a b < %(in)s > %(out)s"

	restored := targetFromRecord(target.toRecord())

	assert.True(t, target.Equal(restored))
	assert.True(t, restored.Equal(target))
	assert.Equal(t, StatusPending, restored.Status)
}

func TestSortedSources(t *testing.T) {
	target := testTarget()
	target.Sources["cccc"] = NewSource("cccc", "0.log", "logs/0.log")

	sources := target.SortedSources()
	require.Len(t, sources, 3)
	assert.Equal(t, "0.log", sources[0].Name)
	assert.Equal(t, "a.log", sources[1].Name)
	assert.Equal(t, "b.log", sources[2].Name)
}

func TestStatusGlyphs(t *testing.T) {
	assert.Equal(t, "=", StatusOld.String())
	assert.Equal(t, "+", StatusNew.String())
	assert.Equal(t, "!", StatusBad.String())
	assert.Equal(t, "0", StatusNull.String())
}
