package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lijunde/rose/pkg/storage"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	client, err := New(context.Background(), filepath.Join(t.TempDir(), DBFileName))
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, client.Close())
	})

	return client
}

func testTargetRecord(name string) *storage.TargetRecord {
	return &storage.TargetRecord{
		Name:             name,
		CompressScheme:   "tar.gz",
		CommandFormat:    "cp %(sources)s %(target)s",
		CommandRC:        1,
		SourceEditFormat: "sed 's/a/b/' %(in)s > %(out)s",
		Sources: []*storage.SourceRecord{
			{Name: "logs/a.log", Checksum: "aaaa"},
			{Name: "logs/b.log", Checksum: "bbbb"},
		},
	}
}

func TestSelectTargetNotExist(t *testing.T) {
	client := newTestClient(t)

	_, err := client.SelectTarget(context.Background(), "unknown")
	require.ErrorIs(t, err, storage.ErrNotExist)
}

func TestInsertSelectRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	inserted := testTargetRecord("backup.tar.gz")
	require.NoError(t, client.InsertTarget(ctx, inserted))

	stored, err := client.SelectTarget(ctx, "backup.tar.gz")
	require.NoError(t, err)

	assert.Equal(t, inserted.Name, stored.Name)
	assert.Equal(t, inserted.CompressScheme, stored.CompressScheme)
	assert.Equal(t, inserted.CommandFormat, stored.CommandFormat)
	assert.Equal(t, inserted.CommandRC, stored.CommandRC)
	assert.Equal(t, inserted.SourceEditFormat, stored.SourceEditFormat)
	assert.ElementsMatch(t, inserted.Sources, stored.Sources)
}

func TestUpdateCommandRC(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	require.NoError(t, client.InsertTarget(ctx, testTargetRecord("t")))
	require.NoError(t, client.UpdateCommandRC(ctx, "t", 0))

	stored, err := client.SelectTarget(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.CommandRC)
}

func TestDeleteTarget(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	require.NoError(t, client.InsertTarget(ctx, testTargetRecord("t")))
	require.NoError(t, client.DeleteTarget(ctx, "t"))

	_, err := client.SelectTarget(ctx, "t")
	require.ErrorIs(t, err, storage.ErrNotExist)

	// removing an absent target must not fail
	require.NoError(t, client.DeleteTarget(ctx, "t"))
}

func TestDeleteAllExcept(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, client.InsertTarget(ctx, testTargetRecord(name)))
	}

	require.NoError(t, client.DeleteAllExcept(ctx, []string{"a", "c"}))

	for _, name := range []string{"a", "c"} {
		stored, err := client.SelectTarget(ctx, name)
		require.NoError(t, err)
		assert.Len(t, stored.Sources, 2)
	}

	_, err := client.SelectTarget(ctx, "b")
	require.ErrorIs(t, err, storage.ErrNotExist)
}

func TestDeleteAllExceptEmptyKeepRemovesEverything(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	for _, name := range []string{"a", "b"} {
		require.NoError(t, client.InsertTarget(ctx, testTargetRecord(name)))
	}

	require.NoError(t, client.DeleteAllExcept(ctx, nil))

	for _, name := range []string{"a", "b"} {
		_, err := client.SelectTarget(ctx, name)
		require.ErrorIs(t, err, storage.ErrNotExist)
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DBFileName)

	client, err := New(ctx, path)
	require.NoError(t, err)
	require.NoError(t, client.InsertTarget(ctx, testTargetRecord("t")))
	require.NoError(t, client.Close())

	reopened, err := New(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	stored, err := reopened.SelectTarget(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "tar.gz", stored.CompressScheme)
}
