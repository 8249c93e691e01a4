package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndnfastpath/router/internal/storage"
	"github.com/ndnfastpath/router/internal/table"
)

func TestCSStorePutLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.OpenCSStore(filepath.Join(dir, "cs"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	entry := table.CSEntry{
		InsertionTimeSec: 1000,
		TTLSec:           10,
		ContentType:      0,
		Content:          []byte{0xDE, 0xAD, 0xBE, 0xEF},
	}
	require.NoError(t, s.Put(42, entry))

	cs := table.NewContentStore(16, 4096)
	loaded, err := s.LoadAll(cs, 1005)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)

	got, hit := cs.Lookup(42, 1005)
	require.True(t, hit)
	assert.Equal(t, entry.Content, got.Content)
}

func TestCSStoreLoadAllDropsExpiredEntries(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.OpenCSStore(filepath.Join(dir, "cs"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Put(7, table.CSEntry{
		InsertionTimeSec: 1000,
		TTLSec:           10,
		Content:          []byte("stale"),
	}))

	cs := table.NewContentStore(16, 4096)
	loaded, err := s.LoadAll(cs, 1011) // past expiry (1000+10)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded)
	assert.Equal(t, 0, cs.Len())
}

func TestCSStoreDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.OpenCSStore(filepath.Join(dir, "cs"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Put(9, table.CSEntry{InsertionTimeSec: 0, TTLSec: 100, Content: []byte("x")}))
	require.NoError(t, s.Delete(9))

	cs := table.NewContentStore(16, 4096)
	loaded, err := s.LoadAll(cs, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded)
}

func TestCSStoreSnapshotAll(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.OpenCSStore(filepath.Join(dir, "cs"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	cs := table.NewContentStore(16, 4096)
	require.True(t, cs.Insert(1, []byte("a"), 0, 0, 100, 0))
	require.True(t, cs.Insert(2, []byte("b"), 0, 0, 100, 0))

	require.NoError(t, storage.SnapshotAll(s, cs))

	reloaded := table.NewContentStore(16, 4096)
	loaded, err := s.LoadAll(reloaded, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded)
}

func TestFIBStoreUpsertAndLoad(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.OpenFIBStore(filepath.Join(dir, "fib.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Upsert(100, 3))
	require.NoError(t, s.Upsert(200, 4))

	fib := table.NewFIB()
	loaded, err := s.LoadAll(fib)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded)

	ifindex, ok := fib.Lookup(100)
	require.True(t, ok)
	assert.Equal(t, uint32(3), ifindex)
}

func TestFIBStoreUpsertZeroWithdraws(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.OpenFIBStore(filepath.Join(dir, "fib.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Upsert(5, 1))
	require.NoError(t, s.Upsert(5, 0))

	fib := table.NewFIB()
	loaded, err := s.LoadAll(fib)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded)
}

func TestFIBStoreUpsertOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.OpenFIBStore(filepath.Join(dir, "fib.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Upsert(5, 1))
	require.NoError(t, s.Upsert(5, 2))

	fib := table.NewFIB()
	loaded, err := s.LoadAll(fib)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)
	ifindex, ok := fib.Lookup(5)
	require.True(t, ok)
	assert.Equal(t, uint32(2), ifindex)
}
