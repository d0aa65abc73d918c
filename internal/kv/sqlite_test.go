package kv_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avetisov/dimmerd/internal/db"
	"github.com/avetisov/dimmerd/internal/kv"
)

func newTestBucket(t *testing.T, name string) kv.Bucket {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return kv.NewSQLiteBucket(database.DB, name)
}

func TestSQLiteBucketStoreAndGet(t *testing.T) {
	b := newTestBucket(t, "settings")

	require.NoError(t, b.Store("automation_enabled", true))
	require.NoError(t, b.Store("coords", map[string]any{"lat": 12.5, "lon": -7.25}))

	v, err := b.Get("automation_enabled")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = b.Get("coords")
	require.NoError(t, err)
	m, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 12.5, m["lat"])
	assert.Equal(t, -7.25, m["lon"])

	v, err = b.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSQLiteBucketOverwrite(t *testing.T) {
	b := newTestBucket(t, "settings")

	require.NoError(t, b.Store("k", "old"))
	require.NoError(t, b.Store("k", "new"))

	v, err := b.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "new", v)

	keys, err := b.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, keys)
}

func TestSQLiteBucketDeleteAndClear(t *testing.T) {
	b := newTestBucket(t, "settings")

	require.NoError(t, b.Store("a", 1))
	require.NoError(t, b.Store("b", 2))

	existed, err := b.Delete("a")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = b.Delete("a")
	require.NoError(t, err)
	assert.False(t, existed)

	ok, err := b.Exists("b")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, b.Clear())
	ok, err = b.Exists("b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBucketsAreIsolated(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	a := kv.NewSQLiteBucket(database.DB, "a")
	b := kv.NewSQLiteBucket(database.DB, "b")

	require.NoError(t, a.Store("k", "from-a"))

	v, err := b.Get("k")
	require.NoError(t, err)
	assert.Nil(t, v)
}
