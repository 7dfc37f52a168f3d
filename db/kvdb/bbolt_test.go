package kvdb

import (
	"path/filepath"
	"testing"

	"github.com/meghashyamc/whichpackage/config"
	"github.com/meghashyamc/whichpackage/logger"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *BoltDB {
	t.Helper()
	t.Setenv("ENV", "test")
	t.Setenv("KVDB_PATH", filepath.Join(t.TempDir(), "kv.db"))

	cfg, err := config.Load()
	require.NoError(t, err)

	db, err := New(logger.New(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestSetGetDelete(t *testing.T) {
	assert := require.New(t)
	db := newTestDB(t)

	assert.NoError(db.Set(RequestsBucket, "req-1", "running"))

	value, err := db.Get(RequestsBucket, "req-1")
	assert.NoError(err)
	assert.Equal("running", value)

	assert.NoError(db.Set(RequestsBucket, "req-1", "complete"))
	value, err = db.Get(RequestsBucket, "req-1")
	assert.NoError(err)
	assert.Equal("complete", value)

	assert.NoError(db.Delete(RequestsBucket, "req-1"))
	_, err = db.Get(RequestsBucket, "req-1")
	assert.ErrorIs(err, ErrNotFound)
}

func TestGetMissingKey(t *testing.T) {
	assert := require.New(t)
	db := newTestDB(t)

	_, err := db.Get(RefreshBucket, "never-set")
	assert.ErrorIs(err, ErrNotFound)
}

func TestEmptyKeyRejected(t *testing.T) {
	assert := require.New(t)
	db := newTestDB(t)

	assert.ErrorIs(db.Set(RequestsBucket, "", "value"), ErrInvalidKey)
	_, err := db.Get(RequestsBucket, "")
	assert.ErrorIs(err, ErrInvalidKey)
	assert.ErrorIs(db.Delete(RequestsBucket, ""), ErrInvalidKey)
}

func TestBucketsAreIsolated(t *testing.T) {
	assert := require.New(t)
	db := newTestDB(t)

	assert.NoError(db.Set(RequestsBucket, "key", "requests-value"))
	_, err := db.Get(RefreshBucket, "key")
	assert.ErrorIs(err, ErrNotFound)
}
