package boltdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/ideacapsule/internal/storage"
)

// createTestStorage создает временное BoltDB хранилище
func createTestStorage(t *testing.T) (*Storage, string, func()) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "settings_test.db")

	store, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		require.NoError(t, store.Close())
	}

	return store, dbPath, cleanup
}

func TestNew_CreatesBucket(t *testing.T) {
	store, dbPath, cleanup := createTestStorage(t)
	defer cleanup()

	info, err := os.Stat(dbPath)
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	err = store.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketSettings) == nil {
			return os.ErrNotExist
		}
		return nil
	})
	require.NoError(t, err)
}

func TestNew_InvalidPath(t *testing.T) {
	_, err := New(context.Background(), filepath.Join(t.TempDir(), "missing", "settings.db"))
	assert.Error(t, err)
}

func TestSettings_CRUD(t *testing.T) {
	ctx := context.Background()
	store, _, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.GetSetting(ctx, storage.SettingUserDefaultColor)
	assert.ErrorIs(t, err, storage.ErrSettingNotFound)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	tests := []struct {
		key   string
		value string
	}{
		{key: storage.SettingUserDefaultColor, value: "#123456"},
		{key: storage.SettingRecentCategories, value: "[3,1]"},
		{key: "window_geometry", value: "1280x720"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			require.NoError(t, store.SetSetting(ctx, tt.key, tt.value))
			got, err := store.GetSetting(ctx, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}

	require.NoError(t, store.SetSetting(ctx, storage.SettingUserDefaultColor, "#654321"))
	all, err := store.ListSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		storage.SettingUserDefaultColor: "#654321",
		storage.SettingRecentCategories: "[3,1]",
		"window_geometry":               "1280x720",
	}, all)

	require.NoError(t, store.DeleteSetting(ctx, "window_geometry"))
	require.NoError(t, store.DeleteSetting(ctx, "never_set"))
	_, err = store.GetSetting(ctx, "window_geometry")
	assert.ErrorIs(t, err, storage.ErrSettingNotFound)

	assert.Error(t, store.SetSetting(ctx, "", "x"))
}

func TestSettings_Persist(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "persist.db")

	store, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.SetSetting(ctx, "k", "v"))
	require.NoError(t, store.Close())

	store, err = New(ctx, dbPath)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.GetSetting(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestSettings_BucketMissing(t *testing.T) {
	ctx := context.Background()
	store, _, cleanup := createTestStorage(t)
	defer cleanup()

	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket(bucketSettings)
	})
	require.NoError(t, err)

	_, err = store.GetSetting(ctx, "k")
	assert.ErrorIs(t, err, errNoBucket)
	assert.ErrorIs(t, store.SetSetting(ctx, "k", "v"), errNoBucket)
	_, err = store.ListSettings(ctx)
	assert.ErrorIs(t, err, errNoBucket)
}
