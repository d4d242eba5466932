package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotlist/utils"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("HOTLIST_TMDB_API_KEY", "")
	mgr := NewManager(filepath.Join(t.TempDir(), "settings.json"))

	settings, err := mgr.Load()
	require.NoError(t, err)

	defaults := DefaultSettings()
	assert.Equal(t, defaults.Search, settings.Search)
	assert.Equal(t, InsertOrderPrepend, settings.Watchlist.InsertOrder)
	assert.Equal(t, StorageBackendFile, settings.Storage.Backend)
}

func TestSaveAndReload(t *testing.T) {
	t.Setenv("HOTLIST_TMDB_API_KEY", "")
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	mgr := NewManager(path)

	settings := DefaultSettings()
	settings.Watchlist.InsertOrder = InsertOrderAppend
	settings.Metadata.TMDBAPIKey = "file-key"
	require.NoError(t, mgr.Save(settings))

	reloaded, err := mgr.Load()
	require.NoError(t, err)
	assert.Equal(t, InsertOrderAppend, reloaded.Watchlist.InsertOrder)
	assert.Equal(t, "file-key", reloaded.Metadata.TMDBAPIKey)
}

func TestLoadFillsMissingSections(t *testing.T) {
	t.Setenv("HOTLIST_TMDB_API_KEY", "")
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"storage":{"backend":"sqlite","dir":"/tmp/hl"},"search":{"debounceMillis":0}}`), 0o644))

	settings, err := NewManager(path).Load()
	require.NoError(t, err)
	assert.Equal(t, StorageBackendSQLite, settings.Storage.Backend)
	assert.Equal(t, filepath.Join("/tmp/hl", "hotlist.db"), settings.Storage.DatabasePath)
	assert.Equal(t, 300, settings.Search.DebounceMillis)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("HOTLIST_TMDB_API_KEY", "env-key")
	t.Setenv("HOTLIST_PORT", "9090")

	settings, err := NewManager(filepath.Join(t.TempDir(), "settings.json")).Load()
	require.NoError(t, err)
	assert.Equal(t, "env-key", settings.Metadata.TMDBAPIKey)
	assert.Equal(t, 9090, settings.Server.Port)
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	settings := DefaultSettings()
	settings.Storage.Backend = "redis"

	err := Validate(settings)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSettings))
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewManager(path).Load()
	assert.Error(t, err)
}

func TestLoadHashesPlaintextPIN(t *testing.T) {
	t.Setenv("HOTLIST_PIN", "")
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server":{"port":7777,"pin":"424242"}}`), 0o644))

	settings, err := NewManager(path).Load()
	require.NoError(t, err)
	assert.Empty(t, settings.Server.PIN)
	assert.True(t, utils.PINMatches(settings.Server.PINHash, "424242"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "424242")
	assert.Contains(t, string(data), settings.Server.PINHash)

	reloaded, err := NewManager(path).Load()
	require.NoError(t, err)
	assert.Equal(t, settings.Server.PINHash, reloaded.Server.PINHash)
}

func TestSaveStoresPINHash(t *testing.T) {
	t.Setenv("HOTLIST_PIN", "")
	path := filepath.Join(t.TempDir(), "settings.json")
	mgr := NewManager(path)

	settings := DefaultSettings()
	settings.Server.PIN = "135790"
	require.NoError(t, mgr.Save(settings))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "135790")

	reloaded, err := mgr.Load()
	require.NoError(t, err)
	assert.True(t, utils.PINMatches(reloaded.Server.PINHash, "135790"))
}

func TestEnvironmentPINIsHashedInMemory(t *testing.T) {
	t.Setenv("HOTLIST_PIN", "246810")
	path := filepath.Join(t.TempDir(), "settings.json")

	settings, err := NewManager(path).Load()
	require.NoError(t, err)
	assert.Empty(t, settings.Server.PIN)
	assert.True(t, utils.PINMatches(settings.Server.PINHash, "246810"))

	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSaveRejectsMalformedPIN(t *testing.T) {
	settings := DefaultSettings()
	settings.Server.PIN = "12ab"

	err := NewManager(filepath.Join(t.TempDir(), "settings.json")).Save(settings)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSettings))
}
