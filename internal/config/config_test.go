package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "", cfg.Redis.URL, "caching is off unless REDIS_URL is set")
	assert.Equal(t, 3, cfg.Redis.MaxRetries)
	assert.Equal(t, 300*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 10*time.Second, cfg.Cache.FetchTimeout)
	assert.Equal(t, 30, cfg.Search.FetchLimit)
	assert.Equal(t, 20, cfg.Search.ResultLimit)
	assert.Equal(t, "database", cfg.Search.Backend)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "/uploads", cfg.Storage.Local.URLPrefix)
	assert.Equal(t, int64(1<<20), cfg.Storage.MaxImageBytes)
	assert.Equal(t, "admin", cfg.Admin.RoutePrefix)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("REDIS_URL", "redis://localhost:6379/2")
	t.Setenv("ADMIN_ROUTE", "backoffice")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("PORT", "8080")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "redis://localhost:6379/2", cfg.Redis.URL)
	assert.Equal(t, "backoffice", cfg.Admin.RoutePrefix)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
