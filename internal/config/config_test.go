package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FLEX_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, "/api/auth", cfg.Server.BasePath)
	require.Empty(t, cfg.Database.URL)
	require.True(t, cfg.Database.Migrate)
	require.Equal(t, 24*time.Hour, cfg.Auth.SessionMaxAge)
	require.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	require.Equal(t, 500, cfg.Cache.MaxSize)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FLEX_CONFIG", "")
	t.Setenv("FLEX_AUTH_SECRET", "secretshouldbeatleast32charslong")
	t.Setenv("FLEX_DATABASE_URL", "postgres://flex@localhost/flex")
	t.Setenv("FLEX_AUTH_SESSION_MAX_AGE", "2h")
	t.Setenv("FLEX_CACHE_DISABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "secretshouldbeatleast32charslong", cfg.Auth.Secret)
	require.Equal(t, "postgres://flex@localhost/flex", cfg.Database.URL)
	require.Equal(t, 2*time.Hour, cfg.Auth.SessionMaxAge)
	require.True(t, cfg.Cache.Disabled)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flex.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
  base_path: /v1
cache:
  max_size: 50
`), 0o600))
	t.Setenv("FLEX_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Server.Addr)
	require.Equal(t, "/v1", cfg.Server.BasePath)
	require.Equal(t, 50, cfg.Cache.MaxSize)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("FLEX_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	require.Error(t, err)
}
