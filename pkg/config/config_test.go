package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ASTRO_CONFIG", "")
	t.Setenv("NASA_API_KEY", "")
	t.Setenv("TOKEN", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("PORT", "")
	t.Setenv("CACHE_DRIVER", "")
	t.Setenv("DASHBOARD_API_URL", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "5000", cfg.Port)
	require.Equal(t, "", cfg.APIKey)
	require.Equal(t, "https://api.nasa.gov/planetary/apod", cfg.ApodURL)
	require.Equal(t, "https://api.nasa.gov/neo/rest/v1/feed", cfg.FeedURL)
	require.Equal(t, "memory", cfg.CacheDriver)
	require.Equal(t, "http://localhost:5000", cfg.DashboardAPIURL)
	require.Equal(t, []string{"*"}, cfg.CORSOrigins)
	require.Equal(t, time.Duration(0), cfg.UpstreamTimeout)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("ASTRO_CONFIG", "")
	t.Setenv("NASA_API_KEY", "")
	t.Setenv("TOKEN", "DEMO_KEY")
	t.Setenv("APP_PORT", "")
	t.Setenv("PORT", "8081")
	t.Setenv("CACHE_DRIVER", "SQLite")
	t.Setenv("UPSTREAM_TIMEOUT", "15")
	t.Setenv("DASHBOARD_API_URL", "")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://example.org")
	t.Setenv("DB_HOST", "db")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "DEMO_KEY", cfg.APIKey)
	require.Equal(t, "8081", cfg.Port)
	require.Equal(t, "sqlite", cfg.CacheDriver)
	require.Equal(t, 15*time.Second, cfg.UpstreamTimeout)
	require.Equal(t, "http://localhost:8081", cfg.DashboardAPIURL)
	require.Equal(t, []string{"http://localhost:3000", "https://example.org"}, cfg.CORSOrigins)
	require.Equal(t, "db", cfg.DB.Host)
	require.Equal(t, "5432", cfg.DB.Port)
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "astrodash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "6000"
api_key: from-file
cache_driver: postgres
upstream_timeout: 30s
db:
  host: pg
  dbname: astro
`), 0o600))

	t.Setenv("ASTRO_CONFIG", path)
	t.Setenv("NASA_API_KEY", "from-env")
	t.Setenv("TOKEN", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("PORT", "")
	t.Setenv("CACHE_DRIVER", "")
	t.Setenv("UPSTREAM_TIMEOUT", "")
	t.Setenv("DASHBOARD_API_URL", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_NAME", "")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "6000", cfg.Port)
	require.Equal(t, "from-env", cfg.APIKey)
	require.Equal(t, "postgres", cfg.CacheDriver)
	require.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
	require.Equal(t, "pg", cfg.DB.Host)
	require.Equal(t, "astro", cfg.DB.DBName)
	require.Equal(t, "disable", cfg.DB.SSLMode)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		t.Setenv("ASTRO_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("ASTRO_CONFIG", "")
		t.Setenv("CACHE_DRIVER", "mongo")
		_, err := Load()
		require.EqualError(t, err, `unknown cache driver "mongo"`)
	})
}
