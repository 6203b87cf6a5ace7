package config

import (
	"astrodash/pkg/consts"
	"astrodash/pkg/repository"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is read once at startup. Values come from defaults, then the
// optional YAML file named by ASTRO_CONFIG, then the environment.
type Config struct {
	Port            string        `yaml:"port"`
	APIKey          string        `yaml:"api_key"`
	ApodURL         string        `yaml:"apod_url"`
	FeedURL         string        `yaml:"feed_url"`
	UpstreamTimeout time.Duration `yaml:"upstream_timeout"`
	CacheDriver     string        `yaml:"cache_driver"`
	SQLitePath      string        `yaml:"sqlite_path"`
	RedisURL        string        `yaml:"redis_url"`
	DashboardAPIURL string        `yaml:"dashboard_api_url"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	LogLevel        string        `yaml:"log_level"`

	DB repository.Config `yaml:"db"`
}

func Defaults() Config {
	return Config{
		Port:        "5000",
		ApodURL:     consts.ApodURL,
		FeedURL:     consts.FeedURL,
		CacheDriver: consts.DriverMemory,
		SQLitePath:  "astrodash.db",
		RedisURL:    "redis://localhost:6379/0",
		CORSOrigins: []string{"*"},
		LogLevel:    "info",
		DB: repository.Config{
			Host:    "localhost",
			Port:    "5432",
			SSLMode: "disable",
		},
	}
}

// Load reads .env files, the optional YAML file and the environment.
func Load() (Config, error) {
	_ = godotenv.Load(".env", ".env.local")

	cfg := Defaults()

	if path := os.Getenv("ASTRO_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.DashboardAPIURL == "" {
		cfg.DashboardAPIURL = "http://localhost:" + cfg.Port
	}

	switch cfg.CacheDriver {
	case consts.DriverMemory, consts.DriverPostgres, consts.DriverSQLite, consts.DriverRedis:
	default:
		return Config{}, fmt.Errorf("unknown cache driver %q", cfg.CacheDriver)
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Port = firstEnv(c.Port, "APP_PORT", "PORT")
	// the key is never validated, a missing one fails upstream
	c.APIKey = firstEnv(c.APIKey, "NASA_API_KEY", "TOKEN")
	c.ApodURL = firstEnv(c.ApodURL, "APOD_URL")
	c.FeedURL = firstEnv(c.FeedURL, "NEO_FEED_URL")
	c.UpstreamTimeout = envSeconds("UPSTREAM_TIMEOUT", c.UpstreamTimeout)
	c.CacheDriver = strings.ToLower(firstEnv(c.CacheDriver, "CACHE_DRIVER"))
	c.SQLitePath = firstEnv(c.SQLitePath, "SQLITE_PATH")
	c.RedisURL = firstEnv(c.RedisURL, "REDIS_URL")
	c.DashboardAPIURL = firstEnv(c.DashboardAPIURL, "DASHBOARD_API_URL")
	c.LogLevel = firstEnv(c.LogLevel, "LOG_LEVEL")

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORSOrigins = origins
	}

	c.DB.Host = firstEnv(c.DB.Host, "DB_HOST")
	c.DB.Port = firstEnv(c.DB.Port, "DB_PORT")
	c.DB.Username = firstEnv(c.DB.Username, "DB_USERNAME")
	c.DB.Password = firstEnv(c.DB.Password, "DB_PASSWORD")
	c.DB.DBName = firstEnv(c.DB.DBName, "DB_NAME")
	c.DB.SSLMode = firstEnv(c.DB.SSLMode, "DB_SSLMODE")
}

// firstEnv returns the first non-empty variable among keys, def otherwise.
func firstEnv(def string, keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func envSeconds(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 0 {
		return def
	}
	return time.Duration(i) * time.Second
}
