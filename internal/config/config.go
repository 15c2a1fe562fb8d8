// Package config loads flexd settings from defaults, an optional config
// file, a .env file and FLEX_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds flexd configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Cache    CacheConfig
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr        string
	BasePath    string   `mapstructure:"base_path"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	AccessLog   bool     `mapstructure:"access_log"`
}

// DatabaseConfig selects the storage backend. An empty URL means in-memory.
type DatabaseConfig struct {
	URL     string
	Migrate bool
}

// AuthConfig holds session settings. Secret must be at least 32 characters.
type AuthConfig struct {
	Secret          string
	SessionMaxAge   time.Duration `mapstructure:"session_max_age"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// CacheConfig sizes the session and profile caches.
type CacheConfig struct {
	Disabled bool
	TTL      time.Duration
	MaxSize  int `mapstructure:"max_size"`
}

// Load reads configuration. Env var overrides use prefix FLEX_, e.g.
// FLEX_AUTH_SECRET or FLEX_DATABASE_URL. A .env file in the working
// directory is loaded first when present.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()

	// default values
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.base_path", "/api/auth")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.access_log", true)
	v.SetDefault("database.url", "")
	v.SetDefault("database.migrate", true)
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.session_max_age", 24*time.Hour)
	v.SetDefault("auth.cleanup_interval", time.Hour)
	v.SetDefault("cache.disabled", false)
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.max_size", 500)

	v.SetConfigType("yaml")

	cfgPath := os.Getenv("FLEX_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("flex")
	}

	v.SetEnvPrefix("FLEX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgPath != "" {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
