package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the file-backed settings for the serve and cache commands.
// Flags override file values; the file is optional.
type Config struct {
	Server ServerConfig `toml:"server"`
	Mongo  MongoConfig  `toml:"mongo"`
	Redis  RedisConfig  `toml:"redis"`
	Cache  CacheConfig  `toml:"cache"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// MongoConfig holds document store settings.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// RedisConfig holds the shared cache settings.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// CacheConfig holds local cache settings.
type CacheConfig struct {
	Backend  string `toml:"backend"` // "file", "redis", or "none"
	Dir      string `toml:"dir"`
	TTLHours int    `toml:"ttl_hours"`
}

// defaultConfig returns the built-in settings.
func defaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Cache:  CacheConfig{Backend: "file", TTLHours: 24},
	}
}

// loadConfig reads the TOML config at path, or the default location when
// path is empty. A missing file yields the defaults without error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		var err error
		path, err = defaultConfigPath()
		if err != nil {
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// defaultConfigPath returns ~/.config/depscope/config.toml.
func defaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// cacheDir returns the default cache directory, creating nothing.
func cacheDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}
