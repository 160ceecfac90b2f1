// Package config provides application configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"part-cost/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Server contains HTTP server settings
	Server ServerConfig `json:"server"`

	// CostBook contains cost-book settings
	CostBook CostBookConfig `json:"cost_book"`

	// Cache contains pricing-cache settings
	Cache CacheConfig `json:"cache"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// ListenAddr is the address the API server binds to
	ListenAddr string `json:"listen_addr"`
}

// CostBookConfig contains cost-book settings
type CostBookConfig struct {
	// Path is an optional HCL cost-book file; empty means built-in defaults
	Path string `json:"path,omitempty"`
}

// CacheConfig contains pricing-cache settings
type CacheConfig struct {
	// Enabled enables result caching
	Enabled bool `json:"enabled"`

	// Backend selects the adapter (memory, sqlite)
	Backend string `json:"backend"`

	// DatabasePath is the SQLite database path for the sqlite backend
	DatabasePath string `json:"database_path,omitempty"`

	// TTLSeconds is how long cached results stay valid; 0 means no expiry
	TTLSeconds int `json:"ttl_seconds"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".part-cost", "pricing-cache.db")

	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
		CostBook: CostBookConfig{},
		Cache: CacheConfig{
			Enabled:      true,
			Backend:      "memory",
			DatabasePath: dbPath,
			TTLSeconds:   3600,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file, falling back to defaults when the
// file does not exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
