package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	configDirName  = ".enderfall-hub"
	configFileName = "config.json"

	// DefaultRefreshIntervalMinutes is the background release re-resolution
	// cadence when the config does not set one.
	DefaultRefreshIntervalMinutes = 30
)

// Config is the persisted hub configuration.
type Config struct {
	// FeedToken authenticates release feed requests; overridden by the
	// HUB_GITHUB_TOKEN environment variable.
	FeedToken string `json:"feedToken,omitempty"`
	// DataRoot overrides the default per-user data directory.
	DataRoot string `json:"dataRoot,omitempty"`
	// EntitlementURL points at the entitlement service; empty disables
	// premium gating.
	EntitlementURL string `json:"entitlementUrl,omitempty"`
	// RefreshIntervalMinutes is the background refresh cadence; zero means
	// the default.
	RefreshIntervalMinutes int `json:"refreshIntervalMinutes,omitempty"`
	// Debug enables debug logging.
	Debug bool `json:"debug,omitempty"`
}

func defaultConfig() *Config {
	return &Config{RefreshIntervalMinutes: DefaultRefreshIntervalMinutes}
}

// ConfigManager handles reading and writing the hub configuration.
type ConfigManager struct {
	configDir string
	mu        sync.RWMutex
}

// NewConfigManager creates a ConfigManager using the default config path
// (~/.enderfall-hub/).
func NewConfigManager() (*ConfigManager, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home directory: %w", err)
	}
	return &ConfigManager{
		configDir: filepath.Join(home, configDirName),
	}, nil
}

// NewConfigManagerWithDir creates a ConfigManager using a custom config
// directory. Useful for testing.
func NewConfigManagerWithDir(dir string) *ConfigManager {
	return &ConfigManager{configDir: dir}
}

// ConfigDir returns the configuration directory path.
func (cm *ConfigManager) ConfigDir() string {
	return cm.configDir
}

// ConfigPath returns the full path to the config file.
func (cm *ConfigManager) ConfigPath() string {
	return filepath.Join(cm.configDir, configFileName)
}

// StoreDir returns the path the persistent record store lives in.
func (cm *ConfigManager) StoreDir() string {
	return filepath.Join(cm.configDir, "state")
}

// CatalogOverlayPath returns the path of the optional user catalog overlay.
func (cm *ConfigManager) CatalogOverlayPath() string {
	return filepath.Join(cm.configDir, "catalog.yaml")
}

// Load reads the config from disk. Returns the default config if the file
// doesn't exist.
func (cm *ConfigManager) Load() (*Config, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	data, err := os.ReadFile(cm.ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.RefreshIntervalMinutes <= 0 {
		cfg.RefreshIntervalMinutes = DefaultRefreshIntervalMinutes
	}
	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (cm *ConfigManager) Save(cfg *Config) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if err := os.MkdirAll(cm.configDir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// Write atomically: write to temp file then rename
	tmpPath := cm.ConfigPath() + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmpPath, cm.ConfigPath()); err != nil {
		_ = os.Remove(tmpPath) // clean up on failure
		return fmt.Errorf("saving config: %w", err)
	}

	return nil
}
