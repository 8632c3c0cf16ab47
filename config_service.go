package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"deckgen/config"
)

// ConfigProvider exposes configuration reads.
type ConfigProvider interface {
	GetConfig() (config.Config, error)
}

// ConfigPersister exposes configuration writes.
type ConfigPersister interface {
	SaveConfig(cfg config.Config) error
}

// ConfigService owns loading, defaulting and persisting the service
// configuration. Implements Service, ConfigProvider and ConfigPersister.
type ConfigService struct {
	storageDir string
	logger     func(string)
	mu         sync.RWMutex
}

// NewConfigService creates a new ConfigService instance
func NewConfigService(logger func(string)) *ConfigService {
	return &ConfigService{logger: logger}
}

// Name returns the service name
func (cs *ConfigService) Name() string {
	return "config"
}

// Initialize ensures the storage directory exists.
func (cs *ConfigService) Initialize(ctx context.Context) error {
	dir, err := cs.GetStorageDir()
	if err != nil {
		return WrapError("config", "Initialize", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return WrapError("config", "Initialize", fmt.Errorf("failed to create storage dir: %w", err))
	}
	cs.log(fmt.Sprintf("ConfigService initialized, storage dir: %s", dir))
	return nil
}

// Shutdown is a no-op.
func (cs *ConfigService) Shutdown() error {
	return nil
}

// GetStorageDir returns the storage directory (~/deckgen by default).
func (cs *ConfigService) GetStorageDir() (string, error) {
	cs.mu.RLock()
	sd := cs.storageDir
	cs.mu.RUnlock()

	if sd != "" {
		return sd, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", WrapError("config", "GetStorageDir", err)
	}
	return filepath.Join(home, "deckgen"), nil
}

// SetStorageDir overrides the storage directory, mainly for tests.
func (cs *ConfigService) SetStorageDir(dir string) {
	cs.mu.Lock()
	cs.storageDir = dir
	cs.mu.Unlock()
}

// GetConfigPath returns the config file path.
func (cs *ConfigService) GetConfigPath() (string, error) {
	dir, err := cs.GetStorageDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DefaultConfig returns the configuration used when no file exists yet.
func (cs *ConfigService) DefaultConfig() (config.Config, error) {
	dir, err := cs.GetStorageDir()
	if err != nil {
		return config.Config{}, err
	}
	return config.Config{
		Server: config.ServerConfig{
			ListenAddr:         ":8080",
			RateLimitPerMinute: 120,
		},
		DataDir:     filepath.Join(dir, "data"),
		LogDir:      filepath.Join(dir, "logs"),
		WorkerCount: 4,
	}, nil
}

// GetConfig loads the configuration from disk, writing defaults on first run.
func (cs *ConfigService) GetConfig() (config.Config, error) {
	path, err := cs.GetConfigPath()
	if err != nil {
		return config.Config{}, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		defaultCfg, err := cs.DefaultConfig()
		if err != nil {
			return config.Config{}, err
		}
		if err := cs.SaveConfig(defaultCfg); err != nil {
			return config.Config{}, err
		}
		return defaultCfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return config.Config{}, WrapError("config", "GetConfig", fmt.Errorf("failed to read config: %w", err))
	}

	var cfg config.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return config.Config{}, WrapError("config", "GetConfig", fmt.Errorf("failed to parse config: %w", err))
	}

	// Backfill fields older config files predate.
	defaults, err := cs.DefaultConfig()
	if err != nil {
		return config.Config{}, err
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = defaults.Server.ListenAddr
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaults.DataDir
	}
	if cfg.LogDir == "" {
		cfg.LogDir = defaults.LogDir
	}
	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = defaults.WorkerCount
	}
	return cfg, nil
}

// SaveConfig writes the configuration to disk.
func (cs *ConfigService) SaveConfig(cfg config.Config) error {
	path, err := cs.GetConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return WrapError("config", "SaveConfig", fmt.Errorf("failed to create config dir: %w", err))
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return WrapError("config", "SaveConfig", fmt.Errorf("failed to serialize config: %w", err))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return WrapError("config", "SaveConfig", fmt.Errorf("failed to write config: %w", err))
	}
	cs.log(fmt.Sprintf("Configuration saved to %s", path))
	return nil
}

func (cs *ConfigService) log(msg string) {
	if cs.logger != nil {
		cs.logger(msg)
	}
}
