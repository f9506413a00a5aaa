package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configDir  = ".omnidb"
	configFile = "config"
	configType = "yaml"
	logFile    = "omnidb.log"
)

// Load reads the configuration from ~/.omnidb/config.yaml.
// Returns a config holding only defaults if the file does not exist.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, fmt.Errorf("config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigName(configFile)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)

	// Defaults
	v.SetDefault("preferences.theme", "default")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", filepath.Join(dir, logFile))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to ~/.omnidb/config.yaml.
func Save(cfg *Config) error {
	dir, err := Dir()
	if err != nil {
		return fmt.Errorf("config dir: %w", err)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType(configType)
	v.Set("connections", cfg.Connections)
	v.Set("preferences", cfg.Preferences)
	v.Set("logging", cfg.Logging)

	path := filepath.Join(dir, configFile+"."+configType)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SaveConnection stores conn in cfg and persists it. The password goes to
// the OS keyring and is never written to the config file.
func SaveConnection(cfg *Config, conn Connection) error {
	if conn.Password != "" {
		if err := StorePassword(conn.Name, conn.Password); err != nil {
			return err
		}
		conn.Password = ""
	}
	cfg.PutConnection(conn)
	return Save(cfg)
}

// DeleteConnection removes a saved profile and its keyring password.
func DeleteConnection(cfg *Config, name string) error {
	if !cfg.RemoveConnection(name) {
		return fmt.Errorf("unknown connection %q", name)
	}
	if err := DeletePassword(name); err != nil {
		return err
	}
	return Save(cfg)
}

// DefaultConnection returns the default connection from config, or the first one.
func DefaultConnection(cfg *Config) *Connection {
	if len(cfg.Connections) == 0 {
		return nil
	}

	if cfg.Preferences.DefaultConnection != "" {
		if c := cfg.Connection(cfg.Preferences.DefaultConnection); c != nil {
			return c
		}
	}

	return &cfg.Connections[0]
}

// Dir returns the configuration directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDir), nil
}
