// Package config handles the XDG configuration directory, file paths and
// settings read from config.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "gtasksync"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// SettingsFile is the optional settings filename.
	SettingsFile = "config.yaml"

	// DatabaseFile is the default local database filename.
	DatabaseFile = "gtasksync.db"

	// DefaultAccount names the account when none is configured.
	DefaultAccount = "default"

	// DefaultAPITimeout bounds each remote call.
	DefaultAPITimeout = 30 * time.Second

	envPrefix = "GTASKSYNC"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Account keys the sync state and shadow rows in the local database.
	Account string `mapstructure:"account"`

	// Database is the path of the local SQLite database.
	Database string `mapstructure:"database"`

	// APITimeout bounds each remote call.
	APITimeout time.Duration `mapstructure:"api_timeout"`

	// LogFile, when set, receives logs instead of stderr.
	LogFile string `mapstructure:"log_file"`
}

// New creates a new Config with the default or specified config directory
// and loads config.yaml from it when present.
// If configDir is empty, uses XDG_CONFIG_HOME/gtasksync or $HOME/.config/gtasksync.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	if err := cfg.load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// load reads settings from config.yaml and GTASKSYNC_* variables.
func (c *Config) load() error {
	v := viper.New()
	v.SetDefault("account", DefaultAccount)
	v.SetDefault("database", filepath.Join(c.Dir, DatabaseFile))
	v.SetDefault("api_timeout", DefaultAPITimeout)
	v.SetDefault("log_file", "")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetConfigFile(c.SettingsPath())
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("invalid %s: %w", SettingsFile, err)
		}
	}

	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("invalid %s: %w", SettingsFile, err)
	}
	if c.APITimeout <= 0 {
		c.APITimeout = DefaultAPITimeout
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// SettingsPath returns the path to config.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// DatabasePath returns the local database path.
func (c *Config) DatabasePath() string {
	if c.Database != "" {
		return c.Database
	}
	return filepath.Join(c.Dir, DatabaseFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
