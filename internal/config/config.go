// ABOUTME: User configuration for attachment placement, logging, server and session.
// ABOUTME: YAML file under the XDG config dir, overridable from .env and MOBI_* variables.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/harper/mobi/internal/models"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrUnknownKey is returned by Set for keys that do not exist.
var ErrUnknownKey = errors.New("config: unknown key")

// Config holds everything mobi reads at startup.
type Config struct {
	Attachments Attachments `yaml:"attachments"`
	Log         Log         `yaml:"log"`
	Server      Server      `yaml:"server"`
	Session     Session     `yaml:"session"`
}

// Attachments controls where ingested files land.
type Attachments struct {
	// SubfolderEnabled nests attachments under SubfolderName (default: true)
	SubfolderEnabled bool `yaml:"subfolder_enabled" env:"MOBI_SUBFOLDER_ENABLED"`

	// SubfolderName is the folder created next to the document (default: assets)
	SubfolderName string `yaml:"subfolder_name" env:"MOBI_SUBFOLDER_NAME"`
}

type Log struct {
	Level  string `yaml:"level" env:"MOBI_LOG_LEVEL"`
	Format string `yaml:"format" env:"MOBI_LOG_FORMAT"`
}

type Server struct {
	Addr string `yaml:"addr" env:"MOBI_SERVER_ADDR"`
}

type Session struct {
	// Path is the session store directory (default: $XDG_DATA_HOME/mobi/session)
	Path string `yaml:"path" env:"MOBI_SESSION_PATH"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Attachments: Attachments{
			SubfolderEnabled: true,
			SubfolderName:    "assets",
		},
		Log: Log{
			Level:  "warn",
			Format: "console",
		},
		Server: Server{
			Addr: "127.0.0.1:7788",
		},
		Session: Session{
			Path: filepath.Join(DataDir(), "session"),
		},
	}
}

// Settings converts the attachment section into the ingestion settings.
func (c *Config) Settings() models.Settings {
	return models.Settings{
		SubfolderEnabled: c.Attachments.SubfolderEnabled,
		SubfolderName:    c.Attachments.SubfolderName,
	}
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log.level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: invalid log.format %q", c.Log.Format)
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("config: server.addr is empty")
	}
	return nil
}

// ConfigDir returns the configuration directory path.
func ConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "mobi")
}

// DataDir returns the data directory path.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "mobi")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// LoadConfig loads the config file, then applies .env and environment overrides.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(ConfigPath())
}

// LoadConfigFrom is LoadConfig for an explicit file path.
func LoadConfigFrom(path string) (*Config, error) {
	cfg, err := ReadConfigFile(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadConfigFile reads path over the defaults without applying the environment.
func ReadConfigFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // Path comes from XDG config dir
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes configuration to disk.
func SaveConfig(cfg *Config) error {
	return SaveConfigTo(ConfigPath(), cfg)
}

// SaveConfigTo writes cfg to path, creating its directory.
func SaveConfigTo(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// ConfigExists returns true if a config file exists.
func ConfigExists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Keys lists the settable keys in display order.
func Keys() []string {
	return []string{
		"attachments.subfolder_enabled",
		"attachments.subfolder_name",
		"log.level",
		"log.format",
		"server.addr",
		"session.path",
	}
}

// Get returns the string form of key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "attachments.subfolder_enabled":
		return strconv.FormatBool(c.Attachments.SubfolderEnabled), nil
	case "attachments.subfolder_name":
		return c.Attachments.SubfolderName, nil
	case "log.level":
		return c.Log.Level, nil
	case "log.format":
		return c.Log.Format, nil
	case "server.addr":
		return c.Server.Addr, nil
	case "session.path":
		return c.Session.Path, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set parses value into key and validates the result.
func (c *Config) Set(key, value string) error {
	switch key {
	case "attachments.subfolder_enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("config: %s expects true or false: %w", key, err)
		}
		c.Attachments.SubfolderEnabled = b
	case "attachments.subfolder_name":
		c.Attachments.SubfolderName = value
	case "log.level":
		c.Log.Level = value
	case "log.format":
		c.Log.Format = value
	case "server.addr":
		c.Server.Addr = value
	case "session.path":
		c.Session.Path = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return c.Validate()
}
