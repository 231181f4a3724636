// Package config loads console and controller configuration from YAML
// files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	rcterrors "rct/pkg/errors"
	"rct/pkg/protocol"
)

// ConsoleConfig configures the driver-station console.
type ConsoleConfig struct {
	TeamNumber int           `yaml:"team_number"`
	Port       int           `yaml:"port"`
	Logging    LoggingConfig `yaml:"logging"`
}

// ControllerConfig configures the robot-side controller server.
type ControllerConfig struct {
	Address  string         `yaml:"address"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig selects the instruction-log backend.
type DatabaseConfig struct {
	Type string `yaml:"type"` // sqlite | mysql
	Path string `yaml:"path"` // file path for sqlite, DSN for mysql
}

// LoggingConfig represents logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConsoleConfig returns console defaults.
func DefaultConsoleConfig() *ConsoleConfig {
	return &ConsoleConfig{
		TeamNumber: 0,
		Port:       protocol.DefaultPort,
		Logging:    LoggingConfig{Level: "info", Format: "text"},
	}
}

// DefaultControllerConfig returns controller defaults.
func DefaultControllerConfig() *ControllerConfig {
	return &ControllerConfig{
		Address: fmt.Sprintf(":%d", protocol.DefaultPort),
		Database: DatabaseConfig{
			Type: "sqlite",
			Path: "./rct-log.db",
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// LoadConsoleConfig loads console configuration from an optional YAML
// file, then applies environment overrides.
func LoadConsoleConfig(path string) (*ConsoleConfig, error) {
	cfg := DefaultConsoleConfig()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
	}

	if team := os.Getenv("RCT_TEAM_NUMBER"); team != "" {
		if val, err := strconv.Atoi(team); err == nil {
			cfg.TeamNumber = val
		}
	}
	if port := os.Getenv("RCT_PORT"); port != "" {
		if val, err := strconv.Atoi(port); err == nil {
			cfg.Port = val
		}
	}
	applyLoggingEnv(&cfg.Logging)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadControllerConfig loads controller configuration from an optional
// YAML file, then applies environment overrides.
func LoadControllerConfig(path string) (*ControllerConfig, error) {
	cfg := DefaultControllerConfig()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
	}

	if addr := os.Getenv("RCT_ADDR"); addr != "" {
		cfg.Address = addr
	}
	if dbType := os.Getenv("RCT_DB_TYPE"); dbType != "" {
		cfg.Database.Type = dbType
	}
	if dbPath := os.Getenv("RCT_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}
	applyLoggingEnv(&cfg.Logging)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromFile(path string, config interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, config)
}

func applyLoggingEnv(cfg *LoggingConfig) {
	if level := os.Getenv("RCT_LOG_LEVEL"); level != "" {
		cfg.Level = level
	}
	if format := os.Getenv("RCT_LOG_FORMAT"); format != "" {
		cfg.Format = format
	}
}

// Validate validates console configuration.
func (c *ConsoleConfig) Validate() error {
	if c.TeamNumber < 0 {
		return fmt.Errorf("%w: team number cannot be negative", rcterrors.ErrInvalidConfig)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: invalid port %d", rcterrors.ErrInvalidConfig, c.Port)
	}
	if !isValidLogLevel(c.Logging.Level) {
		return fmt.Errorf("%w: unknown log level %q", rcterrors.ErrInvalidConfig, c.Logging.Level)
	}
	return nil
}

// Validate validates controller configuration.
func (c *ControllerConfig) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("%w: listen address cannot be empty", rcterrors.ErrInvalidConfig)
	}
	switch c.Database.Type {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("%w: unsupported database type %q", rcterrors.ErrInvalidConfig, c.Database.Type)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database path cannot be empty", rcterrors.ErrInvalidConfig)
	}
	if !isValidLogLevel(c.Logging.Level) {
		return fmt.Errorf("%w: unknown log level %q", rcterrors.ErrInvalidConfig, c.Logging.Level)
	}
	return nil
}

func isValidLogLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
