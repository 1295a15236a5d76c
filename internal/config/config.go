// Package config handles the XDG configuration directory and environment settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	// AppName is the application directory name.
	AppName = "taskmaster"

	// EnvFile is the optional dotenv file inside the config directory.
	EnvFile = ".env"

	// DefaultAddr is the default listen address for serve.
	DefaultAddr = "127.0.0.1:8080"

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"
)

// Environment keys. Process environment wins over the .env file.
const (
	EnvAddr     = "TASKMASTER_ADDR"
	EnvLogFile  = "TASKMASTER_LOG_FILE"
	EnvLogLevel = "TASKMASTER_LOG_LEVEL"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging to stderr.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Addr is the HTTP listen address used by serve.
	Addr string

	// LogFile, when set, receives JSON logs with rotation.
	LogFile string

	// LogLevel is a logrus level name.
	LogLevel string
}

// New creates a Config for the default or specified config directory and
// loads settings from <dir>/.env and the process environment.
// If configDir is empty, uses XDG_CONFIG_HOME/taskmaster or $HOME/.config/taskmaster.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:      dir,
		Addr:     DefaultAddr,
		LogLevel: DefaultLogLevel,
	}

	env, err := cfg.readEnvFile()
	if err != nil {
		return nil, err
	}
	cfg.apply(env)
	return cfg, nil
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

// EnvPath returns the path to the dotenv file.
func (c *Config) EnvPath() string {
	return filepath.Join(c.Dir, EnvFile)
}

// readEnvFile reads the dotenv file. A missing file yields no values.
func (c *Config) readEnvFile() (map[string]string, error) {
	env, err := godotenv.Read(c.EnvPath())
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.EnvPath(), err)
	}
	return env, nil
}

func (c *Config) apply(file map[string]string) {
	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return file[key]
	}

	if v := lookup(EnvAddr); v != "" {
		c.Addr = v
	}
	if v := lookup(EnvLogFile); v != "" {
		if !filepath.IsAbs(v) {
			v = filepath.Join(c.Dir, v)
		}
		c.LogFile = v
	}
	if v := lookup(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}
