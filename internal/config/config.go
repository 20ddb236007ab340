// Package config handles the XDG configuration directory and settings.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "taskman"

	// SettingsFile is the optional settings filename inside the config directory.
	SettingsFile = "settings.yaml"

	// EnvPrefix prefixes environment overrides, e.g. TASKMAN_API_URL.
	EnvPrefix = "TASKMAN"

	// DefaultAPIURL is the task manager API used unless configured otherwise.
	DefaultAPIURL = "https://task-manager-wa-ve3.onrender.com"

	// DefaultTimeout bounds each API call unless configured otherwise.
	DefaultTimeout = 30 * time.Second
)

// Settings keys.
const (
	KeyAPIURL  = "api_url"
	KeyTimeout = "timeout"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path. Session state lives here.
	Dir string

	// APIURL is the base URL of the task API.
	APIURL string

	// Timeout bounds each API call.
	Timeout time.Duration

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Input is where prompts read from.
	Input *bufio.Reader

	// Terminal is set when Input reads from an interactive terminal.
	// Passwords are then read from it with echo turned off.
	Terminal *os.File
}

// New creates a new Config with the default or specified config directory
// and loads settings from settings.yaml and TASKMAN_* environment variables.
// If configDir is empty, uses XDG_CONFIG_HOME/taskman or $HOME/.config/taskman.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir, Input: bufio.NewReader(strings.NewReader(""))}
	if err := cfg.load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) load() error {
	v := viper.New()
	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyTimeout, DefaultTimeout.String())
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if _, err := os.Stat(c.SettingsPath()); err == nil {
		v.SetConfigFile(c.SettingsPath())
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("invalid %s: %w", SettingsFile, err)
		}
	}

	c.APIURL = v.GetString(KeyAPIURL)
	raw := v.GetString(KeyTimeout)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fmt.Errorf("invalid timeout: %s", raw)
	}
	c.Timeout = d
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
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to the settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// LoadDotEnv loads variables from a .env file at path into the process
// environment. A missing file is not an error. Variables already set win.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("invalid %s: %w", path, err)
	}
	return nil
}
