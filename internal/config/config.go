// Package config provides configuration file support for posterjob.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Config represents the posterjob configuration file structure.
type Config struct {
	// BaseDir is the application directory the management commands run in
	BaseDir string `yaml:"base_dir"`

	// Interpreter runs the management commands; empty means
	// <base_dir>/.venv/bin/python
	Interpreter string `yaml:"interpreter,omitempty"`

	// Entrypoint is the script handed to the interpreter
	Entrypoint string `yaml:"entrypoint"`

	// Defaults are applied when flags are not specified
	Defaults Defaults `yaml:"defaults"`

	// Env is extra environment for the child processes
	Env map[string]string `yaml:"env,omitempty"`

	// Telegram configures run-outcome notifications
	Telegram Telegram `yaml:"telegram"`
}

// Defaults holds default values for run parameters.
type Defaults struct {
	// IncludeProductsSales passes --include-products-sales to the import
	// step (may be slow on large accounts)
	IncludeProductsSales bool `yaml:"include_products_sales"`

	// Output mode
	Verbose bool `yaml:"verbose"`
	JSON    bool `yaml:"json"`
	CSV     bool `yaml:"csv"`
	NoColor bool `yaml:"no_color"`

	// Notify sends the run outcome to Telegram
	Notify bool `yaml:"notify"`
}

// Telegram holds notification settings.
type Telegram struct {
	Token  string `yaml:"token,omitempty"`
	ChatID string `yaml:"chat_id,omitempty"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Entrypoint: "manage.py",
		Defaults: Defaults{
			IncludeProductsSales: true,
		},
	}
}

// Load reads configuration from the default config file locations.
// It searches in order:
//  1. ./posterjob.yaml (current directory)
//  2. ~/.config/posterjob/config.yaml (Linux/macOS)
//  3. %APPDATA%\posterjob\config.yaml (Windows)
//
// If no config file is found, an error is returned so the caller can decide
// whether to fall back to defaults.
func Load() (*Config, error) {
	paths := getConfigPaths()

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return LoadFrom(path)
		}
	}

	return nil, os.ErrNotExist
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	if err := config.expandPaths(); err != nil {
		return nil, err
	}

	return config, nil
}

// Save writes the configuration to the default user config path.
func (c *Config) Save() error {
	return c.SaveTo(getUserConfigPath())
}

// SaveTo writes the configuration to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ResolveInterpreter returns the configured interpreter, falling back to the
// conventional virtualenv location under the base directory.
func (c *Config) ResolveInterpreter() string {
	if c.Interpreter != "" {
		return c.Interpreter
	}
	return DefaultInterpreter(c.BaseDir)
}

// DefaultInterpreter returns the conventional interpreter path for a base
// directory: <base>/.venv/bin/python.
func DefaultInterpreter(baseDir string) string {
	if baseDir == "" {
		return ""
	}
	return filepath.Join(baseDir, ".venv", "bin", "python")
}

// expandPaths expands ~ in the configured paths.
func (c *Config) expandPaths() error {
	base, err := homedir.Expand(c.BaseDir)
	if err != nil {
		return err
	}
	c.BaseDir = base

	interp, err := homedir.Expand(c.Interpreter)
	if err != nil {
		return err
	}
	c.Interpreter = interp

	return nil
}

// getConfigPaths returns the list of config file paths to search.
func getConfigPaths() []string {
	paths := []string{
		"posterjob.yaml",
		"posterjob.yml",
		".posterjob.yaml",
		".posterjob.yml",
	}

	userPath := getUserConfigPath()
	if userPath != "" {
		paths = append(paths, userPath)
	}

	return paths
}

// getUserConfigPath returns the user-specific config file path.
func getUserConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "posterjob", "config.yaml")
		}
	default: // Linux, macOS, etc.
		home, err := os.UserHomeDir()
		if err == nil {
			// Check XDG_CONFIG_HOME first
			xdgConfig := os.Getenv("XDG_CONFIG_HOME")
			if xdgConfig != "" {
				return filepath.Join(xdgConfig, "posterjob", "config.yaml")
			}
			return filepath.Join(home, ".config", "posterjob", "config.yaml")
		}
	}
	return ""
}

// GetConfigPath returns the path where user config would be saved.
func GetConfigPath() string {
	return getUserConfigPath()
}

// GenerateExample generates an example configuration file content.
func GenerateExample() string {
	return `# posterjob Configuration File
# Location: ~/.config/posterjob/config.yaml (Linux/macOS)
#           %APPDATA%\posterjob\config.yaml (Windows)
#           ./posterjob.yaml (current directory)

# The reporting application checkout the commands run in.
base_dir: /srv/poster-reports

# Interpreter that runs the management commands.
# Defaults to <base_dir>/.venv/bin/python when unset.
# interpreter: /srv/poster-reports/.venv/bin/python

# Script handed to the interpreter.
entrypoint: manage.py

defaults:
  include_products_sales: true  # Pass --include-products-sales to the import
  verbose: false                # Detailed table output
  json: false                   # JSON output
  csv: false                    # CSV output
  no_color: false               # Disable colors
  notify: false                 # Send run outcome to Telegram

# Extra environment for the child processes. A .env file in base_dir is
# merged in as well.
# env:
#   DJANGO_SETTINGS_MODULE: project.settings

# Telegram notification target (used with defaults.notify or --notify).
# telegram:
#   token: "123456:ABC-DEF"
#   chat_id: "-1001234567890"
`
}
