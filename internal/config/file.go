package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quocvuong92/ai-terminal/internal/constants"
)

// ConfigFileName is the name of the config file
const ConfigFileName = "config.yaml"

// FileConfig represents the configuration file structure
type FileConfig struct {
	// Suggestion endpoint settings
	API *APIConfig `yaml:"api,omitempty"`

	// Interactive session settings
	Session *SessionConfig `yaml:"session,omitempty"`

	// Logging settings
	Logging *LoggingConfig `yaml:"logging,omitempty"`
}

// APIConfig holds chat-completion endpoint configuration
type APIConfig struct {
	URL     string `yaml:"url,omitempty"`
	Key     string `yaml:"key,omitempty"`
	Model   string `yaml:"model,omitempty"`
	Timeout string `yaml:"timeout,omitempty"` // Go duration, e.g. "45s"
}

// SessionConfig holds REPL configuration
type SessionConfig struct {
	HistoryFile string `yaml:"history_file,omitempty"`
	Render      bool   `yaml:"render,omitempty"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error, none
	Format string `yaml:"format,omitempty"` // text or json
}

// GetConfigPaths returns the paths to check for config files (in order of priority)
func GetConfigPaths() []string {
	var paths []string

	// 1. Current directory
	paths = append(paths, filepath.Join(".", "."+constants.AppName, ConfigFileName))

	// 2. User config directory
	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, constants.AppName, ConfigFileName))
	}

	// 3. Home directory
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".config", constants.AppName, ConfigFileName))
	}

	return paths
}

// LoadConfigFile attempts to load configuration from the first existing file
func LoadConfigFile() (*FileConfig, error) {
	for _, path := range GetConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			return loadConfigFromPath(path)
		}
	}

	// No config file found, return empty config
	return &FileConfig{}, nil
}

// loadConfigFromPath loads config from a specific path
func loadConfigFromPath(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &cfg, nil
}

// ApplyFileConfig applies file configuration to the main Config.
// File values only fill fields the environment left empty.
func (c *Config) ApplyFileConfig(fc *FileConfig) error {
	if fc == nil {
		return nil
	}

	if fc.API != nil {
		if c.APIURL == "" && fc.API.URL != "" {
			c.APIURL = fc.API.URL
		}
		if c.APIKey == "" && fc.API.Key != "" {
			c.APIKey = fc.API.Key
		}
		if c.Model == "" && fc.API.Model != "" {
			c.Model = fc.API.Model
		}
		if c.Timeout == 0 && fc.API.Timeout != "" {
			d, err := time.ParseDuration(fc.API.Timeout)
			if err != nil || d <= 0 {
				return ErrInvalidTimeout
			}
			c.Timeout = d
		}
	}

	if fc.Session != nil {
		if c.HistoryFile == "" && fc.Session.HistoryFile != "" {
			c.HistoryFile = fc.Session.HistoryFile
		}
		if fc.Session.Render {
			c.Render = true
		}
	}

	if fc.Logging != nil {
		if c.LogLevel == "" && fc.Logging.Level != "" {
			c.LogLevel = fc.Logging.Level
		}
		if c.LogFormat == "" && fc.Logging.Format != "" {
			c.LogFormat = fc.Logging.Format
		}
	}

	return nil
}
