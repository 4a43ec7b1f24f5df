package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/quocvuong92/ai-terminal/internal/constants"
)

// Environment variable names
const (
	// Credential for the suggestion endpoint
	EnvAPIKey = "OPENROUTER_API_KEY"

	// Endpoint settings
	EnvModel   = "AI_TERMINAL_MODEL"
	EnvAPIURL  = "AI_TERMINAL_API_URL"
	EnvTimeout = "AI_TERMINAL_TIMEOUT"

	// Session settings
	EnvHistoryFile = "AI_TERMINAL_HISTORY_FILE"
	EnvRender      = "AI_TERMINAL_RENDER"

	// Logging
	EnvLogLevel  = "AI_TERMINAL_LOG_LEVEL"
	EnvLogFormat = "AI_TERMINAL_LOG_FORMAT"
)

// DotEnvFile is loaded from the working directory at startup
const DotEnvFile = ".env"

// Defaults - re-exported from constants for convenience
const (
	DefaultModel      = constants.DefaultModel
	DefaultAPIURL     = constants.DefaultAPIURL
	DefaultAPITimeout = constants.DefaultAPITimeout
)

// Errors
var (
	ErrAPIKeyNotFound = errors.New("API key not found. Set OPENROUTER_API_KEY in your environment or .env file")
	ErrInvalidTimeout = errors.New("invalid timeout. Use a Go duration such as 30s or 2m")
	ErrInvalidAPIURL  = errors.New("invalid API URL. It must start with http:// or https://")
)

// placeholderMarkers are fragments of sample keys shipped in example .env files
var placeholderMarkers = []string{
	"YOUR_API_KEY",
	"YOUR-API-KEY",
	"YOUR API KEY",
	"REPLACE_ME",
}

// IsPlaceholderKey reports whether key is empty or an obvious sample value
func IsPlaceholderKey(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return true
	}
	upper := strings.ToUpper(key)
	for _, marker := range placeholderMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}

// Config holds the application configuration
type Config struct {
	// Suggestion endpoint
	APIKey  string
	APIURL  string
	Model   string
	Timeout time.Duration

	// Session
	HistoryFile string
	Render      bool

	// Logging
	LogLevel  string
	LogFormat string
	Debug     bool
}

// NewConfig creates a new Config with defaults
func NewConfig() *Config {
	return &Config{}
}

// Validate loads configuration and fills in defaults.
// Priority: environment (including values loaded from .env) > config file > defaults.
func (c *Config) Validate() error {
	// .env never overrides variables that are already set
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", DotEnvFile, err)
	}

	if c.APIKey == "" {
		c.APIKey = strings.TrimSpace(os.Getenv(EnvAPIKey))
	}
	if c.Model == "" {
		c.Model = strings.TrimSpace(os.Getenv(EnvModel))
	}
	if c.APIURL == "" {
		c.APIURL = strings.TrimSpace(os.Getenv(EnvAPIURL))
	}
	if c.Timeout == 0 {
		if raw := os.Getenv(EnvTimeout); raw != "" {
			d, err := time.ParseDuration(raw)
			if err != nil || d <= 0 {
				return ErrInvalidTimeout
			}
			c.Timeout = d
		}
	}
	if c.HistoryFile == "" {
		c.HistoryFile = os.Getenv(EnvHistoryFile)
	}
	if !c.Render {
		if raw := os.Getenv(EnvRender); raw != "" {
			c.Render, _ = strconv.ParseBool(raw)
		}
	}
	if c.LogLevel == "" {
		c.LogLevel = os.Getenv(EnvLogLevel)
	}
	if c.LogFormat == "" {
		c.LogFormat = os.Getenv(EnvLogFormat)
	}

	// Config file fills whatever the environment left empty
	fileConfig, err := LoadConfigFile()
	if err != nil {
		return err
	}
	if err := c.ApplyFileConfig(fileConfig); err != nil {
		return err
	}

	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	c.APIURL = strings.TrimSuffix(c.APIURL, "/")
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return ErrInvalidAPIURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultAPITimeout
	}
	if c.HistoryFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.HistoryFile = filepath.Join(home, constants.DefaultHistoryFile)
		}
	}
	if c.LogLevel == "" {
		c.LogLevel = constants.DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = constants.DefaultLogFormat
	}
	c.Debug = strings.EqualFold(c.LogLevel, "debug")

	return nil
}

// HasCredential reports whether a usable API key is configured
func (c *Config) HasCredential() bool {
	return !IsPlaceholderKey(c.APIKey)
}
