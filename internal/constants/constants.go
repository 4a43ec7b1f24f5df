// Package constants provides shared constants used across the application
// to avoid circular dependencies between packages.
package constants

import "time"

// AppName is the binary and config directory name
const AppName = "ai-terminal"

// Timeout constants used across the application
const (
	// DefaultAPITimeout bounds a single suggestion request so the loop never blocks forever
	DefaultAPITimeout = 60 * time.Second
)

// Application defaults
const (
	DefaultModel       = "mistralai/mistral-7b-instruct"
	DefaultAPIURL      = "https://openrouter.ai/api/v1/chat/completions"
	DefaultHistoryFile = ".ai_terminal_history"
	DefaultLogLevel    = "none"
	DefaultLogFormat   = "text"
)

// Farewell is printed whenever the session ends normally
const Farewell = "Goodbye!"

// ClearScreen is the terminal reset sequence written by the clear built-in
const ClearScreen = "\033c"
