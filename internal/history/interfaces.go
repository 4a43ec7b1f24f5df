// Package history persists the lines entered at the shell prompt.
package history

// Store defines the interface for the command-line history.
// This interface enables dependency injection and easier testing.
type Store interface {
	// Load reads previously recorded entries
	Load() error

	// Append records a line for the current session
	Append(line string) error

	// Lines returns the recorded lines, oldest first
	Lines() []string
}

// Ensure concrete type implements the interface
var _ Store = (*History)(nil)
