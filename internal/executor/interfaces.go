// Package executor runs suggested commands through the platform shell and
// rates how risky a command line looks.
package executor

import "context"

// CommandRunner defines the interface for running external command lines.
// This interface enables dependency injection and easier testing.
type CommandRunner interface {
	// Run executes command through the shell and waits for it to exit
	Run(ctx context.Context, command string) error
}

// Ensure the shell executor implements CommandRunner
var _ CommandRunner = (*Executor)(nil)
