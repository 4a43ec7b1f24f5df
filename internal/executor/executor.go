package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"syscall"

	"github.com/quocvuong92/ai-terminal/internal/logging"
)

// Exit statuses shells use when the program cannot be found
const (
	exitNotFoundPOSIX   = 127
	exitNotFoundWindows = 9009
)

// ErrCommandNotFound is returned when the shell cannot find the program
var ErrCommandNotFound = errors.New("command not found")

// ExitError reports a command that exited unsuccessfully
type ExitError struct {
	// Code is the exit status, or -1 when the process was killed by a signal
	Code int
	// Signal names the terminating signal, empty for a normal exit
	Signal string
}

func (e *ExitError) Error() string {
	if e.Signal != "" {
		return fmt.Sprintf("command terminated by signal %s", e.Signal)
	}
	return fmt.Sprintf("command failed with exit code %d", e.Code)
}

// Executor runs command lines through a shell with the terminal's stdio
type Executor struct {
	// Stdin is the command's input; nil reads from the null device
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Shell overrides the detected shell. Empty means $SHELL, then /bin/sh,
	// or cmd on Windows.
	Shell string

	goos string
	log  *logging.FieldLogger
}

// New creates an executor attached to the process's standard streams
func New() *Executor {
	return &Executor{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		goos:   runtime.GOOS,
		log:    logging.Component("executor"),
	}
}

// shellCommand returns the shell and arguments that interpret command
func (e *Executor) shellCommand(command string) (string, []string) {
	if e.goos == "windows" {
		shell := e.Shell
		if shell == "" {
			shell = "cmd"
		}
		return shell, []string{"/C", command}
	}

	shell := e.Shell
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}
	return shell, []string{"-c", command}
}

// Run executes command as one shell invocation and blocks until it exits.
// It returns nil on success, ErrCommandNotFound when the program is missing
// and *ExitError for any other failure status.
func (e *Executor) Run(ctx context.Context, command string) error {
	shell, args := e.shellCommand(command)
	e.log.Debug("running command", logging.Fields{"shell": shell, "command": command})

	cmd := exec.CommandContext(ctx, shell, args...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	err := cmd.Run()
	if err == nil {
		e.log.Debug("command completed", logging.Fields{"exit_code": 0})
		return nil
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrCommandNotFound, shell)
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Errorf("failed to start command: %w", err)
	}

	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		e.log.Debug("command terminated", logging.Fields{"signal": ws.Signal().String()})
		return &ExitError{Code: -1, Signal: ws.Signal().String()}
	}

	code := exitErr.ExitCode()
	e.log.Debug("command failed", logging.Fields{"exit_code": code})
	if code == exitNotFoundPOSIX || (e.goos == "windows" && code == exitNotFoundWindows) {
		return ErrCommandNotFound
	}
	return &ExitError{Code: code}
}
