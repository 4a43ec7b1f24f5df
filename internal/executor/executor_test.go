package executor

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
)

func newTestExecutor(t *testing.T) (*Executor, *bytes.Buffer) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}
	var out bytes.Buffer
	e := New()
	e.Shell = "/bin/sh"
	e.Stdin = strings.NewReader("")
	e.Stdout = &out
	e.Stderr = &out
	return e, &out
}

func TestExecutor_Run_Success(t *testing.T) {
	e, out := newTestExecutor(t)

	if err := e.Run(context.Background(), "echo 'hello from sh'"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.String() != "hello from sh\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestExecutor_Run_ShellFeatures(t *testing.T) {
	e, out := newTestExecutor(t)

	if err := e.Run(context.Background(), "printf 'a\\nb\\n' | wc -l | tr -d ' '"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.TrimSpace(out.String()) != "2" {
		t.Errorf("output = %q, want pipeline result 2", out.String())
	}
}

func TestExecutor_Run_ExitCode(t *testing.T) {
	e, _ := newTestExecutor(t)

	err := e.Run(context.Background(), "exit 3")

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Run() error = %v, want *ExitError", err)
	}
	if exitErr.Code != 3 || exitErr.Signal != "" {
		t.Errorf("ExitError = %+v, want code 3", exitErr)
	}
	if exitErr.Error() != "command failed with exit code 3" {
		t.Errorf("Error() = %q", exitErr.Error())
	}
}

func TestExecutor_Run_NotFound(t *testing.T) {
	e, _ := newTestExecutor(t)

	err := e.Run(context.Background(), "definitely-not-a-real-command-7f3a")
	if !errors.Is(err, ErrCommandNotFound) {
		t.Errorf("Run() error = %v, want ErrCommandNotFound", err)
	}
}

func TestExecutor_Run_MissingShell(t *testing.T) {
	e, _ := newTestExecutor(t)
	e.Shell = "/nonexistent/shell"

	if err := e.Run(context.Background(), "true"); !errors.Is(err, ErrCommandNotFound) {
		t.Errorf("Run() error = %v, want ErrCommandNotFound", err)
	}
}

func TestExecutor_Run_Signal(t *testing.T) {
	e, _ := newTestExecutor(t)

	err := e.Run(context.Background(), "kill -TERM $$")

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Run() error = %v, want *ExitError", err)
	}
	if exitErr.Signal != "terminated" {
		t.Errorf("Signal = %q, want %q", exitErr.Signal, "terminated")
	}
	if !strings.Contains(exitErr.Error(), "signal terminated") {
		t.Errorf("Error() = %q", exitErr.Error())
	}
}

func TestExecutor_ShellCommand(t *testing.T) {
	tests := []struct {
		goos      string
		shell     string
		env       string
		wantShell string
		wantArgs  []string
	}{
		{"linux", "", "/bin/zsh", "/bin/zsh", []string{"-c", "ls"}},
		{"linux", "", "", "/bin/sh", []string{"-c", "ls"}},
		{"darwin", "/bin/bash", "/bin/zsh", "/bin/bash", []string{"-c", "ls"}},
		{"windows", "", "", "cmd", []string{"/C", "ls"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos+tt.shell+tt.env, func(t *testing.T) {
			t.Setenv("SHELL", tt.env)
			e := &Executor{Shell: tt.shell, goos: tt.goos}

			shell, args := e.shellCommand("ls")
			if shell != tt.wantShell {
				t.Errorf("shell = %q, want %q", shell, tt.wantShell)
			}
			if strings.Join(args, " ") != strings.Join(tt.wantArgs, " ") {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}
