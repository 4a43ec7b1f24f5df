// Package builtins implements the commands the shell runs in-process.
//
// The set of commands is closed: each one is a type implementing Command and
// the Registry is built once by NewRegistry. Handlers never return Go errors
// to the caller. Every failure becomes a Result with IsError set and a message
// prefixed with the command name.
package builtins

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/quocvuong92/ai-terminal/internal/logging"
)

// Result is the outcome of a built-in command
type Result struct {
	// Output is printed by the session when non-empty
	Output string
	// IsError marks Output as a failure message
	IsError bool
	// Exit asks the session to end
	Exit bool
}

// Command is a built-in shell command
type Command interface {
	Name() string
	Run(env *Env, args []string) Result
}

// Env is the process state handed to built-ins. The session owns it and is
// the only writer of the working directory.
type Env struct {
	// Out receives terminal control sequences such as the clear screen code
	Out io.Writer
}

// NewEnv creates an environment writing control sequences to out
func NewEnv(out io.Writer) *Env {
	if out == nil {
		out = os.Stdout
	}
	return &Env{Out: out}
}

// Chdir changes the process working directory
func (e *Env) Chdir(dir string) error {
	return os.Chdir(dir)
}

// Getwd returns the absolute working directory
func (e *Env) Getwd() (string, error) {
	return os.Getwd()
}

// HomeDir returns the user's home directory
func (e *Env) HomeDir() (string, error) {
	return os.UserHomeDir()
}

// Registry maps command names to built-ins. It is not modified after
// NewRegistry returns.
type Registry struct {
	commands map[string]Command
}

// NewRegistry returns the registry of all built-in commands
func NewRegistry() *Registry {
	all := []Command{
		cdCommand{},
		lsCommand{},
		pwdCommand{},
		mkdirCommand{},
		touchCommand{},
		catCommand{},
		echoCommand{},
		rmCommand{},
		mvCommand{},
		clearCommand{},
		exitCommand{},
		helpCommand{},
	}

	r := &Registry{commands: make(map[string]Command, len(all))}
	for _, c := range all {
		r.commands[c.Name()] = c
	}
	return r
}

// Lookup returns the built-in registered under name
func (r *Registry) Lookup(name string) (Command, bool) {
	c, ok := r.commands[name]
	return c, ok
}

// Names returns the registered command names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes the named built-in. The boolean is false when name is not a
// built-in, in which case nothing is run.
func (r *Registry) Run(env *Env, name string, args []string) (Result, bool) {
	c, ok := r.Lookup(name)
	if !ok {
		return Result{}, false
	}

	res := c.Run(env, args)
	logging.Debug("builtin finished", logging.Fields{
		"command":  name,
		"args":     len(args),
		"is_error": res.IsError,
	})
	return res, true
}

func succeed(output string) Result {
	return Result{Output: output}
}

func fail(format string, args ...interface{}) Result {
	return Result{Output: fmt.Sprintf(format, args...), IsError: true}
}
