package builtins

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"
)

type cdCommand struct{}

func (cdCommand) Name() string { return "cd" }

func (cdCommand) Run(env *Env, args []string) Result {
	target := ""
	if len(args) > 0 {
		target = args[0]
	} else {
		home, err := env.HomeDir()
		if err != nil {
			return fail("cd: an error occurred: %v", err)
		}
		target = home
	}

	if err := env.Chdir(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fail("cd: no such file or directory: %s", target)
		}
		return fail("cd: an error occurred: %v", err)
	}
	return succeed("")
}

type lsCommand struct{}

func (lsCommand) Name() string { return "ls" }

// Run lists entry names sorted by name, tab separated. Hidden entries are
// included.
func (lsCommand) Run(_ *Env, args []string) Result {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fail("ls: cannot access '%s': No such file or directory", target)
		}
		return fail("ls: an error occurred: %v", err)
	}

	// os.ReadDir sorts by filename
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return succeed(strings.Join(names, "\t"))
}

type pwdCommand struct{}

func (pwdCommand) Name() string { return "pwd" }

func (pwdCommand) Run(env *Env, _ []string) Result {
	dir, err := env.Getwd()
	if err != nil {
		return fail("pwd: an error occurred: %v", err)
	}
	return succeed(dir)
}

type mkdirCommand struct{}

func (mkdirCommand) Name() string { return "mkdir" }

func (mkdirCommand) Run(_ *Env, args []string) Result {
	if len(args) == 0 {
		return fail("mkdir: missing operand")
	}

	name := args[0]
	if err := os.Mkdir(name, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fail("mkdir: cannot create directory '%s': File exists", name)
		}
		return fail("mkdir: an error occurred: %v", err)
	}
	return succeed("")
}

type touchCommand struct{}

func (touchCommand) Name() string { return "touch" }

func (touchCommand) Run(_ *Env, args []string) Result {
	if len(args) == 0 {
		return fail("touch: missing operand")
	}

	name := args[0]
	f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fail("touch: an error occurred: %v", err)
	}
	if err := f.Close(); err != nil {
		return fail("touch: an error occurred: %v", err)
	}

	now := time.Now()
	if err := os.Chtimes(name, now, now); err != nil {
		return fail("touch: an error occurred: %v", err)
	}
	return succeed("")
}

type catCommand struct{}

func (catCommand) Name() string { return "cat" }

func (catCommand) Run(_ *Env, args []string) Result {
	if len(args) == 0 {
		return fail("cat: missing operand")
	}

	name := args[0]
	info, err := os.Stat(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fail("cat: %s: No such file or directory", name)
		}
		return fail("cat: an error occurred: %v", err)
	}
	if info.IsDir() {
		return fail("cat: %s: Is a directory", name)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return fail("cat: an error occurred: %v", err)
	}
	return succeed(string(data))
}
