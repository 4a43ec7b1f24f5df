package builtins

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// redirectToken is the only redirection echo understands
const redirectToken = ">"

type echoCommand struct{}

func (echoCommand) Name() string { return "echo" }

// Run joins the words with single spaces. With "> file" the words before the
// first ">" are written to file followed by a newline and nothing is printed.
func (echoCommand) Run(_ *Env, args []string) Result {
	idx := -1
	for i, a := range args {
		if a == redirectToken {
			idx = i
			break
		}
	}
	if idx < 0 {
		return succeed(strings.Join(args, " "))
	}

	if idx+1 >= len(args) {
		return fail("Syntax error: no file specified for redirection.")
	}

	content := strings.Join(args[:idx], " ") + "\n"
	if err := os.WriteFile(args[idx+1], []byte(content), 0o644); err != nil {
		return fail("echo: an error occurred: %v", err)
	}
	return succeed("")
}

type rmCommand struct{}

func (rmCommand) Name() string { return "rm" }

// Run removes targets in order and stops at the first one that fails.
// Targets removed before the failure stay removed.
func (rmCommand) Run(_ *Env, args []string) Result {
	recursive := false
	targets := make([]string, 0, len(args))
	for _, a := range args {
		if a == "-r" {
			recursive = true
			continue
		}
		targets = append(targets, a)
	}
	if len(targets) == 0 {
		return fail("rm: missing operand")
	}

	for _, target := range targets {
		info, err := os.Lstat(target)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fail("rm: cannot remove '%s': No such file or directory", target)
			}
			return fail("rm: an error occurred: %v", err)
		}

		if info.IsDir() {
			if !recursive {
				return fail("rm: cannot remove '%s': Is a directory (use -r)", target)
			}
			err = os.RemoveAll(target)
		} else {
			err = os.Remove(target)
		}
		if err != nil {
			return fail("rm: an error occurred: %v", err)
		}
	}
	return succeed("")
}

type mvCommand struct{}

func (mvCommand) Name() string { return "mv" }

// Run renames src to dst, or moves it inside dst when dst is a directory.
// An existing destination file is replaced.
func (mvCommand) Run(_ *Env, args []string) Result {
	if len(args) != 2 {
		return fail("mv: missing source or destination operand")
	}
	src, dst := args[0], args[1]

	if _, err := os.Lstat(src); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fail("mv: cannot move '%s': No such file or directory", src)
		}
		return fail("mv: an error occurred: %v", err)
	}

	if info, err := os.Stat(dst); err == nil && info.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
	}

	if err := move(src, dst); err != nil {
		return fail("mv: an error occurred: %v", err)
	}
	return succeed("")
}

// move renames src to dst, copying then removing when they sit on
// different filesystems.
func move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}

	if err := copyTree(src, dst); err != nil {
		return fmt.Errorf("copy across devices: %w", err)
	}
	return os.RemoveAll(src)
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm())
		case info.Mode()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		default:
			return copyFile(path, target, info.Mode().Perm())
		}
	})
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
