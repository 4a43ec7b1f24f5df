package builtins

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/quocvuong92/ai-terminal/internal/constants"
)

// inTempDir switches the working directory to a fresh temp dir for the test
func inTempDir(t *testing.T) (*Env, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	var out bytes.Buffer
	return NewEnv(&out), &out
}

func run(t *testing.T, env *Env, name string, args ...string) Result {
	t.Helper()
	res, found := NewRegistry().Run(env, name, args)
	if !found {
		t.Fatalf("%s is not a registered built-in", name)
	}
	return res
}

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func TestRegistry_Names(t *testing.T) {
	want := []string{"cat", "cd", "clear", "echo", "exit", "help", "ls", "mkdir", "mv", "pwd", "rm", "touch"}
	if got := NewRegistry().Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestRegistry_RunUnknown(t *testing.T) {
	env, _ := inTempDir(t)
	if _, found := NewRegistry().Run(env, "list", nil); found {
		t.Error("Run() should report unknown commands as not found")
	}
}

func TestLs(t *testing.T) {
	env, _ := inTempDir(t)
	writeFile(t, "b.txt", "")
	writeFile(t, "a.txt", "")
	if err := os.Mkdir("c", 0o755); err != nil {
		t.Fatal(err)
	}

	res := run(t, env, "ls")
	if res.IsError || res.Output != "a.txt\tb.txt\tc" {
		t.Errorf("ls = %+v, want %q", res, "a.txt\tb.txt\tc")
	}

	res = run(t, env, "ls", "missing")
	if !res.IsError || res.Output != "ls: cannot access 'missing': No such file or directory" {
		t.Errorf("ls missing = %+v", res)
	}
}

func TestCdAndPwd(t *testing.T) {
	env, _ := inTempDir(t)
	if err := os.Mkdir("sub", 0o755); err != nil {
		t.Fatal(err)
	}

	if res := run(t, env, "cd", "sub"); res.IsError || res.Output != "" {
		t.Fatalf("cd sub = %+v", res)
	}

	res := run(t, env, "pwd")
	if res.IsError || filepath.Base(res.Output) != "sub" || !filepath.IsAbs(res.Output) {
		t.Errorf("pwd = %+v, want absolute path ending in sub", res)
	}

	res = run(t, env, "cd", "nowhere")
	if !res.IsError || res.Output != "cd: no such file or directory: nowhere" {
		t.Errorf("cd nowhere = %+v", res)
	}
}

func TestCd_DefaultsToHome(t *testing.T) {
	env, _ := inTempDir(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	if res := run(t, env, "cd"); res.IsError {
		t.Fatalf("cd = %+v", res)
	}
	wd, _ := os.Getwd()
	want, _ := filepath.EvalSymlinks(home)
	got, _ := filepath.EvalSymlinks(wd)
	if got != want {
		t.Errorf("cwd = %q, want %q", got, want)
	}
}

func TestMkdir(t *testing.T) {
	env, _ := inTempDir(t)

	if res := run(t, env, "mkdir"); res.Output != "mkdir: missing operand" {
		t.Errorf("mkdir = %+v", res)
	}

	if res := run(t, env, "mkdir", "proj"); res.IsError {
		t.Fatalf("mkdir proj = %+v", res)
	}
	writeFile(t, filepath.Join("proj", "keep.txt"), "data")

	res := run(t, env, "mkdir", "proj")
	if !res.IsError || !strings.Contains(res.Output, "File exists") {
		t.Errorf("mkdir existing = %+v, want File exists", res)
	}
	if _, err := os.Stat(filepath.Join("proj", "keep.txt")); err != nil {
		t.Error("existing directory contents should be untouched")
	}

	if res := run(t, env, "mkdir", "a/b"); !res.IsError {
		t.Error("mkdir should not create parents")
	}
}

func TestTouch(t *testing.T) {
	env, _ := inTempDir(t)

	if res := run(t, env, "touch"); res.Output != "touch: missing operand" {
		t.Errorf("touch = %+v", res)
	}

	if res := run(t, env, "touch", "new.txt"); res.IsError {
		t.Fatalf("touch new.txt = %+v", res)
	}
	if _, err := os.Stat("new.txt"); err != nil {
		t.Fatal("touch should create the file")
	}

	writeFile(t, "old.txt", "keep")
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes("old.txt", past, past); err != nil {
		t.Fatal(err)
	}
	if res := run(t, env, "touch", "old.txt"); res.IsError {
		t.Fatalf("touch old.txt = %+v", res)
	}
	info, _ := os.Stat("old.txt")
	if !info.ModTime().After(past.Add(time.Minute)) {
		t.Error("touch should bump the modification time")
	}
	data, _ := os.ReadFile("old.txt")
	if string(data) != "keep" {
		t.Errorf("touch changed contents to %q", data)
	}
}

func TestCat(t *testing.T) {
	env, _ := inTempDir(t)
	writeFile(t, "f.txt", "line1\nline2\n")
	if err := os.Mkdir("d", 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		args    []string
		want    string
		isError bool
	}{
		{[]string{"f.txt"}, "line1\nline2\n", false},
		{nil, "cat: missing operand", true},
		{[]string{"nope"}, "cat: nope: No such file or directory", true},
		{[]string{"d"}, "cat: d: Is a directory", true},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			res := run(t, env, "cat", tt.args...)
			if res.Output != tt.want || res.IsError != tt.isError {
				t.Errorf("cat %v = %+v, want %q (error %v)", tt.args, res, tt.want, tt.isError)
			}
		})
	}
}

func TestEcho(t *testing.T) {
	env, _ := inTempDir(t)

	res := run(t, env, "echo", "hello", "world")
	if res.IsError || res.Output != "hello world" {
		t.Errorf("echo = %+v", res)
	}
	if _, err := os.Stat("out.txt"); err == nil {
		t.Error("echo without redirection must not create files")
	}

	res = run(t, env, "echo", "hello", "world", ">", "out.txt")
	if res.IsError || res.Output != "" {
		t.Errorf("echo > out.txt = %+v, want empty output", res)
	}
	data, err := os.ReadFile("out.txt")
	if err != nil || string(data) != "hello world\n" {
		t.Errorf("out.txt = %q, %v; want %q", data, err, "hello world\n")
	}

	// Redirection truncates
	run(t, env, "echo", "x", ">", "out.txt")
	if data, _ := os.ReadFile("out.txt"); string(data) != "x\n" {
		t.Errorf("out.txt after overwrite = %q", data)
	}

	res = run(t, env, "echo", "hi", ">")
	if !res.IsError || res.Output != "Syntax error: no file specified for redirection." {
		t.Errorf("echo hi > = %+v", res)
	}
}

func TestRm(t *testing.T) {
	env, _ := inTempDir(t)

	if res := run(t, env, "rm"); res.Output != "rm: missing operand" {
		t.Errorf("rm = %+v", res)
	}

	if err := os.MkdirAll(filepath.Join("dir", "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join("dir", "nested", "f"), "x")

	res := run(t, env, "rm", "dir")
	if !res.IsError || !strings.Contains(res.Output, "Is a directory") {
		t.Errorf("rm dir = %+v, want Is a directory", res)
	}
	if _, err := os.Stat(filepath.Join("dir", "nested", "f")); err != nil {
		t.Error("rm without -r must leave the directory untouched")
	}

	if res := run(t, env, "rm", "-r", "dir"); res.IsError {
		t.Fatalf("rm -r dir = %+v", res)
	}
	if _, err := os.Stat("dir"); !os.IsNotExist(err) {
		t.Error("rm -r should remove the directory and its contents")
	}
}

func TestRm_StopsAtFirstFailure(t *testing.T) {
	env, _ := inTempDir(t)
	writeFile(t, "a", "")
	writeFile(t, "c", "")

	res := run(t, env, "rm", "a", "b", "c")
	if res.Output != "rm: cannot remove 'b': No such file or directory" {
		t.Errorf("rm a b c = %+v", res)
	}
	if _, err := os.Stat("a"); !os.IsNotExist(err) {
		t.Error("targets before the failure should be removed")
	}
	if _, err := os.Stat("c"); err != nil {
		t.Error("targets after the failure should be left alone")
	}
}

func TestRm_Symlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	env, _ := inTempDir(t)
	if err := os.Mkdir("target", 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join("target", "f"), "x")
	if err := os.Symlink("target", "link"); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("missing", "dangling"); err != nil {
		t.Fatal(err)
	}

	if res := run(t, env, "rm", "link", "dangling"); res.IsError {
		t.Fatalf("rm link dangling = %+v", res)
	}
	for _, name := range []string{"link", "dangling"} {
		if _, err := os.Lstat(name); !os.IsNotExist(err) {
			t.Errorf("%s should be unlinked", name)
		}
	}
	if _, err := os.Stat(filepath.Join("target", "f")); err != nil {
		t.Error("removing a link must leave the directory it points at")
	}
}

func TestMv(t *testing.T) {
	env, _ := inTempDir(t)
	writeFile(t, "a.txt", "A")
	if err := os.Mkdir("dest", 0o755); err != nil {
		t.Fatal(err)
	}

	if res := run(t, env, "mv", "a.txt"); res.Output != "mv: missing source or destination operand" {
		t.Errorf("mv a.txt = %+v", res)
	}

	if res := run(t, env, "mv", "a.txt", "b.txt"); res.IsError {
		t.Fatalf("mv a.txt b.txt = %+v", res)
	}
	if data, _ := os.ReadFile("b.txt"); string(data) != "A" {
		t.Errorf("b.txt = %q, want %q", data, "A")
	}

	if res := run(t, env, "mv", "b.txt", "dest"); res.IsError {
		t.Fatalf("mv b.txt dest = %+v", res)
	}
	if _, err := os.Stat(filepath.Join("dest", "b.txt")); err != nil {
		t.Error("mv into a directory should keep the base name")
	}

	res := run(t, env, "mv", "ghost", "x")
	if res.Output != "mv: cannot move 'ghost': No such file or directory" {
		t.Errorf("mv ghost x = %+v", res)
	}
}

func TestCopyTree(t *testing.T) {
	_, _ = inTempDir(t)
	if err := os.MkdirAll(filepath.Join("src", "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join("src", "sub", "f.txt"), "payload")

	if err := copyTree("src", "dst"); err != nil {
		t.Fatalf("copyTree() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join("dst", "sub", "f.txt"))
	if err != nil || string(data) != "payload" {
		t.Errorf("copied file = %q, %v", data, err)
	}
}

func TestClearExitHelp(t *testing.T) {
	env, out := inTempDir(t)

	if res := run(t, env, "clear"); res.Output != "" || res.IsError {
		t.Errorf("clear = %+v", res)
	}
	if out.String() != constants.ClearScreen {
		t.Errorf("clear wrote %q, want %q", out.String(), constants.ClearScreen)
	}

	res := run(t, env, "exit")
	if !res.Exit || res.Output != constants.Farewell {
		t.Errorf("exit = %+v", res)
	}

	res = run(t, env, "help")
	if res.IsError || !strings.Contains(res.Output, "Available commands:") {
		t.Errorf("help = %+v", res)
	}
}
