// Package display handles terminal output: colored messages, the busy
// spinner and the markdown-rendered welcome banner.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	promptColor = color.New(color.FgHiGreen)
	aiColor     = color.New(color.FgHiCyan)
	errorColor  = color.New(color.FgHiRed)
	noteColor   = color.New(color.FgYellow)
)

// Printer writes session output to a terminal or buffer
type Printer struct {
	out io.Writer
}

// NewPrinter creates a printer writing to out, or stdout when out is nil
func NewPrinter(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{out: out}
}

// Writer returns the underlying writer
func (p *Printer) Writer() io.Writer {
	return p.out
}

// ShowOutput prints command output. A single trailing newline in output is
// not doubled.
func (p *Printer) ShowOutput(output string) {
	fmt.Fprintln(p.out, strings.TrimSuffix(output, "\n"))
}

// ShowError prints an error message in red
func (p *Printer) ShowError(msg string) {
	errorColor.Fprintln(p.out, msg)
}

// ShowSuggestion prints the AI suggestion and its risk note
func (p *Printer) ShowSuggestion(command, note string) {
	aiColor.Fprint(p.out, "AI Suggestion: ")
	fmt.Fprint(p.out, command)
	if note != "" {
		noteColor.Fprintf(p.out, "  (%s)", note)
	}
	fmt.Fprintln(p.out)
}

// ShowInfo prints a plain line
func (p *Printer) ShowInfo(msg string) {
	fmt.Fprintln(p.out, msg)
}

// Prompt returns the "<cwd>$ " prompt with the directory in green
func Prompt(cwd string) string {
	return promptColor.Sprint(cwd) + "$ "
}

// ShowError prints an error message in red to stdout
func ShowError(msg string) {
	NewPrinter(nil).ShowError(msg)
}
