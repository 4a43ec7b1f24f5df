package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ReaderSource reads lines from a stream such as a pipe or script
type ReaderSource struct {
	r      *bufio.Reader
	out    io.Writer
	prompt func() string
}

// NewReaderSource creates a line source over r. When prompt is not nil its
// result is written to out before each read.
func NewReaderSource(r io.Reader, out io.Writer, prompt func() string) *ReaderSource {
	return &ReaderSource{r: bufio.NewReader(r), out: out, prompt: prompt}
}

// ReadLine returns the next line without its line ending. The last line of
// the stream does not need a trailing newline.
func (rs *ReaderSource) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if rs.prompt != nil && rs.out != nil {
		fmt.Fprint(rs.out, rs.prompt())
	}

	line, err := rs.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// IsAffirmative reports whether answer accepts a confirmation. A blank
// answer accepts.
func IsAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "", "y", "yes":
		return true
	default:
		return false
	}
}

// LineConfirmer asks for confirmation on the same stream the session reads
// commands from
type LineConfirmer struct {
	src *ReaderSource
	out io.Writer
}

// NewLineConfirmer creates a confirmer that prompts on out and reads the
// answer from src
func NewLineConfirmer(src *ReaderSource, out io.Writer) *LineConfirmer {
	return &LineConfirmer{src: src, out: out}
}

// Confirm prints the question and reads one answer
func (c *LineConfirmer) Confirm(ctx context.Context, _ string) (bool, error) {
	fmt.Fprint(c.out, "Execute this command? (y/n) [y]: ")

	// The question is the prompt for this read
	prompt := c.src.prompt
	c.src.prompt = nil
	answer, err := c.src.ReadLine(ctx)
	c.src.prompt = prompt

	if err != nil {
		return false, err
	}
	return IsAffirmative(answer), nil
}

// SurveyConfirmer asks on the terminal. The answer is free text so that
// anything other than y or yes declines instead of being asked again.
type SurveyConfirmer struct {
	opts []survey.AskOpt
	ask  func(survey.Prompt, interface{}, ...survey.AskOpt) error
}

// NewSurveyConfirmer creates a terminal confirmer
func NewSurveyConfirmer(opts ...survey.AskOpt) *SurveyConfirmer {
	return &SurveyConfirmer{opts: opts, ask: survey.AskOne}
}

// Confirm shows the prompt, defaulting to yes. Ctrl+C returns ErrInterrupted.
func (c *SurveyConfirmer) Confirm(_ context.Context, _ string) (bool, error) {
	answer := ""
	prompt := &survey.Input{
		Message: "Execute this command? (y/n)",
		Default: "y",
	}

	if err := c.ask(prompt, &answer, c.opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return false, ErrInterrupted
		}
		if errors.Is(err, io.EOF) {
			return false, io.EOF
		}
		return false, err
	}
	return IsAffirmative(answer), nil
}
