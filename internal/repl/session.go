// Package repl is the shell's read-dispatch loop.
//
// A Session reads lines from a LineSource, runs built-ins in-process and
// sends anything else to a Suggester. A suggested command runs only after
// the Confirmer accepts it. Suggested built-ins are dispatched in-process
// like typed ones; everything else goes to the CommandRunner.
//
// Every collaborator is an interface so the loop can be driven by a
// scripted source and stubs in tests.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/quocvuong92/ai-terminal/internal/builtins"
	"github.com/quocvuong92/ai-terminal/internal/constants"
	"github.com/quocvuong92/ai-terminal/internal/display"
	"github.com/quocvuong92/ai-terminal/internal/executor"
	"github.com/quocvuong92/ai-terminal/internal/history"
	"github.com/quocvuong92/ai-terminal/internal/logging"
	"github.com/quocvuong92/ai-terminal/internal/suggest"
	"github.com/quocvuong92/ai-terminal/internal/tokenizer"
)

// ErrInterrupted reports that the user pressed Ctrl+C at a prompt
var ErrInterrupted = errors.New("interrupted")

// Messages printed by the session
const (
	msgQuoteError      = "Error: Unmatched quotes in command."
	msgEmptySuggestion = "AI returned an empty command."
	msgInvalidCommand  = "AI returned an empty or invalid command."
	msgUnexpected      = "An unexpected error occurred: %v"
)

// LineSource supplies input lines. It returns io.EOF or ErrInterrupted when
// the session should end.
type LineSource interface {
	ReadLine(ctx context.Context) (string, error)
}

// Confirmer asks whether a suggested command should run. An error ends the
// session when it is io.EOF or ErrInterrupted.
type Confirmer interface {
	Confirm(ctx context.Context, command string) (bool, error)
}

// Indicator shows that the session is waiting on the model
type Indicator interface {
	Start()
	Stop()
}

// Options configures a Session
type Options struct {
	Registry  *builtins.Registry
	Env       *builtins.Env
	Suggester suggest.Suggester
	Runner    executor.CommandRunner
	Confirmer Confirmer

	// Optional
	Indicator Indicator
	History   history.Store
	Printer   *display.Printer
}

// Session holds the collaborators of one interactive run
type Session struct {
	registry  *builtins.Registry
	env       *builtins.Env
	suggester suggest.Suggester
	runner    executor.CommandRunner
	confirmer Confirmer
	indicator Indicator
	history   history.Store
	printer   *display.Printer
	log       *logging.FieldLogger

	// ended is set once the farewell has been shown
	ended bool
}

type noopIndicator struct{}

func (noopIndicator) Start() {}
func (noopIndicator) Stop()  {}

// NewSession creates a session. Registry, Suggester, Runner and Confirmer
// are required.
func NewSession(opts Options) *Session {
	s := &Session{
		registry:  opts.Registry,
		env:       opts.Env,
		suggester: opts.Suggester,
		runner:    opts.Runner,
		confirmer: opts.Confirmer,
		indicator: opts.Indicator,
		history:   opts.History,
		printer:   opts.Printer,
		log:       logging.Component("repl"),
	}
	if s.printer == nil {
		s.printer = display.NewPrinter(nil)
	}
	if s.env == nil {
		s.env = builtins.NewEnv(s.printer.Writer())
	}
	if s.indicator == nil {
		s.indicator = noopIndicator{}
	}
	return s
}

// Registry returns the built-in commands known to the session
func (s *Session) Registry() *builtins.Registry {
	return s.registry
}

// Run reads and handles lines until the source ends, the user interrupts,
// or a command asks to exit. Reaching the end of input is not an error.
func (s *Session) Run(ctx context.Context, src LineSource) error {
	for {
		if ctx.Err() != nil {
			s.Farewell()
			return nil
		}

		line, err := src.ReadLine(ctx)
		if err != nil {
			if isEndOfSession(err) {
				s.Farewell()
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		s.Record(line)
		if s.HandleLine(ctx, line) {
			return nil
		}
	}
}

// Record appends line to the history, if one is configured
func (s *Session) Record(line string) {
	if s.history == nil {
		return
	}
	if err := s.history.Append(line); err != nil {
		s.log.Warn("failed to record history", logging.Fields{"error": err.Error()})
	}
}

// Farewell prints the goodbye line. It prints at most once per session, so
// drivers can call it on every way out.
func (s *Session) Farewell() {
	if s.ended {
		return
	}
	s.ended = true
	s.printer.ShowInfo(constants.Farewell)
}

// Ended reports whether the farewell has been shown
func (s *Session) Ended() bool {
	return s.ended
}

// HandleLine processes one input line and reports whether the session
// should end. A panic while handling the line is reported and the session
// continues.
func (s *Session) HandleLine(ctx context.Context, line string) (exit bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("recovered from panic", fmt.Errorf("%v", r), logging.Fields{"line": line})
			s.printer.ShowError(fmt.Sprintf(msgUnexpected, r))
			exit = false
		}
	}()

	req, err := tokenizer.Parse(line)
	if err != nil {
		s.printer.ShowError(msgQuoteError)
		return false
	}
	if req == nil {
		return false
	}

	if res, found := s.registry.Run(s.env, req.Name, req.Args); found {
		s.log.Debug("dispatch", logging.Fields{"command": req.Name, "builtin": true})
		s.show(res)
		return res.Exit
	}

	s.log.Debug("dispatch", logging.Fields{"command": req.Name, "builtin": false})
	return s.ask(ctx, line)
}

// ask sends the untokenized line to the model and runs the confirmed
// suggestion. Cancelling ctx while the request is in flight ends the session.
func (s *Session) ask(ctx context.Context, line string) bool {
	command, err := s.requestSuggestion(ctx, line)
	if ctx.Err() != nil {
		s.log.Debug("suggestion interrupted", logging.Fields{"error": ctx.Err().Error()})
		s.Farewell()
		return true
	}
	if err != nil {
		var sErr *suggest.Error
		if errors.As(err, &sErr) {
			s.log.Debug("suggestion failed", logging.Fields{"kind": sErr.Kind.String()})
		}
		s.printer.ShowError(err.Error())
		return false
	}
	if command == "" {
		s.printer.ShowError(msgEmptySuggestion)
		return false
	}

	s.printer.ShowSuggestion(command, executor.Classify(command).Note())

	confirmed, err := s.confirmer.Confirm(ctx, command)
	if err != nil {
		if isEndOfSession(err) {
			s.Farewell()
			return true
		}
		s.printer.ShowError(fmt.Sprintf(msgUnexpected, err))
		return false
	}
	if !confirmed {
		s.log.Debug("suggestion declined", logging.Fields{"command": command})
		return false
	}

	return s.execute(ctx, command)
}

func (s *Session) requestSuggestion(ctx context.Context, line string) (string, error) {
	s.indicator.Start()
	defer s.indicator.Stop()
	return s.suggester.Suggest(ctx, line)
}

// execute runs a confirmed suggestion, in-process when it names a built-in
func (s *Session) execute(ctx context.Context, command string) bool {
	req, err := tokenizer.Parse(command)
	if err != nil || req == nil {
		s.printer.ShowError(msgInvalidCommand)
		return false
	}

	if res, found := s.registry.Run(s.env, req.Name, req.Args); found {
		s.log.Debug("dispatch suggestion", logging.Fields{"argv": tokenizer.Join(append([]string{req.Name}, req.Args...)...), "builtin": true})
		s.show(res)
		return res.Exit
	}

	s.log.Debug("dispatch suggestion", logging.Fields{"command": req.Name, "builtin": false})
	if err := s.runner.Run(ctx, command); err != nil {
		s.printer.ShowError(describeRunError(req.Name, err))
	}
	return false
}

func (s *Session) show(res builtins.Result) {
	if res.Exit {
		s.ended = true
	}
	if res.Output == "" {
		return
	}
	if res.IsError {
		s.printer.ShowError(res.Output)
		return
	}
	s.printer.ShowOutput(res.Output)
}

func describeRunError(name string, err error) string {
	var exitErr *executor.ExitError
	switch {
	case errors.Is(err, executor.ErrCommandNotFound):
		return "Command not found: " + name
	case errors.As(err, &exitErr) && exitErr.Signal != "":
		return "Command terminated by signal " + exitErr.Signal
	case errors.As(err, &exitErr):
		return fmt.Sprintf("Command failed with exit code %d", exitErr.Code)
	default:
		return fmt.Sprintf("Error executing command: %v", err)
	}
}

func isEndOfSession(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, ErrInterrupted) || errors.Is(err, context.Canceled)
}
