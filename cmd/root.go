package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/quocvuong92/ai-terminal/internal/api"
	"github.com/quocvuong92/ai-terminal/internal/builtins"
	"github.com/quocvuong92/ai-terminal/internal/config"
	"github.com/quocvuong92/ai-terminal/internal/constants"
	"github.com/quocvuong92/ai-terminal/internal/display"
	"github.com/quocvuong92/ai-terminal/internal/executor"
	"github.com/quocvuong92/ai-terminal/internal/history"
	"github.com/quocvuong92/ai-terminal/internal/logging"
	"github.com/quocvuong92/ai-terminal/internal/repl"
	"github.com/quocvuong92/ai-terminal/internal/suggest"
)

// App holds the application state
type App struct {
	cfg *config.Config

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	printer *display.Printer
	history *history.History
}

// NewApp creates a new App attached to the process's standard streams
func NewApp() *App {
	return newApp(os.Stdin, os.Stdout, os.Stderr)
}

func newApp(in io.Reader, out, errOut io.Writer) *App {
	return &App{
		cfg:     config.NewConfig(),
		in:      in,
		out:     out,
		errOut:  errOut,
		printer: display.NewPrinter(out),
	}
}

// newRootCmd builds the command. The shell takes no arguments or flags;
// everything is configured through the environment or the config file.
func newRootCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   constants.AppName,
		Short: "An interactive shell that turns plain English into commands",
		Long: `AI Terminal is an interactive shell with a small set of built-in
commands (ls, cd, pwd, mkdir, cat, echo, rm, mv, touch, clear, exit, help).
Anything else you type is sent to a language model, which suggests a single
command. The suggestion runs only after you confirm it.

Configuration:
  OPENROUTER_API_KEY        API key (also read from .env)
  AI_TERMINAL_MODEL         Model name (default: ` + constants.DefaultModel + `)
  AI_TERMINAL_API_URL       Chat-completion endpoint
  AI_TERMINAL_TIMEOUT       Request timeout, e.g. 30s (default: 60s)
  AI_TERMINAL_HISTORY_FILE  History file (default: ~/` + constants.DefaultHistoryFile + `)
  AI_TERMINAL_LOG_LEVEL     debug, info, warn, error or none (default: none)
  AI_TERMINAL_LOG_FORMAT    text or json
  AI_TERMINAL_RENDER        Render the welcome banner as markdown`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd.Context())
		},
	}
}

// Execute runs the root command
func Execute() {
	app := NewApp()
	rootCmd := newRootCmd(app)

	if err := rootCmd.Execute(); err != nil {
		display.ShowError(err.Error())
		os.Exit(1)
	}
}

func (app *App) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := app.cfg.Validate(); err != nil {
		return err
	}
	logging.Configure(app.cfg.LogLevel, app.cfg.LogFormat)
	logging.Debug("configuration loaded", logging.Fields{
		"model":          app.cfg.Model,
		"api_url":        app.cfg.APIURL,
		"timeout":        app.cfg.Timeout.String(),
		"history_file":   app.cfg.HistoryFile,
		"has_credential": app.cfg.HasCredential(),
	})

	if app.cfg.Render {
		if err := display.InitRenderer(); err != nil {
			logging.Warn("failed to initialize renderer", logging.Fields{"error": err.Error()})
		}
	}

	app.history = history.New(app.cfg.HistoryFile)
	if err := app.history.Load(); err != nil {
		fmt.Fprintf(app.errOut, "Note: Could not load history: %v\n", err)
	}

	if app.isTerminal() {
		return app.runInteractive(ctx)
	}
	return app.runPlain(ctx)
}

// newSession wires the shell's collaborators. External commands read from
// stdin, which is nil (the null device) when the shell reads a script.
func (app *App) newSession(confirmer repl.Confirmer, indicator repl.Indicator, stdin io.Reader) *repl.Session {
	runner := executor.New()
	runner.Stdin = stdin
	runner.Stdout = app.out
	runner.Stderr = app.errOut

	return repl.NewSession(repl.Options{
		Registry:  builtins.NewRegistry(),
		Env:       builtins.NewEnv(app.out),
		Suggester: suggest.NewClient(api.NewClient(app.cfg), app.cfg),
		Runner:    runner,
		Confirmer: confirmer,
		Indicator: indicator,
		History:   app.history,
		Printer:   app.printer,
	})
}

func (app *App) newSpinner(enabled bool) *display.Spinner {
	return display.NewSpinner("Asking AI...", app.errOut, enabled)
}

// isTerminal reports whether both input and output are attached to a terminal
func (app *App) isTerminal() bool {
	in, ok := app.in.(*os.File)
	if !ok {
		return false
	}
	out, ok := app.out.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd()))
}
