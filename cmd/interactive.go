package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"

	"github.com/elk-language/go-prompt"
	istrings "github.com/elk-language/go-prompt/strings"

	"github.com/quocvuong92/ai-terminal/internal/builtins"
	"github.com/quocvuong92/ai-terminal/internal/constants"
	"github.com/quocvuong92/ai-terminal/internal/display"
	"github.com/quocvuong92/ai-terminal/internal/logging"
	"github.com/quocvuong92/ai-terminal/internal/repl"
)

// InteractiveSession drives a repl.Session from the go-prompt line editor
type InteractiveSession struct {
	ctx      context.Context
	session  *repl.Session
	registry *builtins.Registry
	request  *requestGuard
	exitFlag bool
}

func newInteractiveSession(ctx context.Context, session *repl.Session, request *requestGuard) *InteractiveSession {
	return &InteractiveSession{
		ctx:      ctx,
		session:  session,
		registry: session.Registry(),
		request:  request,
	}
}

// requestGuard wraps the session's indicator and tracks whether the current
// line is waiting on the model, so an interrupt can cancel that request.
type requestGuard struct {
	repl.Indicator

	mu     sync.Mutex
	cancel context.CancelFunc
	asking bool
}

func newRequestGuard(inner repl.Indicator) *requestGuard {
	return &requestGuard{Indicator: inner}
}

func (g *requestGuard) Start() {
	g.mu.Lock()
	g.asking = true
	g.mu.Unlock()
	g.Indicator.Start()
}

func (g *requestGuard) Stop() {
	g.Indicator.Stop()
	g.mu.Lock()
	g.asking = false
	g.mu.Unlock()
}

// lineContext derives the context for one input line
func (g *requestGuard) lineContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	g.mu.Lock()
	g.cancel = cancel
	g.mu.Unlock()

	return ctx, func() {
		g.mu.Lock()
		g.cancel = nil
		g.mu.Unlock()
		cancel()
	}
}

// interrupt cancels the current line if it is waiting on the model
func (g *requestGuard) interrupt() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.asking || g.cancel == nil {
		return false
	}
	g.cancel()
	return true
}

// completer suggests built-in names for the first word and paths after it
func (s *InteractiveSession) completer(d prompt.Document) ([]prompt.Suggest, istrings.RuneNumber, istrings.RuneNumber) {
	endIndex := d.CurrentRuneIndex()
	w := d.GetWordBeforeCursor()
	startIndex := endIndex - istrings.RuneCountInString(w)

	return completions(s.registry, d.TextBeforeCursor(), w), startIndex, endIndex
}

// completions returns the suggestions for word, the last word of text
func completions(registry *builtins.Registry, text, word string) []prompt.Suggest {
	if !strings.ContainsAny(strings.TrimLeft(text, " "), " \t") {
		if word == "" {
			return []prompt.Suggest{}
		}
		names := registry.Names()
		suggestions := make([]prompt.Suggest, len(names))
		for i, name := range names {
			suggestions[i] = prompt.Suggest{Text: name, Description: "built-in"}
		}
		return prompt.FilterHasPrefix(suggestions, word, true)
	}
	return pathSuggestions(word)
}

// pathSuggestions lists the entries of word's directory that start with
// word's last path element. Directories get a trailing separator.
func pathSuggestions(word string) []prompt.Suggest {
	dir, base := filepath.Split(word)
	readDir := dir
	if readDir == "" {
		readDir = "."
	}
	if strings.HasPrefix(readDir, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			readDir = home + readDir[1:]
		}
	}

	entries, err := os.ReadDir(readDir)
	if err != nil {
		return []prompt.Suggest{}
	}

	showHidden := strings.HasPrefix(base, ".")
	suggestions := make([]prompt.Suggest, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, base) || (!showHidden && strings.HasPrefix(name, ".")) {
			continue
		}
		text := dir + name
		desc := "file"
		if e.IsDir() {
			text += string(filepath.Separator)
			desc = "directory"
		}
		suggestions = append(suggestions, prompt.Suggest{Text: text, Description: desc})
	}
	sort.Slice(suggestions, func(i, j int) bool { return suggestions[i].Text < suggestions[j].Text })
	return suggestions
}

// livePrefix shows the current directory
func livePrefix() string {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "?"
	}
	return display.Prompt(cwd)
}

// executor handles each line entered at the prompt
func (s *InteractiveSession) executor(input string) {
	if s.exitFlag {
		return
	}

	s.session.Record(input)
	ctx, done := s.request.lineContext(s.ctx)
	defer done()
	if s.session.HandleLine(ctx, input) {
		s.exitFlag = true
	}
}

// finish prints the farewell unless the session already has. go-prompt
// handles Ctrl+D on an empty line itself, so this also covers end of input.
func (s *InteractiveSession) finish() {
	s.session.Farewell()
}

func (s *InteractiveSession) newPrompt(history []string, opts ...prompt.Option) *prompt.Prompt {
	options := []prompt.Option{
		prompt.WithCompleter(s.completer),
		prompt.WithPrefixCallback(livePrefix),
		prompt.WithTitle(constants.AppName),
		prompt.WithHistory(history),
		prompt.WithSuggestionBGColor(prompt.DarkBlue),
		prompt.WithSuggestionTextColor(prompt.White),
		prompt.WithSelectedSuggestionBGColor(prompt.Cyan),
		prompt.WithSelectedSuggestionTextColor(prompt.Black),
		prompt.WithDescriptionBGColor(prompt.DarkBlue),
		prompt.WithDescriptionTextColor(prompt.LightGray),
		prompt.WithSelectedDescriptionBGColor(prompt.Cyan),
		prompt.WithSelectedDescriptionTextColor(prompt.Black),
		prompt.WithMaxSuggestion(10),
		prompt.WithExitChecker(func(in string, breakline bool) bool {
			return s.exitFlag || s.ctx.Err() != nil
		}),
		prompt.WithKeyBind(prompt.KeyBind{
			Key: prompt.ControlC,
			Fn: func(p *prompt.Prompt) bool {
				s.session.Farewell()
				s.exitFlag = true
				return false
			},
		}),
	}
	return prompt.New(s.executor, append(options, opts...)...)
}

// runInteractive starts the line editor with completion, persisted history
// and a prompt showing the working directory.
func (app *App) runInteractive(ctx context.Context) error {
	request := newRequestGuard(app.newSpinner(true))
	session := app.newSession(repl.NewSurveyConfirmer(), request, app.in)
	app.printer.ShowWelcome(session.Registry().Names())

	// Ctrl+C at the prompt is a key binding. While a command runs the
	// terminal delivers SIGINT to the child and the shell keeps going;
	// while the model is being asked it ends the session.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	is := newInteractiveSession(ctx, session, request)

	go func() {
		for {
			select {
			case sig := <-sigCh:
				if sig == syscall.SIGTERM {
					cancel()
					return
				}
				if request.interrupt() {
					logging.Debug("suggestion request interrupted")
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	is.newPrompt(app.history.Lines()).Run()
	is.finish()
	return nil
}
