package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/quocvuong92/ai-terminal/internal/repl"
)

// runPlain reads commands line by line from a pipe or script. An interrupt
// ends the session with the farewell line and status 0.
func (app *App) runPlain(ctx context.Context) error {
	src := repl.NewReaderSource(app.in, app.out, nil)
	// The reader buffers ahead on app.in, so commands get no stdin
	session := app.newSession(repl.NewLineConfirmer(src, app.out), app.newSpinner(false), nil)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sigCh:
			session.Farewell()
			os.Exit(0)
		case <-done:
		}
	}()

	return session.Run(ctx, src)
}
