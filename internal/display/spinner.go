package display

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner shows activity while the shell waits on the network
type Spinner struct {
	s       *spinner.Spinner
	enabled bool
}

// NewSpinner creates a spinner with message. When enabled is false Start and
// Stop do nothing, which keeps piped output clean.
func NewSpinner(message string, out io.Writer, enabled bool) *Spinner {
	if out == nil {
		out = os.Stderr
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.Suffix = " " + message
	_ = s.Color("cyan")
	return &Spinner{s: s, enabled: enabled}
}

// Start begins the animation
func (sp *Spinner) Start() {
	if sp.enabled {
		sp.s.Start()
	}
}

// Stop ends the animation and erases the line
func (sp *Spinner) Stop() {
	if sp.enabled {
		sp.s.Stop()
	}
}

// UpdateMessage changes the text shown next to the spinner
func (sp *Spinner) UpdateMessage(message string) {
	sp.s.Lock()
	sp.s.Suffix = " " + message
	sp.s.Unlock()
}
