package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// welcomeMarkdown is the banner shown when rendering is enabled
const welcomeMarkdown = `# AI Terminal

Built-in commands run directly. Anything else is sent to the model and the
suggested command runs only after you confirm it.

| Command | Description |
|---|---|
%s

Type **help** for usage, **exit** or Ctrl+D to leave.
`

// WelcomePlain is the banner shown without rendering
const WelcomePlain = "Welcome to the AI Terminal. Type 'help' for a list of commands."

var renderer *glamour.TermRenderer

// InitRenderer prepares the markdown renderer for the current terminal
func InitRenderer() error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	renderer = r
	return nil
}

// WelcomeMarkdown builds the banner listing the built-in commands
func WelcomeMarkdown(commands []string) string {
	rows := make([]string, len(commands))
	for i, c := range commands {
		rows[i] = fmt.Sprintf("| `%s` | built-in |", c)
	}
	return fmt.Sprintf(welcomeMarkdown, strings.Join(rows, "\n"))
}

// ShowWelcome prints the banner, rendered when InitRenderer succeeded
func (p *Printer) ShowWelcome(commands []string) {
	if renderer == nil {
		p.ShowInfo(WelcomePlain)
		return
	}

	out, err := renderer.Render(WelcomeMarkdown(commands))
	if err != nil {
		p.ShowInfo(WelcomePlain)
		return
	}
	fmt.Fprint(p.out, out)
}
