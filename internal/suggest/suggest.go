// Package suggest turns a natural-language request into a single shell
// command using a chat-completion endpoint.
package suggest

import (
	"context"
	"errors"
	"regexp"
	"runtime"
	"strings"

	"github.com/quocvuong92/ai-terminal/internal/api"
	"github.com/quocvuong92/ai-terminal/internal/config"
	"github.com/quocvuong92/ai-terminal/internal/logging"
)

// Kind classifies a suggestion failure
type Kind int

const (
	// KindConfig means no usable credential is configured
	KindConfig Kind = iota
	// KindTransport is a network failure or timeout
	KindTransport
	// KindStatus is a non-success HTTP status
	KindStatus
	// KindParse is a response body without a usable completion
	KindParse
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error is a failed suggestion. Message is meant for the user.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Suggester produces a command for a natural-language request
type Suggester interface {
	Suggest(ctx context.Context, input string) (string, error)
}

// artifactPattern matches tokens some models wrap around the command
var artifactPattern = regexp.MustCompile("\\[.*?\\]|<s>|</s>|`")

// Client asks the configured model for commands
type Client struct {
	chat   api.ChatClient
	config *config.Config
	goos   string
	log    *logging.FieldLogger
}

// Ensure Client implements Suggester
var _ Suggester = (*Client)(nil)

// NewClient creates a suggestion client. The prompt names the host OS family.
func NewClient(chat api.ChatClient, cfg *config.Config) *Client {
	return &Client{
		chat:   chat,
		config: cfg,
		goos:   runtime.GOOS,
		log:    logging.Component("suggest"),
	}
}

// Suggest sends input unchanged as the user message and returns the cleaned
// command. A missing credential fails without any network traffic. The
// returned command may be empty.
func (c *Client) Suggest(ctx context.Context, input string) (string, error) {
	if !c.config.HasCredential() {
		return "", &Error{
			Kind:    KindConfig,
			Message: config.ErrAPIKeyNotFound.Error(),
			Err:     config.ErrAPIKeyNotFound,
		}
	}

	resp, err := c.chat.Complete(ctx, []api.Message{
		{Role: api.RoleSystem, Content: SystemPrompt(c.goos)},
		{Role: api.RoleUser, Content: input},
	})
	if err != nil {
		c.log.Debug("completion failed", logging.Fields{"error": err.Error()})
		return "", classify(err)
	}

	content, err := resp.FirstContent()
	if err != nil {
		return "", &Error{Kind: KindParse, Message: "Failed to parse API response.", Err: err}
	}

	command := Clean(content)
	c.log.Debug("suggestion received", logging.Fields{
		"raw":     content,
		"command": command,
	})
	return command, nil
}

func classify(err error) *Error {
	var apiErr *api.APIError
	switch {
	case errors.As(err, &apiErr):
		return &Error{Kind: KindStatus, Message: "API request failed: " + apiErr.Error(), Err: err}
	case errors.Is(err, api.ErrMalformedResponse):
		return &Error{Kind: KindParse, Message: "Failed to parse API response.", Err: err}
	default:
		return &Error{Kind: KindTransport, Message: "API request failed: " + err.Error(), Err: err}
	}
}

// SystemPrompt returns the instruction sent with every request for goos
func SystemPrompt(goos string) string {
	family := "Linux/macOS"
	if goos == "windows" {
		family = "Windows"
	}
	return "You are a shell command expert for a " + family +
		" terminal. Convert the user's request into a single, executable command. Provide only the command."
}

// Clean strips bracketed tags, sequence markers and backticks, then trims
func Clean(raw string) string {
	return strings.TrimSpace(artifactPattern.ReplaceAllString(strings.TrimSpace(raw), ""))
}
