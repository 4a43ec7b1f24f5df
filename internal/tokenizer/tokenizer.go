// Package tokenizer splits a command line into words using shell quoting
// rules: single quotes are literal, double quotes allow backslash escapes,
// and a backslash outside quotes escapes the next character.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
)

// ErrQuote is returned when a line has an unmatched quote or a trailing escape
var ErrQuote = errors.New("unmatched quotes in command")

// CommandRequest is a tokenized command line
type CommandRequest struct {
	Name string
	Args []string
}

// Split tokenizes line. Blank input yields an empty slice.
func Split(line string) ([]string, error) {
	if strings.TrimSpace(line) == "" {
		return []string{}, nil
	}

	words, err := shellquote.Split(line)
	if err != nil {
		if isQuoteError(err) {
			return nil, fmt.Errorf("%w: %v", ErrQuote, err)
		}
		return nil, err
	}
	if words == nil {
		words = []string{}
	}
	return words, nil
}

// Parse tokenizes line into a CommandRequest. It returns nil, nil when the
// line holds no words.
func Parse(line string) (*CommandRequest, error) {
	words, err := Split(line)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, nil
	}
	return &CommandRequest{Name: words[0], Args: words[1:]}, nil
}

// Join quotes words so that Split returns them unchanged
func Join(words ...string) string {
	return shellquote.Join(words...)
}

func isQuoteError(err error) bool {
	return errors.Is(err, shellquote.UnterminatedSingleQuoteError) ||
		errors.Is(err, shellquote.UnterminatedDoubleQuoteError) ||
		errors.Is(err, shellquote.UnterminatedEscapeError)
}
