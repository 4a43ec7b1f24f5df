package api

import (
	"context"
	"errors"
)

// Errors returned by ChatClient implementations. Non-success HTTP statuses
// are reported as *APIError instead.
var (
	// ErrTransport wraps network failures, including timeouts
	ErrTransport = errors.New("request failed")
	// ErrMalformedResponse is returned when a success body has an unexpected shape
	ErrMalformedResponse = errors.New("malformed response")
)

// ChatClient defines the interface for chat-completion clients.
// The suggestion layer depends on this interface so tests can replace
// the network with a stub.
type ChatClient interface {
	// Complete sends one non-streaming chat-completion request
	Complete(ctx context.Context, messages []Message) (*ChatResponse, error)
}

// Ensure the HTTP client implements ChatClient
var _ ChatClient = (*Client)(nil)
