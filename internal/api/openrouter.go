package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/quocvuong92/ai-terminal/internal/config"
	"github.com/quocvuong92/ai-terminal/internal/constants"
	"github.com/quocvuong92/ai-terminal/internal/logging"
)

// Chat roles
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message represents a chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents the Chat Completions API request
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// ResponseMessage is the assistant message of a choice.
// Content is a pointer so a null or missing content is distinguishable from "".
type ResponseMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

// Choice represents a response choice
type Choice struct {
	Index        int             `json:"index"`
	Message      ResponseMessage `json:"message"`
	FinishReason string          `json:"finish_reason,omitempty"`
}

// ChatResponse represents the API response
type ChatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

// FirstContent returns the text of the first choice
func (r *ChatResponse) FirstContent() (string, error) {
	if r == nil || len(r.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}
	content := r.Choices[0].Message.Content
	if content == nil {
		return "", fmt.Errorf("%w: choice has no message content", ErrMalformedResponse)
	}
	return *content, nil
}

// ErrorResponse represents a provider error body
type ErrorResponse struct {
	Error struct {
		Message string      `json:"message"`
		Code    interface{} `json:"code"`
	} `json:"error"`
}

// APIError represents a non-success HTTP status
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client is the OpenRouter-compatible chat-completion client
type Client struct {
	httpClient *http.Client
	config     *config.Config
}

// NewClient creates a chat-completion client for the configured endpoint.
// At debug level the transport logs requests and responses with the
// Authorization header redacted.
func NewClient(cfg *config.Config) *Client {
	transport := http.DefaultTransport
	if cfg.Debug {
		httpLogger := logging.NewHTTPLogger(logging.DefaultLogger)
		transport = logging.NewLoggingRoundTripper(http.DefaultTransport, httpLogger, true)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultAPITimeout
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		config: cfg,
	}
}

// Complete sends exactly one request; there is no retry
func (c *Client) Complete(ctx context.Context, messages []Message) (*ChatResponse, error) {
	reqBody := ChatRequest{
		Model:    c.config.Model,
		Messages: messages,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.APIURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrTransport, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("X-Title", constants.AppName)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp ErrorResponse
		errMsg := fmt.Sprintf("status code %d", resp.StatusCode)
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			errMsg = fmt.Sprintf("status code %d: %s", resp.StatusCode, errResp.Error.Message)
		}
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errMsg,
		}
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return &chatResp, nil
}
