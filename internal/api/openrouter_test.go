package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/quocvuong92/ai-terminal/internal/config"
)

func newTestClient(url string) *Client {
	return NewClient(&config.Config{
		APIURL:  url,
		APIKey:  "sk-test",
		Model:   "test/model",
		Timeout: 2 * time.Second,
	})
}

func TestClient_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer sk-test")
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Model != "test/model" {
			t.Errorf("Model = %q, want %q", req.Model, "test/model")
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != RoleSystem || req.Messages[1].Role != RoleUser {
			t.Errorf("Messages = %+v, want system then user", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"gen-1","choices":[{"index":0,"message":{"role":"assistant","content":"ls -la"}}]}`))
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "list files"},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	content, err := resp.FirstContent()
	if err != nil {
		t.Fatalf("FirstContent() error = %v", err)
	}
	if content != "ls -la" {
		t.Errorf("FirstContent() = %q, want %q", content, "ls -la")
	}
}

func TestClient_Complete_StatusError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "provider error body",
			status:  http.StatusUnauthorized,
			body:    `{"error":{"message":"No auth credentials found","code":401}}`,
			wantMsg: "status code 401: No auth credentials found",
		},
		{
			name:    "plain body",
			status:  http.StatusBadGateway,
			body:    "upstream down",
			wantMsg: "status code 502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).Complete(context.Background(), nil)

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Complete() error = %v, want *APIError", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", apiErr.Error(), tt.wantMsg)
			}
		})
	}
}

func TestClient_Complete_SingleRequest(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Complete(context.Background(), nil)
	if err == nil {
		t.Fatal("Complete() should fail on 503")
	}
	if calls != 1 {
		t.Errorf("server received %d requests, want exactly 1", calls)
	}
}

func TestClient_Complete_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Complete(context.Background(), nil)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("Complete() error = %v, want ErrMalformedResponse", err)
	}
}

func TestClient_Complete_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).Complete(context.Background(), nil)
	if !errors.Is(err, ErrTransport) {
		t.Errorf("Complete() error = %v, want ErrTransport", err)
	}
}

func TestClient_Complete_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(&config.Config{APIURL: server.URL, Timeout: 50 * time.Millisecond})
	_, err := client.Complete(context.Background(), nil)
	if !errors.Is(err, ErrTransport) {
		t.Errorf("Complete() error = %v, want ErrTransport on timeout", err)
	}
}

func TestChatResponse_FirstContent(t *testing.T) {
	content := "pwd"
	empty := ""

	tests := []struct {
		name    string
		resp    *ChatResponse
		want    string
		wantErr bool
	}{
		{"first choice", &ChatResponse{Choices: []Choice{{Message: ResponseMessage{Content: &content}}}}, "pwd", false},
		{"empty content is valid", &ChatResponse{Choices: []Choice{{Message: ResponseMessage{Content: &empty}}}}, "", false},
		{"null content", &ChatResponse{Choices: []Choice{{}}}, "", true},
		{"no choices", &ChatResponse{}, "", true},
		{"nil response", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.resp.FirstContent()
			if (err != nil) != tt.wantErr {
				t.Fatalf("FirstContent() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("FirstContent() error = %v, want ErrMalformedResponse", err)
			}
			if got != tt.want {
				t.Errorf("FirstContent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{StatusCode: 429, Message: "status code 429"}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("Error() = %q, want status code", err.Error())
	}
}
