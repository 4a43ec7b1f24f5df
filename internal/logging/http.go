package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

// defaultMaxBodySize caps how much of a request or response body is logged
const defaultMaxBodySize = 10000

// HTTPLogger logs suggestion requests and responses with secrets redacted
type HTTPLogger struct {
	logger      *Logger
	maxBodySize int
}

// NewHTTPLogger creates a new HTTP logger
func NewHTTPLogger(logger *Logger) *HTTPLogger {
	return &HTTPLogger{
		logger:      logger,
		maxBodySize: defaultMaxBodySize,
	}
}

// SetMaxBodySize sets the maximum body size to log (in bytes)
func (h *HTTPLogger) SetMaxBodySize(size int) {
	h.maxBodySize = size
}

// LogRequest logs an HTTP request
func (h *HTTPLogger) LogRequest(req *http.Request, body []byte) {
	fields := Fields{
		"method":  req.Method,
		"url":     req.URL.String(),
		"headers": headerFields(req.Header, true),
	}
	h.addBody(fields, body, true)
	h.logger.Debug("HTTP Request", fields)
}

// LogResponse logs an HTTP response
func (h *HTTPLogger) LogResponse(resp *http.Response, body []byte, duration time.Duration) {
	fields := Fields{
		"status":      resp.StatusCode,
		"duration_ms": duration.Milliseconds(),
		"headers":     headerFields(resp.Header, false),
	}
	h.addBody(fields, body, false)
	h.logger.Debug("HTTP Response", fields)
}

// LogError logs a transport failure
func (h *HTTPLogger) LogError(err error, req *http.Request, duration time.Duration) {
	h.logger.Error("HTTP Error", err, Fields{
		"method":      req.Method,
		"url":         req.URL.String(),
		"duration_ms": duration.Milliseconds(),
	})
}

func (h *HTTPLogger) addBody(fields Fields, body []byte, redact bool) {
	if len(body) == 0 {
		return
	}
	fields["body_size"] = len(body)

	var parsed interface{}
	if json.Valid(body) && json.Unmarshal(body, &parsed) == nil {
		if redact {
			parsed = redactSensitiveFields(parsed)
		}
		fields["body"] = parsed
		return
	}
	fields["body"] = truncateBody(body, h.maxBodySize)
}

func headerFields(header http.Header, redact bool) map[string]string {
	headers := make(map[string]string, len(header))
	for k, v := range header {
		switch {
		case redact && isSensitiveHeader(k):
			headers[k] = "[REDACTED]"
		case len(v) > 0:
			headers[k] = v[0]
		}
	}
	return headers
}

// RoundTripperWrapper wraps an http.RoundTripper with logging
type RoundTripperWrapper struct {
	wrapped http.RoundTripper
	logger  *HTTPLogger
	logBody bool
}

// NewLoggingRoundTripper creates a new logging round tripper
func NewLoggingRoundTripper(wrapped http.RoundTripper, logger *HTTPLogger, logBody bool) *RoundTripperWrapper {
	if wrapped == nil {
		wrapped = http.DefaultTransport
	}
	return &RoundTripperWrapper{
		wrapped: wrapped,
		logger:  logger,
		logBody: logBody,
	}
}

// RoundTrip implements http.RoundTripper
func (rt *RoundTripperWrapper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	var reqBody []byte
	if rt.logBody && req.Body != nil {
		reqBody, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(reqBody))
	}
	rt.logger.LogRequest(req, reqBody)

	resp, err := rt.wrapped.RoundTrip(req)
	duration := time.Since(start)
	if err != nil {
		rt.logger.LogError(err, req, duration)
		return nil, err
	}

	var respBody []byte
	if rt.logBody && resp.Body != nil {
		respBody, _ = io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewReader(respBody))
	}
	rt.logger.LogResponse(resp, respBody, duration)

	return resp, nil
}

// isSensitiveHeader checks if a header should be redacted
func isSensitiveHeader(name string) bool {
	switch strings.ToLower(name) {
	case "authorization", "api-key", "x-api-key", "x-auth-token", "cookie", "set-cookie":
		return true
	}
	return false
}

// truncateBody truncates body if too large
func truncateBody(body []byte, maxSize int) string {
	if len(body) <= maxSize {
		return string(body)
	}
	return string(body[:maxSize]) + "...[truncated]"
}

// sensitiveKeys are JSON key fragments whose values are never logged
var sensitiveKeys = []string{
	"api_key", "apikey", "api-key",
	"password", "secret",
	"authorization",
}

// redactSensitiveFields redacts sensitive fields in parsed JSON
func redactSensitiveFields(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for k, val := range v {
			if isSensitiveKey(k) {
				result[k] = "[REDACTED]"
			} else {
				result[k] = redactSensitiveFields(val)
			}
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = redactSensitiveFields(item)
		}
		return result
	default:
		return data
	}
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
