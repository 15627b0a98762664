package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

var (
	// ErrTransport matches failures where no response was received.
	ErrTransport = errors.New("transport failure")

	// ErrResponse matches non-2xx responses from the backend.
	ErrResponse = errors.New("backend returned an error")
)

// maxRawMessage bounds how much of an unstructured error body is surfaced.
const maxRawMessage = 200

// TransportError reports a request that never produced a response.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v: %v", e.Method, e.Path, ErrTransport, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// ResponseError reports a non-2xx response. Message is extracted best-effort
// from the body.
type ResponseError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
}

func (e *ResponseError) Is(target error) bool { return target == ErrResponse }

// StatusCode returns the HTTP status of a ResponseError anywhere in err's chain, or 0.
func StatusCode(err error) int {
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode
	}
	return 0
}

// extractMessage pulls a human-readable message out of an error body.
// It prefers {"error": ...}, then {"message": ...}, then a short plain-text
// body, then a generic status description.
func extractMessage(status int, body []byte) string {
	var shaped struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &shaped); err == nil {
		if msg := strings.TrimSpace(shaped.Error); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(shaped.Message); msg != "" {
			return msg
		}
	}

	raw := strings.TrimSpace(string(body))
	if raw != "" && utf8.ValidString(raw) && !strings.HasPrefix(raw, "{") && !strings.HasPrefix(raw, "<") {
		if len([]rune(raw)) > maxRawMessage {
			raw = string([]rune(raw)[:maxRawMessage]) + "..."
		}
		return raw
	}

	return fmt.Sprintf("request failed with status %d %s", status, http.StatusText(status))
}
