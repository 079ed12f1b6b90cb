package api

import (
	"errors"
	"fmt"
	"net/http"
)

// AuthError indicates that the bearer token was rejected (HTTP 401).
// The client has already cleared the stored session when it is returned.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: %s", e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// APIError is a non-2xx response that the server explained with a message.
type APIError struct {
	Status  int
	Method  string
	Path    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d) on %s %s: %s", e.Status, e.Method, e.Path, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	if IsAuthError(err) {
		return http.StatusUnauthorized
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// UserMessage returns the text to show a user for err: the server's own
// message for API errors, a fixed sentence otherwise.
func UserMessage(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case IsAuthError(err):
		return "Your session has expired. Please sign in again."
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	default:
		return "Something went wrong. Please try again."
	}
}

// errorBody covers the error envelopes the API uses.
type errorBody struct {
	Detail  any    `json:"detail"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (b errorBody) text() string {
	switch d := b.Detail.(type) {
	case string:
		if d != "" {
			return d
		}
	case []any:
		// Validation errors arrive as a list of {msg: ...} objects.
		for _, item := range d {
			if m, ok := item.(map[string]any); ok {
				if msg, ok := m["msg"].(string); ok {
					return msg
				}
			}
		}
	}
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}
