package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// ErrorResponse is the error body the backend sends with failures.
type ErrorResponse struct {
	Message string `json:"message"`
}

// EventResponse is the decoded body of a successful POST /events.
type EventResponse struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message,omitempty"`
	ID         string `json:"_id,omitempty"`
}

// APIError is returned when the backend answered with a status the
// operation does not accept.
type APIError struct {
	Method     string
	Path       string
	StatusCode int

	// Message is the backend-supplied message field, empty when the body
	// carried none.
	Message string

	// Body is the raw response body.
	Body string
}

func (e *APIError) Error() string {
	detail := e.Message
	if detail == "" {
		detail = strings.TrimSpace(e.Body)
	}
	if detail == "" {
		return fmt.Sprintf("unexpected status %d on %s %s", e.StatusCode, e.Method, e.Path)
	}
	return fmt.Sprintf("unexpected status %d on %s %s: %s", e.StatusCode, e.Method, e.Path, detail)
}

func newAPIError(method, path string, resp *response) *APIError {
	apiErr := &APIError{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Body:       string(resp.Body),
	}

	var body ErrorResponse
	if json.Unmarshal(resp.Body, &body) == nil {
		apiErr.Message = body.Message
	}

	return apiErr
}

// AsAPIError returns the *APIError in err's chain, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsAuthError reports whether err (or any error in its chain) is a 401
// from the backend.
func IsAuthError(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.StatusCode == http.StatusUnauthorized
}

// ServerMessage returns the backend-supplied message carried by err, or ""
// when err is a transport failure or the body had no message.
func ServerMessage(err error) string {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Message
	}
	return ""
}
