package llmclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrEmptyResponse indicates the API returned a response with no choices.
var ErrEmptyResponse = errors.New("empty response from API")

// ErrorResponse represents a standard error response body from either backend:
// {"error":{"message":"...","type":"...","code":"..."}}
type ErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// APIError represents a non-success response from the model backend. The
// clients make exactly one attempt per call, so an APIError is terminal for
// the exchange that issued it.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
	Code       string
	Body       string
	RequestID  string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("backend error %d: %s", e.StatusCode, e.Message)
}

// IsRateLimit returns true if this is a rate limit error.
func (e *APIError) IsRateLimit() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.Code == "rate_limit_exceeded"
}

// IsAuthError returns true if this is an authentication error.
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == http.StatusUnauthorized || e.Code == "invalid_api_key"
}

// IsServerError returns true for 5xx responses.
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// IsBackendError reports whether err (or anything it wraps) is an APIError.
func IsBackendError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
