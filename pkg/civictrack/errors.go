package civictrack

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types for common failure scenarios.
var (
	// ErrNotAuthenticated indicates the operation needs a token and none
	// is available.
	ErrNotAuthenticated = errors.New("not authenticated: no token available")

	// ErrTokenExpired indicates the stored access token has expired.
	ErrTokenExpired = errors.New("access token has expired")

	// ErrInvalidToken indicates the stored token could not be decoded.
	ErrInvalidToken = errors.New("invalid access token")
)

// Error wraps a CivicTrack API failure with operation context. Message holds
// the backend-provided error string when the server produced one; callers
// surface it to the user verbatim.
type Error struct {
	// Op is the operation that failed, e.g. "login" or "report issue".
	Op string

	// StatusCode is the HTTP status of the response, 0 when the request
	// never completed.
	StatusCode int

	// Message is the server-provided error message, if any.
	Message string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// wrapError wraps a transport-level error with operation context.
func wrapError(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}

// apiError builds an Error from a non-2xx response.
func apiError(op string, status int, message string) *Error {
	return &Error{Op: op, StatusCode: status, Message: message}
}

// IsAuthError reports whether the error indicates missing or rejected
// credentials.
func IsAuthError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	}
	return errors.Is(err, ErrNotAuthenticated) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrInvalidToken)
}

// IsTokenError reports whether the error stems from a locally rejected
// token: undecodable or past its expiry.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrTokenExpired) || errors.Is(err, ErrInvalidToken)
}

// IsNotFound reports whether the error indicates a missing resource.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.StatusCode == http.StatusNotFound
}

// ErrorMessage extracts the user-facing message from an API error. It
// returns the backend-provided string when present and falls back to the
// full error text.
func ErrorMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
