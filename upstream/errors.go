package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Codes derived from HTTP status when the upstream body carries none.
const (
	CodeBadRequest          = "BAD_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeTooManyRequests     = "TOO_MANY_REQUESTS"
	CodeInternalServerError = "INTERNAL_SERVER_ERROR"
	CodeBadGateway          = "BAD_GATEWAY"
	CodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
	CodeGatewayTimeout      = "GATEWAY_TIMEOUT"
	CodeUnknown             = "UNKNOWN_ERROR"
)

// APIError is a structured error reported by an upstream API, either inside
// a response body or as the body of a failed HTTP response.
type APIError struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	Recoverable bool   `json:"recoverable,omitempty"`
	StatusCode  int    `json:"-"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// IsRecoverable reports whether retrying the same call may succeed.
func (e *APIError) IsRecoverable() bool {
	return e.Recoverable
}

// TransportError is a failure to reach the upstream at all.
type TransportError struct {
	Op          string
	Err         error
	Recoverable bool
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsRecoverable reports whether retrying the same call may succeed.
func (e *TransportError) IsRecoverable() bool {
	return e.Recoverable
}

// NewTransportError wraps a client failure. Timeouts are reported as such so
// they classify as TIMEOUT rather than a generic network error.
func NewTransportError(op string, err error) *TransportError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TransportError{Op: op, Err: fmt.Errorf("request timeout: %w", err), Recoverable: true}
	}
	if errors.Is(err, context.Canceled) {
		return &TransportError{Op: op, Err: err}
	}
	return &TransportError{Op: op, Err: fmt.Errorf("network error: %w", err), Recoverable: true}
}

// CodeForStatus maps an HTTP status to an error code.
func CodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeBadRequest
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusTooManyRequests:
		return CodeTooManyRequests
	case http.StatusInternalServerError:
		return CodeInternalServerError
	case http.StatusBadGateway:
		return CodeBadGateway
	case http.StatusServiceUnavailable:
		return CodeServiceUnavailable
	case http.StatusGatewayTimeout:
		return CodeGatewayTimeout
	}
	if status >= 500 {
		return CodeInternalServerError
	}
	return CodeUnknown
}

// RecoverableStatus reports whether a failed HTTP status is worth retrying.
func RecoverableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// IsServerCode reports whether code is a 5xx-family code.
func IsServerCode(code string) bool {
	switch code {
	case CodeInternalServerError, CodeBadGateway, CodeServiceUnavailable, CodeGatewayTimeout:
		return true
	}
	return false
}
