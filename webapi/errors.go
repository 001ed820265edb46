package webapi

import (
	"errors"
	"fmt"
)

// Kind classifies a failure returned by the client.
type Kind int

const (
	// KindUnknown is never produced by the client; it is what KindOf reports for foreign errors
	KindUnknown Kind = iota
	// KindUnauthorized indicates the shared key is missing or invalid (server code -1)
	KindUnauthorized
	// KindInvalidResource indicates the endpoint does not exist (server code -2)
	KindInvalidResource
	// KindInvalidPlayer indicates the named player is not online (server code -3)
	KindInvalidPlayer
	// KindInvalidTime indicates a malformed or rejected time value (server code -4, or local validation)
	KindInvalidTime
	// KindInvalidMethod indicates the HTTP method is not supported by the endpoint (server code -5)
	KindInvalidMethod
	// KindUnknownServerError indicates an error code outside the documented set
	KindUnknownServerError
	// KindTransport indicates the HTTP round trip itself failed
	KindTransport
	// KindMalformedResponse indicates the response did not have the expected shape
	KindMalformedResponse
	// KindInvalidConfig indicates the client could not be constructed
	KindInvalidConfig
)

// Server error codes.
const (
	CodeUnauthorized    = -1
	CodeInvalidResource = -2
	CodeInvalidPlayer   = -3
	CodeInvalidTime     = -4
	CodeInvalidMethod   = -5
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidResource:
		return "invalid resource"
	case KindInvalidPlayer:
		return "invalid player"
	case KindInvalidTime:
		return "invalid time"
	case KindInvalidMethod:
		return "invalid method"
	case KindUnknownServerError:
		return "unknown server error"
	case KindTransport:
		return "transport failure"
	case KindMalformedResponse:
		return "malformed response"
	case KindInvalidConfig:
		return "invalid configuration"
	default:
		return "unknown"
	}
}

// Common errors. Every *APIError matches exactly one of these with errors.Is.
var (
	// ErrUnauthorized indicates the shared key was rejected
	ErrUnauthorized = errors.New("unauthorized: invalid or missing key")
	// ErrInvalidResource indicates the requested resource does not exist
	ErrInvalidResource = errors.New("invalid resource")
	// ErrInvalidPlayer indicates the player could not be found
	ErrInvalidPlayer = errors.New("invalid player")
	// ErrInvalidTime indicates the time value was rejected
	ErrInvalidTime = errors.New("invalid time")
	// ErrInvalidMethod indicates the endpoint does not accept the HTTP method
	ErrInvalidMethod = errors.New("invalid method")
	// ErrUnknownServerError indicates an undocumented server error code
	ErrUnknownServerError = errors.New("unknown server error")
	// ErrTransport indicates a network level failure
	ErrTransport = errors.New("transport failure")
	// ErrMalformedResponse indicates an unexpected response payload
	ErrMalformedResponse = errors.New("malformed response")
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid web API client configuration")
)

var kindSentinels = map[Kind]error{
	KindUnauthorized:       ErrUnauthorized,
	KindInvalidResource:    ErrInvalidResource,
	KindInvalidPlayer:      ErrInvalidPlayer,
	KindInvalidTime:        ErrInvalidTime,
	KindInvalidMethod:      ErrInvalidMethod,
	KindUnknownServerError: ErrUnknownServerError,
	KindTransport:          ErrTransport,
	KindMalformedResponse:  ErrMalformedResponse,
	KindInvalidConfig:      ErrInvalidConfig,
}

// KindFromCode maps a server error code to its Kind.
// Codes outside the documented range map to KindUnknownServerError.
func KindFromCode(code int) Kind {
	switch code {
	case CodeUnauthorized:
		return KindUnauthorized
	case CodeInvalidResource:
		return KindInvalidResource
	case CodeInvalidPlayer:
		return KindInvalidPlayer
	case CodeInvalidTime:
		return KindInvalidTime
	case CodeInvalidMethod:
		return KindInvalidMethod
	default:
		return KindUnknownServerError
	}
}

// APIError represents a failed web API call
type APIError struct {
	Kind Kind
	// Code is the server supplied error code, zero when the failure did not come from the server
	Code       int
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	msg := "webapi: " + e.Kind.String()
	if e.Kind <= KindUnknownServerError && e.Code != 0 {
		msg += fmt.Sprintf(" (code %d)", e.Code)
	}
	if e.Endpoint != "" {
		msg += fmt.Sprintf(" on %q", e.Endpoint)
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel error for this error's kind
func (e *APIError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// IsUnauthorized checks if the key was rejected
func (e *APIError) IsUnauthorized() bool {
	return e.Kind == KindUnauthorized
}

// IsInvalidPlayer checks if the player could not be found
func (e *APIError) IsInvalidPlayer() bool {
	return e.Kind == KindInvalidPlayer
}

// IsInvalidTime checks if the time value was rejected
func (e *APIError) IsInvalidTime() bool {
	return e.Kind == KindInvalidTime
}

// IsServerError checks if the failure was signaled by the server through an error code
func (e *APIError) IsServerError() bool {
	return e.Kind >= KindUnauthorized && e.Kind <= KindUnknownServerError
}

// KindOf returns the Kind of err, or KindUnknown if err is not an *APIError
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

func serverError(endpoint string, code int) *APIError {
	return &APIError{
		Kind:     KindFromCode(code),
		Code:     code,
		Endpoint: endpoint,
	}
}

func malformed(endpoint, format string, args ...any) *APIError {
	return &APIError{
		Kind:     KindMalformedResponse,
		Endpoint: endpoint,
		Message:  fmt.Sprintf(format, args...),
	}
}
