package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrPlaceholderID    = errors.New("invalid backend id")

	// Upstream errors
	ErrNetwork      = errors.New("network error")
	ErrUpstream     = errors.New("upstream error")
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("permission denied")
	ErrConflict     = errors.New("conflict")

	// Response shape errors
	ErrDataShape = errors.New("unexpected response shape")

	// Lifecycle errors
	ErrCanceled = errors.New("request canceled")

	// Session errors
	ErrNotAuthenticated = errors.New("not signed in")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenInvalid     = errors.New("invalid token")
)

// GenericMessage is shown when neither an error nor a message could be extracted
const GenericMessage = "Something went wrong"

// Kind classifies an error for display and status mapping
type Kind string

const (
	KindValidation Kind = "validation"
	KindNetwork    Kind = "network"
	KindServer     Kind = "server"
	KindDataShape  Kind = "data_shape"
	KindCanceled   Kind = "canceled"
	KindUnknown    Kind = "unknown"
)

// Error represents an application error with the operation and upstream status that produced it
type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Message string
	Err     error
}

// Error implements error interface
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return GenericMessage
}

// Unwrap implements errors.Unwrap interface
func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation error with a user-facing message
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message, Err: ErrValidationFailed}
}

// NewFieldValidationError is a validation error keeping the per-field failures in cause
func NewFieldValidationError(message string, cause error) *Error {
	return &Error{Kind: KindValidation, Message: message, Err: errors.Join(ErrValidationFailed, cause)}
}

// NewPlaceholderError rejects deleting an id that was never assigned by the server
func NewPlaceholderError(resource string) *Error {
	return NewPlaceholderActionError("delete", resource)
}

// NewPlaceholderActionError rejects any action on an id the server never assigned
func NewPlaceholderActionError(action, resource string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: fmt.Sprintf("Cannot %s %s: Invalid backend %s ID.", action, resource, resource),
		Err:     ErrPlaceholderID,
	}
}

// NewNetworkError wraps a transport failure
func NewNetworkError(op string, err error) *Error {
	return &Error{Kind: KindNetwork, Op: op, Message: "Network error: " + err.Error(), Err: errors.Join(ErrNetwork, err)}
}

// NewCanceledError marks a request abandoned because its owner went away
func NewCanceledError(op string, err error) *Error {
	return &Error{Kind: KindCanceled, Op: op, Err: errors.Join(ErrCanceled, err)}
}

// NewDataShapeError reports a response missing an expected field
func NewDataShapeError(op, detail string) *Error {
	return &Error{Kind: KindDataShape, Op: op, Message: detail, Err: ErrDataShape}
}

// NewServerError maps a non-2xx upstream status onto a sentinel
func NewServerError(op string, status int, message string) *Error {
	if message == "" {
		message = GenericMessage
	}
	return &Error{Kind: KindServer, Op: op, Status: status, Message: message, Err: sentinelForStatus(status)}
}

func sentinelForStatus(status int) error {
	switch status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusConflict:
		return ErrConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidationFailed
	default:
		return ErrUpstream
	}
}

// KindOf returns the kind of err, KindUnknown when err is not an *Error
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// StatusOf returns the upstream HTTP status carried by err, or 0
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return 0
}

// Message extracts the text to display for err
func Message(err error) string {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return GenericMessage
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}
