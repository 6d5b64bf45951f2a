package dto

import (
	"fmt"
	"sort"
	"time"

	"github.com/yigit/communityadmin/internal/pkg/notify"
)

// ErrorCode represents standardized error codes
type ErrorCode string

// Standard error codes for the console
const (
	// Authentication errors
	ErrorCodeInvalidToken     ErrorCode = "AUTH_005"
	ErrorCodeExpiredToken     ErrorCode = "AUTH_006"
	ErrorCodeNotAuthenticated ErrorCode = "AUTH_007"
	ErrorCodeUnauthorized     ErrorCode = "AUTH_008"
	ErrorCodeForbidden        ErrorCode = "AUTH_009"

	// Resource errors
	ErrorCodeResourceNotFound ErrorCode = "RES_001"
	ErrorCodeResourceInvalid  ErrorCode = "RES_003"
	ErrorCodeConflict         ErrorCode = "RES_004"

	// Validation errors
	ErrorCodeValidationFailed ErrorCode = "VAL_001"
	ErrorCodeSubmitInProgress ErrorCode = "VAL_002"

	// Server errors
	ErrorCodeInternalServer       ErrorCode = "SRV_001"
	ErrorCodeExternalServiceError ErrorCode = "SRV_003"
	ErrorCodeUpstreamUnreachable  ErrorCode = "SRV_004"
	ErrorCodeRequestCanceled      ErrorCode = "SRV_005"
	ErrorCodeUnexpectedResponse   ErrorCode = "SRV_006"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

// Severity levels
const (
	ErrorSeverityInfo     ErrorSeverity = "INFO"
	ErrorSeverityWarning  ErrorSeverity = "WARNING"
	ErrorSeverityError    ErrorSeverity = "ERROR"
	ErrorSeverityCritical ErrorSeverity = "CRITICAL"
)

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code      ErrorCode     `json:"code" example:"VAL_001"`
	Message   string        `json:"message" example:"End time must be after start time"`
	Field     string        `json:"field,omitempty" example:"endTime"`
	Severity  ErrorSeverity `json:"severity" example:"ERROR"`
	Status    int           `json:"upstreamStatus,omitempty"`
	Details   interface{}   `json:"details,omitempty"`
	DebugInfo string        `json:"debugInfo,omitempty"`
}

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success   bool            `json:"success" example:"false"`
	Error     *ErrorDetail    `json:"error"`
	Notices   []notify.Notice `json:"notices,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewErrorDetail creates a new error detail
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:     code,
		Message:  message,
		Severity: ErrorSeverityError,
	}
}

// WithField adds a field name to the error detail
func (e *ErrorDetail) WithField(field string) *ErrorDetail {
	e.Field = field
	return e
}

// WithSeverity sets the severity level of the error
func (e *ErrorDetail) WithSeverity(severity ErrorSeverity) *ErrorDetail {
	e.Severity = severity
	return e
}

// WithStatus records the upstream HTTP status behind the error
func (e *ErrorDetail) WithStatus(status int) *ErrorDetail {
	e.Status = status
	return e
}

// WithDetails adds additional details to the error
func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// WithDebugInfo adds the raw error text, only outside release mode
func (e *ErrorDetail) WithDebugInfo(format string, args ...interface{}) *ErrorDetail {
	e.DebugInfo = fmt.Sprintf(format, args...)
	return e
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(errorDetail *ErrorDetail) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Error:     errorDetail,
		Timestamp: time.Now(),
	}
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ErrorDetail `json:"errors"`
}

// NewValidationErrors creates a new validation errors container
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make([]ErrorDetail, 0),
	}
}

// AddError adds a validation error to the container
func (v *ValidationErrors) AddError(field, message string) *ValidationErrors {
	v.Errors = append(v.Errors, ErrorDetail{
		Code:     ErrorCodeValidationFailed,
		Message:  message,
		Field:    field,
		Severity: ErrorSeverityError,
	})
	return v
}

// HasErrors checks if there are any validation errors
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// NewFieldErrors lists one error per field of messages, ordered by field name
func NewFieldErrors(messages map[string]string) *ValidationErrors {
	fields := make([]string, 0, len(messages))
	for f := range messages {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	v := NewValidationErrors()
	for _, f := range fields {
		v.AddError(f, messages[f])
	}
	return v
}

// UpstreamError is the body the upstream API sends with a non-2xx status
type UpstreamError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Text returns error, then message, else an empty string
func (u UpstreamError) Text() string {
	if u.Error != "" {
		return u.Error
	}
	return u.Message
}
