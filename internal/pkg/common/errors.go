package common

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorResponse is the JSON error body returned by the API layer.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// CustomError carries an error code, a user-facing message and the HTTP status
// the route layer should answer with.
type CustomError struct {
	Code    string
	Message string
	Err     error
	Status  int
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError creates a new custom error.
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// ProviderError reports a failed call to the external recipe provider. The
// upstream status code is preserved so callers can tell a provider 404 apart
// from a provider outage. Timeout is set when the request deadline elapsed
// before any response arrived.
type ProviderError struct {
	StatusCode int
	Message    string
	Timeout    bool
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("provider request timed out: %s", e.Message)
	}
	return fmt.Sprintf("provider returned %d: %s", e.StatusCode, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a provider error with the upstream status preserved.
func NewProviderError(statusCode int, message string, err error) error {
	return &ProviderError{StatusCode: statusCode, Message: message, Err: err}
}

// NewProviderTimeout creates a provider error for an elapsed request deadline.
func NewProviderTimeout(message string, err error) error {
	return &ProviderError{Message: message, Timeout: true, Err: err}
}

// IsProviderError reports whether err is a provider failure.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// ProviderStatus returns the upstream status code of a provider error, or 0.
func ProviderStatus(err error) int {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.StatusCode
	}
	return 0
}

// ValidationError rejects caller input before any provider or store call.
type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError creates a new validation error.
func NewValidationError(message string) error {
	return &ValidationError{message: message}
}

// IsValidationError reports whether err is a validation error.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFoundError is the typed, expected outcome of looking up a resource that
// does not exist or does not belong to the requesting user. It is not a fault.
type NotFoundError struct {
	message string
}

func (e *NotFoundError) Error() string {
	return e.message
}

// NewNotFoundError creates a new not-found error.
func NewNotFoundError(message string) error {
	return &NotFoundError{message: message}
}

// IsNotFoundError reports whether err is a not-found error.
func IsNotFoundError(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}

// PersistenceError wraps a failure of the backing store.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store error: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError wraps a store failure.
func NewPersistenceError(err error) error {
	return &PersistenceError{Err: err}
}

// IsPersistenceError reports whether err is a store failure.
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// Predefined error codes.
const (
	// Client errors (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeUnauthorized    = "UNAUTHORIZED"      // 401
	ErrCodeForbidden       = "FORBIDDEN"         // 403
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeConflict        = "CONFLICT"          // 409
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// Server errors (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504

	// Domain errors
	ErrCodeProviderError = "PROVIDER_ERROR"
	ErrCodeStoreError    = "STORE_ERROR"
)

// Predefined errors.
var (
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "invalid request", http.StatusBadRequest, nil)
	ErrUnauthorized    = NewError(ErrCodeUnauthorized, "unauthorized", http.StatusUnauthorized, nil)
	ErrForbidden       = NewError(ErrCodeForbidden, "forbidden", http.StatusForbidden, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "resource not found", http.StatusNotFound, nil)
	ErrConflict        = NewError(ErrCodeConflict, "resource conflict", http.StatusConflict, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "too many requests", http.StatusTooManyRequests, nil)

	ErrInternalError      = NewError(ErrCodeInternalError, "internal server error", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "service temporarily unavailable", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "gateway timeout", http.StatusGatewayTimeout, nil)
)

// HTTPStatus maps any error of the domain taxonomy to the HTTP status the
// route layer should answer with.
func HTTPStatus(err error) int {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Status
	}
	var pe *ProviderError
	switch {
	case IsValidationError(err):
		return http.StatusBadRequest
	case IsNotFoundError(err):
		return http.StatusNotFound
	case errors.As(err, &pe):
		if pe.Timeout {
			return http.StatusGatewayTimeout
		}
		if pe.StatusCode == http.StatusNotFound {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	case IsPersistenceError(err):
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// ErrorCode maps an error of the domain taxonomy to its response code.
func ErrorCode(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Code
	}
	switch {
	case IsValidationError(err):
		return ErrCodeInvalidRequest
	case IsNotFoundError(err):
		return ErrCodeNotFound
	case IsProviderError(err):
		if ProviderStatus(err) == http.StatusNotFound {
			return ErrCodeNotFound
		}
		return ErrCodeProviderError
	case IsPersistenceError(err):
		return ErrCodeStoreError
	}
	return ErrCodeInternalError
}
