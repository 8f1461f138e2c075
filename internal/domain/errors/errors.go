package errors

import (
	"net/http"

	"yougotthis/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Authentication errors
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Email or password is incorrect",
		"",
	)

	ErrMissingCredentials = NewBaseError(
		http.StatusBadRequest,
		"MISSING_CREDENTIALS",
		"Email and password are required",
		"",
	)

	ErrAccountAlreadyExists = NewBaseError(
		http.StatusConflict,
		"ACCOUNT_ALREADY_EXISTS",
		"An account with this email already exists",
		"",
	)

	ErrAccountCreationFailed = NewBaseError(
		http.StatusInternalServerError,
		"ACCOUNT_CREATION_FAILED",
		"Failed to create the account",
		"",
	)

	ErrNotAuthenticated = NewBaseError(
		http.StatusUnauthorized,
		"NOT_AUTHENTICATED",
		"No active session",
		"",
	)

	ErrGuestUnsupported = NewBaseError(
		http.StatusBadRequest,
		"GUEST_UNSUPPORTED",
		"This operation is not supported in guest mode",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"Failed to process the password",
		"",
	)

	// Data errors
	ErrRecordNotFound = NewBaseError(
		http.StatusNotFound,
		"RECORD_NOT_FOUND",
		"The requested record does not exist",
		"",
	)

	ErrWriteFailed = NewBaseError(
		http.StatusInternalServerError,
		"WRITE_FAILED",
		"Failed to save the record",
		"",
	)

	ErrReadFailed = NewBaseError(
		http.StatusInternalServerError,
		"READ_FAILED",
		"Failed to read the record",
		"",
	)

	// Validation errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)

	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"Access denied",
		"",
	)
)

// BackendExecuteError represents a backend substrate failure, implementing the AppError interface
type BackendExecuteError struct {
	err     error
	details string
}

// NewBackendExecuteError creates a backend-related error
func NewBackendExecuteError(err error, details string) AppError {
	return &BackendExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *BackendExecuteError) Error() string {
	return errors.Wrap(e.err, "backend execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *BackendExecuteError) HTTPCode() int {
	return http.StatusBadGateway
}

// ErrorCode returns the business error code
func (e *BackendExecuteError) ErrorCode() string {
	return "BACKEND_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *BackendExecuteError) Message() string {
	return "The backend request failed"
}

// Details returns detailed error information
func (e *BackendExecuteError) Details() string {
	return e.details
}

// Unwrap exposes the underlying backend error for errors.Is/As checks.
func (e *BackendExecuteError) Unwrap() error {
	return e.err
}
