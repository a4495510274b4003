package errors

import (
	"fmt"
	"net/http"
)

// Common application errors
var (
	ErrNotFound         = NewNotFoundError("resource", "Not Found")
	ErrForbidden        = NewForbiddenError("Forbidden")
	ErrInvalidLogin     = NewValidationError("", "Invalid credentials")
	ErrEmailTaken       = NewAlreadyExistsError("user", "Email already exists")
	ErrInvalidSymptomID = NewValidationError("symptom_id", "Invalid symptom ID")
	ErrInvalidDoctorID  = NewValidationError("doctor_id", "Invalid doctor ID")
)

// ValidationError represents a rejected form value
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status for this error
func (e *ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// StatusCode returns the HTTP status for this error
func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// AlreadyExistsError represents a resource already exists error.
// Form submissions report it as a plain bad request.
type AlreadyExistsError struct {
	Resource string
	Message  string
}

// NewAlreadyExistsError creates a new already exists error
func NewAlreadyExistsError(resource, message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *AlreadyExistsError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

// StatusCode returns the HTTP status for this error
func (e *AlreadyExistsError) StatusCode() int {
	return http.StatusBadRequest
}

// ForbiddenError represents an authorization failure
type ForbiddenError struct {
	Message string
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

// Error implements the error interface
func (e *ForbiddenError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status for this error
func (e *ForbiddenError) StatusCode() int {
	return http.StatusForbidden
}

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status for this error
func (e *InternalError) StatusCode() int {
	return http.StatusInternalServerError
}

// HTTPStatuser is implemented by errors that map onto an HTTP status
type HTTPStatuser interface {
	error
	StatusCode() int
}
