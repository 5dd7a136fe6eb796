package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check them with errors.Is; the API layer maps them to HTTP status codes.
var (
	// ErrEntityAlreadyExists indicates a create would violate a uniqueness rule.
	// API layer should map this to HTTP 409 Conflict.
	ErrEntityAlreadyExists = errors.New("entity already exists")

	// ErrEntityDoesNotExist indicates the requested entity is not stored.
	// API layer should map this to HTTP 404 Not Found.
	ErrEntityDoesNotExist = errors.New("entity does not exist")
)

// EntityError is an expected failure whose Message is safe to show to clients,
// e.g. "Translation for key 'k' and language 'en' already exists".
// It matches its Kind sentinel and the underlying cause with errors.Is.
type EntityError struct {
	Kind    error
	Message string
	Err     error
}

// Error implements the error interface for EntityError.
func (e *EntityError) Error() string {
	return e.Message
}

// Unwrap returns both the kind and the cause to support errors.Is/errors.As.
func (e *EntityError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newAlreadyExistsError(err error, format string, args ...any) *EntityError {
	return &EntityError{Kind: ErrEntityAlreadyExists, Message: fmt.Sprintf(format, args...), Err: err}
}

func newDoesNotExistError(err error, format string, args ...any) *EntityError {
	return &EntityError{Kind: ErrEntityDoesNotExist, Message: fmt.Sprintf(format, args...), Err: err}
}

// ServiceError wraps unexpected failures with the operation that produced them.
// Its message is for logs only.
type ServiceError struct {
	// Service is the service that failed (e.g., "translation", "auth")
	Service string
	// Op is the operation that failed (e.g., "create_translations")
	Op string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Op, e.Err)
	}
	return fmt.Sprintf("%s service %s operation failed", e.Service, e.Op)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op string, err error) *ServiceError {
	return &ServiceError{
		Service: service,
		Op:      op,
		Err:     err,
	}
}
