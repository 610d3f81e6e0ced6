package storage

import (
	"errors"
	"fmt"
)

// Common storage error values. They can be used directly or enriched
// with WithMessage / WithCause and compared with errors.Is.
var (
	// ErrNotConnected indicates an operation was attempted before a
	// successful connect, or after the connection was closed. It is
	// always surfaced to the caller, never swallowed.
	ErrNotConnected = &StorageError{
		Code:    "NOT_CONNECTED",
		Message: "storage client is not connected",
	}

	// ErrConnectionFailed indicates pool establishment failed: timeout,
	// authentication, DNS, or backend unavailability.
	ErrConnectionFailed = &StorageError{
		Code:    "CONNECTION_FAILED",
		Message: "failed to connect to storage backend",
	}

	// ErrTimeout indicates a storage operation exceeded its deadline.
	ErrTimeout = &StorageError{
		Code:    "TIMEOUT",
		Message: "storage operation timed out",
	}

	// ErrInvalidConfig indicates the storage configuration failed
	// validation before any connection attempt.
	ErrInvalidConfig = &StorageError{
		Code:    "INVALID_CONFIG",
		Message: "invalid storage configuration",
	}

	// ErrIndexCreation indicates index registration failed. Non-fatal:
	// callers log it and continue, queries just run without the index.
	ErrIndexCreation = &StorageError{
		Code:    "INDEX_CREATION",
		Message: "failed to create index",
	}

	// ErrSerialization indicates a cached value could not be encoded or
	// decoded. The cache layer collapses it to a miss.
	ErrSerialization = &StorageError{
		Code:    "SERIALIZATION",
		Message: "failed to serialize or deserialize value",
	}

	// ErrClientNotFound indicates a lookup in the Manager for a name
	// that was never registered.
	ErrClientNotFound = &StorageError{
		Code:    "CLIENT_NOT_FOUND",
		Message: "storage client not found",
	}

	// ErrClientAlreadyExists indicates a duplicate Manager registration.
	ErrClientAlreadyExists = &StorageError{
		Code:    "CLIENT_ALREADY_EXISTS",
		Message: "storage client already exists",
	}
)

// StorageError is a storage error with a machine-readable code.
type StorageError struct {
	// Code is a stable machine-readable code, e.g. "NOT_CONNECTED".
	Code string

	// Message is the human-readable description.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, enabling errors.Is / errors.As.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// Is matches on the error code so wrapped variants still compare equal
// to the sentinel values above.
func (e *StorageError) Is(target error) bool {
	t, ok := target.(*StorageError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of the error with a more specific message.
func (e *StorageError) WithMessage(msg string) *StorageError {
	return &StorageError{Code: e.Code, Message: msg, Cause: e.Cause}
}

// WithCause returns a copy of the error wrapping an underlying cause.
func (e *StorageError) WithCause(cause error) *StorageError {
	return &StorageError{Code: e.Code, Message: e.Message, Cause: cause}
}

// GetStorageError extracts a StorageError from an error chain.
func GetStorageError(err error) (*StorageError, bool) {
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return storageErr, true
	}
	return nil, false
}
