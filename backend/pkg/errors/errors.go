package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeStore represents record store errors
	ErrorTypeStore ErrorType = "store"
	// ErrorTypeEmbedding represents embedding provider errors
	ErrorTypeEmbedding ErrorType = "embedding"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Store Errors

// ErrStoreQueryFailed is returned when a record store query fails
type ErrStoreQueryFailed struct {
	*BaseError
	Operation string
}

func NewStoreQueryFailed(operation string, err error) *ErrStoreQueryFailed {
	return &ErrStoreQueryFailed{
		BaseError: NewBaseError(ErrorTypeStore, fmt.Sprintf("query failed: %s", operation), err),
		Operation: operation,
	}
}

// ErrRecordNotFound is returned when a record cannot be found
type ErrRecordNotFound struct {
	*BaseError
	RecordID string
}

func NewRecordNotFound(recordID string) *ErrRecordNotFound {
	return &ErrRecordNotFound{
		BaseError: NewBaseError(ErrorTypeStore, fmt.Sprintf("record not found: %s", recordID), nil),
		RecordID:  recordID,
	}
}

// Embedding Errors

// ErrEmbeddingUnavailable is returned when no embedding provider is configured
var ErrEmbeddingUnavailable = NewBaseError(ErrorTypeEmbedding, "no embedding provider configured", nil)

// ErrEmbeddingFailed is returned when an embedding request fails
type ErrEmbeddingFailed struct {
	*BaseError
	Model string
}

func NewEmbeddingFailed(model string, err error) *ErrEmbeddingFailed {
	return &ErrEmbeddingFailed{
		BaseError: NewBaseError(ErrorTypeEmbedding, "embedding request failed", err),
		Model:     model,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	if baseErr, ok := err.(*BaseError); ok {
		return baseErr.Type == errType
	}
	// Check wrapped errors
	if baseErr, ok := err.(interface{ Unwrap() error }); ok {
		return IsErrorType(baseErr.Unwrap(), errType)
	}
	return false
}
