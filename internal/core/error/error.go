package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// ConfigErrorMessage marks missing or invalid assistant configuration,
	// e.g. an absent API key. Handlers embed it in their text replies so the
	// condition is recognizable without inspecting logs.
	ConfigErrorMessage = "assistant configuration error"
	// StoreErrorMessage describes failures against the telecom database.
	StoreErrorMessage = "data store operation failed"
	// ModelErrorMessage describes failures of the external language model.
	ModelErrorMessage = "language model call failed"
	// IndexErrorMessage describes knowledge index build or search failures.
	IndexErrorMessage = "knowledge index unavailable"
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// NewConfig marks a configuration problem that should degrade to text, never crash.
func NewConfig(err error) *AppError {
	return New(err, http.StatusPreconditionFailed, ConfigErrorMessage)
}

// WrapStore wraps a database error with a consistent status and message.
func WrapStore(err error) *AppError {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, StoreErrorMessage)
}

// WrapModel wraps a language-model error with a consistent status and message.
func WrapModel(err error) *AppError {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, ModelErrorMessage)
}

// WrapIndex wraps a knowledge-index error with a consistent status and message.
func WrapIndex(err error) *AppError {
	if err == nil {
		return nil
	}
	return New(err, http.StatusServiceUnavailable, IndexErrorMessage)
}

// Is reports whether the target matches the underlying error or the AppError itself.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}
