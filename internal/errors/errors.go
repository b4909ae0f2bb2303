// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors
var (
	ErrNotFound      = errors.New("not found")
	ErrRateLimited   = errors.New("rate limited")
	ErrValidation    = errors.New("input validation failed")
	ErrUpstream      = errors.New("upstream request failed")
	ErrConfigInvalid = errors.New("invalid configuration")
)

// NotFoundError indicates that the upstream source has no record for the
// requested identifier(s).
type NotFoundError struct {
	Identifiers []string
	Detail      string
}

func (e *NotFoundError) Error() string {
	ids := strings.Join(e.Identifiers, ", ")
	if e.Detail != "" {
		return fmt.Sprintf("ticker '%s' not found: %s", ids, e.Detail)
	}
	return fmt.Sprintf("ticker '%s' not found", ids)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(identifiers ...string) *NotFoundError {
	return &NotFoundError{Identifiers: identifiers}
}

// NewNotFoundErrorWithDetail creates a NotFoundError carrying extra context,
// such as a date range.
func NewNotFoundErrorWithDetail(detail string, identifiers ...string) *NotFoundError {
	return &NotFoundError{Identifiers: identifiers, Detail: detail}
}

// RateLimitError indicates the upstream provider rejected a call because of
// rate limiting. Callers should back off; the service does not retry.
type RateLimitError struct {
	Operation string
}

func (e *RateLimitError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("rate limited by upstream provider during %s, try again later", e.Operation)
	}
	return "rate limited by upstream provider, try again later"
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// NewRateLimitError creates a new RateLimitError.
func NewRateLimitError(operation string) *RateLimitError {
	return &RateLimitError{Operation: operation}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// UpstreamError represents an unclassified failure from the upstream provider.
// The original message is preserved verbatim.
type UpstreamError struct {
	Operation string
	Err       error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error [%s]: %v", e.Operation, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError creates a new UpstreamError.
func NewUpstreamError(operation string, err error) *UpstreamError {
	return &UpstreamError{
		Operation: operation,
		Err:       err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
