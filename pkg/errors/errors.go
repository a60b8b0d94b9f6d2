package errors

import (
	"errors"
	"fmt"
)

// Domain error types for business logic

var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")

	// ErrTimeout indicates an operation timeout
	ErrTimeout = errors.New("operation timeout")

	// ErrUnavailable indicates a service is unavailable
	ErrUnavailable = errors.New("service unavailable")
)

// Session and portfolio errors

var (
	// ErrSessionNotFound indicates no session exists for the (client, session) pair
	ErrSessionNotFound = errors.New("session not found")

	// ErrPortfolioNotFound indicates no portfolio holdings exist for the client
	ErrPortfolioNotFound = errors.New("no portfolio found for client")

	// ErrUnknownFunction indicates a portfolio function name outside the supported set
	ErrUnknownFunction = errors.New("unknown portfolio function")

	// ErrInvalidSymbol indicates a ticker symbol not present in holdings
	ErrInvalidSymbol = errors.New("invalid ticker symbol")
)

// LLM boundary errors

var (
	// ErrLLMUnavailable indicates the model endpoint could not be reached
	ErrLLMUnavailable = errors.New("llm unavailable")

	// ErrEmptyResponse indicates the model returned no usable content
	ErrEmptyResponse = errors.New("empty llm response")

	// ErrNoFunctionCall indicates the model declined to select a function
	ErrNoFunctionCall = errors.New("no function call returned")

	// ErrRateLimitExceeded indicates the local LLM rate limit was hit
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// ParseError indicates a structured LLM response failed strict decoding.
// Callers convert it to their component's degraded default instead of
// letting a garbled payload become a wrong answer.
type ParseError struct {
	Raw string
	Err error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %v (raw: %.120s)", e.Err, e.Raw)
}

// Unwrap returns the wrapped error
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new parse error keeping the raw payload for logs
func NewParseError(raw string, err error) *ParseError {
	return &ParseError{Raw: raw, Err: err}
}

// IsParseError reports whether err is or wraps a ParseError
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// DomainError wraps an error with additional context
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
