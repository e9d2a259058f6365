// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Transport errors.
	ErrTransport         = errors.New("request failed")
	ErrMalformedResponse = errors.New("error parsing response")
	ErrSessionInvalid    = errors.New("session is no longer valid")

	// Page data errors.
	ErrMissingDataIsland = errors.New("data island not found")
	ErrMalformedData     = errors.New("unexpected data format")
	ErrNotFound          = errors.New("not found")

	// Ordering errors.
	ErrSuperseded = errors.New("superseded by a newer request")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// AppError is an application level failure reported by the backend in the
// error field of an otherwise successful response.
type AppError struct {
	Header  string
	Message string
}

func (e *AppError) Error() string {
	if e.Header != "" {
		return fmt.Sprintf("%s: %s", e.Header, e.Message)
	}
	return e.Message
}

// NewAppError creates an application error from a response header and body.
func NewAppError(header, message string) error {
	return &AppError{
		Header:  header,
		Message: message,
	}
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// StatusError records a non-2xx HTTP status. It unwraps to ErrTransport.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.URL, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrTransport
}
