package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is a closed enumeration of failure categories so callers can
// branch on kind instead of matching message strings.
type ErrorKind string

const (
	KindConfig     ErrorKind = "config"
	KindExtraction ErrorKind = "extraction"
	KindUpload     ErrorKind = "upload"
	KindAuth       ErrorKind = "authorization"
	KindWebhook    ErrorKind = "webhook"
)

// Error carries a kind and a human-readable message, optionally wrapping
// the underlying cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error with no underlying cause.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError creates an Error wrapping an underlying cause.
func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind of err, or an empty kind if err does not carry one.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
