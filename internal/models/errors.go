package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine failures for callers.
type ErrorKind string

const (
	KindValidation           ErrorKind = "VALIDATION_ERROR"
	KindNotFound             ErrorKind = "NOT_FOUND"
	KindConflict             ErrorKind = "CONFLICT"
	KindAuthenticationFailed ErrorKind = "AUTHENTICATION_FAILED"
	KindNoSuchSession        ErrorKind = "NO_SUCH_SESSION"
	KindInvalidResetToken    ErrorKind = "INVALID_RESET_TOKEN"
	KindUnknownEmail         ErrorKind = "UNKNOWN_EMAIL"
	KindNotificationFailed   ErrorKind = "NOTIFICATION_FAILED"
	KindForbidden            ErrorKind = "FORBIDDEN"
)

// AppError is the only error type the engine returns for domain failures.
// Anything else coming out of a service is an infrastructure error.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError of the same kind, so errors.Is(err, ErrNoSuchSession)
// works regardless of the message.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidVoteDirection = NewValidationError("voteDirection must be one of -1, 0, 1")
	ErrAuthenticationFailed = &AppError{Kind: KindAuthenticationFailed, Message: "Username or password incorrect"}
	ErrNoSuchSession        = &AppError{Kind: KindNoSuchSession, Message: "no such session"}
	ErrInvalidResetToken    = &AppError{Kind: KindInvalidResetToken, Message: "invalid or expired reset token"}
	ErrUnknownEmail         = &AppError{Kind: KindUnknownEmail, Message: "no account uses this email"}
	ErrNotificationFailed   = &AppError{Kind: KindNotificationFailed, Message: "notification could not be delivered"}
	ErrNotFound             = &AppError{Kind: KindNotFound, Message: "not found"}
	ErrConflict             = &AppError{Kind: KindConflict, Message: "conflict"}
	ErrValidation           = &AppError{Kind: KindValidation, Message: "validation failed"}
)

func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s %v not found", resource, id)}
}

func NewConflictError(message string, err error) *AppError {
	return &AppError{Kind: KindConflict, Message: message, Err: err}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

func NewNotificationError(err error) *AppError {
	return &AppError{Kind: KindNotificationFailed, Message: ErrNotificationFailed.Message, Err: err}
}

// KindOf returns the kind of a domain error, or "" for infrastructure errors.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}
