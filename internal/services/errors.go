package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

type ErrorKind string

const (
	KindNotFound         ErrorKind = "not_found"
	KindForbidden        ErrorKind = "forbidden"
	KindConflict         ErrorKind = "conflict"
	KindInvalidOperation ErrorKind = "invalid_operation"
	KindStorageError     ErrorKind = "storage_error"
	KindAuthError        ErrorKind = "auth_error"
)

// Error is the typed result every service operation fails with. Message is
// safe to return to callers; Err keeps the underlying cause for logs and is
// never serialized.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func ErrNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func ErrForbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func ErrConflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func ErrInvalidOperation(message string) *Error {
	return &Error{Kind: KindInvalidOperation, Message: message}
}

func ErrStorage(message string, err error) *Error {
	return &Error{Kind: KindStorageError, Message: message, Err: err}
}

func ErrAuth(message string) *Error {
	return &Error{Kind: KindAuthError, Message: message}
}

// KindOf extracts the error kind, or an empty string for untyped errors.
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return ""
}

// isUniqueViolation recognizes uniqueness-constraint failures from both the
// postgres driver (translated by gorm) and the sqlite driver used in tests.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
