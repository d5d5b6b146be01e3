// Package apperrors defines the discriminated error kinds the service layer
// returns. The API layer maps each kind to an HTTP status; nothing below the
// API layer knows about status codes.
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input (non-positive cooking time or
// amount, missing required fields).
type ValidationError struct {
	msg string
	err error
}

func (e *ValidationError) Error() string { return e.msg }
func (e *ValidationError) Unwrap() error { return e.err }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// Validation wraps err as a ValidationError, keeping err reachable through
// errors.Is/As. Used with accumulated multierror values.
func Validation(err error) error {
	return &ValidationError{msg: err.Error(), err: err}
}

// ConflictError reports a uniqueness violation: duplicate (author, name)
// pair, duplicate membership, duplicate subscription.
type ConflictError struct {
	msg string
}

func (e *ConflictError) Error() string { return e.msg }

// Conflictf builds a ConflictError from a format string.
func Conflictf(format string, args ...any) error {
	return &ConflictError{msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a dangling reference or a missing row.
type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string { return e.msg }

// NotFoundf builds a NotFoundError from a format string.
func NotFoundf(format string, args ...any) error {
	return &NotFoundError{msg: fmt.Sprintf(format, args...)}
}

// AuthorizationError reports a caller acting outside their rights: a
// non-author mutating a recipe, or bad credentials.
type AuthorizationError struct {
	msg string
}

func (e *AuthorizationError) Error() string { return e.msg }

// Authorizationf builds an AuthorizationError from a format string.
func Authorizationf(format string, args ...any) error {
	return &AuthorizationError{msg: fmt.Sprintf(format, args...)}
}

// StorageError wraps a storage-layer fault. The transaction it interrupted
// has been rolled back; callers never observe a partially applied write.
type StorageError struct {
	err error
}

func (e *StorageError) Error() string { return "storage: " + e.err.Error() }
func (e *StorageError) Unwrap() error { return e.err }

// Storage wraps err as a StorageError. Returns nil when err is nil, and
// passes already-typed errors through unchanged.
func Storage(err error) error {
	if err == nil {
		return nil
	}
	if IsTyped(err) {
		return err
	}
	return &StorageError{err: err}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsAuthorization reports whether err is an AuthorizationError.
func IsAuthorization(err error) bool {
	var target *AuthorizationError
	return errors.As(err, &target)
}

// IsTyped reports whether err already carries one of the discriminated
// kinds.
func IsTyped(err error) bool {
	return IsValidation(err) || IsConflict(err) || IsNotFound(err) || IsAuthorization(err)
}
