package errors

import (
	"errors"
	"fmt"
)

// AppError is a domain error carrying the numeric code exposed in the
// response envelope and a message key resolved per locale by the i18n
// package.
type AppError struct {
	Code int
	Key  string
	Err  error // underlying error for wrapping
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Key, e.Err)
	}
	return e.Key
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches two AppErrors by code so wrapped copies compare equal to
// their predefined kind.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if errors.As(target, &appErr) {
		return e.Code == appErr.Code
	}
	return false
}

// New creates a new app error
func New(code int, key string) *AppError {
	return &AppError{
		Code: code,
		Key:  key,
	}
}

// Wrap attaches an underlying cause to a predefined kind.
func Wrap(kind *AppError, err error) *AppError {
	return &AppError{
		Code: kind.Code,
		Key:  kind.Key,
		Err:  err,
	}
}

// Predefined error kinds. The numeric codes are part of the wire contract
// and must not be renumbered.
var (
	ErrInternal          = New(1000, "error")
	ErrDatabase          = New(1001, "database")
	ErrUserNotFound      = New(1002, "user_not_found")
	ErrUnauthorized      = New(1003, "unauthorized")
	ErrInvalidToken      = New(1004, "invalid_token")
	ErrForbidden         = New(1005, "forbidden")
	ErrFrequencyLimited  = New(1006, "frequency_limited")
	ErrUserExists        = New(1007, "user_exists")
	ErrPasswordIncorrect = New(1008, "password_incorrect")
)

// SuccessCode is the envelope code for successful responses.
const SuccessCode = 0

// SuccessKey is the message key for successful responses.
const SuccessKey = "success"

// AsAppError extracts the app error from an error, mapping anything
// unknown to ErrInternal so no raw error leaks to the caller.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(ErrInternal, err)
}
