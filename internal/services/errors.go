package services

import "errors"

// ErrInvalidCredentials is returned when login fails, regardless of whether
// the identifier or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ValidationError reports a signup field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// ConflictError reports a signup username or email that is already taken.
type ConflictError struct {
	Message string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return e.Message
}
