package auth

import (
	"errors"
	"strings"
)

// Business-rule failures. These are recovered into 4xx responses at the
// handler boundary; anything else coming out of the service is a storage or
// infrastructure failure and becomes a generic 500.
var (
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrEmailNotConfirmed     = errors.New("email is not confirmed")
	ErrUserNotFound          = errors.New("user not found")
	ErrTokenInvalidOrExpired = errors.New("invalid or expired refresh token")
)

// ValidationError carries the full field/rule error list from credential
// creation or password reset, returned to the caller unchanged.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

func validationFailed(errs ...string) *ValidationError {
	return &ValidationError{Errors: errs}
}
