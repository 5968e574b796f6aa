package service

import "errors"

// Errors returned by AuthService.  Handlers map each one to a fixed HTTP
// status and message.  Lookup misses and password mismatches are both
// ErrInvalidCredentials; every token verification failure is
// ErrInvalidToken.
var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("token missing")
	ErrInvalidToken       = errors.New("invalid token")
	ErrProfileUnavailable = errors.New("profile unavailable")
	ErrInternal           = errors.New("internal error")
)
