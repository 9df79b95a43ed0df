package domain

import "errors"

// Authentication and authorization.
var (
	// ErrAuthenticationFailed is returned for any bad login; it never says which check failed.
	ErrAuthenticationFailed = errors.New("invalid username or password")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token expired")
	ErrUnauthorized         = errors.New("authentication required")
	ErrForbidden            = errors.New("access forbidden")
)

// Users.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
	ErrInvalidRole  = errors.New("invalid role")
)

// Videos.
var (
	ErrVideoNotFound  = errors.New("video not found")
	ErrDuplicateVideo = errors.New("video already exists")
	ErrInvalidSource  = errors.New("invalid source")
)

// ErrValidation marks input rejected before it reaches a repository.
var ErrValidation = errors.New("validation failed")
