package app

import "errors"

// Sentinel errors shared by the application services. The web layer maps
// these to HTTP status codes.
var (
	// ErrNotFound means the requested entity does not exist or is not
	// visible to the caller.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the caller lacks permission for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrEmailTaken means an account with the email already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrBadCredentials means the email/password pair did not match.
	ErrBadCredentials = errors.New("invalid credentials")
)
