package models

import "errors"

// Sentinel errors shared between services and handlers. All of them are
// terminal for the request: no retries, no partial success.
var (
	// ErrDuplicateUser is returned when registering an already-taken username
	ErrDuplicateUser = errors.New("user already exists")
	// ErrInvalidCredentials is returned for both an unknown username and a
	// wrong password, so login failures cannot be used to enumerate users
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNewsNotFound is returned when no news item has the requested id
	ErrNewsNotFound = errors.New("news not found")
	// ErrForbidden is returned when the identity may not mutate the item
	ErrForbidden = errors.New("not authorized to modify this post")
)
