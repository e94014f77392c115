package directory

import "errors"

var (
	// ErrUserNotFound is returned when no account matches the lookup.
	ErrUserNotFound = errors.New("directory: user not found")

	// ErrEmailTaken is returned when an email is already used by another
	// account of the same tenant.
	ErrEmailTaken = errors.New("directory: email already taken in tenant")

	// ErrServiceClosed is returned by operations on a closed Service.
	ErrServiceClosed = errors.New("directory: service is closed")
)
