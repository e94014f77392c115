package session

import "errors"

var (
	// ErrAccountNotFound is returned when the credential verified but no
	// directory account or owner record matches the email.
	ErrAccountNotFound = errors.New("session: account not found")

	// ErrAccountDisabled is returned when the matching account exists but has
	// been deactivated. The credential itself is still valid.
	ErrAccountDisabled = errors.New("session: account disabled")

	// ErrBackendUnavailable is returned when a lookup against the credential
	// or record backend failed for reasons other than the credential itself.
	ErrBackendUnavailable = errors.New("session: backend unavailable")

	// ErrNoIdentityInContext is returned by MustFromContext when no identity
	// was attached to the context.
	ErrNoIdentityInContext = errors.New("session: no identity in context")

	// ErrNotWatchable is returned by Watch for identities that have no
	// directory record behind them (operator and owner identities).
	ErrNotWatchable = errors.New("session: identity is not backed by a directory account")
)
