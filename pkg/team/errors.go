package team

import "errors"

var (
	// ErrInvalidInput is returned for client-correctable problems: missing
	// fields, short passwords, duplicate emails, empty permission sets.
	// The operation aborts before any write.
	ErrInvalidInput = errors.New("team: invalid input")

	// ErrNotAuthorized is returned when the tenant's tier does not allow the
	// operation or the target account is the protected owner.
	ErrNotAuthorized = errors.New("team: not authorized")

	// ErrSeatLimitExceeded is returned when the tenant's non-admin seat
	// allowance is used up. Distinct from ErrNotAuthorized so callers can
	// point at the seat-management flow.
	ErrSeatLimitExceeded = errors.New("team: seat limit exceeded")

	// ErrBackendUnavailable is returned when the credential or record store
	// rejected a call. Not retried automatically.
	ErrBackendUnavailable = errors.New("team: backend unavailable")

	// ErrOrphanedCredential marks the partial-failure window where the login
	// credential was created but the directory write failed. The credential
	// is not rolled back; see the package documentation for the runbook.
	ErrOrphanedCredential = errors.New("team: orphaned credential, directory write failed after credential creation")
)
